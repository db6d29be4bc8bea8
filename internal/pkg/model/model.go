package model

import "encoding/json"

// Raw payload shapes of the AEMO dashboard reports. Field names mirror the
// upstream JSON keys; timestamps stay as strings here and are parsed by the
// normalizer so malformed values surface where they can be attributed.

// ################################
// report 5MIN

type FiveMinResponse struct {
	FiveMin []FiveMinRecord `json:"5MIN"`
}

type FiveMinRecord struct {
	RegionID       string     `json:"REGIONID"`
	SettlementDate string     `json:"SETTLEMENTDATE"`
	PeriodType     PeriodType `json:"PERIODTYPE"`
	RRP            float64    `json:"RRP"`
	TotalDemand    float64    `json:"TOTALDEMAND"`
	NetInterchange float64    `json:"NETINTERCHANGE"`
}

// ################################
// report NEM_DASHBOARD_CUMUL_PRICE

type CumulativePriceResponse struct {
	Records []CumulativePriceRecord `json:"NEM_DASHBOARD_CUMUL_PRICE"`
}

// CumulativePriceRecord uses the compact field names of the dashboard feed.
// A is a 0/1 indicator: 1 for an actual period, 0 for a forecast period.
type CumulativePriceRecord struct {
	RegionID        string  `json:"R"`
	SettlementDate  string  `json:"DT"`
	Actual          int     `json:"A"`
	Price           float64 `json:"P"`
	CumulativePrice float64 `json:"CP"`
}

// ################################
// report NEM_DASHBOARD_MARKET_PRICE_LIMITS

type MarketPriceLimitsResponse struct {
	Limits []MarketPriceLimit `json:"NEM_DASHBOARD_MARKET_PRICE_LIMITS"`
}

type MarketPriceLimit struct {
	Key   string  `json:"KEY"`
	Value float64 `json:"VALUE"`
}

const (
	LimitKeyAdministeredPriceCap     = "AdministeredPriceCap"
	LimitKeyCumulativePriceThreshold = "CumulativePriceThreshold"
	LimitKeyMarketPriceCap           = "MarketPriceCap"
)

// MarketLimits holds the market wide caps and thresholds. Fetched once per
// service lifetime and shared read-only across aggregation calls.
type MarketLimits struct {
	AdministeredPriceCap     float64 `json:"administered_price_cap"`
	MarketPriceCap           float64 `json:"market_price_cap"`
	CumulativePriceThreshold float64 `json:"cumulative_price_threshold"`
}

// ################################
// report ELEC_NEM_SUMMARY

type NemSummaryResponse struct {
	Summaries []NemSummaryRecord `json:"ELEC_NEM_SUMMARY"`
	// Decoded but not consumed by the aggregation engine.
	Notices []MarketNotice    `json:"ELEC_NEM_SUMMARY_MARKET_NOTICE"`
	Prices  []NemSummaryPrice `json:"ELEC_NEM_SUMMARY_PRICES"`
}

type NemSummaryRecord struct {
	RegionID                string              `json:"REGIONID"`
	SettlementDate          string              `json:"SETTLEMENTDATE"`
	TotalDemand             float64             `json:"TOTALDEMAND"`
	ScheduledGeneration     float64             `json:"SCHEDULEDGENERATION"`
	SemiScheduledGeneration float64             `json:"SEMISCHEDULEDGENERATION"`
	NetInterchange          float64             `json:"NETINTERCHANGE"`
	MarketSuspendedFlag     int                 `json:"MARKETSUSPENDEDFLAG"`
	ApcFlag                 int                 `json:"APCFLAG"`
	InterconnectorFlows     InterconnectorFlows `json:"INTERCONNECTORFLOWS"`
}

type MarketNotice struct {
	NoticeID      int    `json:"NOTICE_ID"`
	EffectiveDate string `json:"EFFECTIVE_DATE"`
	TypeID        string `json:"TYPE_ID"`
	Reason        string `json:"REASON"`
}

type NemSummaryPrice struct {
	RegionID       string  `json:"REGIONID"`
	SettlementDate string  `json:"SETTLEMENTDATE"`
	RRP            float64 `json:"RRP"`
}

type InterconnectorFlow struct {
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	ExportLimit float64 `json:"exportlimit"`
	ImportLimit float64 `json:"importlimit"`
}

type InterconnectorFlows []InterconnectorFlow

// UnmarshalJSON handles the upstream quirk that INTERCONNECTORFLOWS arrives
// as a JSON array embedded inside a JSON string.
func (f *InterconnectorFlows) UnmarshalJSON(data []byte) error {
	var embedded string
	if err := json.Unmarshal(data, &embedded); err == nil {
		if embedded == "" {
			*f = nil
			return nil
		}
		data = []byte(embedded)
	}
	var flows []InterconnectorFlow
	if err := json.Unmarshal(data, &flows); err != nil {
		return err
	}
	*f = flows
	return nil
}

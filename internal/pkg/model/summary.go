package model

import "time"

// ForecastEntry is one forward interval in a region summary, price in $/kWh.
type ForecastEntry struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Price     float64   `json:"price"`
}

// RegionSummary is the per-region output of one aggregation call. Prices are
// $/kWh rounded to 4 decimal places unless noted otherwise. Current30MinAvg is
// nil when the active window holds no actual records yet.
//
// Interconnector flows stay an ordered list here; flattening flow names into
// individually named fields is a presentation concern of the publisher.
type RegionSummary struct {
	RegionID                      RegionID             `json:"region_id"`
	Current5MinPeriodPrice        float64              `json:"current_5min_period_price"`
	Current30MinAvg               *float64             `json:"current_30min_avg"`
	Current30MinForecast          float64              `json:"current_30min_forecast"`
	Current30MinEstimated         float64              `json:"current_30min_estimated"`
	CurrentCumulativePrice        int64                `json:"current_cumulative_price"`
	CurrentPercentCumulativePrice float64              `json:"current_percent_cumulative_price"`
	AdministeredPriceCap          float64              `json:"administered_price_cap"`
	MarketPriceCap                float64              `json:"market_price_cap"`
	CumulativePriceThreshold      float64              `json:"cumulative_price_threshold"`
	MarketSuspendedFlag           bool                 `json:"market_suspended_flag"`
	ApcFlag                       bool                 `json:"apc_flag"`
	PeriodsOfCurrent30Min         int                  `json:"periods_of_current_30min"`
	Forecast                      []ForecastEntry      `json:"forecast"`
	TotalDemand                   float64              `json:"total_demand"`
	ScheduledGeneration           float64              `json:"scheduled_generation"`
	SemiScheduledGeneration       float64              `json:"semi_scheduled_generation"`
	NetInterconnectorFlows        float64              `json:"net_interconnector_flows"`
	InterconnectorFlows           []InterconnectorFlow `json:"interconnector_flows"`
	SettlementDate                time.Time            `json:"settlement_date"`
}

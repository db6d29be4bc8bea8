package model

// PeriodType classifies a 5 minute dispatch record.
type PeriodType string

func (pt PeriodType) String() string {
	return string(pt)
}

const (
	PeriodTypeActual   PeriodType = "ACTUAL"
	PeriodTypeForecast PeriodType = "FORECAST"
)

// RegionID is the canonical AEMO region identifier, e.g. NSW1.
type RegionID string

func (r RegionID) String() string {
	return string(r)
}

const (
	RegionNSW RegionID = "NSW1"
	RegionQLD RegionID = "QLD1"
	RegionVIC RegionID = "VIC1"
	RegionSA  RegionID = "SA1"
	RegionTAS RegionID = "TAS1"
)

// Regions maps the lowercase short codes accepted on the public surface
// to canonical region identifiers.
var Regions = map[string]RegionID{
	"nsw": RegionNSW,
	"qld": RegionQLD,
	"vic": RegionVIC,
	"sa":  RegionSA,
	"tas": RegionTAS,
}

type (
	TextField  string
	TextFields []TextField
)

const (
	MarketSuspendedTextField TextField = "market_suspended_flag"
	ApcTextField             TextField = "apc_flag"
	SettlementDateTextField  TextField = "settlement_date"
)

func (t TextField) String() string {
	return string(t)
}

func (ts TextFields) HasSlug(slug string) bool {
	for _, t := range ts {
		if t.String() == slug {
			return true
		}
	}
	return false
}

// TextSensors are summary fields published as text state rather than numeric state.
var TextSensors = TextFields{
	MarketSuspendedTextField,
	ApcTextField,
	SettlementDateTextField,
}

package nem

import (
	"time"

	"github.com/anicoll/nem-integration/internal/pkg/model"
)

// RegionSnapshot is the normalized per-region grid state from the NEM summary
// report.
type RegionSnapshot struct {
	RegionID                model.RegionID
	SettlementTime          time.Time
	TotalDemand             float64
	ScheduledGeneration     float64
	SemiScheduledGeneration float64
	NetInterchange          float64
	MarketSuspended         bool
	Apc                     bool
	Flows                   []model.InterconnectorFlow
}

// NormalizeSnapshot converts a raw summary record, mapping the 0/1 status
// codes onto booleans.
func NormalizeSnapshot(raw model.NemSummaryRecord) (RegionSnapshot, error) {
	settlement, err := parseFeedTime(raw.SettlementDate)
	if err != nil {
		return RegionSnapshot{}, err
	}
	return RegionSnapshot{
		RegionID:                model.RegionID(raw.RegionID),
		SettlementTime:          settlement,
		TotalDemand:             raw.TotalDemand,
		ScheduledGeneration:     raw.ScheduledGeneration,
		SemiScheduledGeneration: raw.SemiScheduledGeneration,
		NetInterchange:          raw.NetInterchange,
		MarketSuspended:         raw.MarketSuspendedFlag == 1,
		Apc:                     raw.ApcFlag == 1,
		Flows:                   raw.InterconnectorFlows,
	}, nil
}

// MergeContext combines the aggregation result with the market wide limits
// and the region's grid snapshot into the final summary. Flows are carried as
// an ordered list; two flows sharing a name is undefined behavior upstream and
// both entries are kept as received.
func MergeContext(agg AggregateResult, limits model.MarketLimits, snap RegionSnapshot) model.RegionSummary {
	return model.RegionSummary{
		RegionID:                      agg.RegionID,
		Current5MinPeriodPrice:        agg.Current5MinPeriodPrice,
		Current30MinAvg:               agg.Avg30Min,
		Current30MinForecast:          agg.Forecast30Min,
		Current30MinEstimated:         agg.Estimated30Min,
		CurrentCumulativePrice:        agg.CumulativePrice,
		CurrentPercentCumulativePrice: agg.PercentCumulativePrice,
		AdministeredPriceCap:          limits.AdministeredPriceCap,
		MarketPriceCap:                limits.MarketPriceCap,
		CumulativePriceThreshold:      limits.CumulativePriceThreshold,
		MarketSuspendedFlag:           snap.MarketSuspended,
		ApcFlag:                       snap.Apc,
		PeriodsOfCurrent30Min:         agg.Periods,
		Forecast:                      agg.ForecastEntries,
		TotalDemand:                   snap.TotalDemand,
		ScheduledGeneration:           snap.ScheduledGeneration,
		SemiScheduledGeneration:       snap.SemiScheduledGeneration,
		NetInterconnectorFlows:        snap.NetInterchange,
		InterconnectorFlows:           snap.Flows,
		SettlementDate:                snap.SettlementTime,
	}
}

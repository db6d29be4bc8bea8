package nem

import (
	"fmt"
	"math"

	"github.com/anicoll/nem-integration/internal/pkg/model"
	"github.com/samber/lo"
)

// AggregateResult is the per-region output of the settlement window math,
// before the market context is merged in. Prices are $/kWh.
type AggregateResult struct {
	RegionID               model.RegionID
	Periods                int
	Current5MinPeriodPrice float64
	Avg30Min               *float64
	Forecast30Min          float64
	Estimated30Min         float64
	CumulativePrice        int64
	PercentCumulativePrice float64
	ForecastEntries        []model.ForecastEntry
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Aggregate blends the window's actual prices with the nearest forecast.
//
// With n filled slots the 30 minute estimate prices each of the 6-n missing
// periods at the nearest forecast value, so it degenerates to the forecast
// when the window is empty and to the true average when it is full.
func Aggregate(regionID model.RegionID, actuals, forecasts []PriceRecord, slots Slots, threshold float64) (AggregateResult, error) {
	if len(actuals) == 0 {
		return AggregateResult{}, fmt.Errorf("%w: no actual records for region %s", ErrDataUnavailable, regionID)
	}
	if len(forecasts) == 0 {
		return AggregateResult{}, fmt.Errorf("%w: no forecast records for region %s", ErrDataUnavailable, regionID)
	}

	n := slots.Filled()
	sumActualKW := 0.0
	for _, slot := range slots {
		if slot.Record != nil {
			sumActualKW += slot.Record.PricePerKW
		}
	}

	var avg *float64
	if n > 0 {
		v := round(sumActualKW/float64(n), 4)
		avg = &v
	}

	nearest := lo.MinBy(forecasts, func(a, b PriceRecord) bool {
		return a.SettlementTime.Before(b.SettlementTime)
	})
	forecastKW := round(nearest.PricePerKW, 4)

	estimated := round((sumActualKW+forecastKW*float64(SlotCount-n))/float64(SlotCount), 4)

	latest := lo.MaxBy(actuals, func(a, b PriceRecord) bool {
		return a.SettlementTime.After(b.SettlementTime)
	})
	if latest.CumulativePrice == nil {
		return AggregateResult{}, fmt.Errorf("%w: no cumulative price for region %s", ErrDataUnavailable, regionID)
	}
	cumulative := math.Round(*latest.CumulativePrice)

	entries := make([]model.ForecastEntry, 0, len(forecasts))
	for _, rec := range forecasts {
		entries = append(entries, model.ForecastEntry{
			StartTime: rec.PeriodStart,
			EndTime:   rec.SettlementTime,
			Price:     rec.PricePerKW,
		})
	}

	return AggregateResult{
		RegionID:               regionID,
		Periods:                n,
		Current5MinPeriodPrice: round(latest.PricePerKW, 4),
		Avg30Min:               avg,
		Forecast30Min:          forecastKW,
		Estimated30Min:         estimated,
		CumulativePrice:        int64(cumulative),
		PercentCumulativePrice: round(cumulative/threshold*100, 2),
		ForecastEntries:        entries,
	}, nil
}

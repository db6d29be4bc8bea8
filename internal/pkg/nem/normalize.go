package nem

import (
	"fmt"
	"time"

	"github.com/anicoll/nem-integration/internal/pkg/model"
)

// feedTimeLayout is the timestamp format of the dashboard feeds. The values
// carry no offset, they are market local time.
const feedTimeLayout = "2006-01-02T15:04:05"

// PriceRecord is the canonical shape both price feeds normalize into.
// PricePerKW is PricePerMW / 1000 with no rounding at this layer, rounding is
// a presentation concern of the aggregator. CumulativePrice is nil for records
// from the 5 minute feed, which does not carry one.
type PriceRecord struct {
	PeriodType      model.PeriodType
	SettlementTime  time.Time
	PeriodStart     time.Time
	RegionID        model.RegionID
	PricePerMW      float64
	PricePerKW      float64
	CumulativePrice *float64
}

func parseFeedTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(feedTimeLayout, s, MarketTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse settlement time %q: %w", s, err)
	}
	return t, nil
}

// periodStart derives the nominal start of a record's settlement period:
// actual records settle 5 minutes after their period starts, forecast records
// cover a full 30 minute window ending at their settlement time.
func periodStart(pt model.PeriodType, settlement time.Time) time.Time {
	if pt == model.PeriodTypeActual {
		return settlement.Add(-5 * time.Minute)
	}
	return settlement.Add(-30 * time.Minute)
}

// NormalizeFiveMin converts a raw 5MIN report entry, classifying the period
// from its explicit PERIODTYPE literal.
func NormalizeFiveMin(raw model.FiveMinRecord) (PriceRecord, error) {
	settlement, err := parseFeedTime(raw.SettlementDate)
	if err != nil {
		return PriceRecord{}, err
	}
	switch raw.PeriodType {
	case model.PeriodTypeActual, model.PeriodTypeForecast:
	default:
		return PriceRecord{}, fmt.Errorf("%w: period type %q", ErrIntegrity, raw.PeriodType)
	}
	return PriceRecord{
		PeriodType:     raw.PeriodType,
		SettlementTime: settlement,
		PeriodStart:    periodStart(raw.PeriodType, settlement),
		RegionID:       model.RegionID(raw.RegionID),
		PricePerMW:     raw.RRP,
		PricePerKW:     raw.RRP / 1000,
	}, nil
}

// NormalizeCumulative converts a raw cumulative price entry, classifying the
// period from its 0/1 indicator flag.
func NormalizeCumulative(raw model.CumulativePriceRecord) (PriceRecord, error) {
	settlement, err := parseFeedTime(raw.SettlementDate)
	if err != nil {
		return PriceRecord{}, err
	}
	var pt model.PeriodType
	switch raw.Actual {
	case 1:
		pt = model.PeriodTypeActual
	case 0:
		pt = model.PeriodTypeForecast
	default:
		return PriceRecord{}, fmt.Errorf("%w: actual indicator %d", ErrIntegrity, raw.Actual)
	}
	cumulative := raw.CumulativePrice
	return PriceRecord{
		PeriodType:      pt,
		SettlementTime:  settlement,
		PeriodStart:     periodStart(pt, settlement),
		RegionID:        model.RegionID(raw.RegionID),
		PricePerMW:      raw.Price,
		PricePerKW:      raw.Price / 1000,
		CumulativePrice: &cumulative,
	}, nil
}

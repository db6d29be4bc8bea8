package pricewatch

import (
	"context"
	"strconv"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/anicoll/nem-integration/internal/pkg/model"
	"github.com/anicoll/nem-integration/internal/pkg/publisher"
)

type database interface {
	GetLatestSummaries(ctx context.Context) ([]model.RegionSummary, error)
}

type alertSink interface {
	Write(ctx context.Context, data []map[string]any) error
}

// Watcher inspects the latest stored summaries and raises alert states when a
// region's cumulative price approaches the threshold or a regulatory flag
// trips.
type Watcher struct {
	db         database
	sink       alertSink
	percentMax float64
	logger     *zap.Logger
}

func New(db database, sink alertSink, percentMax float64) *Watcher {
	return &Watcher{
		db:         db,
		sink:       sink,
		percentMax: percentMax,
		logger:     zap.L(),
	}
}

// Check runs one pass over the stored summaries.
func (w *Watcher) Check(ctx context.Context) error {
	summaries, err := w.db.GetLatestSummaries(ctx)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		return nil
	}

	alerts := make([]map[string]any, 0)
	for _, summary := range summaries {
		level := "ok"
		switch {
		case summary.MarketSuspendedFlag:
			level = "market_suspended"
		case summary.ApcFlag:
			level = "administered_price_cap"
		case summary.CurrentPercentCumulativePrice >= w.percentMax:
			level = "cumulative_price_high"
		}
		if level != "ok" {
			w.logger.Warn("price alert",
				zap.String("region", summary.RegionID.String()),
				zap.String("level", level),
				zap.Float64("percent_cumulative_price", summary.CurrentPercentCumulativePrice))
		}
		alerts = append(alerts, map[string]any{
			"value":               level,
			"slug":                "price_alert",
			"timestamp":           time.Now(),
			"identifier":          publisher.Identifier(summary.RegionID),
			"unit_of_measurement": "",
		})
	}

	// Log the region closest to the threshold, useful when scanning operator logs.
	hottest := lo.MaxBy(summaries, func(a, b model.RegionSummary) bool {
		return a.CurrentPercentCumulativePrice > b.CurrentPercentCumulativePrice
	})
	w.logger.Debug("price watch pass complete",
		zap.String("hottest_region", hottest.RegionID.String()),
		zap.String("percent", strconv.FormatFloat(hottest.CurrentPercentCumulativePrice, 'f', 2, 64)))

	if _, suspended := lo.Find(summaries, func(s model.RegionSummary) bool {
		return s.MarketSuspendedFlag
	}); suspended {
		w.logger.Warn("at least one region reports the market suspended")
	}

	return w.sink.Write(ctx, alerts)
}

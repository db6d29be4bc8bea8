package cmd

import (
	"context"

	"github.com/anicoll/nem-integration/internal/pkg/model"
	"github.com/anicoll/nem-integration/internal/pkg/nem"
)

// AggregatorService is what cmd expects from the aggregation engine.
type AggregatorService interface {
	GetCurrentSummaries(ctx context.Context, codes []string) (map[model.RegionID]model.RegionSummary, error)
}

// PriceSource is the slice of the market data source the poll loop uses
// directly, for archiving the raw 5 minute feed.
type PriceSource interface {
	FiveMinutePrices(ctx context.Context) (*model.FiveMinResponse, error)
}

// Storage is what cmd expects from the database layer.
type Storage interface {
	WriteSummaries(ctx context.Context, summaries map[model.RegionID]model.RegionSummary) error
	WritePriceRecords(ctx context.Context, records []nem.PriceRecord) error
	GetLatestSummaries(ctx context.Context) ([]model.RegionSummary, error)
	Cleanup(ctx context.Context) error
	Write(ctx context.Context, data []map[string]any) error
}

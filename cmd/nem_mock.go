package cmd

import (
	"context"
	"errors"

	"github.com/anicoll/nem-integration/internal/pkg/model"
	"github.com/anicoll/nem-integration/internal/pkg/nem"
)

// MockAggregator is a mock implementation of the AggregatorService interface.
type MockAggregator struct {
	GetCurrentSummariesFunc func(ctx context.Context, codes []string) (map[model.RegionID]model.RegionSummary, error)
}

func (m *MockAggregator) GetCurrentSummaries(ctx context.Context, codes []string) (map[model.RegionID]model.RegionSummary, error) {
	if m.GetCurrentSummariesFunc != nil {
		return m.GetCurrentSummariesFunc(ctx, codes)
	}
	return map[model.RegionID]model.RegionSummary{}, nil
}

// MockPriceSource is a mock implementation of the PriceSource interface.
type MockPriceSource struct {
	FiveMinutePricesFunc func(ctx context.Context) (*model.FiveMinResponse, error)
}

func (m *MockPriceSource) FiveMinutePrices(ctx context.Context) (*model.FiveMinResponse, error) {
	if m.FiveMinutePricesFunc != nil {
		return m.FiveMinutePricesFunc(ctx)
	}
	return &model.FiveMinResponse{}, nil
}

// MockStorage is a mock implementation of the Storage interface.
type MockStorage struct {
	WriteSummariesFunc     func(ctx context.Context, summaries map[model.RegionID]model.RegionSummary) error
	WritePriceRecordsFunc  func(ctx context.Context, records []nem.PriceRecord) error
	GetLatestSummariesFunc func(ctx context.Context) ([]model.RegionSummary, error)
	CleanupFunc            func(ctx context.Context) error
	WriteFunc              func(ctx context.Context, data []map[string]any) error
}

func (m *MockStorage) WriteSummaries(ctx context.Context, summaries map[model.RegionID]model.RegionSummary) error {
	if m.WriteSummariesFunc != nil {
		return m.WriteSummariesFunc(ctx, summaries)
	}
	return nil
}

func (m *MockStorage) WritePriceRecords(ctx context.Context, records []nem.PriceRecord) error {
	if m.WritePriceRecordsFunc != nil {
		return m.WritePriceRecordsFunc(ctx, records)
	}
	return nil
}

func (m *MockStorage) GetLatestSummaries(ctx context.Context) ([]model.RegionSummary, error) {
	if m.GetLatestSummariesFunc != nil {
		return m.GetLatestSummariesFunc(ctx)
	}
	return nil, errors.New("mocked GetLatestSummaries not implemented")
}

func (m *MockStorage) Cleanup(ctx context.Context) error {
	if m.CleanupFunc != nil {
		return m.CleanupFunc(ctx)
	}
	return nil
}

func (m *MockStorage) Write(ctx context.Context, data []map[string]any) error {
	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, data)
	}
	return nil
}

package pricewatch

import (
	"context"
	"errors"
	"testing"

	"github.com/anicoll/nem-integration/internal/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockDatabase struct {
	getLatestSummariesFunc func(ctx context.Context) ([]model.RegionSummary, error)
}

func (m *mockDatabase) GetLatestSummaries(ctx context.Context) ([]model.RegionSummary, error) {
	return m.getLatestSummariesFunc(ctx)
}

type mockSink struct {
	writeFunc func(ctx context.Context, data []map[string]any) error
}

func (m *mockSink) Write(ctx context.Context, data []map[string]any) error {
	return m.writeFunc(ctx, data)
}

func levelFor(t *testing.T, alerts []map[string]any, identifier string) string {
	t.Helper()
	for _, alert := range alerts {
		if alert["identifier"] == identifier {
			return alert["value"].(string)
		}
	}
	t.Fatalf("no alert for %s", identifier)
	return ""
}

func TestCheck_AlertLevels(t *testing.T) {
	db := &mockDatabase{
		getLatestSummariesFunc: func(ctx context.Context) ([]model.RegionSummary, error) {
			return []model.RegionSummary{
				{RegionID: model.RegionNSW, CurrentPercentCumulativePrice: 19.13},
				{RegionID: model.RegionQLD, CurrentPercentCumulativePrice: 85.2},
				{RegionID: model.RegionSA, ApcFlag: true, CurrentPercentCumulativePrice: 91.0},
				{RegionID: model.RegionVIC, MarketSuspendedFlag: true},
			}, nil
		},
	}
	var alerts []map[string]any
	sink := &mockSink{
		writeFunc: func(ctx context.Context, data []map[string]any) error {
			alerts = data
			return nil
		},
	}

	watcher := New(db, sink, 80)
	require.NoError(t, watcher.Check(context.Background()))

	require.Len(t, alerts, 4)
	assert.Equal(t, "ok", levelFor(t, alerts, "nem_nsw1"))
	assert.Equal(t, "cumulative_price_high", levelFor(t, alerts, "nem_qld1"))
	// The suspension and APC flags outrank the percent threshold.
	assert.Equal(t, "administered_price_cap", levelFor(t, alerts, "nem_sa1"))
	assert.Equal(t, "market_suspended", levelFor(t, alerts, "nem_vic1"))
}

func TestCheck_NoSummariesWritesNothing(t *testing.T) {
	db := &mockDatabase{
		getLatestSummariesFunc: func(ctx context.Context) ([]model.RegionSummary, error) {
			return nil, nil
		},
	}
	sink := &mockSink{
		writeFunc: func(ctx context.Context, data []map[string]any) error {
			t.Fatal("sink should not be written")
			return nil
		},
	}

	watcher := New(db, sink, 80)
	assert.NoError(t, watcher.Check(context.Background()))
}

func TestCheck_DatabaseErrorPropagates(t *testing.T) {
	dbErr := errors.New("connection refused")
	db := &mockDatabase{
		getLatestSummariesFunc: func(ctx context.Context) ([]model.RegionSummary, error) {
			return nil, dbErr
		},
	}
	sink := &mockSink{
		writeFunc: func(ctx context.Context, data []map[string]any) error { return nil },
	}

	watcher := New(db, sink, 80)
	assert.ErrorIs(t, watcher.Check(context.Background()), dbErr)
}

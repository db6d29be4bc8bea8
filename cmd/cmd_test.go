package cmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/anicoll/nem-integration/internal/pkg/config"
	"github.com/anicoll/nem-integration/internal/pkg/model"
	"github.com/anicoll/nem-integration/internal/pkg/nem"
)

func TestPollOnce_WritesSummariesAndPriceArchive(t *testing.T) {
	zap.ReplaceGlobals(zaptest.NewLogger(t))
	cfg := &config.Config{Regions: []string{"nsw"}}

	summaries := map[model.RegionID]model.RegionSummary{
		model.RegionNSW: {RegionID: model.RegionNSW, TotalDemand: 7542.2},
	}
	agg := &MockAggregator{
		GetCurrentSummariesFunc: func(ctx context.Context, codes []string) (map[model.RegionID]model.RegionSummary, error) {
			if len(codes) != 1 || codes[0] != "nsw" {
				t.Errorf("unexpected codes %v", codes)
			}
			return summaries, nil
		},
	}
	source := &MockPriceSource{
		FiveMinutePricesFunc: func(ctx context.Context) (*model.FiveMinResponse, error) {
			return &model.FiveMinResponse{FiveMin: []model.FiveMinRecord{
				{RegionID: "NSW1", SettlementDate: "2026-08-30T10:05:00", PeriodType: model.PeriodTypeActual, RRP: 50000},
				// Malformed timestamp, dropped with a warning instead of failing the pass.
				{RegionID: "NSW1", SettlementDate: "bad", PeriodType: model.PeriodTypeActual, RRP: 60000},
			}}, nil
		},
	}

	var wroteSummaries map[model.RegionID]model.RegionSummary
	var wroteRecords []nem.PriceRecord
	db := &MockStorage{
		WriteSummariesFunc: func(ctx context.Context, s map[model.RegionID]model.RegionSummary) error {
			wroteSummaries = s
			return nil
		},
		WritePriceRecordsFunc: func(ctx context.Context, records []nem.PriceRecord) error {
			wroteRecords = records
			return nil
		},
	}

	if err := pollOnce(context.Background(), cfg, agg, source, db); err != nil {
		t.Fatalf("pollOnce failed: %v", err)
	}

	if len(wroteSummaries) != 1 {
		t.Errorf("expected 1 summary written, got %d", len(wroteSummaries))
	}
	if len(wroteRecords) != 1 {
		t.Fatalf("expected 1 price record written, got %d", len(wroteRecords))
	}
	if wroteRecords[0].PricePerKW != 50.0 {
		t.Errorf("expected price 50.0 $/kWh, got %v", wroteRecords[0].PricePerKW)
	}
}

func TestPollOnce_AggregatorErrorStopsPass(t *testing.T) {
	zap.ReplaceGlobals(zaptest.NewLogger(t))
	cfg := &config.Config{Regions: []string{"nsw"}}

	aggErr := errors.New("upstream down")
	agg := &MockAggregator{
		GetCurrentSummariesFunc: func(ctx context.Context, codes []string) (map[model.RegionID]model.RegionSummary, error) {
			return nil, aggErr
		},
	}
	db := &MockStorage{
		WriteSummariesFunc: func(ctx context.Context, s map[model.RegionID]model.RegionSummary) error {
			t.Error("WriteSummaries should not be called")
			return nil
		},
	}

	err := pollOnce(context.Background(), cfg, agg, &MockPriceSource{}, db)
	if !errors.Is(err, aggErr) {
		t.Errorf("expected %v, got %v", aggErr, err)
	}
}

func TestPollOnce_SummaryWriteErrorSkipsArchive(t *testing.T) {
	zap.ReplaceGlobals(zaptest.NewLogger(t))
	cfg := &config.Config{Regions: []string{"nsw"}}

	writeErr := errors.New("database gone")
	source := &MockPriceSource{
		FiveMinutePricesFunc: func(ctx context.Context) (*model.FiveMinResponse, error) {
			t.Error("FiveMinutePrices should not be called after a failed summary write")
			return nil, nil
		},
	}
	db := &MockStorage{
		WriteSummariesFunc: func(ctx context.Context, s map[model.RegionID]model.RegionSummary) error {
			return writeErr
		},
	}

	err := pollOnce(context.Background(), cfg, &MockAggregator{}, source, db)
	if !errors.Is(err, writeErr) {
		t.Errorf("expected %v, got %v", writeErr, err)
	}
}

func TestCronDbCleanup_InitialCleanupErrorReturns(t *testing.T) {
	zap.ReplaceGlobals(zaptest.NewLogger(t))

	cleanupErr := errors.New("cleanup failed")
	db := &MockStorage{
		CleanupFunc: func(ctx context.Context) error {
			return cleanupErr
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	errChan := make(chan error, 1)
	err := cronDbCleanup(ctx, db, errChan)
	if !errors.Is(err, cleanupErr) {
		t.Errorf("expected %v, got %v", cleanupErr, err)
	}
}

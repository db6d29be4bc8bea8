package database

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/anicoll/nem-integration/internal/pkg/database/migration"
	"github.com/anicoll/nem-integration/internal/pkg/model"
	"github.com/anicoll/nem-integration/internal/pkg/nem"
)

func setupDatabase(t *testing.T) *Database {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("nem"),
		tcpostgres.WithUsername("nem"),
		tcpostgres.WithPassword("nem"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, migration.Migrate(dsn, "../../../migrations"))

	conn, err := pgx.Connect(ctx, dsn)
	require.NoError(t, err)
	db := NewDatabase(conn)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func TestWriteAndReadPriceRecords(t *testing.T) {
	db := setupDatabase(t)
	ctx := context.Background()

	settlement := time.Date(2026, 8, 30, 10, 5, 0, 0, nem.MarketTime)
	cumulative := 260000.6
	records := []nem.PriceRecord{
		{
			RegionID:        model.RegionNSW,
			PeriodType:      model.PeriodTypeActual,
			SettlementTime:  settlement,
			PeriodStart:     settlement.Add(-5 * time.Minute),
			PricePerMW:      50000,
			PricePerKW:      50,
			CumulativePrice: &cumulative,
		},
		{
			RegionID:       model.RegionNSW,
			PeriodType:     model.PeriodTypeForecast,
			SettlementTime: settlement.Add(25 * time.Minute),
			PeriodStart:    settlement.Add(-5 * time.Minute),
			PricePerMW:     80000,
			PricePerKW:     80,
		},
	}
	require.NoError(t, db.WritePriceRecords(ctx, records))

	got, err := db.GetPriceRecords(ctx, model.RegionNSW, nil, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Newest settlement first.
	assert.Equal(t, model.PeriodTypeForecast, got[0].PeriodType)
	assert.Equal(t, 50.0, got[1].PricePerKW)
	require.NotNil(t, got[1].CumulativePrice)
	assert.Equal(t, 260000.6, *got[1].CumulativePrice)
}

func TestWritePriceRecords_UpsertOnConflict(t *testing.T) {
	db := setupDatabase(t)
	ctx := context.Background()

	settlement := time.Date(2026, 8, 30, 10, 5, 0, 0, nem.MarketTime)
	record := nem.PriceRecord{
		RegionID:       model.RegionVIC,
		PeriodType:     model.PeriodTypeActual,
		SettlementTime: settlement,
		PeriodStart:    settlement.Add(-5 * time.Minute),
		PricePerMW:     50000,
		PricePerKW:     50,
	}
	require.NoError(t, db.WritePriceRecords(ctx, []nem.PriceRecord{record}))

	record.PricePerMW = 60000
	record.PricePerKW = 60
	require.NoError(t, db.WritePriceRecords(ctx, []nem.PriceRecord{record}))

	got, err := db.GetPriceRecords(ctx, model.RegionVIC, nil, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 60.0, got[0].PricePerKW)
}

func TestWriteAndReadSummaries(t *testing.T) {
	db := setupDatabase(t)
	ctx := context.Background()

	avg := 0.06
	first := map[model.RegionID]model.RegionSummary{
		model.RegionSA: {
			RegionID:               model.RegionSA,
			Current30MinAvg:        &avg,
			CurrentCumulativePrice: 100000,
			TotalDemand:            1412.5,
			SettlementDate:         time.Date(2026, 8, 30, 10, 10, 0, 0, time.UTC),
		},
	}
	require.NoError(t, db.WriteSummaries(ctx, first))

	second := first
	second[model.RegionSA] = model.RegionSummary{
		RegionID:               model.RegionSA,
		CurrentCumulativePrice: 120000,
		TotalDemand:            1500,
		SettlementDate:         time.Date(2026, 8, 30, 10, 15, 0, 0, time.UTC),
	}
	require.NoError(t, db.WriteSummaries(ctx, second))

	got, err := db.GetLatestSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.RegionSA, got[0].RegionID)
	assert.Equal(t, int64(120000), got[0].CurrentCumulativePrice)
}

func TestWriteSensorRowsAndCleanup(t *testing.T) {
	db := setupDatabase(t)
	ctx := context.Background()

	require.NoError(t, db.RegisterRegion(model.RegionTAS))
	// Second registration is a no-op.
	require.NoError(t, db.RegisterRegion(model.RegionTAS))

	require.NoError(t, db.Write(ctx, []map[string]any{
		{
			"value":               "1100.00",
			"slug":                "total_demand",
			"timestamp":           time.Now(),
			"identifier":          "nem_tas1",
			"unit_of_measurement": "MW",
		},
	}))

	require.NoError(t, db.Cleanup(ctx))
}

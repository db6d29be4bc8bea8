package database

import (
	"context"
	"encoding/json"

	"github.com/anicoll/nem-integration/internal/pkg/model"
	"github.com/anicoll/nem-integration/internal/pkg/nem"
)

// WritePriceRecords stores normalized 5 minute price records, one row per
// record, inside a single transaction.
func (db *Database) WritePriceRecords(ctx context.Context, records []nem.PriceRecord) error {
	tx, err := db.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, rec := range records {
		if _, err := tx.Exec(ctx, `
			INSERT INTO NemPrice (region_id, period_type, settlement_time, period_start, price_per_mw, price_per_kw, cumulative_price)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (region_id, period_type, settlement_time) DO UPDATE
			SET price_per_mw = EXCLUDED.price_per_mw,
			    price_per_kw = EXCLUDED.price_per_kw,
			    cumulative_price = EXCLUDED.cumulative_price
		`, rec.RegionID.String(), rec.PeriodType.String(), rec.SettlementTime, rec.PeriodStart,
			rec.PricePerMW, rec.PricePerKW, rec.CumulativePrice); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// WriteSummaries stores one row per produced region summary, the full summary
// as jsonb.
func (db *Database) WriteSummaries(ctx context.Context, summaries map[model.RegionID]model.RegionSummary) error {
	tx, err := db.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for region, summary := range summaries {
		payload, err := json.Marshal(summary)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO RegionSummary (region_id, settlement_time, summary)
			VALUES ($1, $2, $3)
		`, region.String(), summary.SettlementDate, payload); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Write stores generic sensor style rows, used through the publisher registry.
func (db *Database) Write(ctx context.Context, data []map[string]any) error {
	tx, err := db.conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, record := range data {
		if _, err := tx.Exec(ctx, `
			INSERT INTO RegionSensor (time_stamp, unit_of_measurement, value, identifier, slug)
			VALUES ($1, $2, $3, $4, $5)
		`, record["timestamp"], record["unit_of_measurement"], record["value"], record["identifier"], record["slug"]); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// RegisterRegion satisfies the publisher interface; region rows are created
// lazily so repeated registration is a no-op.
func (db *Database) RegisterRegion(region model.RegionID) error {
	_, err := db.conn.Exec(context.Background(), `
		INSERT INTO Region (id)
		VALUES ($1)
		ON CONFLICT DO NOTHING;`, region.String())
	if err != nil {
		return err
	}

	return nil
}

package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/anicoll/nem-integration/internal/pkg/model"
	"github.com/anicoll/nem-integration/internal/pkg/nem"
	"github.com/jackc/pgx/v5"
)

// GetPriceRecords returns stored price records for a region. A nil range
// defaults to the last two days.
func (db *Database) GetPriceRecords(ctx context.Context, region model.RegionID, from, to *time.Time) ([]nem.PriceRecord, error) {
	if from == nil || to == nil {
		from = func() *time.Time {
			t := time.Now().AddDate(0, 0, -2)
			return &t
		}()
		to = func() *time.Time {
			t := time.Now()
			return &t
		}()
	}
	const query = `
	SELECT region_id, period_type, settlement_time, period_start, price_per_mw, price_per_kw, cumulative_price
	FROM NemPrice
	WHERE region_id = $1 AND settlement_time BETWEEN $2 AND $3
	ORDER BY settlement_time DESC;
	`

	rows, err := db.conn.Query(ctx, query, region.String(), from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPriceRecords(rows)
}

func scanPriceRecords(rows pgx.Rows) ([]nem.PriceRecord, error) {
	var records []nem.PriceRecord
	for rows.Next() {
		var (
			rec        nem.PriceRecord
			regionID   string
			periodType string
		)
		if err := rows.Scan(&regionID, &periodType, &rec.SettlementTime, &rec.PeriodStart,
			&rec.PricePerMW, &rec.PricePerKW, &rec.CumulativePrice); err != nil {
			return nil, err
		}
		rec.RegionID = model.RegionID(regionID)
		rec.PeriodType = model.PeriodType(periodType)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		if err == pgx.ErrNoRows {
			return records, nil
		}
		return nil, err
	}

	return records, nil
}

// GetLatestSummaries returns the most recently stored summary per region.
func (db *Database) GetLatestSummaries(ctx context.Context) ([]model.RegionSummary, error) {
	const query = `
	SELECT DISTINCT ON (region_id) summary
	FROM RegionSummary
	ORDER BY region_id, created_at DESC;
	`

	rows, err := db.conn.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []model.RegionSummary
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var summary model.RegionSummary
		if err := json.Unmarshal(payload, &summary); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		if err == pgx.ErrNoRows {
			return summaries, nil
		}
		return nil, err
	}

	return summaries, nil
}

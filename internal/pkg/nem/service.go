package nem

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/anicoll/nem-integration/internal/pkg/model"
	"go.uber.org/zap"
)

// DataSource is the market data collaborator. Transport concerns (timeouts,
// session lifecycle, auth classification) live behind it.
type DataSource interface {
	FiveMinutePrices(ctx context.Context) (*model.FiveMinResponse, error)
	CumulativePrice(ctx context.Context) (*model.CumulativePriceResponse, error)
	MarketPriceLimits(ctx context.Context) (model.MarketLimits, error)
	NemSummary(ctx context.Context) (*model.NemSummaryResponse, error)
}

// Service drives one aggregation pass: window, fetch, normalize, align,
// aggregate, merge. Every call starts from a fresh working set; the only
// cross-call state is the cached market limits.
type Service struct {
	src    DataSource
	logger *zap.Logger
	now    func() time.Time

	mu     sync.Mutex
	limits *model.MarketLimits
}

func New(src DataSource) *Service {
	return &Service{
		src:    src,
		logger: zap.L(),
		now:    time.Now,
	}
}

// Translate maps lowercase short codes onto canonical region identifiers.
// An unrecognized code is a configuration error, reported before any network
// activity.
func Translate(codes []string) ([]model.RegionID, error) {
	regions := make([]model.RegionID, 0, len(codes))
	seen := map[model.RegionID]struct{}{}
	for _, code := range codes {
		region, ok := model.Regions[code]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRegion, code)
		}
		if _, dup := seen[region]; dup {
			continue
		}
		seen[region] = struct{}{}
		regions = append(regions, region)
	}
	return regions, nil
}

// GetCurrentSummaries produces one summary per requested region for the
// currently active settlement window.
//
// Feeds are fetched in a fixed order: cumulative price, market price limits
// (cached after the first successful fetch), then the NEM summary. Transport
// failures abort the whole call. A region missing from a required feed, or one
// with malformed grid data, is skipped with a warning so the remaining regions
// still produce summaries.
func (s *Service) GetCurrentSummaries(ctx context.Context, codes []string) (map[model.RegionID]model.RegionSummary, error) {
	regions, err := Translate(codes)
	if err != nil {
		return nil, err
	}

	window := CurrentWindow(s.now())

	cumulative, err := s.src.CumulativePrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch cumulative price: %w", err)
	}
	actuals, forecasts, err := splitByRegion(cumulative.Records)
	if err != nil {
		return nil, err
	}

	limits, err := s.marketLimits(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch market price limits: %w", err)
	}

	summary, err := s.src.NemSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch nem summary: %w", err)
	}
	snapshots := map[model.RegionID]model.NemSummaryRecord{}
	for _, raw := range summary.Summaries {
		snapshots[model.RegionID(raw.RegionID)] = raw
	}

	results := make(map[model.RegionID]model.RegionSummary, len(regions))
	for _, region := range regions {
		regionSummary, err := s.summarise(region, window, actuals[region], forecasts[region], snapshots, limits)
		if err != nil {
			if errors.Is(err, ErrDataUnavailable) || errors.Is(err, ErrIntegrity) {
				s.logger.Warn("skipping region", zap.String("region", region.String()), zap.Error(err))
				continue
			}
			return nil, err
		}
		results[region] = regionSummary
	}
	return results, nil
}

func (s *Service) summarise(
	region model.RegionID,
	window Window,
	actuals, forecasts []PriceRecord,
	snapshots map[model.RegionID]model.NemSummaryRecord,
	limits model.MarketLimits,
) (model.RegionSummary, error) {
	rawSnapshot, ok := snapshots[region]
	if !ok {
		return model.RegionSummary{}, fmt.Errorf("%w: no snapshot for region %s", ErrDataUnavailable, region)
	}
	snapshot, err := NormalizeSnapshot(rawSnapshot)
	if err != nil {
		return model.RegionSummary{}, err
	}

	slots, err := AlignSlots(actuals, window, region)
	if err != nil {
		return model.RegionSummary{}, err
	}

	agg, err := Aggregate(region, actuals, forecasts, slots, limits.CumulativePriceThreshold)
	if err != nil {
		return model.RegionSummary{}, err
	}
	return MergeContext(agg, limits, snapshot), nil
}

// marketLimits returns the cached limits, fetching them at most once per
// service lifetime.
func (s *Service) marketLimits(ctx context.Context) (model.MarketLimits, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.limits != nil {
		return *s.limits, nil
	}
	limits, err := s.src.MarketPriceLimits(ctx)
	if err != nil {
		return model.MarketLimits{}, err
	}
	s.limits = &limits
	return limits, nil
}

func splitByRegion(records []model.CumulativePriceRecord) (actuals, forecasts map[model.RegionID][]PriceRecord, err error) {
	actuals = map[model.RegionID][]PriceRecord{}
	forecasts = map[model.RegionID][]PriceRecord{}
	for _, raw := range records {
		rec, err := NormalizeCumulative(raw)
		if err != nil {
			return nil, nil, err
		}
		if rec.PeriodType == model.PeriodTypeActual {
			actuals[rec.RegionID] = append(actuals[rec.RegionID], rec)
		} else {
			forecasts[rec.RegionID] = append(forecasts[rec.RegionID], rec)
		}
	}
	return actuals, forecasts, nil
}

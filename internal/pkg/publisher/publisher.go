package publisher

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/anicoll/nem-integration/internal/pkg/model"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

var errAlreadyRegistered = errors.New("publisher already registered")

var (
	registeredPublishers = make(map[string]publisher)
	sensors              sync.Map
)

type publisher interface {
	// Write publishes flattened summary fields to the backing adapter.
	Write(ctx context.Context, data []map[string]any) error
	RegisterRegion(region model.RegionID) error
}

func RegisterPublisher(name string, publisher publisher) error {
	if _, ok := registeredPublishers[name]; ok {
		return errAlreadyRegistered
	}
	registeredPublishers[name] = publisher
	return nil
}

// Identifier is the sensor device identifier for a region.
func Identifier(region model.RegionID) string {
	return "nem_" + strings.ToLower(region.String())
}

const (
	unitDollarPerKWh = "$/kWh"
	unitDollar       = "$"
	unitPercent      = "%"
	unitMegawatt     = "MW"
	// unit left empty marks a text sensor.
	unitText = ""
)

type field struct {
	slug  string
	value string
	unit  string
}

func priceField(name string, v float64) field {
	return field{slug: name, value: strconv.FormatFloat(v, 'f', 4, 64), unit: unitDollarPerKWh}
}

func megawattField(name string, v float64) field {
	return field{slug: name, value: strconv.FormatFloat(v, 'f', 2, 64), unit: unitMegawatt}
}

func textField(name, v string) field {
	return field{slug: name, value: v, unit: unitText}
}

// Flatten turns one region summary into sensor style payloads. This is the
// only place interconnector flow names become field names: each flow emits a
// name, value, export limit and import limit field keyed by its slugified
// name. Two flows sharing a name would collide here, which is undefined
// behavior upstream.
func Flatten(summary model.RegionSummary) []map[string]any {
	fields := []field{
		priceField("current_5min_period_price", summary.Current5MinPeriodPrice),
		priceField("current_30min_forecast", summary.Current30MinForecast),
		priceField("current_30min_estimated", summary.Current30MinEstimated),
		{slug: "current_cumulative_price", value: strconv.FormatInt(summary.CurrentCumulativePrice, 10), unit: unitDollar},
		{slug: "current_percent_cumulative_price", value: strconv.FormatFloat(summary.CurrentPercentCumulativePrice, 'f', 2, 64), unit: unitPercent},
		{slug: "administered_price_cap", value: strconv.FormatFloat(summary.AdministeredPriceCap, 'f', 2, 64), unit: unitDollar},
		{slug: "market_price_cap", value: strconv.FormatFloat(summary.MarketPriceCap, 'f', 2, 64), unit: unitDollar},
		{slug: "cumulative_price_threshold", value: strconv.FormatFloat(summary.CumulativePriceThreshold, 'f', 2, 64), unit: unitDollar},
		textField(model.MarketSuspendedTextField.String(), strconv.FormatBool(summary.MarketSuspendedFlag)),
		textField(model.ApcTextField.String(), strconv.FormatBool(summary.ApcFlag)),
		{slug: "periods_of_current_30min", value: strconv.Itoa(summary.PeriodsOfCurrent30Min), unit: unitText},
		megawattField("total_demand", summary.TotalDemand),
		megawattField("scheduled_generation", summary.ScheduledGeneration),
		megawattField("semi_scheduled_generation", summary.SemiScheduledGeneration),
		megawattField("net_interconnector_flows", summary.NetInterconnectorFlows),
		textField(model.SettlementDateTextField.String(), summary.SettlementDate.Format(time.RFC3339)),
	}
	if summary.Current30MinAvg != nil {
		fields = append(fields, priceField("current_30min_avg", *summary.Current30MinAvg))
	}
	for _, flow := range summary.InterconnectorFlows {
		base := slug.Make(flow.Name)
		fields = append(fields,
			textField(base+"_name", flow.Name),
			megawattField(base+"_value", flow.Value),
			megawattField(base+"_export_limit", flow.ExportLimit),
			megawattField(base+"_import_limit", flow.ImportLimit),
		)
	}

	identifier := Identifier(summary.RegionID)
	data := make([]map[string]any, 0, len(fields))
	for _, f := range fields {
		data = append(data, map[string]any{
			"value":               f.value,
			"slug":                f.slug,
			"timestamp":           time.Now(),
			"identifier":          identifier,
			"unit_of_measurement": f.unit,
		})
	}
	return data
}

// PublishSummaries flattens the summaries and writes changed fields to every
// registered publisher. Unchanged values are dropped to keep the sinks quiet.
func PublishSummaries(ctx context.Context, summaries map[model.RegionID]model.RegionSummary) error {
	count := 0
	data := make([]map[string]any, 0)
	for _, summary := range summaries {
		for _, payload := range Flatten(summary) {
			if !shouldUpdate(payload["identifier"].(string), payload["slug"].(string), payload["value"].(string)) {
				continue
			}
			count++
			data = append(data, payload)
		}
	}
	for name, publisher := range registeredPublishers {
		if err := publisher.Write(ctx, data); err != nil {
			zap.L().Error("failed to publish data", zap.Error(err), zap.String("publisher", name))
			continue
		}
		zap.L().Debug("updated sensors", zap.Int("count", count), zap.String("publisher", name))
	}
	return nil
}

func RegisterRegion(region model.RegionID) error {
	for name, publisher := range registeredPublishers {
		if err := publisher.RegisterRegion(region); err != nil {
			zap.L().Error("failed to register region", zap.Error(err), zap.String("publisher", name))
			continue
		}
		zap.L().Debug("registered region", zap.String("region", region.String()), zap.String("publisher", name))
	}
	return nil
}

func shouldUpdate(identifier, slug, newValue string) bool {
	key := fmt.Sprintf("%s_%s", identifier, slug)
	oldValue, exists := sensors.Load(key)
	if exists && strings.EqualFold(newValue, oldValue.(string)) {
		return false
	}
	if !exists {
		zap.L().Info("configured sensor", zap.String("identifier", identifier), zap.String("sensor", slug), zap.String("value", newValue))
	}
	sensors.Store(key, newValue)
	return true
}

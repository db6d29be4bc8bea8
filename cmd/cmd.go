package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	paho_mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/jackc/pgx/v5"
	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/anicoll/nem-integration/internal/pkg/aemo"
	"github.com/anicoll/nem-integration/internal/pkg/config"
	"github.com/anicoll/nem-integration/internal/pkg/contxt"
	"github.com/anicoll/nem-integration/internal/pkg/database"
	"github.com/anicoll/nem-integration/internal/pkg/database/migration"
	"github.com/anicoll/nem-integration/internal/pkg/mqtt"
	"github.com/anicoll/nem-integration/internal/pkg/nem"
	"github.com/anicoll/nem-integration/internal/pkg/pricewatch"
	"github.com/anicoll/nem-integration/internal/pkg/publisher"
	"github.com/anicoll/nem-integration/internal/pkg/server"
)

func NemCommand(ctx *cli.Context) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if v := ctx.StringSlice("regions"); len(v) > 0 {
		cfg.Regions = v
	}
	if v := ctx.String("aemo-url"); v != "" {
		cfg.AemoURL = v
	}
	if v := ctx.String("database-url"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := ctx.String("migrations-folder"); v != "" {
		cfg.MigrationsFolder = v
	}
	if v := ctx.String("listen-addr"); v != "" {
		cfg.ListenAddress = v
	}
	if v := ctx.Duration("poll-interval"); v > 0 {
		cfg.PollInterval = v
	}
	if v := ctx.String("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v := ctx.Float64("alert-percent"); v > 0 {
		cfg.AlertPercent = v
	}
	if v := ctx.String("mqtt-host"); v != "" {
		cfg.MqttCfg.Host = v
	}
	if v := ctx.String("mqtt-user"); v != "" {
		cfg.MqttCfg.Username = v
	}
	if v := ctx.String("mqtt-pass"); v != "" {
		cfg.MqttCfg.Password = v
	}

	return run(ctx.Context, cfg)
}

func run(ctx context.Context, cfg *config.Config) error {
	logCfg := zap.NewProductionConfig()
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logCfg.Level = level
	logCfg.OutputPaths = []string{"stdout"}
	logCfg.ErrorOutputPaths = []string{"stdout"}
	logCfg.Sampling = nil
	logger := zap.Must(logCfg.Build(zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)))
	defer func() {
		_ = logger.Sync() // flushes buffer, if any.
	}()
	zap.ReplaceGlobals(logger)

	// Reject bad region codes before touching the network or the database.
	regions, err := nem.Translate(cfg.Regions)
	if err != nil {
		return err
	}

	if cfg.MigrationsFolder != "" {
		if err := migration.Migrate(cfg.DatabaseURL, cfg.MigrationsFolder); err != nil {
			return err
		}
	}
	conn, err := pgx.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	db := database.NewDatabase(conn)
	defer db.Close()

	if err := publisher.RegisterPublisher("postgres", db); err != nil {
		return err
	}

	if cfg.MqttCfg != nil && cfg.MqttCfg.Host != "" {
		opts := paho_mqtt.NewClientOptions().
			AddBroker(cfg.MqttCfg.Host).
			SetUsername(cfg.MqttCfg.Username).
			SetPassword(cfg.MqttCfg.Password)
		mqttSvc := mqtt.New(paho_mqtt.NewClient(opts))
		if err := mqttSvc.Connect(); err != nil {
			return err
		}
		defer mqttSvc.Disconnect()
		if err := publisher.RegisterPublisher("mqtt", mqttSvc); err != nil {
			return err
		}
	}

	for _, region := range regions {
		if err := publisher.RegisterRegion(region); err != nil {
			return err
		}
	}

	sourceOpts := []aemo.Option{}
	if cfg.AemoURL != "" {
		sourceOpts = append(sourceOpts, aemo.WithBaseURL(cfg.AemoURL))
	}
	source := aemo.New(sourceOpts...)
	defer source.Close()

	svc := nem.New(source)

	return serve(ctx, cfg, svc, source, db)
}

func serve(ctx context.Context, cfg *config.Config, agg AggregatorService, source PriceSource, db Storage) error {
	errorChan := make(chan error, 1000)
	eg, ctx := errgroup.WithContext(ctx)
	logger := zap.L()

	eg.Go(func() error {
		return cronPoll(ctx, cfg, agg, source, db, errorChan)
	})

	eg.Go(func() error {
		return cronDbCleanup(ctx, db, errorChan)
	})

	eg.Go(func() error {
		return cronPriceWatch(ctx, cfg, db, errorChan)
	})

	srv := &http.Server{
		Handler: server.LoggingMiddleware(
			server.AuthMiddleware([]byte(cfg.AuthSecret), cfg.ApiKeyHash)(
				server.New(agg, cfg.Regions).Routes())),
		Addr:         cfg.ListenAddress,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	eg.Go(func() error {
		// handle any async errors from the cron jobs
		for {
			select {
			case err := <-errorChan:
				if errors.Is(err, errCron) {
					logger.Error("cron error", zap.Error(err))
					return err
				}
				logger.Warn("recoverable error", zap.Error(err))
			case <-ctx.Done():
				logger.Info("context done")
				return ctx.Err()
			}
		}
	})

	return eg.Wait()
}

var errCron = errors.New("cron error")

// pollOnce runs one full aggregation pass: summaries out to the publishers
// and the database, plus the raw 5 minute feed into the price archive.
func pollOnce(ctx context.Context, cfg *config.Config, agg AggregatorService, source PriceSource, db Storage) error {
	summaries, err := agg.GetCurrentSummaries(ctx, cfg.Regions)
	if err != nil {
		return err
	}
	if err := publisher.PublishSummaries(ctx, summaries); err != nil {
		return err
	}
	if err := db.WriteSummaries(ctx, summaries); err != nil {
		return err
	}

	fiveMin, err := source.FiveMinutePrices(ctx)
	if err != nil {
		return err
	}
	records := make([]nem.PriceRecord, 0, len(fiveMin.FiveMin))
	for _, raw := range fiveMin.FiveMin {
		rec, err := nem.NormalizeFiveMin(raw)
		if err != nil {
			zap.L().Warn("dropping malformed five minute record", zap.Error(err))
			continue
		}
		records = append(records, rec)
	}
	return db.WritePriceRecords(ctx, records)
}

func cronPoll(ctx context.Context, cfg *config.Config, agg AggregatorService, source PriceSource, db Storage, errChan chan error) error {
	poll := func() {
		runCtx := contxt.NewContext(ctx, 2*time.Minute)
		if err := pollOnce(runCtx, cfg, agg, source, db); err != nil {
			zap.L().Error("poll failed", zap.Error(err))
			errChan <- err
		}
	}
	poll()

	c := cron.New()
	if _, err := c.AddFunc("@every "+cfg.PollInterval.String(), poll); err != nil {
		return err
	}

	c.Run()
	return nil
}

func cronDbCleanup(ctx context.Context, db Storage, errChan chan error) error {
	if err := db.Cleanup(ctx); err != nil {
		return err
	}

	// CRON automation
	c := cron.New()
	if _, err := c.AddFunc("CRON_TZ=Australia/Brisbane 0 3 * * *", func() {
		if err := db.Cleanup(contxt.NewContext(ctx, time.Minute)); err != nil {
			zap.L().Error("error cleaning up database", zap.Error(err))
			errChan <- errCron
			return
		}
		zap.L().Info("cleaned up stored feed data")
	}); err != nil {
		return err
	}

	c.Run()
	return nil
}

func cronPriceWatch(ctx context.Context, cfg *config.Config, db Storage, errChan chan error) error {
	watcher := pricewatch.New(db, db, cfg.AlertPercent)

	c := cron.New()
	if _, err := c.AddFunc("CRON_TZ=Australia/Brisbane */5 * * * *", func() {
		if err := watcher.Check(contxt.NewContext(ctx, time.Minute)); err != nil {
			zap.L().Error("price watch failed", zap.Error(err))
			errChan <- err
		}
	}); err != nil {
		return err
	}

	c.Run()
	return nil
}

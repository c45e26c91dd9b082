package main

import (
	"context"
	"fmt"

	"github.com/mitlibraries/carbon/bootstrap"
	"github.com/mitlibraries/carbon/database"
	"github.com/mitlibraries/carbon/feed"
	"github.com/mitlibraries/carbon/logger"
	"github.com/mitlibraries/carbon/notify"
	"github.com/mitlibraries/carbon/observability"
	"github.com/mitlibraries/carbon/runner"
	"github.com/mitlibraries/carbon/storage"
	"github.com/mitlibraries/carbon/version"
)

func run(ctx context.Context, cfg *runner.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().Version
	}
	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}
	log := app.Logger
	log.Info("build", version.Get().Fields())

	reporter, msg := newSentryReporter(cfg.SentryDSN, cfg.Workspace, cfg.Version)
	log.Info(msg)
	defer reporter.Flush()

	shutdown, err := observability.Setup(ctx, cfg.Observability, observability.Resource{
		ServiceName:    cfg.Name,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
	}, log)
	if err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	app.OnStop(func(ctx context.Context) error { return shutdown(ctx) })

	metrics, err := observability.NewFeedMetrics(observability.Meter(observability.InstrumentationName))
	if err != nil {
		return fmt.Errorf("observability: %w", err)
	}

	notifier, err := notify.New(ctx, cfg.Notify, log)
	if err != nil {
		return err
	}

	warehouse := database.NewComponent(cfg.Database, log)
	if err := app.RegisterComponent(warehouse); err != nil {
		return err
	}
	var sink *storage.Component
	if cfg.ToSink() {
		sink = storage.NewComponent(cfg.Transfer, log)
		if err := app.RegisterComponent(sink); err != nil {
			return err
		}
	}

	var outcome runner.Outcome
	err = app.RunTask(ctx, func(ctx context.Context) error {
		var dest storage.Storage
		if sink != nil {
			dest = sink.Storage()
		}
		r, err := runner.New(*cfg, feed.NewWarehouseSource(warehouse.DB(), log), dest, notifier,
			runner.WithLogger(log),
			runner.WithMetrics(metrics),
		)
		if err != nil {
			return err
		}
		outcome = r.Run(ctx)
		return outcome.Err
	})
	if err != nil {
		log.Error("run aborted", logger.MergeWithError(logger.Fields(
			logger.FieldRunID, outcome.RunID,
			logger.FieldStatus, string(outcome.Status),
		), err))
		reporter.Capture(err)
		return errRunFailed
	}
	return nil
}

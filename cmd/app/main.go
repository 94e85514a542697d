package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/app"
	"github.com/Domenick1991/flightdesk/internal/bootstrap"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.LoadConfig(config.Path())
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	if err := app.ConfigureLogging(cfg.Log, os.Stdout); err != nil {
		logrus.Fatalf("configure logging: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	state, err := app.New(ctx, cfg)
	if err != nil {
		logrus.Fatalf("init: %v", err)
	}
	defer func() {
		if err := state.Close(); err != nil {
			logrus.WithError(err).Warn("close resources")
		}
	}()

	loaded, err := state.Snapshots.Load(ctx)
	if err != nil {
		logrus.Fatalf("load bookings: %v", err)
	}
	logrus.WithFields(logrus.Fields{
		"restored":  loaded.Restored,
		"malformed": loaded.Malformed,
		"skipped":   loaded.Skipped,
		"backend":   cfg.Store.Backend,
	}).Info("bookings loaded")

	runErr := bootstrap.Run(ctx, cfg, state)

	saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	saved, err := state.Snapshots.Save(saveCtx)
	if err != nil {
		logrus.WithError(err).Error("save bookings")
	} else {
		logrus.WithField("bookings", saved).Info("bookings saved")
	}

	if runErr != nil {
		logrus.Errorf("server error: %v", runErr)
		os.Exit(1)
	}
}

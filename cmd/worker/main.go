package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/app"
	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/Domenick1991/flightdesk/internal/notify"
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
	if !cfg.Kafka.Enabled() {
		logrus.Fatal("kafka.brokers is empty, nothing to consume")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	sender := notify.NewSender(cfg.Flight.Number, logrus.WithField("component", "notify"))

	logrus.WithFields(logrus.Fields{
		"topic": cfg.Kafka.NotificationsTopic,
		"group": cfg.Kafka.GroupID,
	}).Info("notification worker started")

	if err := consumer.Consume(ctx, kafka.EventHandler(sender.Send)); err != nil {
		logrus.Errorf("consumer stopped: %v", err)
		return
	}
	logrus.Info("notification worker stopped")
}

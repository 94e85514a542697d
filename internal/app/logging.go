package app

import (
	"fmt"
	"io"

	"github.com/Domenick1991/flightdesk/config"
	"github.com/sirupsen/logrus"
)

// ConfigureLogging sets level and formatter of the standard logrus logger.
func ConfigureLogging(cfg config.LogConfig, out io.Writer) error {
	level := cfg.Level
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logrus.SetLevel(lvl)

	switch cfg.Format {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("log format %q: want json or text", cfg.Format)
	}

	if out != nil {
		logrus.SetOutput(out)
	}
	return nil
}

package logger

import (
	"fmt"
	"os"

	"github.com/Domenick1991/slotbooking/config"
	"github.com/sirupsen/logrus"
)

// Setup configures the global logrus logger.
func Setup(cfg config.LogConfig) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stdout)

	switch cfg.Format {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("unknown log format %q", cfg.Format)
	}
	return nil
}

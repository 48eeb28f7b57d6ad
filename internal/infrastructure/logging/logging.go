package logging

import (
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm/logger"
)

// Setup configures the standard logrus logger for the service.
func Setup(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetOutput(os.Stdout)
	log.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339})
	log.SetLevel(lvl)
	return nil
}

// Gorm routes gorm's logs through logrus. SQL traces only show at debug level.
func Gorm() logger.Interface {
	lvl := logger.Warn
	if log.IsLevelEnabled(log.DebugLevel) {
		lvl = logger.Info
	}
	return logger.New(log.StandardLogger(), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
	})
}

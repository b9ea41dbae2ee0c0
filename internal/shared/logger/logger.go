package logger

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.Logger
	once   sync.Once
)

// GetLogger returns the process zap.Logger, built once.
// APP_ENV=production selects the JSON production config, anything else the development one.
// LOG_LEVEL overrides the level of either config.
func GetLogger() *zap.Logger {
	once.Do(func() {
		var err error
		logger, err = newConfig(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL")).Build()
		if err != nil {
			panic("failed logger setup : " + err.Error())
		}
	})
	return logger
}

func newConfig(env, level string) zap.Config {
	cfg := zap.NewDevelopmentConfig()
	if strings.EqualFold(env, "production") {
		cfg = zap.NewProductionConfig()
	}
	if level != "" {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(lvl)
		}
	}
	return cfg
}

package main

import (
	"log/slog"

	"sumo-go/config"
	"sumo-go/internal/logger"
)

// initLogger installs the default logger from the loaded configuration
func initLogger(cfg *config.Config) *slog.Logger {
	// Source locations only in development
	addSource := cfg.Environment == "dev" || cfg.Environment == "development"

	return logger.Init(logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		logger.DefaultServiceName,
		cfg.Version,
		cfg.Environment,
		addSource,
	))
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging configures the global zap logger for the CLI.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mihiarc/stumpage/pkg/types"
)

// Init builds the global logger from config and installs it via
// zap.ReplaceGlobals. Packages log through zap.L().
func Init(cfg types.LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level := cfg.Level
	if level == "" {
		level = "info"
	}
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}
	zapCfg.Level.SetLevel(parsed)

	logger, err := zapCfg.Build()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return nil
}

package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/storefront-api/internal/config"
)

// loadAppConfig loads the application configuration from the environment
// and the optional config file.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)
	slog.Debug("Optional integrations",
		"mail_enabled", cfg.Mail.Enabled,
		"llm_enabled", cfg.LLM.Enabled,
		"redis_configured", cfg.Redis.Addr != "",
		"media_driver", cfg.Media.Driver)

	return cfg, nil
}

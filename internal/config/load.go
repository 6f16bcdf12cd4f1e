package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the service reads,
// e.g. STOREFRONT_DATABASE_URL.
const EnvPrefix = "STOREFRONT"

// Load configuration from environment variables and optionally config files.
// A .env file in the working directory is loaded first without overriding
// variables that are already set. Environment variables take precedence over
// values from config.yaml.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.token_lifetime_minutes", 1440)
	v.SetDefault("auth.refresh_token_lifetime_minutes", 10080)
	v.SetDefault("auth.cookie_name", "jwt")
	v.SetDefault("auth.cookie_secure", false)

	v.SetDefault("reset.code_ttl_minutes", 30)
	v.SetDefault("reset.code_length", 6)

	v.SetDefault("mail.enabled", false)
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.from", DefaultMailFrom)

	v.SetDefault("llm.enabled", false)
	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)

	v.SetDefault("redis.db", 0)

	v.SetDefault("media.driver", "local")
	v.SetDefault("media.local_dir", "media")
	v.SetDefault("media.base_url", "/media")
}

// bindEnvs registers every key explicitly so that Unmarshal sees values
// that only exist in the environment. AutomaticEnv alone only covers keys
// viper already knows about.
func bindEnvs(v *viper.Viper) {
	keys := []string{
		"server.port", "server.log_level",
		"database.url",
		"auth.jwt_secret", "auth.bcrypt_cost", "auth.token_lifetime_minutes",
		"auth.refresh_token_lifetime_minutes", "auth.cookie_name", "auth.cookie_secure",
		"reset.code_ttl_minutes", "reset.code_length",
		"mail.enabled", "mail.host", "mail.port", "mail.username", "mail.password", "mail.from",
		"llm.enabled", "llm.gemini_api_key", "llm.model_name", "llm.max_retries",
		"llm.retry_delay_seconds",
		"redis.addr", "redis.password", "redis.db",
		"media.driver", "media.local_dir", "media.base_url", "media.bucket", "media.region",
		"media.endpoint", "media.access_key_id", "media.secret_access_key",
	}
	for _, key := range keys {
		// BindEnv only fails when called without a key.
		_ = v.BindEnv(key)
	}
}

package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Reset    ResetConfig    `mapstructure:"reset" validate:"required"`
	Mail     MailConfig     `mapstructure:"mail"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Media    MediaConfig    `mapstructure:"media" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret" validate:"required,min=32"`
	BCryptCost                  int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lt=525600"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0,lt=525600,gtfield=TokenLifetimeMinutes"`
	CookieName                  string `mapstructure:"cookie_name" validate:"required"`
	CookieSecure                bool   `mapstructure:"cookie_secure"`
}

// ResetConfig controls the password reset code lifecycle.
type ResetConfig struct {
	CodeTTLMinutes int `mapstructure:"code_ttl_minutes" validate:"required,gt=0"`
	CodeLength     int `mapstructure:"code_length" validate:"required,gte=4,lte=32"`
}

// DefaultMailFrom is the sender address used when mail.from is unset.
const DefaultMailFrom = "noreply@storefront.local"

// MailConfig holds outbound SMTP settings. When Enabled is false reset
// codes are written to the log instead of being sent.
type MailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port     int    `mapstructure:"port" validate:"gt=0,lt=65536"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from" validate:"required_if=Enabled true"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	GeminiAPIKey      string `mapstructure:"gemini_api_key" validate:"required_if=Enabled true"`
	ModelName         string `mapstructure:"model_name" validate:"required"`
	MaxRetries        int    `mapstructure:"max_retries" validate:"gte=0,lte=5"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=0,lte=60"`
}

// RedisConfig points at the token revocation store. An empty Addr selects
// the in-process revocation list.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" validate:"omitempty,hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
}

// MediaConfig selects where uploaded images are stored.
type MediaConfig struct {
	Driver          string `mapstructure:"driver" validate:"required,oneof=local s3"`
	LocalDir        string `mapstructure:"local_dir" validate:"required_if=Driver local"`
	BaseURL         string `mapstructure:"base_url"`
	Bucket          string `mapstructure:"bucket" validate:"required_if=Driver s3"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint" validate:"omitempty,url"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Translation TranslationConfig `yaml:"translation"`
	LLM         LLMConfig         `yaml:"llm"`
	Log         LogConfig         `yaml:"log"`
	CORS        CORSConfig        `yaml:"cors"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Auth        AuthConfig        `yaml:"auth"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// RateLimitConfig holds rate limiting settings for the translate endpoint.
type RateLimitConfig struct {
	Enabled         bool          `yaml:"enabled"          env:"RATE_LIMIT_ENABLED"         env-default:"true"`
	TranslatePerMin int           `yaml:"translate_per_min" env:"RATE_LIMIT_TRANSLATE"       env-default:"6"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"RATE_LIMIT_CLEANUP_INTERVAL" env-default:"5m"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"15m"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" env:"SERVER_MAX_UPLOAD_BYTES" env-default:"52428800"`
}

// AuthConfig holds the shared secret used to validate the bearer JWT on
// /translate and /progress. The engine is stateless, so there is no user
// store behind it: a valid signature and unexpired token are sufficient.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	JWTIssuer string `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER" env-default:"docxtranslate"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// LLMConfig holds process-wide defaults for the LLM client. Per-request
// model and credentials (see translation.Request) always override these.
type LLMConfig struct {
	Provider       string        `yaml:"provider"        env:"LLM_PROVIDER"        env-default:"anthropic"`
	DefaultModel   string        `yaml:"default_model"   env:"LLM_DEFAULT_MODEL"   env-default:"claude-sonnet-4-5"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"LLM_REQUEST_TIMEOUT" env-default:"600s"`

	// HealthCheckAPIKey is used solely by the /ready and /health probes to
	// ping the provider. Per-translate-request credentials are supplied by
	// the caller (spec §6) and are never read from config. Left empty,
	// the probes use a no-op pinger and report the provider as ok without
	// making a network call.
	HealthCheckAPIKey string `yaml:"health_check_api_key" env:"LLM_HEALTH_CHECK_API_KEY" env-default:""`
}

// TranslationConfig holds the tunables from the planner/executor design:
// batch concurrency, retry policy, and the section-analysis token targets.
type TranslationConfig struct {
	MaxConcurrentBatches int           `yaml:"max_concurrent_batches" env:"TRANSLATE_MAX_CONCURRENT_BATCHES" env-default:"4"`
	PerAttemptTimeout    time.Duration `yaml:"per_attempt_timeout"    env:"TRANSLATE_PER_ATTEMPT_TIMEOUT"    env-default:"600s"`
	MaxRetries           int           `yaml:"max_retries"            env:"TRANSLATE_MAX_RETRIES"            env-default:"3"`
	RetryBackoff         time.Duration `yaml:"retry_backoff"          env:"TRANSLATE_RETRY_BACKOFF"          env-default:"2s"`
	WindowSize           int           `yaml:"window_size"             env:"TRANSLATE_WINDOW_SIZE"            env-default:"100"`
	TokenTargetSimple    int           `yaml:"token_target_simple"    env:"TRANSLATE_TOKEN_TARGET_SIMPLE"    env-default:"5000"`
	TokenTargetModerate  int           `yaml:"token_target_moderate"  env:"TRANSLATE_TOKEN_TARGET_MODERATE"  env-default:"3000"`
	TokenTargetComplex   int           `yaml:"token_target_complex"   env:"TRANSLATE_TOKEN_TARGET_COMPLEX"   env-default:"2000"`
	StuckThreshold       time.Duration `yaml:"stuck_threshold"        env:"TRANSLATE_STUCK_THRESHOLD"        env-default:"600s"`
	ProgressLinger       time.Duration `yaml:"progress_linger"        env:"TRANSLATE_PROGRESS_LINGER"        env-default:"5m"`

	// LegacyContentClassification enables the disabled-by-default
	// poetry/dialogue/prose heuristic as a fallback batch-sizing strategy.
	// See internal/translate/planner/legacy.go.
	LegacyContentClassification bool `yaml:"legacy_content_classification" env:"TRANSLATE_LEGACY_CLASSIFICATION" env-default:"false"`
}

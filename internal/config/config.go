package config

import "github.com/kelseyhightower/envconfig"

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Version  string `envconfig:"VERSION" default:"dev"`

	// DatabaseURL is used by the runtime connection pool. MigrateDatabaseURL
	// is used only when applying migrations; it falls back to DatabaseURL
	// when unset.
	DatabaseURL        string `envconfig:"DATABASE_URL" required:"true"`
	MigrateDatabaseURL string `envconfig:"MIGRATE_DATABASE_URL" default:""`

	AWSRegion    string `envconfig:"AWS_REGION" required:"true"`
	UserPoolID   string `envconfig:"COGNITO_USER_POOL_ID" required:"true"`
	AppClientID  string `envconfig:"COGNITO_APP_CLIENT_ID" required:"true"`
	JWKSCacheTTL int    `envconfig:"JWKS_CACHE_TTL" default:"3600"` // seconds

	CatImagesBucket string `envconfig:"CAT_IMAGES_BUCKET" required:"true"`

	SessionCookieName string `envconfig:"SESSION_COOKIE_NAME" default:"cat_slideshow_session"`
	SessionCookieTTL  int    `envconfig:"SESSION_COOKIE_TTL" default:"2592000"` // seconds, 30 days

	// AppEnv controls cookie hardening: outside "local" the session cookie is
	// Secure and scoped to ".{AppDomain}".
	AppEnv    string `envconfig:"APP_ENV" default:"local"`
	AppDomain string `envconfig:"APP_DOMAIN" default:""`

	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.MigrateDatabaseURL == "" {
		cfg.MigrateDatabaseURL = cfg.DatabaseURL
	}
	return &cfg, nil
}

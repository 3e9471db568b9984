package odoo

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/odoogo/odoogo/internal/common/apperrors"
)

// Config holds the connection settings for one server.
type Config struct {
	URL      string `toml:"url" validate:"required,url"`
	Database string `toml:"database" validate:"required"`
	Username string `toml:"username" validate:"required"`
	Password string `toml:"password" validate:"required"`
}

// DefaultEnvPrefix is the environment variable prefix used by ConfigFromEnv
// when none is given.
const DefaultEnvPrefix = "ODOO"

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that all required connection settings are present.
func (c Config) Validate() apperrors.Error {
	if err := configValidator.Struct(c); err != nil {
		return ErrInvalidConfig.Err(err)
	}
	return nil
}

// ConfigFromEnv builds a Config from environment variables:
// {PREFIX}_URL, {PREFIX}_DB or {PREFIX}_DATABASE, {PREFIX}_USER or
// {PREFIX}_USERNAME, and {PREFIX}_PASSWORD. A .env file in the working
// directory is loaded first if present. All missing variables are reported
// together in a single error.
func ConfigFromEnv(prefix string) (Config, apperrors.Error) {
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	_ = godotenv.Load() // no error if .env doesn't exist

	cfg := Config{
		URL:      os.Getenv(prefix + "_URL"),
		Database: firstEnv(prefix+"_DB", prefix+"_DATABASE"),
		Username: firstEnv(prefix+"_USER", prefix+"_USERNAME"),
		Password: os.Getenv(prefix + "_PASSWORD"),
	}

	var missing []string
	if cfg.URL == "" {
		missing = append(missing, prefix+"_URL")
	}
	if cfg.Database == "" {
		missing = append(missing, prefix+"_DB or "+prefix+"_DATABASE")
	}
	if cfg.Username == "" {
		missing = append(missing, prefix+"_USER or "+prefix+"_USERNAME")
	}
	if cfg.Password == "" {
		missing = append(missing, prefix+"_PASSWORD")
	}
	if len(missing) > 0 {
		return Config{}, ErrMissingEnvVars.Msg("missing required environment variables: " + strings.Join(missing, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Connect builds a transport and client from the config. The client is not
// authenticated yet; call Authenticate with cfg credentials or others.
func (cfg Config) Connect(opts ...TransportOption) (*Client, apperrors.Error) {
	transport, err := NewTransport(cfg.URL, cfg.Database, opts...)
	if err != nil {
		return nil, err
	}
	return NewClient(transport), nil
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

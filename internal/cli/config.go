package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/odoogo/odoogo/pkg/odoo"
)

// DefaultConfigFile is the default name of the config file
const DefaultConfigFile = "config.toml"

// Config holds the server connection details for the CLI.
type Config struct {
	// URL is the base URL of the Odoo server
	URL string `toml:"url" validate:"required,url"`
	// Database is the database name on the server
	Database string `toml:"database" validate:"required"`
	// Username is the login name
	Username string `toml:"username" validate:"required"`
	// Password is stored for convenience; an API key works the same way
	Password string `toml:"password" validate:"required"`
	// ConfirmWrites prompts before any write or delete operation
	ConfirmWrites bool `toml:"confirm_writes"`
}

var config *Config

// GetDefaultConfigPath returns the default path for the config file
// (e.g. ~/.config/odoogo/config.toml on Linux).
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "odoogo", DefaultConfigFile), nil
}

// LoadConfig loads the configuration from the specified file.
func LoadConfig(file string) error {
	if file == "" {
		var err error
		file, err = GetDefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get default config path: %w", err)
		}
	}

	if _, err := os.Stat(file); err != nil {
		return err
	}

	var c Config
	if _, err := toml.DecodeFile(file, &c); err != nil {
		return fmt.Errorf("unable to parse config file: %w", err)
	}
	if err := c.Validate(); err != nil {
		return err
	}

	config = &c
	return nil
}

// LoadConfigFromEnv builds the configuration from ODOO_* environment
// variables instead of a file.
func LoadConfigFromEnv() error {
	ec, err := odoo.ConfigFromEnv(odoo.DefaultEnvPrefix)
	if err != nil {
		return err
	}
	config = &Config{
		URL:      ec.URL,
		Database: ec.Database,
		Username: ec.Username,
		Password: ec.Password,
	}
	return nil
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	return config
}

// WriteConfig writes the configuration to the specified file.
func (cfg *Config) WriteConfig(file string) error {
	if file == "" {
		return fmt.Errorf("file path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(file), os.ModePerm); err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}

	f, err := os.OpenFile(file, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("unable to generate configuration: %w", err)
	}
	return nil
}

// Validate checks the configuration for required fields.
func (cfg *Config) Validate() error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// connect builds an authenticated client from the loaded configuration.
func connect(ctx context.Context) (*odoo.Client, error) {
	cfg := GetConfig()
	if cfg == nil {
		return nil, fmt.Errorf("no configuration loaded")
	}

	transport, err := odoo.NewTransport(cfg.URL, cfg.Database)
	if err != nil {
		return nil, err
	}

	var opts []odoo.ClientOption
	if cfg.ConfirmWrites {
		opts = append(opts, odoo.WithConfirm(promptConfirm))
	}
	client := odoo.NewClient(transport, opts...)

	if _, err := client.Authenticate(ctx, cfg.Username, cfg.Password); err != nil {
		return nil, err
	}
	return client, nil
}

// promptConfirm asks the operator before a write or delete goes out.
func promptConfirm(op odoo.Operation) bool {
	fmt.Printf("%s operation on %s: %s. Proceed? [y/N] ", op.Level, op.Model, op.Description)
	var answer string
	fmt.Scanln(&answer)
	return answer == "y" || answer == "Y" || answer == "yes"
}

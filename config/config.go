package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const DefaultTicketTypeID = 1

// Config holds the HaloPSA connection settings for a single upload run. It is passed by value to
// every operation so that concurrent runs with different settings cannot interfere.
type Config struct {
	BaseURL             string `mapstructure:"base_url"`
	TokenURL            string `mapstructure:"token_url"`
	ClientID            string `mapstructure:"client_id"`
	ClientSecret        string `mapstructure:"client_secret"`
	Scope               string `mapstructure:"scope"`
	DefaultTicketTypeID int    `mapstructure:"default_ticket_type_id"`
}

func Default() Config {
	return Config{
		Scope:               "all",
		DefaultTicketTypeID: DefaultTicketTypeID,
	}
}

// DefaultConfigPath returns ~/.config/halo-templates/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}

	return filepath.Join(home, ".config", "halo-templates", "config.yaml")
}

// Load reads the configuration from a YAML file, overlaid with HALO_* environment variables. A missing
// file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("HALO")
	v.AutomaticEnv()

	v.SetDefault("base_url", "")
	v.SetDefault("token_url", "")
	v.SetDefault("client_id", "")
	v.SetDefault("client_secret", "")
	v.SetDefault("scope", "all")
	v.SetDefault("default_ticket_type_id", DefaultTicketTypeID)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			var pathErr *fs.PathError

			if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	conf := Default()
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return &conf, nil
}

// Validate checks that everything needed to talk to HaloPSA has been configured.
func (c Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("missing HaloPSA API base URL")
	}

	if strings.TrimSpace(c.TokenURL) == "" {
		return fmt.Errorf("missing OAuth2 token URL")
	}

	if strings.TrimSpace(c.ClientID) == "" {
		return fmt.Errorf("missing OAuth2 client ID")
	}

	if strings.TrimSpace(c.ClientSecret) == "" {
		return fmt.Errorf("missing OAuth2 client secret")
	}

	return nil
}

// Endpoint returns the URL for an API resource e.g. Endpoint("category").
func (c Config) Endpoint(resource string) string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + resource
}

func (c Config) Scopes() []string {
	return strings.Fields(c.Scope)
}

package ga4

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the settings needed to reach one GA4 property. Credentials
// is either a path to a service account key file or the raw key JSON.
type Config struct {
	Property     string `mapstructure:"property"`
	Credentials  string `mapstructure:"credentials"`
	CacheMinutes int    `mapstructure:"cache_minutes"`
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse ga4 config: %w", err)
	}
	return &config, nil
}

// Package config loads site configuration for the stilt commands.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the site configuration read from stilt.yaml.
type Config struct {
	Title      string `mapstructure:"title"`
	BaseURL    string `mapstructure:"baseURL"`
	ContentDir string `mapstructure:"contentDir"`
	LayoutsDir string `mapstructure:"layoutsDir"`
	StaticDir  string `mapstructure:"staticDir"`
	OutputDir  string `mapstructure:"outputDir"`
	CacheDir   string `mapstructure:"cacheDir"`
	Port       int    `mapstructure:"port"`
}

// Load reads stilt.yaml from the site directory. A missing file falls
// back to defaults; cfgFile, when set, overrides the search entirely.
// Values can also come from STILT_* environment variables.
func Load(siteDir, cfgFile string) (Config, error) {
	v := viper.New()

	v.SetDefault("title", "Stilt Site")
	v.SetDefault("baseURL", "")
	v.SetDefault("contentDir", "content")
	v.SetDefault("layoutsDir", "layouts")
	v.SetDefault("staticDir", "static")
	v.SetDefault("outputDir", "public")
	v.SetDefault("cacheDir", ".stilt")
	v.SetDefault("port", 1313)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(siteDir)
		v.SetConfigName("stilt")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("STILT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode config: %w", err)
	}
	return cfg, nil
}

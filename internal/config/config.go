// Package config loads the settings shared by the command line tool and by
// programs embedding the mapper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"graph-mapper/internal/annotation"
	"graph-mapper/internal/metadata"
	"graph-mapper/internal/metrics"
)

const (
	configFileName = "graph-mapper"
	configFileType = "yaml"
	envPrefix      = "GRAPHMAPPER"

	keyTagKey           = "tag_key"
	keyIdentityNames    = "identity_names"
	keyOverlay          = "overlay"
	keyLogLevel         = "log_level"
	keyDevelopment      = "development"
	keyMetricsNamespace = "metrics_namespace"
)

// ErrInvalid is returned when the loaded settings fail validation.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the mapper settings.
type Config struct {
	// TagKey is the struct tag key read for annotations.
	TagKey string `mapstructure:"tag_key" validate:"required,alphanum"`
	// IdentityNames are the field names recognized as identity.
	IdentityNames []string `mapstructure:"identity_names" validate:"required,min=1,dive,required"`
	// Overlay is an optional path to a YAML annotation overlay.
	Overlay          string `mapstructure:"overlay"`
	LogLevel         string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	Development      bool   `mapstructure:"development"`
	MetricsNamespace string `mapstructure:"metrics_namespace" validate:"omitempty,max=64"`
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		TagKey:           annotation.DefaultTagKey,
		IdentityNames:    metadata.DefaultIdentityNames,
		LogLevel:         "info",
		MetricsNamespace: metrics.DefaultNamespace,
	}
}

// Load reads settings from path, or from graph-mapper.yaml in the working
// directory when path is empty, then applies GRAPHMAPPER_* environment
// variables. A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault(keyTagKey, def.TagKey)
	v.SetDefault(keyIdentityNames, def.IdentityNames)
	v.SetDefault(keyOverlay, def.Overlay)
	v.SetDefault(keyLogLevel, def.LogLevel)
	v.SetDefault(keyDevelopment, def.Development)
	v.SetDefault(keyMetricsNamespace, def.MetricsNamespace)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return nil
}

// MetadataOptions turns the settings into metadata build options, loading
// the overlay file if one is configured.
func (c *Config) MetadataOptions(logger *zap.Logger) ([]metadata.Option, error) {
	opts := []metadata.Option{
		metadata.WithTagKey(c.TagKey),
		metadata.WithIdentityNames(c.IdentityNames...),
		metadata.WithLogger(logger),
	}

	if c.Overlay != "" {
		overlay, err := annotation.LoadOverlay(c.Overlay)
		if err != nil {
			return nil, err
		}

		opts = append(opts, metadata.WithOverlay(overlay))
	}

	return opts, nil
}

// Package config loads Preprocessor options from YAML files and FEATPREP_*
// environment variables.
//
// Example file:
//
//	log_level: info
//	preprocessing:
//	  return_type: pd
//	  missing: mean
//	  scaler: RobustScaler
//	  scaler_args:
//	    quantile_range: [10, 90]
//
// Every key can be overridden from the environment, e.g.
// FEATPREP_PREPROCESSING_SCALER=MinMaxScaler. scaler_args may also be given
// as strategy_args text: FEATPREP_PREPROCESSING_SCALER_ARGS="with_mean=false".
package config

import (
	"os"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/YuminosukeSato/featprep/feature"
	"github.com/YuminosukeSato/featprep/pkg/errors"
	"github.com/YuminosukeSato/featprep/pkg/log"
	"github.com/YuminosukeSato/featprep/preprocessing"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FEATPREP"

// Config is the process configuration.
type Config struct {
	LogLevel      string                `mapstructure:"log_level"`
	Preprocessing preprocessing.Options `mapstructure:"preprocessing"`
}

// Options returns a copy of the preprocessing options.
func (c *Config) Options() preprocessing.Options {
	opts := c.Preprocessing
	opts.ScalerArgs = make(feature.Kwargs, len(c.Preprocessing.ScalerArgs))
	for k, v := range c.Preprocessing.ScalerArgs {
		opts.ScalerArgs[k] = v
	}
	return opts
}

// SetupLogger installs the configured log level process-wide.
func (c *Config) SetupLogger() {
	log.SetupLogger(c.LogLevel)
}

// Load reads the given YAML files in order, later files overriding earlier
// ones, then applies environment overrides. Missing files are skipped.
func Load(paths ...string) (*Config, error) {
	v := newViper()
	logger := log.GetLoggerWithName("config")

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			logger.Debug("Config file not found, skipping", "path", path)
			continue
		}
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		kwargsHook,
		mapstructure.StringToTimeDurationHookFunc(),
	))); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := preprocessing.DefaultOptions()
	v.SetDefault("log_level", "info")
	v.SetDefault("preprocessing.return_type", defaults.ReturnType)
	v.SetDefault("preprocessing.scale_hashed", defaults.ScaleHashed)
	v.SetDefault("preprocessing.scale_vectors", defaults.ScaleVectors)
	v.SetDefault("preprocessing.missing", string(defaults.Missing))
	v.SetDefault("preprocessing.scaler", defaults.Scaler)
	v.SetDefault("preprocessing.logfile", defaults.LogFile)
	// scaler_args has no default; bind its env key explicitly
	_ = v.BindEnv("preprocessing.scaler_args")
	return v
}

// kwargsHook decodes strategy_args text into Kwargs.
func kwargsHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to != reflect.TypeOf(feature.Kwargs{}) || from.Kind() != reflect.String {
		return data, nil
	}
	return feature.ParseKwargs(data.(string))
}

func (c *Config) validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.NewValidationError("log_level", err.Error(), c.LogLevel)
	}
	if err := c.Preprocessing.Validate(); err != nil {
		return errors.Wrap(err, "invalid preprocessing options")
	}
	return nil
}

// Package config loads and validates the daemon settings. Sources, in
// priority order: command-line flags, an explicit config file (--config or
// FLUXDISPLAY_CONFIG), /etc/fluxdisplay/, ~/.config/fluxdisplay/.
package config

import (
	"os"
	"strings"

	"codeberg.org/mutker/fluxdisplay/internal/errors"
	"codeberg.org/mutker/fluxdisplay/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultPollingInterval = 1000
	MinPollingInterval     = 100
	MaxPollingInterval     = 60000

	configName = "fluxdisplay.conf"
	configEnv  = "FLUXDISPLAY_CONFIG"
)

type Config struct {
	// CPUDevice optionally overrides CPU sensor auto-detection with an
	// explicit sysfs path. Empty means auto-detect.
	CPUDevice string `mapstructure:"cpu_device"`

	// PollingInterval is the delay between display updates in milliseconds.
	PollingInterval int `mapstructure:"polling_interval"`

	Debug   bool `mapstructure:"debug"`
	Verbose bool `mapstructure:"verbose"`
}

func Load() (*Config, error) {
	errFactory := errors.New()

	// A fresh FlagSet keeps Load re-callable
	fs := pflag.NewFlagSet("fluxdisplay", pflag.ContinueOnError)
	configFile := fs.StringP("config", "c", "", "Path to configuration file")
	fs.Bool("debug", false, "Enable debugging mode")
	fs.Bool("verbose", false, "Enable verbose logging")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v := viper.New()
	v.SetDefault("cpu_device", "")
	v.SetDefault("polling_interval", DefaultPollingInterval)
	v.SetDefault("debug", false)
	v.SetDefault("verbose", false)

	// The .conf extension needs an explicit type for viper
	v.SetConfigType("toml")

	switch {
	case *configFile != "":
		v.SetConfigFile(*configFile)
	case os.Getenv(configEnv) != "":
		v.SetConfigFile(os.Getenv(configEnv))
	default:
		v.SetConfigName(configName)
		v.AddConfigPath("/etc/fluxdisplay")
		v.AddConfigPath("$HOME/.config/fluxdisplay")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
		// No config file is fine, defaults apply
	}

	// Command line flags override config file values
	fs.Visit(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		v.Set(f.Name, f.Value.String())
	})

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	// Set log level based on config
	if config.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else if config.Verbose {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	return config, nil
}

// Validate clamps and sanitizes settings in place, warning on every
// adjustment. Called after the logger is up so the warnings are visible.
func (c *Config) Validate() {
	if c.PollingInterval < MinPollingInterval {
		logger.Warn().
			Int("polling_interval", c.PollingInterval).
			Int("min", MinPollingInterval).
			Msg("Polling interval too low, clamping")
		c.PollingInterval = MinPollingInterval
	} else if c.PollingInterval > MaxPollingInterval {
		logger.Warn().
			Int("polling_interval", c.PollingInterval).
			Int("max", MaxPollingInterval).
			Msg("Polling interval too high, clamping")
		c.PollingInterval = MaxPollingInterval
	}

	if c.CPUDevice == "" {
		return
	}

	valid := strings.HasPrefix(c.CPUDevice, "/sys/") && !strings.Contains(c.CPUDevice, "..")
	if valid {
		if _, err := os.Stat(c.CPUDevice); err != nil {
			valid = false
		}
	}
	if !valid {
		logger.Warn().
			Str("cpu_device", c.CPUDevice).
			Msg("Configured CPU sensor invalid or missing, falling back to auto-detection")
		c.CPUDevice = ""
		return
	}

	if !strings.Contains(c.CPUDevice, "temp") {
		// allowed, the user may know what they are doing
		logger.Warn().
			Str("cpu_device", c.CPUDevice).
			Msg("Configured CPU sensor does not look like a temperature sensor")
	}
}

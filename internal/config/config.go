// Package config loads and validates the application configuration from
// config files, environment variables, and flags via viper.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configName = ".replan"
	envPrefix  = "REPLAN"
)

// AppConfig represents the complete application configuration.
type AppConfig struct {
	Verbose bool       `mapstructure:"verbose"`
	Repo    RepoConfig `mapstructure:"repo" validate:"required"`
	Plan    PlanConfig `mapstructure:"plan" validate:"required"`
	UI      UIConfig   `mapstructure:"ui"`
}

// RepoConfig holds repository-related settings.
type RepoConfig struct {
	// Path is the repository to operate on; defaults to the working dir.
	Path string `mapstructure:"path" validate:"required"`
	// Upstream is the default onto-point when none is given on the
	// command line.
	Upstream string `mapstructure:"upstream" validate:"required"`
}

// PlanConfig holds planning behavior settings.
type PlanConfig struct {
	// AutosquashOnOpen runs the fixup/squash matcher as soon as a plan
	// dialog opens instead of waiting for the user to trigger it.
	AutosquashOnOpen bool `mapstructure:"autosquashOnOpen"`
	// AbbrevLength is how many hash characters the dialog displays.
	AbbrevLength int `mapstructure:"abbrevLength" validate:"required,min=4,max=40"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	// ConfirmSubmit asks for a second keypress before submitting.
	ConfirmSubmit bool `mapstructure:"confirmSubmit"`
	// WatchRepo publishes a staleness warning when the repository
	// changes underneath an open dialog.
	WatchRepo bool `mapstructure:"watchRepo"`
}

// validate is a single validator instance, it caches struct info.
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Init reads the config file and environment into viper. cfgFile, when
// non-empty, pins the file; otherwise ./.replan.yaml then $HOME/.replan.yaml
// are searched. Missing files are fine, defaults cover everything.
func Init(cfgFile string) {
	// Load .env file first if present; absence is not an error.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}
	// Not finding a config file is the common case.
	_ = viper.ReadInConfig()
}

// Load unmarshals and validates the effective configuration.
func Load() (AppConfig, error) {
	var cfg AppConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Repo.Path == "" {
		if wd, err := os.Getwd(); err == nil {
			cfg.Repo.Path = wd
		}
	}
	if err := validate.Struct(&cfg); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Package config loads cosmogony's pipeline tunables the same two-tier way
// the teacher loads its service configuration: a generation-specific
// dotenv file read through viper, then environment variables, then
// explicit overrides (CLI flags, in cosmogony's case) applied by the
// caller on top of the returned Config.
package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds the pipeline-wide tunables that aren't specific to a single
// run's input/output paths (those come from CLI flags, see cmd/cosmogony).
type Config struct {
	// Workers is the number of goroutines the Hierarchy Builder's parent
	// search fans out across. Defaults to GOMAXPROCS, the same sizing
	// convention the teacher uses for decoder.Start(runtime.GOMAXPROCS(-1)).
	Workers int `mapstructure:"WORKERS" validate:"required,min=1"`

	// PreparedCacheSize bounds the per-worker prepared-geometry LRU
	// (spec.md §5: "a bounded LRU policy prevents memory explosion when
	// k is large").
	PreparedCacheSize int `mapstructure:"PREPARED_CACHE_SIZE" validate:"required,min=1"`

	// DefaultOutput is used when -o is not passed to `generate`.
	DefaultOutput string `mapstructure:"DEFAULT_OUTPUT" validate:"required"`

	// LogFile is the path logs are additionally written to, alongside
	// stdout, mirroring the teacher's cmd/main.go setupLogging.
	LogFile string `mapstructure:"LOG_FILE" validate:"required"`
}

var validate = validator.New()

// Load reads configuration the same way the teacher's
// internal/config.LoadConfig does: an optional "cosmogony.<APP_ENV>" env
// file, overridden by environment variables, with built-in defaults for
// anything left unset. The result is validated before being returned so a
// malformed config fails fast at startup rather than partway through a
// multi-hour planet run.
func Load() (Config, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	v := viper.New()
	v.SetDefault("WORKERS", runtime.GOMAXPROCS(-1))
	v.SetDefault("PREPARED_CACHE_SIZE", 4096)
	v.SetDefault("DEFAULT_OUTPUT", "cosmogony.jsonl.gz")
	v.SetDefault("LOG_FILE", "cosmogony.log")

	v.SetConfigName(fmt.Sprintf("cosmogony.%s", env))
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := validate.Struct(c); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return c, nil
}

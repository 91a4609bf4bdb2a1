// Package config loads the CLI configuration.
//
// Precedence (highest to lowest): flags > NVIMSUL_* env vars > nvimsul.yaml > defaults.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/aretw0/nvimsul/pkg/domain"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "NVIMSUL_"

// DefaultFiles are looked up in the working directory when no file is given.
var DefaultFiles = []string{"nvimsul.yaml", "nvimsul.yml"}

// Store backends.
const (
	StoreNone   = "none"
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config holds all CLI configuration options.
type Config struct {
	NvimCommand string        `koanf:"nvim_command"`
	RPCTimeout  time.Duration `koanf:"rpc_timeout"`

	// Profile is an optional patch file extending the default profile.
	Profile  string   `koanf:"profile"`
	Alphabet []string `koanf:"alphabet"`

	Algorithm       string `koanf:"algorithm"`
	WalksPerState   int    `koanf:"walks_per_state"`
	WalkLen         int    `koanf:"walk_len"`
	CexProcessing   string `koanf:"cex_processing"`
	ClosingStrategy string `koanf:"closing_strategy"`
	Cache           bool   `koanf:"cache"`
	Seed            uint64 `koanf:"seed"`

	Store         string `koanf:"store"`
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	RedisPrefix   string `koanf:"redis_prefix"`

	LogLevel  string `koanf:"log_level"`
	LogFile   string `koanf:"log_file"`
	Addr      string `koanf:"addr"`
	OutputDir string `koanf:"output_dir"`

	// File is the configuration file that was read, if any.
	File string `koanf:"-"`
}

// Defaults returns the configuration used when nothing else is set.
// The algorithm defaults to the built-in explorer; KV and L_star need an
// external learner.
func Defaults() map[string]interface{} {
	p := domain.DefaultLearnParams()
	return map[string]interface{}{
		"nvim_command":     "nvim",
		"rpc_timeout":      "5s",
		"algorithm":        domain.AlgorithmExplore,
		"walks_per_state":  p.WalksPerState,
		"walk_len":         p.WalkLen,
		"cex_processing":   p.CexProcessing,
		"closing_strategy": p.ClosingStrategy,
		"cache":            p.CacheAndNonDetCheck,
		"seed":             p.Seed,
		"store":            StoreMemory,
		"redis_addr":       "localhost:6379",
		"redis_prefix":     "nvimsul:obs:",
		"log_level":        "info",
		"addr":             "localhost:8080",
		"output_dir":       ".",
	}
}

// findConfigFile returns the explicit path or the first default file present.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range DefaultFiles {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load reads configuration from defaults, file, environment and flags.
// Only flags the user actually set override the other sources.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment: NVIMSUL_WALK_LEN -> walk_len
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			// kebab-case flags map to snake_case keys
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be checked by decoding alone.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreNone, StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("unknown store %q (want %s, %s or %s)", c.Store, StoreNone, StoreMemory, StoreRedis)
	}
	if c.RPCTimeout <= 0 {
		return fmt.Errorf("rpc_timeout must be positive, got %s", c.RPCTimeout)
	}
	if _, err := c.ParsedAlphabet(); err != nil {
		return err
	}
	return nil
}

// LearnParams returns the driver parameters.
func (c *Config) LearnParams() domain.LearnParams {
	return domain.LearnParams{
		Algorithm:           c.Algorithm,
		WalksPerState:       c.WalksPerState,
		WalkLen:             c.WalkLen,
		CexProcessing:       c.CexProcessing,
		ClosingStrategy:     c.ClosingStrategy,
		CacheAndNonDetCheck: c.Cache,
		Seed:                c.Seed,
	}
}

// ParsedAlphabet returns the configured alphabet, or the default one.
func (c *Config) ParsedAlphabet() (domain.Alphabet, error) {
	if len(c.Alphabet) == 0 {
		return domain.DefaultAlphabet(), nil
	}
	a, err := domain.ParseAlphabet(c.Alphabet)
	if err != nil {
		return domain.Alphabet{}, fmt.Errorf("invalid alphabet: %w", err)
	}
	return a, nil
}

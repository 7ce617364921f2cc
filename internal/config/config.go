// Package config assembles runtime settings from defaults, an optional YAML
// file, a .env file and DRILLZ_* environment variables, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/drillz/internal/engine"
	"github.com/abhisek/drillz/internal/llm"
	"github.com/abhisek/drillz/internal/mastery"
	"github.com/abhisek/drillz/internal/refine"
	"github.com/abhisek/drillz/internal/spacedrep"
	"github.com/abhisek/drillz/internal/stats"
)

// Config is the full application configuration.
type Config struct {
	Engine EngineConfig `yaml:"engine"`
	Refine RefineConfig `yaml:"refine"`
	Log    LogConfig    `yaml:"log"`
	LLM    llm.Config   `yaml:"llm"`

	// BankPath replaces the embedded question bank when set.
	BankPath string `yaml:"bank_path"`
}

// EngineConfig tunes the practice engine.
type EngineConfig struct {
	EWMAAlpha           float64 `yaml:"ewma_alpha"`
	LatencyAlpha        float64 `yaml:"latency_alpha"`
	MistakeDelayMinutes int     `yaml:"mistake_delay_minutes"`
	MasteryThreshold    int     `yaml:"mastery_threshold"`
	RecentWindow        int     `yaml:"recent_window"`

	// Seed fixes the random source. Zero means seeded from entropy.
	Seed uint64 `yaml:"seed"`
}

// RefineConfig controls refine jobs.
type RefineConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	Heavy     bool          `yaml:"heavy"`
	BatchSize int           `yaml:"batch_size"`
}

// LogConfig selects the logger mode passed to logger.New.
type LogConfig struct {
	Mode string `yaml:"mode"`
}

// EngineOptions maps the engine settings onto engine.Options. Collaborators
// such as the clock, logger and event sink are left for the caller.
func (e EngineConfig) EngineOptions() engine.Options {
	return engine.Options{
		EWMAAlpha:           e.EWMAAlpha,
		LatencyAlpha:        e.LatencyAlpha,
		MistakeDelayMinutes: e.MistakeDelayMinutes,
		MasteryThreshold:    e.MasteryThreshold,
		RecentWindow:        e.RecentWindow,
	}
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			EWMAAlpha:           stats.DefaultAlpha,
			LatencyAlpha:        stats.DefaultLatencyAlpha,
			MistakeDelayMinutes: spacedrep.DefaultMistakeDelayMinutes,
			MasteryThreshold:    mastery.DefaultRequired,
			RecentWindow:        engine.DefaultRecentWindow,
		},
		Refine: RefineConfig{
			Timeout:   refine.DefaultTimeout,
			BatchSize: 10,
		},
		Log: LogConfig{Mode: "cli"},
		LLM: llm.DefaultConfig(),
	}
}

// DefaultPath returns the config file location under XDG_CONFIG_HOME,
// falling back to ~/.config.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "drillz", "config.yaml"), nil
}

// Load builds a Config. An explicit path must exist; an empty path tries
// DefaultPath and tolerates its absence. A .env file in the working
// directory is loaded first when present.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	explicit := path != ""
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from DRILLZ_* variables. When the selected LLM
// provider has no key and no provider was chosen explicitly, conventional
// vendor key variables are checked.
func (c *Config) ApplyEnv() error {
	c.LLM.ApplyEnv()
	if !c.LLM.HasKey() && os.Getenv("DRILLZ_LLM_PROVIDER") == "" {
		if found, ok := llm.DiscoverConfig(); ok {
			c.LLM.Provider = found.Provider
			adoptKeys(&c.LLM, found)
		}
	}

	if v := os.Getenv("DRILLZ_LOG_MODE"); v != "" {
		c.Log.Mode = v
	}
	if v := os.Getenv("DRILLZ_BANK"); v != "" {
		c.BankPath = v
	}
	if v := os.Getenv("DRILLZ_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("DRILLZ_SEED=%q: %w", v, err)
		}
		c.Engine.Seed = n
	}
	if v := os.Getenv("DRILLZ_MISTAKE_DELAY_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DRILLZ_MISTAKE_DELAY_MINUTES=%q: %w", v, err)
		}
		c.Engine.MistakeDelayMinutes = n
	}
	if v := os.Getenv("DRILLZ_REFINE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("DRILLZ_REFINE_TIMEOUT=%q: %w", v, err)
		}
		c.Refine.Timeout = d
	}
	return nil
}

func adoptKeys(dst *llm.Config, src llm.Config) {
	if dst.Anthropic.APIKey == "" {
		dst.Anthropic.APIKey = src.Anthropic.APIKey
	}
	if dst.OpenAI.APIKey == "" {
		dst.OpenAI.APIKey = src.OpenAI.APIKey
	}
	if dst.Gemini.APIKey == "" {
		dst.Gemini.APIKey = src.Gemini.APIKey
	}
	if dst.OpenRouter.APIKey == "" {
		dst.OpenRouter.APIKey = src.OpenRouter.APIKey
	}
}

// Validate rejects settings the engine cannot run with. LLM credentials are
// checked only when a refine job starts.
func (c Config) Validate() error {
	var errs []error
	e := c.Engine
	if e.EWMAAlpha <= 0 || e.EWMAAlpha > 1 {
		errs = append(errs, fmt.Errorf("engine.ewma_alpha must be in (0, 1], got %v", e.EWMAAlpha))
	}
	if e.LatencyAlpha <= 0 || e.LatencyAlpha > 1 {
		errs = append(errs, fmt.Errorf("engine.latency_alpha must be in (0, 1], got %v", e.LatencyAlpha))
	}
	if e.MistakeDelayMinutes <= 0 {
		errs = append(errs, fmt.Errorf("engine.mistake_delay_minutes must be positive, got %d", e.MistakeDelayMinutes))
	}
	if e.MasteryThreshold < 1 {
		errs = append(errs, fmt.Errorf("engine.mastery_threshold must be at least 1, got %d", e.MasteryThreshold))
	}
	if e.RecentWindow < 1 {
		errs = append(errs, fmt.Errorf("engine.recent_window must be at least 1, got %d", e.RecentWindow))
	}
	if c.Refine.Timeout < 0 {
		errs = append(errs, fmt.Errorf("refine.timeout must not be negative, got %s", c.Refine.Timeout))
	}
	if c.Refine.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("refine.batch_size must be at least 1, got %d", c.Refine.BatchSize))
	}
	return errors.Join(errs...)
}

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EngineConfig is the top-level configuration loaded from YAML.
type EngineConfig struct {
	Symbols []string `yaml:"symbols"`

	Feed struct {
		// "binance" for the live websocket feed, "replay" for CSV files.
		Kind     string `yaml:"kind"`
		Interval string `yaml:"interval"` // e.g. "1m"
		// Directory of <SYMBOL>.csv files when kind == "replay".
		ReplayDir string `yaml:"replay_dir"`
	} `yaml:"feed"`

	Pairs []PairConfig `yaml:"pairs"`

	Database struct {
		SQLitePath string `yaml:"sqlite_path"` // empty = noop recorder
	} `yaml:"database"`

	Archive struct {
		Dir string `yaml:"dir"` // empty = archiving disabled
	} `yaml:"archive"`

	Schedule struct {
		ProfileCron string `yaml:"profile_cron"` // session-boundary profile snapshot
		PairCron    string `yaml:"pair_cron"`    // pair-stat refresh
		ArchiveCron string `yaml:"archive_cron"` // daily archive flush
	} `yaml:"schedule"`

	Metrics struct {
		Addr string `yaml:"addr"` // e.g. ":9090", empty = disabled
	} `yaml:"metrics"`

	Logging struct {
		File       string `yaml:"file"` // empty = stdout only
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
	} `yaml:"logging"`

	Equity   float64        `yaml:"equity"`   // starting paper equity
	Strategy StrategyConfig `yaml:"strategy"` // unset fields keep Default() values
}

// PairConfig names the two legs of a monitored pair. Leg B is the traded leg.
type PairConfig struct {
	LegA string `yaml:"leg_a"`
	LegB string `yaml:"leg_b"`
}

// LoadFile reads an EngineConfig from a YAML file and applies defaults.
func LoadFile(path string) (*EngineConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	// Pre-fill the strategy section so the file only needs to name the
	// parameters it overrides.
	cfg := &EngineConfig{Strategy: Default()}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *EngineConfig) applyDefaults() {
	if c.Feed.Kind == "" {
		c.Feed.Kind = "replay"
	}
	if c.Feed.Interval == "" {
		c.Feed.Interval = "1m"
	}
	if c.Schedule.ProfileCron == "" {
		c.Schedule.ProfileCron = "0 0 * * * *" // hourly
	}
	if c.Schedule.PairCron == "" {
		c.Schedule.PairCron = "0 */5 * * * *"
	}
	if c.Schedule.ArchiveCron == "" {
		c.Schedule.ArchiveCron = "0 0 0 * * *"
	}
	if c.Equity <= 0 {
		c.Equity = 10_000
	}
}

// Validate checks the engine-level settings and the embedded strategy
// parameters.
func (c *EngineConfig) Validate() error {
	if len(c.Symbols) == 0 {
		return fmt.Errorf("at least one symbol is required")
	}
	switch c.Feed.Kind {
	case "binance":
	case "replay":
		if c.Feed.ReplayDir == "" {
			return fmt.Errorf("feed.replay_dir is required for replay feed")
		}
	default:
		return fmt.Errorf("unknown feed kind %q", c.Feed.Kind)
	}
	symbols := make(map[string]bool, len(c.Symbols))
	for _, s := range c.Symbols {
		symbols[s] = true
	}
	for _, p := range c.Pairs {
		if p.LegA == "" || p.LegB == "" || p.LegA == p.LegB {
			return fmt.Errorf("invalid pair %q/%q", p.LegA, p.LegB)
		}
		// The feed only subscribes to Symbols; a leg outside that list
		// would leave the pair without data.
		if !symbols[p.LegA] || !symbols[p.LegB] {
			return fmt.Errorf("pair %s/%s: both legs must be listed in symbols", p.LegA, p.LegB)
		}
	}
	if err := c.Strategy.Validate(); err != nil {
		return fmt.Errorf("strategy: %w", err)
	}
	return nil
}

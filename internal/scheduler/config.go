package scheduler

import (
	"time"

	appconfig "github.com/facturo/facturo/internal/config"
)

// Config controls the invoice-status job cadence and batch sizes.
type Config struct {
	RunInterval    time.Duration
	BatchSize      int
	ReminderWindow time.Duration
	LockTTL        time.Duration
}

func DefaultConfig() Config {
	return Config{
		RunInterval:    24 * time.Hour,
		BatchSize:      100,
		ReminderWindow: 7 * 24 * time.Hour,
		LockTTL:        10 * time.Minute,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RunInterval <= 0 {
		c.RunInterval = defaults.RunInterval
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaults.BatchSize
	}
	if c.ReminderWindow <= 0 {
		c.ReminderWindow = defaults.ReminderWindow
	}
	if c.LockTTL <= 0 {
		c.LockTTL = defaults.LockTTL
	}
	return c
}

func ProvideConfig(cfg appconfig.Config) Config {
	return Config{
		RunInterval:    cfg.Scheduler.RunInterval,
		BatchSize:      cfg.Scheduler.BatchSize,
		ReminderWindow: time.Duration(cfg.Scheduler.ReminderWindowDays) * 24 * time.Hour,
	}.withDefaults()
}

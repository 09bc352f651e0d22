package cache

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Janitor runs a scheduled sweep that purges expired entries, so long-lived
// processes do not rely solely on lazy expiry during reads.
type Janitor struct {
	cron   *cron.Cron
	cache  *Cache
	logger *slog.Logger
}

// NewJanitor schedules a sweep on the given cron spec (e.g. "@every 5m").
func NewJanitor(c *Cache, schedule string, logger *slog.Logger) (*Janitor, error) {
	if logger == nil {
		logger = slog.Default()
	}

	engine := cron.New()
	janitor := &Janitor{cron: engine, cache: c, logger: logger}
	if _, err := engine.AddFunc(schedule, janitor.sweep); err != nil {
		return nil, fmt.Errorf("cron.AddFunc() > %w", err)
	}
	return janitor, nil
}

func (j *Janitor) sweep() {
	removed := j.cache.Sweep()
	if removed > 0 {
		j.logger.Info("cache sweep removed expired entries", "count", removed)
	}
}

func (j *Janitor) Start() {
	j.cron.Start()
}

func (j *Janitor) Stop() {
	j.cron.Stop()
}

package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/weather-collector/internal/sink"
	"github.com/i474232898/weather-collector/internal/weather"
	"github.com/i474232898/weather-collector/internal/weather/providers"
)

// Policy is the explicit per-provider failure policy. A Required provider's
// exhausted-retry failure is reported to stdout; a BestEffort provider's
// failures are logged and skipped silently.
type Policy int

const (
	PolicyRequired Policy = iota
	PolicyBestEffort
)

// Registration pairs a provider with its failure policy.
type Registration struct {
	Provider weather.Provider
	Policy   Policy
}

// Collector runs one collection pass: ensure every sink's schema, then
// fetch from each registered provider strictly in order and forward
// successful rows to every sink. No provider failure aborts the run.
type Collector struct {
	registrations []Registration
	sinks         []sink.Sink
	logger        *zap.Logger
	out           io.Writer
}

func New(logger *zap.Logger, sinks []sink.Sink, registrations []Registration) *Collector {
	return &Collector{
		registrations: registrations,
		sinks:         sinks,
		logger:        logger,
		out:           os.Stdout,
	}
}

// Run executes one collection pass. It returns an error only when a sink
// schema cannot be ensured; provider outcomes are reported per provider and
// never fail the run.
func (c *Collector) Run(ctx context.Context) error {
	for _, s := range c.sinks {
		if err := s.EnsureSchema(); err != nil {
			return fmt.Errorf("ensure %s schema: %w", s.Name(), err)
		}
	}

	for _, reg := range c.registrations {
		name := reg.Provider.Name()

		obs, err := reg.Provider.Fetch(ctx)
		if err != nil {
			c.reportFailure(name, reg.Policy, err)
			continue
		}

		persisted := true
		for _, s := range c.sinks {
			if err := s.Append(obs); err != nil {
				persisted = false
				c.logger.Error("append failed",
					zap.String("provider", name),
					zap.String("sink", s.Name()),
					zap.Error(err))
			}
		}
		if !persisted {
			fmt.Fprintf(c.out, "[ERR] %s: row not fully persisted\n", name)
			continue
		}

		fmt.Fprintf(c.out, "[OK] %s %s precip=%s\n",
			name,
			obs.CollectedAt.Format(time.RFC3339),
			orAbsent(weather.FormatFloat(obs.PrecipMM1h)))
		c.logger.Info("observation persisted",
			zap.String("provider", name),
			zap.String("location", obs.Location),
			zap.String("collected_at", obs.CollectedAt.Format(time.RFC3339)))
	}

	return nil
}

func (c *Collector) reportFailure(name string, policy Policy, err error) {
	if policy == PolicyRequired {
		fmt.Fprintf(c.out, "[ERR] %s: %v\n", name, err)
		c.logger.Error("provider fetch failed", zap.String("provider", name), zap.Error(err))
		return
	}

	// Best-effort provider: skip silently on stdout, keep the diagnostic
	// in the log. A missing credential is a configuration state, not an
	// error.
	if errors.Is(err, providers.ErrNotConfigured) {
		c.logger.Debug("provider disabled", zap.String("provider", name))
		return
	}
	c.logger.Warn("provider skipped", zap.String("provider", name), zap.Error(err))
}

func orAbsent(s string) string {
	if s == "" {
		return "absent"
	}
	return s
}

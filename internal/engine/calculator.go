package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rabank/astro-calculator/internal/config"
	"github.com/rabank/astro-calculator/internal/dasha"
	"github.com/rabank/astro-calculator/internal/ephemeris"
)

// Calculator wires the ephemeris collaborator and a clock around the pure
// chart derivation.
type Calculator struct {
	Provider ephemeris.Provider // Source of raw tropical positions.
	Clock    Clock              // Interface for time mocking.
}

// errNoProvider is returned when a Calculator has no ephemeris.
var errNoProvider = errors.New(config.ErrEphemeris + ": provider is not initialized")

// Chart gathers the raw positions for req and derives the chart.
func (c *Calculator) Chart(ctx context.Context, req Request, opts Options) (*Chart, error) {
	if c.Provider == nil {
		return nil, errNoProvider
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	in, err := Gather(c.Provider, req)
	if err != nil {
		return nil, err
	}

	chart, err := Compute(in, opts)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, config.MsgChartComputed,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyAyanamsha, string(req.Variant),
		config.LogKeyNode, string(in.NodeModel),
		config.LogKeyOffset, req.Offset,
		config.LogKeyAsc, chart.Ascendant.Sign.String(),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return chart, nil
}

// Current returns the Vimshottari periods running now.
func (c *Calculator) Current(chart *Chart) (maha, antar dasha.Period, ok bool) {
	clock := c.Clock
	if clock == nil {
		clock = RealClock{}
	}
	return chart.Dasha.At(clock.Now())
}

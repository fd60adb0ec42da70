package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rabank/astro-calculator/internal/config"
	"github.com/rabank/astro-calculator/internal/ephemeris"
	"golang.org/x/sync/errgroup"
)

// Combo is one (ayanamsha variant, node model) pair.
type Combo struct {
	Variant ephemeris.Variant
	Node    ephemeris.NodeModel
}

func (c Combo) String() string {
	return string(c.Variant) + config.ComboSeparator + string(c.Node)
}

// ParseCombo reads "AYANAMSHA:NODE"; the node part may be omitted for MEAN.
func ParseCombo(s string) (Combo, error) {
	name, node, _ := strings.Cut(s, config.ComboSeparator)
	v, ok := ephemeris.ParseVariant(name)
	if !ok {
		return Combo{}, fmt.Errorf("%s: %q", config.ErrCombo, s)
	}
	return Combo{Variant: v, Node: ephemeris.ParseNodeModel(node)}, nil
}

// VariantResult is the chart computed for one Combo.
type VariantResult struct {
	Combo Combo
	Chart *Chart
}

// Variants computes a chart per combo. Each derivation is independent, so
// they run in parallel; results keep the order of combos.
func (c *Calculator) Variants(ctx context.Context, base Request, combos []Combo, opts Options) ([]VariantResult, error) {
	results := make([]VariantResult, len(combos))
	g, gctx := errgroup.WithContext(ctx)

	for i, combo := range combos {
		g.Go(func() error {
			req := base
			req.Variant = combo.Variant
			req.NodeModel = combo.Node

			chart, err := c.Chart(gctx, req, opts)
			if err != nil {
				return fmt.Errorf("%s %s: %w", config.ErrVariantFailed, combo, err)
			}
			results[i] = VariantResult{Combo: combo, Chart: chart}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, config.MsgVariantsDone,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyCount, len(results),
	)
	return results, nil
}

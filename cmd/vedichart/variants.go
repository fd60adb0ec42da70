package main

import (
	"github.com/rabank/astro-calculator/internal/config"
	"github.com/rabank/astro-calculator/internal/engine"
	"github.com/spf13/cobra"
)

// variantJSON is one entry of the variants output.
type variantJSON struct {
	Combo string          `json:"combo"`
	Chart engine.Response `json:"chart"`
}

func newVariantsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "variants",
		Short: "Compute the chart of a snapshot under several ayanamsha and node combinations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			calc, base, err := a.calculator(cmd)
			if err != nil {
				return err
			}

			specs, _ := cmd.Flags().GetStringSlice(config.FlagCombo)
			combos := make([]engine.Combo, 0, len(specs))
			for _, s := range specs {
				c, err := engine.ParseCombo(s)
				if err != nil {
					return err
				}
				combos = append(combos, c)
			}
			if len(combos) == 0 {
				combos = append(combos, a.selection())
			}

			results, err := calc.Variants(cmd.Context(), base, combos, a.options())
			if err != nil {
				return err
			}

			out := make([]variantJSON, 0, len(results))
			for _, r := range results {
				out = append(out, variantJSON{
					Combo: r.Combo.String(),
					Chart: r.Chart.Response().WithCurrent(calc.Current(r.Chart)),
				})
			}
			return a.writeJSON(out)
		},
	}

	addSnapshotFlag(cmd)
	cmd.Flags().StringSlice(config.FlagCombo, nil, config.FlagDescCombo)
	return cmd
}

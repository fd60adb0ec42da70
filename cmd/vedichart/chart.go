package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rabank/astro-calculator/internal/calendar"
	"github.com/rabank/astro-calculator/internal/config"
	"github.com/spf13/cobra"
)

func newChartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Print the chart of a snapshot as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			calc, req, err := a.calculator(cmd)
			if err != nil {
				return err
			}

			chart, err := calc.Chart(cmd.Context(), req, a.options())
			if err != nil {
				return err
			}

			maha, antar, ok := calc.Current(chart)
			if ok {
				slog.Info(config.MsgCurrentDasha,
					config.LogKeyComponent, config.CompCLI,
					config.LogKeyLord, maha.Lord.String(),
					config.LogKeySubLord, antar.Lord.String(),
				)
			}

			if path, _ := cmd.Flags().GetString(config.FlagICS); path != "" {
				name, _ := cmd.Flags().GetString(config.FlagName)
				data, err := calendar.Build(chart.Dasha, name, a.clock.Now())
				if err != nil {
					return err
				}
				if err := os.WriteFile(path, data, config.FilePermUserRW); err != nil {
					return fmt.Errorf("%s: %w", config.ErrICalEncode, err)
				}
			}

			return a.writeJSON(chart.Response().WithCurrent(maha, antar, ok))
		},
	}

	addSnapshotFlag(cmd)
	cmd.Flags().String(config.FlagICS, "", config.FlagDescICS)
	cmd.Flags().String(config.FlagName, "", config.FlagDescName)
	return cmd
}

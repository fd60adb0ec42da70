package main

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"
	"github.com/rabank/astro-calculator/internal/config"
	"github.com/rabank/astro-calculator/internal/engine"
	"github.com/rabank/astro-calculator/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the snapshot's chart, its Dasha calendar and ad-hoc computations over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			calc, req, err := a.calculator(cmd)
			if err != nil {
				return err
			}

			srv := server.NewChartServer(a.settings.Port, a.clock)
			srv.Name, _ = cmd.Flags().GetString(config.FlagName)
			if err := publish(cmd.Context(), srv, calc, req, a.options()); err != nil {
				return err
			}

			// A config file edit re-selects the variant and republishes; the port
			// stays as it was at startup.
			if a.v.ConfigFileUsed() != "" {
				a.v.OnConfigChange(func(e fsnotify.Event) {
					if err := a.reload(cmd.Context(), srv, calc, req); err != nil {
						slog.Error(config.ErrConfigReload,
							config.LogKeyComponent, config.CompCLI,
							config.LogKeyFile, e.Name,
							config.LogKeyError, err,
						)
						return
					}
					slog.Info(config.MsgConfigReloaded,
						config.LogKeyComponent, config.CompCLI,
						config.LogKeyFile, e.Name,
					)
				})
				a.v.WatchConfig()
			}

			if err := srv.Start(cmd.Context()); err != nil {
				return err
			}
			slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
			return nil
		},
	}

	addSnapshotFlag(cmd)
	cmd.Flags().String(config.FlagPort, config.DefaultPort, config.FlagDescPort)
	cmd.Flags().String(config.FlagName, "", config.FlagDescName)
	_ = a.v.BindPFlag(config.KeyPort, cmd.Flags().Lookup(config.FlagPort))
	return cmd
}

// reload re-reads the settings and republishes the chart under them.
func (a *app) reload(ctx context.Context, srv *server.ChartServer, calc *engine.Calculator, req engine.Request) error {
	s, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.settings = s

	combo := a.selection()
	req.Variant = combo.Variant
	req.NodeModel = combo.Node
	req.Offset = s.Offset
	return publish(ctx, srv, calc, req, a.options())
}

func publish(ctx context.Context, srv *server.ChartServer, calc *engine.Calculator, req engine.Request, opts engine.Options) error {
	chart, err := calc.Chart(ctx, req, opts)
	if err != nil {
		return err
	}
	return srv.Publish(chart)
}

package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"

	"github.com/rabank/astro-calculator/internal/config"
	"github.com/rabank/astro-calculator/internal/engine"
	"github.com/rabank/astro-calculator/internal/ephemeris"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries what every command shares: the viper instance, the loaded
// settings and the output stream.
type app struct {
	v        *viper.Viper
	settings config.Settings
	out      io.Writer
	clock    engine.Clock
	logFile  io.Closer
}

func newApp(out io.Writer) *app {
	return &app{v: viper.New(), out: out, clock: engine.RealClock{}}
}

func (a *app) close() {
	if a.logFile != nil {
		_ = a.logFile.Close() // Best effort close
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           config.CommandName,
		Short:         "Vedic chart derivation",
		Long:          "vedichart derives a sidereal chart, Panchanga, Navamsa and Vimshottari timeline from precomputed ephemeris positions.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String(config.FlagConfig, "", config.FlagDescConfig)
	flags.Bool(config.FlagDebug, false, config.FlagDescDebug)
	flags.String(config.FlagAyanamsha, config.DefaultAyanamsha, config.FlagDescAyan)
	flags.String(config.FlagNode, config.DefaultNodeModel, config.FlagDescNode)
	flags.Float64(config.FlagOffset, config.DefaultOffset, config.FlagDescOffset)
	flags.Float64(config.FlagHorizon, config.DefaultHorizonYears, config.FlagDescHorizon)

	_ = a.v.BindPFlag(config.KeyDebug, flags.Lookup(config.FlagDebug))
	_ = a.v.BindPFlag(config.KeyAyanamsha, flags.Lookup(config.FlagAyanamsha))
	_ = a.v.BindPFlag(config.KeyNodeType, flags.Lookup(config.FlagNode))
	_ = a.v.BindPFlag(config.KeyOffset, flags.Lookup(config.FlagOffset))
	_ = a.v.BindPFlag(config.KeyHorizon, flags.Lookup(config.FlagHorizon))

	root.AddCommand(
		newChartCmd(a),
		newVariantsCmd(a),
		newServeCmd(a),
		newVersionCmd(a),
	)
	return root
}

// setup reads the optional config file, loads the settings and installs the
// logger.
func (a *app) setup(cmd *cobra.Command) error {
	if cfgFile, _ := cmd.Flags().GetString(config.FlagConfig); cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
	} else {
		a.v.SetConfigName(config.ConfigFileName)
		a.v.SetConfigType(config.ConfigFileType)
		a.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(home)
		}
	}

	// It's fine if no config file is found; we use defaults.
	if err := a.v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && a.v.ConfigFileUsed() != "" {
			return err
		}
	}

	s, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.settings = s

	a.logFile = setupLogging(s.Debug)
	logStartupInfo()
	return nil
}

// selection resolves the configured variant and node model. An unknown
// variant falls back to Lahiri with a warning.
func (a *app) selection() engine.Combo {
	v, ok := ephemeris.ParseVariant(a.settings.Ayanamsha)
	if !ok {
		slog.Warn(config.MsgUnknownVariant,
			config.LogKeyComponent, config.CompCLI,
			config.LogKeyValue, a.settings.Ayanamsha,
			config.LogKeyAyanamsha, string(v),
		)
	}
	return engine.Combo{Variant: v, Node: ephemeris.ParseNodeModel(a.settings.NodeType)}
}

// calculator loads the snapshot named by the --snapshot flag and returns a
// calculator over it plus the request for its recorded moment.
func (a *app) calculator(cmd *cobra.Command) (*engine.Calculator, engine.Request, error) {
	path, _ := cmd.Flags().GetString(config.FlagSnapshot)
	snap, err := ephemeris.ReadSnapshotFile(path)
	if err != nil {
		return nil, engine.Request{}, err
	}

	combo := a.selection()
	req := engine.SnapshotRequest(snap)
	req.Variant = combo.Variant
	req.NodeModel = combo.Node
	req.Offset = a.settings.Offset

	return &engine.Calculator{Provider: snap, Clock: a.clock}, req, nil
}

func (a *app) options() engine.Options {
	return engine.Options{HorizonYears: a.settings.HorizonYears}
}

func (a *app) writeJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func addSnapshotFlag(cmd *cobra.Command) {
	cmd.Flags().String(config.FlagSnapshot, "", config.FlagDescSnap)
	_ = cmd.MarkFlagRequired(config.FlagSnapshot)
}

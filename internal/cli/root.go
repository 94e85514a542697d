// Package cli is the flightctl operator command tree. Every command loads the
// snapshot, performs one operation and saves again when it mutated state.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/app"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "FLIGHTDESK"

type runtime struct {
	v     *viper.Viper
	state *app.State
}

func NewRootCommand() *cobra.Command {
	rt := &runtime{v: viper.New()}

	root := &cobra.Command{
		Use:   "flightctl",
		Short: "Operate the flightdesk booking ledger",
		Long: `flightctl reads the booking snapshot, runs one operation against the
seat catalog and ledger, and writes the snapshot back.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.open(cmd.Context())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return rt.close()
		},
	}

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default $CONFIG_PATH or config.yaml)")
	flags.String("store-path", "", "snapshot file, overrides store.path")
	flags.String("log-level", "", "log level, overrides log.level")
	_ = rt.v.BindPFlag("config", flags.Lookup("config"))
	_ = rt.v.BindPFlag("store.path", flags.Lookup("store-path"))
	_ = rt.v.BindPFlag("log.level", flags.Lookup("log-level"))

	rt.v.SetEnvPrefix(envPrefix)
	rt.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	rt.v.AutomaticEnv()

	root.AddCommand(
		newSeatsCommand(rt),
		newBookingsCommand(rt),
		newBookCommand(rt),
		newCancelCommand(rt),
		newModifySeatCommand(rt),
		newModifyMealCommand(rt),
		newReportCommand(rt),
	)
	return root
}

// loadConfig reads the YAML config when present and applies flag and
// FLIGHTDESK_* overrides on top.
func (rt *runtime) loadConfig() (*config.Config, error) {
	path := rt.v.GetString("config")
	explicit := path != ""
	if !explicit {
		path = config.Path()
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = config.Default()
	}

	if p := rt.v.GetString("store.path"); p != "" {
		cfg.Store.Path = p
	}
	if lvl := rt.v.GetString("log.level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	if backend := rt.v.GetString("store.backend"); backend != "" {
		cfg.Store.Backend = backend
	}
	// The CLI never publishes events.
	cfg.Kafka.Brokers = nil
	return cfg, cfg.Validate()
}

func (rt *runtime) open(ctx context.Context) error {
	cfg, err := rt.loadConfig()
	if err != nil {
		return err
	}
	if err := app.ConfigureLogging(cfg.Log, nil); err != nil {
		return err
	}

	state, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	if _, err := state.Snapshots.Load(ctx); err != nil {
		_ = state.Close()
		return err
	}

	rt.state = state
	return nil
}

func (rt *runtime) save(ctx context.Context) error {
	if _, err := rt.state.Snapshots.Save(ctx); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (rt *runtime) close() error {
	if rt.state == nil {
		return nil
	}
	err := rt.state.Close()
	rt.state = nil
	return err
}

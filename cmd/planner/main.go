package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"business_planner/pkg/core/config"
	"business_planner/pkg/core/logging"
	"business_planner/pkg/core/projection"
	"business_planner/pkg/core/store"
	"business_planner/pkg/core/valuation"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

// app is the state shared by every command, built in PersistentPreRunE.
type app struct {
	v      *viper.Viper
	cfg    config.EngineConfig
	logger *slog.Logger
	engine *projection.Engine
	memo   *store.Memo
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	var cfgFile string
	root := &cobra.Command{
		Use:   "planner",
		Short: "Deterministic business plan projections",
		Long: `planner turns a business assumption document into monthly projections,
NPV, IRR, break-even and payback, and sizes the market behind it.

Documents may be JSON, Hjson or YAML.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.setup(cfgFile)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if a.memo != nil {
				return a.memo.Close()
			}
			return nil
		},
	}

	// Global flags
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "engine config file (default: "+config.DefaultPath+")")
	root.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "text", "log format (text, json)")
	root.PersistentFlags().String("cache", "", "SQLite file for caching results between runs")

	// Bind flags to viper
	_ = a.v.BindPFlag("logging.level", root.PersistentFlags().Lookup("log-level"))
	_ = a.v.BindPFlag("logging.format", root.PersistentFlags().Lookup("log-format"))
	_ = a.v.BindPFlag("cache", root.PersistentFlags().Lookup("cache"))

	// Add commands
	root.AddCommand(a.projectCmd())
	root.AddCommand(a.metricsCmd())
	root.AddCommand(a.trajectoryCmd())
	root.AddCommand(a.marketCmd())
	root.AddCommand(a.validateCmd())
	root.AddCommand(a.sweepCmd())
	root.AddCommand(a.reportCmd())
	root.AddCommand(a.irrCmd())
	root.AddCommand(versionCmd())

	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, FormatError(err.Error()))
		os.Exit(1)
	}
}

// setup loads the engine config, then lets PLANNER_* variables and flags
// override logging and the cache location.
func (a *app) setup(cfgFile string) error {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.v.SetEnvPrefix("PLANNER")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	level := a.v.GetString("logging.level")
	format := a.v.GetString("logging.format")
	logger, err := logging.Setup(level, format)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	a.logger = logger

	a.engine = projection.NewEngine(cfg.Projection, projection.WithLogger(logger))

	var runs store.RunStore
	if cache := a.v.GetString("cache"); cache != "" {
		s, err := store.NewSQLiteStore(cache)
		if err != nil {
			return err
		}
		runs = s
		logger.Debug("caching results", "path", cache)
	}
	a.memo = store.NewMemo(runs, logger).WithScope(valuation.EngineScope(a.engine.Config(), cfg.IRR))
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "planner %s\n", version)
		},
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/drake/gridbench/config"
	"github.com/drake/gridbench/dataset"
	"github.com/drake/gridbench/debug"
	"github.com/drake/gridbench/internal/logging"
	"github.com/drake/gridbench/session"
)

// Persistent flags
var (
	configPath string
	debugMode  bool
	logFile    string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := &cobra.Command{
		Use:           "gridbench",
		Short:         "Benchmark coalesced styling of spreadsheet widgets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default "+config.Path()+")")
	rootCmd.PersistentFlags().BoolVarP(&debugMode, "debug", "d", false, "Enable debug logging and the stats monitor")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file")

	addCommand(rootCmd, &runCmd{})
	addCommand(rootCmd, &uiCmd{})
	addCommand(rootCmd, &genCmd{})
	addCommand(rootCmd, &configCmd{})

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type gridbenchCmd interface {
	register() *cobra.Command
	run(ctx context.Context, args []string) error
}

func addCommand(parent *cobra.Command, child gridbenchCmd) {
	cobraChild := child.register()
	cobraChild.RunE = func(cmd *cobra.Command, args []string) error {
		return child.run(cmd.Context(), args)
	}
	parent.AddCommand(cobraChild)
}

// loadConfig reads the config file named by --config, or the default one.
func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if debugMode || debug.Enabled() {
		cfg.Debug = true
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}
	return cfg, nil
}

// newLogger opens the configured log file, or falls back to fallback. A nil
// fallback discards logs.
func newLogger(cfg config.Config, fallback *os.File, min logging.Level) (*logging.Logger, error) {
	if cfg.Debug {
		min = logging.DebugLvl
	}
	if cfg.LogFile != "" {
		return logging.NewFile(cfg.LogFile, min)
	}
	if fallback == nil {
		return logging.Discard(), nil
	}
	return logging.New(fallback, min), nil
}

// loadDataset reads a CBOR fixture or generates one from the config.
func loadDataset(cfg config.Config, path string) (*dataset.Dataset, error) {
	if path != "" {
		return dataset.LoadFile(path)
	}
	return dataset.Generate(cfg.Seed, cfg.Columns, cfg.Rows), nil
}

func sessionConfig(cfg config.Config, ds *dataset.Dataset, log *logging.Logger) session.Config {
	return session.Config{
		Dataset:      ds,
		Seed:         cfg.Seed,
		Scenario:     cfg.Scenario,
		AutoScenario: cfg.AutoScenario,
		AutoInterval: cfg.AutoInterval,
		CellColor:    cfg.CellColor,
		ColumnColor:  cfg.ColumnColor,
		Delay:        cfg.Delay,
		MaxWait:      cfg.MaxWait,
		TableWidth:   cfg.Table.Width,
		TableHeight:  cfg.Table.Height,
		SheetRows:    cfg.Sheet.Rows,
		SheetColumns: cfg.Sheet.Columns,
		Logger:       log,
	}
}

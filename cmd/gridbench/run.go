package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/drake/gridbench/bench"
	"github.com/drake/gridbench/debug"
	"github.com/drake/gridbench/event"
	"github.com/drake/gridbench/grid"
	"github.com/drake/gridbench/internal/logging"
	"github.com/drake/gridbench/session"
)

type runCmd struct {
	rows     int
	columns  int
	seed     uint64
	rounds   int
	data     string
	scenario string
	report   string
	xlsx     string
	widgets  []string
}

func (c *runCmd) register() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark headless and print a summary",
		Long: `Creates every widget, runs the scenario against them and waits for the
coalesced flushes, once per round. Zero-valued flags fall back to the config.`,
		Args: cobra.NoArgs,
	}
	cmd.Flags().IntVar(&c.rows, "rows", 0, "Rows to generate")
	cmd.Flags().IntVar(&c.columns, "columns", 0, "Columns to generate")
	cmd.Flags().Uint64Var(&c.seed, "seed", 0, "Seed for data and scenarios")
	cmd.Flags().IntVar(&c.rounds, "rounds", 0, "Create and color rounds")
	cmd.Flags().StringVar(&c.data, "data", "", "CBOR dataset written by 'gridbench gen'")
	cmd.Flags().StringVar(&c.scenario, "scenario", "", "Scenario name or .lua file")
	cmd.Flags().StringVar(&c.report, "report", "", "Write a YAML report to this file")
	cmd.Flags().StringVar(&c.xlsx, "xlsx", "", "Save the styled sheet to this .xlsx file")
	cmd.Flags().StringSliceVar(&c.widgets, "widgets", nil, "Widgets to benchmark (table, sheet)")
	return cmd
}

func (c *runCmd) run(ctx context.Context, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if c.rows > 0 {
		cfg.Rows = c.rows
	}
	if c.columns > 0 {
		cfg.Columns = c.columns
	}
	if c.seed > 0 {
		cfg.Seed = c.seed
	}
	if c.rounds > 0 {
		cfg.Rounds = c.rounds
	}
	if c.scenario != "" {
		cfg.Scenario = c.scenario
	}
	if len(c.widgets) > 0 {
		cfg.Widgets = cfg.Widgets[:0]
		for _, name := range c.widgets {
			kind, ok := grid.ParseKind(name)
			if !ok {
				return errors.Errorf("unknown widget %q", name)
			}
			cfg.Widgets = append(cfg.Widgets, kind)
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := newLogger(cfg, os.Stderr, logging.WarnLvl)
	if err != nil {
		return err
	}
	defer log.Close()

	ds, err := loadDataset(cfg, c.data)
	if err != nil {
		return err
	}

	rec := bench.NewRecorder(bench.Options{
		Rounds:  cfg.Rounds,
		Widgets: cfg.Widgets,
		Logger:  log,
	})
	sess := session.New(rec, sessionConfig(cfg, ds, log))
	if c.xlsx != "" {
		rec.Finally = bench.ExportSheet(sess, c.xlsx)
	}

	debug.NewMonitor(sess, log, cfg.Debug).Start(ctx)
	go func() {
		select {
		case <-ctx.Done():
			sess.Post(event.Event{Type: event.Quit})
		case <-sess.Done():
		}
	}()

	started := time.Now()
	runErr := sess.Run()

	report := bench.NewReport(started, rec.Entries())
	report.Seed = ds.Seed
	report.Rows = len(ds.Rows)
	report.Columns = len(ds.Columns)
	report.Scenario = cfg.Scenario
	report.Delay = cfg.Delay
	fmt.Println(report.Table())

	if c.report != "" {
		if err := report.SaveFile(c.report); err != nil {
			return err
		}
	}
	return runErr
}

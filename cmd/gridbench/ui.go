package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/drake/gridbench/debug"
	"github.com/drake/gridbench/internal/logging"
	"github.com/drake/gridbench/session"
	"github.com/drake/gridbench/ui"
)

type uiCmd struct {
	simple bool
	data   string
}

func (c *uiCmd) register() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive benchmark page",
		Long: `Keys: t creates the table, s the sheet, c colors every widget,
a toggles auto coloring and q quits.`,
		Args: cobra.NoArgs,
	}
	cmd.Flags().BoolVar(&c.simple, "simple", false, "Use simple console UI instead of TUI")
	cmd.Flags().StringVar(&c.data, "data", "", "CBOR dataset written by 'gridbench gen'")
	return cmd
}

func (c *uiCmd) run(ctx context.Context, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so only log to a file there.
	var fallback *os.File
	if c.simple {
		fallback = os.Stderr
	}
	log, err := newLogger(cfg, fallback, logging.WarnLvl)
	if err != nil {
		return err
	}
	defer log.Close()

	ds, err := loadDataset(cfg, c.data)
	if err != nil {
		return err
	}

	var display session.Display
	if c.simple {
		display = ui.NewConsoleUI(os.Stdin, os.Stdout)
	} else {
		display = ui.NewBubbleTeaUI()
	}

	sess := session.New(display, sessionConfig(cfg, ds, log))
	debug.NewMonitor(sess, log, cfg.Debug).Start(ctx)
	return sess.Run()
}

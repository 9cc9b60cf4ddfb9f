package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/drake/gridbench/config"
)

type configCmd struct {
	write bool
}

func (c *configCmd) register() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().BoolVar(&c.write, "write", false, "Write the defaults to the config file")
	return cmd
}

func (c *configCmd) run(ctx context.Context, args []string) error {
	path := configPath
	if path == "" {
		path = config.Path()
	}

	if c.write {
		if err := config.Default().Save(path); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

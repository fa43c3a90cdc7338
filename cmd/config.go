package cmd

import (
	"fmt"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

func init() {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE:  runConfig,
	}
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	ctx, err := newContext(cmd)
	if err != nil {
		return err
	}

	data, err := toml.Marshal(ctx.Config)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}

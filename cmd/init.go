package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/entangled-go/entangled/internal/config"
)

func init() {
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default entangled.toml in the project directory",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir := resolveDir(cmd)
	path := filepath.Join(dir, "entangled.toml")

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("init: %s already exists", path)
	}

	data, err := toml.Marshal(config.Default())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}

	printer().Info("wrote " + path)
	return nil
}

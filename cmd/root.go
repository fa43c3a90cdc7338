// Package cmd is the cobra command tree: init, tangle, stitch, sync, watch,
// status, locate, config, reset, bench — the CLI surface wired over
// internal/engine, with viper's config-file/env pass run from initConfig.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "entangled",
	Short: "A literate-programming tangle/stitch engine",
	Long:  "entangled tangles Markdown code blocks into source files and stitches edited source files back into their Markdown origin.",
}

// Execute runs the command tree, exiting 1 on any error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("directory", "d", ".", "project directory (default: current directory)")
	rootCmd.PersistentFlags().String("config", "", "config file for the viper pass (default entangled.toml in the current directory); project settings are always read from --directory's entangled.toml")
}

func initConfig() {
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("entangled")
		viper.SetConfigType("toml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("ENTANGLED")
	viper.AutomaticEnv()

	// It's fine if no config file is found here; internal/config.Load
	// applies its own defaults per-project when a Context is built. This
	// viper pass only resolves CLI-facing overrides (flags/env), not the
	// project's entangled.toml semantics.
	_ = viper.ReadInConfig()
}

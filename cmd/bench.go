package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entangled-go/entangled/internal/enginebench"
)

func init() {
	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure tangle throughput across synthetic document sizes",
		Args:  cobra.NoArgs,
		RunE:  runBench,
	}
	benchCmd.Flags().IntSlice("sizes", []int{10, 50, 100, 200}, "comma-separated block counts to sweep")
	benchCmd.Flags().Int("iterations", 5, "iterations per size")
	benchCmd.Flags().Int("lines-per-block", 10, "lines of generated content per block")
	rootCmd.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, _ []string) error {
	sizes, _ := cmd.Flags().GetIntSlice("sizes")
	iterations, _ := cmd.Flags().GetInt("iterations")
	linesPerBlock, _ := cmd.Flags().GetInt("lines-per-block")

	results, err := enginebench.Run(sizes, iterations, linesPerBlock)
	if err != nil {
		return err
	}
	fmt.Print(enginebench.FormatTable(results))
	return nil
}

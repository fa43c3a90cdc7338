// Package enginebench measures tangle throughput across synthetic block
// counts: generate a document of a given size, tangle it into a temp
// directory, and report the average wall-clock per size.
package enginebench

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/entangled-go/entangled/internal/engine"
)

// GenerateMarkdown builds a synthetic document with numBlocks referenced
// blocks, each linesPerBlock lines long, concatenated into one root block
// that targets output.py.
func GenerateMarkdown(numBlocks, linesPerBlock int) string {
	var b strings.Builder
	b.WriteString("# Benchmark Document\n\n")

	b.WriteString("``` python #main file=output.py\n")
	for i := 0; i < numBlocks; i++ {
		fmt.Fprintf(&b, "<<block%d>>\n", i)
	}
	b.WriteString("```\n\n")

	for i := 0; i < numBlocks; i++ {
		fmt.Fprintf(&b, "``` python #block%d\n", i)
		for j := 0; j < linesPerBlock; j++ {
			fmt.Fprintf(&b, "print('Block %d line %d')\n", i, j)
		}
		b.WriteString("```\n\n")
	}

	return b.String()
}

// Result is one sweep point: the average tangle duration over iterations
// runs at a given block count.
type Result struct {
	NumBlocks int
	AvgMillis float64
}

// Run tangles a freshly generated document of each size in sizes,
// iterations times, and reports the average planning+apply duration.
// BenchmarkTangle in enginebench_test.go is the testing.B form of the
// same sweep.
func Run(sizes []int, iterations, linesPerBlock int) ([]Result, error) {
	results := make([]Result, 0, len(sizes))
	for _, size := range sizes {
		total := time.Duration(0)
		for i := 0; i < iterations; i++ {
			dir, err := os.MkdirTemp("", "entangled-bench-*")
			if err != nil {
				return nil, err
			}
			err = writeAndTangle(dir, size, linesPerBlock, &total)
			os.RemoveAll(dir)
			if err != nil {
				return nil, err
			}
		}
		avg := total.Seconds() * 1000 / float64(iterations)
		results = append(results, Result{NumBlocks: size, AvgMillis: avg})
	}
	return results, nil
}

func writeAndTangle(dir string, size, linesPerBlock int, total *time.Duration) error {
	md := GenerateMarkdown(size, linesPerBlock)
	if err := os.WriteFile(filepath.Join(dir, "test.md"), []byte(md), 0o644); err != nil {
		return err
	}

	ctx, err := engine.New(dir)
	if err != nil {
		return err
	}

	start := time.Now()
	plan, err := ctx.PlanTangle(false)
	if err != nil {
		return err
	}
	if _, err := ctx.ApplyTangle(plan); err != nil {
		return err
	}
	*total += time.Since(start)
	return nil
}

// FormatTable renders results as a fixed-width table.
func FormatTable(results []Result) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("=", 40) + "\n")
	b.WriteString("BENCHMARK RESULTS: Tangle Operation\n")
	b.WriteString(strings.Repeat("=", 40) + "\n")
	fmt.Fprintf(&b, "%-10s%s\n", "Blocks", "Avg (ms)")
	b.WriteString(strings.Repeat("-", 30) + "\n")
	for _, r := range results {
		fmt.Fprintf(&b, "%-10d%8.2f\n", r.NumBlocks, r.AvgMillis)
	}
	return b.String()
}

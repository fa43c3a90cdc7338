package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/entangled-go/entangled/internal/engine"
	"github.com/entangled-go/entangled/internal/watch"
)

func init() {
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll for changes and sync on every settled edit",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}
	watchCmd.Flags().Int("debounce", 0, "debounce window in milliseconds (default: entangled.toml's watch.debounce_ms)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ui := printer()

	ctx, err := newContext(cmd)
	if err != nil {
		return err
	}

	debounceMS, _ := cmd.Flags().GetInt("debounce")
	if debounceMS <= 0 {
		debounceMS = ctx.Config.Watch.DebounceMS
	}
	if debounceMS <= 0 {
		debounceMS = 100
	}

	list := func() ([]string, error) {
		return listAllPaths(ctx)
	}
	w := watch.New(ctx.BaseDir, list, nil, 50*time.Millisecond, time.Duration(debounceMS)*time.Millisecond)

	sigCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ui.Info(fmt.Sprintf("watching %s (debounce %dms, ^C to stop)", ctx.BaseDir, debounceMS))

	go func() {
		for range w.Changes {
			result, err := ctx.Sync(false)
			if err != nil {
				ui.Error(err.Error())
				continue
			}
			if err := ctx.SaveDB(); err != nil {
				ui.Error(err.Error())
				continue
			}
			ui.Info(fmt.Sprintf("synced: %d stitch, %d tangle action(s)", len(result.StitchActions), len(result.TangleActions)))
		}
	}()

	return w.Run(sigCtx)
}

// listAllPaths returns every Markdown source plus every tracked file, each
// joined onto the project directory — the set the watch loop treats as
// meaningful.
func listAllPaths(ctx *engine.Context) ([]string, error) {
	sources, err := engine.DiscoverSources(ctx.BaseDir, ctx.Config.SourcePatterns)
	if err != nil {
		return nil, err
	}
	abs := make([]string, len(sources))
	for i, s := range sources {
		abs[i] = ctx.AbsPath(s)
	}

	for _, p := range ctx.DB.Paths() {
		abs = append(abs, ctx.AbsPath(p))
	}
	return abs, nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/shapley-go/infrastructure/logging"
)

// watchOptions holds options for the watch command.
type watchOptions struct {
	gameOptions
	debounce time.Duration
}

// newWatchCmd creates the watch command.
func (a *App) newWatchCmd() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Recompute values whenever the game file changes",
		Long: `Compute values once, then again each time the game file is written.

Editors often write a file several times in quick succession; changes
within --debounce of each other trigger a single recomputation. Errors in
an edited file are reported and watching continues. Stop with Ctrl-C.

Examples:
  shapley watch -c game.yaml
  shapley watch -c game.yaml -o json --debounce 500ms`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWatch(cmd.Context(), opts)
		},
	}

	opts.addGameFlags(cmd)
	opts.addTelemetryFlags(cmd)
	cmd.Flags().DurationVar(&opts.debounce, "debounce", 200*time.Millisecond, "Quiet period before recomputing")

	return cmd
}

func (a *App) runWatch(ctx context.Context, opts *watchOptions) error {
	path, err := filepath.Abs(opts.configPath)
	if err != nil {
		return err
	}
	opts.configPath = path

	// The first run must succeed so typos in -c surface immediately.
	if err := a.computeOnce(ctx, &opts.gameOptions); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: editors replace files by rename, which drops a
	// watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	logging.Info().
		Add(logging.Component("watch")).
		Add(logging.Path(path)).
		Msg("watching game file")

	timer := time.NewTimer(opts.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != path || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			timer.Reset(opts.debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn().
				Add(logging.Component("watch")).
				Add(logging.ErrorField(err)).
				Msg("watcher error")
		case <-timer.C:
			if err := a.computeOnce(ctx, &opts.gameOptions); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				fmt.Fprintf(a.stderr, "Error: %v\n", err)
			}
		}
	}
}

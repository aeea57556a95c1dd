package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/crosstalk/internal/platform"
	lifecycleadapter "github.com/aretw0/crosstalk/pkg/adapters/lifecycle"
	"github.com/aretw0/crosstalk/pkg/core"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload the workspace and print the summary whenever the vault changes",
		Long: `Watch keeps running until interrupted. Edits made by other crosstalk
processes or by hand show up as a fresh summary line per dialog.

Examples:
  crosstalk watch
  crosstalk watch --pattern todo --debounce 200ms`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern, _ := cmd.Flags().GetString("pattern")
			debounce, _ := cmd.Flags().GetDuration("debounce")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := openSession(cmd, true,
				platform.WithWatchDebounce(debounce),
				platform.WithWatcherErrorHandler(func(err error) {
					slog.Error("watch failed", "error", err)
				}),
			)
			if err != nil {
				return err
			}
			defer s.Close()

			events, err := s.ws.Watch(ctx, pattern)
			if err != nil {
				return err
			}
			source := lifecycleadapter.NewSource(events,
				lifecycleadapter.WithIDs(core.DocCorpus, core.DocKeywords, core.DocTodo))
			if err := source.Start(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Watching %s (ctrl+c to stop)\n", s.cfg.Vault)
			for e := range source.Events() {
				change, ok := e.(lifecycleadapter.Change)
				if !ok {
					continue
				}
				slog.Debug("vault changed", "documents", change.IDs, "deleted", change.Deleted)
				if err := s.ws.Load(ctx); err != nil {
					slog.Warn("reload failed", "documents", change.IDs, "error", err)
					continue
				}
				stamp := time.Now().Format(time.TimeOnly)
				for _, sum := range s.ws.Summaries() {
					fmt.Fprintf(out, "%s %s: %d pending of %d conflicts (%s)\n",
						stamp, sum.Active, sum.Pending, sum.Conflicts, sum.State)
				}
			}
			return nil
		},
	}
	cmd.Flags().String("pattern", "*", "Glob of document IDs to watch")
	cmd.Flags().Duration("debounce", 0, "Coalescing window for bursts of changes (default 50ms)")
	return cmd
}

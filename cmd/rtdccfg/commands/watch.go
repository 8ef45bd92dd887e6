package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/rtdcconfig/internal/config/notify"
	"github.com/dshills/rtdcconfig/internal/config/watcher"
)

func (a *app) watchCommand() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "watch FILE...",
		Short: "Reload configuration files whenever they change",
		Long: `Load and print the given files, then reload them on every change and
print the entries that changed. Diagnostics of each reload are logged.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.runWatch(ctx, args, quiet)
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only log, do not print the configuration and its changes")
	return cmd
}

func (a *app) runWatch(ctx context.Context, files []string, quiet bool) error {
	cfg, err := a.load(nil, files...)
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Fprint(a.stdout, cfg.ToText())
	}

	w, err := watcher.New(watcher.WithErrorHandler(func(err error) {
		a.logger.Error("watch error", zap.Error(err))
	}))
	if err != nil {
		return err
	}
	defer w.Close()

	for _, f := range files {
		if err := w.Watch(f); err != nil {
			return fmt.Errorf("watching %s: %w", f, err)
		}
	}

	changes := notify.New()
	defer changes.Close()
	changes.Subscribe(func(c notify.Change) {
		a.logger.Info("configuration changed",
			zap.String("section", c.Section),
			zap.String("key", c.Key),
			zap.Stringer("change", c.Type),
			zap.String("source", c.Source))
		if quiet {
			return
		}
		switch c.Type {
		case notify.ChangeDelete:
			fmt.Fprintf(a.stdout, "- [%s] %s = %s\n", c.Section, c.Key, c.Old.Format())
		default:
			fmt.Fprintf(a.stdout, "+ [%s] %s = %s\n", c.Section, c.Key, c.New.Format())
		}
	})

	// handlers run on the Run goroutine, so cfg has a single writer
	w.OnChange(func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
			a.logger.Warn("configuration file removed", zap.String("path", ev.Path))
			return
		}
		before := cfg.Table()
		if err := cfg.Reload(); err != nil {
			a.logger.Error("reload failed", zap.String("path", ev.Path), zap.Error(err))
			return
		}
		if err := a.applyEnv(cfg); err != nil {
			a.logger.Error("reapplying environment failed", zap.String("path", ev.Path), zap.Error(err))
			return
		}
		a.metrics.SourceLoaded("reload")
		n := changes.Publish(notify.Diff(before, cfg.Table(), ev.Path))
		a.logger.Info("configuration reloaded",
			zap.String("path", ev.Path),
			zap.Stringer("op", ev.Op),
			zap.Int("changes", n))
	})

	a.logger.Info("watching configuration files", zap.Strings("files", w.WatchedFiles()))
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

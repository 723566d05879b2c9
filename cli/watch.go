package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debounceDelay collapses the burst of events editors emit for a single save.
const debounceDelay = 100 * time.Millisecond

type WatchCmd struct {
	File string `help:"Transactions CSV file to watch." arg:"" type:"existingfile"`
	OutputFlags
}

func (cmd *WatchCmd) Run(ctx *kong.Context, globals *Globals) error {
	logger, err := globals.Logger(ctx.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	file := &FileOrStdin{Filename: cmd.File}

	process := func(passCtx context.Context) {
		// Every pass gets its own run_id.
		passLogger, err := globals.Logger(ctx.Stderr)
		if err != nil {
			printError(ctx.Stderr, err.Error())
			return
		}
		defer func() { _ = passLogger.Sync() }()

		r := &runner{
			logger: passLogger,
			flags:  cmd.OutputFlags,
			stdout: ctx.Stdout,
			stderr: ctx.Stderr,
		}
		if _, err := r.run(passCtx, file); err != nil {
			printError(ctx.Stderr, err.Error())
		}
	}

	printInfof(ctx.Stderr, "Watching %s", pathStyle.Render(cmd.File))
	process(runCtx)

	watcher := &fileWatcher{
		filename: cmd.File,
		delay:    debounceDelay,
		logger:   logger,
	}
	return watcher.Run(runCtx, func(wctx context.Context) {
		_, _ = fmt.Fprintln(ctx.Stderr)
		printInfof(ctx.Stderr, "Reprocessing %s", pathStyle.Render(cmd.File))
		process(wctx)
	})
}

// fileWatcher calls a function, debounced, whenever a file is written or
// replaced. Calls never overlap.
type fileWatcher struct {
	filename string
	delay    time.Duration
	logger   *zap.Logger
}

// Run blocks until ctx is done or the watcher fails to start.
func (fw *fileWatcher) Run(ctx context.Context, onChange func(context.Context)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		_ = watcher.Close()
	}()

	if err := watcher.Add(fw.filename); err != nil {
		return fmt.Errorf("failed to watch %s: %w", fw.filename, err)
	}

	changed := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			// Remove and Rename are how atomic saves show up.
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(fw.delay, func() {
				select {
				case changed <- struct{}{}:
				default:
				}
			})

		case <-changed:
			// A replaced file drops its watch, so always re-add.
			if err := watcher.Add(fw.filename); err != nil {
				fw.logger.Warn("Failed to watch file", zap.String("file", fw.filename), zap.Error(err))
			}
			onChange(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fw.logger.Error("File watcher error", zap.Error(err))
		}
	}
}

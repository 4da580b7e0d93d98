package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/josephgoksu/taskpilot/internal/task"
	"github.com/josephgoksu/taskpilot/internal/ui"
	"github.com/josephgoksu/taskpilot/store"
	"github.com/spf13/cobra"
)

// watchDebounce coalesces the temp file write, rename and checksum update of one save.
const watchDebounce = 200 * time.Millisecond

// watchCmd re-renders progress whenever the data file changes
var watchCmd = &cobra.Command{
	Use:   "watch [request-id]",
	Short: "Re-render progress whenever the data file changes",
	Long: `Watch the data file and redraw the progress table after every change,
for example while an MCP client works through a request. Without a request id
the list of requests is shown. On a terminal the view updates in place and q
quits; piped output gets a fresh markdown report per change. Only the file
backend can be watched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig().Data
		if cfg.Backend != store.BackendFile {
			return fmt.Errorf("watch needs the %s backend, configured backend is %s", store.BackendFile, cfg.Backend)
		}
		requestID := ""
		if len(args) == 1 {
			requestID = args[0]
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return withService(ctx, func(svc *task.Service) error {
			load := func() ui.MsgWatchRefresh {
				res, err := loadWatched(ctx, svc, requestID)
				return ui.MsgWatchRefresh{Result: res, Err: err, At: time.Now()}
			}
			if styled(cmd.OutOrStdout()) {
				return runWatchTUI(ctx, cmd.OutOrStdout(), cfg.File, requestID, load)
			}

			report := func() {
				msg := load()
				if msg.Err != nil {
					PrintError(userMessage(msg.Err), msg.Err)
					return
				}
				printResult(cmd, msg.Result)
			}
			report()
			return watchFile(ctx, cfg.File, report)
		})
	},
}

// runWatchTUI drives a ui.WatchModel, feeding it a refresh after every
// settled change to path. It returns when the user quits or ctx ends.
func runWatchTUI(ctx context.Context, out io.Writer, path, requestID string, load func() ui.MsgWatchRefresh) error {
	watcher, err := newFileWatcher(path)
	if err != nil {
		return err
	}
	defer watcher.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	title := "TaskPilot requests"
	if requestID != "" {
		title = "Watching " + requestID
	}
	p := tea.NewProgram(ui.NewWatchModel(title), tea.WithOutput(out), tea.WithContext(ctx))

	go func() {
		p.Send(load())
		if err := watchEvents(ctx, watcher, path, func() { p.Send(load()) }); err != nil {
			slog.Warn("watch stopped", "path", path, "error", err)
		}
	}()

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func loadWatched(ctx context.Context, svc *task.Service, requestID string) (*task.Result, error) {
	if requestID == "" {
		return svc.ListRequests(ctx)
	}
	req, err := svc.Request(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return &task.Result{Message: "Watching " + requestID + " (Ctrl+C to stop)", Request: req}, nil
}

// watchFile calls onChange after path settles following a write, create or
// rename. The parent directory is watched because saves replace the file.
func watchFile(ctx context.Context, path string, onChange func()) error {
	watcher, err := newFileWatcher(path)
	if err != nil {
		return err
	}
	defer watcher.Close()
	return watchEvents(ctx, watcher, path, onChange)
}

func newFileWatcher(path string) (*fsnotify.Watcher, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return watcher, nil
}

// watchEvents debounces the watcher's events for path until ctx ends or the
// watcher is closed.
func watchEvents(ctx context.Context, watcher *fsnotify.Watcher, path string, onChange func()) error {
	target := filepath.Clean(path)

	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "path", path, "error", err)

		case <-timer.C:
			onChange()

		case <-ctx.Done():
			return nil
		}
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

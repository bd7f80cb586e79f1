package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/wireproto/amqspec/spec"
)

func newWatchCmd() *cobra.Command {
	var specFile string
	var errata []string
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Recompile the spec whenever a source document changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			primary, resolvedErrata, err := resolveDocumentsWithFlags(specFile, errata)
			if err != nil {
				return err
			}
			if debounce == 0 {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				debounce = cfg.Watch.Debounce
			}

			w, err := NewWatcher(primary, resolvedErrata, debounce, slog.Default())
			if err != nil {
				return err
			}
			defer w.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return w.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&specFile, "spec", "s", "", "Primary spec document (default: from config)")
	cmd.Flags().StringArrayVar(&errata, "errata", nil, "Errata documents")
	cmd.Flags().DurationVar(&debounce, "debounce", 0, "Debounce delay before recompiling (default: from config)")
	return cmd
}

// Watcher recompiles a spec when any of its source documents change. Change
// bursts are debounced so one save triggers one compile.
type Watcher struct {
	primary  string
	errata   []string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *slog.Logger

	// Debouncing: collect changes before recompiling
	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op
	timer     *time.Timer
}

// NewWatcher creates a watcher over the primary spec and errata files.
func NewWatcher(primary string, errata []string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	w := &Watcher{
		primary:  primary,
		errata:   errata,
		debounce: debounce,
		watcher:  fsw,
		logger:   logger,
		pending:  make(map[string]fsnotify.Op),
	}

	// Watch the containing directories; editors replace files on save and
	// per-file watches break across renames.
	dirs := make(map[string]bool)
	for _, path := range append([]string{primary}, errata...) {
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	return w, nil
}

// Close releases the underlying file watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run compiles once, then blocks recompiling on changes until the context is
// cancelled. A failed compile is logged and the previous model stays as the
// last good one; it never aborts the watch.
func (w *Watcher) Run(ctx context.Context) error {
	w.compile()

	recompile := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.watched(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.enqueue(ev, recompile)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", slog.String("error", err.Error()))
		case <-recompile:
			w.compile()
		}
	}
}

// watched reports whether the path is one of the source documents.
func (w *Watcher) watched(path string) bool {
	for _, p := range append([]string{w.primary}, w.errata...) {
		if filepath.Clean(path) == filepath.Clean(p) {
			return true
		}
	}
	return false
}

// enqueue records a change and (re)arms the debounce timer.
func (w *Watcher) enqueue(ev fsnotify.Event, recompile chan<- struct{}) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[ev.Name] |= ev.Op
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.pendingMu.Lock()
		n := len(w.pending)
		w.pending = make(map[string]fsnotify.Op)
		w.pendingMu.Unlock()

		w.logger.Debug("changes settled", slog.Int("files", n))
		select {
		case recompile <- struct{}{}:
		default:
		}
	})
}

// Pending returns the number of changes waiting for the debounce to settle.
func (w *Watcher) Pending() int {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	return len(w.pending)
}

func (w *Watcher) compile() {
	start := time.Now()
	s, err := spec.NewLoader(w.logger).Load(w.primary, w.errata...)
	if err != nil {
		w.logger.Error("compile failed", slog.String("error", err.Error()))
		return
	}
	methods := 0
	for _, cls := range s.Classes.Items() {
		methods += cls.Methods.Len()
	}
	w.logger.Info("compiled spec",
		slog.String("label", s.Label),
		slog.Int("classes", s.Classes.Len()),
		slog.Int("methods", methods),
		slog.Duration("elapsed", time.Since(start)))
}

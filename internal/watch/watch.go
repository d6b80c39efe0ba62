// Package watch reports changes to Go test files and module files under a
// workspace, batched over a debounce window.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Options.Debounce is zero.
const DefaultDebounce = 300 * time.Millisecond

// Handler receives the distinct changed paths of one batch, sorted.
type Handler func(paths []string)

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watcher watches a workspace tree. The handler is called from a single
// goroutine.
type Watcher struct {
	root     string
	handler  Handler
	debounce time.Duration
	log      *slog.Logger
	fs       *fsnotify.Watcher

	changes  chan string
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a watcher for root. Call Start to begin watching.
func New(root string, handler Handler, opts Options) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Watcher{
		root:     root,
		handler:  handler,
		debounce: opts.Debounce,
		log:      opts.Logger,
		fs:       fw,
		changes:  make(chan string, 256),
		done:     make(chan struct{}),
	}, nil
}

// Start adds every workspace directory and begins delivering batches.
// Watching ends on Stop or when ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addTree(w.root); err != nil {
		return err
	}
	go w.events(ctx)
	go w.debounceLoop(ctx)
	return nil
}

// Stop releases the underlying watcher. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.fs.Close()
	})
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && ignoredDir(d.Name()) {
			return filepath.SkipDir
		}
		return w.fs.Add(path)
	})
}

// ignoredDir mirrors the directories discovery never scans.
func ignoredDir(name string) bool {
	return name == "vendor" || name == "testdata" ||
		strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

// relevant reports whether a change to path can alter the benchmark set.
func relevant(path string) bool {
	base := filepath.Base(path)
	return base == "go.mod" || strings.HasSuffix(base, "_test.go")
}

func (w *Watcher) events(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && !ignoredDir(info.Name()) {
					if err := w.addTree(ev.Name); err != nil {
						w.log.Warn("watch new directory", "path", ev.Name, "error", err)
					}
					// a directory moved in may already hold test files
					w.push(ev.Name)
					continue
				}
			}
			if relevant(ev.Name) {
				w.push(ev.Name)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) push(path string) {
	select {
	case w.changes <- path:
	default:
		w.log.Debug("watch buffer full, dropping change", "path", path)
	}
}

func (w *Watcher) debounceLoop(ctx context.Context) {
	pending := map[string]struct{}{}
	var timer *time.Timer
	var fire <-chan time.Time

	flush := func() {
		if len(pending) == 0 {
			return
		}
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
		}
		slices.Sort(paths)
		clear(pending)
		w.log.Debug("workspace changed", "paths", len(paths))
		w.handler(paths)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case p := <-w.changes:
			pending[p] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			flush()
		}
	}
}

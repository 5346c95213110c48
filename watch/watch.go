// Package watch regenerates documentation when model files change.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/RealEstateCore/DTDL2MD/errors"
	"github.com/RealEstateCore/DTDL2MD/logger"
)

// ChangeFunc runs after a batch of changes has settled. Errors are logged and
// watching continues.
type ChangeFunc func(ctx context.Context) error

// Watcher watches model inputs recursively and coalesces bursts of file
// events into single change notifications.
type Watcher struct {
	// Extensions selects the files whose changes trigger a run (case-insensitive)
	Extensions []string

	fsw      *fsnotify.Watcher
	debounce time.Duration
	limiter  *rate.Limiter
	log      *zap.SugaredLogger

	mu      sync.Mutex
	watched map[string]bool
	timer   *time.Timer
	trigger chan struct{}
}

// New starts watching paths. Directories are watched recursively, files
// through their parent directory so that editors replacing files are seen.
// Runs are started at most once per minInterval.
func New(paths []string, debounce, minInterval time.Duration, log *zap.SugaredLogger) (*Watcher, error) {
	if log == nil {
		log = logger.ComponentLogger("watch")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	w := &Watcher{
		Extensions: []string{".json"},
		fsw:        fsw,
		debounce:   debounce,
		limiter:    rate.NewLimiter(limit, 1),
		log:        log,
		watched:    make(map[string]bool),
		trigger:    make(chan struct{}, 1),
	}

	for _, p := range paths {
		if err := w.add(p); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// add registers p and, for directories, every non-hidden subdirectory.
func (w *Watcher) add(p string) error {
	info, err := os.Stat(p)
	if err != nil {
		return errors.Wrapf(err, "watch %s", p)
	}
	if !info.IsDir() {
		return w.addDir(filepath.Dir(p))
	}
	return filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != p && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.addDir(path)
	})
}

func (w *Watcher) addDir(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watched[dir] {
		return nil
	}
	if err := w.fsw.Add(dir); err != nil {
		return errors.Wrapf(err, "failed to watch %s", dir)
	}
	w.watched[dir] = true
	w.log.Debugw("watching directory", logger.FieldPath, dir)
	return nil
}

// Dirs returns the number of watched directories.
func (w *Watcher) Dirs() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.watched)
}

// Run dispatches change notifications to fn until ctx is cancelled, then
// closes the watcher.
func (w *Watcher) Run(ctx context.Context, fn ChangeFunc) error {
	defer w.fsw.Close()
	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warnw("watcher error", logger.FieldError, err)

		case <-w.trigger:
			if err := w.limiter.Wait(ctx); err != nil {
				// cancelled while waiting for the rate limiter
				return nil
			}
			start := time.Now()
			if err := fn(ctx); err != nil {
				w.log.Errorw("regeneration failed", logger.FieldError, err)
				continue
			}
			w.log.Infow("regenerated", logger.FieldDurationMS, time.Since(start).Milliseconds())
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !strings.HasPrefix(filepath.Base(event.Name), ".") {
				if err := w.add(event.Name); err != nil {
					w.log.Warnw("failed to watch new directory", logger.FieldPath, event.Name, logger.FieldError, err)
				}
			}
			return
		}
	}
	if !w.Relevant(event) {
		return
	}
	w.log.Infow("model change detected", logger.FieldFile, event.Name, "op", event.Op.String())
	w.schedule()
}

// Relevant reports whether event concerns a model file.
func (w *Watcher) Relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(base))
	for _, e := range w.Extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// schedule debounces rapid file changes into one trigger.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.trigger <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

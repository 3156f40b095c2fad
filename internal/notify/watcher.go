package notify

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow collapses the burst of fsnotify events a single git
// operation produces into one published event.
const debounceWindow = 250 * time.Millisecond

// RepoWatcher publishes KindExternalChange events when the repository's git
// state changes while a plan dialog is open, so the host can warn that the
// loaded snapshots are stale.
type RepoWatcher struct {
	repoPath string
	bus      *Bus
	watcher  *fsnotify.Watcher

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRepoWatcher watches the repository's .git directory.
func NewRepoWatcher(repoPath string, bus *Bus) (*RepoWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	gitDir := filepath.Join(repoPath, ".git")
	if err := watcher.Add(gitDir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", gitDir, err)
	}
	return &RepoWatcher{repoPath: repoPath, bus: bus, watcher: watcher}, nil
}

// Start begins delivering events until Stop is called.
func (w *RepoWatcher) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.wg.Add(1)
	go w.loop(ctx)
}

// Stop tears the watcher down and waits for the event loop to exit.
func (w *RepoWatcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	_ = w.watcher.Close()
	w.wg.Wait()
}

func (w *RepoWatcher) loop(ctx context.Context) {
	defer w.wg.Done()
	var timer *time.Timer
	fire := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !relevant(ev.Name) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceWindow, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			w.bus.Publish(Event{Kind: KindExternalChange, Repo: w.repoPath})
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("repo watcher error", "repo", w.repoPath, "error", err)
		}
	}
}

// relevant filters the .git paths whose change means history may have moved:
// HEAD, refs, and the rebase state directories.
func relevant(path string) bool {
	base := filepath.Base(path)
	switch base {
	case "HEAD", "ORIG_HEAD", "packed-refs":
		return true
	}
	return strings.Contains(path, string(filepath.Separator)+"refs"+string(filepath.Separator)) ||
		strings.Contains(base, "rebase-merge")
}

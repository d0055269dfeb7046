package patterns

import (
	"context"
	"log"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Source hands out the current compiled pattern set. Reloads swap the whole
// set atomically; callers never observe a half-compiled corpus.
type Source struct {
	current atomic.Pointer[Set]
	watcher *fsnotify.Watcher
	path    string
}

// NewStaticSource wraps a fixed set, for deployments without an override file.
func NewStaticSource(set *Set) *Source {
	s := &Source{}
	s.current.Store(set)
	return s
}

// NewFileSource loads the override file and watches its directory for writes,
// recompiling on change. A reload that fails to compile keeps the previous
// set in service.
func NewFileSource(path string) (*Source, error) {
	set, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory rather than the file so editors that replace the
	// file on save keep triggering events.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	s := &Source{watcher: watcher, path: path}
	s.current.Store(set)
	return s, nil
}

// Current returns the active compiled set.
func (s *Source) Current() *Set {
	return s.current.Load()
}

// Watch blocks until ctx is cancelled, swapping in recompiled sets as the
// override file changes. No-op for static sources.
func (s *Source) Watch(ctx context.Context) {
	if s.watcher == nil {
		<-ctx.Done()
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			set, err := LoadFile(s.path)
			if err != nil {
				log.Printf("[patterns] reload failed, keeping version %s: %v", s.Current().Version(), err)
				continue
			}
			s.current.Store(set)
			log.Printf("[patterns] reloaded pattern set version %s", set.Version())
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[patterns] watcher error: %v", err)
		}
	}
}

// Close releases the underlying watcher.
func (s *Source) Close() error {
	if s.watcher == nil {
		return nil
	}
	return s.watcher.Close()
}

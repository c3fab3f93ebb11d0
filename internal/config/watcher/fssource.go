package watcher

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// eventQueueSize bounds the change event queue. Bursts beyond it are
// dropped; the debounce pass that follows re-reads everything anyway.
const eventQueueSize = 64

// FSSource is the fsnotify-backed EventSource. It watches the parent
// directories of the monitored files so atomic save dances
// (write temp, rename over target) are observed as create events.
type FSSource struct {
	fw     *fsnotify.Watcher
	events chan Event

	mu    sync.Mutex
	files map[string]bool
	dirs  map[string]bool

	done chan struct{}
	wg   sync.WaitGroup
}

// NewFSSource creates a filesystem event source.
func NewFSSource() (*FSSource, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	s := &FSSource{
		fw:     fw,
		events: make(chan Event, eventQueueSize),
		files:  make(map[string]bool),
		dirs:   make(map[string]bool),
		done:   make(chan struct{}),
	}
	s.wg.Add(1)
	go s.forward()
	return s, nil
}

// Events implements EventSource.
func (s *FSSource) Events() <-chan Event {
	return s.events
}

// SetFiles implements EventSource. It adjusts directory watches to
// cover exactly the parents of the given files.
func (s *FSSource) SetFiles(paths []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.files = make(map[string]bool, len(paths))
	want := make(map[string]bool, len(paths))
	for _, p := range paths {
		clean := filepath.Clean(p)
		s.files[clean] = true
		want[filepath.Dir(clean)] = true
	}

	for dir := range s.dirs {
		if !want[dir] {
			_ = s.fw.Remove(dir)
			delete(s.dirs, dir)
		}
	}
	for dir := range want {
		if !s.dirs[dir] {
			if err := s.fw.Add(dir); err != nil {
				return err
			}
			s.dirs[dir] = true
		}
	}
	return nil
}

// Close implements EventSource.
func (s *FSSource) Close() error {
	close(s.done)
	err := s.fw.Close()
	s.wg.Wait()
	return err
}

// forward filters raw fsnotify events down to the monitored file set.
func (s *FSSource) forward() {
	defer s.wg.Done()
	defer close(s.events)

	for {
		select {
		case <-s.done:
			return
		case ev, ok := <-s.fw.Events:
			if !ok {
				return
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) &&
				!ev.Op.Has(fsnotify.Remove) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			path := filepath.Clean(ev.Name)
			s.mu.Lock()
			watched := s.files[path]
			s.mu.Unlock()
			if !watched {
				continue
			}
			select {
			case s.events <- Event{Path: path}:
			default:
				// Queue full; the pending debounce pass covers it.
			}
		case _, ok := <-s.fw.Errors:
			if !ok {
				return
			}
		}
	}
}

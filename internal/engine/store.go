package engine

import (
	"sync"
	"time"
)

// StatusStore is the shared table of latest snapshots, written by poll
// loops and read by renderers. Publishing swaps a pointer under the lock;
// no network or database call ever happens while it is held.
type StatusStore struct {
	mu    sync.RWMutex
	order []string
	snaps map[string]*ServerSnapshot
	lanIP string
}

func NewStatusStore() *StatusStore {
	return &StatusStore{snaps: make(map[string]*ServerSnapshot)}
}

// Seed registers a server with a placeholder "waiting" snapshot so
// renderers have something to show before its first poll completes.
// Servers are reported back in seed order.
func (s *StatusStore) Seed(snap *ServerSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.snaps[snap.Name]; !ok {
		s.order = append(s.order, snap.Name)
	}
	snap.Waiting = true
	s.snaps[snap.Name] = snap
}

// Put atomically replaces the snapshot for a server. The snapshot must not
// be mutated after it is published.
func (s *StatusStore) Put(name string, snap *ServerSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.snaps[name]; !ok {
		s.order = append(s.order, name)
	}
	s.snaps[name] = snap
}

// SetLanIP records the LAN address stamped onto reads.
func (s *StatusStore) SetLanIP(ip string) {
	s.mu.Lock()
	s.lanIP = ip
	s.mu.Unlock()
}

// SnapshotAll returns a consistent view of every server at one instant.
func (s *StatusStore) SnapshotAll() DashboardState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state := DashboardState{
		Servers:   make([]ServerSnapshot, 0, len(s.order)),
		Timestamp: time.Now(),
		LanIP:     s.lanIP,
	}
	for _, name := range s.order {
		state.Servers = append(state.Servers, *s.snaps[name])
	}
	return state
}

// ClearWarnings resets the sticky flag everywhere: the tracker is emptied
// and every current snapshot is replaced with a copy carrying
// HadError=false. Both happen under the store lock so a read cannot
// observe the tracker cleared but a snapshot still flagged.
func (s *StatusStore) ClearWarnings(tracker *WarningTracker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tracker.ClearAll()
	for name, snap := range s.snaps {
		if snap.HadError {
			cleared := *snap
			cleared.HadError = false
			s.snaps[name] = &cleared
		}
	}
}

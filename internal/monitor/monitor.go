// Package monitor re-runs the diagnostic on an interval for watch mode and
// fans fresh snapshots out to subscribers.
package monitor

import (
	"context"
	"log"
	"sync"
	"time"

	"tellocheck/internal/models"
	"tellocheck/internal/storage"
)

// RunFunc executes one diagnostic pass.
type RunFunc func(ctx context.Context) models.Snapshot

// Monitor periodically runs the diagnostic and keeps a bounded history.
type Monitor struct {
	run        RunFunc
	interval   time.Duration
	store      *storage.SnapshotStorage
	maxHistory int

	mu      sync.RWMutex
	latest  *models.Snapshot
	history []models.Snapshot
	subs    map[chan models.Snapshot]struct{}

	stopCh chan struct{}
	doneCh chan struct{}
}

// New creates a monitor. store may be nil to keep history in memory only.
func New(interval time.Duration, run RunFunc, store *storage.SnapshotStorage) *Monitor {
	if interval < time.Second {
		interval = time.Second
	}

	return &Monitor{
		run:        run,
		interval:   interval,
		store:      store,
		maxHistory: 2048,
		subs:       make(map[chan models.Snapshot]struct{}),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Start launches the monitoring loop in a goroutine.
func (m *Monitor) Start() {
	go m.loop()
}

// Stop requests graceful loop termination and waits until it is done.
func (m *Monitor) Stop() {
	select {
	case <-m.doneCh:
		return
	default:
	}
	close(m.stopCh)
	<-m.doneCh
}

// Latest returns the most recent snapshot.
func (m *Monitor) Latest() (models.Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.latest == nil {
		return models.Snapshot{}, false
	}
	return *m.latest, true
}

// History returns a copy of the in-memory snapshot history.
func (m *Monitor) History() []models.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.history) == 0 {
		return nil
	}
	out := make([]models.Snapshot, len(m.history))
	copy(out, m.history)
	return out
}

// Subscribe registers for snapshot pushes. The returned cancel function must
// be called when the subscriber goes away.
func (m *Monitor) Subscribe() (<-chan models.Snapshot, func()) {
	ch := make(chan models.Snapshot, 4)

	m.mu.Lock()
	m.subs[ch] = struct{}{}
	m.mu.Unlock()

	cancel := func() {
		m.mu.Lock()
		if _, ok := m.subs[ch]; ok {
			delete(m.subs, ch)
			close(ch)
		}
		m.mu.Unlock()
	}
	return ch, cancel
}

func (m *Monitor) loop() {
	defer close(m.doneCh)

	m.tick()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.tick()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) tick() {
	snap := m.run(context.Background())

	if m.store != nil {
		if err := m.store.Append(snap); err != nil {
			log.Printf("persist snapshot: %v", err)
		}
	}

	m.mu.Lock()
	m.latest = &snap
	m.history = append(m.history, snap)
	if len(m.history) > m.maxHistory {
		m.history = m.history[len(m.history)-m.maxHistory:]
	}
	for ch := range m.subs {
		select {
		case ch <- snap:
		default:
			// Subscriber is behind; it will catch up on the next push.
		}
	}
	m.mu.Unlock()
}

package bluetooth

import (
	"sync"
	"time"
)

const (
	maxEvents      = 100
	maxRSSIHistory = 10
)

// EventType classifies a tracked activity event.
type EventType string

const (
	EventConnection    EventType = "connection"
	EventDisconnection EventType = "disconnection"
)

// Event records a device appearing in or vanishing from the scan set.
type Event struct {
	Type    EventType
	Name    string
	Address string
	At      time.Time
}

// TrackerStats are the running counters for a tracking session.
type TrackerStats struct {
	Scans          int
	Connections    int
	Disconnections int
	DevicesTracked int
}

// Tracker diffs successive scans into connection/disconnection events
// and keeps a bounded event log plus per-device RSSI history.
type Tracker struct {
	mu       sync.Mutex
	lastSeen map[string]string // address -> name
	seen     map[string]bool   // every address ever observed
	events   []Event
	rssi     map[string][]int
	stats    TrackerStats
}

func NewTracker() *Tracker {
	return &Tracker{
		lastSeen: make(map[string]string),
		seen:     make(map[string]bool),
		rssi:     make(map[string][]int),
	}
}

// Observe ingests one scan's devices and returns the events it produced.
func (t *Tracker) Observe(devices []DeviceDetail) []Event {
	now := time.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats.Scans++

	current := make(map[string]string, len(devices))
	for _, d := range devices {
		current[d.Address] = d.Name
		t.seen[d.Address] = true
		if d.HasRSSI {
			history := append(t.rssi[d.Address], d.RSSI)
			if len(history) > maxRSSIHistory {
				history = history[len(history)-maxRSSIHistory:]
			}
			t.rssi[d.Address] = history
		}
	}

	var produced []Event
	for addr, name := range current {
		if _, seen := t.lastSeen[addr]; !seen {
			produced = append(produced, Event{Type: EventConnection, Name: name, Address: addr, At: now})
			t.stats.Connections++
		}
	}
	for addr, name := range t.lastSeen {
		if _, still := current[addr]; !still {
			produced = append(produced, Event{Type: EventDisconnection, Name: name, Address: addr, At: now})
			t.stats.Disconnections++
		}
	}

	t.lastSeen = current
	t.stats.DevicesTracked = len(t.seen)

	t.events = append(t.events, produced...)
	if len(t.events) > maxEvents {
		t.events = t.events[len(t.events)-maxEvents:]
	}
	return produced
}

// Events returns a copy of the bounded event log, oldest first.
func (t *Tracker) Events() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, len(t.events))
	copy(out, t.events)
	return out
}

// RSSIHistory returns the recent signal readings for an address.
func (t *Tracker) RSSIHistory(address string) []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	history := t.rssi[address]
	out := make([]int, len(history))
	copy(out, history)
	return out
}

func (t *Tracker) Stats() TrackerStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

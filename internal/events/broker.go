// Package events fans store change notifications out to subscribers such as dashboard streams.
package events

import (
	"log/slog"
	"sync"
)

type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
)

// AllTables subscribes to every table.
const AllTables = "*"

const TableApprovals = "approvals"

type ChangeEvent struct {
	Type   ChangeType `json:"eventType"`
	Table  string     `json:"table"`
	ID     string     `json:"id"`
	Record any        `json:"new,omitempty"`
}

// Broker delivers each published event to the subscribers of its table. Publish never blocks:
// a subscriber whose buffer is full misses the event.
type Broker struct {
	mu     sync.RWMutex
	subs   map[string]map[int]chan ChangeEvent
	nextID int
	buffer int
}

func NewBroker(buffer int) *Broker {
	if buffer <= 0 {
		buffer = 64
	}
	return &Broker{subs: make(map[string]map[int]chan ChangeEvent), buffer: buffer}
}

// Subscribe returns a channel of events for table and a cancel func that closes it.
func (b *Broker) Subscribe(table string) (<-chan ChangeEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	ch := make(chan ChangeEvent, b.buffer)
	if b.subs[table] == nil {
		b.subs[table] = make(map[int]chan ChangeEvent)
	}
	b.subs[table][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[table], id)
			close(ch)
		})
	}
	return ch, cancel
}

func (b *Broker) Publish(ev ChangeEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, table := range []string{ev.Table, AllTables} {
		for id, ch := range b.subs[table] {
			select {
			case ch <- ev:
			default:
				slog.Warn("Dropping change event for slow subscriber", "table", ev.Table, "id", ev.ID, "subscriber", id)
			}
		}
	}
}

// Subscribers reports how many subscriptions are open for table.
func (b *Broker) Subscribers(table string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[table])
}

package events

import (
	"sync"

	"github.com/RealZimboGuy/newsflow/internal/models"
)

// ApprovalFeed is the approvals list a dashboard renders, kept current by applying change events.
// Newest items are first.
type ApprovalFeed struct {
	mu    sync.RWMutex
	items []models.ApprovalApiResponse
}

func NewApprovalFeed() *ApprovalFeed {
	return &ApprovalFeed{}
}

// Load replaces the list with an initial fetch.
func (f *ApprovalFeed) Load(items []models.ApprovalApiResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append([]models.ApprovalApiResponse(nil), items...)
}

// Apply folds one event into the list and reports whether the list changed.
// Events for other tables or with an unexpected record type are ignored.
func (f *ApprovalFeed) Apply(ev ChangeEvent) bool {
	if ev.Table != TableApprovals {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	switch ev.Type {
	case ChangeInsert:
		rec, ok := ev.Record.(models.ApprovalApiResponse)
		if !ok {
			return false
		}
		if i := f.indexOf(rec.ID); i >= 0 {
			f.items[i] = rec
			return true
		}
		f.items = append([]models.ApprovalApiResponse{rec}, f.items...)
		return true
	case ChangeUpdate:
		rec, ok := ev.Record.(models.ApprovalApiResponse)
		if !ok {
			return false
		}
		if i := f.indexOf(rec.ID); i >= 0 {
			f.items[i] = rec
			return true
		}
	}
	return false
}

func (f *ApprovalFeed) Snapshot() []models.ApprovalApiResponse {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append(make([]models.ApprovalApiResponse, 0, len(f.items)), f.items...)
}

func (f *ApprovalFeed) indexOf(id string) int {
	for i := range f.items {
		if f.items[i].ID == id {
			return i
		}
	}
	return -1
}

const (
	StreamSnapshot = "snapshot"
	StreamChange   = "change"
)

// StreamMessage is one frame of the approvals stream: the full list on connect, then each change
// together with the list after applying it.
type StreamMessage struct {
	Type      string                       `json:"type"`
	Event     *ChangeEvent                 `json:"event,omitempty"`
	Approvals []models.ApprovalApiResponse `json:"approvals"`
}

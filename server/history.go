package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dekarrin/casengine/internal/snapshot"
)

// historyStore holds each session's past analyses in memory, the same role
// the teacher's dao.Repo played for game sessions but without any backing
// SQL store, since sessions here are anonymous and not meant to outlive the
// server process.
type historyStore struct {
	mu      sync.Mutex
	records map[uuid.UUID][]*snapshot.Record
}

func newHistoryStore() *historyStore {
	return &historyStore{records: make(map[uuid.UUID][]*snapshot.Record)}
}

// Append records r under sessionID, most recent last.
func (h *historyStore) Append(sessionID uuid.UUID, r *snapshot.Record) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records[sessionID] = append(h.records[sessionID], r)
}

// List returns a copy of the records stored for sessionID, oldest first.
func (h *historyStore) List(sessionID uuid.UUID) []*snapshot.Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	recs := h.records[sessionID]
	out := make([]*snapshot.Record, len(recs))
	copy(out, recs)
	return out
}

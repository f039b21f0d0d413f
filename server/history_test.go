package server

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/casengine/internal/snapshot"
)

func Test_historyStore_AppendAndList(t *testing.T) {
	h := newHistoryStore()
	sessionID := uuid.New()

	assert.Empty(t, h.List(sessionID))

	h.Append(sessionID, &snapshot.Record{Input: "1+1"})
	h.Append(sessionID, &snapshot.Record{Input: "2+2"})

	recs := h.List(sessionID)
	assert.Len(t, recs, 2)
	assert.Equal(t, "1+1", recs[0].Input)
	assert.Equal(t, "2+2", recs[1].Input)
}

func Test_historyStore_List_returnsDefensiveCopy(t *testing.T) {
	h := newHistoryStore()
	sessionID := uuid.New()
	h.Append(sessionID, &snapshot.Record{Input: "1+1"})

	recs := h.List(sessionID)
	recs[0] = &snapshot.Record{Input: "tampered"}

	recs2 := h.List(sessionID)
	assert.Equal(t, "1+1", recs2[0].Input)
}

func Test_historyStore_separatesSessions(t *testing.T) {
	h := newHistoryStore()
	a, b := uuid.New(), uuid.New()

	h.Append(a, &snapshot.Record{Input: "for-a"})

	assert.Len(t, h.List(a), 1)
	assert.Empty(t, h.List(b))
}

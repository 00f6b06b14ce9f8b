package game

import (
	"fmt"
	"io"
	"sync"
)

// Replay is the recorded board history of a match, one snapshot per
// completed phase, with a cursor for stepping through it.
type Replay struct {
	MatchID      string
	States       []MatchSnapshot
	CurrentIndex int
	mu           sync.RWMutex
}

// NewReplay creates an empty replay.
func NewReplay(matchID string) *Replay {
	return &Replay{
		MatchID: matchID,
		States:  make([]MatchSnapshot, 0),
	}
}

// RecordState appends a snapshot.
func (r *Replay) RecordState(snapshot MatchSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.States = append(r.States, snapshot)
}

// Start rewinds the cursor.
func (r *Replay) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.CurrentIndex = 0
}

// Next returns the snapshot under the cursor and advances it.
func (r *Replay) Next() (MatchSnapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex < len(r.States) {
		state := r.States[r.CurrentIndex]
		r.CurrentIndex++
		return state, true
	}
	return MatchSnapshot{}, false
}

// Size returns the number of recorded snapshots.
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.States)
}

// WriteReplay rewinds r and renders every recorded snapshot to w from
// viewer's side. It returns the number of snapshots written.
func WriteReplay(w io.Writer, r *Replay, viewer string) (int, error) {
	r.Start()
	n := 0
	for {
		s, ok := r.Next()
		if !ok {
			return n, nil
		}
		n++
		if _, err := fmt.Fprintf(w, "=== Replay %d/%d ===\n%s\n", n, r.Size(), RenderBoards(s, viewer)); err != nil {
			return n, err
		}
	}
}

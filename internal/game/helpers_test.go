package game

import (
	"testing"
	"time"
)

// sequenceRand replays vals in order, then returns rest forever.
type sequenceRand struct {
	vals []float64
	rest float64
	i    int
}

func seq(vals ...float64) *sequenceRand {
	return &sequenceRand{vals: vals, rest: 0.5}
}

func (s *sequenceRand) withRest(v float64) *sequenceRand {
	s.rest = v
	return s
}

func (s *sequenceRand) Float64() float64 {
	if s.i < len(s.vals) {
		v := s.vals[s.i]
		s.i++
		return v
	}
	return s.rest
}

var testClock = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type recordingSink struct {
	logs   []LogEntry
	events []Event
}

func (r *recordingSink) Log(e LogEntry) { r.logs = append(r.logs, e) }
func (r *recordingSink) Notify(e Event) { r.events = append(r.events, e) }

func (r *recordingSink) kinds() []EventKind {
	out := make([]EventKind, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

// newTestGame starts a session with stable prices and a neutral random
// source: every draw is 0.5, so drift factors are 1 and no lane with
// risk below 50 produces a hazard.
func newTestGame(t *testing.T) (*Game, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	g, err := New(DefaultUniverse(), Options{
		Rand:         seq(),
		Now:          func() time.Time { return testClock },
		Sink:         sink,
		StablePrices: true,
	})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return g, sink
}

func hasKind(kinds []EventKind, k EventKind) bool {
	for _, x := range kinds {
		if x == k {
			return true
		}
	}
	return false
}

package journal

import "github.com/everforgeworks/age-of-sail/internal/game"

// Tee fans every log line and notification out to several sinks, in order.
// Nil sinks are skipped.
func Tee(sinks ...game.Sink) game.Sink {
	out := make(tee, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

type tee []game.Sink

func (t tee) Log(e game.LogEntry) {
	for _, s := range t {
		s.Log(e)
	}
}

func (t tee) Notify(e game.Event) {
	for _, s := range t {
		s.Notify(e)
	}
}

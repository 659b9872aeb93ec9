package game

import (
	"fmt"
	"time"
)

// Severity is how a notification should be presented.
type Severity string

const (
	SeverityDanger  Severity = "danger"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
)

// EventKind groups notifications by what raised them.
type EventKind string

const (
	EventTrade    EventKind = "trade"
	EventHazard   EventKind = "hazard"
	EventRepair   EventKind = "repair"
	EventCrew     EventKind = "crew"
	EventShipyard EventKind = "shipyard"
	EventQuest    EventKind = "quest"
	EventTitle    EventKind = "title"
	EventRecord   EventKind = "record"
)

// Event is a notification value. The engine only emits it; how long it is
// shown is up to the caller.
type Event struct {
	Kind     EventKind `json:"kind"`
	Severity Severity  `json:"severity"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	Date     Date      `json:"date"`
	Time     time.Time `json:"time"`
}

// LogEntry is one line of the captain's log.
type LogEntry struct {
	Date    Date      `json:"date"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// String formats the entry as "[YYYY-MM] message".
func (e LogEntry) String() string {
	return fmt.Sprintf("[%s] %s", e.Date, e.Message)
}

// Sink receives every log line and notification the engine produces.
// Implementations must not call back into the Game.
type Sink interface {
	Log(LogEntry)
	Notify(Event)
}

type discardSink struct{}

func (discardSink) Log(LogEntry) {}
func (discardSink) Notify(Event) {}

// SinkFuncs adapts plain functions to a Sink. Nil fields are ignored.
type SinkFuncs struct {
	OnLog    func(LogEntry)
	OnNotify func(Event)
}

func (s SinkFuncs) Log(e LogEntry) {
	if s.OnLog != nil {
		s.OnLog(e)
	}
}

func (s SinkFuncs) Notify(e Event) {
	if s.OnNotify != nil {
		s.OnNotify(e)
	}
}

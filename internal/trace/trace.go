/*
Package trace records hierarchical execution spans and events for one query
at a time, so a caller (or a live UI) can see each pipeline step as it runs.

Exactly one trace may be current at a time. Span operations against a
missing trace or an unknown span id are no-ops with a logged warning; they
never raise into caller code. Every mutation synchronously notifies all
subscribers with the full current trace.
*/
package trace

import "time"

// EventKind labels what a span event reports.
type EventKind string

const (
	EventStart    EventKind = "start"
	EventProgress EventKind = "progress"
	EventComplete EventKind = "complete"
	EventError    EventKind = "error"
	EventInfo     EventKind = "info"
)

// Span statuses.
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusError   = "error"
)

// Event is one timestamped note inside a span.
type Event struct {
	Timestamp time.Time              `json:"timestamp"`
	Kind      EventKind              `json:"kind"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Span is one unit of pipeline work inside a trace.
type Span struct {
	ID        string                 `json:"id"`
	ParentID  string                 `json:"parentId,omitempty"`
	Type      string                 `json:"type"`
	Name      string                 `json:"name"`
	StartTime time.Time              `json:"startTime"`
	EndTime   *time.Time             `json:"endTime,omitempty"`
	Status    string                 `json:"status"`
	Events    []Event                `json:"events,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Trace is the full execution record for one user query.
type Trace struct {
	ID         string                 `json:"id"`
	UserQuery  string                 `json:"userQuery"`
	StartTime  time.Time              `json:"startTime"`
	EndTime    *time.Time             `json:"endTime,omitempty"`
	DurationMs int64                  `json:"durationMs,omitempty"`
	Spans      []Span                 `json:"spans,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

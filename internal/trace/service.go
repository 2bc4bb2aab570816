package trace

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// historySize bounds the historical trace ring buffer (oldest evicted first).
const historySize = 50

// Subscriber receives the full current trace after every mutation.
type Subscriber func(t Trace)

// Service owns the current trace, the bounded history and the subscriber
// list. One Service per logical session; a server hosting many users gives
// each session its own.
type Service struct {
	mu          sync.Mutex
	current     *Trace
	history     []Trace
	subscribers map[int]Subscriber
	nextSubID   int
	log         *logrus.Logger
}

// NewService creates an empty tracing service.
func NewService(log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		subscribers: make(map[int]Subscriber),
		log:         log,
	}
}

// StartTrace opens a new current trace for a query. If a trace is already
// open it is closed first so the new one can take the slot.
func (s *Service) StartTrace(query string, meta map[string]interface{}) string {
	s.mu.Lock()
	if s.current != nil {
		s.log.Warn("startTrace with a trace already open; closing the previous one")
		s.closeCurrentLocked(nil)
	}

	t := &Trace{
		ID:        uuid.NewString(),
		UserQuery: query,
		StartTime: time.Now(),
		Metadata:  meta,
	}
	s.current = t
	id := t.ID
	s.notifyLocked()
	s.mu.Unlock()
	return id
}

// StartSpan opens a span on the current trace and returns its id.
// A no-op (returning "") if no trace is current.
func (s *Service) StartSpan(spanType, name string, meta map[string]interface{}, parentID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		s.log.Warnf("startSpan %q with no current trace; ignored", name)
		return ""
	}

	span := Span{
		ID:        uuid.NewString(),
		ParentID:  parentID,
		Type:      spanType,
		Name:      name,
		StartTime: time.Now(),
		Status:    StatusRunning,
		Metadata:  meta,
	}
	s.current.Spans = append(s.current.Spans, span)
	s.notifyLocked()
	return span.ID
}

// AddSpanEvent appends an event to an open span. A no-op with a warning if
// the trace or span is missing, or the span is already closed.
func (s *Service) AddSpanEvent(spanID string, kind EventKind, message string, data map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	span := s.findSpanLocked(spanID)
	if span == nil {
		s.log.Warnf("addSpanEvent on unknown span %q; ignored", spanID)
		return
	}
	if span.Status != StatusRunning {
		s.log.Warnf("addSpanEvent on closed span %q; ignored", span.Name)
		return
	}

	span.Events = append(span.Events, Event{
		Timestamp: time.Now(),
		Kind:      kind,
		Message:   message,
		Data:      data,
	})
	s.notifyLocked()
}

// EndSpan closes a span with a final status. Closing an already-closed span
// is a no-op with a warning, not a failure.
func (s *Service) EndSpan(spanID, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	span := s.findSpanLocked(spanID)
	if span == nil {
		s.log.Warnf("endSpan on unknown span %q; ignored", spanID)
		return
	}
	if span.Status != StatusRunning {
		s.log.Warnf("endSpan on already-closed span %q; ignored", span.Name)
		return
	}

	now := time.Now()
	span.EndTime = &now
	span.Status = status
	s.notifyLocked()
}

// EndTrace closes the current trace, computes its duration, moves it into
// the bounded history and clears the current slot. A no-op if no trace is
// open.
func (s *Service) EndTrace(meta map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		s.log.Warn("endTrace with no current trace; ignored")
		return
	}
	s.closeCurrentLocked(meta)
}

// Subscribe registers a callback for trace mutations and returns an
// unsubscribe handle.
func (s *Service) Subscribe(fn Subscriber) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Current returns a copy of the current trace, or nil if none is open.
func (s *Service) Current() *Trace {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	copied := copyTrace(*s.current)
	return &copied
}

// History returns a copy of the historical traces, oldest first.
func (s *Service) History() []Trace {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Trace, len(s.history))
	for i, t := range s.history {
		out[i] = copyTrace(t)
	}
	return out
}

// ExportTrace serializes one historical (or current) trace as JSON.
func (s *Service) ExportTrace(traceID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && s.current.ID == traceID {
		return json.MarshalIndent(copyTrace(*s.current), "", "  ")
	}
	for _, t := range s.history {
		if t.ID == traceID {
			return json.MarshalIndent(copyTrace(t), "", "  ")
		}
	}
	return nil, fmt.Errorf("trace not found: %s", traceID)
}

// --- internals (caller holds the mutex) ---

func (s *Service) closeCurrentLocked(meta map[string]interface{}) {
	t := s.current
	now := time.Now()
	t.EndTime = &now
	t.DurationMs = now.Sub(t.StartTime).Milliseconds()
	for k, v := range meta {
		if t.Metadata == nil {
			t.Metadata = make(map[string]interface{})
		}
		t.Metadata[k] = v
	}

	// Any span still running when the trace closes is closed with it.
	for i := range t.Spans {
		if t.Spans[i].Status == StatusRunning {
			t.Spans[i].EndTime = &now
			t.Spans[i].Status = StatusSuccess
		}
	}

	s.history = append(s.history, *t)
	if len(s.history) > historySize {
		s.history = s.history[len(s.history)-historySize:]
	}
	s.current = nil
	s.notifyLocked()
}

func (s *Service) findSpanLocked(spanID string) *Span {
	if s.current == nil || spanID == "" {
		return nil
	}
	for i := range s.current.Spans {
		if s.current.Spans[i].ID == spanID {
			return &s.current.Spans[i]
		}
	}
	return nil
}

// notifyLocked pushes the full current trace to every subscriber. Push is
// synchronous so a UI always renders a consistent snapshot.
func (s *Service) notifyLocked() {
	if len(s.subscribers) == 0 {
		return
	}

	var snapshot Trace
	if s.current != nil {
		snapshot = copyTrace(*s.current)
	} else if len(s.history) > 0 {
		snapshot = copyTrace(s.history[len(s.history)-1])
	} else {
		return
	}

	for _, fn := range s.subscribers {
		fn(snapshot)
	}
}

func copyTrace(t Trace) Trace {
	spans := make([]Span, len(t.Spans))
	for i, sp := range t.Spans {
		sp.Events = append([]Event(nil), sp.Events...)
		spans[i] = sp
	}
	t.Spans = spans
	return t
}

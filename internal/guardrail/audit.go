package guardrail

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/mpopa/stress-journal/backend/internal/analysis/patterns"
)

// AuditLevel grades an audit event. Crisis categories report as critical,
// generic policy violations as warning.
type AuditLevel string

const (
	AuditWarning  AuditLevel = "warning"
	AuditCritical AuditLevel = "critical"
)

// AuditEvent is one guardrail decision worth recording.
type AuditEvent struct {
	Level      AuditLevel
	Categories []patterns.Category
	Detail     string
}

// AuditSink receives guardrail events off the message path. Reporting never
// blocks the caller: events are queued to a drain goroutine, and anything the
// queue cannot absorb is dropped and counted instead.
type AuditSink struct {
	events   chan AuditEvent
	failures atomic.Uint64
	done     chan struct{}
	once     sync.Once
}

// NewAuditSink starts the drain goroutine. The default drain writes to the
// process log; tests pass their own.
func NewAuditSink(drain func(AuditEvent)) *AuditSink {
	if drain == nil {
		drain = logDrain
	}

	s := &AuditSink{
		events: make(chan AuditEvent, 64),
		done:   make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		for event := range s.events {
			drain(event)
		}
	}()
	return s
}

// Report queues an event without blocking. A full or closed queue increments
// the failure counter for operational visibility and is otherwise swallowed.
func (s *AuditSink) Report(event AuditEvent) {
	defer func() {
		if recover() != nil {
			s.failures.Add(1)
		}
	}()

	select {
	case s.events <- event:
	default:
		s.failures.Add(1)
	}
}

// Failures returns how many events could not be recorded.
func (s *AuditSink) Failures() uint64 {
	return s.failures.Load()
}

// Close stops accepting events and waits for queued ones to drain.
func (s *AuditSink) Close() {
	s.once.Do(func() {
		close(s.events)
	})
	<-s.done
}

func logDrain(event AuditEvent) {
	switch event.Level {
	case AuditCritical:
		log.Printf("[guardrail] CRITICAL categories=%v %s", event.Categories, event.Detail)
	default:
		log.Printf("[guardrail] warning categories=%v %s", event.Categories, event.Detail)
	}
}

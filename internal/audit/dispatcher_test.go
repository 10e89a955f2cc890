package audit_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salon-natuerelle/salon-api/internal/audit"
)

type memorySink struct {
	mu     sync.Mutex
	events []audit.Event
	err    error
}

func (s *memorySink) Record(ev audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, ev)
	return nil
}

func (s *memorySink) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestDispatchReachesSink(t *testing.T) {
	sink := &memorySink{}
	d := audit.NewDispatcher(sink, zerolog.Nop())

	userID := uint(42)
	d.Dispatch(audit.Event{
		Action:      "LOGIN_SUCCESS",
		Description: "user logged in",
		UserID:      &userID,
	})

	require.Eventually(t, func() bool { return sink.len() == 1 }, time.Second, 5*time.Millisecond)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Equal(t, "LOGIN_SUCCESS", sink.events[0].Action)
	require.NotNil(t, sink.events[0].UserID)
	assert.Equal(t, uint(42), *sink.events[0].UserID)
}

func TestDispatchKeepsOrder(t *testing.T) {
	sink := &memorySink{}
	d := audit.NewDispatcher(sink, zerolog.Nop())

	for _, action := range []string{"first", "second", "third"} {
		d.Dispatch(audit.Event{Action: action})
	}

	require.Eventually(t, func() bool { return sink.len() == 3 }, time.Second, 5*time.Millisecond)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Equal(t, "first", sink.events[0].Action)
	assert.Equal(t, "second", sink.events[1].Action)
	assert.Equal(t, "third", sink.events[2].Action)
}

// A failing sink must never surface to callers; the dispatcher logs and
// keeps going.
func TestSinkErrorDoesNotBlock(t *testing.T) {
	sink := &memorySink{err: errors.New("db down")}
	d := audit.NewDispatcher(sink, zerolog.Nop())

	d.Dispatch(audit.Event{Action: "LOGIN_FAILED"})
	d.Dispatch(audit.Event{Action: "LOGIN_FAILED"})

	sink.mu.Lock()
	sink.err = nil
	sink.mu.Unlock()

	d.Dispatch(audit.Event{Action: "LOGIN_SUCCESS"})
	require.Eventually(t, func() bool {
		sink.mu.Lock()
		defer sink.mu.Unlock()
		for _, ev := range sink.events {
			if ev.Action == "LOGIN_SUCCESS" {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)
}

package eventbus

import (
	"context"
	"sync"
	"time"
)

// Event types published for downstream analytics.
const (
	EventStepSaved     = "onboarding.step_saved"
	EventPathChosen    = "onboarding.path_chosen"
	EventAccountLinked = "onboarding.account_linked"
	EventCompleted     = "onboarding.completed"
)

// Event is one onboarding progress event. Keyed by session id so one
// session's events land on one partition in order.
type Event struct {
	Type      string    `json:"type"`
	SessionID string    `json:"sessionId"`
	Step      string    `json:"step,omitempty"`
	Path      string    `json:"path,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher emits progress events. Publishing is best-effort: callers log
// failures and move on, a save never fails because analytics is down.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher discards events. Used when PUBLISH_EVENTS is off.
type NopPublisher struct{}

func NewNopPublisher() *NopPublisher { return &NopPublisher{} }

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

// RecordingPublisher captures events in memory for tests.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func NewRecordingPublisher() *RecordingPublisher { return &RecordingPublisher{} }

func (rp *RecordingPublisher) Publish(_ context.Context, event Event) error {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	rp.events = append(rp.events, event)
	return nil
}

func (rp *RecordingPublisher) Close() error { return nil }

// Events returns a copy of everything published so far.
func (rp *RecordingPublisher) Events() []Event {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	out := make([]Event, len(rp.events))
	copy(out, rp.events)
	return out
}

package onboarding

import (
	"context"
	"errors"
	"sync"
	"time"

	"camp-onboarding/internal/application/reconcile"
	"camp-onboarding/internal/common/logger"
	"camp-onboarding/internal/domain/wizard"
	"camp-onboarding/internal/infrastructure/eventbus"
	"camp-onboarding/internal/infrastructure/gateway"
	"camp-onboarding/internal/infrastructure/sessionstore"
)

var (
	// ErrSessionNotReady means a save arrived before the session was hydrated.
	ErrSessionNotReady = errors.New("session not ready")
	// ErrUnauthorized means the invitation token does not match the session.
	ErrUnauthorized = errors.New("invalid session token")
)

// HydrationState tracks whether reconciliation has run for a session in this
// process. An explicit state, not a bare flag, so its interaction with
// background refetches is a testable transition.
type HydrationState int

const (
	HydrationNotStarted HydrationState = iota
	HydrationHydrated
)

// sessionRuntime is the in-memory working state for one active session.
type sessionRuntime struct {
	mu             sync.Mutex
	wizard         *wizard.Wizard
	rec            *sessionstore.Record
	hydration      HydrationState
	arrivalChecked bool
}

// Service drives the onboarding wizard for every active session.
type Service struct {
	store   sessionstore.SessionStore
	gateway gateway.Provider
	bus     eventbus.Publisher
	logger  logger.Logger

	mu       sync.Mutex
	runtimes map[string]*sessionRuntime
}

func NewService(store sessionstore.SessionStore, gw gateway.Provider, bus eventbus.Publisher, l logger.Logger) *Service {
	return &Service{
		store:    store,
		gateway:  gw,
		bus:      bus,
		logger:   l,
		runtimes: make(map[string]*sessionRuntime),
	}
}

// StartSession opens the wizard for an invitation token, creating the session
// on first contact and resuming it afterwards.
func (s *Service) StartSession(ctx context.Context, token string) (*Result, error) {
	rec, err := s.store.GetByToken(ctx, token)
	if errors.Is(err, sessionstore.ErrNotFound) {
		rec, err = s.store.Create(ctx, token)
	}
	if err != nil {
		return nil, err
	}

	rt := s.runtimeFor(rec.ID)
	rt.mu.Lock()
	defer rt.mu.Unlock()
	s.hydrateLocked(rt, rec)

	result := buildResult(rt.rec, rt.wizard)
	return &result, nil
}

// GetSession returns the current session and progress. Refetching does not
// re-run reconciliation once the session is hydrated, so in-progress local
// edits survive background refreshes.
func (s *Service) GetSession(ctx context.Context, sessionID, token string) (*Result, error) {
	rt, err := s.authorizedRuntime(ctx, sessionID, token)
	if err != nil {
		return nil, err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()

	result := buildResult(rt.rec, rt.wizard)
	return &result, nil
}

// ResumeFromRedirect handles the return from the gateway's hosted flow. The
// intake order is fixed: hydrate first, then apply any redirect-triggered
// connected update, so the outcome does not depend on network timing.
func (s *Service) ResumeFromRedirect(ctx context.Context, sessionID, token string, gatewayConnected bool) (*Result, error) {
	rt, err := s.authorizedRuntime(ctx, sessionID, token)
	if err != nil {
		return nil, err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if gatewayConnected {
		s.markConnectedLocked(ctx, rt)
	}

	result := buildResult(rt.rec, rt.wizard)
	return &result, nil
}

// JumpToStep services sidebar navigation to an arbitrary known step.
func (s *Service) JumpToStep(ctx context.Context, sessionID, token string, step string) (*Result, error) {
	rt, err := s.authorizedRuntime(ctx, sessionID, token)
	if err != nil {
		return nil, err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if err := rt.wizard.JumpTo(wizard.StepKey(step)); err != nil {
		return nil, err
	}
	result := buildResult(rt.rec, rt.wizard)
	return &result, nil
}

// runtimeFor returns the runtime for a session, creating it when absent.
func (s *Service) runtimeFor(sessionID string) *sessionRuntime {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt, ok := s.runtimes[sessionID]
	if !ok {
		rt = &sessionRuntime{wizard: wizard.New()}
		s.runtimes[sessionID] = rt
	}
	return rt
}

// hydrateLocked reconciles the persisted record into the runtime exactly
// once. Later calls only refresh the raw record.
func (s *Service) hydrateLocked(rt *sessionRuntime, rec *sessionstore.Record) {
	rt.rec = rec
	if rt.hydration == HydrationHydrated {
		return
	}
	rt.wizard = reconcile.Reconcile(reconcile.RawSession{
		CurrentStep:    rec.CurrentStep,
		CompletedSteps: rec.CompletedSteps,
		InventoryPath:  rec.InventoryPath,
		Data:           rec.Data,
	})
	rt.hydration = HydrationHydrated
}

// authorizedRuntime loads and hydrates the runtime for a session after
// checking the invitation token.
func (s *Service) authorizedRuntime(ctx context.Context, sessionID, token string) (*sessionRuntime, error) {
	rec, err := s.store.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if rec.Token != token {
		return nil, ErrUnauthorized
	}
	rt := s.runtimeFor(sessionID)
	rt.mu.Lock()
	s.hydrateLocked(rt, rec)
	rt.mu.Unlock()
	return rt, nil
}

// hydratedRuntime returns the runtime only if reconciliation already ran.
// Saves must not race ahead of hydration.
func (s *Service) hydratedRuntime(sessionID string) (*sessionRuntime, error) {
	s.mu.Lock()
	rt, ok := s.runtimes[sessionID]
	s.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotReady
	}
	rt.mu.Lock()
	if rt.hydration != HydrationHydrated {
		rt.mu.Unlock()
		return nil, ErrSessionNotReady
	}
	rt.mu.Unlock()
	return rt, nil
}

func (s *Service) publish(ctx context.Context, event eventbus.Event) {
	event.Timestamp = time.Now()
	if err := s.bus.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish progress event",
			logger.Field{Key: "type", Value: event.Type},
			logger.Field{Key: "session_id", Value: event.SessionID},
			logger.Field{Key: "error", Value: err})
	}
}

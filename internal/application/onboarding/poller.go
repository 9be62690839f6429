package onboarding

import (
	"context"

	"camp-onboarding/internal/common/logger"
	"camp-onboarding/internal/domain/session"
	"camp-onboarding/internal/domain/wizard"
	"camp-onboarding/internal/infrastructure/eventbus"
)

// ConnectGateway starts the hosted account-link flow and returns the URL the
// tenant is redirected to. Failures are surfaced to the caller; they block
// nothing but this action.
func (s *Service) ConnectGateway(ctx context.Context, sessionID, token string) (string, error) {
	rt, err := s.authorizedRuntime(ctx, sessionID, token)
	if err != nil {
		return "", err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()

	url, err := s.gateway.Connect(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return url, nil
}

// CheckGatewayStatus asks the gateway whether the account finished linking.
// The arrival check (manual=false) runs at most once per session load and is
// skipped entirely when the account is already connected. Manual checks run
// any number of times. A failed check is logged and reported as not yet
// connected, never as an error: it fires automatically and must not
// interrupt the user.
func (s *Service) CheckGatewayStatus(ctx context.Context, sessionID, token string, manual bool) (bool, error) {
	rt, err := s.authorizedRuntime(ctx, sessionID, token)
	if err != nil {
		return false, err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if connected := gatewayConnected(rt.wizard); connected {
		return true, nil
	}
	if !manual {
		if rt.arrivalChecked {
			return false, nil
		}
		rt.arrivalChecked = true
	}

	connected, err := s.gateway.Status(ctx, sessionID)
	if err != nil {
		s.logger.Warn("gateway status check failed",
			logger.Field{Key: "session_id", Value: sessionID},
			logger.Field{Key: "error", Value: err})
		return false, nil
	}
	if !connected {
		return false, nil
	}

	s.markConnectedLocked(ctx, rt)
	return true, nil
}

// markConnectedLocked applies a positive link result: record the account as
// connected, complete the step, and auto-advance when the wizard sits on it.
func (s *Service) markConnectedLocked(ctx context.Context, rt *sessionRuntime) {
	w := rt.wizard
	if gatewayConnected(w) {
		return
	}

	account, _ := w.Data().Stripe.Get()
	account.Connected = true
	w.Data().Stripe = session.Saved(account)

	if w.CurrentStep() == wizard.StepStripeConnect {
		_ = w.AdvanceFrom(wizard.StepStripeConnect)
	} else {
		_ = w.Complete(wizard.StepStripeConnect)
	}

	if err := s.store.SetGatewayLinked(ctx, rt.rec.ID, account.AccountID); err != nil {
		s.logger.Warn("failed to persist gateway link",
			logger.Field{Key: "session_id", Value: rt.rec.ID},
			logger.Field{Key: "error", Value: err})
	}
	s.publish(ctx, eventbus.Event{
		Type:      eventbus.EventAccountLinked,
		SessionID: rt.rec.ID,
	})
}

func gatewayConnected(w *wizard.Wizard) bool {
	account, ok := w.Data().Stripe.Get()
	return ok && account.Connected
}

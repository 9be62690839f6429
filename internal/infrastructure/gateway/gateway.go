package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Provider is the account-link interface to the payment gateway's hosted
// onboarding flow. Connect starts the flow; Status asks whether the tenant
// finished it on the third-party site.
type Provider interface {
	Connect(ctx context.Context, sessionID string) (onboardingURL string, err error)
	Status(ctx context.Context, sessionID string) (connected bool, err error)
}

// MockProvider simulates the gateway for local development and tests.
type MockProvider struct {
	baseURL    string
	avgLatency time.Duration

	mu         sync.Mutex
	connected  map[string]bool
	connectErr error
	statusErr  error
}

func NewMockProvider(baseURL string) *MockProvider {
	return &MockProvider{
		baseURL:    baseURL,
		avgLatency: 50 * time.Millisecond,
		connected:  make(map[string]bool),
	}
}

// MarkConnected simulates the tenant completing the hosted flow.
func (mp *MockProvider) MarkConnected(sessionID string) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.connected[sessionID] = true
}

// SetConnectError makes subsequent Connect calls fail.
func (mp *MockProvider) SetConnectError(err error) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.connectErr = err
}

// SetStatusError makes subsequent Status calls fail.
func (mp *MockProvider) SetStatusError(err error) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.statusErr = err
}

func (mp *MockProvider) Connect(ctx context.Context, sessionID string) (string, error) {
	if err := mp.wait(ctx); err != nil {
		return "", err
	}
	mp.mu.Lock()
	defer mp.mu.Unlock()
	if mp.connectErr != nil {
		return "", mp.connectErr
	}
	return fmt.Sprintf("%s/onboarding/%s", mp.baseURL, sessionID), nil
}

func (mp *MockProvider) Status(ctx context.Context, sessionID string) (bool, error) {
	if err := mp.wait(ctx); err != nil {
		return false, err
	}
	mp.mu.Lock()
	defer mp.mu.Unlock()
	if mp.statusErr != nil {
		return false, mp.statusErr
	}
	return mp.connected[sessionID], nil
}

func (mp *MockProvider) wait(ctx context.Context) error {
	if mp.avgLatency <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(mp.avgLatency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package sessionstore

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("session not found")
)

// Record is the persisted onboarding session. Data is the nested-by-step-key
// envelope; the store writes it exactly as given and never migrates legacy
// shapes in place. Reconciliation happens on read.
type Record struct {
	ID              string            `json:"id"`
	CampgroundID    string            `json:"campgroundId"`
	CampgroundSlug  string            `json:"campgroundSlug,omitempty"`
	Token           string            `json:"-"`
	CurrentStep     string            `json:"currentStep"`
	CompletedSteps  []string          `json:"completedSteps"`
	InventoryPath   string            `json:"inventoryPath,omitempty"`
	Data            map[string]any    `json:"data"`
	IdempotencyKeys map[string]string `json:"-"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// SaveStepParams is one step-save mutation.
type SaveStepParams struct {
	SessionID      string
	Step           string
	Payload        map[string]any
	IdempotencyKey string
	NextStep       string
	CompletedSteps []string
	InventoryPath  string
	// CampgroundSlug is set on the first park_profile save; empty otherwise.
	CampgroundSlug string
}

// SessionStore persists onboarding sessions.
type SessionStore interface {
	// Create starts a new session for an invitation token.
	Create(ctx context.Context, token string) (*Record, error)
	// GetByID loads a session by id; ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (*Record, error)
	// GetByToken loads a session by invitation token; ErrNotFound when absent.
	GetByToken(ctx context.Context, token string) (*Record, error)
	// SaveStep applies one step save and returns the updated record. A replay
	// of the idempotency key last seen for the same step returns the current
	// record unchanged.
	SaveStep(ctx context.Context, params SaveStepParams) (*Record, error)
	// SetGatewayLinked records a successful payment-account link.
	SetGatewayLinked(ctx context.Context, id, accountID string) error
	Close() error
}

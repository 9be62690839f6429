package sessionstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps sessions in process memory. Used by tests and by the
// memory store driver for throwaway environments.
type MemoryStore struct {
	mu       sync.RWMutex
	byID     map[string]*Record
	byToken  map[string]string
	failNext error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]*Record),
		byToken: make(map[string]string),
	}
}

// FailNext makes the next mutating call return err. Lets tests simulate a
// remote save failure.
func (ms *MemoryStore) FailNext(err error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.failNext = err
}

// Seed installs a pre-existing record, bypassing Create. Tests use it to
// load legacy-shaped sessions.
func (ms *MemoryStore) Seed(rec *Record) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	cp := cloneRecord(rec)
	ms.byID[cp.ID] = cp
	ms.byToken[cp.Token] = cp.ID
}

func (ms *MemoryStore) Create(ctx context.Context, token string) (*Record, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if err := ms.takeFailure(); err != nil {
		return nil, err
	}
	now := time.Now()
	rec := &Record{
		ID:              uuid.New().String(),
		CampgroundID:    uuid.New().String(),
		Token:           token,
		CurrentStep:     "",
		Data:            make(map[string]any),
		IdempotencyKeys: make(map[string]string),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	ms.byID[rec.ID] = rec
	ms.byToken[token] = rec.ID
	return cloneRecord(rec), nil
}

func (ms *MemoryStore) GetByID(ctx context.Context, id string) (*Record, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	rec, ok := ms.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneRecord(rec), nil
}

func (ms *MemoryStore) GetByToken(ctx context.Context, token string) (*Record, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	id, ok := ms.byToken[token]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneRecord(ms.byID[id]), nil
}

func (ms *MemoryStore) SaveStep(ctx context.Context, params SaveStepParams) (*Record, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if err := ms.takeFailure(); err != nil {
		return nil, err
	}
	rec, ok := ms.byID[params.SessionID]
	if !ok {
		return nil, ErrNotFound
	}
	if params.IdempotencyKey != "" && rec.IdempotencyKeys[params.Step] == params.IdempotencyKey {
		return cloneRecord(rec), nil
	}
	applySave(rec, params)
	return cloneRecord(rec), nil
}

func (ms *MemoryStore) SetGatewayLinked(ctx context.Context, id, accountID string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if err := ms.takeFailure(); err != nil {
		return err
	}
	rec, ok := ms.byID[id]
	if !ok {
		return ErrNotFound
	}
	markGatewayLinked(rec, accountID)
	return nil
}

func (ms *MemoryStore) Close() error {
	return nil
}

func (ms *MemoryStore) takeFailure() error {
	err := ms.failNext
	ms.failNext = nil
	return err
}

// applySave mutates rec with one step save. Shared by the memory store and
// the SQL stores' row rewrite.
func applySave(rec *Record, params SaveStepParams) {
	if rec.Data == nil {
		rec.Data = make(map[string]any)
	}
	if params.Payload != nil {
		rec.Data[params.Step] = cloneMap(params.Payload)
	}
	if params.NextStep != "" {
		rec.CurrentStep = params.NextStep
	}
	if params.CompletedSteps != nil {
		rec.CompletedSteps = params.CompletedSteps
	}
	if params.InventoryPath != "" {
		rec.InventoryPath = params.InventoryPath
	}
	if params.CampgroundSlug != "" {
		rec.CampgroundSlug = params.CampgroundSlug
	}
	if rec.IdempotencyKeys == nil {
		rec.IdempotencyKeys = make(map[string]string)
	}
	if params.IdempotencyKey != "" {
		rec.IdempotencyKeys[params.Step] = params.IdempotencyKey
	}
	rec.UpdatedAt = time.Now()
}

func markGatewayLinked(rec *Record, accountID string) {
	if rec.Data == nil {
		rec.Data = make(map[string]any)
	}
	connect := map[string]any{"connected": true}
	if accountID != "" {
		connect["accountId"] = accountID
	}
	rec.Data["stripe_connect"] = map[string]any{"stripeConnect": connect}
	rec.UpdatedAt = time.Now()
}

func cloneRecord(rec *Record) *Record {
	cp := *rec
	cp.CompletedSteps = append([]string(nil), rec.CompletedSteps...)
	cp.Data = cloneMap(rec.Data)
	cp.IdempotencyKeys = make(map[string]string, len(rec.IdempotencyKeys))
	for k, v := range rec.IdempotencyKeys {
		cp.IdempotencyKeys[k] = v
	}
	return &cp
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

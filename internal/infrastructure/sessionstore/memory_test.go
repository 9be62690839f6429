package sessionstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CreateAndLookup(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	rec, err := ms.Create(ctx, "invite-1")
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.NotEmpty(t, rec.CampgroundID)

	byToken, err := ms.GetByToken(ctx, "invite-1")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, byToken.ID)

	_, err = ms.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_SaveStepIdempotentReplay(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()
	rec, err := ms.Create(ctx, "invite-1")
	require.NoError(t, err)

	params := SaveStepParams{
		SessionID:      rec.ID,
		Step:           "park_profile",
		Payload:        map[string]any{"campground": map[string]any{"name": "Pine Ridge"}},
		IdempotencyKey: "key-1",
		NextStep:       "operational_hours",
		CompletedSteps: []string{"park_profile"},
	}
	first, err := ms.SaveStep(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, "operational_hours", first.CurrentStep)
	firstUpdated := first.UpdatedAt

	// Same key again: the write is absorbed, the record comes back unchanged.
	params.NextStep = "tax_rules"
	replay, err := ms.SaveStep(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, "operational_hours", replay.CurrentStep)
	assert.Equal(t, firstUpdated, replay.UpdatedAt)

	// A new key applies normally.
	params.IdempotencyKey = "key-2"
	second, err := ms.SaveStep(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, "tax_rules", second.CurrentStep)
}

func TestMemoryStore_FailNextOnlyFailsOnce(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()
	rec, err := ms.Create(ctx, "invite-1")
	require.NoError(t, err)

	ms.FailNext(errors.New("boom"))
	_, err = ms.SaveStep(ctx, SaveStepParams{SessionID: rec.ID, Step: "park_profile", IdempotencyKey: "k"})
	require.Error(t, err)

	_, err = ms.SaveStep(ctx, SaveStepParams{SessionID: rec.ID, Step: "park_profile", IdempotencyKey: "k"})
	assert.NoError(t, err)
}

func TestMemoryStore_SetGatewayLinked(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()
	rec, err := ms.Create(ctx, "invite-1")
	require.NoError(t, err)

	require.NoError(t, ms.SetGatewayLinked(ctx, rec.ID, "acct_123"))

	got, err := ms.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	envelope, ok := got.Data["stripe_connect"].(map[string]any)
	require.True(t, ok)
	connect := envelope["stripeConnect"].(map[string]any)
	assert.Equal(t, true, connect["connected"])
	assert.Equal(t, "acct_123", connect["accountId"])
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()
	rec, err := ms.Create(ctx, "invite-1")
	require.NoError(t, err)

	rec.Data["injected"] = "value"
	fresh, err := ms.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.NotContains(t, fresh.Data, "injected", "callers get a copy, not the stored record")

	// The copy is deep: mutating an array element must not reach the store.
	_, err = ms.SaveStep(ctx, SaveStepParams{
		SessionID:      rec.ID,
		Step:           "site_classes",
		IdempotencyKey: "k",
		Payload: map[string]any{
			"siteClasses": []any{map[string]any{"name": "RV Full Hookup"}},
		},
	})
	require.NoError(t, err)

	got, err := ms.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	envelope := got.Data["site_classes"].(map[string]any)
	classes := envelope["siteClasses"].([]any)
	classes[0].(map[string]any)["name"] = "tampered"

	again, err := ms.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	envelope = again.Data["site_classes"].(map[string]any)
	classes = envelope["siteClasses"].([]any)
	assert.Equal(t, "RV Full Hookup", classes[0].(map[string]any)["name"])
}

package reconcile

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camp-onboarding/internal/domain/wizard"
)

func decodeData(t *testing.T, raw string) map[string]any {
	t.Helper()
	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &data))
	return data
}

func TestCanonicalStepKey(t *testing.T) {
	tests := []struct {
		in   wizard.StepKey
		want wizard.StepKey
	}{
		{"account_profile", wizard.StepParkProfile},
		{"payment_gateway", wizard.StepStripeConnect},
		{"inventory_sites", wizard.StepInventoryChoice},
		{"rates_and_fees", wizard.StepRatesSetup},
		{"taxes_and_fees", wizard.StepTaxRules},
		{"policies", wizard.StepDepositPolicy},
		{"park_profile", wizard.StepParkProfile},
		{"never_heard_of_it", "never_heard_of_it"},
	}

	for _, tt := range tests {
		got := CanonicalStepKey(tt.in)
		assert.Equal(t, tt.want, got)
		// Applying the mapper twice is the same as applying it once.
		assert.Equal(t, got, CanonicalStepKey(got))
	}
}

func TestEveryAliasTargetsARegistryMember(t *testing.T) {
	for legacy, canonical := range stepAliases {
		assert.True(t, wizard.IsKnown(canonical), "alias %s -> %s must resolve to a known step", legacy, canonical)
	}
}

func TestReconcile_LegacyCurrentStepAndFlatProfile(t *testing.T) {
	w := Reconcile(RawSession{
		CurrentStep: "account_profile",
		Data:        decodeData(t, `{"campgroundName":"Pine Ridge","phone":"555-0100"}`),
	})

	assert.Equal(t, wizard.StepParkProfile, w.CurrentStep())
	profile, ok := w.Data().Profile.Get()
	require.True(t, ok)
	assert.Equal(t, "Pine Ridge", profile.Name)
	assert.Equal(t, "555-0100", profile.Phone)
}

func TestReconcile_CurrentStepPrecedence(t *testing.T) {
	t.Run("explicit current step wins", func(t *testing.T) {
		w := Reconcile(RawSession{CurrentStep: "tax_rules", NextStepHint: "team_setup"})
		assert.Equal(t, wizard.StepTaxRules, w.CurrentStep())
	})

	t.Run("hint used when current step is garbage", func(t *testing.T) {
		w := Reconcile(RawSession{CurrentStep: "who_knows", NextStepHint: "team_setup"})
		assert.Equal(t, wizard.StepTeamSetup, w.CurrentStep())
	})

	t.Run("hint passes through the legacy mapper", func(t *testing.T) {
		w := Reconcile(RawSession{NextStepHint: "taxes_and_fees"})
		assert.Equal(t, wizard.StepTaxRules, w.CurrentStep())
	})

	t.Run("first registry step as last resort", func(t *testing.T) {
		w := Reconcile(RawSession{CurrentStep: "nope", NextStepHint: "also nope"})
		assert.Equal(t, wizard.FirstStep(), w.CurrentStep())
	})
}

func TestReconcile_CompletedStepsFiltered(t *testing.T) {
	w := Reconcile(RawSession{
		CompletedSteps: []string{"account_profile", "operational_hours", "mystery", "policies"},
	})

	assert.Equal(t, []wizard.StepKey{
		wizard.StepParkProfile,
		wizard.StepOperationalHours,
		wizard.StepDepositPolicy,
	}, w.CompletedSteps())
}

func TestReconcile_LegacySiteClassesGetPlaceholderIDs(t *testing.T) {
	data := decodeData(t, `{
		"site_classes": {
			"siteClasses": [
				{"name":"RV Full Hookup","siteType":"rv","rentalType":"transient","defaultRate":55},
				{"id":"sc_9","name":"Tent","siteType":"tent","rentalType":"transient","defaultRate":25}
			]
		}
	}`)

	w := Reconcile(RawSession{Data: data})

	classes, ok := w.Data().SiteClasses.Get()
	require.True(t, ok)
	require.Len(t, classes, 2)
	assert.Equal(t, "temp-0", classes[0].ID)
	assert.Equal(t, "sc_9", classes[1].ID, "real ids are untouched")
}

func TestReconcile_NestedLocationWinsOverFlat(t *testing.T) {
	data := decodeData(t, `{
		"deposit_policy": {"depositPolicy": {"type":"first_night","percentage":null}},
		"depositPolicy": {"type":"full","percentage":null}
	}`)

	w := Reconcile(RawSession{Data: data})

	dp, ok := w.Data().Deposit.Get()
	require.True(t, ok)
	assert.Equal(t, "first_night", string(dp.Type))
}

func TestReconcile_FlatLegacyLocationAsFallback(t *testing.T) {
	data := decodeData(t, `{"depositPolicy": {"type":"full","percentage":null}}`)

	w := Reconcile(RawSession{Data: data})

	dp, ok := w.Data().Deposit.Get()
	require.True(t, ok)
	assert.Equal(t, "full", string(dp.Type))
}

func TestReconcile_GuardFailureLeavesBlockAbsent(t *testing.T) {
	data := decodeData(t, `{
		"deposit_policy": {"depositPolicy": {"type":"half_up_front"}},
		"site_classes": {"siteClasses": [{"name": 12}]}
	}`)

	w := Reconcile(RawSession{Data: data})

	_, ok := w.Data().Deposit.Get()
	assert.False(t, ok)
	_, ok = w.Data().SiteClasses.Get()
	assert.False(t, ok)
}

func TestReconcile_LegacyQuizRecommendations(t *testing.T) {
	data := decodeData(t, `{"recommendedNow":["pos"],"recommendedLater":["store"]}`)

	w := Reconcile(RawSession{Data: data})

	quiz, ok := w.Data().Quiz.Get()
	require.True(t, ok)
	require.NotNil(t, quiz.Recommendations)
	assert.Equal(t, []string{"pos"}, quiz.Recommendations.Now)
	assert.Equal(t, []string{"store"}, quiz.Recommendations.Later)
	assert.Empty(t, quiz.Recommendations.Skipped)
	assert.NotNil(t, quiz.Recommendations.Skipped)
}

func TestReconcile_QuizJunkDoesNotShadowLegacyArrays(t *testing.T) {
	data := decodeData(t, `{
		"smart_quiz": {"quiz": {"unrelated": true}},
		"recommendedNow": ["pos"]
	}`)

	w := Reconcile(RawSession{Data: data})

	quiz, ok := w.Data().Quiz.Get()
	require.True(t, ok, "legacy reconstruction must run when the nested quiz is invalid")
	require.NotNil(t, quiz.Recommendations)
	assert.Equal(t, []string{"pos"}, quiz.Recommendations.Now)
}

func TestReconcile_FullQuizWinsOverLegacyArrays(t *testing.T) {
	data := decodeData(t, `{
		"smart_quiz": {"quiz": {"answers":{"size":"small"},"recommendations":{"now":["maps"],"later":[],"skipped":["pos"]}}},
		"recommendedNow": ["pos"]
	}`)

	w := Reconcile(RawSession{Data: data})

	quiz, ok := w.Data().Quiz.Get()
	require.True(t, ok)
	assert.Equal(t, []string{"maps"}, quiz.Recommendations.Now)
	assert.Equal(t, []string{"pos"}, quiz.Recommendations.Skipped)
}

func TestReconcile_InventoryPathSources(t *testing.T) {
	t.Run("explicit column", func(t *testing.T) {
		w := Reconcile(RawSession{InventoryPath: "import"})
		assert.Equal(t, wizard.PathImport, w.InventoryPath())
	})

	t.Run("nested envelope", func(t *testing.T) {
		w := Reconcile(RawSession{Data: decodeData(t, `{"inventory_choice":{"path":"manual"}}`)})
		assert.Equal(t, wizard.PathManual, w.InventoryPath())
	})

	t.Run("garbage ignored", func(t *testing.T) {
		w := Reconcile(RawSession{InventoryPath: "spreadsheet"})
		assert.Equal(t, wizard.PathUnset, w.InventoryPath())
	})
}

func TestReconcile_BranchRoutingSurvivesMissingHint(t *testing.T) {
	t.Run("import path never routes to site_classes", func(t *testing.T) {
		w := Reconcile(RawSession{
			CurrentStep:   "inventory_choice",
			InventoryPath: "import",
		})
		next, err := w.NextStep()
		require.NoError(t, err)
		assert.Equal(t, wizard.StepDataImport, next)
	})

	t.Run("manual path never routes to data_import", func(t *testing.T) {
		w := Reconcile(RawSession{
			CurrentStep:   "inventory_choice",
			InventoryPath: "manual",
		})
		next, err := w.NextStep()
		require.NoError(t, err)
		assert.Equal(t, wizard.StepSiteClasses, next)
	})
}

// Reconcile must be total: arbitrary garbage shapes resolve to a valid state
// with absent fields, never a panic.
func TestReconcile_TotalOnMalformedInput(t *testing.T) {
	payloads := []string{
		`{}`,
		`{"park_profile": "not an object"}`,
		`{"park_profile": {"campground": 7}}`,
		`{"site_classes": 9, "rate_periods": [], "smart_quiz": true}`,
		`{"deposit_policy": {"depositPolicy": []}}`,
		`{"campground": {"name": {"first": "Pine"}}}`,
		`{"inventory_choice": {"path": 3}}`,
		`{"menu_setup": {"menuPins": [1, 2, 3]}}`,
	}

	for _, raw := range payloads {
		w := Reconcile(RawSession{
			CurrentStep:    "???",
			CompletedSteps: []string{"???", ""},
			Data:           decodeData(t, raw),
		})
		require.NotNil(t, w)
		assert.True(t, wizard.IsKnown(w.CurrentStep()))
		for _, step := range w.CompletedSteps() {
			assert.True(t, wizard.IsKnown(step))
		}
	}

	// Nil data map included.
	w := Reconcile(RawSession{})
	assert.Equal(t, wizard.FirstStep(), w.CurrentStep())
}

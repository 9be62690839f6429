package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"camp-onboarding/internal/domain/session"
)

func TestRegistry_OrderedAndClosed(t *testing.T) {
	steps := Steps()
	require.NotEmpty(t, steps)

	for i, def := range steps {
		assert.Equal(t, i, def.Ordinal, "ordinal must match registry position for %s", def.Key)
		assert.True(t, IsKnown(def.Key))
	}

	assert.Equal(t, StepParkProfile, FirstStep())
	assert.Equal(t, StepReviewLaunch, FinalStep())
	assert.False(t, IsKnown("account_profile"))
	assert.Equal(t, -1, Ordinal("not_a_step"))
}

func TestWizard_CompleteIsIdempotent(t *testing.T) {
	w := New()

	require.NoError(t, w.Complete(StepParkProfile))
	require.NoError(t, w.Complete(StepOperationalHours))
	require.NoError(t, w.Complete(StepParkProfile))

	assert.Equal(t, []StepKey{StepParkProfile, StepOperationalHours}, w.CompletedSteps())
	assert.Error(t, w.Complete("bogus_step"))
}

func TestWizard_LinearAdvance(t *testing.T) {
	w := New()

	require.NoError(t, w.Advance())
	assert.Equal(t, StepOperationalHours, w.CurrentStep())
	assert.True(t, w.IsCompleted(StepParkProfile))
	assert.Equal(t, DirectionForward, w.Direction())

	require.NoError(t, w.Advance())
	assert.Equal(t, StepStripeConnect, w.CurrentStep())
}

func TestWizard_InventoryBranch(t *testing.T) {
	tests := []struct {
		name string
		path InventoryPath
		want StepKey
	}{
		{name: "import routes to data_import", path: PathImport, want: StepDataImport},
		{name: "manual routes to site_classes", path: PathManual, want: StepSiteClasses},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New()
			require.NoError(t, w.JumpTo(StepInventoryChoice))
			require.NoError(t, w.ChoosePath(tt.path))
			require.NoError(t, w.Advance())
			assert.Equal(t, tt.want, w.CurrentStep())
		})
	}
}

func TestWizard_AdvanceWithoutPathChoice(t *testing.T) {
	w := New()
	require.NoError(t, w.JumpTo(StepInventoryChoice))

	err := w.Advance()
	assert.ErrorIs(t, err, ErrPathNotChosen)
	assert.Equal(t, StepInventoryChoice, w.CurrentStep())
}

func TestWizard_ChoosePathRejectsUnknownValues(t *testing.T) {
	w := New()
	assert.ErrorIs(t, w.ChoosePath("csv"), ErrInvalidPath)
	assert.ErrorIs(t, w.ChoosePath(PathUnset), ErrInvalidPath)
}

func TestWizard_SkipImportGoesToSiteClasses(t *testing.T) {
	w := New()
	require.NoError(t, w.JumpTo(StepInventoryChoice))
	require.NoError(t, w.ChoosePath(PathImport))
	require.NoError(t, w.Advance())
	require.Equal(t, StepDataImport, w.CurrentStep())

	require.NoError(t, w.SkipImport())

	assert.Equal(t, StepSiteClasses, w.CurrentStep())
	assert.True(t, w.IsCompleted(StepDataImport))
	// The path choice survives the skip, so nothing routes back through the
	// import step later.
	assert.Equal(t, PathImport, w.InventoryPath())
}

func TestWizard_SkipImportOnlyFromImportStep(t *testing.T) {
	w := New()
	assert.ErrorIs(t, w.SkipImport(), ErrInvalidTransition)
}

func TestWizard_FeatureTriageBranch(t *testing.T) {
	t.Run("features chosen now go to guided setup", func(t *testing.T) {
		w := New()
		require.NoError(t, w.JumpTo(StepFeatureTriage))
		w.Data().Triage = session.Saved([]session.FeatureSelection{
			{FeatureID: "pos", Decision: session.TriageNow},
			{FeatureID: "store", Decision: session.TriageLater},
		})

		require.NoError(t, w.Advance())
		assert.Equal(t, StepGuidedSetup, w.CurrentStep())
	})

	t.Run("nothing chosen now goes straight to review", func(t *testing.T) {
		w := New()
		require.NoError(t, w.JumpTo(StepFeatureTriage))
		w.Data().Triage = session.Saved([]session.FeatureSelection{
			{FeatureID: "pos", Decision: session.TriageSkip},
		})

		require.NoError(t, w.Advance())
		assert.Equal(t, StepReviewLaunch, w.CurrentStep())
	})

	t.Run("guided setup exits to review", func(t *testing.T) {
		w := New()
		require.NoError(t, w.JumpTo(StepGuidedSetup))
		require.NoError(t, w.Advance())
		assert.Equal(t, StepReviewLaunch, w.CurrentStep())
	})
}

func TestWizard_TerminalStep(t *testing.T) {
	w := New()
	require.NoError(t, w.JumpTo(StepReviewLaunch))
	assert.True(t, w.IsTerminal())

	// No transition past the final review step.
	require.NoError(t, w.Advance())
	assert.Equal(t, StepReviewLaunch, w.CurrentStep())
}

func TestWizard_JumpDirection(t *testing.T) {
	w := New()
	require.NoError(t, w.JumpTo(StepTaxRules))
	assert.Equal(t, DirectionForward, w.Direction())

	require.NoError(t, w.JumpTo(StepStripeConnect))
	assert.Equal(t, DirectionBackward, w.Direction())

	assert.ErrorIs(t, w.JumpTo("payment_gateway"), ErrUnknownStep)
	assert.Equal(t, StepStripeConnect, w.CurrentStep())
}

func TestRestore_DiscardsUnknownValues(t *testing.T) {
	w := Restore("mystery_step", []StepKey{StepParkProfile, "bogus", StepParkProfile}, "csv", session.Data{})

	assert.Equal(t, FirstStep(), w.CurrentStep())
	assert.Equal(t, []StepKey{StepParkProfile}, w.CompletedSteps())
	assert.Equal(t, PathUnset, w.InventoryPath())
}

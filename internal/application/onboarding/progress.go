package onboarding

import (
	"camp-onboarding/internal/domain/wizard"
	"camp-onboarding/internal/infrastructure/sessionstore"
)

// Progress summarizes how far a session has made it through the wizard.
type Progress struct {
	CompletedSteps []string `json:"completedSteps"`
	NextStep       string   `json:"nextStep"`
	RemainingSteps []string `json:"remainingSteps"`
	Percentage     float64  `json:"percentage"`
}

// SessionView is the session representation returned to clients. Data is the
// raw persisted envelope; the typed state lives server-side only.
type SessionView struct {
	ID             string         `json:"id"`
	CampgroundID   string         `json:"campgroundId"`
	CampgroundSlug string         `json:"campgroundSlug,omitempty"`
	CurrentStep    string         `json:"currentStep"`
	InventoryPath  string         `json:"inventoryPath,omitempty"`
	Data           map[string]any `json:"data"`
}

// Result pairs the session with its computed progress.
type Result struct {
	Session  SessionView `json:"session"`
	Progress Progress    `json:"progress"`
}

func buildResult(rec *sessionstore.Record, w *wizard.Wizard) Result {
	return Result{
		Session: SessionView{
			ID:             rec.ID,
			CampgroundID:   rec.CampgroundID,
			CampgroundSlug: rec.CampgroundSlug,
			CurrentStep:    string(w.CurrentStep()),
			InventoryPath:  string(w.InventoryPath()),
			Data:           rec.Data,
		},
		Progress: computeProgress(w),
	}
}

// computeProgress walks the registry, counting only steps on the session's
// route: branch steps the chosen path avoids do not dilute the percentage,
// but stay counted if they were completed before the choice changed.
func computeProgress(w *wizard.Wizard) Progress {
	relevant := relevantSteps(w)

	completed := make([]string, 0, len(relevant))
	for _, step := range w.CompletedSteps() {
		completed = append(completed, string(step))
	}

	remaining := make([]string, 0, len(relevant))
	done := 0
	for _, step := range relevant {
		if w.IsCompleted(step) {
			done++
			continue
		}
		remaining = append(remaining, string(step))
	}

	percentage := 0.0
	if len(relevant) > 0 {
		percentage = float64(done) / float64(len(relevant)) * 100
	}

	next := w.CurrentStep()
	if w.IsCompleted(next) {
		if n, err := w.NextStep(); err == nil {
			next = n
		}
	}

	return Progress{
		CompletedSteps: completed,
		NextStep:       string(next),
		RemainingSteps: remaining,
		Percentage:     percentage,
	}
}

func relevantSteps(w *wizard.Wizard) []wizard.StepKey {
	out := make([]wizard.StepKey, 0, len(wizard.Steps()))
	for _, def := range wizard.Steps() {
		if !onRoute(w, def.Key) && !w.IsCompleted(def.Key) {
			continue
		}
		out = append(out, def.Key)
	}
	return out
}

// onRoute reports whether the session's branch choices put step on its path.
func onRoute(w *wizard.Wizard, step wizard.StepKey) bool {
	switch step {
	case wizard.StepDataImport:
		return w.InventoryPath() == wizard.PathImport
	case wizard.StepSiteClasses, wizard.StepSitesBuilder:
		return w.InventoryPath() != wizard.PathImport
	case wizard.StepGuidedSetup:
		return w.Data().AnyFeatureChosenNow()
	default:
		return true
	}
}

package wizard

import (
	"errors"

	"camp-onboarding/internal/domain/session"
)

var (
	ErrUnknownStep       = errors.New("unknown wizard step")
	ErrInvalidTransition = errors.New("invalid step transition")
	ErrPathNotChosen     = errors.New("inventory path not chosen")
	ErrInvalidPath       = errors.New("invalid inventory path")
)

// InventoryPath is the branch choice made at the inventory_choice step.
type InventoryPath string

const (
	PathUnset  InventoryPath = ""
	PathImport InventoryPath = "import"
	PathManual InventoryPath = "manual"
)

// Direction is a transient presentation hint; it is never persisted.
type Direction string

const (
	DirectionForward  Direction = "forward"
	DirectionBackward Direction = "backward"
)

// Wizard is the in-memory onboarding state machine for one session.
type Wizard struct {
	currentStep   StepKey
	completed     []StepKey
	completedSet  map[StepKey]struct{}
	inventoryPath InventoryPath
	direction     Direction
	data          session.Data
}

// New returns a wizard positioned at the first step with nothing completed.
func New() *Wizard {
	return &Wizard{
		currentStep:  FirstStep(),
		completedSet: make(map[StepKey]struct{}),
		direction:    DirectionForward,
	}
}

// Restore rebuilds a wizard from reconciled values. The caller (the session
// reconciler) is responsible for having already mapped legacy keys and
// discarded unknown ones; Restore still refuses an unknown current step.
func Restore(current StepKey, completed []StepKey, path InventoryPath, data session.Data) *Wizard {
	w := New()
	if IsKnown(current) {
		w.currentStep = current
	}
	for _, step := range completed {
		if IsKnown(step) {
			w.complete(step)
		}
	}
	if path == PathImport || path == PathManual {
		w.inventoryPath = path
	}
	w.data = data
	return w
}

func (w *Wizard) CurrentStep() StepKey {
	return w.currentStep
}

// CompletedSteps returns completed keys in order of first completion.
func (w *Wizard) CompletedSteps() []StepKey {
	out := make([]StepKey, len(w.completed))
	copy(out, w.completed)
	return out
}

func (w *Wizard) IsCompleted(step StepKey) bool {
	_, ok := w.completedSet[step]
	return ok
}

func (w *Wizard) InventoryPath() InventoryPath {
	return w.inventoryPath
}

func (w *Wizard) Direction() Direction {
	return w.direction
}

// Data returns the per-step domain data bag.
func (w *Wizard) Data() *session.Data {
	return &w.data
}

// ChoosePath records the inventory branch choice.
func (w *Wizard) ChoosePath(path InventoryPath) error {
	if path != PathImport && path != PathManual {
		return ErrInvalidPath
	}
	w.inventoryPath = path
	return nil
}

// Complete adds a step to the completed set. Re-completing a step is a no-op:
// cardinality and first-appearance order are preserved.
func (w *Wizard) Complete(step StepKey) error {
	if !IsKnown(step) {
		return ErrUnknownStep
	}
	w.complete(step)
	return nil
}

func (w *Wizard) complete(step StepKey) {
	if _, ok := w.completedSet[step]; ok {
		return
	}
	w.completedSet[step] = struct{}{}
	w.completed = append(w.completed, step)
}

// linear spine successors; branch points are handled in NextStep.
var successors = map[StepKey]StepKey{
	StepParkProfile:        StepOperationalHours,
	StepOperationalHours:   StepStripeConnect,
	StepStripeConnect:      StepInventoryChoice,
	StepDataImport:         StepRatePeriods,
	StepSiteClasses:        StepSitesBuilder,
	StepSitesBuilder:       StepRatePeriods,
	StepRatePeriods:        StepRatesSetup,
	StepRatesSetup:         StepFeesAndAddons,
	StepFeesAndAddons:      StepTaxRules,
	StepTaxRules:           StepDepositPolicy,
	StepDepositPolicy:      StepBookingRules,
	StepBookingRules:       StepCancellationRules,
	StepCancellationRules:  StepWaiversDocuments,
	StepWaiversDocuments:   StepParkRules,
	StepParkRules:          StepTeamSetup,
	StepTeamSetup:          StepCommunicationSetup,
	StepCommunicationSetup: StepIntegrations,
	StepIntegrations:       StepMenuSetup,
	StepMenuSetup:          StepFeatureDiscovery,
	StepFeatureDiscovery:   StepSmartQuiz,
	StepSmartQuiz:          StepFeatureTriage,
	StepGuidedSetup:        StepReviewLaunch,
}

// NextAfter computes the step that follows step, honoring both branch
// points. At the terminal review step it returns the step itself.
func (w *Wizard) NextAfter(step StepKey) (StepKey, error) {
	switch step {
	case StepInventoryChoice:
		switch w.inventoryPath {
		case PathImport:
			return StepDataImport, nil
		case PathManual:
			return StepSiteClasses, nil
		default:
			return "", ErrPathNotChosen
		}
	case StepFeatureTriage:
		if w.data.AnyFeatureChosenNow() {
			return StepGuidedSetup, nil
		}
		return StepReviewLaunch, nil
	case StepReviewLaunch:
		return StepReviewLaunch, nil
	}
	next, ok := successors[step]
	if !ok {
		return "", ErrInvalidTransition
	}
	return next, nil
}

// NextStep computes the step that follows the current one.
func (w *Wizard) NextStep() (StepKey, error) {
	return w.NextAfter(w.currentStep)
}

// AdvanceFrom completes step and moves to its successor. The completed-step
// union happens unconditionally before the move and is idempotent.
func (w *Wizard) AdvanceFrom(step StepKey) error {
	if !IsKnown(step) {
		return ErrUnknownStep
	}
	next, err := w.NextAfter(step)
	if err != nil {
		return err
	}
	w.complete(step)
	w.direction = DirectionForward
	w.currentStep = next
	return nil
}

// Advance completes the current step and moves forward.
func (w *Wizard) Advance() error {
	return w.AdvanceFrom(w.currentStep)
}

// SkipImport leaves the data_import step without importing anything and drops
// into the manual inventory flow. The chosen path stays "import" so a later
// reconciliation does not route back through data_import.
func (w *Wizard) SkipImport() error {
	if w.currentStep != StepDataImport {
		return ErrInvalidTransition
	}
	w.complete(StepDataImport)
	w.direction = DirectionForward
	w.currentStep = StepSiteClasses
	return nil
}

// JumpTo moves to an arbitrary known step, as requested by sidebar
// navigation. Direction is derived from ordinal positions and only affects
// transition styling.
func (w *Wizard) JumpTo(target StepKey) error {
	if !IsKnown(target) {
		return ErrUnknownStep
	}
	if Ordinal(target) < Ordinal(w.currentStep) {
		w.direction = DirectionBackward
	} else {
		w.direction = DirectionForward
	}
	w.currentStep = target
	return nil
}

// IsTerminal reports whether the wizard sits on the final review step.
func (w *Wizard) IsTerminal() bool {
	return w.currentStep == StepReviewLaunch
}

package onboarding

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"camp-onboarding/internal/domain/session"
	"camp-onboarding/internal/domain/wizard"
	"camp-onboarding/internal/infrastructure/eventbus"
	"camp-onboarding/internal/infrastructure/sessionstore"
)

// SaveStepRequest is one step submission.
type SaveStepRequest struct {
	SessionID string
	Token     string
	Step      string
	Payload   map[string]any
	// IdempotencyKey is optional; a fresh key is minted per invocation when
	// the caller sends none. A user-triggered retry therefore carries a new
	// key unless the caller pins one.
	IdempotencyKey string
}

// SaveStep persists one step and advances the wizard. On store failure the
// current step and local data are left untouched so the user can retry.
func (s *Service) SaveStep(ctx context.Context, req SaveStepRequest) (*Result, error) {
	rt, err := s.hydratedRuntime(req.SessionID)
	if err != nil {
		return nil, err
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.rec.Token != req.Token {
		return nil, ErrUnauthorized
	}
	step := wizard.StepKey(req.Step)
	if !wizard.IsKnown(step) {
		return nil, wizard.ErrUnknownStep
	}
	w := rt.wizard

	prevPath := w.InventoryPath()
	if step == wizard.StepInventoryChoice {
		path, _ := req.Payload["path"].(string)
		if err := w.ChoosePath(wizard.InventoryPath(path)); err != nil {
			return nil, err
		}
	}

	// The guided-setup branch decision reads the triage selections, so the
	// incoming payload must be staged before the successor is computed.
	prevTriage := w.Data().Triage
	if step == wizard.StepFeatureTriage {
		if fs, ok := session.GuardFeatureSelections(req.Payload["selections"]); ok {
			w.Data().Triage = session.Draft(fs)
		}
	}

	skipped := step == wizard.StepDataImport && req.Payload["skipped"] == true

	next, err := w.NextAfter(step)
	if err != nil {
		restorePath(w, prevPath)
		w.Data().Triage = prevTriage
		return nil, err
	}
	if skipped {
		next = wizard.StepSiteClasses
	}

	// Steps submitted with no data complete locally without a remote write;
	// the store catches up the next time the step is genuinely filled in.
	if len(req.Payload) == 0 && step != wizard.StepReviewLaunch {
		advance(w, step, skipped)
		result := buildResult(rt.rec, w)
		return &result, nil
	}

	idemKey := req.IdempotencyKey
	if idemKey == "" {
		idemKey = uuid.New().String()
	}

	payload := stripPlaceholderIDs(step, req.Payload)

	params := sessionstore.SaveStepParams{
		SessionID:      req.SessionID,
		Step:           string(step),
		Payload:        payload,
		IdempotencyKey: idemKey,
		NextStep:       string(next),
		CompletedSteps: completedUnion(w, step),
		InventoryPath:  string(w.InventoryPath()),
	}
	if step == wizard.StepParkProfile && rt.rec.CampgroundSlug == "" {
		params.CampgroundSlug = slugFromProfile(payload)
	}

	updated, err := s.store.SaveStep(ctx, params)
	if err != nil {
		restorePath(w, prevPath)
		w.Data().Triage = prevTriage
		return nil, err
	}
	rt.rec = updated

	s.applyPayload(w, step, payload, updated)
	advance(w, step, skipped)

	switch step {
	case wizard.StepInventoryChoice:
		s.publish(ctx, eventbus.Event{
			Type:      eventbus.EventPathChosen,
			SessionID: req.SessionID,
			Path:      string(w.InventoryPath()),
		})
	case wizard.StepReviewLaunch:
		s.publish(ctx, eventbus.Event{
			Type:      eventbus.EventCompleted,
			SessionID: req.SessionID,
		})
	default:
		s.publish(ctx, eventbus.Event{
			Type:      eventbus.EventStepSaved,
			SessionID: req.SessionID,
			Step:      string(step),
		})
	}

	result := buildResult(rt.rec, w)
	return &result, nil
}

func advance(w *wizard.Wizard, step wizard.StepKey, skipped bool) {
	if skipped {
		_ = w.JumpTo(wizard.StepDataImport)
		_ = w.SkipImport()
		return
	}
	_ = w.AdvanceFrom(step)
}

func restorePath(w *wizard.Wizard, prev wizard.InventoryPath) {
	if prev == wizard.PathImport || prev == wizard.PathManual {
		_ = w.ChoosePath(prev)
	}
}

func completedUnion(w *wizard.Wizard, step wizard.StepKey) []string {
	steps := w.CompletedSteps()
	out := make([]string, 0, len(steps)+1)
	seen := false
	for _, s := range steps {
		if s == step {
			seen = true
		}
		out = append(out, string(s))
	}
	if !seen {
		out = append(out, string(step))
	}
	return out
}

// applyPayload optimistically installs the caller-supplied payload as the
// step's local block. The value comes from the caller, not the server echo,
// except the server-generated slug merged back for the park profile.
func (s *Service) applyPayload(w *wizard.Wizard, step wizard.StepKey, payload map[string]any, updated *sessionstore.Record) {
	data := w.Data()
	switch step {
	case wizard.StepParkProfile:
		if p, ok := session.GuardCampgroundProfile(payload["campground"]); ok {
			if p.Slug == "" {
				p.Slug = updated.CampgroundSlug
			}
			data.Profile = session.Saved(p)
		}
	case wizard.StepOperationalHours:
		if h, ok := session.GuardOperationalHours(payload["hours"]); ok {
			data.Hours = session.Saved(h)
		}
	case wizard.StepStripeConnect:
		if a, ok := session.GuardStripeAccount(payload["stripeConnect"]); ok {
			data.Stripe = session.Saved(a)
		}
	case wizard.StepSiteClasses:
		if sc, ok := session.GuardSiteClasses(payload["siteClasses"]); ok {
			data.SiteClasses = session.Saved(sc)
		}
	case wizard.StepSitesBuilder:
		if sites, ok := session.GuardSites(payload["sites"]); ok {
			data.Sites = session.Saved(sites)
		}
	case wizard.StepRatePeriods:
		if rp, ok := session.GuardRatePeriods(payload["ratePeriods"]); ok {
			data.RatePeriods = session.Saved(rp)
		}
	case wizard.StepRatesSetup:
		if rates, ok := session.GuardClassRates(payload["rates"]); ok {
			data.Rates = session.Saved(rates)
		}
	case wizard.StepFeesAndAddons:
		if fees, ok := session.GuardFees(payload["fees"]); ok {
			data.Fees = session.Saved(fees)
		}
	case wizard.StepTaxRules:
		if tr, ok := session.GuardTaxRules(payload["taxRules"]); ok {
			data.TaxRules = session.Saved(tr)
		}
	case wizard.StepDepositPolicy:
		if dp, ok := session.GuardDepositPolicy(payload["depositPolicy"]); ok {
			data.Deposit = session.Saved(dp)
		}
	case wizard.StepBookingRules:
		if br, ok := session.GuardBookingRules(payload["bookingRules"]); ok {
			data.BookingRules = session.Saved(br)
		}
	case wizard.StepCancellationRules:
		if cr, ok := session.GuardCancellationRules(payload["cancellationRules"]); ok {
			data.Cancellation = session.Saved(cr)
		}
	case wizard.StepWaiversDocuments:
		if wd, ok := session.GuardWaiverDocuments(payload["documents"]); ok {
			data.Waivers = session.Saved(wd)
		}
	case wizard.StepParkRules:
		if pr, ok := session.GuardParkRules(payload["parkRules"]); ok {
			data.ParkRules = session.Saved(pr)
		}
	case wizard.StepTeamSetup:
		if tm, ok := session.GuardTeamMembers(payload["teamMembers"]); ok {
			data.Team = session.Saved(tm)
		}
	case wizard.StepCommunicationSetup:
		if cs, ok := session.GuardCommunicationSettings(payload["communications"]); ok {
			data.Communications = session.Saved(cs)
		}
	case wizard.StepIntegrations:
		if is, ok := session.GuardIntegrationSettings(payload["integrations"]); ok {
			data.Integrations = session.Saved(is)
		}
	case wizard.StepDataImport:
		if ds, ok := session.GuardDataImportSummary(payload["importSummary"]); ok {
			data.ImportSummary = session.Saved(ds)
		}
	case wizard.StepSmartQuiz:
		if q, ok := session.GuardSmartQuiz(payload["quiz"]); ok {
			data.Quiz = session.Saved(q)
		}
	case wizard.StepFeatureTriage:
		if fs, ok := session.GuardFeatureSelections(payload["selections"]); ok {
			data.Triage = session.Saved(fs)
		}
	case wizard.StepGuidedSetup:
		if gp, ok := session.GuardGuidedSetupProgress(payload["progress"]); ok {
			data.GuidedProgress = session.Saved(gp)
		}
	case wizard.StepMenuSetup:
		if pins, ok := session.GuardStringList(payload["menuPins"]); ok {
			data.MenuPins = session.Saved(pins)
		}
	case wizard.StepFeatureDiscovery:
		if df, ok := session.GuardStringList(payload["discoveredFeatures"]); ok {
			data.DiscoveredFeatures = session.Saved(df)
		}
	}
}

// stripPlaceholderIDs removes synthesized temp-<n> identifiers before a
// payload travels to the store: they are rendering keys, not record ids.
func stripPlaceholderIDs(step wizard.StepKey, payload map[string]any) map[string]any {
	if step != wizard.StepSiteClasses {
		return payload
	}
	classes, ok := payload["siteClasses"].([]any)
	if !ok {
		return payload
	}
	for _, item := range classes {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if id, ok := obj["id"].(string); ok && strings.HasPrefix(id, "temp-") {
			delete(obj, "id")
		}
	}
	return payload
}

// slugFromProfile derives the campground's public slug from its name on the
// first profile save. The client cannot know it ahead of time.
func slugFromProfile(payload map[string]any) string {
	obj, ok := payload["campground"].(map[string]any)
	if !ok {
		return ""
	}
	name, ok := obj["name"].(string)
	if !ok {
		return ""
	}
	return slugify(name)
}

func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

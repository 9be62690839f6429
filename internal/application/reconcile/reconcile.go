package reconcile

import (
	"fmt"

	"camp-onboarding/internal/domain/session"
	"camp-onboarding/internal/domain/wizard"
)

// RawSession is the untrusted persisted payload handed to Reconcile. Data is
// the decoded JSON envelope exactly as the store returned it.
type RawSession struct {
	CurrentStep    string
	NextStepHint   string
	CompletedSteps []string
	InventoryPath  string
	Data           map[string]any
}

// Reconcile turns an arbitrary persisted session payload into a typed wizard
// state. It is total: no input shape raises; in the worst case every block is
// absent and the wizard sits on the first registry step.
func Reconcile(raw RawSession) *wizard.Wizard {
	current := resolveCurrentStep(raw)

	var completed []wizard.StepKey
	for _, key := range raw.CompletedSteps {
		mapped := CanonicalStepKey(wizard.StepKey(key))
		if wizard.IsKnown(mapped) {
			completed = append(completed, mapped)
		}
	}

	path := resolveInventoryPath(raw)
	data := resolveData(raw.Data)

	return wizard.Restore(current, completed, path, data)
}

// resolveCurrentStep applies the source precedence: explicit current step,
// then the remote next-step hint, then the first registry step. Each source
// passes through the legacy mapper and a membership check before being
// trusted.
func resolveCurrentStep(raw RawSession) wizard.StepKey {
	for _, candidate := range []string{raw.CurrentStep, raw.NextStepHint} {
		if candidate == "" {
			continue
		}
		mapped := CanonicalStepKey(wizard.StepKey(candidate))
		if wizard.IsKnown(mapped) {
			return mapped
		}
	}
	return wizard.FirstStep()
}

func resolveInventoryPath(raw RawSession) wizard.InventoryPath {
	candidate := raw.InventoryPath
	if candidate == "" && raw.Data != nil {
		if v, ok := probe(raw.Data, inventoryPathLocations); ok {
			if s, ok := v.(string); ok {
				candidate = s
			}
		}
	}
	switch wizard.InventoryPath(candidate) {
	case wizard.PathImport, wizard.PathManual:
		return wizard.InventoryPath(candidate)
	}
	return wizard.PathUnset
}

// resolveData probes every block's candidate locations and guards the first
// populated one. A guard failure leaves the block absent rather than carrying
// a partially-valid value forward.
func resolveData(data map[string]any) session.Data {
	var out session.Data
	if data == nil {
		return out
	}

	out.Profile = resolveBlock(data, profileLocations, session.GuardCampgroundProfile)
	if _, ok := out.Profile.Get(); !ok {
		if p, ok := flatProfile(data); ok {
			out.Profile = session.Saved(p)
		}
	}

	out.Hours = resolveBlock(data, hoursLocations, session.GuardOperationalHours)
	out.Stripe = resolveBlock(data, stripeLocations, session.GuardStripeAccount)

	out.SiteClasses = resolveBlock(data, siteClassLocations, session.GuardSiteClasses)
	if classes, ok := out.SiteClasses.Get(); ok {
		out.SiteClasses = session.Saved(withPlaceholderIDs(classes))
	}

	out.Sites = resolveBlock(data, siteLocations, session.GuardSites)
	out.RatePeriods = resolveBlock(data, ratePeriodLocations, session.GuardRatePeriods)
	out.Rates = resolveBlock(data, rateLocations, session.GuardClassRates)
	out.Fees = resolveBlock(data, feeLocations, session.GuardFees)
	out.TaxRules = resolveBlock(data, taxRuleLocations, session.GuardTaxRules)
	out.Deposit = resolveBlock(data, depositLocations, session.GuardDepositPolicy)
	out.BookingRules = resolveBlock(data, bookingRuleLocations, session.GuardBookingRules)
	out.Cancellation = resolveBlock(data, cancellationLocations, session.GuardCancellationRules)
	out.Waivers = resolveBlock(data, waiverLocations, session.GuardWaiverDocuments)
	out.ParkRules = resolveBlock(data, parkRuleLocations, session.GuardParkRules)
	out.Team = resolveBlock(data, teamLocations, session.GuardTeamMembers)
	out.Communications = resolveBlock(data, communicationLocations, session.GuardCommunicationSettings)
	out.Integrations = resolveBlock(data, integrationLocations, session.GuardIntegrationSettings)
	out.ImportSummary = resolveBlock(data, importSummaryLocations, session.GuardDataImportSummary)

	out.Quiz = resolveBlock(data, quizLocations, session.GuardSmartQuiz)
	if _, ok := out.Quiz.Get(); !ok {
		if q, ok := legacyQuiz(data); ok {
			out.Quiz = session.Saved(q)
		}
	}

	out.Triage = resolveBlock(data, triageLocations, session.GuardFeatureSelections)
	out.GuidedProgress = resolveBlock(data, guidedProgressLocations, session.GuardGuidedSetupProgress)
	out.MenuPins = resolveBlock(data, menuPinLocations, session.GuardStringList)
	out.DiscoveredFeatures = resolveBlock(data, discoveredFeatureLocations, session.GuardStringList)

	return out
}

func resolveBlock[T any](data map[string]any, locations []location, guard func(any) (T, bool)) session.Block[T] {
	v, ok := probe(data, locations)
	if !ok {
		return session.Block[T]{}
	}
	t, ok := guard(v)
	if !ok {
		return session.Block[T]{}
	}
	return session.Saved(t)
}

// flatProfile assembles a campground profile from the oldest schema, which
// stored scalar fields directly at the top of the envelope.
func flatProfile(data map[string]any) (session.CampgroundProfile, bool) {
	name, nameOK := data["campgroundName"].(string)
	phone, phoneOK := data["phone"].(string)
	if !nameOK || !phoneOK {
		return session.CampgroundProfile{}, false
	}
	p := session.CampgroundProfile{Name: name, Phone: phone}
	if email, ok := data["email"].(string); ok {
		p.Email = email
	}
	if website, ok := data["website"].(string); ok {
		p.Website = website
	}
	return p, true
}

// legacyQuiz rebuilds a recommendations object from the flat
// recommendedNow/recommendedLater arrays of the legacy schema, with an empty
// skipped bucket.
func legacyQuiz(data map[string]any) (session.SmartQuiz, bool) {
	now, nowOK := session.GuardStringList(data["recommendedNow"])
	later, laterOK := session.GuardStringList(data["recommendedLater"])
	if !nowOK && !laterOK {
		return session.SmartQuiz{}, false
	}
	rec := session.FeatureRecommendations{Skipped: []string{}}
	if nowOK {
		rec.Now = now
	}
	if laterOK {
		rec.Later = later
	}
	return session.SmartQuiz{Recommendations: &rec}, true
}

// withPlaceholderIDs gives id-less legacy records a positional placeholder so
// list rendering has stable keys. Placeholders never travel back to the store
// as real record ids.
func withPlaceholderIDs(classes []session.SiteClass) []session.SiteClass {
	for i := range classes {
		if classes[i].ID == "" {
			classes[i].ID = fmt.Sprintf("temp-%d", i)
		}
	}
	return classes
}

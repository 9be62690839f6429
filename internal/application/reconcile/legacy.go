package reconcile

import "camp-onboarding/internal/domain/wizard"

// stepAliases maps step identifiers from earlier schema versions onto their
// current names. Keys absent from this table pass through unchanged and are
// rejected later by a registry membership check, never silently accepted.
var stepAliases = map[wizard.StepKey]wizard.StepKey{
	"account_profile": wizard.StepParkProfile,
	"payment_gateway": wizard.StepStripeConnect,
	"inventory_sites": wizard.StepInventoryChoice,
	"rates_and_fees":  wizard.StepRatesSetup,
	"taxes_and_fees":  wizard.StepTaxRules,
	"policies":        wizard.StepDepositPolicy,
}

// CanonicalStepKey translates a possibly-legacy step key to its current name.
// Applying it twice is the same as applying it once: every alias target is a
// canonical key that is not itself aliased.
func CanonicalStepKey(key wizard.StepKey) wizard.StepKey {
	if canonical, ok := stepAliases[key]; ok {
		return canonical
	}
	return key
}

// location is a key path into the persisted data envelope.
type location []string

// Candidate storage locations per data block, probed in order: the current
// nested-by-step location first, then legacy flat top-level keys. Older
// sessions are never rewritten in place, so the flat fallbacks stay
// indefinitely.
var (
	profileLocations = []location{
		{"park_profile", "campground"},
		{"campground"},
	}
	hoursLocations = []location{
		{"operational_hours", "hours"},
		{"operationalHours"},
	}
	stripeLocations = []location{
		{"stripe_connect", "stripeConnect"},
		{"stripeConnect"},
		{"paymentGateway"},
	}
	siteClassLocations = []location{
		{"site_classes", "siteClasses"},
		{"siteClasses"},
	}
	siteLocations = []location{
		{"sites_builder", "sites"},
		{"sites"},
	}
	ratePeriodLocations = []location{
		{"rate_periods", "ratePeriods"},
		{"ratePeriods"},
	}
	rateLocations = []location{
		{"rates_setup", "rates"},
		{"rates"},
	}
	feeLocations = []location{
		{"fees_and_addons", "fees"},
		{"fees"},
	}
	taxRuleLocations = []location{
		{"tax_rules", "taxRules"},
		{"taxRules"},
	}
	depositLocations = []location{
		{"deposit_policy", "depositPolicy"},
		{"depositPolicy"},
	}
	bookingRuleLocations = []location{
		{"booking_rules", "bookingRules"},
		{"bookingRules"},
	}
	cancellationLocations = []location{
		{"cancellation_rules", "cancellationRules"},
		{"cancellationRules"},
	}
	waiverLocations = []location{
		{"waivers_documents", "documents"},
		{"documents"},
	}
	parkRuleLocations = []location{
		{"park_rules", "parkRules"},
		{"parkRules"},
	}
	teamLocations = []location{
		{"team_setup", "teamMembers"},
		{"teamMembers"},
	}
	communicationLocations = []location{
		{"communication_setup", "communications"},
		{"communications"},
	}
	integrationLocations = []location{
		{"integrations", "integrations"},
		{"integrations"},
	}
	importSummaryLocations = []location{
		{"data_import", "importSummary"},
		{"importSummary"},
	}
	quizLocations = []location{
		{"smart_quiz", "quiz"},
		{"quiz"},
	}
	triageLocations = []location{
		{"feature_triage", "selections"},
		{"featureSelections"},
	}
	guidedProgressLocations = []location{
		{"guided_setup", "progress"},
		{"guidedSetupProgress"},
	}
	menuPinLocations = []location{
		{"menu_setup", "menuPins"},
		{"menuPins"},
	}
	discoveredFeatureLocations = []location{
		{"feature_discovery", "discoveredFeatures"},
		{"discoveredFeatures"},
	}
	inventoryPathLocations = []location{
		{"inventory_choice", "path"},
		{"inventoryPath"},
	}
)

// probe walks the candidate locations in order and returns the first
// populated value.
func probe(data map[string]any, locations []location) (any, bool) {
	for _, loc := range locations {
		cursor := any(data)
		found := true
		for _, key := range loc {
			obj, ok := cursor.(map[string]any)
			if !ok {
				found = false
				break
			}
			cursor, ok = obj[key]
			if !ok || cursor == nil {
				found = false
				break
			}
		}
		if found {
			return cursor, true
		}
	}
	return nil, false
}

package wizard

// StepKey identifies one page of the onboarding wizard
type StepKey string

const (
	StepParkProfile        StepKey = "park_profile"
	StepOperationalHours   StepKey = "operational_hours"
	StepStripeConnect      StepKey = "stripe_connect"
	StepInventoryChoice    StepKey = "inventory_choice"
	StepDataImport         StepKey = "data_import"
	StepSiteClasses        StepKey = "site_classes"
	StepSitesBuilder       StepKey = "sites_builder"
	StepRatePeriods        StepKey = "rate_periods"
	StepRatesSetup         StepKey = "rates_setup"
	StepFeesAndAddons      StepKey = "fees_and_addons"
	StepTaxRules           StepKey = "tax_rules"
	StepDepositPolicy      StepKey = "deposit_policy"
	StepBookingRules       StepKey = "booking_rules"
	StepCancellationRules  StepKey = "cancellation_rules"
	StepWaiversDocuments   StepKey = "waivers_documents"
	StepParkRules          StepKey = "park_rules"
	StepTeamSetup          StepKey = "team_setup"
	StepCommunicationSetup StepKey = "communication_setup"
	StepIntegrations       StepKey = "integrations"
	StepMenuSetup          StepKey = "menu_setup"
	StepFeatureDiscovery   StepKey = "feature_discovery"
	StepSmartQuiz          StepKey = "smart_quiz"
	StepFeatureTriage      StepKey = "feature_triage"
	StepGuidedSetup        StepKey = "guided_setup"
	StepReviewLaunch       StepKey = "review_launch"
)

// StepDefinition is the static metadata for one wizard step. Loaded at
// process start, never mutated.
type StepDefinition struct {
	Key         StepKey `json:"key"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Ordinal     int     `json:"ordinal"`
}

// registry is the ordered catalog of every wizard step. Ordinal positions
// drive progress display and jump-navigation direction; branch steps that a
// given tenant never visits still hold their slot.
var registry = []StepDefinition{
	{StepParkProfile, "Park Profile", "Name, contact details and location of the campground", 0},
	{StepOperationalHours, "Operational Hours", "Check-in, check-out and office hours", 1},
	{StepStripeConnect, "Payment Account", "Connect a Stripe account to accept payments", 2},
	{StepInventoryChoice, "Inventory Setup", "Import existing inventory or build it manually", 3},
	{StepDataImport, "Data Import", "Upload inventory exported from a previous system", 4},
	{StepSiteClasses, "Site Classes", "Categories of sites offered to guests", 5},
	{StepSitesBuilder, "Sites", "Individual bookable sites", 6},
	{StepRatePeriods, "Rate Periods", "Seasons and date ranges that rates apply to", 7},
	{StepRatesSetup, "Rates", "Nightly, weekly and monthly pricing per class and period", 8},
	{StepFeesAndAddons, "Fees & Add-ons", "Extra charges and optional add-ons", 9},
	{StepTaxRules, "Taxes", "Tax rules applied to bookings", 10},
	{StepDepositPolicy, "Deposit Policy", "How much is collected at booking time", 11},
	{StepBookingRules, "Booking Rules", "Stay length and lead-time constraints", 12},
	{StepCancellationRules, "Cancellation Policy", "Refund schedule for cancellations", 13},
	{StepWaiversDocuments, "Waivers & Documents", "Documents guests must sign or receive", 14},
	{StepParkRules, "Park Rules", "Quiet hours, pets and other property rules", 15},
	{StepTeamSetup, "Team", "Staff members and their roles", 16},
	{StepCommunicationSetup, "Communications", "Guest email and SMS settings", 17},
	{StepIntegrations, "Integrations", "Analytics and accounting connections", 18},
	{StepMenuSetup, "Menu", "Pinned navigation for daily operations", 19},
	{StepFeatureDiscovery, "Discover Features", "A tour of what the platform offers", 20},
	{StepSmartQuiz, "Smart Quiz", "A few questions to tailor recommendations", 21},
	{StepFeatureTriage, "Feature Triage", "Pick which recommended features to set up now", 22},
	{StepGuidedSetup, "Guided Setup", "Walk through the features chosen for setup now", 23},
	{StepReviewLaunch, "Review & Launch", "Final review before going live", 24},
}

var byKey = func() map[StepKey]StepDefinition {
	m := make(map[StepKey]StepDefinition, len(registry))
	for _, def := range registry {
		m[def.Key] = def
	}
	return m
}()

// Steps returns the full ordered registry.
func Steps() []StepDefinition {
	out := make([]StepDefinition, len(registry))
	copy(out, registry)
	return out
}

// Lookup returns the definition for a step key.
func Lookup(key StepKey) (StepDefinition, bool) {
	def, ok := byKey[key]
	return def, ok
}

// IsKnown reports whether key is a member of the step registry.
func IsKnown(key StepKey) bool {
	_, ok := byKey[key]
	return ok
}

// Ordinal returns the position of key in the registry, or -1 for unknown keys.
func Ordinal(key StepKey) int {
	def, ok := byKey[key]
	if !ok {
		return -1
	}
	return def.Ordinal
}

// FirstStep is the entry step of the wizard, used as the fallback whenever a
// persisted current step cannot be trusted.
func FirstStep() StepKey {
	return registry[0].Key
}

// FinalStep is the terminal review step.
func FinalStep() StepKey {
	return registry[len(registry)-1].Key
}

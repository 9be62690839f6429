package session

// Per-step domain payloads. Every field is independent: a block either passed
// its guard in full or is absent, never partially populated.

type CampgroundProfile struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email,omitempty"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	PostalCode  string `json:"postalCode,omitempty"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`
	// Slug is assigned server-side on first save and merged back afterwards.
	Slug string `json:"slug,omitempty"`
}

type OperationalHours struct {
	CheckInTime  string `json:"checkInTime"`
	CheckOutTime string `json:"checkOutTime"`
	OfficeOpen   string `json:"officeOpen,omitempty"`
	OfficeClose  string `json:"officeClose,omitempty"`
	Timezone     string `json:"timezone,omitempty"`
}

type StripeAccount struct {
	Connected bool   `json:"connected"`
	AccountID string `json:"accountId,omitempty"`
}

// SiteType is the closed set of site categories.
type SiteType string

const (
	SiteTypeRV    SiteType = "rv"
	SiteTypeTent  SiteType = "tent"
	SiteTypeCabin SiteType = "cabin"
	SiteTypeGroup SiteType = "group"
)

// RentalType is the closed set of rental models.
type RentalType string

const (
	RentalTransient RentalType = "transient"
	RentalSeasonal  RentalType = "seasonal"
)

type SiteClass struct {
	// ID may be a synthesized "temp-<n>" placeholder for legacy records that
	// predate stable identifiers. Placeholders are stripped before any save.
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	SiteType     SiteType   `json:"siteType"`
	RentalType   RentalType `json:"rentalType"`
	DefaultRate  float64    `json:"defaultRate"`
	MaxOccupancy int        `json:"maxOccupancy,omitempty"`
	Hookups      []string   `json:"hookups,omitempty"`
}

type Site struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	ClassID string `json:"classId"`
	Active  bool   `json:"active"`
}

type RatePeriod struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type ClassRate struct {
	SiteClassID string   `json:"siteClassId"`
	PeriodID    string   `json:"periodId"`
	Nightly     float64  `json:"nightly"`
	Weekly      *float64 `json:"weekly"`
	Monthly     *float64 `json:"monthly"`
}

// FeeType is the closed set of fee calculation modes.
type FeeType string

const (
	FeeFlat     FeeType = "flat"
	FeePercent  FeeType = "percent"
	FeePerNight FeeType = "per_night"
)

type Fee struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Type     FeeType `json:"type"`
	Optional bool    `json:"optional"`
}

type TaxRule struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Rate      float64 `json:"rate"`
	AppliesTo string  `json:"appliesTo,omitempty"`
}

// DepositType is the closed set of deposit policies.
type DepositType string

const (
	DepositFull       DepositType = "full"
	DepositFirstNight DepositType = "first_night"
	DepositPercentage DepositType = "percentage"
	DepositNone       DepositType = "none"
)

type DepositPolicy struct {
	Type DepositType `json:"type"`
	// Percentage is only meaningful for the percentage type; null elsewhere.
	Percentage *float64 `json:"percentage"`
}

type BookingRules struct {
	MinNights    int  `json:"minNights"`
	MaxNights    int  `json:"maxNights"`
	LeadTimeDays int  `json:"leadTimeDays"`
	AllowSameDay bool `json:"allowSameDay"`
}

type CancellationRule struct {
	ID            string  `json:"id"`
	DaysBefore    int     `json:"daysBefore"`
	RefundPercent float64 `json:"refundPercent"`
}

type WaiverDocument struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url,omitempty"`
	Required bool   `json:"required"`
}

type ParkRules struct {
	QuietHoursStart string   `json:"quietHoursStart,omitempty"`
	QuietHoursEnd   string   `json:"quietHoursEnd,omitempty"`
	PetsAllowed     bool     `json:"petsAllowed"`
	MaxVehicles     int      `json:"maxVehicles,omitempty"`
	Additional      []string `json:"additional,omitempty"`
}

// TeamRole is the closed set of staff roles.
type TeamRole string

const (
	RoleOwner   TeamRole = "owner"
	RoleManager TeamRole = "manager"
	RoleStaff   TeamRole = "staff"
)

type TeamMember struct {
	ID    string   `json:"id,omitempty"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  TeamRole `json:"role"`
}

type CommunicationSettings struct {
	ReplyToEmail        string `json:"replyToEmail"`
	SMSEnabled          bool   `json:"smsEnabled"`
	BookingConfirmation bool   `json:"bookingConfirmation"`
	PreArrivalReminder  bool   `json:"preArrivalReminder"`
}

type IntegrationSettings struct {
	GoogleAnalyticsID string `json:"googleAnalyticsId,omitempty"`
	MetaPixelID       string `json:"metaPixelId,omitempty"`
	QuickbooksEnabled bool   `json:"quickbooksEnabled"`
}

type DataImportSummary struct {
	FileName     string `json:"fileName"`
	RowsTotal    int    `json:"rowsTotal"`
	RowsImported int    `json:"rowsImported"`
	RowsSkipped  int    `json:"rowsSkipped"`
}

type FeatureRecommendations struct {
	Now     []string `json:"now"`
	Later   []string `json:"later"`
	Skipped []string `json:"skipped"`
}

type SmartQuiz struct {
	Answers         map[string]string       `json:"answers"`
	Recommendations *FeatureRecommendations `json:"recommendations"`
}

// TriageDecision is the closed set of feature-triage outcomes.
type TriageDecision string

const (
	TriageNow   TriageDecision = "now"
	TriageLater TriageDecision = "later"
	TriageSkip  TriageDecision = "skip"
)

type FeatureSelection struct {
	FeatureID string         `json:"featureId"`
	Decision  TriageDecision `json:"decision"`
}

type GuidedSetupProgress struct {
	Completed []string `json:"completed"`
	Deferred  []string `json:"deferred"`
	Remaining []string `json:"remaining"`
}

// Data is the full bag of per-step blocks carried by a wizard state.
type Data struct {
	Profile            Block[CampgroundProfile]
	Hours              Block[OperationalHours]
	Stripe             Block[StripeAccount]
	SiteClasses        Block[[]SiteClass]
	Sites              Block[[]Site]
	RatePeriods        Block[[]RatePeriod]
	Rates              Block[[]ClassRate]
	Fees               Block[[]Fee]
	TaxRules           Block[[]TaxRule]
	Deposit            Block[DepositPolicy]
	BookingRules       Block[BookingRules]
	Cancellation       Block[[]CancellationRule]
	Waivers            Block[[]WaiverDocument]
	ParkRules          Block[ParkRules]
	Team               Block[[]TeamMember]
	Communications     Block[CommunicationSettings]
	Integrations       Block[IntegrationSettings]
	ImportSummary      Block[DataImportSummary]
	Quiz               Block[SmartQuiz]
	Triage             Block[[]FeatureSelection]
	GuidedProgress     Block[GuidedSetupProgress]
	MenuPins           Block[[]string]
	DiscoveredFeatures Block[[]string]
}

// AnyFeatureChosenNow reports whether the triage block selected at least one
// feature for immediate setup. Drives the guided-setup branch.
func (d *Data) AnyFeatureChosenNow() bool {
	selections, ok := d.Triage.Get()
	if !ok {
		return false
	}
	for _, s := range selections {
		if s.Decision == TriageNow {
			return true
		}
	}
	return false
}

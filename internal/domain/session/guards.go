package session

// Validation guards: the only gate between untrusted persisted JSON and the
// typed blocks above. Each guard accepts an arbitrary decoded value and
// returns the typed block plus true only when the value matches the required
// shape in full. Guards never panic; array guards check every element.

func asObject(v any) (map[string]any, bool) {
	obj, ok := v.(map[string]any)
	return obj, ok
}

func asArray(v any) ([]any, bool) {
	arr, ok := v.([]any)
	return arr, ok
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func asInt(v any) (int, bool) {
	n, ok := asNumber(v)
	if !ok || n != float64(int(n)) {
		return 0, false
	}
	return int(n), true
}

func asBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// reqString requires key to be present and a string.
func reqString(obj map[string]any, key string) (string, bool) {
	v, present := obj[key]
	if !present {
		return "", false
	}
	return asString(v)
}

// optString allows key to be absent; a present value must be a string.
func optString(obj map[string]any, key string) (string, bool) {
	v, present := obj[key]
	if !present {
		return "", true
	}
	return asString(v)
}

func reqNumber(obj map[string]any, key string) (float64, bool) {
	v, present := obj[key]
	if !present {
		return 0, false
	}
	return asNumber(v)
}

func optInt(obj map[string]any, key string) (int, bool) {
	v, present := obj[key]
	if !present {
		return 0, true
	}
	return asInt(v)
}

func reqInt(obj map[string]any, key string) (int, bool) {
	v, present := obj[key]
	if !present {
		return 0, false
	}
	return asInt(v)
}

func optBool(obj map[string]any, key string) (bool, bool) {
	v, present := obj[key]
	if !present {
		return false, true
	}
	return asBool(v)
}

// optNumberPtr honors explicit null as tri-state absence: absent and null both
// yield nil, anything else must be a number.
func optNumberPtr(obj map[string]any, key string) (*float64, bool) {
	v, present := obj[key]
	if !present || v == nil {
		return nil, true
	}
	n, ok := asNumber(v)
	if !ok {
		return nil, false
	}
	return &n, true
}

func asStringSlice(v any) ([]string, bool) {
	arr, ok := asArray(v)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		s, ok := asString(item)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

func optStringSlice(obj map[string]any, key string) ([]string, bool) {
	v, present := obj[key]
	if !present || v == nil {
		return nil, true
	}
	return asStringSlice(v)
}

// guardSlice validates every element of an array with the element guard.
func guardSlice[T any](v any, elem func(any) (T, bool)) ([]T, bool) {
	arr, ok := asArray(v)
	if !ok {
		return nil, false
	}
	out := make([]T, 0, len(arr))
	for _, item := range arr {
		t, ok := elem(item)
		if !ok {
			return nil, false
		}
		out = append(out, t)
	}
	return out, true
}

func GuardCampgroundProfile(v any) (CampgroundProfile, bool) {
	obj, ok := asObject(v)
	if !ok {
		return CampgroundProfile{}, false
	}
	var p CampgroundProfile
	if p.Name, ok = reqString(obj, "name"); !ok {
		return CampgroundProfile{}, false
	}
	if p.Phone, ok = reqString(obj, "phone"); !ok {
		return CampgroundProfile{}, false
	}
	for _, f := range []struct {
		key string
		dst *string
	}{
		{"email", &p.Email},
		{"address", &p.Address},
		{"city", &p.City},
		{"state", &p.State},
		{"postalCode", &p.PostalCode},
		{"website", &p.Website},
		{"description", &p.Description},
		{"slug", &p.Slug},
	} {
		if *f.dst, ok = optString(obj, f.key); !ok {
			return CampgroundProfile{}, false
		}
	}
	return p, true
}

func GuardOperationalHours(v any) (OperationalHours, bool) {
	obj, ok := asObject(v)
	if !ok {
		return OperationalHours{}, false
	}
	var h OperationalHours
	if h.CheckInTime, ok = reqString(obj, "checkInTime"); !ok {
		return OperationalHours{}, false
	}
	if h.CheckOutTime, ok = reqString(obj, "checkOutTime"); !ok {
		return OperationalHours{}, false
	}
	if h.OfficeOpen, ok = optString(obj, "officeOpen"); !ok {
		return OperationalHours{}, false
	}
	if h.OfficeClose, ok = optString(obj, "officeClose"); !ok {
		return OperationalHours{}, false
	}
	if h.Timezone, ok = optString(obj, "timezone"); !ok {
		return OperationalHours{}, false
	}
	return h, true
}

func GuardStripeAccount(v any) (StripeAccount, bool) {
	obj, ok := asObject(v)
	if !ok {
		return StripeAccount{}, false
	}
	var a StripeAccount
	connected, present := obj["connected"]
	if !present {
		return StripeAccount{}, false
	}
	if a.Connected, ok = asBool(connected); !ok {
		return StripeAccount{}, false
	}
	if a.AccountID, ok = optString(obj, "accountId"); !ok {
		return StripeAccount{}, false
	}
	return a, true
}

func GuardSiteClass(v any) (SiteClass, bool) {
	obj, ok := asObject(v)
	if !ok {
		return SiteClass{}, false
	}
	var sc SiteClass
	// Legacy records predate ids; the reconciler synthesizes placeholders.
	if sc.ID, ok = optString(obj, "id"); !ok {
		return SiteClass{}, false
	}
	if sc.Name, ok = reqString(obj, "name"); !ok {
		return SiteClass{}, false
	}
	siteType, ok := reqString(obj, "siteType")
	if !ok {
		return SiteClass{}, false
	}
	switch SiteType(siteType) {
	case SiteTypeRV, SiteTypeTent, SiteTypeCabin, SiteTypeGroup:
		sc.SiteType = SiteType(siteType)
	default:
		return SiteClass{}, false
	}
	rentalType, ok := reqString(obj, "rentalType")
	if !ok {
		return SiteClass{}, false
	}
	switch RentalType(rentalType) {
	case RentalTransient, RentalSeasonal:
		sc.RentalType = RentalType(rentalType)
	default:
		return SiteClass{}, false
	}
	if sc.DefaultRate, ok = reqNumber(obj, "defaultRate"); !ok {
		return SiteClass{}, false
	}
	if sc.MaxOccupancy, ok = optInt(obj, "maxOccupancy"); !ok {
		return SiteClass{}, false
	}
	if sc.Hookups, ok = optStringSlice(obj, "hookups"); !ok {
		return SiteClass{}, false
	}
	return sc, true
}

func GuardSiteClasses(v any) ([]SiteClass, bool) {
	return guardSlice(v, GuardSiteClass)
}

func GuardSite(v any) (Site, bool) {
	obj, ok := asObject(v)
	if !ok {
		return Site{}, false
	}
	var s Site
	if s.ID, ok = optString(obj, "id"); !ok {
		return Site{}, false
	}
	if s.Name, ok = reqString(obj, "name"); !ok {
		return Site{}, false
	}
	if s.ClassID, ok = reqString(obj, "classId"); !ok {
		return Site{}, false
	}
	if s.Active, ok = optBool(obj, "active"); !ok {
		return Site{}, false
	}
	return s, true
}

func GuardSites(v any) ([]Site, bool) {
	return guardSlice(v, GuardSite)
}

func GuardRatePeriod(v any) (RatePeriod, bool) {
	obj, ok := asObject(v)
	if !ok {
		return RatePeriod{}, false
	}
	var rp RatePeriod
	if rp.ID, ok = optString(obj, "id"); !ok {
		return RatePeriod{}, false
	}
	if rp.Name, ok = reqString(obj, "name"); !ok {
		return RatePeriod{}, false
	}
	if rp.StartDate, ok = reqString(obj, "startDate"); !ok {
		return RatePeriod{}, false
	}
	if rp.EndDate, ok = reqString(obj, "endDate"); !ok {
		return RatePeriod{}, false
	}
	return rp, true
}

func GuardRatePeriods(v any) ([]RatePeriod, bool) {
	return guardSlice(v, GuardRatePeriod)
}

func GuardClassRate(v any) (ClassRate, bool) {
	obj, ok := asObject(v)
	if !ok {
		return ClassRate{}, false
	}
	var cr ClassRate
	if cr.SiteClassID, ok = reqString(obj, "siteClassId"); !ok {
		return ClassRate{}, false
	}
	if cr.PeriodID, ok = reqString(obj, "periodId"); !ok {
		return ClassRate{}, false
	}
	if cr.Nightly, ok = reqNumber(obj, "nightly"); !ok {
		return ClassRate{}, false
	}
	if cr.Weekly, ok = optNumberPtr(obj, "weekly"); !ok {
		return ClassRate{}, false
	}
	if cr.Monthly, ok = optNumberPtr(obj, "monthly"); !ok {
		return ClassRate{}, false
	}
	return cr, true
}

func GuardClassRates(v any) ([]ClassRate, bool) {
	return guardSlice(v, GuardClassRate)
}

func GuardFee(v any) (Fee, bool) {
	obj, ok := asObject(v)
	if !ok {
		return Fee{}, false
	}
	var f Fee
	if f.ID, ok = optString(obj, "id"); !ok {
		return Fee{}, false
	}
	if f.Name, ok = reqString(obj, "name"); !ok {
		return Fee{}, false
	}
	if f.Amount, ok = reqNumber(obj, "amount"); !ok {
		return Fee{}, false
	}
	feeType, ok := reqString(obj, "type")
	if !ok {
		return Fee{}, false
	}
	switch FeeType(feeType) {
	case FeeFlat, FeePercent, FeePerNight:
		f.Type = FeeType(feeType)
	default:
		return Fee{}, false
	}
	if f.Optional, ok = optBool(obj, "optional"); !ok {
		return Fee{}, false
	}
	return f, true
}

func GuardFees(v any) ([]Fee, bool) {
	return guardSlice(v, GuardFee)
}

func GuardTaxRule(v any) (TaxRule, bool) {
	obj, ok := asObject(v)
	if !ok {
		return TaxRule{}, false
	}
	var tr TaxRule
	if tr.ID, ok = optString(obj, "id"); !ok {
		return TaxRule{}, false
	}
	if tr.Name, ok = reqString(obj, "name"); !ok {
		return TaxRule{}, false
	}
	if tr.Rate, ok = reqNumber(obj, "rate"); !ok {
		return TaxRule{}, false
	}
	if tr.AppliesTo, ok = optString(obj, "appliesTo"); !ok {
		return TaxRule{}, false
	}
	return tr, true
}

func GuardTaxRules(v any) ([]TaxRule, bool) {
	return guardSlice(v, GuardTaxRule)
}

func GuardDepositPolicy(v any) (DepositPolicy, bool) {
	obj, ok := asObject(v)
	if !ok {
		return DepositPolicy{}, false
	}
	var dp DepositPolicy
	depositType, ok := reqString(obj, "type")
	if !ok {
		return DepositPolicy{}, false
	}
	switch DepositType(depositType) {
	case DepositFull, DepositFirstNight, DepositPercentage, DepositNone:
		dp.Type = DepositType(depositType)
	default:
		return DepositPolicy{}, false
	}
	if dp.Percentage, ok = optNumberPtr(obj, "percentage"); !ok {
		return DepositPolicy{}, false
	}
	return dp, true
}

func GuardBookingRules(v any) (BookingRules, bool) {
	obj, ok := asObject(v)
	if !ok {
		return BookingRules{}, false
	}
	var br BookingRules
	if br.MinNights, ok = reqInt(obj, "minNights"); !ok {
		return BookingRules{}, false
	}
	if br.MaxNights, ok = reqInt(obj, "maxNights"); !ok {
		return BookingRules{}, false
	}
	if br.LeadTimeDays, ok = optInt(obj, "leadTimeDays"); !ok {
		return BookingRules{}, false
	}
	if br.AllowSameDay, ok = optBool(obj, "allowSameDay"); !ok {
		return BookingRules{}, false
	}
	return br, true
}

func GuardCancellationRule(v any) (CancellationRule, bool) {
	obj, ok := asObject(v)
	if !ok {
		return CancellationRule{}, false
	}
	var cr CancellationRule
	if cr.ID, ok = optString(obj, "id"); !ok {
		return CancellationRule{}, false
	}
	if cr.DaysBefore, ok = reqInt(obj, "daysBefore"); !ok {
		return CancellationRule{}, false
	}
	if cr.RefundPercent, ok = reqNumber(obj, "refundPercent"); !ok {
		return CancellationRule{}, false
	}
	return cr, true
}

func GuardCancellationRules(v any) ([]CancellationRule, bool) {
	return guardSlice(v, GuardCancellationRule)
}

func GuardWaiverDocument(v any) (WaiverDocument, bool) {
	obj, ok := asObject(v)
	if !ok {
		return WaiverDocument{}, false
	}
	var wd WaiverDocument
	if wd.ID, ok = optString(obj, "id"); !ok {
		return WaiverDocument{}, false
	}
	if wd.Name, ok = reqString(obj, "name"); !ok {
		return WaiverDocument{}, false
	}
	if wd.URL, ok = optString(obj, "url"); !ok {
		return WaiverDocument{}, false
	}
	if wd.Required, ok = optBool(obj, "required"); !ok {
		return WaiverDocument{}, false
	}
	return wd, true
}

func GuardWaiverDocuments(v any) ([]WaiverDocument, bool) {
	return guardSlice(v, GuardWaiverDocument)
}

func GuardParkRules(v any) (ParkRules, bool) {
	obj, ok := asObject(v)
	if !ok {
		return ParkRules{}, false
	}
	var pr ParkRules
	if pr.QuietHoursStart, ok = optString(obj, "quietHoursStart"); !ok {
		return ParkRules{}, false
	}
	if pr.QuietHoursEnd, ok = optString(obj, "quietHoursEnd"); !ok {
		return ParkRules{}, false
	}
	if pr.PetsAllowed, ok = optBool(obj, "petsAllowed"); !ok {
		return ParkRules{}, false
	}
	if pr.MaxVehicles, ok = optInt(obj, "maxVehicles"); !ok {
		return ParkRules{}, false
	}
	if pr.Additional, ok = optStringSlice(obj, "additional"); !ok {
		return ParkRules{}, false
	}
	return pr, true
}

func GuardTeamMember(v any) (TeamMember, bool) {
	obj, ok := asObject(v)
	if !ok {
		return TeamMember{}, false
	}
	var tm TeamMember
	if tm.ID, ok = optString(obj, "id"); !ok {
		return TeamMember{}, false
	}
	if tm.Name, ok = reqString(obj, "name"); !ok {
		return TeamMember{}, false
	}
	if tm.Email, ok = reqString(obj, "email"); !ok {
		return TeamMember{}, false
	}
	role, ok := reqString(obj, "role")
	if !ok {
		return TeamMember{}, false
	}
	switch TeamRole(role) {
	case RoleOwner, RoleManager, RoleStaff:
		tm.Role = TeamRole(role)
	default:
		return TeamMember{}, false
	}
	return tm, true
}

func GuardTeamMembers(v any) ([]TeamMember, bool) {
	return guardSlice(v, GuardTeamMember)
}

func GuardCommunicationSettings(v any) (CommunicationSettings, bool) {
	obj, ok := asObject(v)
	if !ok {
		return CommunicationSettings{}, false
	}
	var cs CommunicationSettings
	if cs.ReplyToEmail, ok = reqString(obj, "replyToEmail"); !ok {
		return CommunicationSettings{}, false
	}
	if cs.SMSEnabled, ok = optBool(obj, "smsEnabled"); !ok {
		return CommunicationSettings{}, false
	}
	if cs.BookingConfirmation, ok = optBool(obj, "bookingConfirmation"); !ok {
		return CommunicationSettings{}, false
	}
	if cs.PreArrivalReminder, ok = optBool(obj, "preArrivalReminder"); !ok {
		return CommunicationSettings{}, false
	}
	return cs, true
}

func GuardIntegrationSettings(v any) (IntegrationSettings, bool) {
	obj, ok := asObject(v)
	if !ok {
		return IntegrationSettings{}, false
	}
	var is IntegrationSettings
	if is.GoogleAnalyticsID, ok = optString(obj, "googleAnalyticsId"); !ok {
		return IntegrationSettings{}, false
	}
	if is.MetaPixelID, ok = optString(obj, "metaPixelId"); !ok {
		return IntegrationSettings{}, false
	}
	if is.QuickbooksEnabled, ok = optBool(obj, "quickbooksEnabled"); !ok {
		return IntegrationSettings{}, false
	}
	return is, true
}

func GuardDataImportSummary(v any) (DataImportSummary, bool) {
	obj, ok := asObject(v)
	if !ok {
		return DataImportSummary{}, false
	}
	var ds DataImportSummary
	if ds.FileName, ok = reqString(obj, "fileName"); !ok {
		return DataImportSummary{}, false
	}
	if ds.RowsTotal, ok = reqInt(obj, "rowsTotal"); !ok {
		return DataImportSummary{}, false
	}
	if ds.RowsImported, ok = reqInt(obj, "rowsImported"); !ok {
		return DataImportSummary{}, false
	}
	if ds.RowsSkipped, ok = optInt(obj, "rowsSkipped"); !ok {
		return DataImportSummary{}, false
	}
	return ds, true
}

func GuardFeatureRecommendations(v any) (FeatureRecommendations, bool) {
	obj, ok := asObject(v)
	if !ok {
		return FeatureRecommendations{}, false
	}
	var fr FeatureRecommendations
	if fr.Now, ok = optStringSlice(obj, "now"); !ok {
		return FeatureRecommendations{}, false
	}
	if fr.Later, ok = optStringSlice(obj, "later"); !ok {
		return FeatureRecommendations{}, false
	}
	if fr.Skipped, ok = optStringSlice(obj, "skipped"); !ok {
		return FeatureRecommendations{}, false
	}
	return fr, true
}

func GuardSmartQuiz(v any) (SmartQuiz, bool) {
	obj, ok := asObject(v)
	if !ok {
		return SmartQuiz{}, false
	}
	// A quiz block must carry at least one of its two fields; an unrelated
	// object must not validate as an empty quiz.
	_, hasAnswers := obj["answers"]
	_, hasRecs := obj["recommendations"]
	if !hasAnswers && !hasRecs {
		return SmartQuiz{}, false
	}
	var q SmartQuiz
	if answers, present := obj["answers"]; present {
		answersObj, ok := asObject(answers)
		if !ok {
			return SmartQuiz{}, false
		}
		q.Answers = make(map[string]string, len(answersObj))
		for k, av := range answersObj {
			s, ok := asString(av)
			if !ok {
				return SmartQuiz{}, false
			}
			q.Answers[k] = s
		}
	}
	if recs, present := obj["recommendations"]; present && recs != nil {
		fr, ok := GuardFeatureRecommendations(recs)
		if !ok {
			return SmartQuiz{}, false
		}
		q.Recommendations = &fr
	}
	return q, true
}

func GuardFeatureSelection(v any) (FeatureSelection, bool) {
	obj, ok := asObject(v)
	if !ok {
		return FeatureSelection{}, false
	}
	var fs FeatureSelection
	if fs.FeatureID, ok = reqString(obj, "featureId"); !ok {
		return FeatureSelection{}, false
	}
	decision, ok := reqString(obj, "decision")
	if !ok {
		return FeatureSelection{}, false
	}
	switch TriageDecision(decision) {
	case TriageNow, TriageLater, TriageSkip:
		fs.Decision = TriageDecision(decision)
	default:
		return FeatureSelection{}, false
	}
	return fs, true
}

func GuardFeatureSelections(v any) ([]FeatureSelection, bool) {
	return guardSlice(v, GuardFeatureSelection)
}

func GuardGuidedSetupProgress(v any) (GuidedSetupProgress, bool) {
	obj, ok := asObject(v)
	if !ok {
		return GuidedSetupProgress{}, false
	}
	var gp GuidedSetupProgress
	if gp.Completed, ok = optStringSlice(obj, "completed"); !ok {
		return GuidedSetupProgress{}, false
	}
	if gp.Deferred, ok = optStringSlice(obj, "deferred"); !ok {
		return GuidedSetupProgress{}, false
	}
	if gp.Remaining, ok = optStringSlice(obj, "remaining"); !ok {
		return GuidedSetupProgress{}, false
	}
	return gp, true
}

// GuardStringList validates a bare list of strings (menu pins, discovered
// features).
func GuardStringList(v any) ([]string, bool) {
	return asStringSlice(v)
}

package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decode mirrors how persisted payloads arrive: through encoding/json, so
// numbers are float64 and objects are map[string]any.
func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestGuardCampgroundProfile(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ok   bool
	}{
		{name: "valid minimal", raw: `{"name":"Pine Ridge","phone":"555-0100"}`, ok: true},
		{name: "valid with optionals", raw: `{"name":"Pine Ridge","phone":"555-0100","email":"hi@pr.test","city":"Bend"}`, ok: true},
		{name: "missing phone", raw: `{"name":"Pine Ridge"}`, ok: false},
		{name: "name wrong type", raw: `{"name":42,"phone":"555-0100"}`, ok: false},
		{name: "optional wrong type", raw: `{"name":"Pine Ridge","phone":"555-0100","email":7}`, ok: false},
		{name: "not an object", raw: `["Pine Ridge"]`, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := GuardCampgroundProfile(decode(t, tt.raw))
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, "Pine Ridge", p.Name)
				assert.Equal(t, "555-0100", p.Phone)
			}
		})
	}
}

func TestGuardSiteClass_EnumsAreClosed(t *testing.T) {
	valid := `{"name":"RV Full Hookup","siteType":"rv","rentalType":"transient","defaultRate":55}`
	sc, ok := GuardSiteClass(decode(t, valid))
	require.True(t, ok)
	assert.Equal(t, SiteTypeRV, sc.SiteType)
	assert.Equal(t, RentalTransient, sc.RentalType)
	assert.Equal(t, 55.0, sc.DefaultRate)
	assert.Empty(t, sc.ID)

	_, ok = GuardSiteClass(decode(t, `{"name":"Yurt","siteType":"yurt","rentalType":"transient","defaultRate":55}`))
	assert.False(t, ok, "unknown siteType must be rejected")

	_, ok = GuardSiteClass(decode(t, `{"name":"RV","siteType":"rv","rentalType":"weekly","defaultRate":55}`))
	assert.False(t, ok, "unknown rentalType must be rejected")
}

func TestGuardSiteClasses_ChecksEveryElement(t *testing.T) {
	raw := `[
		{"name":"RV Full Hookup","siteType":"rv","rentalType":"transient","defaultRate":55},
		{"name":"Broken","siteType":"rv"}
	]`
	_, ok := GuardSiteClasses(decode(t, raw))
	assert.False(t, ok, "one bad element fails the whole array")

	_, ok = GuardSiteClasses(decode(t, `{"siteClasses":[]}`))
	assert.False(t, ok, "non-array container is rejected")

	classes, ok := GuardSiteClasses(decode(t, `[]`))
	require.True(t, ok)
	assert.Empty(t, classes)
}

func TestGuardDepositPolicy_NullPercentage(t *testing.T) {
	dp, ok := GuardDepositPolicy(decode(t, `{"type":"percentage","percentage":25}`))
	require.True(t, ok)
	require.NotNil(t, dp.Percentage)
	assert.Equal(t, 25.0, *dp.Percentage)

	// Explicit null is honored as absence.
	dp, ok = GuardDepositPolicy(decode(t, `{"type":"full","percentage":null}`))
	require.True(t, ok)
	assert.Nil(t, dp.Percentage)

	_, ok = GuardDepositPolicy(decode(t, `{"type":"half"}`))
	assert.False(t, ok)

	_, ok = GuardDepositPolicy(decode(t, `{"type":"percentage","percentage":"25"}`))
	assert.False(t, ok)
}

func TestGuardBookingRules_IntegralNumbers(t *testing.T) {
	br, ok := GuardBookingRules(decode(t, `{"minNights":1,"maxNights":14,"leadTimeDays":0,"allowSameDay":true}`))
	require.True(t, ok)
	assert.Equal(t, 14, br.MaxNights)

	_, ok = GuardBookingRules(decode(t, `{"minNights":1.5,"maxNights":14}`))
	assert.False(t, ok, "fractional night counts are rejected")
}

func TestGuardTeamMember_RoleEnum(t *testing.T) {
	_, ok := GuardTeamMember(decode(t, `{"name":"Ana","email":"ana@pr.test","role":"janitor"}`))
	assert.False(t, ok)

	tm, ok := GuardTeamMember(decode(t, `{"name":"Ana","email":"ana@pr.test","role":"manager"}`))
	require.True(t, ok)
	assert.Equal(t, RoleManager, tm.Role)
}

func TestGuardSmartQuiz(t *testing.T) {
	q, ok := GuardSmartQuiz(decode(t, `{"answers":{"size":"large"},"recommendations":{"now":["pos"],"later":[],"skipped":[]}}`))
	require.True(t, ok)
	assert.Equal(t, "large", q.Answers["size"])
	require.NotNil(t, q.Recommendations)
	assert.Equal(t, []string{"pos"}, q.Recommendations.Now)

	q, ok = GuardSmartQuiz(decode(t, `{"answers":{}}`))
	require.True(t, ok)
	assert.Nil(t, q.Recommendations)

	_, ok = GuardSmartQuiz(decode(t, `{"answers":{"size":7}}`))
	assert.False(t, ok)

	_, ok = GuardSmartQuiz(decode(t, `{"recommendations":{"now":"pos"}}`))
	assert.False(t, ok)

	// An object with neither field is not a quiz; accepting it would shadow
	// the legacy recommendedNow/recommendedLater reconstruction.
	_, ok = GuardSmartQuiz(decode(t, `{}`))
	assert.False(t, ok)

	_, ok = GuardSmartQuiz(decode(t, `{"unrelated":{"deep":[null]}}`))
	assert.False(t, ok)
}

func TestGuardsNeverPanicOnArbitraryValues(t *testing.T) {
	inputs := []any{
		nil,
		"string",
		3.14,
		true,
		[]any{1, "two", nil},
		map[string]any{"nested": map[string]any{"deep": []any{nil}}},
	}

	for _, input := range inputs {
		_, ok := GuardCampgroundProfile(input)
		assert.False(t, ok)
		_, ok = GuardSiteClasses(input)
		assert.False(t, ok)
		_, ok = GuardDepositPolicy(input)
		assert.False(t, ok)
		_, ok = GuardSmartQuiz(input)
		assert.False(t, ok)
		_, ok = GuardStringList(input)
		assert.False(t, ok)
	}
}

func TestBlockStates(t *testing.T) {
	var b Block[CampgroundProfile]
	_, ok := b.Get()
	assert.False(t, ok)
	assert.Equal(t, BlockAbsent, b.Status())

	d := Draft(CampgroundProfile{Name: "Pine Ridge"})
	v, ok := d.Get()
	assert.True(t, ok)
	assert.False(t, d.IsSaved())
	assert.Equal(t, "Pine Ridge", v.Name)

	s := Saved(CampgroundProfile{Name: "Pine Ridge"})
	assert.True(t, s.IsSaved())
}

func TestAnyFeatureChosenNow(t *testing.T) {
	var d Data
	assert.False(t, d.AnyFeatureChosenNow())

	d.Triage = Saved([]FeatureSelection{{FeatureID: "pos", Decision: TriageLater}})
	assert.False(t, d.AnyFeatureChosenNow())

	d.Triage = Saved([]FeatureSelection{
		{FeatureID: "pos", Decision: TriageLater},
		{FeatureID: "store", Decision: TriageNow},
	})
	assert.True(t, d.AnyFeatureChosenNow())
}

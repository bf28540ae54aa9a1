package factory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/warp/careshift-engine/engine"
)

func TestParseRuleSet_EmptyKeepsDefaults(t *testing.T) {
	rules, err := ParseRuleSet(nil)
	require.NoError(t, err)
	require.Equal(t, engine.DefaultRuleSet(), rules)

	rules, err = ParseRuleSet([]byte(`{}`))
	require.NoError(t, err)
	require.Equal(t, engine.DefaultRuleSet(), rules)
}

func TestParseRuleSet_Overrides(t *testing.T) {
	// GIVEN: an agreement with a wider night window and a higher night rate
	doc := []byte(`{
		"night_window": {"start": "22:00", "end": "07:00"},
		"night_rate": 0.30,
		"requalify_threshold": 3,
		"weekly_soft_hours": 35
	}`)

	rules, err := ParseRuleSet(doc)
	require.NoError(t, err)

	require.Equal(t, engine.MustClock("22:00"), rules.NightWindow.Start)
	require.Equal(t, engine.MustClock("07:00"), rules.NightWindow.End)
	require.True(t, rules.NightRate.Equal(decimal.NewFromFloat(0.30)))
	require.Equal(t, 3, rules.RequalifyThreshold)
	require.True(t, rules.WeeklySoftHours.Equal(decimal.NewFromInt(35)))

	// THEN: untouched fields keep their statutory defaults
	defaults := engine.DefaultRuleSet()
	require.True(t, rules.DailyMaxHours.Equal(defaults.DailyMaxHours))
	require.Equal(t, defaults.MinBreakMinutes, rules.MinBreakMinutes)
}

func TestParseRuleSet_ZeroIsAnOverride(t *testing.T) {
	// An explicit 0 differs from an omitted field.
	rules, err := ParseRuleSet([]byte(`{"sunday_rate": 0}`))
	require.NoError(t, err)
	require.True(t, rules.SundayRate.IsZero())
}

func TestParseRuleSet_Rejections(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"malformed JSON", `{`, "invalid rule set JSON"},
		{"bad clock", `{"night_window": {"start": "25:00", "end": "06:00"}}`, "night window start"},
		{"inverted ceilings", `{"daily_max_hours": 8}`, "daily hard ceiling"},
		{"zero threshold", `{"requalify_threshold": 0}`, "threshold must be positive"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseRuleSet([]byte(c.doc))
			require.ErrorContains(t, err, c.want)
		})
	}
}

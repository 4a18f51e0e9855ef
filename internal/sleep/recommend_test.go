package sleep

import (
	"testing"

	"github.com/sleeplog/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codes(advice []Advice) []string {
	out := make([]string, 0, len(advice))
	for _, a := range advice {
		out = append(out, a.Code)
	}
	return out
}

func TestDurationAdvice(t *testing.T) {
	tests := []struct {
		hours    float64
		code     string
		severity types.Severity
	}{
		{0, CodeDurationLow, types.SeverityWarning},
		{5.99, CodeDurationLow, types.SeverityWarning},
		{6, CodeDurationModerate, types.SeverityInfo},
		{6.99, CodeDurationModerate, types.SeverityInfo},
		{7, CodeDurationGood, types.SeveritySuccess},
		{9, CodeDurationGood, types.SeveritySuccess},
		{9.01, CodeDurationHigh, types.SeverityInfo},
		{23.5, CodeDurationHigh, types.SeverityInfo},
	}
	for _, tc := range tests {
		a := DurationAdvice(tc.hours)
		assert.Equal(t, tc.code, a.Code, "hours=%v", tc.hours)
		assert.Equal(t, tc.severity, a.Severity, "hours=%v", tc.hours)
	}
}

func TestQualityAdvice(t *testing.T) {
	a, ok := QualityAdvice(types.QualityPoor)
	require.True(t, ok)
	assert.Equal(t, CodeQualityPoor, a.Code)

	a, ok = QualityAdvice(types.QualityFair)
	require.True(t, ok)
	assert.Equal(t, CodeQualityFair, a.Code)

	a, ok = QualityAdvice(types.QualityExcellent)
	require.True(t, ok)
	assert.Equal(t, types.SeveritySuccess, a.Severity)

	_, ok = QualityAdvice(types.QualityGood)
	assert.False(t, ok)
	_, ok = QualityAdvice("")
	assert.False(t, ok)
}

func TestBedtimeAdvice(t *testing.T) {
	tests := []struct {
		bedtime string
		code    string
	}{
		{"21:00", CodeBedtimeOptimal},
		{"22:30", CodeBedtimeOptimal},
		{"23:30", CodeBedtimeOptimal},
		{"23:31", CodeBedtimeLate},
		{"23:45", CodeBedtimeLate},
		{"00:00", CodeBedtimeLate},
		{"01:59", CodeBedtimeLate},
		{"02:00", CodeBedtimeVeryLate},
		{"05:59", CodeBedtimeVeryLate},
		{"06:00", CodeBedtimeUnusual},
		{"14:00", CodeBedtimeUnusual},
		{"18:59", CodeBedtimeUnusual},
		{"19:00", CodeBedtimeEarly},
		{"20:59", CodeBedtimeEarly},
	}
	for _, tc := range tests {
		t.Run(tc.bedtime, func(t *testing.T) {
			c, err := ParseClock(tc.bedtime)
			require.NoError(t, err)
			a := BedtimeAdvice(c)
			assert.Equal(t, tc.code, a.Code)
			assert.Equal(t, tc.bedtime, a.Params["time"])
		})
	}
}

func TestPersonalized(t *testing.T) {
	t.Run("short night past midnight", func(t *testing.T) {
		record := types.SleepRecord{SleepTime: "23:45", WakeTime: "00:15", Hours: 0.5}
		got := Personalized(record)
		assert.Equal(t, []string{CodeDurationLow, CodeBedtimeLate}, codes(got))
	})

	t.Run("ideal night with poor quality", func(t *testing.T) {
		record := types.SleepRecord{SleepTime: "22:00", WakeTime: "07:00", Hours: 9.0, Quality: types.QualityPoor}
		got := Personalized(record)
		assert.Equal(t, []string{CodeDurationGood, CodeQualityPoor, CodeBedtimeOptimal}, codes(got))
	})

	t.Run("unparseable bedtime skips bedtime family", func(t *testing.T) {
		record := types.SleepRecord{SleepTime: "late", Hours: 6.5, Quality: types.QualityGood}
		got := Personalized(record)
		assert.Equal(t, []string{CodeDurationModerate}, codes(got))
	})
}

func TestRecommend(t *testing.T) {
	record := types.SleepRecord{SleepTime: "22:00", WakeTime: "07:00", Hours: 9.0, Quality: types.QualityExcellent}

	en := Recommend(record, DefaultCatalog(), "en")
	require.Len(t, en, 3)
	assert.Contains(t, en[0].Message, "9.0 hours")
	assert.Equal(t, types.SeveritySuccess, en[0].Severity)
	assert.Contains(t, en[2].Message, "22:00")

	es := Recommend(record, DefaultCatalog(), "es")
	require.Len(t, es, 3)
	assert.Contains(t, es[0].Message, "9.0 horas")
	assert.Equal(t, en[1].Code, es[1].Code)
}

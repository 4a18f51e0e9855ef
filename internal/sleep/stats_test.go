package sleep

import (
	"testing"

	"github.com/sleeplog/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(hours float64, q types.Quality) types.SleepRecord {
	return types.SleepRecord{Hours: hours, Quality: q, SleepTime: "22:00", WakeTime: "06:00"}
}

func TestAverageHours(t *testing.T) {
	assert.Zero(t, AverageHours(nil))
	assert.InDelta(t, 7.5, AverageHours([]types.SleepRecord{rec(7, ""), rec(8, "")}), 1e-9)
	assert.InDelta(t, 6.0, AverageHours([]types.SleepRecord{rec(4, ""), rec(6, ""), rec(8, "")}), 1e-9)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, ClassificationGood, Classify(7))
	assert.Equal(t, ClassificationGood, Classify(9))
	assert.Equal(t, ClassificationGood, Classify(8.2))
	assert.Equal(t, ClassificationLow, Classify(6.99))
	assert.Equal(t, ClassificationLow, Classify(0))
	assert.Equal(t, ClassificationHigh, Classify(9.01))
}

func TestSummarizeClassifiesUnroundedAverage(t *testing.T) {
	summary := Summarize([]types.SleepRecord{rec(6.92, types.QualityGood), rec(7, types.QualityGood)}, DefaultCatalog(), "en")
	assert.InDelta(t, 6.96, summary.AverageHours, 1e-9)
	assert.Equal(t, "low", summary.Classification)
	require.NotNil(t, summary.Recommendation)
	assert.Equal(t, types.SeverityWarning, summary.Recommendation.Severity)
	assert.Contains(t, summary.Recommendation.Message, "7.0")
}

func TestBestSleep(t *testing.T) {
	tests := []struct {
		name    string
		records []types.SleepRecord
		want    float64
	}{
		{"empty", nil, 0},
		{
			"excellent in healthy range wins",
			[]types.SleepRecord{rec(9.5, types.QualityExcellent), rec(7.0, types.QualityGood)},
			9.5,
		},
		{
			"excellent outside healthy range is skipped",
			[]types.SleepRecord{rec(11, types.QualityExcellent), rec(6.5, types.QualityGood), rec(6.2, types.QualityGood)},
			6.5,
		},
		{
			"ideal range when no excellent or good",
			[]types.SleepRecord{rec(10, types.QualityPoor), rec(7.5, types.QualityFair), rec(8.5, "")},
			8.5,
		},
		{
			"closest to eight as last resort",
			[]types.SleepRecord{rec(5.0, types.QualityFair)},
			5.0,
		},
		{
			"closest to eight picks nearest",
			[]types.SleepRecord{rec(4, ""), rec(11, types.QualityExcellent), rec(5.5, types.QualityPoor)},
			5.5,
		},
		{
			"ties keep first occurrence",
			[]types.SleepRecord{rec(10.5, types.QualityPoor), rec(5.5, types.QualityPoor)},
			10.5,
		},
		{
			"oversleeping does not beat quality",
			[]types.SleepRecord{rec(12, ""), rec(6.1, types.QualityExcellent)},
			6.1,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, BestSleep(tc.records), 1e-9)
		})
	}
}

func TestSummarize(t *testing.T) {
	catalog := DefaultCatalog()

	empty := Summarize(nil, catalog, "en")
	assert.Zero(t, empty.TotalRecords)
	assert.Zero(t, empty.AverageHours)
	assert.Zero(t, empty.BestSleepHours)
	assert.Equal(t, "low", empty.Classification)
	assert.Nil(t, empty.Recommendation)
	assert.Empty(t, empty.Tips)

	summary := Summarize([]types.SleepRecord{rec(8, types.QualityGood), rec(7, types.QualityFair)}, catalog, "en")
	assert.Equal(t, 2, summary.TotalRecords)
	assert.InDelta(t, 7.5, summary.AverageHours, 1e-9)
	assert.InDelta(t, 8.0, summary.BestSleepHours, 1e-9)
	assert.Equal(t, "good", summary.Classification)
	require.NotNil(t, summary.Recommendation)
	assert.Equal(t, CodeAverageGood, summary.Recommendation.Code)
	assert.Equal(t, types.SeveritySuccess, summary.Recommendation.Severity)
	assert.Contains(t, summary.Recommendation.Message, "7.5")
	assert.NotEmpty(t, summary.Tips)
}

func TestAverageAdvice(t *testing.T) {
	assert.Equal(t, types.SeverityWarning, AverageAdvice(ClassificationLow, 5).Severity)
	assert.Equal(t, CodeAverageHigh, AverageAdvice(ClassificationHigh, 10).Code)
	assert.Equal(t, "10.0", AverageAdvice(ClassificationHigh, 10).Params["hours"])
}

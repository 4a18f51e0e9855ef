package sleep

import (
	"math"

	"github.com/sleeplog/apiserver/types"
)

// Classification buckets the average nightly sleep.
type Classification string

const (
	ClassificationGood Classification = "good"
	ClassificationLow  Classification = "low"
	ClassificationHigh Classification = "high"
)

const (
	idealMinHours   = 7.0
	idealMaxHours   = 9.0
	healthyMinHours = 6.0
	healthyMaxHours = 10.0
	targetHours     = 8.0
)

// AverageHours returns the arithmetic mean of hours, or 0 for no records.
func AverageHours(records []types.SleepRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	var total float64
	for _, r := range records {
		total += r.Hours
	}
	return total / float64(len(records))
}

// Classify maps an average to good ([7,9]), low (<7) or high (>9).
func Classify(avg float64) Classification {
	switch {
	case avg >= idealMinHours && avg <= idealMaxHours:
		return ClassificationGood
	case avg < idealMinHours:
		return ClassificationLow
	default:
		return ClassificationHigh
	}
}

// AverageAdvice returns the aggregate advice for a classification.
func AverageAdvice(c Classification, avg float64) Advice {
	params := map[string]string{"hours": formatHours(avg)}
	switch c {
	case ClassificationGood:
		return Advice{Code: CodeAverageGood, Severity: types.SeveritySuccess, Params: params}
	case ClassificationLow:
		return Advice{Code: CodeAverageLow, Severity: types.SeverityWarning, Params: params}
	default:
		return Advice{Code: CodeAverageHigh, Severity: types.SeverityInfo, Params: params}
	}
}

// BestSleep returns the headline "best sleep" value. High-quality sleep of
// near-ideal length wins over merely long sleep:
//
//  1. max hours among excellent records with hours in [6,10]
//  2. max hours among good records with hours in [6,10]
//  3. max hours among any records with hours in [7,9]
//  4. the record closest to 8 hours, first one on ties
//
// An empty set yields 0.
func BestSleep(records []types.SleepRecord) float64 {
	if len(records) == 0 {
		return 0
	}

	healthy := func(h float64) bool { return h >= healthyMinHours && h <= healthyMaxHours }
	ideal := func(h float64) bool { return h >= idealMinHours && h <= idealMaxHours }

	steps := []func(types.SleepRecord) bool{
		func(r types.SleepRecord) bool { return r.Quality == types.QualityExcellent && healthy(r.Hours) },
		func(r types.SleepRecord) bool { return r.Quality == types.QualityGood && healthy(r.Hours) },
		func(r types.SleepRecord) bool { return ideal(r.Hours) },
	}
	for _, match := range steps {
		if best, ok := maxHours(records, match); ok {
			return best
		}
	}

	closest := records[0].Hours
	for _, r := range records[1:] {
		if math.Abs(r.Hours-targetHours) < math.Abs(closest-targetHours) {
			closest = r.Hours
		}
	}
	return closest
}

func maxHours(records []types.SleepRecord, match func(types.SleepRecord) bool) (float64, bool) {
	best, found := 0.0, false
	for _, r := range records {
		if !match(r) {
			continue
		}
		if !found || r.Hours > best {
			best, found = r.Hours, true
		}
	}
	return best, found
}

// Summarize computes the aggregate statistics and renders the aggregate
// recommendation in lang. The recommendation is nil when there are no records.
func Summarize(records []types.SleepRecord, catalog *Catalog, lang string) types.SleepSummary {
	avg := AverageHours(records)
	class := Classify(avg)

	summary := types.SleepSummary{
		TotalRecords:   len(records),
		AverageHours:   avg,
		BestSleepHours: BestSleep(records),
		Classification: string(class),
	}
	if len(records) == 0 {
		return summary
	}

	rec := catalog.Render(AverageAdvice(class, avg), lang)
	summary.Recommendation = &rec
	summary.Tips = catalog.Tips(lang)
	return summary
}

package sleep

import "github.com/sleeplog/apiserver/types"

// Advice is an unrendered recommendation: the rule that fired, its
// severity and the values to substitute into the message template.
type Advice struct {
	Code     string
	Severity types.Severity
	Params   map[string]string
}

// Message codes produced by the rule families.
const (
	CodeAverageGood = "average.good"
	CodeAverageLow  = "average.low"
	CodeAverageHigh = "average.high"

	CodeDurationLow      = "duration.low"
	CodeDurationModerate = "duration.moderate"
	CodeDurationGood     = "duration.good"
	CodeDurationHigh     = "duration.high"

	CodeQualityPoor      = "quality.poor"
	CodeQualityFair      = "quality.fair"
	CodeQualityExcellent = "quality.excellent"

	CodeBedtimeOptimal  = "bedtime.optimal"
	CodeBedtimeEarly    = "bedtime.early"
	CodeBedtimeLate     = "bedtime.late"
	CodeBedtimeVeryLate = "bedtime.very_late"
	CodeBedtimeUnusual  = "bedtime.unusual"

	CodeDaylightEarlySunrise = "daylight.early_sunrise"
	CodeDaylightLateSunrise  = "daylight.late_sunrise"
	CodeDaylightSunset       = "daylight.sunset"
	CodeDaylightShortDay     = "daylight.short_day"
	CodeDaylightLongDay      = "daylight.long_day"
)

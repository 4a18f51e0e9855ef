package sleep

import (
	"strconv"

	"github.com/sleeplog/apiserver/types"
)

// DurationAdvice classifies the hours of a single night. The bands are
// mutually exclusive and 9.0 belongs to the ideal band.
func DurationAdvice(hours float64) Advice {
	params := map[string]string{"hours": formatHours(hours)}
	switch {
	case hours < healthyMinHours:
		return Advice{Code: CodeDurationLow, Severity: types.SeverityWarning, Params: params}
	case hours < idealMinHours:
		return Advice{Code: CodeDurationModerate, Severity: types.SeverityInfo, Params: params}
	case hours <= idealMaxHours:
		return Advice{Code: CodeDurationGood, Severity: types.SeveritySuccess, Params: params}
	default:
		return Advice{Code: CodeDurationHigh, Severity: types.SeverityInfo, Params: params}
	}
}

// QualityAdvice looks up the advice for a quality level. Good and
// unspecified quality produce no advice.
func QualityAdvice(q types.Quality) (Advice, bool) {
	switch q {
	case types.QualityPoor:
		return Advice{Code: CodeQualityPoor, Severity: types.SeverityWarning}, true
	case types.QualityFair:
		return Advice{Code: CodeQualityFair, Severity: types.SeverityInfo}, true
	case types.QualityExcellent:
		return Advice{Code: CodeQualityExcellent, Severity: types.SeveritySuccess}, true
	default:
		return Advice{}, false
	}
}

// lateEvening is 23:30; bedtimes strictly after it count as past midnight.
const lateEvening = Clock(23*secondsPerHour + 30*secondsPerMinute)

// BedtimeAdvice classifies the time the user fell asleep.
func BedtimeAdvice(bedtime Clock) Advice {
	params := map[string]string{"time": bedtime.String()}
	hour := bedtime.Hour()
	switch {
	case bedtime > lateEvening, hour < 2:
		return Advice{Code: CodeBedtimeLate, Severity: types.SeverityWarning, Params: params}
	case hour >= 21:
		return Advice{Code: CodeBedtimeOptimal, Severity: types.SeveritySuccess, Params: params}
	case hour >= 19:
		return Advice{Code: CodeBedtimeEarly, Severity: types.SeverityInfo, Params: params}
	case hour < 6:
		return Advice{Code: CodeBedtimeVeryLate, Severity: types.SeverityWarning, Params: params}
	default:
		return Advice{Code: CodeBedtimeUnusual, Severity: types.SeverityInfo, Params: params}
	}
}

// Personalized evaluates the duration, quality and bedtime families for a
// single record. Each family contributes at most one advice, in that order.
// A record whose sleep time cannot be parsed gets no bedtime advice.
func Personalized(record types.SleepRecord) []Advice {
	advice := []Advice{DurationAdvice(record.Hours)}

	if a, ok := QualityAdvice(record.Quality); ok {
		advice = append(advice, a)
	}

	if bedtime, err := ParseClock(record.SleepTime); err == nil {
		advice = append(advice, BedtimeAdvice(bedtime))
	}

	return advice
}

// Recommend renders Personalized advice for record in lang.
func Recommend(record types.SleepRecord, catalog *Catalog, lang string) []types.Recommendation {
	return catalog.RenderAll(Personalized(record), lang)
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', 1, 64)
}

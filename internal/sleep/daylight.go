package sleep

import (
	"time"

	"github.com/sleeplog/apiserver/types"
)

const (
	earlySunriseHour = 6
	shortDay         = 10 * time.Hour
	longDay          = 14 * time.Hour
)

// DaylightAdvice derives circadian guidance from one day's sun times.
// Sunrise and sunset are evaluated in loc.
func DaylightAdvice(sun types.SunTimes, loc *time.Location) []Advice {
	if loc == nil {
		loc = time.UTC
	}
	sunrise := sun.Sunrise.In(loc)
	sunset := sun.Sunset.In(loc)

	var advice []Advice
	if sunrise.Hour() <= earlySunriseHour {
		advice = append(advice, Advice{Code: CodeDaylightEarlySunrise, Severity: types.SeveritySuccess})
	} else {
		advice = append(advice, Advice{Code: CodeDaylightLateSunrise, Severity: types.SeverityInfo})
	}

	advice = append(advice, Advice{
		Code:     CodeDaylightSunset,
		Severity: types.SeverityInfo,
		Params:   map[string]string{"time": sunset.Format("15:04")},
	})

	switch {
	case sun.DayLength < shortDay:
		advice = append(advice, Advice{Code: CodeDaylightShortDay, Severity: types.SeverityWarning})
	case sun.DayLength > longDay:
		advice = append(advice, Advice{Code: CodeDaylightLongDay, Severity: types.SeverityInfo})
	}
	return advice
}

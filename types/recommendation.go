package types

// Severity tags a recommendation for presentation styling only.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Recommendation is a rendered, human-readable piece of guidance.
type Recommendation struct {
	// Code is a stable identifier of the rule that produced the message,
	// e.g. "duration.low" or "bedtime.optimal".
	Code string `json:"code"`

	// Severity is the presentation tag of the message.
	Severity Severity `json:"severity"`

	// Message is the localized text.
	Message string `json:"message"`
}

// SleepSummary aggregates statistics over all of a user's records.
type SleepSummary struct {
	// TotalRecords is the number of records considered.
	TotalRecords int `json:"total_records"`

	// AverageHours is the arithmetic mean of hours, or 0 for no records.
	AverageHours float64 `json:"average_hours"`

	// BestSleepHours is the headline "best sleep" value.
	BestSleepHours float64 `json:"best_sleep_hours"`

	// Classification is one of "good", "low" or "high".
	Classification string `json:"classification"`

	// Recommendation is the aggregate guidance. It is omitted when
	// the user has no records.
	Recommendation *Recommendation `json:"recommendation,omitempty"`

	// Tips are general sleep-hygiene tips shown alongside the
	// aggregate recommendation.
	Tips []string `json:"tips,omitempty"`
}

package types

import "time"

// Quality is the self-reported quality of a night's sleep.
type Quality string

const (
	QualityExcellent Quality = "excellent"
	QualityGood      Quality = "good"
	QualityFair      Quality = "fair"
	QualityPoor      Quality = "poor"
)

// Valid reports whether q is one of the known quality levels.
// The empty quality is not valid; callers treat it as "not provided".
func (q Quality) Valid() bool {
	switch q {
	case QualityExcellent, QualityGood, QualityFair, QualityPoor:
		return true
	default:
		return false
	}
}

// SleepRecord represents one logged sleep session owned by a user.
type SleepRecord struct {
	// ID is the unique identifier of the record.
	ID int64 `json:"id" db:"id"`

	// UserID identifies the owner of the record.
	UserID int `json:"user_id" db:"user_id"`

	// SleepTime is the local clock time the user fell asleep ("HH:MM").
	SleepTime string `json:"sleep_time" db:"sleep_time"`

	// WakeTime is the local clock time the user woke up ("HH:MM").
	WakeTime string `json:"wake_time" db:"wake_time"`

	// Hours is the elapsed sleep derived from SleepTime and WakeTime.
	// It is always computed server-side and lies in [0, 24).
	Hours float64 `json:"hours" db:"hours"`

	// Quality is the optional self-reported sleep quality.
	Quality Quality `json:"quality,omitempty" db:"quality"`

	// Notes is optional free text attached to the record.
	Notes string `json:"notes,omitempty" db:"notes"`

	// Date is the calendar date of the sleep session ("YYYY-MM-DD").
	Date string `json:"date" db:"sleep_date"`

	// CreatedAt is the timestamp when the record was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SleepRecordInput carries the client-editable fields of a sleep record.
// Hours is intentionally absent.
type SleepRecordInput struct {
	SleepTime string
	WakeTime  string
	Quality   Quality
	Notes     string
	Date      string
}

package types

import "time"

// Location is a geocoded place.
type Location struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"display_name"`
}

// SunTimes holds the astronomical data for one day at one location.
type SunTimes struct {
	Sunrise   time.Time     `json:"sunrise"`
	Sunset    time.Time     `json:"sunset"`
	DayLength time.Duration `json:"day_length"`
}

// DaylightReport is the response of a sunrise/sunset lookup.
type DaylightReport struct {
	// City is a short display name of the resolved place.
	City string `json:"city"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// Sunrise and Sunset are UTC instants.
	Sunrise time.Time `json:"sunrise"`
	Sunset  time.Time `json:"sunset"`

	// DayLengthSeconds is the time between sunrise and sunset.
	DayLengthSeconds int64 `json:"day_length_seconds"`

	// Timezone is the IANA zone used to evaluate the recommendations.
	Timezone string `json:"timezone"`

	Recommendations []Recommendation `json:"recommendations"`
}

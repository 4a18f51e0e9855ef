package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sleeplog/apiserver/internal/geo"
	"github.com/sleeplog/apiserver/internal/sleep"
	"github.com/sleeplog/apiserver/types"
)

type stubGeocoder struct {
	location types.Location
	err      error
	calls    int
}

func (g *stubGeocoder) Search(context.Context, string) (types.Location, error) {
	g.calls++
	return g.location, g.err
}

type stubSun struct {
	sun types.SunTimes
	err error
}

func (s *stubSun) SunTimes(context.Context, float64, float64) (types.SunTimes, error) {
	return s.sun, s.err
}

var santiago = types.Location{Latitude: -33.44, Longitude: -70.65, DisplayName: "Santiago, Provincia de Santiago, Chile"}

func winterSun() types.SunTimes {
	rise := time.Date(2026, 6, 21, 11, 46, 0, 0, time.UTC)
	set := time.Date(2026, 6, 21, 21, 53, 0, 0, time.UTC)
	return types.SunTimes{Sunrise: rise, Sunset: set, DayLength: set.Sub(rise)}
}

func TestDaylightService_Lookup(t *testing.T) {
	geocoder := &stubGeocoder{location: santiago}
	svc := NewDaylightService(geocoder, &stubSun{sun: winterSun()}, nil, 0, nil, nil)
	loc := time.FixedZone("CLT", -4*3600)

	report, err := svc.Lookup(context.Background(), " Santiago ", loc, "en")
	require.NoError(t, err)
	assert.Equal(t, "Santiago, Provincia de Santiago", report.City)
	assert.Equal(t, int64(10*3600+7*60), report.DayLengthSeconds)
	assert.Equal(t, "CLT", report.Timezone)

	codes := make([]string, 0, len(report.Recommendations))
	for _, r := range report.Recommendations {
		codes = append(codes, r.Code)
	}
	assert.Equal(t, []string{sleep.CodeDaylightLateSunrise, sleep.CodeDaylightSunset}, codes)
	assert.Contains(t, report.Recommendations[1].Message, "17:53")
}

func TestDaylightService_EmptyCity(t *testing.T) {
	svc := NewDaylightService(&stubGeocoder{}, &stubSun{}, nil, 0, nil, nil)
	_, err := svc.Lookup(context.Background(), "   ", nil, "en")
	assert.ErrorIs(t, err, ErrEmptyCity)
}

func TestDaylightService_NotFoundAndUpstream(t *testing.T) {
	svc := NewDaylightService(&stubGeocoder{err: geo.ErrNoResults}, &stubSun{}, nil, 0, nil, nil)
	_, err := svc.Lookup(context.Background(), "Atlantis", nil, "en")
	assert.ErrorIs(t, err, ErrLocationNotFound)

	svc = NewDaylightService(&stubGeocoder{err: &geo.StatusError{Service: "nominatim", Code: 503}}, &stubSun{}, nil, 0, nil, nil)
	_, err = svc.Lookup(context.Background(), "Paris", nil, "en")
	assert.ErrorIs(t, err, ErrUpstream)

	svc = NewDaylightService(&stubGeocoder{location: santiago}, &stubSun{err: errors.New("status INVALID_REQUEST")}, nil, 0, nil, nil)
	_, err = svc.Lookup(context.Background(), "Santiago", nil, "en")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestDaylightService_CachesGeocoding(t *testing.T) {
	geocoder := &stubGeocoder{location: santiago}
	c := newMemCache()
	svc := NewDaylightService(geocoder, &stubSun{sun: winterSun()}, c, time.Hour, nil, nil)
	ctx := context.Background()

	_, err := svc.Lookup(ctx, "Santiago", nil, "es")
	require.NoError(t, err)
	_, err = svc.Lookup(ctx, "SANTIAGO", nil, "es")
	require.NoError(t, err)

	assert.Equal(t, 1, geocoder.calls)
	assert.Equal(t, []string{"geo:santiago"}, c.setKeys)
}

func TestDaylightService_CacheFailureFallsBack(t *testing.T) {
	geocoder := &stubGeocoder{location: santiago}
	c := newMemCache()
	c.getErr = errors.New("redis down")
	svc := NewDaylightService(geocoder, &stubSun{sun: winterSun()}, c, time.Hour, nil, nil)

	_, err := svc.Lookup(context.Background(), "Santiago", nil, "en")
	require.NoError(t, err)
	assert.Equal(t, 1, geocoder.calls)
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sleeplog/apiserver/internal/cache"
	"github.com/sleeplog/apiserver/internal/geo"
	"github.com/sleeplog/apiserver/internal/metrics"
	"github.com/sleeplog/apiserver/internal/sleep"
	"github.com/sleeplog/apiserver/types"
)

var (
	// ErrEmptyCity is returned when no place name was given.
	ErrEmptyCity = errors.New("city is required")
	// ErrLocationNotFound is returned when the geocoder has no match.
	ErrLocationNotFound = errors.New("location not found")
	// ErrUpstream wraps failures of the geocoding or sun-times services.
	ErrUpstream = errors.New("upstream lookup failed")
)

// Geocoder resolves a place name to coordinates.
type Geocoder interface {
	Search(ctx context.Context, query string) (types.Location, error)
}

// SunSource returns today's sun times at a coordinate.
type SunSource interface {
	SunTimes(ctx context.Context, lat, lng float64) (types.SunTimes, error)
}

// Cache stores geocoding results between lookups.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// DaylightService combines geocoding, sun times and daylight advice.
type DaylightService struct {
	geocoder Geocoder
	sun      SunSource
	cache    Cache
	cacheTTL time.Duration
	catalog  *sleep.Catalog
	logger   *zap.Logger
}

// NewDaylightService wires the lookup. cache may be nil to disable caching.
func NewDaylightService(geocoder Geocoder, sun SunSource, cache Cache, cacheTTL time.Duration, catalog *sleep.Catalog, logger *zap.Logger) *DaylightService {
	if catalog == nil {
		catalog = sleep.DefaultCatalog()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DaylightService{
		geocoder: geocoder,
		sun:      sun,
		cache:    cache,
		cacheTTL: cacheTTL,
		catalog:  catalog,
		logger:   logger,
	}
}

// Lookup geocodes city, fetches its sun times and evaluates the daylight
// advice in loc (UTC when nil).
func (s *DaylightService) Lookup(ctx context.Context, city string, loc *time.Location, lang string) (types.DaylightReport, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return types.DaylightReport{}, ErrEmptyCity
	}
	if loc == nil {
		loc = time.UTC
	}

	location, cached, err := s.locate(ctx, city)
	if err != nil {
		if errors.Is(err, geo.ErrNoResults) {
			metrics.RecordDaylightLookup("not_found")
			return types.DaylightReport{}, ErrLocationNotFound
		}
		metrics.RecordDaylightLookup("error")
		s.logger.Warn("geocoding failed", zap.String("city", city), zap.Error(err))
		return types.DaylightReport{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	sun, err := s.sun.SunTimes(ctx, location.Latitude, location.Longitude)
	if err != nil {
		metrics.RecordDaylightLookup("error")
		s.logger.Warn("sun times lookup failed", zap.String("city", city), zap.Error(err))
		return types.DaylightReport{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if cached {
		metrics.RecordDaylightLookup("cached")
	} else {
		metrics.RecordDaylightLookup("ok")
	}

	return types.DaylightReport{
		City:             geo.ShortName(location.DisplayName),
		Latitude:         location.Latitude,
		Longitude:        location.Longitude,
		Sunrise:          sun.Sunrise.UTC(),
		Sunset:           sun.Sunset.UTC(),
		DayLengthSeconds: int64(sun.DayLength / time.Second),
		Timezone:         loc.String(),
		Recommendations:  s.catalog.RenderAll(sleep.DaylightAdvice(sun, loc), lang),
	}, nil
}

// locate consults the cache before the geocoder. Cache failures degrade
// to a direct lookup.
func (s *DaylightService) locate(ctx context.Context, city string) (types.Location, bool, error) {
	key := "geo:" + strings.ToLower(city)

	if s.cache != nil {
		data, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			var location types.Location
			if jsonErr := json.Unmarshal(data, &location); jsonErr == nil {
				return location, true, nil
			}
		case !errors.Is(err, cache.ErrMiss):
			s.logger.Warn("geocode cache read failed", zap.Error(err))
		}
	}

	location, err := s.geocoder.Search(ctx, city)
	if err != nil {
		return types.Location{}, false, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(location); err == nil {
			if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
				s.logger.Warn("geocode cache write failed", zap.Error(err))
			}
		}
	}
	return location, false, nil
}

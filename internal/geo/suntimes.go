package geo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/sleeplog/apiserver/types"
)

// SunTimesClient fetches sunrise and sunset from sunrise-sunset.org.
type SunTimesClient struct {
	baseURL string
	client  *http.Client
}

func NewSunTimesClient(baseURL string, client *http.Client) *SunTimesClient {
	if client == nil {
		client = NewHTTPClient(0)
	}
	return &SunTimesClient{
		baseURL: trimBase(baseURL),
		client:  client,
	}
}

// SunTimes returns today's sun times at the coordinates, in UTC.
func (c *SunTimesClient) SunTimes(ctx context.Context, lat, lng float64) (types.SunTimes, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lng", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("formatted", "0")

	body, err := getJSON(ctx, c.client, "sunrise-sunset", c.baseURL+"/json?"+params.Encode(), "")
	if err != nil {
		return types.SunTimes{}, err
	}

	result := gjson.ParseBytes(body)
	if status := result.Get("status").String(); status != "OK" {
		return types.SunTimes{}, fmt.Errorf("sunrise-sunset: status %q", status)
	}

	sunrise, err := time.Parse(time.RFC3339, result.Get("results.sunrise").String())
	if err != nil {
		return types.SunTimes{}, fmt.Errorf("sunrise-sunset: sunrise: %w", err)
	}
	sunset, err := time.Parse(time.RFC3339, result.Get("results.sunset").String())
	if err != nil {
		return types.SunTimes{}, fmt.Errorf("sunrise-sunset: sunset: %w", err)
	}

	dayLength := sunset.Sub(sunrise)
	if seconds := result.Get("results.day_length"); seconds.Exists() {
		dayLength = time.Duration(seconds.Int()) * time.Second
	}

	return types.SunTimes{
		Sunrise:   sunrise.UTC(),
		Sunset:    sunset.UTC(),
		DayLength: dayLength,
	}, nil
}

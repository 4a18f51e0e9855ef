package geo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/sleeplog/apiserver/types"
)

// Nominatim geocodes free-text place names through the OpenStreetMap
// Nominatim search API. The usage policy requires an identifying
// User-Agent.
type Nominatim struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

func NewNominatim(baseURL, userAgent string, client *http.Client) *Nominatim {
	if client == nil {
		client = NewHTTPClient(0)
	}
	return &Nominatim{
		baseURL:   trimBase(baseURL),
		userAgent: userAgent,
		client:    client,
	}
}

// Search returns the best match for query, or ErrNoResults.
func (n *Nominatim) Search(ctx context.Context, query string) (types.Location, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	body, err := getJSON(ctx, n.client, "nominatim", n.baseURL+"/search?"+params.Encode(), n.userAgent)
	if err != nil {
		return types.Location{}, err
	}
	if !gjson.ValidBytes(body) {
		return types.Location{}, fmt.Errorf("nominatim: invalid json")
	}

	first := gjson.GetBytes(body, "0")
	if !first.Exists() {
		return types.Location{}, ErrNoResults
	}

	lat, lon := first.Get("lat"), first.Get("lon")
	if !lat.Exists() || !lon.Exists() {
		return types.Location{}, fmt.Errorf("nominatim: result without coordinates")
	}

	return types.Location{
		Latitude:    lat.Float(),
		Longitude:   lon.Float(),
		DisplayName: first.Get("display_name").String(),
	}, nil
}

// ShortName keeps the first two comma-separated parts of a display name,
// e.g. "Santiago, Provincia de Santiago".
func ShortName(displayName string) string {
	parts := strings.Split(displayName, ",")
	if len(parts) > 2 {
		parts = parts[:2]
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, ", ")
}

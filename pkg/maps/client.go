package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client calls an external routing API for road distance between two points.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

type routeResponse struct {
	Status string `json:"status"`
	Routes []struct {
		DistanceMeters float64 `json:"distance_meters"`
		DurationSecs   float64 `json:"duration_seconds"`
	} `json:"routes"`
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// RouteDistanceKm returns the driving distance in kilometers. Callers are
// expected to fall back to straight-line distance on error.
func (c *Client) RouteDistanceKm(ctx context.Context, fromLat, fromLng, toLat, toLng float64) (float64, error) {
	if c.BaseURL == "" {
		return 0, fmt.Errorf("maps API not configured")
	}

	q := url.Values{}
	q.Set("origin", fmt.Sprintf("%f,%f", fromLat, fromLng))
	q.Set("destination", fmt.Sprintf("%f,%f", toLat, toLng))
	q.Set("mode", "driving")
	q.Set("key", c.APIKey)

	endpoint := fmt.Sprintf("%s/route?%s", c.BaseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("route request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("route API returned status %d", resp.StatusCode)
	}

	var body routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("failed to decode route response: %w", err)
	}
	if body.Status != "OK" || len(body.Routes) == 0 {
		return 0, fmt.Errorf("no route found (status %s)", body.Status)
	}

	return body.Routes[0].DistanceMeters / 1000, nil
}

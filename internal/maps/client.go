// Package maps is a minimal client for the Google Distance Matrix API.
package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cognicore/evasao/pkg/evasao/distance"
	"github.com/cognicore/evasao/pkg/evasao/internalerr"
)

// DefaultBaseURL is the Distance Matrix JSON endpoint.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api/distancematrix/json"

// Client calls the Distance Matrix endpoint. It implements distance.Provider.
type Client struct {
	BaseURL  string
	APIKey   string
	Language string

	HTTPClient *http.Client
}

type matrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []element `json:"elements"`
	} `json:"rows"`
}

type element struct {
	Status   string `json:"status"`
	Distance struct {
		Value int    `json:"value"`
		Text  string `json:"text"`
	} `json:"distance"`
	Duration struct {
		Value int    `json:"value"`
		Text  string `json:"text"`
	} `json:"duration"`
}

// Route resolves one origin/destination pair.
func (c *Client) Route(ctx context.Context, q distance.Query) (distance.Route, error) {
	if c.APIKey == "" {
		return distance.Route{}, fmt.Errorf("maps: API key required: %w", internalerr.ErrInvalidConfig)
	}
	payload, err := c.send(ctx, q)
	if err != nil {
		return distance.Route{}, err
	}
	if payload.Status != "OK" {
		return distance.Route{}, fmt.Errorf("maps: status %s %s: %w", payload.Status, payload.ErrorMessage, internalerr.ErrProviderStatus)
	}
	if len(payload.Rows) == 0 || len(payload.Rows[0].Elements) == 0 {
		return distance.Route{}, fmt.Errorf("maps: empty response: %w", internalerr.ErrProviderStatus)
	}
	el := payload.Rows[0].Elements[0]
	if el.Status != "OK" {
		return distance.Route{}, fmt.Errorf("maps: element status %s: %w", el.Status, internalerr.ErrProviderStatus)
	}
	return distance.Route{
		DistanceMeters: el.Distance.Value,
		DurationText:   el.Duration.Text,
		Duration:       time.Duration(el.Duration.Value) * time.Second,
	}, nil
}

func (c *Client) send(ctx context.Context, q distance.Query) (*matrixResponse, error) {
	params := url.Values{}
	params.Set("origins", q.Origin)
	params.Set("destinations", q.Destination)
	params.Set("mode", q.Mode)
	if !q.ArrivalTime.IsZero() {
		params.Set("arrival_time", strconv.FormatInt(q.ArrivalTime.Unix(), 10))
	}
	if c.Language != "" {
		params.Set("language", c.Language)
	}
	params.Set("key", c.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL()+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("maps: http %d: %s: %w", resp.StatusCode, body, internalerr.ErrProviderStatus)
	}
	var payload matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("maps: decode response: %w", err)
	}
	return &payload, nil
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return DefaultBaseURL
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 15 * time.Second}
}

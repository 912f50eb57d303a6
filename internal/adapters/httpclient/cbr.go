package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"cbrates/internal/domain"
)

// CBRClient fetches daily quotes from the Central Bank of Russia JSON feed
// (https://www.cbr-xml-daily.ru/daily_json.js) and extracts the value for a
// single currency code.
type CBRClient struct {
	http *http.Client
	url  string
}

type cbrResponse struct {
	Valute map[string]cbrQuote `json:"Valute"`
}

type cbrQuote struct {
	Nominal int     `json:"Nominal"`
	Value   float64 `json:"Value"`
}

func (c *CBRClient) Fetch(ctx context.Context, code string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request for currency %q: %w", code, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to execute request for currency %q: %w", code, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("unexpected status code %d for currency %q: %s", resp.StatusCode, code, resp.Status)
	}

	var body cbrResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("failed to decode response for currency %q: %w", code, err)
	}

	quote, ok := body.Valute[code]
	if !ok {
		return 0, fmt.Errorf("currency %q: %w", code, domain.ErrRateMissing)
	}
	if quote.Value <= 0 {
		return 0, fmt.Errorf("non-positive rate %v for currency %q", quote.Value, code)
	}
	return quote.Value, nil
}

func NewCBRClient(httpClient *http.Client, url string) *CBRClient {
	return &CBRClient{http: httpClient, url: url}
}

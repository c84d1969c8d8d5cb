package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/rustyeddy/chartlab/market"
)

// StatusError is a non-2xx reply from the chart API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("chart api http %d: %s", e.StatusCode, e.Body)
}

// Client talks to a remote chart API serving
//
//	GET {base}/api/charts/{stockId}?interval={minute|hour|day|week|month}
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries uint64

	// newBackOff builds the retry schedule for one Fetch.
	newBackOff func() backoff.BackOff
}

// NewClient creates a client. A zero timeout means 30s.
func NewClient(baseURL string, timeout time.Duration, maxRetries uint64) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries: maxRetries,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}
}

// Fetch downloads the chart for symbol. Network errors and 5xx replies are
// retried with exponential backoff up to maxRetries times; 4xx replies and
// undecodable bodies fail immediately.
func (c *Client) Fetch(ctx context.Context, symbol string, iv market.Interval) (*market.CandleSet, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if !iv.Valid() {
		return nil, fmt.Errorf("unsupported interval: %q", iv)
	}

	params := url.Values{}
	params.Set("interval", string(iv))
	apiURL := fmt.Sprintf("%s/api/charts/%s?%s", c.baseURL, url.PathEscape(symbol), params.Encode())

	var set *market.CandleSet
	attempt := 0
	op := func() error {
		attempt++
		var err error
		set, err = c.get(ctx, apiURL)
		if err != nil {
			log.WithError(err).Debugf("[chart api] attempt %d for %s failed", attempt, symbol)
		}
		return err
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		return nil, fmt.Errorf("fetch %s/%s: %w", symbol, iv, err)
	}

	set.Symbol = symbol
	set.Interval = iv
	set.Source = "remote"
	sort.SliceStable(set.Candles, func(i, j int) bool {
		return set.Candles[i].Timestamp < set.Candles[j].Timestamp
	})
	return set, nil
}

func (c *Client) get(ctx context.Context, apiURL string) (*market.CandleSet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		serr := &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		if resp.StatusCode >= 500 {
			return nil, serr
		}
		return nil, backoff.Permanent(serr)
	}

	var set market.CandleSet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("decode response: %w", err))
	}
	return &set, nil
}

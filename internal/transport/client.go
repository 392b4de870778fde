// Package transport is the HTTP client for the listings API.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/watchlist/triage/internal/domain"
	"github.com/watchlist/triage/internal/id"
	"github.com/watchlist/triage/internal/logger"
	"github.com/watchlist/triage/internal/ratelimit"
)

const (
	// Suggestion endpoints fire on keystrokes: 5 requests per second per
	// endpoint, burst of 3.
	defaultSuggestRPS   = 5.0
	defaultSuggestBurst = 3

	defaultTimeout = 15 * time.Second

	// Error bodies are kept for logs only.
	maxErrorBody = 1 << 10

	apiPrefix = "/api/v1"
)

// Facet is a boolean item facet that can be toggled remotely.
type Facet string

// Facets and their endpoint names.
const (
	FacetFavorite Facet = "favorite"
	FacetHidden   Facet = "hide"
)

func (f Facet) op() string {
	if f == FacetHidden {
		return "hidden update"
	}
	return "favorite update"
}

// Config configures a Client.
type Config struct {
	BaseURL      string
	Timeout      time.Duration
	SuggestRPS   float64
	SuggestBurst int
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client calls the listings API. It is safe for concurrent use.
type Client struct {
	http    *http.Client
	baseURL string
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
}

// New creates a client for the API at cfg.BaseURL.
func New(cfg Config, log *slog.Logger) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	rps, burst := cfg.SuggestRPS, cfg.SuggestBurst
	if rps <= 0 {
		rps = defaultSuggestRPS
	}
	if burst <= 0 {
		burst = defaultSuggestBurst
	}

	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limiter: ratelimit.New(rps, burst),
		logger:  logger.OrDiscard(log),
	}
}

// FetchResults loads one page of items for a serialized query string.
func (c *Client) FetchResults(ctx context.Context, search string) (*domain.ResultSet, error) {
	path := apiPrefix + "/items"
	if search = strings.TrimPrefix(search, "?"); search != "" {
		path += "?" + search
	}

	var out domain.ResultSet
	if err := c.do(ctx, "items fetch", "", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = []domain.ItemRow{}
	}
	return &out, nil
}

// MutateFacet sets a boolean facet of an item.
func (c *Client) MutateFacet(ctx context.Context, itemID string, facet Facet, value bool) error {
	body := struct {
		Value bool `json:"value"`
	}{value}
	return c.do(ctx, facet.op(), itemID, http.MethodPost, itemPath(itemID, string(facet)), body, nil)
}

// MutateNote replaces an item's note. The response carries the server's
// timestamps.
func (c *Client) MutateNote(ctx context.Context, itemID, text string) (*domain.NoteResult, error) {
	body := struct {
		NoteText string `json:"note_text"`
	}{text}

	var out domain.NoteResult
	if err := c.do(ctx, "note update", itemID, http.MethodPost, itemPath(itemID, "note"), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RefreshItem asks the API to re-fetch an item from the marketplace and
// returns the fresh row.
func (c *Client) RefreshItem(ctx context.Context, itemID string) (*domain.ItemRow, error) {
	var out struct {
		Item *domain.ItemRow `json:"item"`
	}
	if err := c.do(ctx, "refresh", itemID, http.MethodPost, itemPath(itemID, "refresh"), nil, &out); err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, callError("refresh", itemID, fmt.Errorf("response has no item"))
	}
	return out.Item, nil
}

// SellerSuggestions returns sellers matching q.
func (c *Client) SellerSuggestions(ctx context.Context, q string) ([]domain.Suggestion, error) {
	params := url.Values{}
	params.Set("q", q)
	return c.suggestions(ctx, "seller suggestions", "sellers", params)
}

// CategorySuggestions returns categories matching q, narrowed to the given
// main categories.
func (c *Client) CategorySuggestions(ctx context.Context, q string, mainCategories []string) ([]domain.Suggestion, error) {
	params := url.Values{}
	params.Set("q", q)
	for _, mc := range mainCategories {
		params.Add("main_category", mc)
	}
	return c.suggestions(ctx, "category suggestions", "categories", params)
}

func (c *Client) suggestions(ctx context.Context, op, endpoint string, params url.Values) ([]domain.Suggestion, error) {
	if err := c.limiter.Wait(ctx, endpoint); err != nil {
		return nil, callError(op, "", fmt.Errorf("rate limit wait: %w", err))
	}

	var out domain.SuggestionsResponse
	path := apiPrefix + "/suggestions/" + endpoint + "?" + params.Encode()
	if err := c.do(ctx, op, "", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		return []domain.Suggestion{}, nil
	}
	return out.Items, nil
}

func itemPath(itemID, action string) string {
	return apiPrefix + "/items/" + url.PathEscape(itemID) + "/" + action
}

// do executes one request. A nil in skips the body; a nil out discards the
// response body.
func (c *Client) do(ctx context.Context, op, itemID, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return callError(op, itemID, fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return callError(op, itemID, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := id.Request()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	c.logger.Debug("api request",
		"op", op,
		"method", method,
		"path", path,
		"request_id", requestID,
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return callError(op, itemID, fmt.Errorf("execute request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("api request failed",
			"op", op,
			"status", resp.StatusCode,
			"request_id", requestID,
			"duration", time.Since(start),
		)
		return statusError(op, itemID, resp.StatusCode, string(snippet))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return callError(op, itemID, fmt.Errorf("decode response: %w", err))
	}

	c.logger.Debug("api request complete",
		"op", op,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)
	return nil
}

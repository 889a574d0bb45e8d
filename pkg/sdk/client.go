package sdk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/kailas-cloud/moviematch/internal/version"
)

// Client calls a moviematch server.
type Client struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
	obs        *observer
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if baseURL == "" {
		return nil, errors.New("moviematch: base URL required")
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("moviematch: parse base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("moviematch: unsupported scheme %q", u.Scheme)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{baseURL: u, apiKey: cfg.apiKey, httpClient: hc, obs: obs}, nil
}

// ByTitle returns movies similar to the catalog title closest to title.
// topN <= 0 lets the server pick its default.
func (c *Client) ByTitle(ctx context.Context, title string, topN int) (res Recommendations, err error) {
	start := time.Now()
	defer func() { c.obs.observe("by_title", start, err) }()

	q := url.Values{"title": {title}}
	setTopN(q, topN)
	err = c.get(ctx, "/recommendations/title", q, &res)
	return res, err
}

// ByKeywords returns movies matching free-text keywords.
// topN <= 0 lets the server pick its default.
func (c *Client) ByKeywords(ctx context.Context, text string, topN int) (res Recommendations, err error) {
	start := time.Now()
	defer func() { c.obs.observe("by_keywords", start, err) }()

	q := url.Values{"q": {text}}
	setTopN(q, topN)
	err = c.get(ctx, "/recommendations/keywords", q, &res)
	return res, err
}

func setTopN(q url.Values, topN int) {
	if topN > 0 {
		q.Set("topn", strconv.Itoa(topN))
	}
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	status, body, err := c.do(ctx, path, q)
	if err != nil {
		return err
	}
	if status/100 != 2 {
		return decodeError(status, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("moviematch: decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, path string, q url.Values) (int, []byte, error) {
	u := *c.baseURL
	u.Path += path
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return 0, nil, fmt.Errorf("moviematch: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent("sdk"))
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("moviematch: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, nil, fmt.Errorf("moviematch: read %s: %w", path, err)
	}
	return resp.StatusCode, body, nil
}

const maxBodySize = 8 << 20

func decodeError(status int, body []byte) error {
	var payload struct {
		Code      string  `json:"code"`
		Message   string  `json:"message"`
		BestMatch string  `json:"best_match"`
		Score     float64 `json:"score"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Code == "" {
		return &APIError{StatusCode: status, Code: "unknown", Message: http.StatusText(status)}
	}
	return &APIError{
		StatusCode: status,
		Code:       payload.Code,
		Message:    payload.Message,
		BestMatch:  payload.BestMatch,
		Score:      payload.Score,
	}
}

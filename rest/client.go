package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/finlight/finlight-go/errors"
	"github.com/finlight/finlight-go/logx"
	"github.com/finlight/finlight-go/pkg/retry"
	"github.com/finlight/finlight-go/stream"
)

// Client is an ordinary request/response client against the finlight
// REST surface, grounded on the HTTP-sending shape of
// output/httppost/httppost.go but reworked around pkg/retry's backoff
// instead of a hand-rolled attempt loop, and around response coercion
// rather than one-way delivery.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     logx.Logger
	limiter    *limiter
	metrics    metricsSink
}

// limiter is a thin indirection so a nil *rate.Limiter never needs a
// nil check at the call site.
type limiter struct {
	wait func(context.Context) error
}

// NewClient constructs a REST facade client. apiKey is required.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	cfg := defaultConfig()
	cfg.apiKey = apiKey
	for _, opt := range opts {
		opt(cfg)
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.timeout}
	}

	logger := cfg.logger
	if logger == nil {
		logger = logx.NewDefault("rest")
	}

	var lim *limiter
	if cfg.limiter != nil {
		rl := cfg.limiter
		lim = &limiter{wait: rl.Wait}
	}

	return &Client{
		apiKey:     cfg.apiKey,
		baseURL:    cfg.baseURL,
		httpClient: httpClient,
		logger:     logger,
		limiter:    lim,
		metrics:    newMetricsSink(cfg.metrics),
	}
}

var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// DoRequest is the generic escape hatch for endpoints the typed helpers
// don't cover. body is marshaled as the JSON request payload when
// non-nil; out, when non-nil, receives the decoded JSON response body.
// Retries on {429, 500, 502, 503, 504} with delay 500ms * 2^(attempt-1)
// up to retryMaxAttempts, matching the teacher's httppost exponential
// backoff shape but via pkg/retry rather than a bespoke loop.
func (c *Client) DoRequest(ctx context.Context, method, path string, body, out any) error {
	started := time.Now()
	outcome := "ok"
	defer func() { c.metrics.request(path, outcome, time.Since(started)) }()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			outcome = "encode_error"
			return errors.WrapInvalid(err, "rest", "DoRequest", "encode request body")
		}
	}

	cfg := retry.Config{
		MaxAttempts:  retryMaxAttempts,
		InitialDelay: retryInitialDelay,
		MaxDelay:     retryInitialDelay * (1 << retryMaxAttempts),
		Multiplier:   retryMultiplier,
		AddJitter:    false,
	}

	var lastStatus int
	err := retry.Do(ctx, cfg, func() error {
		if c.limiter != nil {
			if err := c.limiter.wait(ctx); err != nil {
				return retry.NonRetryable(err)
			}
		}

		status, respBody, err := c.send(ctx, method, path, payload)
		if err != nil {
			return retry.NonRetryable(err)
		}
		lastStatus = status

		if status >= 200 && status < 300 {
			if out != nil && len(respBody) > 0 {
				if err := json.Unmarshal(respBody, out); err != nil {
					return retry.NonRetryable(errors.WrapInvalid(err, "rest", "DoRequest", "decode response body"))
				}
			}
			return nil
		}

		if !retryableStatus[status] {
			return retry.NonRetryable(classifyStatus(status, respBody))
		}

		c.metrics.retry(status)
		return fmt.Errorf("retryable status %d", status)
	})

	if err != nil {
		outcome = "error"
		if lastStatus != 0 {
			outcome = fmt.Sprintf("status_%d", lastStatus)
		}
		return err
	}

	return nil
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, errors.WrapInvalid(err, "rest", "send", "build request")
	}
	req.Header.Set("x-api-key", c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, errors.WrapTransient(err, "rest", "send", "http request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, errors.WrapTransient(err, "rest", "send", "read response body")
	}

	return resp.StatusCode, respBody, nil
}

// classifyStatus maps a non-retryable HTTP status to the shared error
// taxonomy.
func classifyStatus(status int, body []byte) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.WrapFatal(errors.ErrRESTUnauthorized, "rest", "send", fmt.Sprintf("status %d: %s", status, string(body)))
	case http.StatusBadRequest:
		return errors.WrapInvalid(errors.ErrRESTBadRequest, "rest", "send", fmt.Sprintf("status %d: %s", status, string(body)))
	default:
		return errors.WrapInvalid(fmt.Errorf("unexpected status %d: %s", status, string(body)), "rest", "send", "unretryable response")
	}
}

// articlesResponse mirrors the wire shape: an envelope around the same
// string-dates/string-confidence article records the stream delivers.
type articlesResponse struct {
	Articles []json.RawMessage `json:"articles"`
	Total    int               `json:"total"`
}

// ArticlesPage is the coerced result of GetArticles.
type ArticlesPage struct {
	Articles []stream.Article
	Total    int
}

// GetArticles calls GET /v2/articles with the given query parameters
// and coerces each result through the same transformer the streaming
// client uses, so REST and stream consumers see identical article
// shapes.
func (c *Client) GetArticles(ctx context.Context, params url.Values) (*ArticlesPage, error) {
	path := "/v2/articles"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var raw articlesResponse
	if err := c.DoRequest(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	page := &ArticlesPage{Total: raw.Total, Articles: make([]stream.Article, 0, len(raw.Articles))}
	for _, r := range raw.Articles {
		article, err := stream.TransformEnriched(r)
		if err != nil {
			c.logger.Printf("rest: dropping malformed article in response: %v", err)
			continue
		}
		page.Articles = append(page.Articles, article)
	}

	return page, nil
}

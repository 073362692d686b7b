package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	cueerrors "github.com/tessro/cue/internal/errors"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	// BaseURL is the Spotify Web API base URL.
	BaseURL = "https://api.spotify.com/v1"

	defaultRateLimit = 10
	defaultRateBurst = 5
)

// Client is a Spotify Web API client. It issues each request exactly once;
// retry policy belongs to callers, which know whether an operation is safe
// to repeat.
type Client struct {
	httpClient *http.Client
	tokens     oauth2.TokenSource
	limiter    *rate.Limiter
	baseURL    string
	logger     *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithRateLimit bounds outgoing requests to perSecond with the given burst.
// A non-positive perSecond disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a new Spotify client that authenticates with tokens.
func New(tokens oauth2.TokenSource, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     tokens,
		limiter:    rate.NewLimiter(rate.Limit(defaultRateLimit), defaultRateBurst),
		baseURL:    BaseURL,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs a GET request to the Spotify API.
func (c *Client) Get(ctx context.Context, path string, result interface{}) error {
	_, err := c.request(ctx, http.MethodGet, path, nil, result)
	return err
}

// Post performs a POST request to the Spotify API.
func (c *Client) Post(ctx context.Context, path string, body interface{}, result interface{}) error {
	_, err := c.request(ctx, http.MethodPost, path, body, result)
	return err
}

// Put performs a PUT request to the Spotify API.
func (c *Client) Put(ctx context.Context, path string, body interface{}, result interface{}) error {
	_, err := c.request(ctx, http.MethodPut, path, body, result)
	return err
}

// Delete performs a DELETE request to the Spotify API. Some endpoints take a
// JSON body on DELETE; body may be nil.
func (c *Client) Delete(ctx context.Context, path string, body interface{}, result interface{}) error {
	_, err := c.request(ctx, http.MethodDelete, path, body, result)
	return err
}

func (c *Client) request(ctx context.Context, method, path string, body interface{}, result interface{}) (int, error) {
	token, err := c.tokens.Token()
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}

	var jsonBody []byte
	if body != nil {
		jsonBody, err = json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	fullURL := c.baseURL + path
	if jsonBody != nil {
		c.logger.Debug("spotify request", "method", method, "url", fullURL, "body", string(jsonBody))
	} else {
		c.logger.Debug("spotify request", "method", method, "url", fullURL)
	}

	var bodyReader io.Reader
	if jsonBody != nil {
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	token.SetAuthHeader(req)
	if jsonBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, cueerrors.Transient(fmt.Errorf("%s %s: %w", method, path, err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, cueerrors.Transient(fmt.Errorf("failed to read response: %w", err))
	}

	c.logger.Debug("spotify response", "status", resp.StatusCode, "url", fullURL)

	if resp.StatusCode >= 400 {
		apiErr := parseAPIError(resp, respBody)
		c.logger.Debug("spotify error body", "status", resp.StatusCode, "body", string(respBody))
		return resp.StatusCode, apiErr
	}

	if resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, nil
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return resp.StatusCode, nil
}

func parseAPIError(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.ErrorInfo.Status == 0 {
		apiErr.ErrorInfo.Status = resp.StatusCode
		if apiErr.ErrorInfo.Message == "" {
			apiErr.ErrorInfo.Message = http.StatusText(resp.StatusCode)
		}
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
			apiErr.RetryAfter = time.Duration(secs) * time.Second
		}
	}
	return apiErr
}

// APIError represents a Spotify API error response.
type APIError struct {
	ErrorInfo struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
		Reason  string `json:"reason,omitempty"`
	} `json:"error"`
	RetryAfter time.Duration `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Spotify API error %d: %s", e.ErrorInfo.Status, e.ErrorInfo.Message)
}

// Unwrap maps the HTTP status onto the shared error taxonomy.
func (e *APIError) Unwrap() []error {
	switch status := e.ErrorInfo.Status; {
	case status == http.StatusUnauthorized:
		return []error{cueerrors.ErrUnauthenticated}
	case status == http.StatusNotFound:
		if e.ErrorInfo.Reason == "NO_ACTIVE_DEVICE" {
			return []error{cueerrors.ErrNotFound, cueerrors.ErrNoActiveDevice}
		}
		return []error{cueerrors.ErrNotFound}
	case status == http.StatusConflict, status == http.StatusPreconditionFailed:
		return []error{cueerrors.ErrConflict}
	case status == http.StatusTooManyRequests:
		return []error{cueerrors.ErrTransient, cueerrors.ErrRateLimited}
	case status >= 500:
		return []error{cueerrors.ErrTransient}
	}
	return nil
}

// BuildURL builds a URL with query parameters.
func BuildURL(path string, params map[string]string) string {
	if len(params) == 0 {
		return path
	}

	u, _ := url.Parse(path)
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

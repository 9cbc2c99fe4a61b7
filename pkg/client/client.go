package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/naveenspark/coachdesk/pkg/notice"
)

// DefaultTimeout bounds every request unless overridden with WithTimeout.
const DefaultTimeout = 10 * time.Second

// RequestIDHeader carries a per-request correlation ID to the backend.
const RequestIDHeader = "X-Request-ID"

// Session supplies the bearer token and is told when the server rejects it.
type Session interface {
	Token() string
	Logout()
}

// Client is the training backend API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	notifier   notice.Notifier
	refCache   *cache.Cache

	mu      sync.RWMutex
	session Session
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithNotifier sets where user-facing failure messages are sent.
func WithNotifier(n notice.Notifier) Option {
	return func(c *Client) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithSession attaches the session at construction time.
func WithSession(s Session) Option {
	return func(c *Client) {
		c.session = s
	}
}

// New creates a new API client. baseURL includes the versioned prefix,
// e.g. http://localhost:8000/api/v1.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger:   zap.NewNop(),
		notifier: notice.Discard,
		refCache: cache.New(referenceTTL, 2*referenceTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AttachSession wires the session whose token is sent with every request and
// whose Logout runs when the server answers 401.
func (c *Client) AttachSession(s Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

func (c *Client) currentSession() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPut, path, body, out)
}

// postAnonymous posts without the session's token. A 401 from it is a
// rejected credential in the body, not an expired session, so it never logs out.
func (c *Client) postAnonymous(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out, true)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	return c.do(ctx, method, path, body, out, false)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any, anonymous bool) error {
	err := c.send(ctx, method, path, body, out, anonymous)
	if err != nil {
		c.notifier.Notify(notice.Error, UserMessage(err))
	}
	return err
}

// ResetCache drops cached reference data. The session calls it whenever the
// signed-in account changes.
func (c *Client) ResetCache() {
	c.refCache.Flush()
}

func (c *Client) send(ctx context.Context, method, path string, body any, out any, anonymous bool) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &HTTPError{Kind: KindConfig, Err: fmt.Errorf("marshal body: %w", err)}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &HTTPError{Kind: KindConfig, Err: fmt.Errorf("create request: %w", err)}
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	var sess Session
	if !anonymous {
		sess = c.currentSession()
	}
	credentialed := false
	if sess != nil {
		if tok := sess.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
			credentialed = true
		}
	}

	log := c.logger.With(
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
	)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("api request failed", zap.Duration("duration", time.Since(start)), zap.Error(err))
		return &HTTPError{Kind: KindNetwork, Err: fmt.Errorf("do request: %w", err)}
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	log = log.With(zap.Int("status", resp.StatusCode), zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := readError(resp)
		httpErr.Credentialed = credentialed
		if resp.StatusCode == http.StatusUnauthorized && sess != nil {
			log.Info("api rejected credentials, ending session")
			sess.Logout()
		}
		log.Warn("api error response", zap.String("message", httpErr.Message))
		return httpErr
	}
	log.Debug("api request")

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return &HTTPError{Kind: KindStatus, StatusCode: resp.StatusCode, Message: "malformed response body", Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// readError builds an HTTPError from a non-2xx response. The backend reports
// errors as {"detail": "..."} or, for validation failures, {"detail": [{"msg": "..."}]};
// some gateways use "message" or "error" instead.
func readError(resp *http.Response) *HTTPError {
	httpErr := &HTTPError{Kind: KindStatus, StatusCode: resp.StatusCode}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
	if err != nil {
		httpErr.Message = fmt.Sprintf("failed to read body: %v", err)
		return httpErr
	}

	var apiErr struct {
		Message string          `json:"message"`
		Error   string          `json:"error"`
		Detail  json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(respBody, &apiErr) != nil {
		httpErr.Message = strings.TrimSpace(string(respBody))
		return httpErr
	}

	var detailText string
	if len(apiErr.Detail) > 0 {
		var items []struct {
			Msg string `json:"msg"`
		}
		if json.Unmarshal(apiErr.Detail, &items) == nil {
			for _, it := range items {
				if it.Msg != "" {
					httpErr.Details = append(httpErr.Details, it.Msg)
				}
			}
		} else {
			_ = json.Unmarshal(apiErr.Detail, &detailText) //nolint:errcheck // non-string detail is ignored
		}
	}

	switch {
	case apiErr.Message != "":
		httpErr.Message = apiErr.Message
	case detailText != "":
		httpErr.Message = detailText
	case apiErr.Error != "":
		httpErr.Message = apiErr.Error
	case len(httpErr.Details) > 0:
		httpErr.Message = strings.Join(httpErr.Details, ", ")
	default:
		httpErr.Message = http.StatusText(resp.StatusCode)
	}
	return httpErr
}

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/gymflow/portal/pkg/util"
)

const maxResponseBytes = 4 << 20

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Credentials is the session side of the transport: it supplies the bearer token and is told
// when the API refuses it.
type Credentials interface {
	Token() string
	// Reject reports whether this call cleared the session.
	Reject(ctx context.Context, token string) bool
}

// Client talks to the remote GymFlow REST API.
type Client struct {
	http    httpClient
	baseURL url.URL
	logger  *zap.Logger
	creds   Credentials
}

// New builds an unbound client. Calls that need a session fail with SESSION_REJECTED until the
// client is bound with WithCredentials.
func New(client httpClient, baseURL string, logger *zap.Logger) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("api base url %q must be absolute", baseURL)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{http: client, baseURL: *parsed, logger: logger}, nil
}

// WithCredentials returns a copy of the client bound to one session.
func (c *Client) WithCredentials(creds Credentials) *Client {
	bound := *c
	bound.creds = creds
	return &bound
}

type call struct {
	method string
	path   []string
	query  url.Values
	body   any
	// bearer attaches the bound session's token and routes 401s back to the session.
	bearer bool
	// token is sent as-is, without rejection handling. Used for identity resolution.
	token string
}

func (c *Client) do(ctx context.Context, cl call, out any) error {
	endpoint := c.baseURL.JoinPath(cl.path...)
	if len(cl.query) > 0 {
		endpoint.RawQuery = cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return apperrors.NewInternalError(fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, endpoint.String(), body)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token := cl.token
	if cl.bearer && c.creds != nil {
		token = c.creds.Token()
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("api call failed", zap.String("method", cl.method), zap.String("url", endpoint.Path), zap.Error(err))
		return apperrors.NewUpstreamUnavailable(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return apperrors.NewUpstreamUnavailable(err)
	}
	c.logger.Debug("api call",
		zap.String("method", cl.method),
		zap.String("url", endpoint.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode == http.StatusUnauthorized && cl.bearer {
		if token != "" && c.creds != nil && c.creds.Reject(ctx, token) {
			c.logger.Info("api rejected session token", zap.String("url", endpoint.Path))
		}
		return apperrors.NewSessionRejected()
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message, details := decodeFailure(raw)
		return apperrors.NewUpstreamError(resp.StatusCode, message, details)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperrors.NewUpstreamError(http.StatusBadGateway, "malformed api response", map[string]any{"reason": err.Error()})
	}
	return nil
}

// decodeFailure extracts the human-readable message and the full payload of an error response.
func decodeFailure(raw []byte) (string, map[string]any) {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		text := strings.TrimSpace(string(raw))
		if text == "" {
			return "", nil
		}
		return text, nil
	}
	for _, key := range []string{"message", "error", "detail", "msg"} {
		if msg, ok := payload[key].(string); ok && msg != "" {
			return msg, payload
		}
	}
	return "", payload
}

// decodeList accepts either a bare JSON array or an object wrapping it under one of keys.
func decodeList[T any](raw json.RawMessage, keys ...string) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}
	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, malformed(err)
		}
		return items, nil
	}
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, malformed(err)
	}
	for _, key := range keys {
		if inner, ok := wrapper[key]; ok {
			return decodeList[T](inner)
		}
	}
	return []T{}, nil
}

// decodeItem accepts either the object itself or an object wrapping it under one of keys.
func decodeItem[T any](raw json.RawMessage, keys ...string) (*T, error) {
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, malformed(err)
	}
	for _, key := range keys {
		if inner, ok := wrapper[key]; ok && len(inner) > 0 && inner[0] == '{' {
			raw = inner
			break
		}
	}
	var item T
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, malformed(err)
	}
	return &item, nil
}

func malformed(err error) error {
	return apperrors.NewUpstreamError(http.StatusBadGateway, "malformed api response", map[string]any{"reason": err.Error()})
}

// Ping checks that the API answers at all.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.String(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return errors.New(resp.Status)
	}
	return nil
}

// Package httpapi is the JSON-over-HTTP plumbing shared by the service clients:
// bearer forwarding, request ids and the mapping of transport outcomes onto the
// errs package.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"logiflow/internal/core/domain/model/session"
	"logiflow/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries a fresh id per outbound call.
	RequestIDHeader = "X-Request-ID"

	DefaultTimeout = 10 * time.Second

	maxErrorBody = 4 << 10
)

// Config describes one backend.
type Config struct {
	// Service names the backend in errors and logs.
	Service string
	BaseURL string
	Timeout time.Duration

	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client sends JSON requests to one backend.
type Client struct {
	service string
	baseURL *url.URL
	http    *http.Client
	logger  *slog.Logger
}

// Request is one call. Path is joined onto the base URL; callers escape the
// segments they interpolate.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Service) == "" {
		return nil, errs.NewValueIsRequiredError("service")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errs.NewValueIsRequiredError(cfg.Service + " base url")
	}

	base, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil || base.Scheme == "" || base.Host == "" {
		if err == nil {
			err = fmt.Errorf("%q is not an absolute url", cfg.BaseURL)
		}
		return nil, errs.NewValueIsInvalidErrorWithCause(cfg.Service+" base url", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		service: cfg.Service,
		baseURL: base,
		http:    httpClient,
		logger:  logger.With("component", cfg.Service+"-client"),
	}, nil
}

// Service returns the backend name.
func (c *Client) Service() string {
	return c.service
}

// Logger returns the client's logger, tagged with the backend component.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// Do sends req on behalf of s and decodes a 2xx body into out (nil to discard).
//
// Errors:
//   - *errs.ServiceUnreachableError when no response arrived
//   - *errs.RequestRejectedError for any non-2xx status
//   - *errs.ValueIsInvalidError when a 2xx body does not decode
func (c *Client) Do(ctx context.Context, s *session.Session, req Request, out any) error {
	httpReq, requestID, err := c.newRequest(ctx, s, req)
	if err != nil {
		return err
	}

	log := c.logger.With("method", req.Method, "path", req.Path, "request_id", requestID)
	started := time.Now()

	resp, err := c.http.Do(httpReq)
	if err != nil {
		log.WarnContext(ctx, "request failed", "error", err)
		return errs.NewServiceUnreachableErrorWithCause(c.service, err)
	}
	defer resp.Body.Close()

	log.DebugContext(ctx, "response received", "status", resp.StatusCode, "elapsed", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return errs.NewRequestRejectedError(c.service, resp.StatusCode, errorMessage(body))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errs.NewValueIsInvalidErrorWithCause(c.service+" response", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, s *session.Session, req Request) (*http.Request, string, error) {
	target := c.baseURL.JoinPath(req.Path)
	if len(req.Query) > 0 {
		target.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, "", fmt.Errorf("encode %s request: %w", c.service, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), body)
	if err != nil {
		return nil, "", fmt.Errorf("build %s request: %w", c.service, err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set(RequestIDHeader, requestID)
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if s != nil && s.Token() != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.Token())
	}

	return httpReq, requestID, nil
}

// errorMessage extracts a readable message from an error body: the "message" or
// "error" field of a JSON object, else the trimmed text.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(body))
}

// IsStatus reports whether err is a rejection with the given status code.
func IsStatus(err error, code int) bool {
	var rejected *errs.RequestRejectedError
	return errors.As(err, &rejected) && rejected.StatusCode == code
}

// PathID escapes an id for use as a path segment.
func PathID(id fmt.Stringer) string {
	return url.PathEscape(id.String())
}

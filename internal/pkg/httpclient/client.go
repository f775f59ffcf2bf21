// Package httpclient issues JSON requests against the course API and classifies
// every failure as a transport, status or decode error.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/request"
)

const (
	// RequestIDHeader correlates client and server log lines
	RequestIDHeader = "X-Request-ID"

	maxResponseBytes = 8 << 20
	maxErrorBody     = 512
)

// Doer is the transport capability the client is built on. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Shape is the top-level JSON type a response body must have.
type Shape int

const (
	AnyShape Shape = iota
	ArrayShape
	ObjectShape
)

// Options configures NewHTTPClient.
type Options struct {
	Timeout   time.Duration
	Transport http.RoundTripper
}

// NewHTTPClient builds the default transport. A zero timeout means 30 seconds.
func NewHTTPClient(opts Options) *http.Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// Client sends requests relative to a base URL.
type Client struct {
	doer    Doer
	baseURL *url.URL
	logger  zerolog.Logger
}

// New creates a client. baseURL must be absolute.
func New(doer Doer, baseURL string, logger zerolog.Logger) (*Client, error) {
	if doer == nil {
		return nil, errors.New("httpclient: nil transport")
	}

	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	return &Client{
		doer:    doer,
		baseURL: u,
		logger:  logger,
	}, nil
}

// Request describes one call.
type Request struct {
	Method  string
	Path    string
	Query   request.Params
	Headers request.Headers
	Body    interface{}
}

// URL resolves the request against the base URL
func (c *Client) URL(req Request) string {
	u := c.baseURL.JoinPath(req.Path)
	u.RawQuery = req.Query.Encode()
	return u.String()
}

// Do sends req and decodes a 2xx body of the given shape into out. When ctx is
// cancelled while the request is in flight ctx.Err() is returned and nothing is logged.
func (c *Client) Do(ctx context.Context, req Request, shape Shape, out interface{}) error {
	target := c.URL(req)

	var bodyReader io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, requestID)
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	req.Headers.Apply(httpReq.Header)

	lgr := c.logger.With().
		Str("requestId", requestID).
		Str("method", req.Method).
		Str("url", target).
		Logger()

	start := time.Now()
	resp, err := c.doer.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		lgr.Warn().Err(err).Dur("duration", time.Since(start)).Msg("Course API unreachable")
		return &apperrors.TransportError{Method: req.Method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		lgr.Warn().Err(err).Int("status", resp.StatusCode).Msg("Course API response interrupted")
		return &apperrors.TransportError{Method: req.Method, URL: target, Err: err}
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		lgr.Warn().Int("status", resp.StatusCode).Dur("duration", time.Since(start)).Msg("Course API rejected request")
		return &apperrors.ResponseStatusError{
			Method:     req.Method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       snippet(body),
		}
	}

	if err := decode(body, shape, out); err != nil {
		lgr.Warn().Err(err).Int("status", resp.StatusCode).Msg("Course API returned unexpected payload")
		err.URL = target
		return err
	}

	lgr.Debug().Int("status", resp.StatusCode).Dur("duration", time.Since(start)).Msg("Course API request completed")
	return nil
}

// decode checks the top-level JSON type before unmarshalling so that a wrong
// shape never yields a partially populated value.
func decode(body []byte, shape Shape, out interface{}) *apperrors.DecodeError {
	if out == nil {
		return nil
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return &apperrors.DecodeError{Reason: "empty body"}
	}

	if !gjson.ValidBytes(body) {
		return &apperrors.DecodeError{Reason: "body is not valid JSON"}
	}

	parsed := gjson.ParseBytes(body)
	switch shape {
	case ArrayShape:
		if !parsed.IsArray() {
			return &apperrors.DecodeError{Reason: "expected a JSON array, got " + describe(parsed)}
		}
	case ObjectShape:
		if !parsed.IsObject() {
			return &apperrors.DecodeError{Reason: "expected a JSON object, got " + describe(parsed)}
		}
	}

	// Decode into a fresh value so out is only touched on success
	dst := reflect.ValueOf(out)
	if dst.Kind() != reflect.Ptr || dst.IsNil() {
		return &apperrors.DecodeError{Reason: "decode target must be a non-nil pointer"}
	}
	tmp := reflect.New(dst.Elem().Type())
	if err := json.Unmarshal(body, tmp.Interface()); err != nil {
		return &apperrors.DecodeError{Reason: "payload does not match the course schema", Err: err}
	}
	dst.Elem().Set(tmp.Elem())
	return nil
}

func describe(r gjson.Result) string {
	switch {
	case r.IsArray():
		return "array"
	case r.IsObject():
		return "object"
	default:
		return strings.ToLower(r.Type.String())
	}
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "...(truncated)"
	}
	return s
}

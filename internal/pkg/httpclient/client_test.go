package httpclient

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/request"
)

type item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := New(NewHTTPClient(Options{Timeout: 2 * time.Second}), url, zerolog.Nop())
	require.NoError(t, err)
	return c
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, "http://localhost", zerolog.Nop())
	assert.Error(t, err)

	_, err = New(http.DefaultClient, "/relative", zerolog.Nop())
	assert.Error(t, err)

	c, err := New(http.DefaultClient, "http://localhost:9000/", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/api/courses?page=1&pageSize=10",
		c.URL(Request{Path: "/api/courses", Query: request.ReadParams(request.DefaultPaging())}))
}

func TestNewHTTPClient_DefaultTimeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, NewHTTPClient(Options{}).Timeout)
	assert.Equal(t, time.Second, NewHTTPClient(Options{Timeout: time.Second}).Timeout)
}

func TestDo_SendsHeadersAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/things/3", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "userId", r.Header.Get("X-Auth"))
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"id":3,"name":"three"}`, string(body))
		w.Write(body)
	}))
	defer server.Close()

	var out item
	err := newTestClient(t, server.URL).Do(context.Background(), Request{
		Method:  http.MethodPut,
		Path:    "/api/things/3",
		Headers: request.WriteHeaders(request.DefaultIdentity()),
		Body:    item{ID: 3, Name: "three"},
	}, ObjectShape, &out)

	require.NoError(t, err)
	assert.Equal(t, item{ID: 3, Name: "three"}, out)
}

func TestDo_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "missing", http.StatusNotFound)
	}))
	defer server.Close()

	var out []item
	err := newTestClient(t, server.URL).Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"}, ArrayShape, &out)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrResponseStatus)
	assert.Equal(t, http.StatusNotFound, apperrors.StatusCode(err))
	assert.Nil(t, out)

	var statusErr *apperrors.ResponseStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, "missing", statusErr.Body)
}

func TestDo_DecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		shape Shape
	}{
		{"object where array expected", `{"id":1}`, ArrayShape},
		{"array where object expected", `[{"id":1}]`, ObjectShape},
		{"invalid json", `[{"id":1}`, ArrayShape},
		{"empty body", ``, ArrayShape},
		{"scalar", `"hello"`, ArrayShape},
		{"wrong field type", `[{"id":"one"}]`, ArrayShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			var out []item
			err := newTestClient(t, server.URL).Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"}, tt.shape, &out)

			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrDecode)
			assert.Empty(t, out, "no partially populated value")
		})
	}
}

func TestDo_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	err := newTestClient(t, url).Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"}, AnyShape, nil)
	assert.ErrorIs(t, err, apperrors.ErrTransport)
}

func TestDo_TimeoutIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	c, err := New(NewHTTPClient(Options{Timeout: 20 * time.Millisecond}), server.URL, zerolog.Nop())
	require.NoError(t, err)

	err = c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/slow"}, AnyShape, nil)
	assert.ErrorIs(t, err, apperrors.ErrTransport)
}

func TestDo_CancelledContextIsSilent(t *testing.T) {
	arrived := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(arrived)
		<-r.Context().Done()
	}))
	defer server.Close()

	var logs bytes.Buffer
	c, err := New(NewHTTPClient(Options{}), server.URL, zerolog.New(&logs))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-arrived
		cancel()
	}()

	err = c.Do(ctx, Request{Method: http.MethodGet, Path: "/x"}, AnyShape, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, apperrors.ErrTransport)
	assert.Empty(t, logs.String())
}

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(r *http.Request) (*http.Response, error) { return f(r) }

func TestDo_TeardownAfterResponseIsSilent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"rejected", http.StatusInternalServerError, `{"error":"down"}`},
		{"unexpected payload", http.StatusOK, `{"id":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(ctx)
			// The consumer goes away once the response is in hand
			doer := doerFunc(func(r *http.Request) (*http.Response, error) {
				cancel()
				return &http.Response{
					StatusCode: tt.status,
					Body:       io.NopCloser(bytes.NewBufferString(tt.body)),
					Header:     http.Header{},
					Request:    r,
				}, nil
			})

			var logs bytes.Buffer
			c, err := New(doer, "http://course-api.test", zerolog.New(&logs))
			require.NoError(t, err)

			var out []item
			err = c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/courses"}, ArrayShape, &out)
			assert.ErrorIs(t, err, context.Canceled)
			assert.Empty(t, logs.String())
			assert.Nil(t, out)
		})
	}
}

package httpapi_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"logiflow/internal/adapters/out/httpapi"
	"logiflow/internal/core/domain/model/kernel"
	"logiflow/internal/core/domain/model/session"
	"logiflow/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, handler http.HandlerFunc) *httpapi.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := httpapi.NewClient(httpapi.Config{Service: "orders", BaseURL: srv.URL + "/api"})
	require.NoError(t, err)
	return c
}

func TestClient_Do_SendsHeadersAndDecodes(t *testing.T) {
	var got *http.Request
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 42}`))
	})
	s := session.NewSession("abc.def.ghi", session.RoleDriver, "Ana", kernel.IDFromInt(500))

	var out struct {
		ID kernel.ID `json:"id"`
	}
	err := c.Do(t.Context(), s, httpapi.Request{
		Method: http.MethodPatch,
		Path:   "/orders/42/status",
		Query:  url.Values{"status": {"EN_RUTA"}},
	}, &out)

	require.NoError(t, err)
	assert.Equal(t, "42", out.ID.String())
	assert.Equal(t, http.MethodPatch, got.Method)
	assert.Equal(t, "/api/orders/42/status", got.URL.Path)
	assert.Equal(t, "EN_RUTA", got.URL.Query().Get("status"))
	assert.Equal(t, "Bearer abc.def.ghi", got.Header.Get("Authorization"))

	_, err = uuid.Parse(got.Header.Get(httpapi.RequestIDHeader))
	assert.NoError(t, err)
}

func TestClient_Do_SendsJSONBody(t *testing.T) {
	var contentType string
	var body []byte
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	})

	err := c.Do(t.Context(), nil, httpapi.Request{
		Method: http.MethodPost,
		Path:   "/orders",
		Body:   map[string]string{"description": "Box"},
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)
	assert.JSONEq(t, `{"description":"Box"}`, string(body))
}

func TestClient_Do_EmptySuccessBody(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	var out map[string]any
	assert.NoError(t, c.Do(t.Context(), nil, httpapi.Request{Method: http.MethodPut, Path: "/x"}, &out))
}

func TestClient_Do_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{name: "json message", status: http.StatusConflict, body: `{"message":"vehicle busy"}`, message: "vehicle busy"},
		{name: "json error", status: http.StatusBadRequest, body: `{"error":"bad status"}`, message: "bad status"},
		{name: "plain text", status: http.StatusInternalServerError, body: "  boom\n", message: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			err := c.Do(t.Context(), nil, httpapi.Request{Method: http.MethodGet, Path: "/orders"}, nil)

			require.ErrorIs(t, err, errs.ErrRequestRejected)
			assert.True(t, httpapi.IsStatus(err, tt.status))

			var rejected *errs.RequestRejectedError
			require.ErrorAs(t, err, &rejected)
			assert.Equal(t, "orders", rejected.Service)
			assert.Equal(t, tt.message, rejected.Message)
		})
	}
}

func TestClient_Do_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := httpapi.NewClient(httpapi.Config{Service: "fleet", BaseURL: base, Timeout: time.Second})
	require.NoError(t, err)

	err = c.Do(t.Context(), nil, httpapi.Request{Method: http.MethodGet, Path: "/fleet/drivers"}, nil)

	assert.ErrorIs(t, err, errs.ErrServiceUnreachable)
	assert.False(t, errs.IsRejected(err))
}

func TestClient_Do_CancelledContextIsUnreachable(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := c.Do(ctx, nil, httpapi.Request{Method: http.MethodGet, Path: "/orders"}, nil)
	assert.ErrorIs(t, err, errs.ErrServiceUnreachable)
}

func TestClient_Do_UndecodableBody(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[1,2`))
	})

	var out []int
	err := c.Do(t.Context(), nil, httpapi.Request{Method: http.MethodGet, Path: "/orders"}, &out)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNewClient_Validation(t *testing.T) {
	_, err := httpapi.NewClient(httpapi.Config{BaseURL: "http://localhost"})
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = httpapi.NewClient(httpapi.Config{Service: "orders"})
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = httpapi.NewClient(httpapi.Config{Service: "orders", BaseURL: "localhost:8080"})
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

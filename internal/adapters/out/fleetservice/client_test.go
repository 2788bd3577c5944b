package fleetservice_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"logiflow/internal/adapters/out/fleetservice"
	"logiflow/internal/adapters/out/httpapi"
	"logiflow/internal/core/domain/model/fleet"
	"logiflow/internal/core/domain/model/kernel"
	"logiflow/internal/core/domain/model/session"
	"logiflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, mux *http.ServeMux) *fleetservice.Client {
	t.Helper()

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	api, err := httpapi.NewClient(httpapi.Config{Service: "fleet", BaseURL: srv.URL})
	require.NoError(t, err)
	return fleetservice.NewClient(api)
}

func driver() *session.Session {
	return session.NewSession("tok", session.RoleDriver, "Ana", kernel.IDFromInt(500))
}

func TestListDrivers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /fleet/drivers", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id": 10, "userId": 500, "status": "DISPONIBLE"},
			{"id": 11, "user_id": 501, "status": "NO_DISPONIBLE"}
		]`))
	})

	drivers, err := newClient(t, mux).ListDrivers(t.Context(), driver())

	require.NoError(t, err)
	p, ok := fleet.FindByUserID(drivers, kernel.IDFromInt(501))
	require.True(t, ok)
	assert.Equal(t, "11", p.ID().String())
	assert.False(t, p.IsOnline())
}

func TestGetDriverVehicle(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /fleet/drivers/{id}/vehicle", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("id") {
		case "10":
			_, _ = w.Write([]byte(`{"id": 7, "brand": "Toyota", "model": "Hilux", "plate": "PBA-1234"}`))
		case "11":
			http.NotFound(w, r)
		default:
			_, _ = w.Write([]byte(`null`))
		}
	})
	c := newClient(t, mux)

	v, err := c.GetDriverVehicle(t.Context(), driver(), kernel.IDFromInt(10))
	require.NoError(t, err)
	assert.Equal(t, "Toyota Hilux (PBA-1234)", v.Label())

	_, err = c.GetDriverVehicle(t.Context(), driver(), kernel.IDFromInt(11))
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)

	_, err = c.GetDriverVehicle(t.Context(), driver(), kernel.IDFromInt(12))
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestGetDriverVehicle_ServerErrorIsNotNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /fleet/drivers/{id}/vehicle", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := newClient(t, mux).GetDriverVehicle(t.Context(), driver(), kernel.IDFromInt(10))

	assert.ErrorIs(t, err, errs.ErrRequestRejected)
	assert.NotErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestSetAvailability(t *testing.T) {
	var status string
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /fleet/drivers/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.PathValue("id"))
		status = r.URL.Query().Get("status")
		w.WriteHeader(http.StatusOK)
	})
	c := newClient(t, mux)

	require.NoError(t, c.SetAvailability(t.Context(), driver(), kernel.IDFromInt(10), fleet.Unavailable))
	assert.Equal(t, "NO_DISPONIBLE", status)

	err := c.SetAvailability(t.Context(), driver(), kernel.IDFromInt(10), fleet.AvailabilityUnknown)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

package http

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"

	"logiflow/internal/core/application/views"
	"logiflow/internal/core/domain/model/session"
	"logiflow/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const viewContextKey = "logiflow.view"

// requireView evaluates the access gate of path and puts the device's mounted
// view in the echo context.
//
// The credential comes from the Authorization header or, failing that, from the
// session stored for the device cookie. Requests carrying only a header are keyed
// by a digest of the credential instead of a device.
func (s *Server) requireView(path string) echo.MiddlewareFunc {
	gate, ok := s.gates[path]
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !ok {
				return s.fail(c, errs.NewObjectNotFoundError("view", path))
			}

			device := s.deviceOf(c)
			token, err := s.credential(c, device)
			if err != nil {
				return s.fail(c, err)
			}

			decision := gate.Evaluate(token)
			if !decision.Allowed() {
				return s.fail(c, decision.Err)
			}

			if device == "" {
				device = credentialDevice(token)
			}

			view, err := s.registry.Open(c.Request().Context(), device, path, decision.Session)
			if err != nil {
				return s.fail(c, err)
			}
			view.Touch()

			c.Set(viewContextKey, view)
			return next(c)
		}
	}
}

// credential returns the raw credential of the request, or "" when it has none.
func (s *Server) credential(c echo.Context, device string) (string, error) {
	if token := session.StripBearer(c.Request().Header.Get(echo.HeaderAuthorization)); token != "" {
		return token, nil
	}
	if device == "" {
		return "", nil
	}

	sess, err := s.sessions.Current(c.Request().Context(), device)
	switch {
	case err == nil:
		return sess.Token(), nil
	case errors.Is(err, session.ErrCredentialMissing):
		return "", nil
	default:
		return "", err
	}
}

func (s *Server) deviceOf(c echo.Context) string {
	cookie, err := c.Cookie(s.deviceCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (s *Server) setDeviceCookie(c echo.Context, device string) {
	c.SetCookie(&http.Cookie{
		Name:     s.deviceCookie,
		Value:    device,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearDeviceCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     s.deviceCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func newDeviceID() string {
	return uuid.NewString()
}

func credentialDevice(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "bearer:" + hex.EncodeToString(sum[:16])
}

// viewAs returns the view requireView stored, as a T.
func viewAs[T views.View](c echo.Context) (T, error) {
	var zero T
	view, ok := c.Get(viewContextKey).(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s", errViewMismatch, c.Path())
	}
	return view, nil
}

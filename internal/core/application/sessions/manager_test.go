package sessions_test

import (
	"context"
	"errors"
	"testing"

	"logiflow/internal/core/application/sessions"
	"logiflow/internal/core/domain/model/session"
	"logiflow/internal/core/ports"
	"logiflow/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSessionStore struct{ mock.Mock }

func (m *MockSessionStore) Save(ctx context.Context, device string, s ports.StoredSession) error {
	args := m.Called(ctx, device, s)
	return args.Error(0)
}

func (m *MockSessionStore) Load(ctx context.Context, device string) (ports.StoredSession, error) {
	args := m.Called(ctx, device)
	stored, _ := args.Get(0).(ports.StoredSession)
	return stored, args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, device string) error {
	args := m.Called(ctx, device)
	return args.Error(0)
}

func mint(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func newManager(t *testing.T, store ports.SessionStore) *sessions.Manager {
	t.Helper()

	m, err := sessions.NewManager(session.NewResolver(session.DefaultResolverConfig()), store, nil)
	require.NoError(t, err)
	return m
}

func TestManager_BeginStoresTheResolvedRole(t *testing.T) {
	token := mint(t, jwt.MapClaims{"sub": "ana", "role": "ROLE_REPARTIDOR", "userId": 500})
	store := new(MockSessionStore)
	store.On("Save", mock.Anything, "device-1", mock.MatchedBy(func(s ports.StoredSession) bool {
		return s.Token == token && s.Role == "driver" && !s.UpdatedAt.IsZero()
	})).Return(nil).Once()

	s, err := newManager(t, store).Begin(t.Context(), "device-1", "Bearer "+token)

	require.NoError(t, err)
	assert.Equal(t, session.RoleDriver, s.Role())
	assert.Equal(t, "500", s.UserID().String())
	store.AssertExpectations(t)
}

func TestManager_BeginRejectsBadCredentials(t *testing.T) {
	store := new(MockSessionStore)
	m := newManager(t, store)

	_, err := m.Begin(t.Context(), "device-1", "not-a-token")
	require.ErrorIs(t, err, session.ErrCredentialInvalid)

	_, err = m.Begin(t.Context(), "device-1", "")
	require.ErrorIs(t, err, session.ErrCredentialMissing)

	_, err = m.Begin(t.Context(), " ", mint(t, jwt.MapClaims{"role": "admin"}))
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	assert.Empty(t, store.Calls)
}

func TestManager_CurrentReloads(t *testing.T) {
	token := mint(t, jwt.MapClaims{"sub": "sofia", "roles": []string{"gerente"}})
	store := new(MockSessionStore)
	store.On("Load", mock.Anything, "device-1").Return(ports.StoredSession{Token: token, Role: "manager"}, nil).Once()

	s, err := newManager(t, store).Current(t.Context(), "device-1")

	require.NoError(t, err)
	assert.Equal(t, session.RoleManager, s.Role())
	assert.Equal(t, session.SupervisorHome, s.HomePath())
}

func TestManager_CurrentWithoutSession(t *testing.T) {
	store := new(MockSessionStore)
	store.On("Load", mock.Anything, "device-1").Return(nil, errs.NewObjectNotFoundError("session", "device-1")).Once()
	m := newManager(t, store)

	_, err := m.Current(t.Context(), "device-1")
	require.ErrorIs(t, err, session.ErrCredentialMissing)

	_, err = m.Current(t.Context(), "")
	require.ErrorIs(t, err, session.ErrCredentialMissing)
}

func TestManager_CurrentDropsUnusableCredential(t *testing.T) {
	store := new(MockSessionStore)
	store.On("Load", mock.Anything, "device-1").Return(ports.StoredSession{Token: "garbage"}, nil).Once()
	store.On("Delete", mock.Anything, "device-1").Return(nil).Once()

	_, err := newManager(t, store).Current(t.Context(), "device-1")

	require.ErrorIs(t, err, session.ErrCredentialInvalid)
	store.AssertExpectations(t)
}

func TestManager_CurrentStoreFailure(t *testing.T) {
	store := new(MockSessionStore)
	store.On("Load", mock.Anything, "device-1").Return(nil, errors.New("connection reset")).Once()

	_, err := newManager(t, store).Current(t.Context(), "device-1")

	require.Error(t, err)
	assert.False(t, session.IsCredentialError(err))
}

func TestManager_End(t *testing.T) {
	store := new(MockSessionStore)
	store.On("Delete", mock.Anything, "device-1").Return(errs.NewObjectNotFoundError("session", "device-1")).Once()
	store.On("Delete", mock.Anything, "device-2").Return(errors.New("disk full")).Once()
	m := newManager(t, store)

	require.NoError(t, m.End(t.Context(), "device-1"))
	require.Error(t, m.End(t.Context(), "device-2"))
	require.NoError(t, m.End(t.Context(), ""))
}

func TestNewManager_Validation(t *testing.T) {
	_, err := sessions.NewManager(nil, new(MockSessionStore), nil)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = sessions.NewManager(session.NewResolver(session.DefaultResolverConfig()), nil, nil)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

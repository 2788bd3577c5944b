package queries_test

import (
	"context"
	"errors"
	"testing"

	"logiflow/internal/core/application/usecases/queries"
	"logiflow/internal/core/domain/model/fleet"
	"logiflow/internal/core/domain/model/kernel"
	"logiflow/internal/core/domain/model/session"
	"logiflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MockFleetService struct{ mock.Mock }

func (m *MockFleetService) ListDrivers(ctx context.Context, s *session.Session) ([]*fleet.DriverProfile, error) {
	args := m.Called(ctx, s)
	drivers, _ := args.Get(0).([]*fleet.DriverProfile)
	return drivers, args.Error(1)
}

func (m *MockFleetService) GetDriverVehicle(ctx context.Context, s *session.Session, driverID kernel.ID) (*fleet.Vehicle, error) {
	args := m.Called(ctx, s, driverID)
	v, _ := args.Get(0).(*fleet.Vehicle)
	return v, args.Error(1)
}

func (m *MockFleetService) SetAvailability(
	ctx context.Context,
	s *session.Session,
	driverID kernel.ID,
	availability fleet.Availability,
) error {
	args := m.Called(ctx, s, driverID, availability)
	return args.Error(0)
}

type ResolveDriverQueryHandlerTestSuite struct {
	suite.Suite

	fleet   *MockFleetService
	handler queries.ResolveDriverQueryHandler
	session *session.Session
	drivers []*fleet.DriverProfile
	vehicle *fleet.Vehicle
}

func (s *ResolveDriverQueryHandlerTestSuite) SetupTest() {
	s.fleet = new(MockFleetService)
	s.handler = queries.NewResolveDriverQueryHandler(s.fleet, nil)
	s.session = session.NewSession("token", session.RoleDriver, "Ana", kernel.IDFromInt(500))

	other, err := fleet.RestoreDriverProfile(kernel.IDFromInt(9), kernel.IDFromInt(400), fleet.Available)
	s.Require().NoError(err)
	own, err := fleet.RestoreDriverProfile(kernel.IDFromInt(10), kernel.IDFromInt(500), fleet.Unavailable)
	s.Require().NoError(err)
	s.drivers = []*fleet.DriverProfile{other, own}

	s.vehicle, err = fleet.RestoreVehicle(kernel.IDFromInt(7), "Toyota", "Hilux", "PBA-1234")
	s.Require().NoError(err)
}

func (s *ResolveDriverQueryHandlerTestSuite) TestResolvesProfileAndVehicle() {
	s.fleet.On("ListDrivers", mock.Anything, s.session).Return(s.drivers, nil).Once()
	s.fleet.On("GetDriverVehicle", mock.Anything, s.session, kernel.IDFromInt(10)).Return(s.vehicle, nil).Once()

	got, err := s.handler.Handle(s.T().Context(), s.session, queries.NewResolveDriverQuery())

	s.Require().NoError(err)
	s.Equal("10", got.Driver().ID().String())
	s.Equal(fleet.Unavailable, got.Driver().Availability())
	s.Equal("7", got.VehicleID().String())
	s.fleet.AssertExpectations(s.T())
}

func (s *ResolveDriverQueryHandlerTestSuite) TestNoVehicleIsNotAnError() {
	s.fleet.On("ListDrivers", mock.Anything, s.session).Return(s.drivers, nil).Once()
	s.fleet.On("GetDriverVehicle", mock.Anything, s.session, kernel.IDFromInt(10)).
		Return(nil, errs.NewObjectNotFoundError("vehicle", "driver 10")).Once()

	got, err := s.handler.Handle(s.T().Context(), s.session, queries.NewResolveDriverQuery())

	s.Require().NoError(err)
	s.False(got.HasVehicle())
	s.True(got.VehicleID().IsZero())
}

func (s *ResolveDriverQueryHandlerTestSuite) TestUnknownUser() {
	stranger := session.NewSession("token", session.RoleDriver, "", kernel.IDFromInt(999))
	s.fleet.On("ListDrivers", mock.Anything, stranger).Return(s.drivers, nil).Once()

	_, err := s.handler.Handle(s.T().Context(), stranger, queries.NewResolveDriverQuery())

	s.Require().ErrorIs(err, errs.ErrObjectNotFound)
	s.fleet.AssertNotCalled(s.T(), "GetDriverVehicle", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ResolveDriverQueryHandlerTestSuite) TestFleetErrorsPropagate() {
	unreachable := errs.NewServiceUnreachableErrorWithCause("fleet", errors.New("timeout"))
	s.fleet.On("ListDrivers", mock.Anything, s.session).Return(s.drivers, nil).Once()
	s.fleet.On("GetDriverVehicle", mock.Anything, s.session, kernel.IDFromInt(10)).Return(nil, unreachable).Once()

	_, err := s.handler.Handle(s.T().Context(), s.session, queries.NewResolveDriverQuery())

	s.Require().ErrorIs(err, errs.ErrServiceUnreachable)
}

func (s *ResolveDriverQueryHandlerTestSuite) TestListFailure() {
	s.fleet.On("ListDrivers", mock.Anything, s.session).Return(nil, errs.NewRequestRejectedError("fleet", 500, "")).Once()

	_, err := s.handler.Handle(s.T().Context(), s.session, queries.NewResolveDriverQuery())

	s.Require().ErrorIs(err, errs.ErrRequestRejected)
}

func TestResolveDriverQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ResolveDriverQueryHandlerTestSuite))
}

func TestResolveDriverQueryHandler_Rejections(t *testing.T) {
	h := queries.NewResolveDriverQueryHandler(new(MockFleetService), nil)

	_, err := h.Handle(t.Context(), nil, queries.NewResolveDriverQuery())
	require.ErrorIs(t, err, session.ErrCredentialMissing)

	requester := session.NewSession("t", session.RoleRequester, "", kernel.IDFromInt(1))
	_, err = h.Handle(t.Context(), requester, queries.NewResolveDriverQuery())
	require.ErrorIs(t, err, session.ErrRoleUnauthorized)

	anonymous := session.NewSession("t", session.RoleDriver, "", kernel.ID{})
	_, err = h.Handle(t.Context(), anonymous, queries.NewResolveDriverQuery())
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = h.Handle(t.Context(), anonymous, queries.ResolveDriverQuery{})
	assert.ErrorIs(t, err, queries.ErrResolveDriverQueryIsNotConstructed)
}

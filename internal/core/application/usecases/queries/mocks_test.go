package queries_test

import (
	"context"
	"testing"
	"time"

	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/core/domain/model/parcel"
	"sendit/internal/core/domain/model/user"
	"sendit/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockParcelReader struct{ mock.Mock }

func (m *MockParcelReader) Get(ctx context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*parcel.Parcel), args.Error(1)
}

func (m *MockParcelReader) List(ctx context.Context, filter ports.ParcelFilter) ([]*parcel.Parcel, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*parcel.Parcel), args.Error(1)
}

var fixtureNow = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

func mustActor(t *testing.T, id kernel.UUID, role user.Role) user.Actor {
	t.Helper()
	a, err := user.NewActor(id, role)
	require.NoError(t, err)
	return a
}

func newTestParcel(t *testing.T, senderID kernel.UUID, receiverID *kernel.UUID) *parcel.Parcel {
	t.Helper()
	pickupPoint, err := kernel.NewGeoPoint(-1.2864, 36.8172)
	require.NoError(t, err)
	destinationPoint, err := kernel.NewGeoPoint(-4.0622, 39.6650)
	require.NoError(t, err)

	pickup, err := parcel.NewAddress("Kenyatta Avenue, Nairobi", pickupPoint)
	require.NoError(t, err)
	destination, err := parcel.NewAddress("Moi Avenue, Mombasa", destinationPoint)
	require.NoError(t, err)
	receiver, err := parcel.NewReceiver(receiverID, "Amina", "+254722000000")
	require.NoError(t, err)

	p, err := parcel.NewParcel(kernel.NewUUID(), senderID, receiver, pickup, destination, parcel.WeightLight, fixtureNow)
	require.NoError(t, err)
	return p
}

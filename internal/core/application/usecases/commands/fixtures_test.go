package commands_test

import (
	"testing"
	"time"

	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/core/domain/model/parcel"
	"sendit/internal/core/domain/model/user"

	"github.com/stretchr/testify/require"
)

const (
	pickupText      = "Kenyatta Avenue, Nairobi"
	destinationText = "Moi Avenue, Mombasa"
)

var fixtureNow = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

func mustPoint(t *testing.T, lat, lng float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	return p
}

func mustActor(t *testing.T, id kernel.UUID, role user.Role) user.Actor {
	t.Helper()
	a, err := user.NewActor(id, role)
	require.NoError(t, err)
	return a
}

func newAdminActor(t *testing.T) user.Actor {
	t.Helper()
	return mustActor(t, kernel.NewUUID(), user.RoleAdmin)
}

func newTestUser(t *testing.T, name string, role user.Role) *user.User {
	t.Helper()
	u, err := user.NewUser(kernel.NewUUID(), name, name+"@sendit.test", "+254700000000",
		"$2a$04$placeholderhash", role, fixtureNow)
	require.NoError(t, err)
	return u
}

// newTestCourierWithID is newTestUser with a chosen id, for tests that depend
// on id order.
func newTestCourierWithID(t *testing.T, id, name string) *user.User {
	t.Helper()
	courierID, err := kernel.UUIDFromString(id)
	require.NoError(t, err)
	u, err := user.NewUser(courierID, name, name+"@sendit.test", "+254700000000",
		"$2a$04$placeholderhash", user.RoleCourier, fixtureNow)
	require.NoError(t, err)
	return u
}

func actorOf(t *testing.T, u *user.User) user.Actor {
	t.Helper()
	return mustActor(t, u.ID(), u.Role())
}

func newTestParcel(t *testing.T, senderID kernel.UUID, receiverID *kernel.UUID) *parcel.Parcel {
	t.Helper()
	pickup, err := parcel.NewAddress(pickupText, mustPoint(t, -1.2864, 36.8172))
	require.NoError(t, err)
	destination, err := parcel.NewAddress(destinationText, mustPoint(t, -4.0622, 39.6650))
	require.NoError(t, err)
	receiver, err := parcel.NewReceiver(receiverID, "Amina", "+254722000000")
	require.NoError(t, err)

	p, err := parcel.NewParcel(kernel.NewUUID(), senderID, receiver, pickup, destination, parcel.WeightMedium, fixtureNow)
	require.NoError(t, err)
	return p
}

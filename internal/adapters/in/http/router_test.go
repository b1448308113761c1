package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpin "sendit/internal/adapters/in/http"
	"sendit/internal/adapters/out/metrics"
	"sendit/internal/core/application/usecases/commands"
	"sendit/internal/core/application/usecases/queries"
	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/core/domain/model/parcel"
	"sendit/internal/core/domain/model/user"
	"sendit/internal/generated/servers"
	"sendit/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

var fixtureNow = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

type mockHandler[C, R any] struct{ mock.Mock }

func (m *mockHandler[C, R]) Handle(ctx context.Context, c C) (R, error) {
	args := m.Called(ctx, c)
	r, _ := args.Get(0).(R)
	return r, args.Error(1)
}

type mockExec[C any] struct{ mock.Mock }

func (m *mockExec[C]) Handle(ctx context.Context, c C) error {
	return m.Called(ctx, c).Error(0)
}

type testHandlers struct {
	createParcel   *mockHandler[commands.CreateParcelCommand, *parcel.Parcel]
	updateParcel   *mockHandler[commands.UpdateParcelCommand, *parcel.Parcel]
	transition     *mockHandler[commands.TransitionParcelStatusCommand, *parcel.Parcel]
	assignCourier  *mockHandler[commands.AssignCourierCommand, *parcel.Parcel]
	deleteParcel   *mockExec[commands.DeleteParcelCommand]
	getParcel      *mockHandler[queries.GetParcelQuery, *parcel.Parcel]
	listParcels    *mockHandler[queries.ListParcelsQuery, []*parcel.Parcel]
	listCouriers   *mockHandler[queries.ListCouriersQuery, []queries.CourierResponse]
	getProfile     *mockHandler[queries.GetCourierProfileQuery, queries.CourierResponse]
	updateProfile  *mockHandler[commands.UpdateCourierProfileCommand, *user.User]
	createUser     *mockHandler[commands.CreateUserCommand, *user.User]
	changeUserRole *mockHandler[commands.ChangeUserRoleCommand, *user.User]
	deleteUser     *mockExec[commands.DeleteUserCommand]
}

func newTestRouter(t *testing.T) (*echo.Echo, *testHandlers, *metrics.Metrics) {
	t.Helper()

	h := &testHandlers{
		createParcel:   new(mockHandler[commands.CreateParcelCommand, *parcel.Parcel]),
		updateParcel:   new(mockHandler[commands.UpdateParcelCommand, *parcel.Parcel]),
		transition:     new(mockHandler[commands.TransitionParcelStatusCommand, *parcel.Parcel]),
		assignCourier:  new(mockHandler[commands.AssignCourierCommand, *parcel.Parcel]),
		deleteParcel:   new(mockExec[commands.DeleteParcelCommand]),
		getParcel:      new(mockHandler[queries.GetParcelQuery, *parcel.Parcel]),
		listParcels:    new(mockHandler[queries.ListParcelsQuery, []*parcel.Parcel]),
		listCouriers:   new(mockHandler[queries.ListCouriersQuery, []queries.CourierResponse]),
		getProfile:     new(mockHandler[queries.GetCourierProfileQuery, queries.CourierResponse]),
		updateProfile:  new(mockHandler[commands.UpdateCourierProfileCommand, *user.User]),
		createUser:     new(mockHandler[commands.CreateUserCommand, *user.User]),
		changeUserRole: new(mockHandler[commands.ChangeUserRoleCommand, *user.User]),
		deleteUser:     new(mockExec[commands.DeleteUserCommand]),
	}

	server := httpin.NewServer(httpin.Handlers{
		CreateParcel:           h.createParcel,
		UpdateParcel:           h.updateParcel,
		TransitionParcelStatus: h.transition,
		AssignCourier:          h.assignCourier,
		DeleteParcel:           h.deleteParcel,
		GetParcel:              h.getParcel,
		ListParcels:            h.listParcels,
		ListCouriers:           h.listCouriers,
		GetCourierProfile:      h.getProfile,
		UpdateCourierProfile:   h.updateProfile,
		CreateUser:             h.createUser,
		ChangeUserRole:         h.changeUserRole,
		DeleteUser:             h.deleteUser,
	})

	m := metrics.New()
	e, err := httpin.NewRouter(httpin.RouterConfig{
		Server:    server,
		JWTSecret: testSecret,
		Metrics:   m,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return e, h, m
}

func signToken(t *testing.T, method jwt.SigningMethod, secret []byte, sub, role string, exp time.Time) string {
	t.Helper()
	claims := httpin.Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(method, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func tokenFor(t *testing.T, id kernel.UUID, role user.Role) string {
	t.Helper()
	return signToken(t, jwt.SigningMethodHS256, testSecret, id.String(), role.String(), time.Now().Add(time.Hour))
}

func do(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) servers.Error {
	t.Helper()
	var body servers.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func newTestParcel(t *testing.T, senderID kernel.UUID) *parcel.Parcel {
	t.Helper()
	pickupPoint, err := kernel.NewGeoPoint(-1.2864, 36.8172)
	require.NoError(t, err)
	destinationPoint, err := kernel.NewGeoPoint(-4.0622, 39.6650)
	require.NoError(t, err)
	pickup, err := parcel.NewAddress("Kenyatta Avenue, Nairobi", pickupPoint)
	require.NoError(t, err)
	destination, err := parcel.NewAddress("Moi Avenue, Mombasa", destinationPoint)
	require.NoError(t, err)
	receiver, err := parcel.NewReceiver(nil, "Amina", "+254722000000")
	require.NoError(t, err)

	p, err := parcel.NewParcel(kernel.NewUUID(), senderID, receiver, pickup, destination, parcel.WeightMedium, fixtureNow)
	require.NoError(t, err)
	return p
}

func TestRouter_Health(t *testing.T) {
	e, _, _ := newTestRouter(t)

	rec := do(e, http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestRouter_Authentication(t *testing.T) {
	e, _, _ := newTestRouter(t)
	id := kernel.NewUUID()

	tests := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"garbage token", "not-a-jwt"},
		{"expired token", signToken(t, jwt.SigningMethodHS256, testSecret, id.String(), "ADMIN", time.Now().Add(-time.Minute))},
		{"wrong secret", signToken(t, jwt.SigningMethodHS256, []byte("other"), id.String(), "ADMIN", time.Now().Add(time.Hour))},
		{"disallowed algorithm", signToken(t, jwt.SigningMethodHS384, testSecret, id.String(), "ADMIN", time.Now().Add(time.Hour))},
		{"subject is not a uuid", signToken(t, jwt.SigningMethodHS256, testSecret, "alice", "ADMIN", time.Now().Add(time.Hour))},
		{"unknown role", signToken(t, jwt.SigningMethodHS256, testSecret, id.String(), "ROOT", time.Now().Add(time.Hour))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, http.MethodGet, "/api/v1/parcels", tt.token, "")

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Header().Get(echo.HeaderWWWAuthenticate), "Bearer")
			assert.Equal(t, http.StatusUnauthorized, decodeError(t, rec).Code)
		})
	}
}

func TestRouter_CreateParcel(t *testing.T) {
	e, h, _ := newTestRouter(t)
	sender := kernel.NewUUID()
	created := newTestParcel(t, sender)

	h.createParcel.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateParcelCommand) bool {
		return cmd.Actor().ID().IsEqual(sender) &&
			cmd.SenderID().IsEqual(sender) &&
			cmd.Weight() == parcel.WeightMedium &&
			cmd.CourierID() == nil
	})).Return(created, nil).Once()

	body := `{
		"senderId": "` + sender.String() + `",
		"receiver": {"name": "Amina", "phone": "+254722000000"},
		"pickupAddress": "Kenyatta Avenue, Nairobi",
		"destination": "Moi Avenue, Mombasa",
		"weightCategory": "MEDIUM"
	}`
	rec := do(e, http.MethodPost, "/api/v1/parcels", tokenFor(t, sender, user.RoleCustomer), body)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var got servers.Parcel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, created.ID().String(), got.Id.String())
	assert.Equal(t, servers.PENDING, got.Status)
	assert.Equal(t, servers.MEDIUM, got.WeightCategory)
	assert.Equal(t, "Kenyatta Avenue, Nairobi", got.Pickup.Text)
	assert.InDelta(t, -4.0622, got.Destination.Location.Lat, 1e-9)
	assert.Nil(t, got.AssignedCourierId)
	h.createParcel.AssertExpectations(t)
}

func TestRouter_RejectsRequestsOutsideTheContract(t *testing.T) {
	e, h, _ := newTestRouter(t)
	token := tokenFor(t, kernel.NewUUID(), user.RoleAdmin)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"missing required field", http.MethodPost, "/api/v1/parcels", `{"receiver": {"name": "A", "phone": "1"}}`},
		{"unknown weight", http.MethodPost, "/api/v1/parcels", `{
			"senderId": "` + kernel.NewUUID().String() + `",
			"receiver": {"name": "Amina", "phone": "+254722000000"},
			"pickupAddress": "a", "destination": "b", "weightCategory": "HUGE"}`},
		{"parcel id is not a uuid", http.MethodGet, "/api/v1/parcels/not-a-uuid", ""},
		{"unknown status", http.MethodPost, "/api/v1/parcels/" + kernel.NewUUID().String() + "/status", `{"status": "LOST"}`},
		{"limit out of range", http.MethodGet, "/api/v1/couriers?limit=1000", ""},
		{"empty patch", http.MethodPatch, "/api/v1/parcels/" + kernel.NewUUID().String(), `{}`},
		{"short password", http.MethodPost, "/api/v1/users", `{
			"name": "Jo", "email": "jo@sendit.test", "phone": "1", "password": "short", "role": "COURIER"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, tt.method, tt.path, token, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, http.StatusBadRequest, decodeError(t, rec).Code)
		})
	}

	// Nothing reached a use case.
	h.createParcel.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	h.getParcel.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	h.transition.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	h.listCouriers.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	h.updateParcel.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	h.createUser.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestRouter_MapsErrorKinds(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"not found", errs.NewObjectNotFoundError("parcel", nil), http.StatusNotFound, ""},
		{"access denied", errs.NewAccessDeniedError("read parcel", "actor is not a party to this parcel"), http.StatusForbidden, ""},
		{"conflict", errs.NewConflictError("parcel is deleted"), http.StatusConflict, ""},
		{"validation", errs.NewValueIsRequiredError("name"), http.StatusBadRequest, ""},
		{"unresolvable address", commands.ErrAddressUnresolvable, http.StatusBadGateway, "address could not be resolved"},
		{"storage outage", errs.NewDependencyError("storage", errors.New("dial tcp 10.0.0.5:5432")), http.StatusBadGateway, "storage is unavailable"},
		{"internal", errors.New("pq: relation parcels does not exist"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, h, _ := newTestRouter(t)
			h.getParcel.On("Handle", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			rec := do(e, http.MethodGet, "/api/v1/parcels/"+kernel.NewUUID().String(),
				tokenFor(t, kernel.NewUUID(), user.RoleCustomer), "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.wantStatus, body.Code)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, body.Message)
			}
			assert.NotContains(t, body.Message, "10.0.0.5")
			assert.NotContains(t, body.Message, "relation parcels")
		})
	}
}

func TestRouter_TransitionParcelStatus(t *testing.T) {
	e, h, _ := newTestRouter(t)
	courier := kernel.NewUUID()
	p := newTestParcel(t, kernel.NewUUID())
	_, err := p.AssignCourier(courier, fixtureNow)
	require.NoError(t, err)
	courierActor, err := user.NewActor(courier, user.RoleCourier)
	require.NoError(t, err)
	require.NoError(t, p.TransitionStatus(courierActor, parcel.InTransit, fixtureNow))

	h.transition.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.TransitionParcelStatusCommand) bool {
		return cmd.ParcelID().IsEqual(p.ID()) && cmd.Target() == parcel.InTransit && cmd.Actor().IsCourier()
	})).Return(p, nil).Once()

	rec := do(e, http.MethodPost, "/api/v1/parcels/"+p.ID().String()+"/status",
		tokenFor(t, courier, user.RoleCourier), `{"status": "IN_TRANSIT"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got servers.Parcel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, servers.INTRANSIT, got.Status)
	require.NotNil(t, got.AssignedCourierId)
	assert.Equal(t, courier.String(), got.AssignedCourierId.String())
	h.transition.AssertExpectations(t)
}

func TestRouter_DeleteParcel(t *testing.T) {
	e, h, _ := newTestRouter(t)
	h.deleteParcel.On("Handle", mock.Anything, mock.Anything).Return(nil).Once()

	rec := do(e, http.MethodDelete, "/api/v1/parcels/"+kernel.NewUUID().String(),
		tokenFor(t, kernel.NewUUID(), user.RoleAdmin), "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	h.deleteParcel.AssertExpectations(t)
}

func TestRouter_ListCouriers(t *testing.T) {
	e, h, _ := newTestRouter(t)
	location, err := kernel.NewGeoPoint(-1.2921, 36.8219)
	require.NoError(t, err)
	courier := queries.CourierResponse{
		ID:          kernel.NewUUID(),
		Name:        "Baraka",
		Email:       "baraka@sendit.test",
		Phone:       "+254711000000",
		IsAvailable: true,
		Location:    &location,
	}
	h.listCouriers.On("Handle", mock.Anything, mock.Anything).
		Return([]queries.CourierResponse{courier}, nil).Once()

	rec := do(e, http.MethodGet, "/api/v1/couriers?available=true&search=bar&limit=10",
		tokenFor(t, kernel.NewUUID(), user.RoleAdmin), "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got []servers.Courier
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Baraka", got[0].Name)
	assert.True(t, got[0].IsAvailable)
	require.NotNil(t, got[0].Location)
	assert.InDelta(t, 36.8219, got[0].Location.Lng, 1e-9)
	h.listCouriers.AssertExpectations(t)
}

func TestRouter_ListCouriersNear(t *testing.T) {
	admin := kernel.NewUUID()

	t.Run("should pass the point to the query", func(t *testing.T) {
		e, h, _ := newTestRouter(t)
		distance := 0.8
		h.listCouriers.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.ListCouriersQuery) bool {
			near := q.Near()
			return near != nil && near.Lat() == -1.2921 && near.Lng() == 36.8219
		})).Return([]queries.CourierResponse{{ID: kernel.NewUUID(), Name: "Baraka", DistanceKm: &distance}}, nil).Once()

		rec := do(e, http.MethodGet, "/api/v1/couriers?nearLat=-1.2921&nearLng=36.8219",
			tokenFor(t, admin, user.RoleAdmin), "")

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got []servers.Courier
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 1)
		require.NotNil(t, got[0].DistanceKm)
		assert.InDelta(t, 0.8, *got[0].DistanceKm, 1e-9)
		h.listCouriers.AssertExpectations(t)
	})

	t.Run("should reject a lone coordinate", func(t *testing.T) {
		e, h, _ := newTestRouter(t)

		rec := do(e, http.MethodGet, "/api/v1/couriers?nearLat=-1.2921", tokenFor(t, admin, user.RoleAdmin), "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		h.listCouriers.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("should reject a latitude off the globe", func(t *testing.T) {
		e, h, _ := newTestRouter(t)

		rec := do(e, http.MethodGet, "/api/v1/couriers?nearLat=91&nearLng=36.8", tokenFor(t, admin, user.RoleAdmin), "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		h.listCouriers.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})
}

func TestRouter_CourierProfile(t *testing.T) {
	t.Run("should read the caller's own profile", func(t *testing.T) {
		e, h, _ := newTestRouter(t)
		courierID := kernel.NewUUID()
		h.getProfile.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetCourierProfileQuery) bool {
			return q.CourierID().IsEqual(courierID) && q.Actor().ID().IsEqual(courierID)
		})).Return(queries.CourierResponse{ID: courierID, Name: "Baraka", Email: "baraka@sendit.test"}, nil).Once()

		rec := do(e, http.MethodGet, "/api/v1/couriers/me", tokenFor(t, courierID, user.RoleCourier), "")

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got servers.Courier
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Baraka", got.Name)
		h.getProfile.AssertExpectations(t)
	})

	t.Run("should update phone and location", func(t *testing.T) {
		e, h, _ := newTestRouter(t)
		courier, err := user.NewUser(kernel.NewUUID(), "Baraka", "baraka@sendit.test", "+254799000111",
			"$2a$04$placeholderhash", user.RoleCourier, fixtureNow)
		require.NoError(t, err)
		location, err := kernel.NewGeoPoint(-1.2864, 36.8172)
		require.NoError(t, err)
		require.NoError(t, courier.UpdateLocation(location))

		h.updateProfile.On("Handle", mock.Anything, mock.MatchedBy(func(c commands.UpdateCourierProfileCommand) bool {
			phone, phoneSet := c.Phone()
			_, nameSet := c.Name()
			point, pointSet := c.Location()
			return c.CourierID().IsEqual(courier.ID()) && phoneSet && phone == "+254799000111" &&
				!nameSet && pointSet && point.Lat() == -1.2864
		})).Return(courier, nil).Once()

		rec := do(e, http.MethodPatch, "/api/v1/couriers/me", tokenFor(t, courier.ID(), user.RoleCourier),
			`{"phone":"+254799000111","location":{"lat":-1.2864,"lng":36.8172}}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got servers.Courier
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "+254799000111", got.Phone)
		require.NotNil(t, got.Location)
		assert.InDelta(t, 36.8172, got.Location.Lng, 1e-9)
		h.updateProfile.AssertExpectations(t)
	})

	t.Run("should reject an empty patch at the contract", func(t *testing.T) {
		e, h, _ := newTestRouter(t)

		rec := do(e, http.MethodPatch, "/api/v1/couriers/me", tokenFor(t, kernel.NewUUID(), user.RoleCourier), `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		h.updateProfile.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("should map a denial to 403", func(t *testing.T) {
		e, h, _ := newTestRouter(t)
		h.getProfile.On("Handle", mock.Anything, mock.Anything).
			Return(queries.CourierResponse{}, errs.NewAccessDeniedError("manage courier profile", "requires ADMIN")).Once()

		rec := do(e, http.MethodGet, "/api/v1/couriers/me", tokenFor(t, kernel.NewUUID(), user.RoleCustomer), "")

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRouter_Metrics(t *testing.T) {
	e, _, _ := newTestRouter(t)

	_ = do(e, http.MethodGet, "/health", "", "")
	rec := do(e, http.MethodGet, "/metrics", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="/health",status="200"} 1`)
}

func TestRouter_Swagger(t *testing.T) {
	e, _, _ := newTestRouter(t)

	rec := do(e, http.MethodGet, "/swagger/doc.json", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"/parcels/{parcelId}/assignment"`)
}

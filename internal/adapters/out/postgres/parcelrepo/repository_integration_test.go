package parcelrepo_test

import (
	"context"
	"testing"
	"time"

	"sendit/internal/adapters/out/postgres/parcelrepo"
	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/core/domain/model/parcel"
	"sendit/internal/core/domain/model/user"
	"sendit/internal/core/ports"
	"sendit/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type ParcelRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *parcelrepo.GormParcelRepository
	now        time.Time
}

func TestParcelRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ParcelRepositoryIntegrationTestSuite))
}

func (suite *ParcelRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&parcelrepo.ParcelDTO{}))
}

func (suite *ParcelRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE parcels").Error)
	suite.repository = parcelrepo.NewGormParcelRepository(suite.db)
	suite.now = time.Now().UTC().Truncate(time.Microsecond)
}

func (suite *ParcelRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *ParcelRepositoryIntegrationTestSuite) address(text string, lat, lng float64) parcel.Address {
	point, err := kernel.NewGeoPoint(lat, lng)
	suite.Require().NoError(err)
	a, err := parcel.NewAddress(text, point)
	suite.Require().NoError(err)
	return a
}

func (suite *ParcelRepositoryIntegrationTestSuite) newParcel(senderID kernel.UUID, receiverID *kernel.UUID, createdAt time.Time) *parcel.Parcel {
	receiver, err := parcel.NewReceiver(receiverID, "Amina", "+254722000000")
	suite.Require().NoError(err)

	p, err := parcel.NewParcel(kernel.NewUUID(), senderID, receiver,
		suite.address("Kenyatta Avenue, Nairobi", -1.2864, 36.8172),
		suite.address("Moi Avenue, Mombasa", -4.0622, 39.6650),
		parcel.WeightLight, createdAt)
	suite.Require().NoError(err)
	return p
}

func (suite *ParcelRepositoryIntegrationTestSuite) admin() user.Actor {
	a, err := user.NewActor(kernel.NewUUID(), user.RoleAdmin)
	suite.Require().NoError(err)
	return a
}

func (suite *ParcelRepositoryIntegrationTestSuite) TestAdd_ThenGet_RestoresAggregate() {
	ctx := context.Background()
	receiverID := kernel.NewUUID()
	courierID := kernel.NewUUID()
	p := suite.newParcel(kernel.NewUUID(), &receiverID, suite.now)
	_, err := p.AssignCourier(courierID, suite.now)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.Add(ctx, p))

	got, err := suite.repository.Get(ctx, p.ID())
	suite.Require().NoError(err)
	suite.True(got.IsEqual(p))
	suite.True(got.SenderID().IsEqual(p.SenderID()))
	suite.Require().NotNil(got.Receiver().ID())
	suite.True(got.Receiver().ID().IsEqual(receiverID))
	suite.True(got.IsAssignedTo(courierID))
	suite.Equal(parcel.Pending, got.Status())
	suite.Equal(parcel.WeightLight, got.Weight())
	suite.Equal("Moi Avenue, Mombasa", got.Destination().Text())
	suite.InDelta(-4.0622, got.Destination().Point().Lat(), 1e-9)
	suite.True(got.CreatedAt().Equal(suite.now))
}

func (suite *ParcelRepositoryIntegrationTestSuite) TestUpdate_TransitionPersistsAndAdvancesVersion() {
	ctx := context.Background()
	p := suite.newParcel(kernel.NewUUID(), nil, suite.now)
	suite.Require().NoError(suite.repository.Add(ctx, p))

	suite.Require().NoError(p.TransitionStatus(suite.admin(), parcel.InTransit, suite.now.Add(time.Minute)))
	suite.Require().NoError(suite.repository.Update(ctx, p))

	got, err := suite.repository.Get(ctx, p.ID())
	suite.Require().NoError(err)
	suite.Equal(parcel.InTransit, got.Status())
	suite.Equal(2, got.Version())
	suite.True(got.UpdatedAt().Equal(suite.now.Add(time.Minute)))
}

func (suite *ParcelRepositoryIntegrationTestSuite) TestUpdate_StaleCopy_LosesRace() {
	ctx := context.Background()
	p := suite.newParcel(kernel.NewUUID(), nil, suite.now)
	suite.Require().NoError(suite.repository.Add(ctx, p))

	first, err := suite.repository.Get(ctx, p.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, p.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(first.TransitionStatus(suite.admin(), parcel.InTransit, suite.now))
	suite.Require().NoError(suite.repository.Update(ctx, first))

	suite.Require().NoError(second.TransitionStatus(suite.admin(), parcel.Cancelled, suite.now))
	err = suite.repository.Update(ctx, second)

	suite.Require().ErrorIs(err, errs.ErrStaleObject)
	got, err := suite.repository.Get(ctx, p.ID())
	suite.Require().NoError(err)
	suite.Equal(parcel.InTransit, got.Status())
}

func (suite *ParcelRepositoryIntegrationTestSuite) TestSoftDelete_HidesParcel() {
	ctx := context.Background()
	senderID := kernel.NewUUID()
	p := suite.newParcel(senderID, nil, suite.now)
	suite.Require().NoError(suite.repository.Add(ctx, p))

	suite.Require().NoError(p.SoftDelete(suite.now))
	suite.Require().NoError(suite.repository.Update(ctx, p))

	_, err := suite.repository.Get(ctx, p.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	listed, err := suite.repository.List(ctx, ports.ParcelFilter{PartyID: &senderID})
	suite.Require().NoError(err)
	suite.Empty(listed)
}

func (suite *ParcelRepositoryIntegrationTestSuite) TestList_Filters() {
	ctx := context.Background()
	alice, bob := kernel.NewUUID(), kernel.NewUUID()
	courierID := kernel.NewUUID()

	sentByAlice := suite.newParcel(alice, nil, suite.now.Add(-3*time.Hour))
	sentToAlice := suite.newParcel(bob, &alice, suite.now.Add(-2*time.Hour))
	bobOnly := suite.newParcel(bob, nil, suite.now.Add(-1*time.Hour))
	_, err := bobOnly.AssignCourier(courierID, suite.now)
	suite.Require().NoError(err)
	for _, p := range []*parcel.Parcel{sentByAlice, sentToAlice, bobOnly} {
		suite.Require().NoError(suite.repository.Add(ctx, p))
	}

	suite.Run("party sees sent and received, newest first", func() {
		got, err := suite.repository.List(ctx, ports.ParcelFilter{PartyID: &alice})
		suite.Require().NoError(err)
		suite.Require().Len(got, 2)
		suite.True(got[0].IsEqual(sentToAlice))
		suite.True(got[1].IsEqual(sentByAlice))
	})

	suite.Run("courier sees assigned", func() {
		got, err := suite.repository.List(ctx, ports.ParcelFilter{CourierID: &courierID})
		suite.Require().NoError(err)
		suite.Require().Len(got, 1)
		suite.True(got[0].IsEqual(bobOnly))
	})

	suite.Run("status and paging", func() {
		pending := parcel.Pending
		got, err := suite.repository.List(ctx, ports.ParcelFilter{Status: &pending, Limit: 2, Offset: 1})
		suite.Require().NoError(err)
		suite.Require().Len(got, 2)
		suite.True(got[0].IsEqual(sentToAlice))
	})
}

func (suite *ParcelRepositoryIntegrationTestSuite) TestCountOpenByCourier() {
	ctx := context.Background()
	courierID := kernel.NewUUID()
	admin := suite.admin()

	open := suite.newParcel(kernel.NewUUID(), nil, suite.now)
	moving := suite.newParcel(kernel.NewUUID(), nil, suite.now)
	done := suite.newParcel(kernel.NewUUID(), nil, suite.now)
	for _, p := range []*parcel.Parcel{open, moving, done} {
		_, err := p.AssignCourier(courierID, suite.now)
		suite.Require().NoError(err)
	}
	suite.Require().NoError(moving.TransitionStatus(admin, parcel.InTransit, suite.now))
	suite.Require().NoError(done.TransitionStatus(admin, parcel.Cancelled, suite.now))
	for _, p := range []*parcel.Parcel{open, moving, done} {
		suite.Require().NoError(suite.repository.Add(ctx, p))
	}

	count, err := suite.repository.CountOpenByCourier(ctx, courierID)
	suite.Require().NoError(err)
	suite.Equal(int64(2), count)

	count, err = suite.repository.CountOpenByCourier(ctx, kernel.NewUUID())
	suite.Require().NoError(err)
	suite.Zero(count)
}

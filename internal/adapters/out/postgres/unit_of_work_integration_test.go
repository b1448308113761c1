package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	postgres_adapter "sendit/internal/adapters/out/postgres"
	"sendit/internal/core/application/usecases/commands"
	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/core/domain/model/parcel"
	"sendit/internal/core/domain/model/user"
	"sendit/internal/core/ports"
	"sendit/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite runs the GORM unit of work against a real
// PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(db))

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE users, parcels").Error)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")
	suite.NotNil(uow1.UserRepository())
	suite.NotNil(uow1.ParcelRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "Multiple begin calls should be safe")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Rollback(ctx), "Rollback after commit is a no-op")
	suite.Require().Error(uow.Commit(ctx), "Commit needs an active transaction")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_AssignmentCommitsAtomically() {
	ctx := context.Background()
	courier := createTestUser(suite, "courier", user.RoleCourier)
	p := createTestParcel(suite)

	seed := suite.factory.Create()
	suite.Require().NoError(seed.UserRepository().Add(ctx, courier))
	suite.Require().NoError(seed.ParcelRepository().Add(ctx, p))

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	suite.Require().NoError(courier.MarkUnavailable())
	suite.Require().NoError(uow.UserRepository().Update(ctx, courier))
	_, err := p.AssignCourier(courier.ID(), time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(uow.ParcelRepository().Update(ctx, p))

	suite.Require().NoError(uow.Commit(ctx))

	check := suite.factory.Create()
	storedCourier, err := check.UserRepository().Get(ctx, courier.ID())
	suite.Require().NoError(err)
	suite.False(storedCourier.IsAvailable())
	storedParcel, err := check.ParcelRepository().Get(ctx, p.ID())
	suite.Require().NoError(err)
	suite.True(storedParcel.IsAssignedTo(courier.ID()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscardsBothAggregates() {
	ctx := context.Background()
	courier := createTestUser(suite, "courier", user.RoleCourier)
	p := createTestParcel(suite)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.UserRepository().Add(ctx, courier))
	suite.Require().NoError(uow.ParcelRepository().Add(ctx, p))

	_, err := uow.ParcelRepository().Get(ctx, p.ID())
	suite.Require().NoError(err, "Parcel should be visible inside its transaction")

	suite.Require().NoError(uow.Rollback(ctx))

	check := suite.factory.Create()
	_, err = check.UserRepository().Get(ctx, courier.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	_, err = check.ParcelRepository().Get(ctx, p.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionIsolation() {
	ctx := context.Background()
	first := createTestParcel(suite)
	second := createTestParcel(suite)

	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()
	suite.Require().NoError(uow1.Begin(ctx))
	suite.Require().NoError(uow2.Begin(ctx))

	suite.Require().NoError(uow1.ParcelRepository().Add(ctx, first))
	suite.Require().NoError(uow2.ParcelRepository().Add(ctx, second))

	_, err := uow1.ParcelRepository().Get(ctx, second.ID())
	suite.Require().Error(err, "uow1 should not see uncommitted rows of uow2")

	suite.Require().NoError(uow1.Commit(ctx))
	suite.Require().NoError(uow2.Rollback(ctx))

	check := suite.factory.Create()
	_, err = check.ParcelRepository().Get(ctx, first.ID())
	suite.Require().NoError(err)
	_, err = check.ParcelRepository().Get(ctx, second.ID())
	suite.Require().Error(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_DuplicateEmailTranslated() {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.UserRepository().Add(ctx, createTestUser(suite, "dup", user.RoleCustomer)))

	err := uow.UserRepository().Add(ctx, createTestUser(suite, "dup", user.RoleCustomer))

	suite.Require().ErrorIs(err, errs.ErrConflict)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CourierReadByBothLosesOnVersion() {
	ctx := context.Background()
	courier := createTestUser(suite, "courier", user.RoleCourier)
	suite.Require().NoError(suite.factory.Create().UserRepository().Add(ctx, courier))

	first := suite.factory.Create()
	second := suite.factory.Create()
	suite.Require().NoError(first.Begin(ctx))
	suite.Require().NoError(second.Begin(ctx))
	defer func() { _ = second.Rollback(ctx) }()

	mine, err := first.UserRepository().Get(ctx, courier.ID())
	suite.Require().NoError(err)
	theirs, err := second.UserRepository().Get(ctx, courier.ID())
	suite.Require().NoError(err)
	suite.True(mine.IsAvailable())
	suite.True(theirs.IsAvailable())

	suite.Require().NoError(mine.MarkUnavailable())
	suite.Require().NoError(first.UserRepository().Update(ctx, mine))

	// The second UPDATE waits on the row lock held by the first transaction
	// and re-checks the version once that one commits.
	suite.Require().NoError(theirs.MarkUnavailable())
	lost := make(chan error, 1)
	go func() { lost <- second.UserRepository().Update(ctx, theirs) }()

	suite.Require().NoError(first.Commit(ctx))

	select {
	case err = <-lost:
		suite.Require().ErrorIs(err, errs.ErrStaleObject)
	case <-time.After(10 * time.Second):
		suite.FailNow("second update never returned")
	}

	stored, err := suite.factory.Create().UserRepository().Get(ctx, courier.ID())
	suite.Require().NoError(err)
	suite.Equal(2, stored.Version())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestAssignCourier_BothReadAvailableOneWins() {
	ctx := context.Background()
	courier := createTestUser(suite, "courier", user.RoleCourier)
	parcels := []*parcel.Parcel{createTestParcel(suite), createTestParcel(suite)}

	seed := suite.factory.Create()
	suite.Require().NoError(seed.UserRepository().Add(ctx, courier))
	for _, p := range parcels {
		suite.Require().NoError(seed.ParcelRepository().Add(ctx, p))
	}

	// Each transaction stops after loading the courier until the other one
	// has loaded it too, so both see it available before either writes.
	var bothRead sync.WaitGroup
	bothRead.Add(len(parcels))
	factory := uowFactory(func() commands.UoW {
		return &readBarrierUoW{UoW: suite.factory.Create(), courierID: courier.ID(), barrier: &bothRead}
	})

	admin, err := user.NewActor(kernel.NewUUID(), user.RoleAdmin)
	suite.Require().NoError(err)
	handler := commands.NewAssignCourierCommandHandler(factory, discardDispatcher{})

	results := make([]error, len(parcels))
	var wg sync.WaitGroup
	for i, p := range parcels {
		cmd, err := commands.NewAssignCourierCommand(admin, p.ID(), courier.ID())
		suite.Require().NoError(err)

		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = handler.Handle(ctx, cmd)
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		suite.ErrorIs(err, user.ErrCourierUnavailable)
	}
	suite.Equal(1, succeeded)

	check := suite.factory.Create()
	assigned := 0
	for _, p := range parcels {
		stored, err := check.ParcelRepository().Get(ctx, p.ID())
		suite.Require().NoError(err)
		if stored.IsAssignedTo(courier.ID()) {
			assigned++
		}
	}
	suite.Equal(1, assigned)

	stored, err := check.UserRepository().Get(ctx, courier.ID())
	suite.Require().NoError(err)
	suite.False(stored.IsAvailable())
	suite.Equal(2, stored.Version())
}

func createTestUser(suite *UnitOfWorkIntegrationTestSuite, name string, role user.Role) *user.User {
	u, err := user.NewUser(kernel.NewUUID(), name, name+"@sendit.test", "", "$2a$04$integrationhash", role, time.Now())
	suite.Require().NoError(err)
	return u
}

func createTestParcel(suite *UnitOfWorkIntegrationTestSuite) *parcel.Parcel {
	point, err := kernel.NewGeoPoint(-1.2921, 36.8219)
	suite.Require().NoError(err)
	pickup, err := parcel.NewAddress("Tom Mboya Street, Nairobi", point)
	suite.Require().NoError(err)
	destination, err := parcel.NewAddress("Kimathi Street, Nairobi", point)
	suite.Require().NoError(err)
	receiver, err := parcel.NewReceiver(nil, "Amina", "+254722000000")
	suite.Require().NoError(err)

	p, err := parcel.NewParcel(kernel.NewUUID(), kernel.NewUUID(), receiver, pickup, destination,
		parcel.WeightHeavy, time.Now())
	suite.Require().NoError(err)
	return p
}

type readBarrierUoW struct {
	commands.UoW
	courierID kernel.UUID
	barrier   *sync.WaitGroup
	once      sync.Once
}

func (u *readBarrierUoW) UserRepository() ports.UserRepository {
	return barrierUserRepository{UserRepository: u.UoW.UserRepository(), uow: u}
}

type barrierUserRepository struct {
	ports.UserRepository
	uow *readBarrierUoW
}

func (r barrierUserRepository) Get(ctx context.Context, id kernel.UUID) (*user.User, error) {
	u, err := r.UserRepository.Get(ctx, id)
	if id.IsEqual(r.uow.courierID) {
		r.uow.once.Do(func() {
			r.uow.barrier.Done()
			r.uow.barrier.Wait()
		})
	}
	return u, err
}

package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	httpin "sendit/internal/adapters/in/http"
	"sendit/internal/adapters/out/geocoding"
	"sendit/internal/adapters/out/kafka"
	"sendit/internal/adapters/out/mailer"
	"sendit/internal/adapters/out/metrics"
	"sendit/internal/adapters/out/postgres"
	"sendit/internal/adapters/out/postgres/parcelrepo"
	"sendit/internal/core/application/notification"
	"sendit/internal/core/application/usecases/commands"
	"sendit/internal/core/application/usecases/queries"
	"sendit/internal/core/ports"
	"sendit/internal/jobs"

	"github.com/IBM/sarama"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// CompositionRoot owns every long-lived collaborator and builds handlers on
// demand.
type CompositionRoot struct {
	cfg        Config
	logger     *slog.Logger
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	metrics    *metrics.Metrics
	geocoder   ports.Geocoder
	dispatcher *notification.Dispatcher
	producer   sarama.SyncProducer
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		cfg:        cfg,
		logger:     logger,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		metrics:    metrics.New(),
	}

	geocoder, err := c.newGeocoder()
	if err != nil {
		return nil, err
	}
	c.geocoder = geocoder

	notifier, err := c.newNotifier()
	if err != nil {
		return nil, err
	}
	c.dispatcher = notification.NewDispatcher(notifier, cfg.NotifyTimeout, logger,
		notification.WithRecorder(c.metrics))

	return c, nil
}

func (c *CompositionRoot) newGeocoder() (ports.Geocoder, error) {
	if c.cfg.GeocoderURL == "" {
		c.logger.Warn("GEOCODER_URL not set, every address resolves to Nairobi centre")
		return geocoding.NewStaticGeocoder(geocoding.NairobiCentre()), nil
	}
	return geocoding.NewHTTPGeocoder(c.cfg.GeocoderURL, c.cfg.GeocoderAPIKey,
		&http.Client{Timeout: c.cfg.GeocoderTimeout})
}

func (c *CompositionRoot) newNotifier() (ports.Notifier, error) {
	var fanout notification.Fanout

	if c.cfg.SMTPHost != "" {
		templates, err := mailer.DefaultTemplates()
		if err != nil {
			return nil, fmt.Errorf("mail templates: %w", err)
		}
		m, err := mailer.NewMailer(mailer.Config{
			Host:     c.cfg.SMTPHost,
			Port:     c.cfg.SMTPPort,
			Username: c.cfg.SMTPUser,
			Password: c.cfg.SMTPPassword,
			From:     c.cfg.SMTPFrom,
		}, templates)
		if err != nil {
			return nil, fmt.Errorf("mailer: %w", err)
		}
		fanout = append(fanout, m)
	}

	if brokers := c.cfg.KafkaBrokers(); len(brokers) > 0 {
		producer, err := kafka.NewProducer(brokers)
		if err != nil {
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		publisher, err := kafka.NewPublisher(producer, c.cfg.KafkaParcelEventsTopic)
		if err != nil {
			_ = producer.Close()
			return nil, err
		}
		c.producer = producer
		fanout = append(fanout, publisher)
	}

	if len(fanout) == 0 {
		c.logger.Warn("no notification channel configured, notifications are dropped")
		return notification.Discard{}, nil
	}
	return fanout, nil
}

func (c *CompositionRoot) Metrics() *metrics.Metrics {
	return c.metrics
}

// Close waits for in-flight notifications, then releases the producer.
func (c *CompositionRoot) Close() error {
	c.dispatcher.Wait()
	if c.producer != nil {
		return c.producer.Close()
	}
	return nil
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) userUoW() commands.UserUoWFactory {
	return FuncUserUoWFactory(func() commands.UserUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) resolver() commands.AddressResolver {
	return commands.NewAddressResolver(c.geocoder, c.cfg.GeocoderTimeout)
}

func (c *CompositionRoot) CreateCreateParcelCommandHandler() commands.CreateParcelCommandHandler {
	return commands.NewCreateParcelCommandHandler(c.uow(), c.resolver(), c.dispatcher)
}

func (c *CompositionRoot) CreateUpdateParcelCommandHandler() commands.UpdateParcelCommandHandler {
	return commands.NewUpdateParcelCommandHandler(c.uow(), c.resolver())
}

func (c *CompositionRoot) CreateTransitionParcelStatusCommandHandler() commands.TransitionParcelStatusCommandHandler {
	return commands.NewTransitionParcelStatusCommandHandler(c.uow(), c.dispatcher)
}

func (c *CompositionRoot) CreateAssignCourierCommandHandler() commands.AssignCourierCommandHandler {
	return commands.NewAssignCourierCommandHandler(c.uow(), c.dispatcher)
}

func (c *CompositionRoot) CreateDeleteParcelCommandHandler() commands.DeleteParcelCommandHandler {
	return commands.NewDeleteParcelCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateCreateUserCommandHandler() commands.CreateUserCommandHandler {
	return commands.NewCreateUserCommandHandler(c.userUoW(), c.dispatcher, 0)
}

func (c *CompositionRoot) CreateChangeUserRoleCommandHandler() commands.ChangeUserRoleCommandHandler {
	return commands.NewChangeUserRoleCommandHandler(c.userUoW())
}

func (c *CompositionRoot) CreateDeleteUserCommandHandler() commands.DeleteUserCommandHandler {
	return commands.NewDeleteUserCommandHandler(c.userUoW())
}

func (c *CompositionRoot) CreateUpdateCourierProfileCommandHandler() commands.UpdateCourierProfileCommandHandler {
	return commands.NewUpdateCourierProfileCommandHandler(c.userUoW())
}

func (c *CompositionRoot) CreateReleaseIdleCouriersCommandHandler() commands.ReleaseIdleCouriersCommandHandler {
	return commands.NewReleaseIdleCouriersCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateGetParcelQueryHandler() queries.GetParcelQueryHandler {
	return queries.NewGetParcelQueryHandler(parcelrepo.NewGormParcelRepository(c.gormDB))
}

func (c *CompositionRoot) CreateListParcelsQueryHandler() queries.ListParcelsQueryHandler {
	return queries.NewListParcelsQueryHandler(parcelrepo.NewGormParcelRepository(c.gormDB))
}

func (c *CompositionRoot) CreateListCouriersQueryHandler() queries.ListCouriersQueryHandler {
	return queries.NewListCouriersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCourierProfileQueryHandler() queries.GetCourierProfileQueryHandler {
	return queries.NewGetCourierProfileQueryHandler(c.gormDB)
}

// CreateRouter wires every handler behind the HTTP server.
func (c *CompositionRoot) CreateRouter() (*echo.Echo, error) {
	if c.cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret is required")
	}

	server := httpin.NewServer(httpin.Handlers{
		CreateParcel:           c.CreateCreateParcelCommandHandler(),
		UpdateParcel:           c.CreateUpdateParcelCommandHandler(),
		TransitionParcelStatus: c.CreateTransitionParcelStatusCommandHandler(),
		AssignCourier:          c.CreateAssignCourierCommandHandler(),
		DeleteParcel:           c.CreateDeleteParcelCommandHandler(),
		GetParcel:              c.CreateGetParcelQueryHandler(),
		ListParcels:            c.CreateListParcelsQueryHandler(),
		ListCouriers:           c.CreateListCouriersQueryHandler(),
		GetCourierProfile:      c.CreateGetCourierProfileQueryHandler(),
		UpdateCourierProfile:   c.CreateUpdateCourierProfileCommandHandler(),
		CreateUser:             c.CreateCreateUserCommandHandler(),
		ChangeUserRole:         c.CreateChangeUserRoleCommandHandler(),
		DeleteUser:             c.CreateDeleteUserCommandHandler(),
	})

	return httpin.NewRouter(httpin.RouterConfig{
		Server:    server,
		JWTSecret: []byte(c.cfg.JWTSecret),
		Metrics:   c.metrics,
		Logger:    c.logger,
	})
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	release := jobs.NewReleaseIdleCouriersJob(
		c.CreateReleaseIdleCouriersCommandHandler(),
		c.metrics,
		c.cfg.ReleaseIdleCouriersSchedule,
		c.logger,
	)
	return jobs.NewJobManager(release)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncUserUoWFactory func() commands.UserUoW

func (f FuncUserUoWFactory) Create() commands.UserUoW {
	return f()
}

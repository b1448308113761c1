package http

import (
	"context"

	"sendit/internal/core/application/usecases/commands"
	"sendit/internal/core/application/usecases/queries"
	"sendit/internal/core/domain/model/parcel"
	"sendit/internal/core/domain/model/user"
	"sendit/internal/generated/servers"
)

// Use case contracts the server depends on. The command and query handler
// structs satisfy them.
type (
	CreateParcelHandler interface {
		Handle(ctx context.Context, cmd commands.CreateParcelCommand) (*parcel.Parcel, error)
	}
	UpdateParcelHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateParcelCommand) (*parcel.Parcel, error)
	}
	TransitionParcelStatusHandler interface {
		Handle(ctx context.Context, cmd commands.TransitionParcelStatusCommand) (*parcel.Parcel, error)
	}
	AssignCourierHandler interface {
		Handle(ctx context.Context, cmd commands.AssignCourierCommand) (*parcel.Parcel, error)
	}
	DeleteParcelHandler interface {
		Handle(ctx context.Context, cmd commands.DeleteParcelCommand) error
	}
	CreateUserHandler interface {
		Handle(ctx context.Context, cmd commands.CreateUserCommand) (*user.User, error)
	}
	ChangeUserRoleHandler interface {
		Handle(ctx context.Context, cmd commands.ChangeUserRoleCommand) (*user.User, error)
	}
	DeleteUserHandler interface {
		Handle(ctx context.Context, cmd commands.DeleteUserCommand) error
	}
	GetParcelHandler interface {
		Handle(ctx context.Context, query queries.GetParcelQuery) (*parcel.Parcel, error)
	}
	ListParcelsHandler interface {
		Handle(ctx context.Context, query queries.ListParcelsQuery) ([]*parcel.Parcel, error)
	}
	ListCouriersHandler interface {
		Handle(ctx context.Context, query queries.ListCouriersQuery) ([]queries.CourierResponse, error)
	}
	GetCourierProfileHandler interface {
		Handle(ctx context.Context, query queries.GetCourierProfileQuery) (queries.CourierResponse, error)
	}
	UpdateCourierProfileHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateCourierProfileCommand) (*user.User, error)
	}
)

// Handlers groups every use case exposed over HTTP.
type Handlers struct {
	CreateParcel           CreateParcelHandler
	UpdateParcel           UpdateParcelHandler
	TransitionParcelStatus TransitionParcelStatusHandler
	AssignCourier          AssignCourierHandler
	DeleteParcel           DeleteParcelHandler
	GetParcel              GetParcelHandler
	ListParcels            ListParcelsHandler
	ListCouriers           ListCouriersHandler
	GetCourierProfile      GetCourierProfileHandler
	UpdateCourierProfile   UpdateCourierProfileHandler
	CreateUser             CreateUserHandler
	ChangeUserRole         ChangeUserRoleHandler
	DeleteUser             DeleteUserHandler
}

// Server implements servers.ServerInterface. It turns requests into commands
// and queries and renders their results; errors go to the echo error handler,
// which maps them by kind.
type Server struct {
	h Handlers
}

var _ servers.ServerInterface = (*Server)(nil)

func NewServer(h Handlers) *Server {
	return &Server{h: h}
}

package commands

import (
	"errors"

	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/core/domain/model/user"
	"sendit/internal/pkg/errs"
	"sendit/internal/pkg/guard"
)

const (
	minPasswordLength = 8
	// bcrypt ignores input beyond 72 bytes.
	maxPasswordLength = 72
)

var ErrCreateUserCommandIsNotConstructed = errors.New(
	"CreateUserCommand must be created via NewCreateUserCommand constructor",
)

// CreateUserCommand is an admin registering an account of any role.
type CreateUserCommand struct {
	actor    user.Actor
	userID   kernel.UUID
	name     string
	email    string
	phone    string
	password string
	role     user.Role

	guard guard.ConstructorGuard
}

func NewCreateUserCommand(
	actor user.Actor,
	userID kernel.UUID,
	name, email, phone, password, role string,
) (CreateUserCommand, error) {
	parsedRole, roleErr := user.ParseRole(role)

	var passwordErr error
	if n := len(password); n < minPasswordLength || n > maxPasswordLength {
		passwordErr = errs.NewValueIsOutOfRangeError("password length", n, minPasswordLength, maxPasswordLength)
	}

	var emailErr error
	if user.NormalizeEmail(email) == "" {
		emailErr = user.ErrEmailIsRequired
	}

	if err := errors.Join(actor.Validate(), userID.Validate(), roleErr, passwordErr, emailErr); err != nil {
		return CreateUserCommand{}, err
	}

	return CreateUserCommand{
		actor:    actor,
		userID:   userID,
		name:     name,
		email:    user.NormalizeEmail(email),
		phone:    phone,
		password: password,
		role:     parsedRole,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c CreateUserCommand) Validate() error {
	return c.guard.Validate(ErrCreateUserCommandIsNotConstructed)
}

func (c CreateUserCommand) Actor() user.Actor { return c.actor }

func (c CreateUserCommand) UserID() kernel.UUID { return c.userID }

func (c CreateUserCommand) Name() string { return c.name }

func (c CreateUserCommand) Email() string { return c.email }

func (c CreateUserCommand) Phone() string { return c.phone }

func (c CreateUserCommand) Password() string { return c.password }

func (c CreateUserCommand) Role() user.Role { return c.role }

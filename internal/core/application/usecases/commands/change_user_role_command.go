package commands

import (
	"errors"

	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/core/domain/model/user"
	"sendit/internal/pkg/guard"
)

var ErrChangeUserRoleCommandIsNotConstructed = errors.New(
	"ChangeUserRoleCommand must be created via NewChangeUserRoleCommand constructor",
)

// ChangeUserRoleCommand switches an account between ADMIN and CUSTOMER.
type ChangeUserRoleCommand struct {
	actor  user.Actor
	userID kernel.UUID
	role   user.Role

	guard guard.ConstructorGuard
}

func NewChangeUserRoleCommand(actor user.Actor, userID kernel.UUID, role string) (ChangeUserRoleCommand, error) {
	parsed, roleErr := user.ParseRole(role)
	if err := errors.Join(actor.Validate(), userID.Validate(), roleErr); err != nil {
		return ChangeUserRoleCommand{}, err
	}

	return ChangeUserRoleCommand{actor: actor, userID: userID, role: parsed, guard: guard.NewConstructorGuard()}, nil
}

func (c ChangeUserRoleCommand) Validate() error {
	return c.guard.Validate(ErrChangeUserRoleCommandIsNotConstructed)
}

func (c ChangeUserRoleCommand) Actor() user.Actor { return c.actor }

func (c ChangeUserRoleCommand) UserID() kernel.UUID { return c.userID }

func (c ChangeUserRoleCommand) Role() user.Role { return c.role }

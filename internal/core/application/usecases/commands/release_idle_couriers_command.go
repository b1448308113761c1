package commands

import (
	"errors"

	"sendit/internal/pkg/guard"
)

var ErrReleaseIdleCouriersCommandIsNotConstructed = errors.New(
	"ReleaseIdleCouriersCommand must be created via NewReleaseIdleCouriersCommand constructor",
)

// ReleaseIdleCouriersCommand is issued by the scheduler, not by a user. It
// makes couriers available again once none of their parcels is open.
type ReleaseIdleCouriersCommand struct {
	guard guard.ConstructorGuard
}

func NewReleaseIdleCouriersCommand() ReleaseIdleCouriersCommand {
	return ReleaseIdleCouriersCommand{guard: guard.NewConstructorGuard()}
}

func (c ReleaseIdleCouriersCommand) Validate() error {
	return c.guard.Validate(ErrReleaseIdleCouriersCommandIsNotConstructed)
}

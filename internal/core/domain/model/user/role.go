package user

import (
	"fmt"
	"strings"

	"sendit/internal/pkg/errs"
)

// Role is the access class of a user.
type Role int

const (
	// RoleUnknown catches uninitialised values.
	RoleUnknown Role = iota
	RoleAdmin
	RoleCustomer
	RoleCourier
)

func getRoleStrings() map[Role]string {
	//nolint:exhaustive // RoleUnknown has no wire form
	return map[Role]string{
		RoleAdmin:    "ADMIN",
		RoleCustomer: "CUSTOMER",
		RoleCourier:  "COURIER",
	}
}

// ParseRole accepts the wire form ("ADMIN", "CUSTOMER", "COURIER"),
// case-insensitively.
func ParseRole(s string) (Role, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	for role, str := range getRoleStrings() {
		if str == normalized {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
}

func (r Role) Validate() error {
	if _, ok := getRoleStrings()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

func (r Role) String() string {
	if str, ok := getRoleStrings()[r]; ok {
		return str
	}
	return "UNKNOWN"
}

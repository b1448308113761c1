package user

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/pkg/errs"
	"sendit/internal/pkg/guard"
)

const (
	maxNameLength  = 120
	maxPhoneLength = 32
)

var (
	ErrUserIsNotConstructed   = errors.New("User must be created via NewUser or RestoreUser constructor")
	ErrNameIsRequired         = errs.NewValueIsRequiredError("name")
	ErrEmailIsRequired        = errs.NewValueIsRequiredError("email")
	ErrEmailIsInvalid         = errs.NewValueIsInvalidError("email")
	ErrPasswordHashIsRequired = errs.NewValueIsRequiredError("password hash")
	ErrNotACourier            = errs.NewValueIsInvalidErrorWithCause("role", errors.New("user is not a courier"))
	ErrCourierUnavailable     = errs.NewConflictError("courier is unavailable")
	ErrCourierRoleIsImmutable = errs.NewConflictError("role cannot be changed to or from COURIER")
	ErrUserIsDeleted          = errs.NewConflictError("user is deleted")
)

// User is the aggregate root for every account in the system. Courier
// availability lives here because the assignment flow flips it in the same
// transaction that writes the parcel.
//
// The version is the optimistic-concurrency token read from storage; it is
// advanced by the repository after a successful conditional write.
type User struct {
	id              kernel.UUID
	name            string
	email           string
	phone           string
	passwordHash    string
	role            Role
	isAvailable     bool
	currentLocation *kernel.GeoPoint
	createdAt       time.Time
	lifecycle       kernel.Lifecycle
	version         int
	guard           guard.ConstructorGuard
}

// NewUser creates an active account. Couriers start available.
//
//	u, err := user.NewUser(kernel.NewUUID(), "Wanjiku", "wanjiku@example.com", "+254700000001", hash, user.RoleCourier, now)
func NewUser(
	id kernel.UUID,
	name, email, phone, passwordHash string,
	role Role,
	now time.Time,
) (*User, error) {
	u := &User{
		isAvailable: role == RoleCourier,
		createdAt:   now.UTC(),
		lifecycle:   kernel.Active(),
		version:     1,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		u.setID(id),
		u.setName(name),
		u.setEmail(email),
		u.setPhone(phone),
		u.setPasswordHash(passwordHash),
		u.setRole(role),
	); err != nil {
		return nil, err
	}

	return u, nil
}

// Snapshot is the persisted state of a User, used to restore the aggregate
// from storage.
type Snapshot struct {
	ID              kernel.UUID
	Name            string
	Email           string
	Phone           string
	PasswordHash    string
	Role            Role
	IsAvailable     bool
	CurrentLocation *kernel.GeoPoint
	CreatedAt       time.Time
	Lifecycle       kernel.Lifecycle
	Version         int
}

// RestoreUser rebuilds a User from storage. Availability is taken as stored
// and forced to false for non-couriers.
func RestoreUser(s Snapshot) (*User, error) {
	u := &User{
		isAvailable: s.IsAvailable && s.Role == RoleCourier,
		createdAt:   s.CreatedAt.UTC(),
		lifecycle:   s.Lifecycle,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		u.setID(s.ID),
		u.setName(s.Name),
		u.setEmail(s.Email),
		u.setPhone(s.Phone),
		u.setPasswordHash(s.PasswordHash),
		u.setRole(s.Role),
		u.setVersion(s.Version),
		u.setCurrentLocation(s.CurrentLocation),
	); err != nil {
		return nil, err
	}

	return u, nil
}

func (u *User) Validate() error {
	if u == nil {
		return ErrUserIsNotConstructed
	}
	return u.guard.Validate(ErrUserIsNotConstructed)
}

func (u *User) IsEqual(other *User) bool {
	return other != nil && u.id.IsEqual(other.id)
}

func (u *User) ID() kernel.UUID {
	return u.id
}

func (u *User) Name() string {
	return u.name
}

func (u *User) Email() string {
	return u.email
}

func (u *User) Phone() string {
	return u.phone
}

func (u *User) PasswordHash() string {
	return u.passwordHash
}

func (u *User) Role() Role {
	return u.role
}

func (u *User) IsCourier() bool {
	return u.role == RoleCourier
}

// IsAvailable is meaningful only for couriers; it is always false otherwise.
func (u *User) IsAvailable() bool {
	return u.isAvailable
}

// CurrentLocation returns the last reported courier position, if any.
func (u *User) CurrentLocation() *kernel.GeoPoint {
	if u.currentLocation == nil {
		return nil
	}
	loc := *u.currentLocation
	return &loc
}

func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

func (u *User) Lifecycle() kernel.Lifecycle {
	return u.lifecycle
}

func (u *User) IsActive() bool {
	return u.lifecycle.IsActive()
}

func (u *User) Version() int {
	return u.version
}

// AdvanceVersion is called by repositories once a conditional write on the
// current version succeeded.
func (u *User) AdvanceVersion() {
	u.version++
}

// Snapshot returns the state RestoreUser accepts.
func (u *User) Snapshot() Snapshot {
	var location *kernel.GeoPoint
	if u.currentLocation != nil {
		point := *u.currentLocation
		location = &point
	}
	return Snapshot{
		ID:              u.id,
		Name:            u.name,
		Email:           u.email,
		Phone:           u.phone,
		PasswordHash:    u.passwordHash,
		Role:            u.role,
		IsAvailable:     u.isAvailable,
		CurrentLocation: location,
		CreatedAt:       u.createdAt,
		Lifecycle:       u.lifecycle,
		Version:         u.version,
	}
}

// MarkUnavailable claims an available courier for a parcel.
// Returns ErrCourierUnavailable if the courier is already taken.
func (u *User) MarkUnavailable() error {
	if err := u.ensureActiveCourier(); err != nil {
		return err
	}
	if !u.isAvailable {
		return ErrCourierUnavailable
	}

	u.isAvailable = false
	return nil
}

// MarkAvailable releases a courier. Releasing an available courier is a no-op.
func (u *User) MarkAvailable() error {
	if err := u.ensureActiveCourier(); err != nil {
		return err
	}

	u.isAvailable = true
	return nil
}

// UpdateLocation records the courier's last known position.
func (u *User) UpdateLocation(point kernel.GeoPoint) error {
	if err := u.ensureActiveCourier(); err != nil {
		return err
	}
	if err := point.Validate(); err != nil {
		return err
	}

	u.currentLocation = &point
	return nil
}

// ChangeContactDetails replaces the name and phone shown to dispatchers and
// receivers.
func (u *User) ChangeContactDetails(name, phone string) error {
	if !u.IsActive() {
		return ErrUserIsDeleted
	}

	updated := *u
	if err := errors.Join(updated.setName(name), updated.setPhone(phone)); err != nil {
		return err
	}

	u.name, u.phone = updated.name, updated.phone
	return nil
}

// ChangeRole switches between ADMIN and CUSTOMER. Courier accounts keep
// their role, and nobody can be promoted to COURIER this way.
func (u *User) ChangeRole(role Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	if !u.IsActive() {
		return ErrUserIsDeleted
	}
	if u.role == role {
		return nil
	}
	if u.role == RoleCourier || role == RoleCourier {
		return ErrCourierRoleIsImmutable
	}

	u.role = role
	return nil
}

// SoftDelete hides the account from every active query.
func (u *User) SoftDelete(at time.Time) error {
	lifecycle, err := u.lifecycle.Delete(at)
	if err != nil {
		return ErrUserIsDeleted
	}

	u.lifecycle = lifecycle
	u.isAvailable = false
	return nil
}

func (u *User) ensureActiveCourier() error {
	if u.role != RoleCourier {
		return ErrNotACourier
	}
	if !u.IsActive() {
		return ErrUserIsDeleted
	}
	return nil
}

func (u *User) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	u.id = id
	return nil
}

func (u *User) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	if len(name) > maxNameLength {
		return errs.NewValueIsOutOfRangeError("name length", len(name), 1, maxNameLength)
	}
	u.name = name
	return nil
}

func (u *User) setEmail(email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return ErrEmailIsRequired
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 || strings.ContainsAny(email, " \t\r\n") {
		return ErrEmailIsInvalid
	}
	u.email = email
	return nil
}

func (u *User) setPhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if len(phone) > maxPhoneLength {
		return errs.NewValueIsOutOfRangeError("phone length", len(phone), 0, maxPhoneLength)
	}
	u.phone = phone
	return nil
}

func (u *User) setPasswordHash(hash string) error {
	if hash == "" {
		return ErrPasswordHashIsRequired
	}
	u.passwordHash = hash
	return nil
}

func (u *User) setRole(role Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	u.role = role
	return nil
}

func (u *User) setVersion(version int) error {
	if version < 1 {
		return errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is less than 1", version))
	}
	u.version = version
	return nil
}

func (u *User) setCurrentLocation(point *kernel.GeoPoint) error {
	if point == nil {
		return nil
	}
	if err := point.Validate(); err != nil {
		return err
	}
	loc := *point
	u.currentLocation = &loc
	return nil
}

// NormalizeEmail trims and lower-cases an address so uniqueness checks are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

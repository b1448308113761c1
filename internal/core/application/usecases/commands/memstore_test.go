package commands_test

import (
	"context"
	"sort"
	"sync"

	"sendit/internal/core/application/usecases/commands"
	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/core/domain/model/parcel"
	"sendit/internal/core/domain/model/user"
	"sendit/internal/core/ports"
	"sendit/internal/pkg/errs"
)

// memStore is a serialisable in-memory store: a unit of work holds the store
// lock from Begin until Commit or Rollback and works on a private copy.
type memStore struct {
	tx      sync.Mutex
	users   map[kernel.UUID]user.Snapshot
	parcels map[kernel.UUID]parcel.Snapshot
}

func newMemStore() *memStore {
	return &memStore{
		users:   map[kernel.UUID]user.Snapshot{},
		parcels: map[kernel.UUID]parcel.Snapshot{},
	}
}

func (s *memStore) seedUser(u *user.User) {
	s.tx.Lock()
	defer s.tx.Unlock()
	s.users[u.ID()] = u.Snapshot()
}

func (s *memStore) userSnapshot(id kernel.UUID) user.Snapshot {
	s.tx.Lock()
	defer s.tx.Unlock()
	return s.users[id]
}

func (s *memStore) parcelSnapshot(id kernel.UUID) parcel.Snapshot {
	s.tx.Lock()
	defer s.tx.Unlock()
	return s.parcels[id]
}

func (s *memStore) Create() commands.UoW {
	return &memUoW{store: s}
}

// userFactory exposes the store to handlers that only touch users.
func (s *memStore) userFactory() commands.UserUoWFactory {
	return memUserUoWFactory{store: s}
}

type memUserUoWFactory struct{ store *memStore }

func (f memUserUoWFactory) Create() commands.UserUoW {
	return &memUoW{store: f.store}
}

type memUoW struct {
	store   *memStore
	active  bool
	users   map[kernel.UUID]user.Snapshot
	parcels map[kernel.UUID]parcel.Snapshot
}

func (u *memUoW) Begin(_ context.Context) error {
	u.store.tx.Lock()
	u.active = true
	u.users = make(map[kernel.UUID]user.Snapshot, len(u.store.users))
	for id, snap := range u.store.users {
		u.users[id] = snap
	}
	u.parcels = make(map[kernel.UUID]parcel.Snapshot, len(u.store.parcels))
	for id, snap := range u.store.parcels {
		u.parcels[id] = snap
	}
	return nil
}

func (u *memUoW) Commit(_ context.Context) error {
	if !u.active {
		return errs.NewConflictError("transaction is not active")
	}
	u.store.users = u.users
	u.store.parcels = u.parcels
	u.active = false
	u.store.tx.Unlock()
	return nil
}

func (u *memUoW) Rollback(_ context.Context) error {
	if !u.active {
		return nil
	}
	u.active = false
	u.store.tx.Unlock()
	return nil
}

func (u *memUoW) UserRepository() ports.UserRepository {
	return memUserRepository{uow: u}
}

func (u *memUoW) ParcelRepository() ports.ParcelRepository {
	return memParcelRepository{uow: u}
}

type memUserRepository struct{ uow *memUoW }

func (r memUserRepository) Add(_ context.Context, u *user.User) error {
	for _, snap := range r.uow.users {
		if snap.ID.IsEqual(u.ID()) || snap.Email == u.Email() {
			return errs.NewConflictError("duplicate user")
		}
	}
	r.uow.users[u.ID()] = u.Snapshot()
	return nil
}

func (r memUserRepository) Update(_ context.Context, u *user.User) error {
	stored, ok := r.uow.users[u.ID()]
	if !ok || !stored.Lifecycle.IsActive() || stored.Version != u.Version() {
		return errs.NewStaleObjectError("user", u.ID())
	}
	u.AdvanceVersion()
	r.uow.users[u.ID()] = u.Snapshot()
	return nil
}

func (r memUserRepository) Get(_ context.Context, id kernel.UUID) (*user.User, error) {
	snap, ok := r.uow.users[id]
	if !ok || !snap.Lifecycle.IsActive() {
		return nil, errs.NewObjectNotFoundError("user", id)
	}
	return user.RestoreUser(snap)
}

func (r memUserRepository) GetByEmail(_ context.Context, email string) (*user.User, error) {
	for _, snap := range r.uow.users {
		if snap.Email == email && snap.Lifecycle.IsActive() {
			return user.RestoreUser(snap)
		}
	}
	return nil, errs.NewObjectNotFoundError("email", email)
}

func (r memUserRepository) ListUnavailableCouriers(_ context.Context) ([]*user.User, error) {
	var out []*user.User
	for _, snap := range r.uow.users {
		if snap.Role != user.RoleCourier || snap.IsAvailable || !snap.Lifecycle.IsActive() {
			continue
		}
		u, err := user.RestoreUser(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

type memParcelRepository struct{ uow *memUoW }

func (r memParcelRepository) Add(_ context.Context, p *parcel.Parcel) error {
	if _, ok := r.uow.parcels[p.ID()]; ok {
		return errs.NewConflictError("duplicate parcel")
	}
	r.uow.parcels[p.ID()] = p.Snapshot()
	return nil
}

func (r memParcelRepository) Update(_ context.Context, p *parcel.Parcel) error {
	stored, ok := r.uow.parcels[p.ID()]
	if !ok || !stored.Lifecycle.IsActive() || stored.Version != p.Version() {
		return errs.NewStaleObjectError("parcel", p.ID())
	}
	p.AdvanceVersion()
	r.uow.parcels[p.ID()] = p.Snapshot()
	return nil
}

func (r memParcelRepository) Get(_ context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	snap, ok := r.uow.parcels[id]
	if !ok || !snap.Lifecycle.IsActive() {
		return nil, errs.NewObjectNotFoundError("parcel", id)
	}
	return parcel.RestoreParcel(snap)
}

func (r memParcelRepository) List(_ context.Context, filter ports.ParcelFilter) ([]*parcel.Parcel, error) {
	var out []*parcel.Parcel
	for _, snap := range r.uow.parcels {
		if !snap.Lifecycle.IsActive() || !matches(snap, filter) {
			continue
		}
		p, err := parcel.RestoreParcel(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })
	return out, nil
}

func (r memParcelRepository) CountOpenByCourier(_ context.Context, courierID kernel.UUID) (int64, error) {
	var n int64
	for _, snap := range r.uow.parcels {
		if snap.Lifecycle.IsActive() && snap.Status.IsOpen() &&
			snap.AssignedCourierID != nil && snap.AssignedCourierID.IsEqual(courierID) {
			n++
		}
	}
	return n, nil
}

func matches(snap parcel.Snapshot, filter ports.ParcelFilter) bool {
	if filter.Status != nil && snap.Status != *filter.Status {
		return false
	}
	if filter.CourierID != nil &&
		(snap.AssignedCourierID == nil || !snap.AssignedCourierID.IsEqual(*filter.CourierID)) {
		return false
	}
	if filter.PartyID != nil {
		receiverID := snap.Receiver.ID()
		isSender := snap.SenderID.IsEqual(*filter.PartyID)
		isReceiver := receiverID != nil && receiverID.IsEqual(*filter.PartyID)
		if !isSender && !isReceiver {
			return false
		}
	}
	return true
}

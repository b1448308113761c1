// Package userrepo persists user aggregates with GORM.
package userrepo

import (
	"time"

	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/core/domain/model/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserDTO is the row shape of the users table. Availability is only
// meaningful for couriers; the location columns are null until a courier
// reports a position.
type UserDTO struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name         string         `gorm:"type:varchar(120);not null"`
	Email        string         `gorm:"type:varchar(320);not null;uniqueIndex"`
	Phone        string         `gorm:"type:varchar(32);not null"`
	PasswordHash string         `gorm:"type:varchar(255);not null"`
	Role         string         `gorm:"type:varchar(16);not null;index"`
	IsAvailable  bool           `gorm:"not null"`
	LocationLat  *float64       `gorm:"type:double precision"`
	LocationLng  *float64       `gorm:"type:double precision"`
	CreatedAt    time.Time      `gorm:"not null"`
	UpdatedAt    time.Time      `gorm:"not null"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
	Version      int            `gorm:"not null"`
}

func (UserDTO) TableName() string {
	return "users"
}

func fromDomain(u *user.User) UserDTO {
	s := u.Snapshot()
	dto := UserDTO{
		ID:           s.ID.Bytes(),
		Name:         s.Name,
		Email:        s.Email,
		Phone:        s.Phone,
		PasswordHash: s.PasswordHash,
		Role:         s.Role.String(),
		IsAvailable:  s.IsAvailable,
		CreatedAt:    s.CreatedAt,
		Version:      s.Version,
	}
	if s.CurrentLocation != nil {
		lat, lng := s.CurrentLocation.Lat(), s.CurrentLocation.Lng()
		dto.LocationLat, dto.LocationLng = &lat, &lng
	}
	if at, deleted := s.Lifecycle.Deleted(); deleted {
		dto.DeletedAt = gorm.DeletedAt{Time: at, Valid: true}
	}
	return dto
}

func toDomain(dto UserDTO) (*user.User, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}

	role, err := user.ParseRole(dto.Role)
	if err != nil {
		return nil, err
	}

	var location *kernel.GeoPoint
	if dto.LocationLat != nil && dto.LocationLng != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.LocationLat, *dto.LocationLng)
		if pointErr != nil {
			return nil, pointErr
		}
		location = &point
	}

	lifecycle := kernel.Active()
	if dto.DeletedAt.Valid {
		lifecycle = kernel.DeletedAt(dto.DeletedAt.Time)
	}

	return user.RestoreUser(user.Snapshot{
		ID:              id,
		Name:            dto.Name,
		Email:           dto.Email,
		Phone:           dto.Phone,
		PasswordHash:    dto.PasswordHash,
		Role:            role,
		IsAvailable:     dto.IsAvailable,
		CurrentLocation: location,
		CreatedAt:       dto.CreatedAt,
		Lifecycle:       lifecycle,
		Version:         dto.Version,
	})
}

// updateColumns lists every mutable column for the versioned UPDATE. A map
// is used so false and null values are written too.
func updateColumns(dto UserDTO, nextVersion int) map[string]any {
	return map[string]any{
		"name":          dto.Name,
		"email":         dto.Email,
		"phone":         dto.Phone,
		"password_hash": dto.PasswordHash,
		"role":          dto.Role,
		"is_available":  dto.IsAvailable,
		"location_lat":  dto.LocationLat,
		"location_lng":  dto.LocationLng,
		"deleted_at":    dto.DeletedAt,
		"version":       nextVersion,
	}
}

// Package parcelrepo persists parcel aggregates with GORM.
package parcelrepo

import (
	"time"

	"sendit/internal/core/domain/model/kernel"
	"sendit/internal/core/domain/model/parcel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ParcelDTO is the row shape of the parcels table. Both addresses are
// embedded with their resolved coordinates.
type ParcelDTO struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey"`
	SenderID          uuid.UUID      `gorm:"type:uuid;not null;index"`
	ReceiverID        *uuid.UUID     `gorm:"type:uuid;index"`
	ReceiverName      string         `gorm:"type:varchar(120);not null"`
	ReceiverPhone     string         `gorm:"type:varchar(32);not null"`
	Pickup            AddressDTO     `gorm:"embedded;embeddedPrefix:pickup_"`
	Destination       AddressDTO     `gorm:"embedded;embeddedPrefix:destination_"`
	Weight            string         `gorm:"type:varchar(8);not null"`
	AssignedCourierID *uuid.UUID     `gorm:"type:uuid;index"`
	Status            string         `gorm:"type:varchar(16);not null;index"`
	CreatedAt         time.Time      `gorm:"not null;index"`
	UpdatedAt         time.Time      `gorm:"not null"`
	DeletedAt         gorm.DeletedAt `gorm:"index"`
	Version           int            `gorm:"not null"`
}

func (ParcelDTO) TableName() string {
	return "parcels"
}

type AddressDTO struct {
	Text string  `gorm:"type:varchar(500);not null"`
	Lat  float64 `gorm:"type:double precision;not null"`
	Lng  float64 `gorm:"type:double precision;not null"`
}

func fromDomain(p *parcel.Parcel) ParcelDTO {
	s := p.Snapshot()
	dto := ParcelDTO{
		ID:            s.ID.Bytes(),
		SenderID:      s.SenderID.Bytes(),
		ReceiverName:  s.Receiver.Name(),
		ReceiverPhone: s.Receiver.Phone(),
		Pickup:        addressFromDomain(s.Pickup),
		Destination:   addressFromDomain(s.Destination),
		Weight:        s.Weight.String(),
		Status:        s.Status.String(),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
		Version:       s.Version,
	}
	if id := s.Receiver.ID(); id != nil {
		raw := id.Bytes()
		dto.ReceiverID = &raw
	}
	if s.AssignedCourierID != nil {
		raw := s.AssignedCourierID.Bytes()
		dto.AssignedCourierID = &raw
	}
	if at, deleted := s.Lifecycle.Deleted(); deleted {
		dto.DeletedAt = gorm.DeletedAt{Time: at, Valid: true}
	}
	return dto
}

func addressFromDomain(a parcel.Address) AddressDTO {
	return AddressDTO{Text: a.Text(), Lat: a.Point().Lat(), Lng: a.Point().Lng()}
}

func toDomain(dto ParcelDTO) (*parcel.Parcel, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	senderID, err := kernel.UUIDFromGoogle(dto.SenderID)
	if err != nil {
		return nil, err
	}
	receiverID, err := optionalUUID(dto.ReceiverID)
	if err != nil {
		return nil, err
	}
	courierID, err := optionalUUID(dto.AssignedCourierID)
	if err != nil {
		return nil, err
	}

	receiver, err := parcel.NewReceiver(receiverID, dto.ReceiverName, dto.ReceiverPhone)
	if err != nil {
		return nil, err
	}
	pickup, err := addressToDomain(dto.Pickup)
	if err != nil {
		return nil, err
	}
	destination, err := addressToDomain(dto.Destination)
	if err != nil {
		return nil, err
	}
	weight, err := parcel.ParseWeightCategory(dto.Weight)
	if err != nil {
		return nil, err
	}
	status, err := parcel.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	lifecycle := kernel.Active()
	if dto.DeletedAt.Valid {
		lifecycle = kernel.DeletedAt(dto.DeletedAt.Time)
	}

	return parcel.RestoreParcel(parcel.Snapshot{
		ID:                id,
		SenderID:          senderID,
		Receiver:          receiver,
		Pickup:            pickup,
		Destination:       destination,
		Weight:            weight,
		AssignedCourierID: courierID,
		Status:            status,
		CreatedAt:         dto.CreatedAt,
		UpdatedAt:         dto.UpdatedAt,
		Lifecycle:         lifecycle,
		Version:           dto.Version,
	})
}

func addressToDomain(dto AddressDTO) (parcel.Address, error) {
	point, err := kernel.NewGeoPoint(dto.Lat, dto.Lng)
	if err != nil {
		return parcel.Address{}, err
	}
	return parcel.NewAddress(dto.Text, point)
}

func optionalUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromGoogle(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// updateColumns lists every mutable column for the versioned UPDATE.
func updateColumns(dto ParcelDTO, nextVersion int) map[string]any {
	return map[string]any{
		"receiver_id":         dto.ReceiverID,
		"receiver_name":       dto.ReceiverName,
		"receiver_phone":      dto.ReceiverPhone,
		"pickup_text":         dto.Pickup.Text,
		"pickup_lat":          dto.Pickup.Lat,
		"pickup_lng":          dto.Pickup.Lng,
		"destination_text":    dto.Destination.Text,
		"destination_lat":     dto.Destination.Lat,
		"destination_lng":     dto.Destination.Lng,
		"weight":              dto.Weight,
		"assigned_courier_id": dto.AssignedCourierID,
		"status":              dto.Status,
		"updated_at":          dto.UpdatedAt,
		"deleted_at":          dto.DeletedAt,
		"version":             nextVersion,
	}
}

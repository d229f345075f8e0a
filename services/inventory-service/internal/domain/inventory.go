package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type HotelStatus string

const (
	HotelActive   HotelStatus = "ACTIVE"
	HotelInactive HotelStatus = "INACTIVE"
)

type Hotel struct {
	ID            int64                       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string                      `gorm:"size:200;not null" json:"name"`
	Description   string                      `gorm:"type:text" json:"description,omitempty"`
	Address       string                      `gorm:"not null" json:"address"`
	City          string                      `gorm:"size:100;not null;index" json:"city"`
	State         string                      `gorm:"size:100;not null" json:"state"`
	Country       string                      `gorm:"size:100;not null" json:"country"`
	ContactNumber string                      `gorm:"size:15" json:"contactNumber,omitempty"`
	Email         string                      `gorm:"size:100" json:"email,omitempty"`
	StarRating    *int                        `json:"starRating,omitempty"`
	Amenities     datatypes.JSONSlice[string] `json:"amenities,omitempty"`
	Status        HotelStatus                 `gorm:"size:20;not null" json:"status"`
	// Projections of the room table, refreshed on every room write.
	TotalRooms     int       `json:"totalRooms"`
	AvailableRooms int       `json:"availableRooms"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "AVAILABLE"
	RoomOccupied    RoomStatus = "OCCUPIED"
	RoomMaintenance RoomStatus = "MAINTENANCE"
	RoomCleaning    RoomStatus = "CLEANING"
	RoomOutOfOrder  RoomStatus = "OUT_OF_ORDER"
)

func ParseRoomStatus(s string) (RoomStatus, error) {
	switch st := RoomStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case RoomAvailable, RoomOccupied, RoomMaintenance, RoomCleaning, RoomOutOfOrder:
		return st, nil
	}
	return "", fmt.Errorf("invalid room status %q", s)
}

type Room struct {
	ID            int64                       `gorm:"primaryKey;autoIncrement" json:"id"`
	HotelID       int64                       `gorm:"not null;uniqueIndex:idx_room_hotel_number" json:"hotelId"`
	RoomNumber    string                      `gorm:"size:20;not null;uniqueIndex:idx_room_hotel_number" json:"roomNumber"`
	RoomType      string                      `gorm:"size:30;not null" json:"roomType"`
	PricePerNight decimal.Decimal             `gorm:"type:decimal(10,2);not null" json:"pricePerNight"`
	MaxOccupancy  int                         `gorm:"not null" json:"maxOccupancy"`
	FloorNumber   *int                        `json:"floorNumber,omitempty"`
	BedType       string                      `gorm:"size:50" json:"bedType,omitempty"`
	Amenities     datatypes.JSONSlice[string] `json:"amenities,omitempty"`
	Description   string                      `gorm:"type:text" json:"description,omitempty"`
	Status        RoomStatus                  `gorm:"size:20;not null" json:"status"`
	Active        bool                        `gorm:"not null;default:true" json:"active"`

	StatusChangedAt *time.Time `json:"statusChangedAt,omitempty"`
	StatusChangedBy *int64     `json:"statusChangedBy,omitempty"`
	CreatedBy       int64      `json:"createdBy"`
	UpdatedBy       int64      `json:"updatedBy"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// SetStatus records who moved the room to st. Setting the current status is
// a no-op.
func (r *Room) SetStatus(st RoomStatus, by int64, now time.Time) {
	if r.Status == st {
		return
	}
	at := now.UTC()
	r.Status = st
	r.StatusChangedAt = &at
	r.StatusChangedBy = &by
	r.UpdatedBy = by
}

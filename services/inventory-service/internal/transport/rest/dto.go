package rest

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/coosmos/Hotel-Management-Backend/pkg/apperr"
	"github.com/coosmos/Hotel-Management-Backend/services/inventory-service/internal/domain"
	"github.com/coosmos/Hotel-Management-Backend/services/inventory-service/internal/service"
)

type hotelReq struct {
	Name          string   `json:"name"          binding:"required,min=2,max=200"`
	Description   string   `json:"description"   binding:"max=2000"`
	Address       string   `json:"address"       binding:"required"`
	City          string   `json:"city"          binding:"required,max=100"`
	State         string   `json:"state"         binding:"required,max=100"`
	Country       string   `json:"country"       binding:"required,max=100"`
	ContactNumber string   `json:"contactNumber" binding:"omitempty,phone"`
	Email         string   `json:"email"         binding:"omitempty,email"`
	StarRating    *int     `json:"starRating"    binding:"omitempty,min=1,max=5"`
	Amenities     []string `json:"amenities"`
	Status        string   `json:"status"        binding:"omitempty,oneof=ACTIVE INACTIVE"`
}

func (r hotelReq) hotel() domain.Hotel {
	return domain.Hotel{
		Name: r.Name, Description: r.Description, Address: r.Address,
		City: r.City, State: r.State, Country: r.Country,
		ContactNumber: r.ContactNumber, Email: r.Email, StarRating: r.StarRating,
		Amenities: datatypes.JSONSlice[string](r.Amenities), Status: domain.HotelStatus(r.Status),
	}
}

type roomReq struct {
	HotelID       int64           `json:"hotelId"       binding:"required,gt=0"`
	RoomNumber    string          `json:"roomNumber"    binding:"required,max=20"`
	RoomType      string          `json:"roomType"      binding:"required,max=30"`
	PricePerNight decimal.Decimal `json:"pricePerNight"`
	MaxOccupancy  int             `json:"maxOccupancy"  binding:"required,min=1,max=10"`
	FloorNumber   *int            `json:"floorNumber"   binding:"omitempty,min=0"`
	BedType       string          `json:"bedType"       binding:"max=50"`
	Amenities     []string        `json:"amenities"`
	Description   string          `json:"description"`
	Status        string          `json:"status"`
	Active        *bool           `json:"active"`
}

// room validates the fields the binding tags cannot express.
func (r roomReq) room() (domain.Room, *domain.RoomStatus, error) {
	if !r.PricePerNight.IsPositive() {
		return domain.Room{}, nil, apperr.New(apperr.Validation, "pricePerNight must be greater than 0")
	}
	room := domain.Room{
		HotelID: r.HotelID, RoomNumber: strings.TrimSpace(r.RoomNumber),
		RoomType: strings.ToUpper(strings.TrimSpace(r.RoomType)), PricePerNight: r.PricePerNight.Round(2),
		MaxOccupancy: r.MaxOccupancy, FloorNumber: r.FloorNumber, BedType: r.BedType,
		Amenities: datatypes.JSONSlice[string](r.Amenities), Description: r.Description, Active: true,
	}
	if r.Active != nil {
		room.Active = *r.Active
	}
	if r.Status == "" {
		return room, nil, nil
	}
	st, err := domain.ParseRoomStatus(r.Status)
	if err != nil {
		return domain.Room{}, nil, apperr.Wrap(apperr.Validation, err, err.Error())
	}
	room.Status = st
	return room, &st, nil
}

func (r roomReq) update() (service.RoomUpdate, error) {
	room, st, err := r.room()
	if err != nil {
		return service.RoomUpdate{}, err
	}
	return service.RoomUpdate{Room: room, SetStatus: st, SetActive: r.Active}, nil
}

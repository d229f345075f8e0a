package domain

import "github.com/shopspring/decimal"

// Room is the booking core's read-only view of an inventory room.
type Room struct {
	ID            int64           `json:"id"`
	HotelID       int64           `json:"hotelId"`
	RoomNumber    string          `json:"roomNumber"`
	RoomType      string          `json:"roomType"`
	PricePerNight decimal.Decimal `json:"pricePerNight"`
	MaxOccupancy  int             `json:"maxOccupancy"`
	Status        string          `json:"status"`
	Active        bool            `json:"active"`
}

type Hotel struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

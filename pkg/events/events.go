// Package events defines the booking lifecycle topics and their payloads.
package events

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

const (
	TopicBookingCreated   = "booking-created"
	TopicGuestCheckedIn   = "guest-checked-in"
	TopicGuestCheckedOut  = "guest-checked-out"
	TopicCheckInReminder  = "checkin-reminder"
	TopicBookingCancelled = "booking-cancelled"
)

// Key is the partition key for a booking's events.
func Key(bookingID int64) string { return strconv.FormatInt(bookingID, 10) }

// Dates are YYYY-MM-DD; timestamps are RFC 3339 with seconds precision.
type BookingCreated struct {
	BookingID      int64           `json:"bookingId"`
	UserID         int64           `json:"userId"`
	HotelID        int64           `json:"hotelId"`
	HotelName      string          `json:"hotelName,omitempty"`
	RoomID         int64           `json:"roomId"`
	RoomNumber     string          `json:"roomNumber,omitempty"`
	RoomType       string          `json:"roomType,omitempty"`
	GuestName      string          `json:"guestName"`
	GuestEmail     string          `json:"guestEmail"`
	GuestPhone     string          `json:"guestPhone"`
	CheckInDate    string          `json:"checkInDate"`
	CheckOutDate   string          `json:"checkOutDate"`
	NumberOfNights int             `json:"numberOfNights"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	NumberOfGuests int             `json:"numberOfGuests"`
	CreatedAt      string          `json:"createdAt"`
}

type CheckInReminder struct {
	BookingID    int64  `json:"bookingId"`
	UserID       int64  `json:"userId"`
	HotelID      int64  `json:"hotelId"`
	HotelName    string `json:"hotelName"`
	RoomID       int64  `json:"roomId"`
	RoomNumber   string `json:"roomNumber"`
	GuestName    string `json:"guestName"`
	GuestEmail   string `json:"guestEmail"`
	GuestPhone   string `json:"guestPhone"`
	CheckInDate  string `json:"checkInDate"`
	CheckOutDate string `json:"checkOutDate"`
}

type GuestCheckedIn struct {
	BookingID    int64  `json:"bookingId"`
	UserID       int64  `json:"userId"`
	HotelID      int64  `json:"hotelId"`
	HotelName    string `json:"hotelName,omitempty"`
	RoomID       int64  `json:"roomId"`
	RoomNumber   string `json:"roomNumber,omitempty"`
	GuestName    string `json:"guestName"`
	GuestEmail   string `json:"guestEmail"`
	CheckOutDate string `json:"checkOutDate"`
	CheckedInAt  string `json:"checkedInAt"`
	RoomStatus   string `json:"roomStatus"`
}

type GuestCheckedOut struct {
	BookingID    int64           `json:"bookingId"`
	UserID       int64           `json:"userId"`
	HotelID      int64           `json:"hotelId"`
	HotelName    string          `json:"hotelName,omitempty"`
	RoomID       int64           `json:"roomId"`
	RoomNumber   string          `json:"roomNumber,omitempty"`
	GuestName    string          `json:"guestName"`
	GuestEmail   string          `json:"guestEmail"`
	CheckInDate  string          `json:"checkInDate"`
	CheckOutDate string          `json:"checkOutDate"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	CheckedOutAt string          `json:"checkedOutAt"`
	RoomStatus   string          `json:"roomStatus"`
	Rating       *int            `json:"rating,omitempty"`
	Feedback     string          `json:"feedback,omitempty"`
}

type BookingCancelled struct {
	BookingID   int64  `json:"bookingId"`
	UserID      int64  `json:"userId"`
	HotelID     int64  `json:"hotelId"`
	RoomID      int64  `json:"roomId"`
	GuestEmail  string `json:"guestEmail"`
	Reason      string `json:"reason,omitempty"`
	CancelledAt string `json:"cancelledAt"`
}

// Decode unmarshals an event body.
func Decode[T any](b []byte) (T, error) {
	var t T
	if err := json.Unmarshal(b, &t); err != nil {
		var zero T
		return zero, fmt.Errorf("decode payload failed: %w", err)
	}
	return t, nil
}

package domain

import (
	"time"
	"unicode/utf8"
)

type Type string

const (
	TypeBookingCreated   Type = "BOOKING_CREATED"
	TypeCheckInReminder  Type = "CHECKIN_REMINDER"
	TypeCheckInSuccess   Type = "CHECKIN_SUCCESS"
	TypeCheckOutThankYou Type = "CHECKOUT_THANKYOU"
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusSent    Status = "SENT"
	StatusFailed  Status = "FAILED"
)

// Notification is one delivery attempt record. (BookingID, Type) is unique so
// a redelivered event updates the same row.
type Notification struct {
	ID             int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingID      int64      `gorm:"not null;uniqueIndex:idx_notification_booking_type" json:"bookingId"`
	Type           Type       `gorm:"column:notification_type;size:30;not null;uniqueIndex:idx_notification_booking_type" json:"notificationType"`
	HotelID        int64      `gorm:"index" json:"hotelId"`
	RecipientEmail string     `gorm:"size:100;not null" json:"recipientEmail"`
	Subject        string     `gorm:"not null" json:"subject"`
	Content        string     `gorm:"type:text;not null" json:"content"`
	Status         Status     `gorm:"size:20;not null" json:"status"`
	Attempts       int        `gorm:"not null;default:0" json:"attempts"`
	SentAt         *time.Time `json:"sentAt,omitempty"`
	ErrorMessage   string     `gorm:"size:500" json:"errorMessage,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (n *Notification) MarkSent(at time.Time) {
	at = at.UTC()
	n.Status = StatusSent
	n.SentAt = &at
	n.ErrorMessage = ""
}

// maxErrorLen matches the error_message column size, in characters.
const maxErrorLen = 500

func (n *Notification) MarkFailed(err error) {
	msg := err.Error()
	if utf8.RuneCountInString(msg) > maxErrorLen {
		msg = string([]rune(msg)[:maxErrorLen])
	}
	n.Status = StatusFailed
	n.ErrorMessage = msg
}

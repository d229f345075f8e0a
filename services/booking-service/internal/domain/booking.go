package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/coosmos/Hotel-Management-Backend/pkg/apperr"
	"github.com/coosmos/Hotel-Management-Backend/pkg/dates"
)

// BaseEntity carries audit fields shared by stored entities.
type BaseEntity struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy string `gorm:"size:100"`
	UpdatedBy string `gorm:"size:100"`
}

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusCheckedIn  Status = "CHECKED_IN"
	StatusCheckedOut Status = "CHECKED_OUT"
	StatusCancelled  Status = "CANCELLED"
)

func (s Status) DisplayName() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusConfirmed:
		return "Confirmed"
	case StatusCheckedIn:
		return "Checked In"
	case StatusCheckedOut:
		return "Checked Out"
	case StatusCancelled:
		return "Cancelled"
	}
	return string(s)
}

func (s Status) IsTerminal() bool { return s == StatusCancelled || s == StatusCheckedOut }

// TerminalStatuses release the room for other bookings.
var TerminalStatuses = []Status{StatusCancelled, StatusCheckedOut}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

const PaymentMethodCash = "CASH"

// Room status values pushed to inventory on stay transitions.
const (
	RoomOccupied = "OCCUPIED"
	RoomCleaning = "CLEANING"
)

type Booking struct {
	ID      int64 `gorm:"primaryKey;autoIncrement"`
	UserID  int64 `gorm:"not null;index"`
	HotelID int64 `gorm:"not null;index"`
	RoomID  int64 `gorm:"not null;index:idx_booking_room_dates,priority:1"`

	// snapshot of inventory data at booking time
	HotelName  string `gorm:"size:200"`
	RoomNumber string `gorm:"size:20"`
	RoomType   string `gorm:"size:50"`

	CheckInDate    time.Time       `gorm:"type:date;not null;index:idx_booking_room_dates,priority:2"`
	CheckOutDate   time.Time       `gorm:"type:date;not null;index:idx_booking_room_dates,priority:3"`
	NumberOfGuests int             `gorm:"not null"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	GuestName       string `gorm:"size:100;not null"`
	GuestEmail      string `gorm:"size:255;not null"`
	GuestPhone      string `gorm:"size:20;not null"`
	SpecialRequests string `gorm:"size:1000"`

	Status             Status        `gorm:"size:20;not null;index"`
	PaymentStatus      PaymentStatus `gorm:"size:20;not null"`
	PaymentMethod      string        `gorm:"size:20"`
	PaidAt             *time.Time
	CancelledAt        *time.Time
	CancellationReason string `gorm:"size:500"`
	CheckedInAt        *time.Time
	CheckedOutAt       *time.Time
	CheckInNotes       string `gorm:"size:500"`
	CheckOutNotes      string `gorm:"size:500"`
	Rating             *int
	Feedback           string `gorm:"size:1000"`

	BaseEntity `gorm:"embedded"`
}

func (b *Booking) Nights() int { return dates.Nights(b.CheckInDate, b.CheckOutDate) }

// Overlaps uses the inclusive predicate: bookings that share a boundary day
// conflict.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return !aIn.After(bOut) && !aOut.Before(bIn)
}

func (b *Booking) Cancel(now time.Time, reason, by string) error {
	if b.Status != StatusConfirmed && b.Status != StatusPending {
		return apperr.Newf(apperr.InvalidState, "Booking cannot be cancelled. Current status: %s", b.Status.DisplayName())
	}
	cancelledAt := dates.Of(now)
	b.Status = StatusCancelled
	b.CancelledAt = &cancelledAt
	b.CancellationReason = reason
	b.UpdatedBy = by
	return nil
}

func (b *Booking) CheckIn(now time.Time, notes, by string) error {
	if b.Status != StatusConfirmed {
		return apperr.Newf(apperr.InvalidState, "Cannot check in. Current status: %s", b.Status.DisplayName())
	}
	at := now.UTC()
	b.Status = StatusCheckedIn
	b.CheckedInAt = &at
	b.CheckInNotes = notes
	b.UpdatedBy = by
	return nil
}

// CheckOut closes the stay. With settle set, an unpaid booking is recorded
// as paid in cash at the desk.
func (b *Booking) CheckOut(now time.Time, notes string, rating *int, feedback, by string, settle bool) error {
	if b.Status != StatusCheckedIn {
		return apperr.Newf(apperr.InvalidState, "Cannot check out. Current status: %s", b.Status.DisplayName())
	}
	at := now.UTC()
	b.Status = StatusCheckedOut
	b.CheckedOutAt = &at
	b.CheckOutNotes = notes
	b.Rating = rating
	b.Feedback = feedback
	b.UpdatedBy = by
	if settle && b.PaymentStatus == PaymentPending {
		b.PaymentStatus = PaymentPaid
		b.PaymentMethod = PaymentMethodCash
		b.PaidAt = &at
	}
	return nil
}

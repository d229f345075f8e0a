package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/coosmos/Hotel-Management-Backend/pkg/apperr"
	"github.com/coosmos/Hotel-Management-Backend/pkg/auth"
	"github.com/coosmos/Hotel-Management-Backend/pkg/authz"
	"github.com/coosmos/Hotel-Management-Backend/pkg/dates"
	"github.com/coosmos/Hotel-Management-Backend/pkg/events"
	"github.com/coosmos/Hotel-Management-Backend/services/booking-service/internal/domain"
)

type CheckOutInput struct {
	Notes    string
	Rating   *int
	Feedback string
}

func (s *BookingSvc) Cancel(ctx context.Context, p auth.Principal, id int64, reason string) (*domain.Booking, error) {
	b, err := s.store.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.VerifyBookingAccess(p, b.UserID, b.HotelID); err != nil {
		return nil, err
	}
	now := s.now()
	b, err = s.store.Transition(ctx, id, func(b *domain.Booking) error {
		return b.Cancel(now, reason, p.Username)
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"booking_id": b.ID, "by": p.Username}).Info("booking cancelled")
	s.events.Dispatch(events.TopicBookingCancelled, events.Key(b.ID), events.BookingCancelled{
		BookingID:   b.ID,
		UserID:      b.UserID,
		HotelID:     b.HotelID,
		RoomID:      b.RoomID,
		GuestEmail:  b.GuestEmail,
		Reason:      reason,
		CancelledAt: dates.Format(*b.CancelledAt),
	})
	return b, nil
}

// staffAccess loads the booking and checks that p may run desk operations on it.
func (s *BookingSvc) staffAccess(ctx context.Context, p auth.Principal, id int64) (*domain.Booking, error) {
	if err := authz.RequireBookingManager(p); err != nil {
		return nil, err
	}
	b, err := s.store.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.VerifyHotelAccess(p, b.HotelID); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BookingSvc) CheckIn(ctx context.Context, p auth.Principal, id int64, notes string) (*domain.Booking, error) {
	if len(notes) > 500 {
		return nil, apperr.New(apperr.Validation, "Notes cannot exceed 500 characters")
	}
	if _, err := s.staffAccess(ctx, p, id); err != nil {
		return nil, err
	}
	now := s.now()
	b, err := s.store.Transition(ctx, id, func(b *domain.Booking) error {
		return b.CheckIn(now, notes, p.Username)
	})
	if err != nil {
		return nil, err
	}
	log := s.log.WithFields(logrus.Fields{"booking_id": b.ID, "room_id": b.RoomID})
	log.Info("guest checked in")

	s.pushRoomStatus(ctx, log, b.RoomID, domain.RoomOccupied)
	s.events.Dispatch(events.TopicGuestCheckedIn, events.Key(b.ID), events.GuestCheckedIn{
		BookingID:    b.ID,
		UserID:       b.UserID,
		HotelID:      b.HotelID,
		HotelName:    b.HotelName,
		RoomID:       b.RoomID,
		RoomNumber:   b.RoomNumber,
		GuestName:    b.GuestName,
		GuestEmail:   b.GuestEmail,
		CheckOutDate: dates.Format(b.CheckOutDate),
		CheckedInAt:  dates.Timestamp(*b.CheckedInAt),
		RoomStatus:   domain.RoomOccupied,
	})
	return b, nil
}

func (s *BookingSvc) CheckOut(ctx context.Context, p auth.Principal, id int64, in CheckOutInput) (*domain.Booking, error) {
	switch {
	case in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5):
		return nil, apperr.New(apperr.Validation, "Rating must be between 1 and 5")
	case len(in.Notes) > 500:
		return nil, apperr.New(apperr.Validation, "Notes cannot exceed 500 characters")
	case len(in.Feedback) > 1000:
		return nil, apperr.New(apperr.Validation, "Feedback cannot exceed 1000 characters")
	}
	if _, err := s.staffAccess(ctx, p, id); err != nil {
		return nil, err
	}
	now := s.now()
	b, err := s.store.Transition(ctx, id, func(b *domain.Booking) error {
		return b.CheckOut(now, in.Notes, in.Rating, in.Feedback, p.Username, s.opts.SettleOnCheckout)
	})
	if err != nil {
		return nil, err
	}
	log := s.log.WithFields(logrus.Fields{"booking_id": b.ID, "room_id": b.RoomID, "payment_status": b.PaymentStatus})
	log.Info("guest checked out")

	s.pushRoomStatus(ctx, log, b.RoomID, domain.RoomCleaning)
	s.events.Dispatch(events.TopicGuestCheckedOut, events.Key(b.ID), events.GuestCheckedOut{
		BookingID:    b.ID,
		UserID:       b.UserID,
		HotelID:      b.HotelID,
		HotelName:    b.HotelName,
		RoomID:       b.RoomID,
		RoomNumber:   b.RoomNumber,
		GuestName:    b.GuestName,
		GuestEmail:   b.GuestEmail,
		CheckInDate:  dates.Format(b.CheckInDate),
		CheckOutDate: dates.Format(b.CheckOutDate),
		TotalAmount:  b.TotalAmount,
		CheckedOutAt: dates.Timestamp(*b.CheckedOutAt),
		RoomStatus:   domain.RoomCleaning,
		Rating:       b.Rating,
		Feedback:     b.Feedback,
	})
	return b, nil
}

// pushRoomStatus informs inventory of the room's new housekeeping state.
// Failures are logged only; the booking change is already committed.
func (s *BookingSvc) pushRoomStatus(ctx context.Context, log *logrus.Entry, roomID int64, status string) {
	if err := s.inv.UpdateRoomStatus(ctx, roomID, status); err != nil {
		log.WithError(err).WithField("room_status", status).Warn("room status update failed")
	}
}

package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/coosmos/Hotel-Management-Backend/pkg/dates"
	"github.com/coosmos/Hotel-Management-Backend/pkg/events"
	"github.com/coosmos/Hotel-Management-Backend/services/booking-service/internal/domain"
)

type ReminderReport struct {
	Due    int
	Sent   int
	Failed int
}

// SendCheckInReminders emits one reminder per confirmed booking arriving
// tomorrow. A booking whose room cannot be looked up is skipped and the rest
// are still processed.
func (s *BookingSvc) SendCheckInReminders(ctx context.Context) (ReminderReport, error) {
	tomorrow := dates.AddDays(s.today(), 1)
	due, err := s.store.ByCheckInDate(ctx, tomorrow, domain.StatusConfirmed, 0)
	if err != nil {
		return ReminderReport{}, err
	}
	rep := ReminderReport{Due: len(due)}
	for _, b := range due {
		if ctx.Err() != nil {
			return rep, ctx.Err()
		}
		log := s.log.WithFields(logrus.Fields{"booking_id": b.ID, "room_id": b.RoomID})
		room, err := s.inv.Room(ctx, b.RoomID)
		if err != nil {
			log.WithError(err).Warn("reminder skipped, room lookup failed")
			rep.Failed++
			continue
		}
		s.events.Dispatch(events.TopicCheckInReminder, events.Key(b.ID), events.CheckInReminder{
			BookingID:    b.ID,
			UserID:       b.UserID,
			HotelID:      b.HotelID,
			HotelName:    b.HotelName,
			RoomID:       b.RoomID,
			RoomNumber:   room.RoomNumber,
			GuestName:    b.GuestName,
			GuestEmail:   b.GuestEmail,
			GuestPhone:   b.GuestPhone,
			CheckInDate:  dates.Format(b.CheckInDate),
			CheckOutDate: dates.Format(b.CheckOutDate),
		})
		rep.Sent++
	}
	s.log.WithFields(logrus.Fields{"date": dates.Format(tomorrow), "due": rep.Due, "sent": rep.Sent, "failed": rep.Failed}).Info("check-in reminders processed")
	return rep, nil
}

// LogTodayCheckOuts writes the day's expected departures to the log for staff.
func (s *BookingSvc) LogTodayCheckOuts(ctx context.Context) (int, error) {
	today := s.today()
	due, err := s.store.ByCheckOutDate(ctx, today, domain.StatusCheckedIn, 0)
	if err != nil {
		return 0, err
	}
	for _, b := range due {
		s.log.WithFields(logrus.Fields{
			"booking_id": b.ID, "hotel_id": b.HotelID, "room": b.RoomNumber, "guest": b.GuestName,
		}).Info("expected check-out today")
	}
	return len(due), nil
}

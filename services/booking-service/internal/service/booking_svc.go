package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/coosmos/Hotel-Management-Backend/pkg/apperr"
	"github.com/coosmos/Hotel-Management-Backend/pkg/auth"
	"github.com/coosmos/Hotel-Management-Backend/pkg/authz"
	"github.com/coosmos/Hotel-Management-Backend/pkg/dates"
	"github.com/coosmos/Hotel-Management-Backend/pkg/events"
	"github.com/coosmos/Hotel-Management-Backend/services/booking-service/internal/domain"
	"github.com/coosmos/Hotel-Management-Backend/services/booking-service/internal/repository"
)

type Store interface {
	BookedRoomIDs(ctx context.Context, hotelID int64, ci, co time.Time) ([]int64, error)
	CreateWithNoOverlap(ctx context.Context, b *domain.Booking) error
	ByID(ctx context.Context, id int64) (*domain.Booking, error)
	Transition(ctx context.Context, id int64, fn func(*domain.Booking) error) (*domain.Booking, error)
	List(ctx context.Context, f repository.Filter) ([]domain.Booking, int64, error)
	ByCheckInDate(ctx context.Context, day time.Time, status domain.Status, hotelID int64) ([]domain.Booking, error)
	ByCheckOutDate(ctx context.Context, day time.Time, status domain.Status, hotelID int64) ([]domain.Booking, error)
	Stats(ctx context.Context, hotelID int64, today time.Time) (repository.Stats, error)
}

type Inventory interface {
	RoomsByHotel(ctx context.Context, hotelID int64) ([]domain.Room, error)
	Room(ctx context.Context, roomID int64) (*domain.Room, error)
	Hotel(ctx context.Context, hotelID int64) (*domain.Hotel, error)
	UpdateRoomStatus(ctx context.Context, roomID int64, status string) error
}

// EventSink publishes after the caller's state change has committed.
type EventSink interface {
	Dispatch(topic, key string, payload any)
}

type Options struct {
	// SettleOnCheckout marks unpaid bookings as paid in cash at check-out.
	SettleOnCheckout bool
	// Location decides what "today" is. Defaults to time.Local.
	Location *time.Location
	Now      func() time.Time
}

type BookingSvc struct {
	store  Store
	inv    Inventory
	events EventSink
	log    *logrus.Entry
	opts   Options
}

func NewBookingSvc(store Store, inv Inventory, sink EventSink, log *logrus.Entry, opts Options) *BookingSvc {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &BookingSvc{store: store, inv: inv, events: sink, log: log, opts: opts}
}

func (s *BookingSvc) now() time.Time { return s.opts.Now().In(s.opts.Location) }

func (s *BookingSvc) today() time.Time { return dates.Of(s.now()) }

func (s *BookingSvc) validateDates(ci, co time.Time) error {
	if ci.Before(s.today()) {
		return apperr.New(apperr.Validation, "Check-in date cannot be in the past")
	}
	if !co.After(ci) {
		return apperr.New(apperr.Validation, "Check-out date must be after check-in date")
	}
	return nil
}

type Availability struct {
	HotelID        int64
	CheckInDate    time.Time
	CheckOutDate   time.Time
	TotalRooms     int
	AvailableRooms []domain.Room
}

// CheckAvailability returns the hotel's active rooms with no overlapping
// active booking for [ci, co].
func (s *BookingSvc) CheckAvailability(ctx context.Context, _ auth.Principal, hotelID int64, ci, co time.Time) (*Availability, error) {
	ci, co = dates.Of(ci), dates.Of(co)
	if err := s.validateDates(ci, co); err != nil {
		return nil, err
	}
	rooms, err := s.inv.RoomsByHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	booked, err := s.store.BookedRoomIDs(ctx, hotelID, ci, co)
	if err != nil {
		return nil, err
	}
	taken := make(map[int64]struct{}, len(booked))
	for _, id := range booked {
		taken[id] = struct{}{}
	}
	out := &Availability{HotelID: hotelID, CheckInDate: ci, CheckOutDate: co, TotalRooms: len(rooms), AvailableRooms: []domain.Room{}}
	for _, r := range rooms {
		if _, ok := taken[r.ID]; ok || !r.Active {
			continue
		}
		out.AvailableRooms = append(out.AvailableRooms, r)
	}
	return out, nil
}

type RoomTypeAvailability struct {
	RoomType       string
	AvailableCount int
	PricePerNight  decimal.Decimal
	MaxOccupancy   int
}

// AvailableRoomTypes groups availability by room type, in first-seen order.
func (s *BookingSvc) AvailableRoomTypes(ctx context.Context, p auth.Principal, hotelID int64, ci, co time.Time) ([]RoomTypeAvailability, error) {
	av, err := s.CheckAvailability(ctx, p, hotelID, ci, co)
	if err != nil {
		return nil, err
	}
	idx := map[string]int{}
	out := []RoomTypeAvailability{}
	for _, r := range av.AvailableRooms {
		i, ok := idx[r.RoomType]
		if !ok {
			idx[r.RoomType] = len(out)
			out = append(out, RoomTypeAvailability{RoomType: r.RoomType, PricePerNight: r.PricePerNight, MaxOccupancy: r.MaxOccupancy})
			i = len(out) - 1
		}
		t := &out[i]
		t.AvailableCount++
		if r.PricePerNight.LessThan(t.PricePerNight) {
			t.PricePerNight = r.PricePerNight
		}
		if r.MaxOccupancy > t.MaxOccupancy {
			t.MaxOccupancy = r.MaxOccupancy
		}
	}
	return out, nil
}

type CreateInput struct {
	HotelID         int64
	RoomType        string
	CheckInDate     time.Time
	CheckOutDate    time.Time
	NumberOfGuests  int
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	SpecialRequests string
}

// Create assigns a free room of the requested type and books it. A lost race
// for the chosen room is retried once with a fresh selection.
func (s *BookingSvc) Create(ctx context.Context, p auth.Principal, in CreateInput) (*domain.Booking, error) {
	if err := authz.RequireRole(p, auth.RoleGuest, auth.RoleAdmin); err != nil {
		return nil, err
	}
	ci, co := dates.Of(in.CheckInDate), dates.Of(in.CheckOutDate)
	if err := s.validateDates(ci, co); err != nil {
		return nil, err
	}
	if in.NumberOfGuests < 1 {
		return nil, apperr.New(apperr.Validation, "Number of guests must be at least 1")
	}

	rooms, err := s.inv.RoomsByHotel(ctx, in.HotelID)
	if err != nil {
		return nil, err
	}
	var candidates []domain.Room
	maxFit := 0
	for _, r := range rooms {
		if !r.Active || !strings.EqualFold(r.RoomType, in.RoomType) {
			continue
		}
		if r.MaxOccupancy > maxFit {
			maxFit = r.MaxOccupancy
		}
		if in.NumberOfGuests <= r.MaxOccupancy {
			candidates = append(candidates, r)
		}
	}
	if maxFit == 0 {
		return nil, apperr.Newf(apperr.NoInventory, "No rooms of type %s found in this hotel", in.RoomType)
	}
	if len(candidates) == 0 {
		return nil, apperr.Newf(apperr.Validation, "Number of guests exceeds room capacity (max %d)", maxFit)
	}

	hotelName := ""
	if h, err := s.inv.Hotel(ctx, in.HotelID); err != nil {
		s.log.WithError(err).WithField("hotel_id", in.HotelID).Warn("hotel lookup failed, booking without hotel name")
	} else {
		hotelName = h.Name
	}

	excluded := map[int64]struct{}{}
	for attempt := 0; ; attempt++ {
		booked, err := s.store.BookedRoomIDs(ctx, in.HotelID, ci, co)
		if err != nil {
			return nil, err
		}
		for _, id := range booked {
			excluded[id] = struct{}{}
		}
		room, ok := firstFree(candidates, excluded)
		if !ok {
			return nil, apperr.Newf(apperr.NoAvailability, "No rooms of type %s available for selected dates", in.RoomType)
		}

		b := &domain.Booking{
			UserID:          p.UserID,
			HotelID:         in.HotelID,
			HotelName:       hotelName,
			RoomID:          room.ID,
			RoomNumber:      room.RoomNumber,
			RoomType:        room.RoomType,
			CheckInDate:     ci,
			CheckOutDate:    co,
			NumberOfGuests:  in.NumberOfGuests,
			GuestName:       in.GuestName,
			GuestEmail:      in.GuestEmail,
			GuestPhone:      in.GuestPhone,
			SpecialRequests: in.SpecialRequests,
			Status:          domain.StatusConfirmed,
			PaymentStatus:   domain.PaymentPending,
			BaseEntity:      domain.BaseEntity{CreatedBy: p.Username, UpdatedBy: p.Username},
		}
		b.TotalAmount = room.PricePerNight.Mul(decimal.NewFromInt(int64(b.Nights())))

		err = s.store.CreateWithNoOverlap(ctx, b)
		if apperr.Is(err, apperr.Conflict) && attempt == 0 {
			s.log.WithFields(logrus.Fields{"room_id": room.ID, "hotel_id": in.HotelID}).Info("room taken concurrently, reselecting")
			excluded[room.ID] = struct{}{}
			continue
		}
		if err != nil {
			return nil, err
		}

		s.log.WithFields(logrus.Fields{"booking_id": b.ID, "room_id": b.RoomID, "user_id": b.UserID}).Info("booking created")
		s.events.Dispatch(events.TopicBookingCreated, events.Key(b.ID), events.BookingCreated{
			BookingID:      b.ID,
			UserID:         b.UserID,
			HotelID:        b.HotelID,
			HotelName:      b.HotelName,
			RoomID:         b.RoomID,
			RoomNumber:     b.RoomNumber,
			RoomType:       b.RoomType,
			GuestName:      b.GuestName,
			GuestEmail:     b.GuestEmail,
			GuestPhone:     b.GuestPhone,
			CheckInDate:    dates.Format(b.CheckInDate),
			CheckOutDate:   dates.Format(b.CheckOutDate),
			NumberOfNights: b.Nights(),
			TotalAmount:    b.TotalAmount,
			NumberOfGuests: b.NumberOfGuests,
			CreatedAt:      dates.Timestamp(s.now()),
		})
		return b, nil
	}
}

func firstFree(candidates []domain.Room, excluded map[int64]struct{}) (domain.Room, bool) {
	for _, r := range candidates {
		if _, ok := excluded[r.ID]; !ok {
			return r, true
		}
	}
	return domain.Room{}, false
}

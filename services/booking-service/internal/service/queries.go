package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/coosmos/Hotel-Management-Backend/pkg/auth"
	"github.com/coosmos/Hotel-Management-Backend/pkg/authz"
	"github.com/coosmos/Hotel-Management-Backend/services/booking-service/internal/domain"
	"github.com/coosmos/Hotel-Management-Backend/services/booking-service/internal/repository"
)

type Page struct {
	Page int
	Size int
}

func (s *BookingSvc) Get(ctx context.Context, p auth.Principal, id int64) (*domain.Booking, error) {
	b, err := s.store.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.VerifyBookingAccess(p, b.UserID, b.HotelID); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BookingSvc) ListMine(ctx context.Context, p auth.Principal, pg Page) ([]domain.Booking, int64, error) {
	if err := authz.RequireRole(p, auth.RoleGuest); err != nil {
		return nil, 0, err
	}
	return s.store.List(ctx, repository.Filter{UserID: p.UserID, Page: pg.Page, Size: pg.Size})
}

func (s *BookingSvc) ListHotel(ctx context.Context, p auth.Principal, hotelID int64, pg Page) ([]domain.Booking, int64, error) {
	if err := authz.VerifyHotelAccess(p, hotelID); err != nil {
		return nil, 0, err
	}
	return s.store.List(ctx, repository.Filter{HotelID: hotelID, Page: pg.Page, Size: pg.Size})
}

func (s *BookingSvc) ListAll(ctx context.Context, p auth.Principal, pg Page) ([]domain.Booking, int64, error) {
	if err := authz.RequireAdmin(p); err != nil {
		return nil, 0, err
	}
	return s.store.List(ctx, repository.Filter{Page: pg.Page, Size: pg.Size})
}

// TodayCheckIns lists confirmed arrivals for today.
func (s *BookingSvc) TodayCheckIns(ctx context.Context, p auth.Principal, hotelID int64) ([]domain.Booking, error) {
	if err := authz.VerifyHotelAccess(p, hotelID); err != nil {
		return nil, err
	}
	return s.store.ByCheckInDate(ctx, s.today(), domain.StatusConfirmed, hotelID)
}

// TodayCheckOuts lists in-house guests due to leave today.
func (s *BookingSvc) TodayCheckOuts(ctx context.Context, p auth.Principal, hotelID int64) ([]domain.Booking, error) {
	if err := authz.VerifyHotelAccess(p, hotelID); err != nil {
		return nil, err
	}
	return s.store.ByCheckOutDate(ctx, s.today(), domain.StatusCheckedIn, hotelID)
}

type Analytics struct {
	repository.Stats
	AverageBookingValue decimal.Decimal
}

func (s *BookingSvc) Dashboard(ctx context.Context, p auth.Principal) (*Analytics, error) {
	if err := authz.RequireAdmin(p); err != nil {
		return nil, err
	}
	return s.analytics(ctx, 0)
}

func (s *BookingSvc) HotelAnalytics(ctx context.Context, p auth.Principal, hotelID int64) (*Analytics, error) {
	if err := authz.VerifyHotelAccess(p, hotelID); err != nil {
		return nil, err
	}
	return s.analytics(ctx, hotelID)
}

func (s *BookingSvc) analytics(ctx context.Context, hotelID int64) (*Analytics, error) {
	st, err := s.store.Stats(ctx, hotelID, s.today())
	if err != nil {
		return nil, err
	}
	a := &Analytics{Stats: st, AverageBookingValue: decimal.Zero}
	if billable := st.TotalBookings - st.CancelledBookings; billable > 0 {
		a.AverageBookingValue = st.TotalRevenue.Div(decimal.NewFromInt(billable)).Round(2)
	}
	return a, nil
}

package rest

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/coosmos/Hotel-Management-Backend/pkg/dates"
	"github.com/coosmos/Hotel-Management-Backend/services/booking-service/internal/domain"
	"github.com/coosmos/Hotel-Management-Backend/services/booking-service/internal/service"
)

type createBookingReq struct {
	HotelID         int64  `json:"hotelId"         binding:"required,gt=0"`
	RoomType        string `json:"roomType"        binding:"required"`
	CheckInDate     string `json:"checkInDate"     binding:"required"`
	CheckOutDate    string `json:"checkOutDate"    binding:"required"`
	NumberOfGuests  int    `json:"numberOfGuests"  binding:"required,min=1,max=10"`
	GuestName       string `json:"guestName"       binding:"required,min=2,max=100"`
	GuestEmail      string `json:"guestEmail"      binding:"required,email"`
	GuestPhone      string `json:"guestPhone"      binding:"required,phone"`
	SpecialRequests string `json:"specialRequests" binding:"max=1000"`
}

type checkInReq struct {
	Notes string `json:"notes" binding:"max=500"`
}

type checkOutReq struct {
	Notes    string `json:"notes"    binding:"max=500"`
	Rating   *int   `json:"rating"   binding:"omitempty,min=1,max=5"`
	Feedback string `json:"feedback" binding:"max=1000"`
}

type bookingResp struct {
	ID                 int64           `json:"id"`
	UserID             int64           `json:"userId"`
	HotelID            int64           `json:"hotelId"`
	HotelName          string          `json:"hotelName,omitempty"`
	RoomID             int64           `json:"roomId"`
	RoomNumber         string          `json:"roomNumber,omitempty"`
	RoomType           string          `json:"roomType,omitempty"`
	CheckInDate        string          `json:"checkInDate"`
	CheckOutDate       string          `json:"checkOutDate"`
	NumberOfNights     int             `json:"numberOfNights"`
	NumberOfGuests     int             `json:"numberOfGuests"`
	TotalAmount        decimal.Decimal `json:"totalAmount"`
	GuestName          string          `json:"guestName"`
	GuestEmail         string          `json:"guestEmail"`
	GuestPhone         string          `json:"guestPhone"`
	SpecialRequests    string          `json:"specialRequests,omitempty"`
	Status             domain.Status   `json:"status"`
	StatusDisplay      string          `json:"statusDisplay"`
	PaymentStatus      string          `json:"paymentStatus"`
	PaymentMethod      string          `json:"paymentMethod,omitempty"`
	PaidAt             *time.Time      `json:"paidAt,omitempty"`
	CancelledAt        string          `json:"cancelledAt,omitempty"`
	CancellationReason string          `json:"cancellationReason,omitempty"`
	CheckedInAt        *time.Time      `json:"checkedInAt,omitempty"`
	CheckedOutAt       *time.Time      `json:"checkedOutAt,omitempty"`
	Rating             *int            `json:"rating,omitempty"`
	Feedback           string          `json:"feedback,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

func toResp(b *domain.Booking) bookingResp {
	r := bookingResp{
		ID:                 b.ID,
		UserID:             b.UserID,
		HotelID:            b.HotelID,
		HotelName:          b.HotelName,
		RoomID:             b.RoomID,
		RoomNumber:         b.RoomNumber,
		RoomType:           b.RoomType,
		CheckInDate:        dates.Format(b.CheckInDate),
		CheckOutDate:       dates.Format(b.CheckOutDate),
		NumberOfNights:     b.Nights(),
		NumberOfGuests:     b.NumberOfGuests,
		TotalAmount:        b.TotalAmount,
		GuestName:          b.GuestName,
		GuestEmail:         b.GuestEmail,
		GuestPhone:         b.GuestPhone,
		SpecialRequests:    b.SpecialRequests,
		Status:             b.Status,
		StatusDisplay:      b.Status.DisplayName(),
		PaymentStatus:      string(b.PaymentStatus),
		PaymentMethod:      b.PaymentMethod,
		PaidAt:             b.PaidAt,
		CancellationReason: b.CancellationReason,
		CheckedInAt:        b.CheckedInAt,
		CheckedOutAt:       b.CheckedOutAt,
		Rating:             b.Rating,
		Feedback:           b.Feedback,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
	if b.CancelledAt != nil {
		r.CancelledAt = dates.Format(*b.CancelledAt)
	}
	return r
}

func toResps(bs []domain.Booking) []bookingResp {
	out := make([]bookingResp, 0, len(bs))
	for i := range bs {
		out = append(out, toResp(&bs[i]))
	}
	return out
}

type roomResp struct {
	ID            int64           `json:"id"`
	RoomNumber    string          `json:"roomNumber"`
	RoomType      string          `json:"roomType"`
	PricePerNight decimal.Decimal `json:"pricePerNight"`
	MaxOccupancy  int             `json:"maxOccupancy"`
}

type availabilityResp struct {
	HotelID            int64      `json:"hotelId"`
	CheckInDate        string     `json:"checkInDate"`
	CheckOutDate       string     `json:"checkOutDate"`
	TotalRooms         int        `json:"totalRooms"`
	AvailableRoomCount int        `json:"availableRoomCount"`
	AvailableRooms     []roomResp `json:"availableRooms"`
}

func toAvailability(a *service.Availability) availabilityResp {
	out := availabilityResp{
		HotelID:            a.HotelID,
		CheckInDate:        dates.Format(a.CheckInDate),
		CheckOutDate:       dates.Format(a.CheckOutDate),
		TotalRooms:         a.TotalRooms,
		AvailableRoomCount: len(a.AvailableRooms),
		AvailableRooms:     make([]roomResp, 0, len(a.AvailableRooms)),
	}
	for _, r := range a.AvailableRooms {
		out.AvailableRooms = append(out.AvailableRooms, roomResp{
			ID: r.ID, RoomNumber: r.RoomNumber, RoomType: r.RoomType, PricePerNight: r.PricePerNight, MaxOccupancy: r.MaxOccupancy,
		})
	}
	return out
}

type roomTypeResp struct {
	RoomType       string          `json:"roomType"`
	AvailableCount int             `json:"availableCount"`
	PricePerNight  decimal.Decimal `json:"pricePerNight"`
	MaxOccupancy   int             `json:"maxOccupancy"`
}

type analyticsResp struct {
	TotalBookings       int64           `json:"totalBookings"`
	ActiveBookings      int64           `json:"activeBookings"`
	CompletedBookings   int64           `json:"completedBookings"`
	CancelledBookings   int64           `json:"cancelledBookings"`
	PendingPayments     int64           `json:"pendingPayments"`
	TodayCheckIns       int64           `json:"todayCheckIns"`
	TodayCheckOuts      int64           `json:"todayCheckOuts"`
	TotalRevenue        decimal.Decimal `json:"totalRevenue"`
	AverageBookingValue decimal.Decimal `json:"averageBookingValue"`
}

func toAnalytics(a *service.Analytics) analyticsResp {
	return analyticsResp{
		TotalBookings:       a.TotalBookings,
		ActiveBookings:      a.ActiveBookings,
		CompletedBookings:   a.CompletedBookings,
		CancelledBookings:   a.CancelledBookings,
		PendingPayments:     a.PendingPayments,
		TodayCheckIns:       a.TodayCheckIns,
		TodayCheckOuts:      a.TodayCheckOuts,
		TotalRevenue:        a.TotalRevenue,
		AverageBookingValue: a.AverageBookingValue,
	}
}

// Package rest exposes the booking service over HTTP behind the gateway.
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coosmos/Hotel-Management-Backend/pkg/apperr"
	"github.com/coosmos/Hotel-Management-Backend/pkg/auth"
	"github.com/coosmos/Hotel-Management-Backend/pkg/authz"
	"github.com/coosmos/Hotel-Management-Backend/pkg/dates"
	"github.com/coosmos/Hotel-Management-Backend/pkg/httpx"
	"github.com/coosmos/Hotel-Management-Backend/services/booking-service/internal/domain"
	"github.com/coosmos/Hotel-Management-Backend/services/booking-service/internal/service"
)

type BookingHandler struct {
	svc *service.BookingSvc
}

func NewBookingHandler(svc *service.BookingSvc) *BookingHandler {
	return &BookingHandler{svc: svc}
}

// Register mounts every booking route under /api/bookings.
func (h *BookingHandler) Register(r gin.IRouter) {
	httpx.RegisterValidators()

	g := r.Group("/api/bookings", authz.Middleware())
	g.GET("/availability", h.Availability)
	g.GET("/availability/room-types", h.RoomTypes)
	g.POST("", h.Create)
	g.GET("", h.ListAll)
	g.GET("/my-bookings", h.ListMine)
	g.GET("/hotel/:hotelId", h.ListHotel)
	g.GET("/hotel/:hotelId/today-checkins", h.TodayCheckIns)
	g.GET("/hotel/:hotelId/today-checkouts", h.TodayCheckOuts)
	g.GET("/analytics/dashboard", h.Dashboard)
	g.GET("/analytics/hotel/:hotelId", h.HotelAnalytics)
	g.GET("/:id", h.Get)
	g.PATCH("/:id/cancel", h.Cancel)
	g.POST("/:id/check-in", h.CheckIn)
	g.POST("/:id/check-out", h.CheckOut)
}

func stayQuery(c *gin.Context) (hotelID int64, ci, co time.Time, err error) {
	if hotelID, err = httpx.QueryID(c, "hotelId"); err != nil {
		return
	}
	if ci, err = dateParam(c.Query("checkInDate")); err != nil {
		return
	}
	co, err = dateParam(c.Query("checkOutDate"))
	return
}

func dateParam(s string) (time.Time, error) {
	d, err := dates.Parse(s)
	if err != nil {
		return time.Time{}, apperr.Wrap(apperr.Validation, err, err.Error())
	}
	return d, nil
}

// GET /api/bookings/availability?hotelId=&checkInDate=&checkOutDate=
func (h *BookingHandler) Availability(c *gin.Context) {
	hotelID, ci, co, err := stayQuery(c)
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	av, err := h.svc.CheckAvailability(c.Request.Context(), authz.PrincipalFrom(c), hotelID, ci, co)
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	httpx.JSONSuccess(c, http.StatusOK, toAvailability(av))
}

func (h *BookingHandler) RoomTypes(c *gin.Context) {
	hotelID, ci, co, err := stayQuery(c)
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	types, err := h.svc.AvailableRoomTypes(c.Request.Context(), authz.PrincipalFrom(c), hotelID, ci, co)
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	out := make([]roomTypeResp, 0, len(types))
	for _, t := range types {
		out = append(out, roomTypeResp(t))
	}
	httpx.JSONSuccess(c, http.StatusOK, out)
}

// POST /api/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var in createBookingReq
	if err := httpx.BindJSON(c, &in); err != nil {
		httpx.JSONError(c, err)
		return
	}
	ci, err := dateParam(in.CheckInDate)
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	co, err := dateParam(in.CheckOutDate)
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	b, err := h.svc.Create(c.Request.Context(), authz.PrincipalFrom(c), service.CreateInput{
		HotelID:         in.HotelID,
		RoomType:        in.RoomType,
		CheckInDate:     ci,
		CheckOutDate:    co,
		NumberOfGuests:  in.NumberOfGuests,
		GuestName:       in.GuestName,
		GuestEmail:      in.GuestEmail,
		GuestPhone:      in.GuestPhone,
		SpecialRequests: in.SpecialRequests,
	})
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	httpx.JSONMessage(c, http.StatusCreated, "Booking created successfully", toResp(b))
}

func (h *BookingHandler) Get(c *gin.Context) {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	b, err := h.svc.Get(c.Request.Context(), authz.PrincipalFrom(c), id)
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	httpx.JSONSuccess(c, http.StatusOK, toResp(b))
}

func paged(c *gin.Context, pg httpx.Page, bs []domain.Booking, total int64) {
	httpx.JSONSuccess(c, http.StatusOK, httpx.Paged[bookingResp]{Items: toResps(bs), Total: total, Page: pg.Page, Size: pg.Size})
}

func (h *BookingHandler) ListMine(c *gin.Context) {
	pg := httpx.PageQuery(c)
	bs, total, err := h.svc.ListMine(c.Request.Context(), authz.PrincipalFrom(c), service.Page(pg))
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	paged(c, pg, bs, total)
}

func (h *BookingHandler) ListHotel(c *gin.Context) {
	hotelID, err := httpx.ParamID(c, "hotelId")
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	pg := httpx.PageQuery(c)
	bs, total, err := h.svc.ListHotel(c.Request.Context(), authz.PrincipalFrom(c), hotelID, service.Page(pg))
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	paged(c, pg, bs, total)
}

// GET /api/bookings (ADMIN)
func (h *BookingHandler) ListAll(c *gin.Context) {
	pg := httpx.PageQuery(c)
	bs, total, err := h.svc.ListAll(c.Request.Context(), authz.PrincipalFrom(c), service.Page(pg))
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	paged(c, pg, bs, total)
}

func (h *BookingHandler) TodayCheckIns(c *gin.Context) {
	h.today(c, h.svc.TodayCheckIns)
}

func (h *BookingHandler) TodayCheckOuts(c *gin.Context) {
	h.today(c, h.svc.TodayCheckOuts)
}

func (h *BookingHandler) today(c *gin.Context, list func(context.Context, auth.Principal, int64) ([]domain.Booking, error)) {
	hotelID, err := httpx.ParamID(c, "hotelId")
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	bs, err := list(c.Request.Context(), authz.PrincipalFrom(c), hotelID)
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	httpx.JSONSuccess(c, http.StatusOK, toResps(bs))
}

// PATCH /api/bookings/:id/cancel?reason=
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	b, err := h.svc.Cancel(c.Request.Context(), authz.PrincipalFrom(c), id, c.Query("reason"))
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	httpx.JSONMessage(c, http.StatusOK, "Booking cancelled successfully", toResp(b))
}

func (h *BookingHandler) CheckIn(c *gin.Context) {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	var in checkInReq
	if err := httpx.BindOptionalJSON(c, &in); err != nil {
		httpx.JSONError(c, err)
		return
	}
	b, err := h.svc.CheckIn(c.Request.Context(), authz.PrincipalFrom(c), id, in.Notes)
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	httpx.JSONMessage(c, http.StatusOK, "Guest checked in successfully", toResp(b))
}

func (h *BookingHandler) CheckOut(c *gin.Context) {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	var in checkOutReq
	if err := httpx.BindOptionalJSON(c, &in); err != nil {
		httpx.JSONError(c, err)
		return
	}
	b, err := h.svc.CheckOut(c.Request.Context(), authz.PrincipalFrom(c), id, service.CheckOutInput{
		Notes: in.Notes, Rating: in.Rating, Feedback: in.Feedback,
	})
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	httpx.JSONMessage(c, http.StatusOK, "Guest checked out successfully", toResp(b))
}

func (h *BookingHandler) Dashboard(c *gin.Context) {
	a, err := h.svc.Dashboard(c.Request.Context(), authz.PrincipalFrom(c))
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	httpx.JSONSuccess(c, http.StatusOK, toAnalytics(a))
}

func (h *BookingHandler) HotelAnalytics(c *gin.Context) {
	hotelID, err := httpx.ParamID(c, "hotelId")
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	a, err := h.svc.HotelAnalytics(c.Request.Context(), authz.PrincipalFrom(c), hotelID)
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	httpx.JSONSuccess(c, http.StatusOK, toAnalytics(a))
}

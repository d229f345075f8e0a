// Package rest serves hotels and rooms.
package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coosmos/Hotel-Management-Backend/pkg/apperr"
	"github.com/coosmos/Hotel-Management-Backend/pkg/authz"
	"github.com/coosmos/Hotel-Management-Backend/pkg/httpx"
	"github.com/coosmos/Hotel-Management-Backend/services/inventory-service/internal/domain"
	"github.com/coosmos/Hotel-Management-Backend/services/inventory-service/internal/repository"
	"github.com/coosmos/Hotel-Management-Backend/services/inventory-service/internal/service"
)

type InventoryHandler struct {
	svc *service.InventorySvc
}

func NewInventoryHandler(svc *service.InventorySvc) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

func (h *InventoryHandler) Register(r gin.IRouter) {
	httpx.RegisterValidators()

	g := r.Group("/api/hotels", authz.Middleware())
	g.POST("", h.CreateHotel)
	g.GET("", h.ListHotels)
	g.GET("/active", h.ActiveHotels)
	g.GET("/search", h.SearchHotels)
	g.GET("/my-hotel", h.MyHotel)

	rooms := g.Group("/rooms")
	rooms.POST("", h.CreateRoom)
	rooms.GET("/hotel/:hotelId", h.RoomsByHotel)
	rooms.GET("/hotel/:hotelId/available", h.AvailableRooms)
	rooms.GET("/:id", h.GetRoom)
	rooms.PUT("/:id", h.UpdateRoom)
	rooms.PATCH("/:id/status", h.UpdateRoomStatus)
	rooms.DELETE("/:id", h.DeleteRoom)

	g.GET("/:id", h.GetHotel)
	g.PUT("/:id", h.UpdateHotel)
	g.DELETE("/:id", h.DeleteHotel)
}

// POST /api/hotels (ADMIN)
func (h *InventoryHandler) CreateHotel(c *gin.Context) {
	var in hotelReq
	if err := httpx.BindJSON(c, &in); err != nil {
		httpx.JSONError(c, err)
		return
	}
	hotel, err := h.svc.CreateHotel(c.Request.Context(), authz.PrincipalFrom(c), in.hotel())
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	httpx.JSONMessage(c, http.StatusCreated, "Hotel created successfully", hotel)
}

func (h *InventoryHandler) UpdateHotel(c *gin.Context) {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	var in hotelReq
	if err := httpx.BindJSON(c, &in); err != nil {
		httpx.JSONError(c, err)
		return
	}
	hotel, err := h.svc.UpdateHotel(c.Request.Context(), authz.PrincipalFrom(c), id, in.hotel())
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	httpx.JSONMessage(c, http.StatusOK, "Hotel updated successfully", hotel)
}

func (h *InventoryHandler) DeleteHotel(c *gin.Context) {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	if err := h.svc.DeleteHotel(c.Request.Context(), authz.PrincipalFrom(c), id); err != nil {
		httpx.JSONError(c, err)
		return
	}
	httpx.JSONMessage(c, http.StatusOK, "Hotel deactivated successfully", nil)
}

func (h *InventoryHandler) GetHotel(c *gin.Context) {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	hotel, err := h.svc.Hotel(c.Request.Context(), id)
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	httpx.JSONSuccess(c, http.StatusOK, hotel)
}

func (h *InventoryHandler) hotels(c *gin.Context, f repository.HotelFilter) {
	list, err := h.svc.Hotels(c.Request.Context(), f)
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	httpx.JSONSuccess(c, http.StatusOK, list)
}

func (h *InventoryHandler) ListHotels(c *gin.Context) { h.hotels(c, repository.HotelFilter{}) }

func (h *InventoryHandler) ActiveHotels(c *gin.Context) {
	h.hotels(c, repository.HotelFilter{ActiveOnly: true})
}

// GET /api/hotels/search?city=
func (h *InventoryHandler) SearchHotels(c *gin.Context) {
	city := c.Query("city")
	if city == "" {
		httpx.JSONError(c, apperr.New(apperr.Validation, "city is required"))
		return
	}
	h.hotels(c, repository.HotelFilter{ActiveOnly: true, City: city})
}

func (h *InventoryHandler) MyHotel(c *gin.Context) {
	hotel, err := h.svc.MyHotel(c.Request.Context(), authz.PrincipalFrom(c))
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	httpx.JSONSuccess(c, http.StatusOK, hotel)
}

// POST /api/hotels/rooms (ADMIN, MANAGER)
func (h *InventoryHandler) CreateRoom(c *gin.Context) {
	var in roomReq
	if err := httpx.BindJSON(c, &in); err != nil {
		httpx.JSONError(c, err)
		return
	}
	room, _, err := in.room()
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	created, err := h.svc.CreateRoom(c.Request.Context(), authz.PrincipalFrom(c), room)
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	httpx.JSONMessage(c, http.StatusCreated, "Room created successfully", created)
}

func (h *InventoryHandler) UpdateRoom(c *gin.Context) {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	var in roomReq
	if err := httpx.BindJSON(c, &in); err != nil {
		httpx.JSONError(c, err)
		return
	}
	upd, err := in.update()
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	room, err := h.svc.UpdateRoom(c.Request.Context(), authz.PrincipalFrom(c), id, upd)
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	httpx.JSONMessage(c, http.StatusOK, "Room updated successfully", room)
}

// PATCH /api/hotels/rooms/:id/status?status=
func (h *InventoryHandler) UpdateRoomStatus(c *gin.Context) {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	st, err := domain.ParseRoomStatus(c.Query("status"))
	if err != nil {
		httpx.JSONError(c, apperr.Wrap(apperr.Validation, err, err.Error()))
		return
	}
	room, err := h.svc.UpdateRoomStatus(c.Request.Context(), authz.PrincipalFrom(c), id, st)
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	httpx.JSONMessage(c, http.StatusOK, "Room status updated successfully", room)
}

func (h *InventoryHandler) DeleteRoom(c *gin.Context) {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	if err := h.svc.DeleteRoom(c.Request.Context(), authz.PrincipalFrom(c), id); err != nil {
		httpx.JSONError(c, err)
		return
	}
	httpx.JSONMessage(c, http.StatusOK, "Room deactivated successfully", nil)
}

func (h *InventoryHandler) GetRoom(c *gin.Context) {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	room, err := h.svc.Room(c.Request.Context(), id)
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	httpx.JSONSuccess(c, http.StatusOK, room)
}

func (h *InventoryHandler) rooms(c *gin.Context, availableOnly bool) {
	hotelID, err := httpx.ParamID(c, "hotelId")
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	list, err := h.svc.RoomsByHotel(c.Request.Context(), hotelID, availableOnly)
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	httpx.JSONSuccess(c, http.StatusOK, list)
}

func (h *InventoryHandler) RoomsByHotel(c *gin.Context) { h.rooms(c, false) }

func (h *InventoryHandler) AvailableRooms(c *gin.Context) { h.rooms(c, true) }

// Package rest exposes stored notifications to staff.
package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coosmos/Hotel-Management-Backend/pkg/authz"
	"github.com/coosmos/Hotel-Management-Backend/pkg/httpx"
	"github.com/coosmos/Hotel-Management-Backend/services/notification-service/internal/service"
)

type NotificationHandler struct {
	svc *service.NotificationSvc
}

func NewNotificationHandler(svc *service.NotificationSvc) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) Register(r gin.IRouter) {
	g := r.Group("/api/notifications", authz.Middleware())
	g.GET("/booking/:bookingId", h.ForBooking)
}

// GET /api/notifications/booking/:bookingId
func (h *NotificationHandler) ForBooking(c *gin.Context) {
	id, err := httpx.ParamID(c, "bookingId")
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	list, err := h.svc.ForBooking(c.Request.Context(), authz.PrincipalFrom(c), id)
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	httpx.JSONSuccess(c, http.StatusOK, list)
}

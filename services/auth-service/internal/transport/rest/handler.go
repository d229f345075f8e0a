// Package rest serves the auth API.
package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coosmos/Hotel-Management-Backend/pkg/apperr"
	"github.com/coosmos/Hotel-Management-Backend/pkg/auth"
	"github.com/coosmos/Hotel-Management-Backend/pkg/authz"
	"github.com/coosmos/Hotel-Management-Backend/pkg/httpx"
	"github.com/coosmos/Hotel-Management-Backend/services/auth-service/internal/domain"
	"github.com/coosmos/Hotel-Management-Backend/services/auth-service/internal/service"
)

type registerReq struct {
	Username    string `json:"username"    binding:"required,min=3,max=50"`
	Email       string `json:"email"       binding:"required,email,max=100"`
	Password    string `json:"password"    binding:"required,min=6"`
	FullName    string `json:"fullName"    binding:"max=100"`
	PhoneNumber string `json:"phoneNumber" binding:"omitempty,phone"`
}

type createUserReq struct {
	registerReq
	Role    string `json:"role"    binding:"required"`
	HotelID *int64 `json:"hotelId" binding:"omitempty,gt=0"`
}

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type usernameReq struct {
	NewUsername string `json:"newUsername" binding:"required,min=4,max=50"`
}

type passwordReq struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

type userResp struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Role        auth.Role `json:"role"`
	HotelID     *int64    `json:"hotelId,omitempty"`
	FullName    string    `json:"fullName,omitempty"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

type authResp struct {
	Token     string   `json:"token"`
	TokenType string   `json:"tokenType"`
	ExpiresIn int64    `json:"expiresIn"`
	User      userResp `json:"user"`
}

func toUser(u *domain.User) userResp {
	return userResp{
		ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role, HotelID: u.HotelID,
		FullName: u.FullName, PhoneNumber: u.PhoneNumber, Active: u.Active, CreatedAt: u.CreatedAt,
	}
}

func (r registerReq) profile() service.Profile {
	return service.Profile{Username: r.Username, Email: r.Email, Password: r.Password, FullName: r.FullName, PhoneNumber: r.PhoneNumber}
}

type AuthHandler struct {
	svc *service.AuthSvc
	ttl time.Duration
}

func NewAuthHandler(svc *service.AuthSvc, ttl time.Duration) *AuthHandler {
	return &AuthHandler{svc: svc, ttl: ttl}
}

func (h *AuthHandler) Register(r gin.IRouter) {
	httpx.RegisterValidators()

	g := r.Group("/api/auth")
	g.POST("/register", h.SignUp)
	g.POST("/login", h.Login)

	me := g.Group("", authz.Middleware())
	me.GET("/me", h.Me)
	me.PUT("/me/username", h.UpdateUsername)
	me.PUT("/me/password", h.ChangePassword)
	me.POST("/create-user", h.CreateUser)
}

func (h *AuthHandler) respond(c *gin.Context, code int, s *service.Session) {
	c.JSON(code, authResp{Token: s.Token, TokenType: "Bearer", ExpiresIn: int64(h.ttl.Seconds()), User: toUser(s.User)})
}

// POST /api/auth/register
func (h *AuthHandler) SignUp(c *gin.Context) {
	var in registerReq
	if err := httpx.BindJSON(c, &in); err != nil {
		httpx.JSONError(c, err)
		return
	}
	s, err := h.svc.Register(c.Request.Context(), in.profile())
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	h.respond(c, http.StatusCreated, s)
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var in loginReq
	if err := httpx.BindJSON(c, &in); err != nil {
		httpx.JSONError(c, err)
		return
	}
	s, err := h.svc.Login(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	h.respond(c, http.StatusOK, s)
}

func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.svc.Me(c.Request.Context(), authz.PrincipalFrom(c))
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	httpx.JSONSuccess(c, http.StatusOK, toUser(u))
}

// POST /api/auth/create-user (ADMIN)
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var in createUserReq
	if err := httpx.BindJSON(c, &in); err != nil {
		httpx.JSONError(c, err)
		return
	}
	role, err := auth.ParseRole(in.Role)
	if err != nil {
		httpx.JSONError(c, apperr.Wrap(apperr.Validation, err, "invalid role"))
		return
	}
	u, err := h.svc.CreateStaff(c.Request.Context(), authz.PrincipalFrom(c), in.profile(), role, in.HotelID)
	if err != nil {
		httpx.JSONError(c, err)
		return
	}
	httpx.JSONMessage(c, http.StatusCreated, "user created", toUser(u))
}

func (h *AuthHandler) UpdateUsername(c *gin.Context) {
	var in usernameReq
	if err := httpx.BindJSON(c, &in); err != nil {
		httpx.JSONError(c, err)
		return
	}
	if err := h.svc.UpdateUsername(c.Request.Context(), authz.PrincipalFrom(c), in.NewUsername); err != nil {
		httpx.JSONError(c, err)
		return
	}
	httpx.JSONMessage(c, http.StatusOK, "username updated successfully", nil)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var in passwordReq
	if err := httpx.BindJSON(c, &in); err != nil {
		httpx.JSONError(c, err)
		return
	}
	if err := h.svc.ChangePassword(c.Request.Context(), authz.PrincipalFrom(c), in.OldPassword, in.NewPassword); err != nil {
		httpx.JSONError(c, err)
		return
	}
	httpx.JSONMessage(c, http.StatusOK, "password changed successfully", nil)
}

package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coosmos/Hotel-Management-Backend/pkg/auth"
	"github.com/coosmos/Hotel-Management-Backend/pkg/authz"
	"github.com/coosmos/Hotel-Management-Backend/pkg/db/dbtest"
	"github.com/coosmos/Hotel-Management-Backend/pkg/httpx"
	"github.com/coosmos/Hotel-Management-Backend/services/inventory-service/internal/domain"
	"github.com/coosmos/Hotel-Management-Backend/services/inventory-service/internal/repository"
	"github.com/coosmos/Hotel-Management-Backend/services/inventory-service/internal/service"
)

func newRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	repo := repository.NewInventoryRepo(dbtest.Open(t, &domain.Hotel{}, &domain.Room{}))
	r := gin.New()
	NewInventoryHandler(service.NewInventorySvc(repo, logrus.NewEntry(logrus.New()))).Register(r)
	return r
}

func do(r http.Handler, method, path, body string, p auth.Principal) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	authz.Attest(req.Header, p)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func data[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var env httpx.Envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	require.True(t, env.Success, w.Body.String())
	return env.Data
}

var admin = auth.Principal{UserID: 1, Username: "admin", Role: auth.RoleAdmin}

func manager(hotelID int64) auth.Principal {
	return auth.Principal{UserID: 2, Username: "manager", Role: auth.RoleManager, HotelID: &hotelID}
}

const hotelBody = `{"name":"River","address":"1 Main St","city":"Bangkok","state":"BKK","country":"TH","starRating":4,"amenities":["wifi","pool"]}`

func TestHotelAndRoomFlow(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodPost, "/api/hotels", hotelBody, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	hotel := data[domain.Hotel](t, w)

	w = do(r, http.MethodPost, "/api/hotels", hotelBody, manager(hotel.ID))
	assert.Equal(t, http.StatusForbidden, w.Code)

	room := fmt.Sprintf(`{"hotelId":%d,"roomNumber":"101","roomType":"deluxe","pricePerNight":1500,"maxOccupancy":2}`, hotel.ID)
	w = do(r, http.MethodPost, "/api/hotels/rooms", room, manager(hotel.ID))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := data[map[string]any](t, w)
	assert.Equal(t, "DELUXE", created["roomType"])
	assert.Equal(t, "AVAILABLE", created["status"])
	assert.Equal(t, true, created["active"])
	assert.Equal(t, "1500", created["pricePerNight"])
	roomID := int64(created["id"].(float64))

	w = do(r, http.MethodPost, "/api/hotels/rooms", room, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Room number 101 already exists for this hotel")

	w = do(r, http.MethodPatch, fmt.Sprintf("/api/hotels/rooms/%d/status?status=OCCUPIED", roomID), "", authz.System())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, domain.RoomOccupied, data[domain.Room](t, w).Status)

	w = do(r, http.MethodPatch, fmt.Sprintf("/api/hotels/rooms/%d/status?status=DIRTY", roomID), "", admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, fmt.Sprintf("/api/hotels/rooms/hotel/%d", hotel.ID), "", authz.System())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, data[[]domain.Room](t, w), 1)

	w = do(r, http.MethodGet, fmt.Sprintf("/api/hotels/rooms/hotel/%d/available", hotel.ID), "", admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, data[[]domain.Room](t, w))

	w = do(r, http.MethodGet, fmt.Sprintf("/api/hotels/%d", hotel.ID), "", authz.System())
	require.Equal(t, http.StatusOK, w.Code)
	got := data[domain.Hotel](t, w)
	assert.Equal(t, "River", got.Name)
	assert.Equal(t, []string{"wifi", "pool"}, []string(got.Amenities))
	assert.Equal(t, 1, got.TotalRooms)
	assert.Equal(t, 0, got.AvailableRooms)

	w = do(r, http.MethodGet, "/api/hotels/my-hotel", "", manager(hotel.ID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, hotel.ID, data[domain.Hotel](t, w).ID)

	w = do(r, http.MethodDelete, fmt.Sprintf("/api/hotels/rooms/%d", roomID), "", manager(hotel.ID))
	require.Equal(t, http.StatusOK, w.Code)
	w = do(r, http.MethodGet, fmt.Sprintf("/api/hotels/rooms/%d", roomID), "", admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, data[domain.Room](t, w).Active)
}

func TestSearchAndDeactivate(t *testing.T) {
	r := newRouter(t)
	w := do(r, http.MethodPost, "/api/hotels", hotelBody, admin)
	require.Equal(t, http.StatusCreated, w.Code)
	hotel := data[domain.Hotel](t, w)

	w = do(r, http.MethodGet, "/api/hotels/search?city=bang", "", admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, data[[]domain.Hotel](t, w), 1)

	w = do(r, http.MethodGet, "/api/hotels/search", "", admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodDelete, fmt.Sprintf("/api/hotels/%d", hotel.ID), "", admin)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/hotels/active", "", admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, data[[]domain.Hotel](t, w))

	w = do(r, http.MethodGet, "/api/hotels", "", admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, data[[]domain.Hotel](t, w), 1)
}

func TestRoomValidation(t *testing.T) {
	r := newRouter(t)
	w := do(r, http.MethodPost, "/api/hotels", hotelBody, admin)
	require.Equal(t, http.StatusCreated, w.Code)
	hotel := data[domain.Hotel](t, w)

	cases := map[string]struct {
		body string
		want string
	}{
		"zero price":    {fmt.Sprintf(`{"hotelId":%d,"roomNumber":"1","roomType":"SUITE","pricePerNight":0,"maxOccupancy":2}`, hotel.ID), "pricePerNight must be greater than 0"},
		"big occupancy": {fmt.Sprintf(`{"hotelId":%d,"roomNumber":"1","roomType":"SUITE","pricePerNight":10,"maxOccupancy":11}`, hotel.ID), "maxOccupancy must not exceed 10"},
		"no number":     {fmt.Sprintf(`{"hotelId":%d,"roomType":"SUITE","pricePerNight":10,"maxOccupancy":1}`, hotel.ID), "roomNumber is required"},
		"bad status":    {fmt.Sprintf(`{"hotelId":%d,"roomNumber":"1","roomType":"SUITE","pricePerNight":10,"maxOccupancy":1,"status":"DIRTY"}`, hotel.ID), "invalid room status"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/api/hotels/rooms", tc.body, admin)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tc.want)
		})
	}
}

func TestRequiresIdentity(t *testing.T) {
	r := newRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/hotels", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

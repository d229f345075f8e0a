package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coosmos/Hotel-Management-Backend/pkg/apperr"
	"github.com/coosmos/Hotel-Management-Backend/pkg/auth"
	"github.com/coosmos/Hotel-Management-Backend/pkg/authz"
	"github.com/coosmos/Hotel-Management-Backend/pkg/db/dbtest"
	"github.com/coosmos/Hotel-Management-Backend/services/inventory-service/internal/domain"
	"github.com/coosmos/Hotel-Management-Backend/services/inventory-service/internal/repository"
)

var fixedNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func hotelID(v int64) *int64 { return &v }

func newSvc(t *testing.T) *InventorySvc {
	repo := repository.NewInventoryRepo(dbtest.Open(t, &domain.Hotel{}, &domain.Room{}))
	s := NewInventorySvc(repo, logrus.NewEntry(logrus.New()))
	s.now = func() time.Time { return fixedNow }
	return s
}

var (
	admin   = auth.Principal{UserID: 1, Username: "admin", Role: auth.RoleAdmin}
	guest   = auth.Principal{UserID: 42, Username: "guest", Role: auth.RoleGuest}
	manager = func(h int64) auth.Principal {
		return auth.Principal{UserID: 2, Username: "manager", Role: auth.RoleManager, HotelID: hotelID(h)}
	}
	receptionist = func(h int64) auth.Principal {
		return auth.Principal{UserID: 3, Username: "desk", Role: auth.RoleReceptionist, HotelID: hotelID(h)}
	}
)

func createHotel(t *testing.T, s *InventorySvc, name string) *domain.Hotel {
	h, err := s.CreateHotel(context.Background(), admin, domain.Hotel{Name: name, Address: "1 Main St", City: "Bangkok", State: "BKK", Country: "TH"})
	require.NoError(t, err)
	return h
}

func deluxe(hotelID int64, number string) domain.Room {
	return domain.Room{HotelID: hotelID, RoomNumber: number, RoomType: "DELUXE", PricePerNight: decimal.NewFromInt(1500), MaxOccupancy: 2, Active: true}
}

func TestCreateHotelAdminOnly(t *testing.T) {
	s := newSvc(t)
	h := createHotel(t, s, "River")
	assert.Equal(t, domain.HotelActive, h.Status)
	assert.NotZero(t, h.ID)

	_, err := s.CreateHotel(context.Background(), manager(h.ID), domain.Hotel{Name: "Other"})
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))
}

func TestUpdateAndDeleteHotel(t *testing.T) {
	ctx := context.Background()
	s := newSvc(t)
	h := createHotel(t, s, "River")
	other := createHotel(t, s, "Hill")

	in := *h
	in.Name = "River Grand"
	got, err := s.UpdateHotel(ctx, manager(h.ID), h.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "River Grand", got.Name)
	assert.Equal(t, domain.HotelActive, got.Status, "blank status is kept")

	_, err = s.UpdateHotel(ctx, manager(other.ID), h.ID, in)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))

	assert.Equal(t, apperr.Forbidden, apperr.KindOf(s.DeleteHotel(ctx, manager(h.ID), h.ID)))
	require.NoError(t, s.DeleteHotel(ctx, admin, h.ID))
	got, err = s.Hotel(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.HotelInactive, got.Status)

	active, err := s.Hotels(ctx, repository.HotelFilter{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Hill", active[0].Name)
}

func TestMyHotel(t *testing.T) {
	ctx := context.Background()
	s := newSvc(t)
	h := createHotel(t, s, "River")

	got, err := s.MyHotel(ctx, receptionist(h.ID))
	require.NoError(t, err)
	assert.Equal(t, h.ID, got.ID)

	_, err = s.MyHotel(ctx, guest)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestCreateRoom(t *testing.T) {
	ctx := context.Background()
	s := newSvc(t)
	h := createHotel(t, s, "River")
	other := createHotel(t, s, "Hill")

	room, err := s.CreateRoom(ctx, manager(h.ID), deluxe(h.ID, "101"))
	require.NoError(t, err)
	assert.Equal(t, domain.RoomAvailable, room.Status)
	assert.Equal(t, int64(2), room.CreatedBy)

	_, err = s.CreateRoom(ctx, admin, deluxe(h.ID, "101"))
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	assert.Equal(t, "Room number 101 already exists for this hotel", apperr.Message(err))

	cases := map[string]struct {
		p    auth.Principal
		room domain.Room
		kind apperr.Kind
	}{
		"receptionist":    {receptionist(h.ID), deluxe(h.ID, "102"), apperr.Forbidden},
		"guest":           {guest, deluxe(h.ID, "102"), apperr.Forbidden},
		"foreign manager": {manager(other.ID), deluxe(h.ID, "102"), apperr.Forbidden},
		"missing hotel":   {admin, deluxe(99, "102"), apperr.NotFound},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.CreateRoom(ctx, tc.p, tc.room)
			assert.Equal(t, tc.kind, apperr.KindOf(err))
		})
	}

	got, err := s.Hotel(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalRooms)
	assert.Equal(t, 1, got.AvailableRooms)
}

func TestUpdateRoom(t *testing.T) {
	ctx := context.Background()
	s := newSvc(t)
	h := createHotel(t, s, "River")
	a, err := s.CreateRoom(ctx, admin, deluxe(h.ID, "101"))
	require.NoError(t, err)
	_, err = s.CreateRoom(ctx, admin, deluxe(h.ID, "102"))
	require.NoError(t, err)

	in := deluxe(h.ID, "102")
	_, err = s.UpdateRoom(ctx, admin, a.ID, RoomUpdate{Room: in})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err), "cannot take a sibling's number")

	in = deluxe(h.ID, "101A")
	in.RoomType = "SUITE"
	in.PricePerNight = decimal.NewFromInt(4000)
	st := domain.RoomMaintenance
	got, err := s.UpdateRoom(ctx, manager(h.ID), a.ID, RoomUpdate{Room: in, SetStatus: &st})
	require.NoError(t, err)
	assert.Equal(t, "101A", got.RoomNumber)
	assert.Equal(t, "SUITE", got.RoomType)
	assert.True(t, decimal.NewFromInt(4000).Equal(got.PricePerNight))
	assert.Equal(t, domain.RoomMaintenance, got.Status)
	require.NotNil(t, got.StatusChangedAt)
	assert.True(t, fixedNow.Equal(*got.StatusChangedAt))

	hotel, err := s.Hotel(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, hotel.AvailableRooms)
}

func TestUpdateRoomStatus(t *testing.T) {
	ctx := context.Background()
	s := newSvc(t)
	h := createHotel(t, s, "River")
	room, err := s.CreateRoom(ctx, admin, deluxe(h.ID, "101"))
	require.NoError(t, err)

	// the booking service calls in as the system principal
	for _, st := range []domain.RoomStatus{domain.RoomOccupied, domain.RoomCleaning, domain.RoomAvailable, domain.RoomOutOfOrder} {
		got, err := s.UpdateRoomStatus(ctx, authz.System(), room.ID, st)
		require.NoError(t, err)
		assert.Equal(t, st, got.Status)
		require.NotNil(t, got.StatusChangedBy)
		assert.Equal(t, authz.System().UserID, *got.StatusChangedBy)
	}

	got, err := s.UpdateRoomStatus(ctx, receptionist(h.ID), room.ID, domain.RoomAvailable)
	require.NoError(t, err)
	assert.Equal(t, int64(3), *got.StatusChangedBy)

	_, err = s.UpdateRoomStatus(ctx, receptionist(h.ID+1), room.ID, domain.RoomCleaning)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))

	_, err = s.UpdateRoomStatus(ctx, admin, 404, domain.RoomCleaning)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestDeleteRoomIsSoft(t *testing.T) {
	ctx := context.Background()
	s := newSvc(t)
	h := createHotel(t, s, "River")
	room, err := s.CreateRoom(ctx, admin, deluxe(h.ID, "101"))
	require.NoError(t, err)

	assert.Equal(t, apperr.Forbidden, apperr.KindOf(s.DeleteRoom(ctx, receptionist(h.ID), room.ID)))
	require.NoError(t, s.DeleteRoom(ctx, manager(h.ID), room.ID))

	got, err := s.Room(ctx, room.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	all, err := s.RoomsByHotel(ctx, h.ID, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	free, err := s.RoomsByHotel(ctx, h.ID, true)
	require.NoError(t, err)
	assert.Empty(t, free)

	_, err = s.RoomsByHotel(ctx, 99, false)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/coosmos/Hotel-Management-Backend/pkg/apperr"
	"github.com/coosmos/Hotel-Management-Backend/pkg/auth"
	"github.com/coosmos/Hotel-Management-Backend/pkg/authz"
	"github.com/coosmos/Hotel-Management-Backend/services/inventory-service/internal/domain"
	"github.com/coosmos/Hotel-Management-Backend/services/inventory-service/internal/repository"
)

type InventorySvc struct {
	repo *repository.InventoryRepo
	log  *logrus.Entry
	now  func() time.Time
}

func NewInventorySvc(r *repository.InventoryRepo, log *logrus.Entry) *InventorySvc {
	return &InventorySvc{repo: r, log: log, now: time.Now}
}

func (s *InventorySvc) CreateHotel(ctx context.Context, p auth.Principal, h domain.Hotel) (*domain.Hotel, error) {
	if err := authz.RequireAdmin(p); err != nil {
		return nil, err
	}
	h.ID = 0
	if h.Status == "" {
		h.Status = domain.HotelActive
	}
	h.TotalRooms, h.AvailableRooms = 0, 0
	if err := s.repo.SaveHotel(ctx, &h); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"hotel_id": h.ID, "by": p.Username}).Info("hotel created")
	return &h, nil
}

func (s *InventorySvc) UpdateHotel(ctx context.Context, p auth.Principal, id int64, in domain.Hotel) (*domain.Hotel, error) {
	if err := authz.VerifyHotelAccess(p, id); err != nil {
		return nil, err
	}
	h, err := s.repo.HotelByID(ctx, id)
	if err != nil {
		return nil, err
	}
	h.Name, h.Description, h.Address = in.Name, in.Description, in.Address
	h.City, h.State, h.Country = in.City, in.State, in.Country
	h.ContactNumber, h.Email, h.StarRating, h.Amenities = in.ContactNumber, in.Email, in.StarRating, in.Amenities
	if in.Status != "" {
		h.Status = in.Status
	}
	if err := s.repo.SaveHotel(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// DeleteHotel deactivates the hotel; rows are kept for booking history.
func (s *InventorySvc) DeleteHotel(ctx context.Context, p auth.Principal, id int64) error {
	if err := authz.RequireAdmin(p); err != nil {
		return err
	}
	h, err := s.repo.HotelByID(ctx, id)
	if err != nil {
		return err
	}
	h.Status = domain.HotelInactive
	return s.repo.SaveHotel(ctx, h)
}

func (s *InventorySvc) Hotel(ctx context.Context, id int64) (*domain.Hotel, error) {
	return s.repo.HotelByID(ctx, id)
}

func (s *InventorySvc) Hotels(ctx context.Context, f repository.HotelFilter) ([]domain.Hotel, error) {
	return s.repo.ListHotels(ctx, f)
}

// MyHotel returns the hotel a staff member is bound to.
func (s *InventorySvc) MyHotel(ctx context.Context, p auth.Principal) (*domain.Hotel, error) {
	if p.HotelID == nil {
		return nil, apperr.New(apperr.Validation, "No hotel is associated with this account")
	}
	return s.repo.HotelByID(ctx, *p.HotelID)
}

func (s *InventorySvc) CreateRoom(ctx context.Context, p auth.Principal, room domain.Room) (*domain.Room, error) {
	if err := authz.RequireRole(p, auth.RoleAdmin, auth.RoleManager); err != nil {
		return nil, err
	}
	if err := authz.VerifyHotelAccess(p, room.HotelID); err != nil {
		return nil, err
	}
	if _, err := s.repo.HotelByID(ctx, room.HotelID); err != nil {
		return nil, err
	}
	if err := s.uniqueNumber(ctx, room.HotelID, room.RoomNumber, 0); err != nil {
		return nil, err
	}
	room.ID = 0
	if room.Status == "" {
		room.Status = domain.RoomAvailable
	}
	room.CreatedBy, room.UpdatedBy = p.UserID, p.UserID
	if err := s.repo.SaveRoom(ctx, &room); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"room_id": room.ID, "hotel_id": room.HotelID}).Info("room created")
	return &room, nil
}

func (s *InventorySvc) uniqueNumber(ctx context.Context, hotelID int64, number string, exceptID int64) error {
	taken, err := s.repo.RoomNumberTaken(ctx, hotelID, number, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Newf(apperr.Validation, "Room number %s already exists for this hotel", number)
	}
	return nil
}

// RoomUpdate carries the editable room attributes. Nil Status and Active
// leave the current values.
type RoomUpdate struct {
	domain.Room
	SetStatus *domain.RoomStatus
	SetActive *bool
}

func (s *InventorySvc) UpdateRoom(ctx context.Context, p auth.Principal, id int64, in RoomUpdate) (*domain.Room, error) {
	if err := authz.RequireRole(p, auth.RoleAdmin, auth.RoleManager); err != nil {
		return nil, err
	}
	room, err := s.repo.RoomByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.VerifyHotelAccess(p, room.HotelID); err != nil {
		return nil, err
	}
	if in.RoomNumber != room.RoomNumber {
		if err := s.uniqueNumber(ctx, room.HotelID, in.RoomNumber, room.ID); err != nil {
			return nil, err
		}
	}
	room.RoomNumber, room.RoomType = in.RoomNumber, in.RoomType
	room.PricePerNight, room.MaxOccupancy = in.PricePerNight, in.MaxOccupancy
	room.FloorNumber, room.BedType = in.FloorNumber, in.BedType
	room.Amenities, room.Description = in.Amenities, in.Description
	if in.SetStatus != nil {
		room.SetStatus(*in.SetStatus, p.UserID, s.now())
	}
	if in.SetActive != nil {
		room.Active = *in.SetActive
	}
	room.UpdatedBy = p.UserID
	if err := s.repo.SaveRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// UpdateRoomStatus accepts any RoomStatus; housekeeping and the booking
// service drive it.
func (s *InventorySvc) UpdateRoomStatus(ctx context.Context, p auth.Principal, id int64, st domain.RoomStatus) (*domain.Room, error) {
	room, err := s.repo.RoomByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.VerifyHotelAccess(p, room.HotelID); err != nil {
		return nil, err
	}
	prev := room.Status
	room.SetStatus(st, p.UserID, s.now())
	if err := s.repo.SaveRoom(ctx, room); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"room_id": id, "from": prev, "to": st, "by": p.Username}).Info("room status updated")
	return room, nil
}

// DeleteRoom takes the room out of service without removing it.
func (s *InventorySvc) DeleteRoom(ctx context.Context, p auth.Principal, id int64) error {
	if err := authz.RequireRole(p, auth.RoleAdmin, auth.RoleManager); err != nil {
		return err
	}
	room, err := s.repo.RoomByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.VerifyHotelAccess(p, room.HotelID); err != nil {
		return err
	}
	room.Active = false
	room.UpdatedBy = p.UserID
	return s.repo.SaveRoom(ctx, room)
}

func (s *InventorySvc) Room(ctx context.Context, id int64) (*domain.Room, error) {
	return s.repo.RoomByID(ctx, id)
}

func (s *InventorySvc) RoomsByHotel(ctx context.Context, hotelID int64, availableOnly bool) ([]domain.Room, error) {
	if _, err := s.repo.HotelByID(ctx, hotelID); err != nil {
		return nil, err
	}
	return s.repo.RoomsByHotel(ctx, hotelID, availableOnly)
}

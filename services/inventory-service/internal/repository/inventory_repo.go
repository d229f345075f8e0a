package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/coosmos/Hotel-Management-Backend/pkg/apperr"
	"github.com/coosmos/Hotel-Management-Backend/services/inventory-service/internal/domain"
)

type InventoryRepo struct {
	db *gorm.DB
}

func NewInventoryRepo(db *gorm.DB) *InventoryRepo {
	return &InventoryRepo{db: db}
}

func (r *InventoryRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Hotel{}, &domain.Room{})
}

func (r *InventoryRepo) SaveHotel(ctx context.Context, h *domain.Hotel) error {
	return r.db.WithContext(ctx).Save(h).Error
}

func (r *InventoryRepo) HotelByID(ctx context.Context, id int64) (*domain.Hotel, error) {
	var h domain.Hotel
	if err := r.db.WithContext(ctx).First(&h, id).Error; err != nil {
		return nil, notFound(err, "Hotel", id)
	}
	return &h, nil
}

type HotelFilter struct {
	ActiveOnly bool
	City       string
}

func (r *InventoryRepo) ListHotels(ctx context.Context, f HotelFilter) ([]domain.Hotel, error) {
	q := r.db.WithContext(ctx).Model(&domain.Hotel{})
	if f.ActiveOnly {
		q = q.Where("status = ?", domain.HotelActive)
	}
	if f.City != "" {
		q = q.Where("LOWER(city) LIKE LOWER(?)", "%"+f.City+"%")
	}
	var out []domain.Hotel
	if err := q.Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *InventoryRepo) RoomNumberTaken(ctx context.Context, hotelID int64, number string, exceptID int64) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&domain.Room{}).Where("hotel_id = ? AND room_number = ?", hotelID, number)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

// SaveRoom writes the room and refreshes the owning hotel's room counts in
// the same transaction.
func (r *InventoryRepo) SaveRoom(ctx context.Context, room *domain.Room) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(room).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Newf(apperr.Validation, "Room number %s already exists for this hotel", room.RoomNumber)
			}
			return err
		}
		return refreshCounts(tx, room.HotelID)
	})
}

func refreshCounts(tx *gorm.DB, hotelID int64) error {
	var total, available int64
	base := tx.Model(&domain.Room{}).Where("hotel_id = ?", hotelID)
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return err
	}
	if err := base.Session(&gorm.Session{}).Where("status = ? AND active = ?", domain.RoomAvailable, true).Count(&available).Error; err != nil {
		return err
	}
	return tx.Model(&domain.Hotel{}).Where("id = ?", hotelID).
		Updates(map[string]any{"total_rooms": total, "available_rooms": available}).Error
}

func (r *InventoryRepo) RoomByID(ctx context.Context, id int64) (*domain.Room, error) {
	var room domain.Room
	if err := r.db.WithContext(ctx).First(&room, id).Error; err != nil {
		return nil, notFound(err, "Room", id)
	}
	return &room, nil
}

// RoomsByHotel lists every room of the hotel in room-number order. With
// availableOnly, only active AVAILABLE rooms are returned.
func (r *InventoryRepo) RoomsByHotel(ctx context.Context, hotelID int64, availableOnly bool) ([]domain.Room, error) {
	q := r.db.WithContext(ctx).Where("hotel_id = ?", hotelID)
	if availableOnly {
		q = q.Where("status = ? AND active = ?", domain.RoomAvailable, true)
	}
	var out []domain.Room
	if err := q.Order("room_number ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func notFound(err error, what string, id int64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Newf(apperr.NotFound, "%s not found with id: %d", what, id)
	}
	return err
}

package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/coosmos/Hotel-Management-Backend/services/notification-service/internal/domain"
)

type NotificationRepo struct {
	db *gorm.DB
}

func NewNotificationRepo(db *gorm.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

func (r *NotificationRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Notification{})
}

// Claim records n as PENDING under its (booking, type) key and returns the
// stored row. ok is false when that row was already SENT; the row is then
// left untouched.
func (r *NotificationRepo) Claim(ctx context.Context, n domain.Notification) (row *domain.Notification, ok bool, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fresh := n
		fresh.Status = domain.StatusPending
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "booking_id"}, {Name: "notification_type"}},
			DoNothing: true,
		}).Create(&fresh).Error; err != nil {
			return err
		}

		var cur domain.Notification
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("booking_id = ? AND notification_type = ?", n.BookingID, n.Type).
			First(&cur).Error; err != nil {
			return err
		}
		row = &cur
		if cur.Status == domain.StatusSent {
			return nil
		}
		ok = true
		cur.HotelID = n.HotelID
		cur.RecipientEmail = n.RecipientEmail
		cur.Subject = n.Subject
		cur.Content = n.Content
		cur.Status = domain.StatusPending
		cur.ErrorMessage = ""
		cur.Attempts++
		return tx.Save(&cur).Error
	})
	if err != nil {
		return nil, false, err
	}
	return row, ok, nil
}

// Finish stores the outcome of a delivery attempt.
func (r *NotificationRepo) Finish(ctx context.Context, n *domain.Notification) error {
	return r.db.WithContext(ctx).Model(n).Select("status", "sent_at", "error_message", "content", "updated_at").Updates(n).Error
}

// ByBooking lists a booking's notifications, oldest first. hotelID 0 skips
// the hotel filter.
func (r *NotificationRepo) ByBooking(ctx context.Context, bookingID, hotelID int64) ([]domain.Notification, error) {
	q := r.db.WithContext(ctx).Where("booking_id = ?", bookingID)
	if hotelID != 0 {
		q = q.Where("hotel_id = ?", hotelID)
	}
	var out []domain.Notification
	if err := q.Order("created_at ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/coosmos/Hotel-Management-Backend/pkg/apperr"
	"github.com/coosmos/Hotel-Management-Backend/services/booking-service/internal/domain"
)

var ErrRoomTaken = apperr.New(apperr.Conflict, "Room was just booked. Please try again.")

type BookingRepo struct{ db *gorm.DB }

func NewBookingRepo(db *gorm.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

func (r *BookingRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Booking{})
}

// overlapping restricts q to non-terminal bookings whose dates intersect
// [ci, co], endpoints included.
func overlapping(q *gorm.DB, ci, co time.Time) *gorm.DB {
	return q.Where("status NOT IN ?", domain.TerminalStatuses).
		Where("check_in_date <= ? AND check_out_date >= ?", co, ci)
}

// BookedRoomIDs lists rooms of the hotel holding any booking that overlaps
// [ci, co]. The read takes no lock.
func (r *BookingRepo) BookedRoomIDs(ctx context.Context, hotelID int64, ci, co time.Time) ([]int64, error) {
	var ids []int64
	q := r.db.WithContext(ctx).Model(&domain.Booking{}).Where("hotel_id = ?", hotelID)
	err := overlapping(q, ci, co).Distinct().Pluck("room_id", &ids).Error
	return ids, err
}

// CreateWithNoOverlap inserts b unless another active booking for the same
// room overlaps its dates. Writers contending for one room are serialized
// before the overlap check: on Postgres by a transaction-scoped advisory lock,
// on MySQL by a named lock held on a pinned connection around the transaction.
// A lock timeout or deadlock reports ErrRoomTaken.
func (r *BookingRepo) CreateWithNoOverlap(ctx context.Context, b *domain.Booking) error {
	db := r.db.WithContext(ctx)
	if db.Dialector.Name() != "mysql" {
		return lockConflict(insertChecked(db, b))
	}
	return lockConflict(db.Connection(func(conn *gorm.DB) error {
		key := roomLockKey(b.RoomID)
		var got sql.NullInt64
		if err := conn.Raw("SELECT GET_LOCK(?, ?)", key, int(roomLockWait/time.Second)).Scan(&got).Error; err != nil {
			return err
		}
		if !got.Valid || got.Int64 != 1 {
			return ErrRoomTaken
		}
		// The lock belongs to the session; release it even if ctx is done.
		defer conn.WithContext(context.WithoutCancel(ctx)).Exec("SELECT RELEASE_LOCK(?)", key)
		return insertChecked(conn, b)
	}))
}

func insertChecked(db *gorm.DB, b *domain.Booking) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", b.RoomID).Error; err != nil {
				return err
			}
		}
		var existing domain.Booking
		q := tx.Model(&domain.Booking{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("room_id = ?", b.RoomID)
		err := overlapping(q, b.CheckInDate, b.CheckOutDate).Take(&existing).Error
		if err == nil {
			return ErrRoomTaken
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(b).Error
	})
}

func (r *BookingRepo) ByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, notFound(err, id)
	}
	return &b, nil
}

// Transition loads the booking under a row lock, applies fn and saves the
// result in the same transaction. An error from fn rolls back.
func (r *BookingRepo) Transition(ctx context.Context, id int64, fn func(*domain.Booking) error) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&b, "id = ?", id).Error; err != nil {
			return notFound(err, id)
		}
		if err := fn(&b); err != nil {
			return err
		}
		return tx.Save(&b).Error
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

type Filter struct {
	UserID  int64
	HotelID int64
	Page    int
	Size    int
}

func (r *BookingRepo) List(ctx context.Context, f Filter) ([]domain.Booking, int64, error) {
	if f.Size <= 0 {
		f.Size = 20
	}
	if f.Page < 0 {
		f.Page = 0
	}
	qb := r.db.WithContext(ctx).Model(&domain.Booking{})
	if f.UserID != 0 {
		qb = qb.Where("user_id = ?", f.UserID)
	}
	if f.HotelID != 0 {
		qb = qb.Where("hotel_id = ?", f.HotelID)
	}
	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []domain.Booking
	if err := qb.Order("created_at DESC, id DESC").Limit(f.Size).Offset(f.Page * f.Size).Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ByCheckInDate lists bookings in status starting on day; hotelID 0 means all hotels.
func (r *BookingRepo) ByCheckInDate(ctx context.Context, day time.Time, status domain.Status, hotelID int64) ([]domain.Booking, error) {
	return r.byDate(ctx, "check_in_date", day, status, hotelID)
}

func (r *BookingRepo) ByCheckOutDate(ctx context.Context, day time.Time, status domain.Status, hotelID int64) ([]domain.Booking, error) {
	return r.byDate(ctx, "check_out_date", day, status, hotelID)
}

func (r *BookingRepo) byDate(ctx context.Context, column string, day time.Time, status domain.Status, hotelID int64) ([]domain.Booking, error) {
	qb := r.db.WithContext(ctx).Where(column+" = ? AND status = ?", day, status)
	if hotelID != 0 {
		qb = qb.Where("hotel_id = ?", hotelID)
	}
	var out []domain.Booking
	err := qb.Order("id ASC").Find(&out).Error
	return out, err
}

type Stats struct {
	TotalBookings     int64
	ActiveBookings    int64
	CompletedBookings int64
	CancelledBookings int64
	PendingPayments   int64
	TodayCheckIns     int64
	TodayCheckOuts    int64
	TotalRevenue      decimal.Decimal
}

// Stats aggregates the booking table for one hotel, or all when hotelID is 0.
func (r *BookingRepo) Stats(ctx context.Context, hotelID int64, today time.Time) (Stats, error) {
	scope := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&domain.Booking{})
		if hotelID != 0 {
			q = q.Where("hotel_id = ?", hotelID)
		}
		return q
	}

	var rows []struct {
		Status domain.Status
		N      int64
	}
	if err := scope().Select("status, COUNT(*) AS n").Group("status").Scan(&rows).Error; err != nil {
		return Stats{}, err
	}
	var s Stats
	for _, row := range rows {
		s.TotalBookings += row.N
		switch row.Status {
		case domain.StatusPending, domain.StatusConfirmed, domain.StatusCheckedIn:
			s.ActiveBookings += row.N
		case domain.StatusCheckedOut:
			s.CompletedBookings += row.N
		case domain.StatusCancelled:
			s.CancelledBookings += row.N
		}
	}
	if err := scope().Where("payment_status = ? AND status <> ?", domain.PaymentPending, domain.StatusCancelled).
		Count(&s.PendingPayments).Error; err != nil {
		return Stats{}, err
	}
	if err := scope().Where("check_in_date = ? AND status = ?", today, domain.StatusConfirmed).
		Count(&s.TodayCheckIns).Error; err != nil {
		return Stats{}, err
	}
	if err := scope().Where("check_out_date = ? AND status = ?", today, domain.StatusCheckedIn).
		Count(&s.TodayCheckOuts).Error; err != nil {
		return Stats{}, err
	}
	var revenue decimal.NullDecimal
	if err := scope().Select("SUM(total_amount)").Where("status <> ?", domain.StatusCancelled).
		Row().Scan(&revenue); err != nil {
		return Stats{}, err
	}
	s.TotalRevenue = decimal.Zero
	if revenue.Valid {
		s.TotalRevenue = revenue.Decimal
	}
	return s, nil
}

func notFound(err error, id int64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Newf(apperr.NotFound, "Booking not found with id: %d", id)
	}
	return err
}

package repository

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coosmos/Hotel-Management-Backend/pkg/apperr"
	"github.com/coosmos/Hotel-Management-Backend/pkg/dates"
	"github.com/coosmos/Hotel-Management-Backend/pkg/db/dbtest"
	"github.com/coosmos/Hotel-Management-Backend/services/booking-service/internal/domain"
)

func day(s string) time.Time {
	d, err := dates.Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newRepo(t *testing.T) *BookingRepo {
	return NewBookingRepo(dbtest.Open(t, &domain.Booking{}))
}

func booking(userID, hotelID, roomID int64, ci, co string) *domain.Booking {
	return &domain.Booking{
		UserID: userID, HotelID: hotelID, RoomID: roomID,
		CheckInDate: day(ci), CheckOutDate: day(co),
		NumberOfGuests: 1, TotalAmount: decimal.NewFromInt(100),
		GuestName: "Guest", GuestEmail: "g@example.com", GuestPhone: "0812345678",
		Status: domain.StatusConfirmed, PaymentStatus: domain.PaymentPending,
	}
}

func TestCreateWithNoOverlap(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	first := booking(1, 7, 101, "2025-06-10", "2025-06-12")
	require.NoError(t, r.CreateWithNoOverlap(ctx, first))
	assert.NotZero(t, first.ID)

	err := r.CreateWithNoOverlap(ctx, booking(2, 7, 101, "2025-06-11", "2025-06-13"))
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))

	// adjacent stays conflict under the inclusive predicate
	err = r.CreateWithNoOverlap(ctx, booking(2, 7, 101, "2025-06-12", "2025-06-14"))
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))

	require.NoError(t, r.CreateWithNoOverlap(ctx, booking(2, 7, 101, "2025-06-13", "2025-06-14")))
	require.NoError(t, r.CreateWithNoOverlap(ctx, booking(3, 7, 102, "2025-06-10", "2025-06-12")))
}

func TestTerminalBookingsReleaseRoom(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	cancelled := booking(1, 7, 101, "2025-06-10", "2025-06-12")
	cancelled.Status = domain.StatusCancelled
	require.NoError(t, r.CreateWithNoOverlap(ctx, cancelled))

	done := booking(1, 7, 101, "2025-06-10", "2025-06-12")
	done.Status = domain.StatusCheckedOut
	require.NoError(t, r.CreateWithNoOverlap(ctx, done))

	require.NoError(t, r.CreateWithNoOverlap(ctx, booking(2, 7, 101, "2025-06-10", "2025-06-12")))
}

func TestConcurrentCreateSingleWinner(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = r.CreateWithNoOverlap(ctx, booking(int64(100+i), 3, 301, "2025-07-01", "2025-07-02"))
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
	}
	assert.Equal(t, 1, wins)

	all, total, err := r.List(ctx, Filter{HotelID: 3})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, all, 1)
}

func TestBookedRoomIDs(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	require.NoError(t, r.CreateWithNoOverlap(ctx, booking(1, 7, 101, "2025-06-10", "2025-06-12")))
	require.NoError(t, r.CreateWithNoOverlap(ctx, booking(1, 7, 101, "2025-06-20", "2025-06-22")))
	require.NoError(t, r.CreateWithNoOverlap(ctx, booking(1, 7, 102, "2025-06-01", "2025-06-03")))
	require.NoError(t, r.CreateWithNoOverlap(ctx, booking(1, 8, 201, "2025-06-10", "2025-06-12")))

	ids, err := r.BookedRoomIDs(ctx, 7, day("2025-06-11"), day("2025-06-21"))
	require.NoError(t, err)
	assert.Equal(t, []int64{101}, ids)

	ids, err = r.BookedRoomIDs(ctx, 7, day("2025-06-03"), day("2025-06-10"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{101, 102}, ids)

	ids, err = r.BookedRoomIDs(ctx, 7, day("2025-06-13"), day("2025-06-19"))
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestTransition(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	b := booking(1, 7, 101, "2025-06-10", "2025-06-12")
	require.NoError(t, r.CreateWithNoOverlap(ctx, b))

	now := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	got, err := r.Transition(ctx, b.ID, func(x *domain.Booking) error { return x.CheckIn(now, "early", "m7") })
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCheckedIn, got.Status)

	_, err = r.Transition(ctx, b.ID, func(x *domain.Booking) error { return x.Cancel(now, "", "g") })
	assert.Equal(t, apperr.InvalidState, apperr.KindOf(err))

	stored, err := r.ByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCheckedIn, stored.Status)
	assert.Equal(t, "early", stored.CheckInNotes)
	assert.Equal(t, "2025-06-10", dates.Format(stored.CheckInDate))

	_, err = r.Transition(ctx, 999, func(*domain.Booking) error { return nil })
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
	_, err = r.ByID(ctx, 999)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestListAndDateQueries(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	require.NoError(t, r.CreateWithNoOverlap(ctx, booking(1, 7, 101, "2025-06-10", "2025-06-12")))
	require.NoError(t, r.CreateWithNoOverlap(ctx, booking(2, 7, 102, "2025-06-10", "2025-06-11")))
	require.NoError(t, r.CreateWithNoOverlap(ctx, booking(1, 8, 201, "2025-06-10", "2025-06-12")))

	mine, total, err := r.List(ctx, Filter{UserID: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, mine, 2)

	page, total, err := r.List(ctx, Filter{Page: 1, Size: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, page, 1)

	arrivals, err := r.ByCheckInDate(ctx, day("2025-06-10"), domain.StatusConfirmed, 7)
	require.NoError(t, err)
	assert.Len(t, arrivals, 2)

	arrivals, err = r.ByCheckInDate(ctx, day("2025-06-10"), domain.StatusConfirmed, 0)
	require.NoError(t, err)
	assert.Len(t, arrivals, 3)

	departures, err := r.ByCheckOutDate(ctx, day("2025-06-11"), domain.StatusConfirmed, 7)
	require.NoError(t, err)
	require.Len(t, departures, 1)
	assert.EqualValues(t, 2, departures[0].UserID)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	today := day("2025-06-10")

	a := booking(1, 7, 101, "2025-06-10", "2025-06-12")
	a.TotalAmount = decimal.NewFromInt(5000)
	b := booking(2, 7, 102, "2025-06-08", "2025-06-10")
	b.Status = domain.StatusCheckedIn
	b.TotalAmount = decimal.NewFromInt(3000)
	c := booking(3, 7, 103, "2025-06-01", "2025-06-02")
	c.Status = domain.StatusCancelled
	c.TotalAmount = decimal.NewFromInt(9999)
	d := booking(4, 8, 201, "2025-06-01", "2025-06-02")
	d.Status = domain.StatusCheckedOut
	d.PaymentStatus = domain.PaymentPaid
	d.TotalAmount = decimal.NewFromInt(700)
	for _, x := range []*domain.Booking{a, b, c, d} {
		require.NoError(t, r.CreateWithNoOverlap(ctx, x))
	}

	s, err := r.Stats(ctx, 7, today)
	require.NoError(t, err)
	assert.EqualValues(t, 3, s.TotalBookings)
	assert.EqualValues(t, 2, s.ActiveBookings)
	assert.EqualValues(t, 1, s.CancelledBookings)
	assert.EqualValues(t, 2, s.PendingPayments)
	assert.EqualValues(t, 1, s.TodayCheckIns)
	assert.EqualValues(t, 1, s.TodayCheckOuts)
	assert.True(t, decimal.NewFromInt(8000).Equal(s.TotalRevenue), s.TotalRevenue.String())

	all, err := r.Stats(ctx, 0, today)
	require.NoError(t, err)
	assert.EqualValues(t, 4, all.TotalBookings)
	assert.EqualValues(t, 1, all.CompletedBookings)
	assert.True(t, decimal.NewFromInt(8700).Equal(all.TotalRevenue))

	empty, err := r.Stats(ctx, 99, today)
	require.NoError(t, err)
	assert.True(t, empty.TotalRevenue.IsZero())
}

// Random bookings and query windows; BookedRoomIDs must equal the brute-force
// overlap over every stored non-terminal booking.
func TestBookedRoomIDsMatchesOverlapPredicate(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	rng := rand.New(rand.NewSource(42))
	base := day("2025-08-01")
	statuses := []domain.Status{domain.StatusConfirmed, domain.StatusCheckedIn, domain.StatusCancelled, domain.StatusCheckedOut}

	var stored []*domain.Booking
	for i := 0; i < 120; i++ {
		ci := dates.AddDays(base, rng.Intn(40))
		b := booking(int64(i), 7, int64(101+rng.Intn(6)), "2025-08-01", "2025-08-02")
		b.CheckInDate, b.CheckOutDate = ci, dates.AddDays(ci, 1+rng.Intn(5))
		b.Status = statuses[rng.Intn(len(statuses))]
		if err := r.CreateWithNoOverlap(ctx, b); err == nil {
			stored = append(stored, b)
		} else {
			require.Equal(t, apperr.Conflict, apperr.KindOf(err))
		}
	}
	require.NotEmpty(t, stored)

	for q := 0; q < 60; q++ {
		ci := dates.AddDays(base, rng.Intn(45))
		co := dates.AddDays(ci, 1+rng.Intn(6))
		want := map[int64]bool{}
		for _, b := range stored {
			if !b.Status.IsTerminal() && domain.Overlaps(b.CheckInDate, b.CheckOutDate, ci, co) {
				want[b.RoomID] = true
			}
		}
		ids, err := r.BookedRoomIDs(ctx, 7, ci, co)
		require.NoError(t, err)
		got := map[int64]bool{}
		for _, id := range ids {
			got[id] = true
		}
		assert.Equal(t, want, got, "window %s..%s", dates.Format(ci), dates.Format(co))
	}
}

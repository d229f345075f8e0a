package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coosmos/Hotel-Management-Backend/pkg/db/dbtest"
	"github.com/coosmos/Hotel-Management-Backend/services/notification-service/internal/domain"
)

func newRepo(t *testing.T) *NotificationRepo {
	return NewNotificationRepo(dbtest.Open(t, &domain.Notification{}))
}

func pending(bookingID int64, typ domain.Type) domain.Notification {
	return domain.Notification{BookingID: bookingID, HotelID: 7, Type: typ, RecipientEmail: "g@example.com", Subject: "s", Content: "c"}
}

func TestClaimIsKeyedOnBookingAndType(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	a, ok, err := r.Claim(ctx, pending(1, domain.TypeBookingCreated))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, domain.StatusPending, a.Status)
	assert.Equal(t, 1, a.Attempts)

	a.MarkFailed(errors.New("smtp down"))
	require.NoError(t, r.Finish(ctx, a))

	again, ok, err := r.Claim(ctx, pending(1, domain.TypeBookingCreated))
	require.NoError(t, err)
	assert.True(t, ok, "a failed notification may be retried")
	assert.Equal(t, a.ID, again.ID)
	assert.Equal(t, 2, again.Attempts)
	assert.Empty(t, again.ErrorMessage)

	again.MarkSent(time.Now())
	require.NoError(t, r.Finish(ctx, again))

	sent, ok, err := r.Claim(ctx, pending(1, domain.TypeBookingCreated))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, domain.StatusSent, sent.Status)

	other, ok, err := r.Claim(ctx, pending(1, domain.TypeCheckInSuccess))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEqual(t, a.ID, other.ID)

	rows, err := r.ByBooking(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, domain.TypeBookingCreated, rows[0].Type)
	assert.Equal(t, domain.StatusSent, rows[0].Status)
	assert.NotNil(t, rows[0].SentAt)
}

func TestByBookingHotelFilter(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	_, _, err := r.Claim(ctx, pending(5, domain.TypeBookingCreated))
	require.NoError(t, err)

	rows, err := r.ByBooking(ctx, 5, 7)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	rows, err = r.ByBooking(ctx, 5, 8)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMarkFailedTruncates(t *testing.T) {
	var n domain.Notification
	long := make([]byte, 800)
	for i := range long {
		long[i] = 'x'
	}
	n.MarkFailed(errors.New(string(long)))
	assert.Len(t, n.ErrorMessage, 500)
	assert.Equal(t, domain.StatusFailed, n.Status)
}

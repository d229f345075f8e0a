package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coosmos/Hotel-Management-Backend/pkg/apperr"
	"github.com/coosmos/Hotel-Management-Backend/pkg/auth"
	"github.com/coosmos/Hotel-Management-Backend/pkg/db/dbtest"
	"github.com/coosmos/Hotel-Management-Backend/pkg/events"
	"github.com/coosmos/Hotel-Management-Backend/services/notification-service/internal/domain"
	"github.com/coosmos/Hotel-Management-Backend/services/notification-service/internal/notifier"
	"github.com/coosmos/Hotel-Management-Backend/services/notification-service/internal/repository"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []notifier.Mail
	err  error
}

func (f *fakeSender) Send(_ context.Context, m notifier.Mail) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m)
	return nil
}

var sentAt = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newSvc(t *testing.T, s notifier.Sender) *NotificationSvc {
	r, err := notifier.NewRenderer()
	require.NoError(t, err)
	svc := NewNotificationSvc(repository.NewNotificationRepo(dbtest.Open(t, &domain.Notification{})), r, s, logrus.NewEntry(logrus.New()))
	svc.now = func() time.Time { return sentAt }
	return svc
}

func created(id int64) Request {
	return Request{
		BookingID: id, HotelID: 7, Email: "ann@example.com",
		Type: domain.TypeBookingCreated, Subject: "Booking Confirmation", Template: "booking-confirmation",
		Event: events.BookingCreated{BookingID: id, HotelID: 7, GuestName: "Ann", GuestEmail: "ann@example.com"},
	}
}

func TestDeliverSent(t *testing.T) {
	s := &fakeSender{}
	svc := newSvc(t, s)

	n, err := svc.Deliver(context.Background(), created(12))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSent, n.Status)
	require.NotNil(t, n.SentAt)
	assert.True(t, sentAt.Equal(*n.SentAt))
	assert.Contains(t, n.Content, "Dear Ann")

	require.Len(t, s.sent, 1)
	assert.Equal(t, "ann@example.com", s.sent[0].To)
	assert.Equal(t, "Booking Confirmation", s.sent[0].Subject)
}

func TestDeliverFailedIsRecorded(t *testing.T) {
	s := &fakeSender{err: errors.New("connection refused")}
	svc := newSvc(t, s)

	n, err := svc.Deliver(context.Background(), created(12))
	require.NoError(t, err, "a send failure is an outcome, not an error")
	assert.Equal(t, domain.StatusFailed, n.Status)
	assert.Equal(t, "connection refused", n.ErrorMessage)
	assert.Nil(t, n.SentAt)

	s.err = nil
	n, err = svc.Deliver(context.Background(), created(12))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSent, n.Status)
	assert.Equal(t, 2, n.Attempts)
}

func TestDeliverRedeliveryIsIdempotent(t *testing.T) {
	s := &fakeSender{}
	svc := newSvc(t, s)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Deliver(ctx, created(12))
		require.NoError(t, err)
	}
	assert.Len(t, s.sent, 1)

	rows, err := svc.ForBooking(ctx, auth.Principal{UserID: 1, Role: auth.RoleAdmin}, 12)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.StatusSent, rows[0].Status)
}

func TestDeliverRenderFailure(t *testing.T) {
	s := &fakeSender{}
	svc := newSvc(t, s)
	req := created(3)
	req.Template = "no-such-template"

	n, err := svc.Deliver(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, n.Status)
	assert.Contains(t, n.ErrorMessage, "no-such-template")
	assert.Empty(t, s.sent)
}

func TestForBookingAccess(t *testing.T) {
	svc := newSvc(t, &fakeSender{})
	ctx := context.Background()
	_, err := svc.Deliver(ctx, created(12))
	require.NoError(t, err)

	h7, h8 := int64(7), int64(8)
	rows, err := svc.ForBooking(ctx, auth.Principal{UserID: 3, Role: auth.RoleReceptionist, HotelID: &h7}, 12)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	rows, err = svc.ForBooking(ctx, auth.Principal{UserID: 4, Role: auth.RoleManager, HotelID: &h8}, 12)
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = svc.ForBooking(ctx, auth.Principal{UserID: 42, Role: auth.RoleGuest}, 12)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))
}

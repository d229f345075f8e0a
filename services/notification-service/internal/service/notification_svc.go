package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/coosmos/Hotel-Management-Backend/pkg/auth"
	"github.com/coosmos/Hotel-Management-Backend/pkg/authz"
	"github.com/coosmos/Hotel-Management-Backend/services/notification-service/internal/domain"
	"github.com/coosmos/Hotel-Management-Backend/services/notification-service/internal/notifier"
	"github.com/coosmos/Hotel-Management-Backend/services/notification-service/internal/repository"
)

type Renderer interface {
	Render(name string, event any) (string, error)
}

// Request is one notification to materialize and deliver.
type Request struct {
	BookingID int64
	HotelID   int64
	Email     string
	Type      domain.Type
	Subject   string
	Template  string
	Event     any
}

type NotificationSvc struct {
	repo   *repository.NotificationRepo
	render Renderer
	sender notifier.Sender
	log    *logrus.Entry
	now    func() time.Time
}

func NewNotificationSvc(repo *repository.NotificationRepo, r Renderer, s notifier.Sender, log *logrus.Entry) *NotificationSvc {
	return &NotificationSvc{repo: repo, render: r, sender: s, log: log, now: time.Now}
}

// Deliver records the notification as PENDING, renders and sends it, then
// stores SENT or FAILED. A booking/type pair that was already SENT is not
// sent again. Only storage errors are returned; a failed send is an outcome.
func (s *NotificationSvc) Deliver(ctx context.Context, req Request) (*domain.Notification, error) {
	log := s.log.WithFields(logrus.Fields{"booking_id": req.BookingID, "type": req.Type})

	n, ok, err := s.repo.Claim(ctx, domain.Notification{
		BookingID:      req.BookingID,
		HotelID:        req.HotelID,
		Type:           req.Type,
		RecipientEmail: req.Email,
		Subject:        req.Subject,
		Content:        "Email content: " + req.Template,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Info("notification already sent, skipping duplicate event")
		return n, nil
	}

	html, err := s.render.Render(req.Template, req.Event)
	if err == nil {
		n.Content = html
		err = s.sender.Send(ctx, notifier.Mail{To: req.Email, Subject: req.Subject, HTML: html})
	}
	if err != nil {
		n.MarkFailed(err)
		log.WithError(err).WithField("to", req.Email).Error("notification failed")
	} else {
		n.MarkSent(s.now())
		log.WithField("to", req.Email).Info("notification sent")
	}
	// the outcome must be stored even when the consumer is shutting down
	if err := s.repo.Finish(context.WithoutCancel(ctx), n); err != nil {
		return nil, err
	}
	return n, nil
}

// ForBooking lists a booking's notifications. Staff only see rows of their
// own hotel.
func (s *NotificationSvc) ForBooking(ctx context.Context, p auth.Principal, bookingID int64) ([]domain.Notification, error) {
	if err := authz.RequireBookingManager(p); err != nil {
		return nil, err
	}
	var hotelID int64
	if p.Role != auth.RoleAdmin && p.HotelID != nil {
		hotelID = *p.HotelID
	}
	return s.repo.ByBooking(ctx, bookingID, hotelID)
}

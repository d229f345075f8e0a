// Package worker turns booking lifecycle events into notifications.
package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/coosmos/Hotel-Management-Backend/pkg/events"
	"github.com/coosmos/Hotel-Management-Backend/pkg/mq"
	"github.com/coosmos/Hotel-Management-Backend/services/notification-service/internal/domain"
	"github.com/coosmos/Hotel-Management-Backend/services/notification-service/internal/service"
)

type Deliverer interface {
	Deliver(ctx context.Context, req service.Request) (*domain.Notification, error)
}

// route maps one topic to the notification it produces.
type route struct {
	topic  string
	decode func(body []byte) (service.Request, error)
}

func decodeAs[T any](typ domain.Type, subject, tmpl string, fields func(T) (bookingID, hotelID int64, email string)) func([]byte) (service.Request, error) {
	return func(body []byte) (service.Request, error) {
		ev, err := events.Decode[T](body)
		if err != nil {
			return service.Request{}, err
		}
		id, hotel, email := fields(ev)
		if id <= 0 || email == "" {
			return service.Request{}, fmt.Errorf("event missing bookingId or guestEmail")
		}
		return service.Request{BookingID: id, HotelID: hotel, Email: email, Type: typ, Subject: subject, Template: tmpl, Event: ev}, nil
	}
}

var routes = []route{
	{
		topic: events.TopicBookingCreated,
		decode: decodeAs(domain.TypeBookingCreated, "Booking Confirmation", "booking-confirmation",
			func(e events.BookingCreated) (int64, int64, string) { return e.BookingID, e.HotelID, e.GuestEmail }),
	},
	{
		topic: events.TopicCheckInReminder,
		decode: decodeAs(domain.TypeCheckInReminder, "Check-in Reminder", "checkin-reminder",
			func(e events.CheckInReminder) (int64, int64, string) { return e.BookingID, e.HotelID, e.GuestEmail }),
	},
	{
		topic: events.TopicGuestCheckedIn,
		decode: decodeAs(domain.TypeCheckInSuccess, "Check-in Successful", "checkin-success",
			func(e events.GuestCheckedIn) (int64, int64, string) { return e.BookingID, e.HotelID, e.GuestEmail }),
	},
	{
		topic: events.TopicGuestCheckedOut,
		decode: decodeAs(domain.TypeCheckOutThankYou, "Thank You for Staying With Us", "checkout-thankyou",
			func(e events.GuestCheckedOut) (int64, int64, string) { return e.BookingID, e.HotelID, e.GuestEmail }),
	},
}

// Topics lists the topics the consumer subscribes to.
func Topics() []string {
	out := make([]string, len(routes))
	for i, r := range routes {
		out[i] = r.topic
	}
	return out
}

type Consumer struct {
	sub   mq.Subscriber
	group string
	svc   Deliverer
	log   *logrus.Entry
}

func NewConsumer(sub mq.Subscriber, group string, svc Deliverer, log *logrus.Entry) *Consumer {
	return &Consumer{sub: sub, group: group, svc: svc, log: log}
}

// Run subscribes to every topic and blocks until ctx is done or a
// subscription fails. A failing subscription cancels the others.
func (c *Consumer) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	for _, r := range routes {
		wg.Add(1)
		go func(r route) {
			defer wg.Done()
			if err := c.sub.Subscribe(ctx, c.group, r.topic, c.handler(r)); err != nil && ctx.Err() == nil {
				once.Do(func() {
					firstErr = fmt.Errorf("subscribe %s: %w", r.topic, err)
					cancel()
				})
			}
		}(r)
	}
	wg.Wait()
	return firstErr
}

func (c *Consumer) handler(r route) mq.Handler {
	return func(ctx context.Context, m mq.Message) error {
		log := c.log.WithFields(logrus.Fields{"topic": m.Topic, "key": m.Key, "message_id": m.ID})
		req, err := r.decode(m.Body)
		if err != nil {
			log.WithError(err).Warn("undecodable event")
			return err
		}
		log.WithField("booking_id", req.BookingID).Debug("event received")
		_, err = c.svc.Deliver(ctx, req)
		return err
	}
}

package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/coosmos/Hotel-Management-Backend/pkg/apperr"
	"github.com/coosmos/Hotel-Management-Backend/pkg/authz"
	"github.com/coosmos/Hotel-Management-Backend/pkg/httpx"
	"github.com/coosmos/Hotel-Management-Backend/services/booking-service/internal/domain"
)

// Inventory talks to the hotel inventory service as the system principal.
type Inventory struct {
	base string
	http *http.Client
	cb   *gobreaker.CircuitBreaker
	log  *logrus.Entry
}

func NewInventory(baseURL string, timeout time.Duration, log *logrus.Entry) *Inventory {
	return &Inventory{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: &authz.SystemTransport{Base: otelhttp.NewTransport(http.DefaultTransport)},
		},
		cb:  circuitBreaker("inventory", log),
		log: log,
	}
}

func circuitBreaker(name string, log *logrus.Entry) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 2
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()}).Warn("circuit breaker state changed")
		},
		// 4xx replies mean the service is healthy.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			k := apperr.KindOf(err)
			return k != apperr.Upstream && k != apperr.Internal
		},
	})
}

func (c *Inventory) do(ctx context.Context, method, path string, out any) error {
	_, err := c.cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, method, c.base+path, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, apperr.Wrap(apperr.Upstream, err, "Hotel service is unavailable")
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		if err != nil {
			return nil, apperr.Wrap(apperr.Upstream, err, "Hotel service is unavailable")
		}
		var env httpx.Envelope[json.RawMessage]
		_ = json.Unmarshal(body, &env)
		if resp.StatusCode >= 300 {
			msg := env.Message
			if msg == "" {
				msg = fmt.Sprintf("hotel service returned %d", resp.StatusCode)
			}
			return nil, apperr.New(apperr.FromStatus(resp.StatusCode), msg)
		}
		if out != nil && len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, out); err != nil {
				return nil, apperr.Wrap(apperr.Upstream, err, "unexpected hotel service response")
			}
		}
		return nil, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return apperr.Wrap(apperr.Upstream, err, "Hotel service is unavailable")
	}
	return err
}

func (c *Inventory) RoomsByHotel(ctx context.Context, hotelID int64) ([]domain.Room, error) {
	var rooms []domain.Room
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/hotels/rooms/hotel/%d", hotelID), &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (c *Inventory) Room(ctx context.Context, roomID int64) (*domain.Room, error) {
	var room domain.Room
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/hotels/rooms/%d", roomID), &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *Inventory) Hotel(ctx context.Context, hotelID int64) (*domain.Hotel, error) {
	var h domain.Hotel
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/hotels/%d", hotelID), &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *Inventory) UpdateRoomStatus(ctx context.Context, roomID int64, status string) error {
	path := fmt.Sprintf("/api/hotels/rooms/%d/status?status=%s", roomID, url.QueryEscape(status))
	return c.do(ctx, http.MethodPatch, path, nil)
}

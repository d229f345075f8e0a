// Package authz turns attested gateway headers into a Principal and decides
// which operations that principal may perform.
package authz

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/coosmos/Hotel-Management-Backend/pkg/apperr"
	"github.com/coosmos/Hotel-Management-Backend/pkg/auth"
)

// Attested header contract between the gateway and every downstream service.
const (
	HeaderUserID   = "X-User-Id"
	HeaderUsername = "X-Username"
	HeaderEmail    = "X-User-Email"
	HeaderRole     = "X-User-Role"
	HeaderHotelID  = "X-Hotel-Id"
)

var attestedHeaders = []string{HeaderUserID, HeaderUsername, HeaderEmail, HeaderRole, HeaderHotelID}

// Strip removes any attested header a client may have supplied.
func Strip(h http.Header) {
	for _, k := range attestedHeaders {
		h.Del(k)
	}
}

// Attest overwrites the attested headers with p.
func Attest(h http.Header, p auth.Principal) {
	Strip(h)
	h.Set(HeaderUserID, strconv.FormatInt(p.UserID, 10))
	h.Set(HeaderUsername, p.Username)
	h.Set(HeaderEmail, p.Email)
	h.Set(HeaderRole, string(p.Role))
	if p.HotelID != nil {
		h.Set(HeaderHotelID, strconv.FormatInt(*p.HotelID, 10))
	} else {
		h.Set(HeaderHotelID, "")
	}
}

// FromHeaders derives the request principal. Anything absent or unparseable
// is UNAUTHENTICATED.
func FromHeaders(h http.Header) (auth.Principal, error) {
	rawID := strings.TrimSpace(h.Get(HeaderUserID))
	rawRole := strings.TrimSpace(h.Get(HeaderRole))
	if rawID == "" || rawRole == "" {
		return auth.Principal{}, apperr.New(apperr.Unauthenticated, "missing authentication headers")
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return auth.Principal{}, apperr.New(apperr.Unauthenticated, "invalid user id header")
	}
	role, err := auth.ParseRole(rawRole)
	if err != nil {
		return auth.Principal{}, apperr.New(apperr.Unauthenticated, "invalid role header")
	}
	var hotelID *int64
	if raw := strings.TrimSpace(h.Get(HeaderHotelID)); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return auth.Principal{}, apperr.New(apperr.Unauthenticated, "invalid hotel id header")
		}
		hotelID = &v
	}
	p, err := auth.NewPrincipal(id, h.Get(HeaderUsername), h.Get(HeaderEmail), role, hotelID)
	if err != nil {
		return auth.Principal{}, apperr.Wrap(apperr.Unauthenticated, err, "invalid hotel affinity")
	}
	return p, nil
}

// System is the identity used by schedulers and workers that call other
// services outside of any client request.
func System() auth.Principal {
	return auth.Principal{
		UserID:   0,
		Username: "system",
		Email:    "system@hotel.com",
		Role:     auth.RoleAdmin,
	}
}

// SystemTransport stamps the system identity on every outbound request.
type SystemTransport struct {
	Base http.RoundTripper
}

func (t *SystemTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	r := req.Clone(req.Context())
	Attest(r.Header, System())
	return base.RoundTrip(r)
}

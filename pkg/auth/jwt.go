package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

var (
	ErrExpired      = errors.New("token expired")
	ErrBadSignature = errors.New("token signature invalid")
	ErrMalformed    = errors.New("token malformed")
	ErrMissingClaim = errors.New("token missing required claim")
)

// Claims is the token body. Subject carries the username.
type Claims struct {
	UserID  *int64 `json:"userId,omitempty"`
	Email   string `json:"email,omitempty"`
	Role    string `json:"role,omitempty"`
	HotelID *int64 `json:"hotelId,omitempty"`
	jwt.RegisteredClaims
}

// DecodeSecret accepts the shared secret in its base64 form.
func DecodeSecret(secret string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("jwt secret is not base64: %w", err)
	}
	if len(key) == 0 {
		return nil, errors.New("jwt secret is empty")
	}
	return key, nil
}

type Verifier struct {
	key  []byte
	skew time.Duration
	now  func() time.Time
}

type VerifierOption func(*Verifier)

// WithClock overrides the time source used for expiration checks.
func WithClock(now func() time.Time) VerifierOption {
	return func(v *Verifier) { v.now = now }
}

// NewVerifier builds a verifier over a base64 secret. skew is the tolerated
// clock drift on expiration; zero is strict.
func NewVerifier(secret string, skew time.Duration, opts ...VerifierOption) (*Verifier, error) {
	key, err := DecodeSecret(secret)
	if err != nil {
		return nil, err
	}
	v := &Verifier{key: key, skew: skew, now: time.Now}
	for _, o := range opts {
		o(v)
	}
	return v, nil
}

func (v *Verifier) parse(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithLeeway(v.skew),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	t, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return v.key, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, ErrMalformed
	}
	return c, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrBadSignature
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return fmt.Errorf("%w: exp", ErrMissingClaim)
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}

// ExtractPrincipal verifies the token and returns the identity it carries.
func (v *Verifier) ExtractPrincipal(tokenStr string) (Principal, error) {
	c, err := v.parse(tokenStr)
	if err != nil {
		return Principal{}, err
	}
	switch {
	case c.Subject == "":
		return Principal{}, fmt.Errorf("%w: sub", ErrMissingClaim)
	case c.UserID == nil:
		return Principal{}, fmt.Errorf("%w: userId", ErrMissingClaim)
	case c.Email == "":
		return Principal{}, fmt.Errorf("%w: email", ErrMissingClaim)
	case c.Role == "":
		return Principal{}, fmt.Errorf("%w: role", ErrMissingClaim)
	}
	role, err := ParseRole(c.Role)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	p, err := NewPrincipal(*c.UserID, c.Subject, c.Email, role, c.HotelID)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: hotelId", ErrMissingClaim)
	}
	return p, nil
}

// ValidateToken reports whether the token verifies; it never returns an error.
func (v *Verifier) ValidateToken(tokenStr string) bool {
	_, err := v.parse(tokenStr)
	return err == nil
}

type Issuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	key, err := DecodeSecret(secret)
	if err != nil {
		return nil, err
	}
	return &Issuer{key: key, ttl: ttl, now: time.Now}, nil
}

func (i *Issuer) CreateAccessToken(p Principal) (string, error) {
	now := i.now()
	uid := p.UserID
	claims := Claims{
		UserID:  &uid,
		Email:   p.Email,
		Role:    string(p.Role),
		HotelID: p.HotelID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.key)
}

func (i *Issuer) TTL() time.Duration { return i.ttl }

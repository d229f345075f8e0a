package auth

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleManager      Role = "MANAGER"
	RoleReceptionist Role = "RECEPTIONIST"
	RoleGuest        Role = "GUEST"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleManager, RoleReceptionist, RoleGuest:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// IsStaff reports roles bound to a single hotel.
func (r Role) IsStaff() bool { return r == RoleManager || r == RoleReceptionist }

func (r Role) CanManageBookings() bool { return r == RoleAdmin || r.IsStaff() }

// Principal is the identity attested for one request.
type Principal struct {
	UserID   int64
	Username string
	Email    string
	Role     Role
	HotelID  *int64
}

// NewPrincipal enforces the hotel affinity rules: required for staff,
// dropped for guests, kept for admins only as informational.
func NewPrincipal(userID int64, username, email string, role Role, hotelID *int64) (Principal, error) {
	p := Principal{UserID: userID, Username: username, Email: email, Role: role}
	switch {
	case role.IsStaff():
		if hotelID == nil {
			return Principal{}, fmt.Errorf("role %s requires a hotel id", role)
		}
		p.HotelID = hotelID
	case role == RoleAdmin:
		p.HotelID = hotelID
	}
	return p, nil
}

func (p Principal) HasAffinity(hotelID int64) bool {
	return p.HotelID != nil && *p.HotelID == hotelID
}

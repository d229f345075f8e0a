package authz

import (
	"github.com/coosmos/Hotel-Management-Backend/pkg/apperr"
	"github.com/coosmos/Hotel-Management-Backend/pkg/auth"
)

func RequireAdmin(p auth.Principal) error {
	if p.Role != auth.RoleAdmin {
		return apperr.New(apperr.Forbidden, "Access denied. Admin role required.")
	}
	return nil
}

// RequireRole passes when p holds any of roles.
func RequireRole(p auth.Principal, roles ...auth.Role) error {
	for _, r := range roles {
		if p.Role == r {
			return nil
		}
	}
	return apperr.Newf(apperr.Forbidden, "Access denied for role %s", p.Role)
}

func RequireBookingManager(p auth.Principal) error {
	if !p.Role.CanManageBookings() {
		return apperr.New(apperr.Forbidden, "Access denied. Staff role required.")
	}
	return nil
}

func VerifyHotelAccess(p auth.Principal, hotelID int64) error {
	switch {
	case p.Role == auth.RoleAdmin:
		return nil
	case p.Role.IsStaff() && p.HasAffinity(hotelID):
		return nil
	}
	return apperr.New(apperr.Forbidden, "Access denied. You can only access your assigned hotel.")
}

func VerifyBookingAccess(p auth.Principal, ownerID, hotelID int64) error {
	switch {
	case p.Role == auth.RoleAdmin:
		return nil
	case p.Role.IsStaff():
		return VerifyHotelAccess(p, hotelID)
	case p.Role == auth.RoleGuest && p.UserID == ownerID:
		return nil
	}
	return apperr.New(apperr.Forbidden, "Access denied. You can only access your own bookings.")
}

package service

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/coosmos/Hotel-Management-Backend/pkg/apperr"
	"github.com/coosmos/Hotel-Management-Backend/pkg/auth"
	"github.com/coosmos/Hotel-Management-Backend/pkg/db/dbtest"
	"github.com/coosmos/Hotel-Management-Backend/services/auth-service/internal/domain"
	"github.com/coosmos/Hotel-Management-Backend/services/auth-service/internal/repository"
)

var secret = base64.StdEncoding.EncodeToString([]byte("auth-service-test-secret-0123456789"))

func newSvc(t *testing.T) *AuthSvc {
	iss, err := auth.NewIssuer(secret, time.Hour)
	require.NoError(t, err)
	s := NewAuthSvc(repository.NewUserRepo(dbtest.Open(t, &domain.User{})), iss, logrus.NewEntry(logrus.New()))
	s.cost = bcrypt.MinCost
	return s
}

func verify(t *testing.T, tok string) auth.Principal {
	v, err := auth.NewVerifier(secret, 0)
	require.NoError(t, err)
	p, err := v.ExtractPrincipal(tok)
	require.NoError(t, err)
	return p
}

var alice = Profile{Username: "alice", Email: "alice@example.com", Password: "secret123", FullName: "Alice"}

func TestRegisterCreatesGuestAndIssuesToken(t *testing.T) {
	s := newSvc(t)
	sess, err := s.Register(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleGuest, sess.User.Role)
	assert.Nil(t, sess.User.HotelID)
	assert.NotEqual(t, "secret123", sess.User.PasswordHash)

	p := verify(t, sess.Token)
	assert.Equal(t, sess.User.ID, p.UserID)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, auth.RoleGuest, p.Role)
}

func TestRegisterDuplicates(t *testing.T) {
	s := newSvc(t)
	ctx := context.Background()
	_, err := s.Register(ctx, alice)
	require.NoError(t, err)

	sameName := alice
	sameName.Email = "other@example.com"
	_, err = s.Register(ctx, sameName)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
	assert.Equal(t, "username already exists", apperr.Message(err))

	sameEmail := alice
	sameEmail.Username = "alice2"
	_, err = s.Register(ctx, sameEmail)
	assert.Equal(t, "email already exists", apperr.Message(err))
}

func TestLogin(t *testing.T) {
	s := newSvc(t)
	ctx := context.Background()
	_, err := s.Register(ctx, alice)
	require.NoError(t, err)

	sess, err := s.Login(ctx, "alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "alice", verify(t, sess.Token).Username)

	_, err = s.Login(ctx, "alice", "wrong")
	assert.Equal(t, apperr.Unauthenticated, apperr.KindOf(err))
	_, err = s.Login(ctx, "nobody", "secret123")
	assert.Equal(t, "invalid username or password", apperr.Message(err))
}

func TestCreateStaff(t *testing.T) {
	s := newSvc(t)
	ctx := context.Background()
	admin := auth.Principal{UserID: 1, Username: "admin", Role: auth.RoleAdmin}
	hotel := int64(7)
	bob := Profile{Username: "bob", Email: "bob@hotel.com", Password: "desk-pass"}

	_, err := s.CreateStaff(ctx, auth.Principal{UserID: 2, Role: auth.RoleGuest}, bob, auth.RoleManager, &hotel)
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))

	_, err = s.CreateStaff(ctx, admin, bob, auth.RoleReceptionist, nil)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = s.CreateStaff(ctx, admin, bob, auth.RoleAdmin, &hotel)
	assert.Equal(t, "can only create MANAGER or RECEPTIONIST roles", apperr.Message(err))

	u, err := s.CreateStaff(ctx, admin, bob, auth.RoleReceptionist, &hotel)
	require.NoError(t, err)
	assert.Equal(t, int64(7), *u.HotelID)

	sess, err := s.Login(ctx, "bob", "desk-pass")
	require.NoError(t, err)
	p := verify(t, sess.Token)
	require.NotNil(t, p.HotelID)
	assert.Equal(t, int64(7), *p.HotelID)
	assert.Equal(t, auth.RoleReceptionist, p.Role)
}

func TestAccountMaintenance(t *testing.T) {
	s := newSvc(t)
	ctx := context.Background()
	a, err := s.Register(ctx, alice)
	require.NoError(t, err)
	_, err = s.Register(ctx, Profile{Username: "carol", Email: "carol@example.com", Password: "secret123"})
	require.NoError(t, err)
	p := auth.Principal{UserID: a.User.ID, Username: "alice", Role: auth.RoleGuest}

	err = s.UpdateUsername(ctx, p, "carol")
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
	require.NoError(t, s.UpdateUsername(ctx, p, "alicia"))

	err = s.ChangePassword(ctx, p, "nope", "brand-new-pass")
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	require.NoError(t, s.ChangePassword(ctx, p, "secret123", "brand-new-pass"))

	_, err = s.Login(ctx, "alicia", "brand-new-pass")
	require.NoError(t, err)

	me, err := s.Me(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "alicia", me.Username)
}

func TestSeedAdminIsIdempotent(t *testing.T) {
	s := newSvc(t)
	ctx := context.Background()
	require.NoError(t, s.SeedAdmin(ctx, "admin@hotel.com", "admin123"))
	require.NoError(t, s.SeedAdmin(ctx, "admin@hotel.com", "admin123"))

	sess, err := s.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, sess.User.Role)
}

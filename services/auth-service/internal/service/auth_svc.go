package service

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/coosmos/Hotel-Management-Backend/pkg/apperr"
	"github.com/coosmos/Hotel-Management-Backend/pkg/auth"
	"github.com/coosmos/Hotel-Management-Backend/pkg/authz"
	"github.com/coosmos/Hotel-Management-Backend/services/auth-service/internal/domain"
	"github.com/coosmos/Hotel-Management-Backend/services/auth-service/internal/repository"
)

var errBadCredentials = apperr.New(apperr.Unauthenticated, "invalid username or password")

type AuthSvc struct {
	repo   *repository.UserRepo
	issuer *auth.Issuer
	log    *logrus.Entry
	cost   int
}

func NewAuthSvc(r *repository.UserRepo, issuer *auth.Issuer, log *logrus.Entry) *AuthSvc {
	return &AuthSvc{repo: r, issuer: issuer, log: log, cost: bcrypt.DefaultCost}
}

type Profile struct {
	Username    string
	Email       string
	Password    string
	FullName    string
	PhoneNumber string
}

type Session struct {
	Token string
	User  *domain.User
}

func (s *AuthSvc) ensureUnique(ctx context.Context, username, email string) error {
	taken, err := s.repo.Exists(ctx, "username", username, 0)
	if err != nil {
		return err
	}
	if taken {
		return apperr.New(apperr.Conflict, "username already exists")
	}
	if taken, err = s.repo.Exists(ctx, "email", email, 0); err != nil {
		return err
	}
	if taken {
		return apperr.New(apperr.Conflict, "email already exists")
	}
	return nil
}

func (s *AuthSvc) create(ctx context.Context, in Profile, role auth.Role, hotelID *int64) (*domain.User, error) {
	if err := s.ensureUnique(ctx, in.Username, in.Email); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "")
	}
	u := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		HotelID:      hotelID,
		FullName:     in.FullName,
		PhoneNumber:  in.PhoneNumber,
		Active:       true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("user created")
	return u, nil
}

func (s *AuthSvc) session(u *domain.User) (*Session, error) {
	p, err := u.Principal()
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "")
	}
	tok, err := s.issuer.CreateAccessToken(p)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, err, "")
	}
	return &Session{Token: tok, User: u}, nil
}

// Register creates a guest account and logs it in.
func (s *AuthSvc) Register(ctx context.Context, in Profile) (*Session, error) {
	u, err := s.create(ctx, in, auth.RoleGuest, nil)
	if err != nil {
		return nil, err
	}
	return s.session(u)
}

func (s *AuthSvc) Login(ctx context.Context, username, password string) (*Session, error) {
	u, err := s.repo.ByUsername(ctx, username)
	if apperr.Is(err, apperr.NotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if !u.Active {
		return nil, apperr.New(apperr.Unauthenticated, "user account is inactive")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, errBadCredentials
	}
	return s.session(u)
}

// CreateStaff provisions a hotel-bound MANAGER or RECEPTIONIST account.
func (s *AuthSvc) CreateStaff(ctx context.Context, p auth.Principal, in Profile, role auth.Role, hotelID *int64) (*domain.User, error) {
	if err := authz.RequireAdmin(p); err != nil {
		return nil, err
	}
	if !role.IsStaff() {
		return nil, apperr.New(apperr.Validation, "can only create MANAGER or RECEPTIONIST roles")
	}
	if hotelID == nil {
		return nil, apperr.New(apperr.Validation, "hotel id is required for manager and receptionist roles")
	}
	return s.create(ctx, in, role, hotelID)
}

func (s *AuthSvc) Me(ctx context.Context, p auth.Principal) (*domain.User, error) {
	return s.repo.ByID(ctx, p.UserID)
}

func (s *AuthSvc) UpdateUsername(ctx context.Context, p auth.Principal, username string) error {
	u, err := s.repo.ByID(ctx, p.UserID)
	if err != nil {
		return err
	}
	taken, err := s.repo.Exists(ctx, "username", username, u.ID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.New(apperr.Conflict, "Username already taken")
	}
	u.Username = username
	return s.repo.Save(ctx, u)
}

func (s *AuthSvc) ChangePassword(ctx context.Context, p auth.Principal, oldPassword, newPassword string) error {
	u, err := s.repo.ByID(ctx, p.UserID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)) != nil {
		return apperr.New(apperr.Validation, "old password doesn't match")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return apperr.Wrap(apperr.Internal, err, "")
	}
	u.PasswordHash = string(hash)
	return s.repo.Save(ctx, u)
}

// SeedAdmin creates the bootstrap administrator when no "admin" user exists.
func (s *AuthSvc) SeedAdmin(ctx context.Context, email, password string) error {
	_, err := s.repo.ByUsername(ctx, "admin")
	if err == nil {
		s.log.Debug("admin user already exists, skipping seeding")
		return nil
	}
	if !apperr.Is(err, apperr.NotFound) {
		return err
	}
	_, err = s.create(ctx, Profile{Username: "admin", Email: email, Password: password, FullName: "System Administrator"}, auth.RoleAdmin, nil)
	return err
}

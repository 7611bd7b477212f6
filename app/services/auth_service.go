package services

import (
	"context"

	"github.com/boofino/boofino/app/models"
	"github.com/boofino/boofino/app/repositories"
	"github.com/boofino/boofino/pkg/auth"
)

// AuthService handles registration and credential checks. Sessions are the
// controller's concern; this layer only deals with the credential store.
type AuthService struct {
	users repositories.UserStore
}

func NewAuthService(users repositories.UserStore) *AuthService {
	return &AuthService{users: users}
}

// RegisterInput carries the fields accepted at sign-up. Password length and
// confirmation are checked at the binding layer.
type RegisterInput struct {
	Fullname    string
	Username    string
	Password    string
	Phonenumber string
	ImgURL      string
}

// Register stores a new non-admin user with a zero wallet and no school.
// Returns repositories.ErrUsernameTaken on a duplicate username.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Fullname:     in.Fullname,
		Username:     in.Username,
		PasswordHash: hash,
		PhoneNumber:  in.Phonenumber,
		ImgURL:       in.ImgURL,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies the username/password pair. The two failure modes stay
// distinct so the client can show different messages:
// repositories.ErrUserNotFound for an unknown username, ErrWrongPassword
// for a bad password.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrWrongPassword
	}
	return u, nil
}

package services

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"jamaahmart/internal/domain"
	"jamaahmart/internal/repos"
)

var ErrBadCreds = errors.New("invalid email or password")

type AuthService struct {
	Users    *repos.UserRepo
	Sessions *SessionStore
}

func (s *AuthService) Login(ctx context.Context, sid, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(ctx, email)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(ctx, sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// Logout unbinds the user and forgets the browsing session, so the cart and
// any checkout in progress go with the login.
func (s *AuthService) Logout(ctx context.Context, sid string) error {
	if s.Sessions != nil {
		s.Sessions.Drop(sid)
	}
	return s.Users.UnbindSession(ctx, sid)
}

func (s *AuthService) CurrentUser(ctx context.Context, sid string) (*domain.User, error) {
	return s.Users.SessionUser(ctx, sid)
}

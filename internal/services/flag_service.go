package services

import (
	"context"
	"errors"
	"time"

	"jamaahmart/internal/repos"
	"jamaahmart/internal/validate"
)

var ErrBadFlag = errors.New("invalid flag name")

// FlagService keeps per-user "already seen" markers on the server, so a shopper
// sees the payment instructions once per account rather than once per browser.
type FlagService struct {
	Repo *repos.UserFlagRepo
	Now  func() time.Time
}

func NewFlagService(r *repos.UserFlagRepo) *FlagService { return &FlagService{Repo: r, Now: time.Now} }

// Get returns the set flags as a name → set-at map.
func (s *FlagService) Get(ctx context.Context, userID string) (map[string]time.Time, error) {
	rows, err := s.Repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]time.Time, len(rows))
	for _, r := range rows {
		out[r.Flag] = r.SetAt
	}
	return out, nil
}

func (s *FlagService) Set(ctx context.Context, userID, flag string) error {
	flag, ok := validate.Flag(flag)
	if !ok {
		return ErrBadFlag
	}
	return s.Repo.Set(ctx, userID, flag, s.Now())
}

func (s *FlagService) Clear(ctx context.Context, userID, flag string) error {
	flag, ok := validate.Flag(flag)
	if !ok {
		return ErrBadFlag
	}
	return s.Repo.Clear(ctx, userID, flag)
}

package repos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// UserFlagRepo stores one-shot per-user markers such as "payment info seen".
type UserFlagRepo struct{ db *sqlx.DB }

func NewUserFlagRepo(db *sqlx.DB) *UserFlagRepo { return &UserFlagRepo{db: db} }

type UserFlag struct {
	Flag  string    `db:"flag" json:"flag"`
	SetAt time.Time `db:"set_at" json:"setAt"`
}

func (r *UserFlagRepo) Set(ctx context.Context, userID, flag string, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
	  INSERT INTO user_flags(user_id, flag, set_at)
	  VALUES(?, ?, ?)
	  ON CONFLICT(user_id, flag) DO NOTHING
	`, userID, flag, now.UTC())
	return err
}

func (r *UserFlagRepo) Clear(ctx context.Context, userID, flag string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_flags WHERE user_id=? AND flag=?`, userID, flag)
	return err
}

func (r *UserFlagRepo) List(ctx context.Context, userID string) ([]UserFlag, error) {
	out := []UserFlag{}
	err := r.db.SelectContext(ctx, &out, `
	  SELECT flag, set_at
	  FROM user_flags
	  WHERE user_id = ?
	  ORDER BY flag
	`, userID)
	return out, err
}

package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jamaahmart/internal/repos"
	"jamaahmart/internal/services"
)

func TestAuthAndFlags(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	ctx := context.Background()

	auth := &services.AuthService{Users: repos.NewUserRepo(db)}
	_, err = auth.Login(ctx, "sid-9", "budi@jamaahmart.test", "wrong")
	assert.ErrorIs(t, err, services.ErrBadCreds)

	u, err := auth.Login(ctx, "sid-9", "budi@jamaahmart.test", "Passw0rd!")
	require.NoError(t, err)
	cur, err := auth.CurrentUser(ctx, "sid-9")
	require.NoError(t, err)
	assert.Equal(t, u.ID, cur.ID)

	flags := services.NewFlagService(repos.NewUserFlagRepo(db))
	assert.ErrorIs(t, flags.Set(ctx, u.ID, "Bad Flag"), services.ErrBadFlag)
	require.NoError(t, flags.Set(ctx, u.ID, "payment_info_seen"))

	got, err := flags.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Contains(t, got, "payment_info_seen")

	require.NoError(t, flags.Clear(ctx, u.ID, "payment_info_seen"))
	got, err = flags.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, auth.Logout(ctx, "sid-9"))
	_, err = auth.CurrentUser(ctx, "sid-9")
	assert.Error(t, err)
}

func TestLogoutDropsBrowsingSession(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	ctx := context.Background()

	sessions := services.NewSessionStore()
	auth := &services.AuthService{Users: repos.NewUserRepo(db), Sessions: sessions}
	carts := services.NewCartService(sessions, services.NewCatalogService(repos.NewCatalogRepo(db), repos.NewCategoryRepo(db), nil))

	_, err = auth.Login(ctx, "sid-9", "budi@jamaahmart.test", "Passw0rd!")
	require.NoError(t, err)
	_, err = carts.Add(ctx, "sid-9", "sajadah-001")
	require.NoError(t, err)
	_, err = carts.Add(ctx, "sid-other", "sajadah-001")
	require.NoError(t, err)
	require.Equal(t, 2, sessions.Len())

	require.NoError(t, auth.Logout(ctx, "sid-9"))
	assert.False(t, sessions.Peek("sid-9", func(*services.Session) {}))
	assert.True(t, sessions.Peek("sid-other", func(*services.Session) {}))
	_, err = auth.CurrentUser(ctx, "sid-9")
	assert.Error(t, err)

	view, err := carts.View(ctx, "sid-9")
	require.NoError(t, err)
	assert.Zero(t, view.TotalItemCount)
}

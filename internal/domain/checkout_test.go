package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jamaahmart/internal/domain"
)

func TestCheckoutPayload_EmptyCart(t *testing.T) {
	catalog := domain.NewCatalog([]domain.CatalogItem{item("a", 1, 1)})

	p, err := domain.NewCheckoutPayload(domain.NewCart(), catalog, time.Now())
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Nil(t, p)

	p, err = domain.NewCheckoutPayload(nil, catalog, time.Now())
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Nil(t, p)
}

func TestCheckoutPayload_MatchesCartTotal(t *testing.T) {
	a, b := item("a", 150000, 5), item("b", 50000, 5)
	catalog := domain.NewCatalog([]domain.CatalogItem{b, a})
	c := domain.NewCart()
	require.NoError(t, c.Add(a))
	require.NoError(t, c.Add(a))
	require.NoError(t, c.Add(b))

	now := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	p, err := domain.NewCheckoutPayload(c, catalog, now)
	require.NoError(t, err)

	assert.Equal(t, c.TotalAmount(catalog), p.TotalAmount())
	assert.Equal(t, int64(350000), p.TotalAmount())
	assert.Equal(t, 3, p.ItemCount())
	assert.Equal(t, now, p.CreatedAt())

	lines := p.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "b", lines[0].Item.ID, "catalog order is kept")
	assert.Equal(t, int64(300000), lines[1].Subtotal())
}

func TestCheckoutPayload_IsFrozen(t *testing.T) {
	a := item("a", 1000, 5)
	catalog := domain.NewCatalog([]domain.CatalogItem{a})
	c := domain.NewCart()
	require.NoError(t, c.Add(a))

	p, err := domain.NewCheckoutPayload(c, catalog, time.Now())
	require.NoError(t, err)

	require.NoError(t, c.Add(a))
	lines := p.Lines()
	lines[0].Quantity = 99

	assert.Equal(t, 1, p.Lines()[0].Quantity)
	assert.Equal(t, int64(1000), p.TotalAmount())
}

func TestCheckoutPayload_DropsItemsGoneFromCatalog(t *testing.T) {
	a := item("a", 1000, 5)
	c := domain.NewCart()
	require.NoError(t, c.Add(a))

	_, err := domain.NewCheckoutPayload(c, domain.NewCatalog(nil), time.Now())
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

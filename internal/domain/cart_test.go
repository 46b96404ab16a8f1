package domain_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jamaahmart/internal/domain"
)

func item(id string, price int64, stock int) domain.CatalogItem {
	return domain.CatalogItem{ID: id, Name: "Item " + id, Price: price, Stock: stock,
		Category: domain.CategoryEquipment, Status: domain.ItemActive}
}

func TestCart_AddRemove(t *testing.T) {
	c := domain.NewCart()
	a := item("a", 150000, 3)

	require.NoError(t, c.Add(a))
	require.NoError(t, c.Add(a))
	assert.Equal(t, 2, c.Quantity("a"))
	assert.Equal(t, 2, c.TotalItemCount())

	c.Remove("a")
	assert.Equal(t, 1, c.Quantity("a"))
	c.Remove("a")
	assert.False(t, c.Has("a"), "last unit removes the entry")
	assert.True(t, c.IsEmpty())

	c.Remove("missing")
	assert.True(t, c.IsEmpty())
}

func TestCart_StockCeiling(t *testing.T) {
	c := domain.NewCart()
	a := item("a", 150000, 1)

	require.NoError(t, c.Add(a))
	err := c.Add(a)
	assert.ErrorIs(t, err, domain.ErrStockCeiling)
	assert.Equal(t, 1, c.Quantity("a"))

	zero := item("z", 1000, 0)
	assert.ErrorIs(t, c.Add(zero), domain.ErrStockCeiling)
	assert.False(t, c.Has("z"))
}

func TestCart_InactiveItemRejected(t *testing.T) {
	c := domain.NewCart()
	off := item("off", 1000, 5)
	off.Status = domain.ItemInactive
	assert.ErrorIs(t, c.Add(off), domain.ErrItemUnavailable)
	assert.True(t, c.IsEmpty())
}

func TestCart_TotalAmount(t *testing.T) {
	a, b := item("a", 150000, 5), item("b", 50000, 5)
	catalog := domain.NewCatalog([]domain.CatalogItem{a, b})

	c := domain.NewCart()
	require.NoError(t, c.Add(a))
	require.NoError(t, c.Add(a))
	require.NoError(t, c.Add(b))
	assert.Equal(t, int64(350000), c.TotalAmount(catalog))

	// b disappeared from the catalog: contributes nothing
	onlyA := domain.NewCatalog([]domain.CatalogItem{a})
	assert.Equal(t, int64(300000), c.TotalAmount(onlyA))
	assert.Equal(t, 3, c.TotalItemCount())
}

func TestCart_RandomSequencesStayConsistent(t *testing.T) {
	items := []domain.CatalogItem{item("a", 10, 2), item("b", 25, 5), item("c", 7, 0), item("d", 99, 1)}
	catalog := domain.NewCatalog(items)
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 50; run++ {
		c := domain.NewCart()
		for step := 0; step < 200; step++ {
			it := items[rng.Intn(len(items))]
			if rng.Intn(3) == 0 {
				c.Remove(it.ID)
			} else {
				_ = c.Add(it)
			}

			sum, amount := 0, int64(0)
			for _, e := range c.Entries() {
				ref, _ := catalog.Lookup(e.ItemID)
				require.Positive(t, e.Quantity)
				require.LessOrEqual(t, e.Quantity, ref.Stock)
				sum += e.Quantity
				amount += ref.Price * int64(e.Quantity)
			}
			require.Equal(t, sum, c.TotalItemCount())
			require.Equal(t, amount, c.TotalAmount(catalog))
		}
	}
}

func TestCart_EntriesSorted(t *testing.T) {
	c := domain.NewCart()
	require.NoError(t, c.Add(item("b", 1, 1)))
	require.NoError(t, c.Add(item("a", 1, 1)))
	assert.Equal(t, []domain.CartEntry{{ItemID: "a", Quantity: 1}, {ItemID: "b", Quantity: 1}}, c.Entries())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

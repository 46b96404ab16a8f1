package domain

import "time"

type Category string

const (
	CategoryEquipment Category = "equipment"
	CategorySouvenir  Category = "souvenir"
	CategoryFood      Category = "food"
	CategoryOther     Category = "other"
)

var Categories = []Category{CategoryEquipment, CategorySouvenir, CategoryFood, CategoryOther}

func (c Category) Valid() bool {
	for _, x := range Categories {
		if c == x {
			return true
		}
	}
	return false
}

type ItemStatus string

const (
	ItemActive   ItemStatus = "active"
	ItemInactive ItemStatus = "inactive"
)

// CatalogItem is a marketplace article. Price is in rupiah (no minor unit).
type CatalogItem struct {
	ID          string     `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Description string     `db:"description" json:"description"`
	Price       int64      `db:"price" json:"price"`
	Stock       int        `db:"stock" json:"stock"`
	Category    Category   `db:"category" json:"category"`
	Status      ItemStatus `db:"status" json:"status"`
	Image       string     `db:"image" json:"image,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

func (i CatalogItem) Active() bool { return i.Status == ItemActive }

type CategoryCount struct {
	Category Category `db:"category" json:"category"`
	Count    int      `db:"n" json:"count"`
}

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty,omitempty"`
}

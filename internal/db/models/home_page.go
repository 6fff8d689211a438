package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Sort keys accepted for an expanded collection.
const (
	SortKeyBestSelling = "BEST_SELLING"
	SortKeyPrice       = "PRICE"
	SortKeyRelevance   = "RELEVANCE"
	SortKeyTitle       = "TITLE"
)

// HomePageConfiguration holds the home screen content of a shop's mobile app.
type HomePageConfiguration struct {
	ID       uint64 `gorm:"primaryKey"`
	ShopName string `gorm:"size:255;uniqueIndex;not null"`

	// HeroBanners are image URLs, TopCollections collection ids. Both are JSON arrays in the column.
	HeroBanners    datatypes.JSONSlice[string]
	TopCollections datatypes.JSONSlice[string]

	PrimaryProductList                 string `gorm:"size:255"`
	PrimaryProductListSortKey          string `gorm:"size:20"`
	PrimaryProductListSortKeyReverse   bool
	SecondaryProductList               string `gorm:"size:255"`
	SecondaryProductListSortKey        string `gorm:"size:20"`
	SecondaryProductListSortKeyReverse bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetShopName implements ShopRecord.
func (h *HomePageConfiguration) GetShopName() string { return h.ShopName }

// SetShopName implements ShopRecord.
func (h *HomePageConfiguration) SetShopName(name string) { h.ShopName = name }

// UpdatableColumns implements ShopRecord.
func (h *HomePageConfiguration) UpdatableColumns() []string {
	return []string{
		"hero_banners",
		"top_collections",
		"primary_product_list",
		"primary_product_list_sort_key",
		"primary_product_list_sort_key_reverse",
		"secondary_product_list",
		"secondary_product_list_sort_key",
		"secondary_product_list_sort_key_reverse",
		"updated_at",
	}
}

// Lists returns the banner and collection lists, never nil.
func (h *HomePageConfiguration) Lists() (heroBanners, topCollections []string) {
	return nonNil(h.HeroBanners), nonNil(h.TopCollections)
}

// BeforeSave stores empty lists as [] instead of null.
func (h *HomePageConfiguration) BeforeSave(_ *gorm.DB) error {
	h.HeroBanners = nonNil(h.HeroBanners)
	h.TopCollections = nonNil(h.TopCollections)

	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}

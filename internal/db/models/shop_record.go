// Package models contains database model definitions.
package models

// ShopRecord is a row that exists at most once per shop.
// The shop_name column carries a unique index, upserts conflict on it.
type ShopRecord interface {
	GetShopName() string
	SetShopName(name string)
	// UpdatableColumns lists the columns overwritten when the row already exists.
	UpdatableColumns() []string
}

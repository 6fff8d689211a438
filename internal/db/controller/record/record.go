// Package record provides the per-shop persistence primitives shared by all configuration records.
package record

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mobile-app-connector/mobile-app-connector/internal/db/models"
)

// ShopNameQuery selects the rows of one shop.
const ShopNameQuery = "shop_name = ?"

var (
	// ErrNotFound is returned when no row exists for the shop.
	ErrNotFound = errors.New("record not found")
	// ErrShopNameEmpty is returned when the shop name is missing.
	ErrShopNameEmpty = errors.New("shop name cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Shop is the type constraint of the primitives: a pointer to a model implementing models.ShopRecord.
type Shop[T any] interface {
	*T
	models.ShopRecord
}

// Upsert inserts rec for shopName or, if the shop already has a row, overwrites its updatable columns.
// The stored row is read back and returned. created reports whether a new row was inserted.
func Upsert[T any, PT Shop[T]](db *gorm.DB, shopName string, rec PT) (stored PT, created bool, err error) {
	if db == nil {
		return nil, false, ErrDBNil
	}

	if shopName == "" {
		return nil, false, ErrShopNameEmpty
	}

	rec.SetShopName(shopName)

	err = db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if cErr := tx.Model(PT(new(T))).Where(ShopNameQuery, shopName).Count(&existing).Error; cErr != nil {
			return cErr
		}

		created = existing == 0

		if cErr := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "shop_name"}},
			DoUpdates: clause.AssignmentColumns(rec.UpdatableColumns()),
		}).Create(rec).Error; cErr != nil {
			return cErr
		}

		stored = PT(new(T))

		return tx.Where(ShopNameQuery, shopName).First(stored).Error
	})
	if err != nil {
		return nil, false, pkgerrors.Wrapf(err, "upsert %T for shop %s", rec, shopName)
	}

	return stored, created, nil
}

// Get returns the row of shopName.
func Get[T any, PT Shop[T]](db *gorm.DB, shopName string) (PT, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if shopName == "" {
		return nil, ErrShopNameEmpty
	}

	out := PT(new(T))

	err := db.Where(ShopNameQuery, shopName).First(out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, pkgerrors.Wrapf(err, "get %T for shop %s", out, shopName)
	}

	return out, nil
}

// Exists reports whether shopName has a row of the given kind.
func Exists[T any, PT Shop[T]](db *gorm.DB, shopName string) (bool, error) {
	if db == nil {
		return false, ErrDBNil
	}

	if shopName == "" {
		return false, ErrShopNameEmpty
	}

	var n int64
	if err := db.Model(PT(new(T))).Where(ShopNameQuery, shopName).Count(&n).Error; err != nil {
		return false, pkgerrors.Wrapf(err, "count %T for shop %s", PT(new(T)), shopName)
	}

	return n > 0, nil
}

// DeleteByShop removes every row of shopName and returns how many were removed.
func DeleteByShop[T any, PT Shop[T]](db *gorm.DB, shopName string) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	if shopName == "" {
		return 0, ErrShopNameEmpty
	}

	result := db.Where(ShopNameQuery, shopName).Delete(PT(new(T)))
	if result.Error != nil {
		return 0, pkgerrors.Wrapf(result.Error, "delete %T for shop %s", PT(new(T)), shopName)
	}

	return result.RowsAffected, nil
}

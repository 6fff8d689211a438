// Package homepage loads and saves the home page configuration of a shop.
package homepage

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mobile-app-connector/mobile-app-connector/internal/db/controller/record"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/models"
)

const (
	// MaxHeroBanners is the number of banner images the app shows.
	MaxHeroBanners = 4
	// MaxTopCollections is the number of collections in the top row.
	MaxTopCollections = 10
)

// SortKeys lists the accepted expanded collection sort keys in display order.
var SortKeys = []string{ //nolint:gochecknoglobals
	models.SortKeyBestSelling,
	models.SortKeyPrice,
	models.SortKeyRelevance,
	models.SortKeyTitle,
}

// Form is the home page form.
type Form struct {
	HeroBanners    []string `form:"heroBanners"    json:"heroBanners"    validate:"max=4,dive,url"`
	TopCollections []string `form:"topCollections" json:"topCollections" validate:"max=10,dive,required"`

	PrimaryProductList                 string `form:"primaryProductList"                 json:"primaryProductList"                 validate:"required"`
	PrimaryProductListSortKey          string `form:"primaryProductListSortKey"          json:"primaryProductListSortKey"          validate:"required,oneof=BEST_SELLING PRICE RELEVANCE TITLE"`
	PrimaryProductListSortKeyReverse   bool   `form:"primaryProductListSortKeyReverse"   json:"primaryProductListSortKeyReverse"`
	SecondaryProductList               string `form:"secondaryProductList"               json:"secondaryProductList"               validate:"required"`
	SecondaryProductListSortKey        string `form:"secondaryProductListSortKey"        json:"secondaryProductListSortKey"        validate:"required,oneof=BEST_SELLING PRICE RELEVANCE TITLE"`
	SecondaryProductListSortKeyReverse bool   `form:"secondaryProductListSortKeyReverse" json:"secondaryProductListSortKeyReverse"`
}

// Load fills the form from the stored home page of shopName.
func (f *Form) Load(db *gorm.DB, shopName string) error {
	h, err := record.Get[models.HomePageConfiguration](db, shopName)
	if err != nil {
		return err
	}

	banners, collections := h.Lists()

	*f = Form{
		HeroBanners:                        banners,
		TopCollections:                     collections,
		PrimaryProductList:                 h.PrimaryProductList,
		PrimaryProductListSortKey:          h.PrimaryProductListSortKey,
		PrimaryProductListSortKeyReverse:   h.PrimaryProductListSortKeyReverse,
		SecondaryProductList:               h.SecondaryProductList,
		SecondaryProductListSortKey:        h.SecondaryProductListSortKey,
		SecondaryProductListSortKeyReverse: h.SecondaryProductListSortKeyReverse,
	}

	return nil
}

// Save creates or updates the home page of shopName. created is true for a new row.
func (f *Form) Save(db *gorm.DB, shopName string) (created bool, err error) {
	_, created, err = record.Upsert(db, shopName, &models.HomePageConfiguration{
		HeroBanners:                        f.HeroBanners,
		TopCollections:                     f.TopCollections,
		PrimaryProductList:                 f.PrimaryProductList,
		PrimaryProductListSortKey:          f.PrimaryProductListSortKey,
		PrimaryProductListSortKeyReverse:   f.PrimaryProductListSortKeyReverse,
		SecondaryProductList:               f.SecondaryProductList,
		SecondaryProductListSortKey:        f.SecondaryProductListSortKey,
		SecondaryProductListSortKeyReverse: f.SecondaryProductListSortKeyReverse,
	})

	return created, err
}

// StoredHeroBanners returns the banners currently saved for shopName, empty if there is no home page yet.
func StoredHeroBanners(db *gorm.DB, shopName string) ([]string, error) {
	h, err := record.Get[models.HomePageConfiguration](db, shopName)
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return []string{}, nil
		}

		return nil, err
	}

	banners, _ := h.Lists()

	return banners, nil
}

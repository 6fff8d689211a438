// Package configuration assembles and deletes the complete mobile app configuration of a shop.
package configuration

import (
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/mobile-app-connector/mobile-app-connector/internal/db/controller/record"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/models"
)

var (
	// ErrNotFound is returned when the shop has no setup.
	ErrNotFound = errors.New("no configuration found for shop")
	// ErrConflict is returned when the setup should go but a child configuration should stay.
	ErrConflict = errors.New("cannot delete customer setup while keeping other configurations")
)

type (
	// Merged is the configuration of one shop as the mobile app reads it.
	Merged struct {
		ID                             uint64    `json:"id"`
		ShopName                       string    `json:"shopName"`
		CompanyName                    string    `json:"companyName"`
		CustomerEmail                  string    `json:"customerEmail"`
		CustomerPhoneNumberCountryCode string    `json:"customerPhoneNumberCountryCode"`
		CustomerPhoneNumber            string    `json:"customerPhoneNumber"`
		AppName                        string    `json:"appName"`
		CreatedAt                      time.Time `json:"createdAt"`
		UpdatedAt                      time.Time `json:"updatedAt"`

		// ThemeConfigurations is the first theme of the shop, omitted without one.
		ThemeConfigurations   *Theme   `json:"themeConfigurations,omitempty"`
		HomePageConfiguration HomePage `json:"homePageConfiguration"`
	}

	// Theme is the theme part of Merged.
	Theme struct {
		ID                    uint64    `json:"id"`
		ShopName              string    `json:"shopName"`
		ThemeCode             string    `json:"themeCode"`
		PrimaryColor          string    `json:"primaryColor"`
		SecondaryColor        string    `json:"secondaryColor"`
		BackgroundColor       string    `json:"backgroundColor"`
		ButtonColor           string    `json:"buttonColor"`
		AppBarBackgroundColor string    `json:"appBarBackgroundColor"`
		ButtonRadius          string    `json:"buttonRadius"`
		EdgePadding           string    `json:"edgePadding"`
		SplashScreenWidth     string    `json:"splashScreenWidth"`
		CreatedAt             time.Time `json:"createdAt"`
		UpdatedAt             time.Time `json:"updatedAt"`
	}

	// HomePage is the home page part of Merged. Lists are never null.
	HomePage struct {
		HeroBanners          []string     `json:"heroBanners"`
		TopCollections       []string     `json:"topCollections"`
		PrimaryProductList   *ProductList `json:"primaryProductList,omitempty"`
		SecondaryProductList *ProductList `json:"secondaryProductList,omitempty"`
	}

	// ProductList is an expanded collection.
	// List holds a single collection id; the mobile app reads it under this name.
	ProductList struct {
		List    string `json:"list"`
		SortKey string `json:"sortKey"`
		Reverse bool   `json:"reverse"`
	}
)

// Get loads the setup of shopName with its first theme and its home page.
func Get(db *gorm.DB, shopName string) (*Merged, error) {
	if db == nil {
		return nil, record.ErrDBNil
	}

	if shopName == "" {
		return nil, record.ErrShopNameEmpty
	}

	var s models.Setup

	err := db.
		Preload("Themes", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).
		Preload("HomePage").
		Where(record.ShopNameQuery, shopName).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, pkgerrors.Wrapf(err, "load configuration of shop %s", shopName)
	}

	return merge(&s), nil
}

func merge(s *models.Setup) *Merged {
	out := &Merged{
		ID:                             s.ID,
		ShopName:                       s.ShopName,
		CompanyName:                    s.CompanyName,
		CustomerEmail:                  s.CustomerEmail,
		CustomerPhoneNumberCountryCode: s.CustomerPhoneNumberCountryCode,
		CustomerPhoneNumber:            s.CustomerPhoneNumber,
		AppName:                        s.AppName,
		CreatedAt:                      s.CreatedAt,
		UpdatedAt:                      s.UpdatedAt,
		HomePageConfiguration: HomePage{
			HeroBanners:    []string{},
			TopCollections: []string{},
		},
	}

	if len(s.Themes) > 0 {
		t := s.Themes[0]
		out.ThemeConfigurations = &Theme{
			ID:                    t.ID,
			ShopName:              t.ShopName,
			ThemeCode:             t.ThemeCode,
			PrimaryColor:          t.PrimaryColor,
			SecondaryColor:        t.SecondaryColor,
			BackgroundColor:       t.BackgroundColor,
			ButtonColor:           t.ButtonColor,
			AppBarBackgroundColor: t.AppBarBackgroundColor,
			ButtonRadius:          t.ButtonRadius,
			EdgePadding:           t.EdgePadding,
			SplashScreenWidth:     t.SplashScreenWidth,
			CreatedAt:             t.CreatedAt,
			UpdatedAt:             t.UpdatedAt,
		}
	}

	if h := s.HomePage; h != nil {
		out.HomePageConfiguration.HeroBanners, out.HomePageConfiguration.TopCollections = h.Lists()
		out.HomePageConfiguration.PrimaryProductList = &ProductList{
			List:    h.PrimaryProductList,
			SortKey: h.PrimaryProductListSortKey,
			Reverse: h.PrimaryProductListSortKeyReverse,
		}
		out.HomePageConfiguration.SecondaryProductList = &ProductList{
			List:    h.SecondaryProductList,
			SortKey: h.SecondaryProductListSortKey,
			Reverse: h.SecondaryProductListSortKeyReverse,
		}
	}

	return out
}

package configuration_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mobile-app-connector/mobile-app-connector/internal/db/controller/configuration"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/controller/homepage"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/controller/record"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/controller/setup"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/controller/theme"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/dbtest"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/models"
)

// seedShop stores a setup and, when asked, a theme and a home page for shop.
func seedShop(t *testing.T, db *gorm.DB, shop string, withTheme, withHomePage bool) {
	t.Helper()

	s := setup.Form{
		CompanyName:                    "Acme",
		CustomerEmail:                  "ops@acme.test",
		CustomerPhoneNumberCountryCode: "+1",
		CustomerPhoneNumber:            "5551234567",
		AppName:                        "Acme Shop",
	}
	_, err := s.Save(db, shop)
	require.NoError(t, err)

	if withTheme {
		th := theme.Default()
		th.ThemeCode = "dark"
		th.PrimaryColor = "#112233"
		_, err = th.Save(db, shop)
		require.NoError(t, err)
	}

	if withHomePage {
		h := homepage.Form{
			HeroBanners:                        []string{"https://x/a.png"},
			TopCollections:                     []string{"gid://1"},
			PrimaryProductList:                 "gid://1",
			PrimaryProductListSortKey:          models.SortKeyTitle,
			SecondaryProductList:               "gid://2",
			SecondaryProductListSortKey:        models.SortKeyPrice,
			SecondaryProductListSortKeyReverse: true,
		}
		_, err = h.Save(db, shop)
		require.NoError(t, err)
	}
}

func count(t *testing.T, db *gorm.DB, model any, shop string) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(model).Where(record.ShopNameQuery, shop).Count(&n).Error)

	return n
}

func TestGet(t *testing.T) {
	db := dbtest.Open(t)

	_, err := configuration.Get(db, "shop-a")
	require.ErrorIs(t, err, configuration.ErrNotFound)

	_, err = configuration.Get(db, "")
	require.ErrorIs(t, err, record.ErrShopNameEmpty)

	_, err = configuration.Get(nil, "shop-a")
	require.ErrorIs(t, err, record.ErrDBNil)

	seedShop(t, db, "shop-a", true, true)

	got, err := configuration.Get(db, "shop-a")
	require.NoError(t, err)

	assert.Equal(t, "shop-a", got.ShopName)
	assert.Equal(t, "Acme", got.CompanyName)
	require.NotNil(t, got.ThemeConfigurations)
	assert.Equal(t, "dark", got.ThemeConfigurations.ThemeCode)
	assert.Equal(t, "#112233", got.ThemeConfigurations.PrimaryColor)

	hp := got.HomePageConfiguration
	assert.Equal(t, []string{"https://x/a.png"}, hp.HeroBanners)
	assert.Equal(t, []string{"gid://1"}, hp.TopCollections)
	require.NotNil(t, hp.PrimaryProductList)
	assert.Equal(t, configuration.ProductList{List: "gid://1", SortKey: "TITLE"}, *hp.PrimaryProductList)
	require.NotNil(t, hp.SecondaryProductList)
	assert.Equal(t, configuration.ProductList{List: "gid://2", SortKey: "PRICE", Reverse: true}, *hp.SecondaryProductList)
}

func TestGetWireShape(t *testing.T) {
	db := dbtest.Open(t)
	seedShop(t, db, "shop-a", true, true)

	got, err := configuration.Get(db, "shop-a")
	require.NoError(t, err)

	b, err := json.Marshal(got)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(b, &wire))

	assert.Equal(t, "Acme", wire["companyName"])
	assert.Equal(t, "dark", wire["themeConfigurations"].(map[string]any)["themeCode"])

	hp := wire["homePageConfiguration"].(map[string]any)
	assert.Equal(t, []any{"https://x/a.png"}, hp["heroBanners"])
	assert.Equal(t, map[string]any{"list": "gid://1", "sortKey": "TITLE", "reverse": false}, hp["primaryProductList"])
}

func TestGetSetupOnly(t *testing.T) {
	db := dbtest.Open(t)
	seedShop(t, db, "shop-a", false, false)

	got, err := configuration.Get(db, "shop-a")
	require.NoError(t, err)

	assert.Nil(t, got.ThemeConfigurations)
	assert.Equal(t, []string{}, got.HomePageConfiguration.HeroBanners)
	assert.Equal(t, []string{}, got.HomePageConfiguration.TopCollections)
	assert.Nil(t, got.HomePageConfiguration.PrimaryProductList)
	assert.Nil(t, got.HomePageConfiguration.SecondaryProductList)

	b, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"homePageConfiguration":{"heroBanners":[],"topCollections":[]}`)
	assert.NotContains(t, string(b), "themeConfigurations")
}

func TestGetFirstTheme(t *testing.T) {
	db := dbtest.Open(t)
	seedShop(t, db, "shop-a", true, false)

	// a second row can only exist if it was written around the upsert
	require.NoError(t, db.Exec("DROP INDEX IF EXISTS idx_theme_configurations_shop_name").Error)
	require.NoError(t, db.Create(&models.ThemeConfiguration{ShopName: "shop-a", ThemeCode: "second"}).Error)

	got, err := configuration.Get(db, "shop-a")
	require.NoError(t, err)
	assert.Equal(t, "dark", got.ThemeConfigurations.ThemeCode)
}

func TestDelete(t *testing.T) {
	type want struct {
		err      error
		result   *configuration.DeleteResult
		setup    int64
		theme    int64
		homePage int64
	}

	testCases := []struct {
		name     string
		theme    bool
		homePage bool
		opts     configuration.DeleteOptions
		want     want
	}{
		{
			name:     "delete all",
			theme:    true,
			homePage: true,
			opts:     configuration.DeleteOptions{DeleteAll: true},
			want: want{
				result: &configuration.DeleteResult{HomePageConfiguration: true, ThemeConfigurations: true, CustomerSetup: true},
			},
		},
		{
			name: "delete all without children",
			opts: configuration.DeleteOptions{DeleteAll: true},
			want: want{result: &configuration.DeleteResult{CustomerSetup: true}},
		},
		{
			name:     "home page only",
			theme:    true,
			homePage: true,
			opts:     configuration.DeleteOptions{DeleteHomePageConfiguration: true},
			want: want{
				result: &configuration.DeleteResult{HomePageConfiguration: true},
				setup:  1, theme: 1,
			},
		},
		{
			name:     "theme only",
			theme:    true,
			homePage: true,
			opts:     configuration.DeleteOptions{DeleteThemeConfigurations: true},
			want: want{
				result: &configuration.DeleteResult{ThemeConfigurations: true},
				setup:  1, homePage: 1,
			},
		},
		{
			name:  "requested child not present",
			theme: true,
			opts:  configuration.DeleteOptions{DeleteHomePageConfiguration: true},
			want: want{
				result: &configuration.DeleteResult{},
				setup:  1, theme: 1,
			},
		},
		{
			name:     "setup and theme conflict",
			theme:    true,
			homePage: true,
			opts:     configuration.DeleteOptions{DeleteCustomerSetup: true, DeleteThemeConfigurations: true},
			want: want{
				err:    configuration.ErrConflict,
				result: &configuration.DeleteResult{ThemeConfigurations: true},
				setup:  1, homePage: 1,
			},
		},
		{
			name:     "setup and home page conflict",
			theme:    true,
			homePage: true,
			opts:     configuration.DeleteOptions{DeleteCustomerSetup: true, DeleteHomePageConfiguration: true},
			want: want{
				err:    configuration.ErrConflict,
				result: &configuration.DeleteResult{HomePageConfiguration: true},
				setup:  1, theme: 1,
			},
		},
		{
			name:     "setup alone takes the children along",
			theme:    true,
			homePage: true,
			opts:     configuration.DeleteOptions{DeleteCustomerSetup: true},
			want: want{
				result: &configuration.DeleteResult{HomePageConfiguration: true, ThemeConfigurations: true, CustomerSetup: true},
			},
		},
		{
			name:     "no options",
			theme:    true,
			homePage: true,
			want: want{
				result: &configuration.DeleteResult{},
				setup:  1, theme: 1, homePage: 1,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db := dbtest.Open(t)
			seedShop(t, db, "shop-a", tc.theme, tc.homePage)
			seedShop(t, db, "shop-b", true, true)

			res, err := configuration.Delete(db, "shop-a", tc.opts)
			if tc.want.err != nil {
				require.ErrorIs(t, err, tc.want.err)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tc.want.result, res)
			assert.Equal(t, tc.want.setup, count(t, db, &models.Setup{}, "shop-a"), "setup rows")
			assert.Equal(t, tc.want.theme, count(t, db, &models.ThemeConfiguration{}, "shop-a"), "theme rows")
			assert.Equal(t, tc.want.homePage, count(t, db, &models.HomePageConfiguration{}, "shop-a"), "home page rows")

			// other shops are untouched
			assert.Equal(t, int64(1), count(t, db, &models.Setup{}, "shop-b"))
			assert.Equal(t, int64(1), count(t, db, &models.ThemeConfiguration{}, "shop-b"))
			assert.Equal(t, int64(1), count(t, db, &models.HomePageConfiguration{}, "shop-b"))
		})
	}
}

func TestDeleteAllThenGet(t *testing.T) {
	db := dbtest.Open(t)
	seedShop(t, db, "shop-a", true, true)

	_, err := configuration.Delete(db, "shop-a", configuration.DeleteOptions{DeleteAll: true})
	require.NoError(t, err)

	_, err = configuration.Get(db, "shop-a")
	require.ErrorIs(t, err, configuration.ErrNotFound)
}

func TestDeleteErrors(t *testing.T) {
	db := dbtest.Open(t)

	_, err := configuration.Delete(db, "missing", configuration.DeleteOptions{DeleteAll: true})
	require.ErrorIs(t, err, configuration.ErrNotFound)

	_, err = configuration.Delete(db, "", configuration.DeleteOptions{})
	require.ErrorIs(t, err, record.ErrShopNameEmpty)

	_, err = configuration.Delete(nil, "shop-a", configuration.DeleteOptions{})
	require.ErrorIs(t, err, record.ErrDBNil)
}

// Package theme loads and saves the theme configuration of a shop.
package theme

import (
	"gorm.io/gorm"

	"github.com/mobile-app-connector/mobile-app-connector/internal/db/controller/record"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/models"
)

// Form is the theme page form. Radius, padding and splash width carry their unit.
type Form struct {
	ThemeCode             string `form:"themeCode"             json:"themeCode"             validate:"required,max=50"`
	PrimaryColor          string `form:"primaryColor"          json:"primaryColor"          validate:"required,hexcolor"`
	SecondaryColor        string `form:"secondaryColor"        json:"secondaryColor"        validate:"required,hexcolor"`
	BackgroundColor       string `form:"backgroundColor"       json:"backgroundColor"       validate:"required,hexcolor"`
	ButtonColor           string `form:"buttonColor"           json:"buttonColor"           validate:"required,hexcolor"`
	AppBarBackgroundColor string `form:"appBarBackgroundColor" json:"appBarBackgroundColor" validate:"required,hexcolor"`
	ButtonRadius          string `form:"buttonRadius"          json:"buttonRadius"          validate:"required,unit=px 0 20"`
	EdgePadding           string `form:"edgePadding"           json:"edgePadding"           validate:"required,unit=px 0 80"`
	SplashScreenWidth     string `form:"splashScreenWidth"     json:"splashScreenWidth"     validate:"required,unit=% 0 100"`
}

// Default is offered on the theme page before anything was saved.
func Default() Form {
	return Form{
		ThemeCode:             "light",
		PrimaryColor:          "#1A73E8",
		SecondaryColor:        "#5F6368",
		BackgroundColor:       "#FFFFFF",
		ButtonColor:           "#1A73E8",
		AppBarBackgroundColor: "#FFFFFF",
		ButtonRadius:          "8px",
		EdgePadding:           "16px",
		SplashScreenWidth:     "50%",
	}
}

// Load fills the form from the stored theme of shopName.
func (f *Form) Load(db *gorm.DB, shopName string) error {
	t, err := record.Get[models.ThemeConfiguration](db, shopName)
	if err != nil {
		return err
	}

	*f = Form{
		ThemeCode:             t.ThemeCode,
		PrimaryColor:          t.PrimaryColor,
		SecondaryColor:        t.SecondaryColor,
		BackgroundColor:       t.BackgroundColor,
		ButtonColor:           t.ButtonColor,
		AppBarBackgroundColor: t.AppBarBackgroundColor,
		ButtonRadius:          t.ButtonRadius,
		EdgePadding:           t.EdgePadding,
		SplashScreenWidth:     t.SplashScreenWidth,
	}

	return nil
}

// Save creates or updates the theme of shopName. created is true for a new row.
func (f *Form) Save(db *gorm.DB, shopName string) (created bool, err error) {
	_, created, err = record.Upsert(db, shopName, &models.ThemeConfiguration{
		ThemeCode:             f.ThemeCode,
		PrimaryColor:          f.PrimaryColor,
		SecondaryColor:        f.SecondaryColor,
		BackgroundColor:       f.BackgroundColor,
		ButtonColor:           f.ButtonColor,
		AppBarBackgroundColor: f.AppBarBackgroundColor,
		ButtonRadius:          f.ButtonRadius,
		EdgePadding:           f.EdgePadding,
		SplashScreenWidth:     f.SplashScreenWidth,
	})

	return created, err
}

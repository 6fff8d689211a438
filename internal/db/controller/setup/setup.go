// Package setup loads and saves the company setup of a shop.
package setup

import (
	"gorm.io/gorm"

	"github.com/mobile-app-connector/mobile-app-connector/internal/db/controller/record"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/models"
)

// Form is the setup page form.
type Form struct {
	CompanyName                    string `form:"companyName"   json:"companyName"                    validate:"required,max=150"`
	CustomerEmail                  string `form:"customerEmail" json:"customerEmail"                  validate:"required,email"`
	CustomerPhoneNumberCountryCode string `form:"countryCode"   json:"customerPhoneNumberCountryCode" validate:"required,max=6"`
	CustomerPhoneNumber            string `form:"customerPhone" json:"customerPhoneNumber"            validate:"required,numeric,min=10,max=15"`
	AppName                        string `form:"appName"       json:"appName"                        validate:"required,max=50"`
}

// Load fills the form from the stored setup of shopName.
// record.ErrNotFound is returned when the shop has not been set up yet.
func (f *Form) Load(db *gorm.DB, shopName string) error {
	s, err := record.Get[models.Setup](db, shopName)
	if err != nil {
		return err
	}

	f.CompanyName = s.CompanyName
	f.CustomerEmail = s.CustomerEmail
	f.CustomerPhoneNumberCountryCode = s.CustomerPhoneNumberCountryCode
	f.CustomerPhoneNumber = s.CustomerPhoneNumber
	f.AppName = s.AppName

	return nil
}

// Save creates or updates the setup of shopName. created is true for a new row.
func (f *Form) Save(db *gorm.DB, shopName string) (created bool, err error) {
	_, created, err = record.Upsert(db, shopName, &models.Setup{
		CompanyName:                    f.CompanyName,
		CustomerEmail:                  f.CustomerEmail,
		CustomerPhoneNumberCountryCode: f.CustomerPhoneNumberCountryCode,
		CustomerPhoneNumber:            f.CustomerPhoneNumber,
		AppName:                        f.AppName,
	})

	return created, err
}

// Exists reports whether shopName has completed the setup.
func Exists(db *gorm.DB, shopName string) (bool, error) {
	return record.Exists[models.Setup](db, shopName)
}

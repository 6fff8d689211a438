package models

import "time"

// Setup holds the company and contact data of a shop's mobile app.
type Setup struct {
	ID                             uint64 `gorm:"primaryKey"`
	ShopName                       string `gorm:"size:255;uniqueIndex;not null"`
	CompanyName                    string `gorm:"size:150;not null"`
	CustomerEmail                  string `gorm:"size:255;not null"`
	CustomerPhoneNumberCountryCode string `gorm:"size:10;not null"`
	CustomerPhoneNumber            string `gorm:"size:20;not null"`
	AppName                        string `gorm:"size:50;not null"`

	// Themes and HomePage are only loaded on demand (Preload).
	Themes   []ThemeConfiguration   `gorm:"foreignKey:ShopName;references:ShopName"`
	HomePage *HomePageConfiguration `gorm:"foreignKey:ShopName;references:ShopName"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetShopName implements ShopRecord.
func (s *Setup) GetShopName() string { return s.ShopName }

// SetShopName implements ShopRecord.
func (s *Setup) SetShopName(name string) { s.ShopName = name }

// UpdatableColumns implements ShopRecord.
func (s *Setup) UpdatableColumns() []string {
	return []string{
		"company_name",
		"customer_email",
		"customer_phone_number_country_code",
		"customer_phone_number",
		"app_name",
		"updated_at",
	}
}

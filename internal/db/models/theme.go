package models

import "time"

// ThemeConfiguration holds the colors and spacing of a shop's mobile app.
// Radius, padding and splash width are stored with their unit, e.g. "12px" or "50%".
type ThemeConfiguration struct {
	ID                    uint64 `gorm:"primaryKey"`
	ShopName              string `gorm:"size:255;uniqueIndex;not null"`
	ThemeCode             string `gorm:"size:50;not null"`
	PrimaryColor          string `gorm:"size:9;not null"`
	SecondaryColor        string `gorm:"size:9;not null"`
	BackgroundColor       string `gorm:"size:9;not null"`
	ButtonColor           string `gorm:"size:9;not null"`
	AppBarBackgroundColor string `gorm:"size:9;not null"`
	ButtonRadius          string `gorm:"size:10;not null"`
	EdgePadding           string `gorm:"size:10;not null"`
	SplashScreenWidth     string `gorm:"size:10;not null"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// GetShopName implements ShopRecord.
func (t *ThemeConfiguration) GetShopName() string { return t.ShopName }

// SetShopName implements ShopRecord.
func (t *ThemeConfiguration) SetShopName(name string) { t.ShopName = name }

// UpdatableColumns implements ShopRecord.
func (t *ThemeConfiguration) UpdatableColumns() []string {
	return []string{
		"theme_code",
		"primary_color",
		"secondary_color",
		"background_color",
		"button_color",
		"app_bar_background_color",
		"button_radius",
		"edge_padding",
		"splash_screen_width",
		"updated_at",
	}
}

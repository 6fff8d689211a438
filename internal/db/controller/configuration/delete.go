package configuration

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mobile-app-connector/mobile-app-connector/internal/db/controller/record"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/models"
)

type (
	// DeleteOptions selects what Delete removes.
	DeleteOptions struct {
		DeleteAll                   bool `json:"deleteAll"`
		DeleteHomePageConfiguration bool `json:"deleteHomePageConfiguration"`
		DeleteThemeConfigurations   bool `json:"deleteThemeConfigurations"`
		DeleteCustomerSetup         bool `json:"deleteCustomerSetup"`
	}

	// DeleteResult reports which records Delete actually removed.
	DeleteResult struct {
		HomePageConfiguration bool `json:"homePageConfiguration"`
		ThemeConfigurations   bool `json:"themeConfigurations"`
		CustomerSetup         bool `json:"customerSetup"`
	}
)

// Delete removes the records of shopName selected by opts inside one transaction.
// Children always go before the setup.
//
// DeleteCustomerSetup together with a child flag returns ErrConflict. The requested child
// deletions are committed and reported in the result, the setup stays.
func Delete(db *gorm.DB, shopName string, opts DeleteOptions) (*DeleteResult, error) {
	if db == nil {
		return nil, record.ErrDBNil
	}

	if shopName == "" {
		return nil, record.ErrShopNameEmpty
	}

	var result DeleteResult

	conflict := !opts.DeleteAll && opts.DeleteCustomerSetup &&
		(opts.DeleteHomePageConfiguration || opts.DeleteThemeConfigurations)
	removeParent := opts.DeleteAll || (opts.DeleteCustomerSetup && !conflict)

	err := db.Transaction(func(tx *gorm.DB) error {
		ok, err := record.Exists[models.Setup](tx, shopName)
		if err != nil {
			return err
		}

		if !ok {
			return ErrNotFound
		}

		if opts.DeleteHomePageConfiguration || removeParent {
			n, dErr := record.DeleteByShop[models.HomePageConfiguration](tx, shopName)
			if dErr != nil {
				return dErr
			}

			result.HomePageConfiguration = n > 0
		}

		if opts.DeleteThemeConfigurations || removeParent {
			n, dErr := record.DeleteByShop[models.ThemeConfiguration](tx, shopName)
			if dErr != nil {
				return dErr
			}

			result.ThemeConfigurations = n > 0
		}

		if removeParent {
			n, dErr := record.DeleteByShop[models.Setup](tx, shopName)
			if dErr != nil {
				return dErr
			}

			result.CustomerSetup = n > 0
		}

		return nil
	})

	switch {
	case errors.Is(err, ErrNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, err
	case conflict:
		return &result, ErrConflict
	}

	return &result, nil
}

package daemon

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mobile-app-connector/mobile-app-connector/internal/apikey"
	"github.com/mobile-app-connector/mobile-app-connector/internal/auth"
	"github.com/mobile-app-connector/mobile-app-connector/internal/config"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/models"
)

// Seed creates the configured admin on an empty users table and, with the db key source,
// copies the active configured API keys into an empty key table.
func Seed(cfg *config.Config, db *gorm.DB) error {
	if err := seedAdmin(cfg.Seed, db); err != nil {
		return err
	}

	if cfg.API.KeySource != config.KeySourceDB {
		return nil
	}

	return seedAPIKeys(cfg.API.Keys, db)
}

func seedAdmin(seed config.Seed, db *gorm.DB) error {
	users := auth.NewLocalProvider(db)

	count, err := users.Count()
	if err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	if seed.AdminUsername == "" || seed.AdminPassword == "" || seed.ShopName == "" {
		log.Warn().Msg("no users and no complete [Seed] section, nobody can sign in locally")

		return nil
	}

	if _, err = users.CreateUser(seed.AdminUsername, "", seed.AdminPassword, seed.ShopName); err != nil {
		return errors.Wrap(err, "failed to seed admin user")
	}

	log.Warn().
		Str("username", seed.AdminUsername).
		Str("shop", seed.ShopName).
		Msg("seeded admin user, change the password")

	return nil
}

func seedAPIKeys(keys []config.APIKey, db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.APIKey{}).Count(&count).Error; err != nil {
		return errors.Wrap(err, "failed to count api keys")
	}

	if count > 0 {
		return nil
	}

	store := apikey.NewDBStore(db)

	for _, k := range keys {
		if !k.Active || k.Key == "" {
			continue
		}

		if err := store.Add(k.Name, k.Key); err != nil {
			return err
		}

		log.Info().Str("name", k.Name).Msg("seeded api key from config")
	}

	return nil
}

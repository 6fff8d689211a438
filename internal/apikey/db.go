package apikey

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mobile-app-connector/mobile-app-connector/internal/db/models"
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// DBStore keeps the allow-list in the api_keys table. Keys are stored as SHA-256 hashes.
type DBStore struct {
	db *gorm.DB
}

// NewDBStore returns a store on db.
func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db}
}

// IsAuthorized implements Guard.
func (s *DBStore) IsAuthorized(key string) bool {
	var n int64

	err := s.db.Model(&models.APIKey{}).
		Where("key_hash = ? AND active = ?", models.HashAPIKey(key), true).
		Count(&n).Error
	if err != nil {
		log.Error().Err(err).Msg("failed to look up api key")

		return false
	}

	return n > 0
}

// Create stores a new active key under name and returns the plain key. It is not retrievable later.
func (s *DBStore) Create(name string) (string, error) {
	if name == "" {
		return "", ErrKeyNameEmpty
	}

	var n int64
	if err := s.db.Model(&models.APIKey{}).Where("name = ?", name).Count(&n).Error; err != nil {
		return "", pkgerrors.Wrap(err, "failed to look up api key name")
	}

	if n > 0 {
		return "", ErrKeyNameExists
	}

	key, err := Generate()
	if err != nil {
		return "", err
	}

	if err = s.Add(name, key); err != nil {
		return "", err
	}

	return key, nil
}

// Add stores key under name as active.
func (s *DBStore) Add(name, key string) error {
	if name == "" {
		return ErrKeyNameEmpty
	}

	err := s.db.Create(&models.APIKey{Name: name, KeyHash: models.HashAPIKey(key), Active: true}).Error

	return pkgerrors.Wrapf(err, "failed to store api key %s", name)
}

// List returns all keys ordered by name.
func (s *DBStore) List() ([]models.APIKey, error) {
	var keys []models.APIKey

	err := s.db.Order("name").Find(&keys).Error

	return keys, pkgerrors.Wrap(err, "failed to list api keys")
}

// Revoke deactivates the key called name.
func (s *DBStore) Revoke(name string) error {
	result := s.db.Model(&models.APIKey{}).Where("name = ?", name).Update("active", false)
	if result.Error != nil {
		return pkgerrors.Wrapf(result.Error, "failed to revoke api key %s", name)
	}

	if result.RowsAffected == 0 {
		return ErrKeyNotFound
	}

	return nil
}

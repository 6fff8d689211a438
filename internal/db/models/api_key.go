package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// APIKey is an allow-list entry for the external API. Only the SHA-256 hash of the key is stored.
type APIKey struct {
	ID        uint64 `gorm:"primaryKey"`
	Name      string `gorm:"size:100;uniqueIndex;not null"`
	KeyHash   string `gorm:"size:64;uniqueIndex;not null"`
	Active    bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HashAPIKey returns the hex encoded SHA-256 of key.
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))

	return hex.EncodeToString(sum[:])
}

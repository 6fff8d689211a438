// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/mobile-app-connector/mobile-app-connector/internal/config"
)

// Create builds the Data Source Name for the configured engine.
// MySQL gets the go-sql-driver form, PostgreSQL a postgres:// URL and SQLite the file name plus extras.
func Create(cfg *config.Config) string {
	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		return postgres(&cfg.DB)
	case config.EngineSQLite:
		return sqlite(&cfg.DB)
	default:
		return mysql(&cfg.DB)
	}
}

func mysql(db *config.DB) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
		db.Extras,
	)
}

func postgres(db *config.DB) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(db.User, db.Password),
		Host:     net.JoinHostPort(db.Host, strconv.Itoa(db.Port)),
		Path:     "/" + db.Name,
		RawQuery: db.Extras,
	}

	return u.String()
}

func sqlite(db *config.DB) string {
	if db.Extras == "" {
		return db.Name
	}

	return db.Name + "?" + db.Extras
}

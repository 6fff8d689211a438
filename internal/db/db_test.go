package db_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobile-app-connector/mobile-app-connector/internal/config"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/models"
)

func TestDialector(t *testing.T) {
	tests := []struct {
		engine string
		want   string
	}{
		{engine: config.EngineMySQL, want: "mysql"},
		{engine: "", want: "mysql"},
		{engine: config.EnginePostgres, want: "postgres"},
		{engine: config.EngineSQLite, want: "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.want+tt.engine, func(t *testing.T) {
			d, err := db.Dialector(&config.Config{DB: config.DB{GormEngine: tt.engine}})
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name())
		})
	}

	_, err := db.Dialector(&config.Config{DB: config.DB{GormEngine: "oracle"}})
	require.ErrorIs(t, err, config.ErrUnknownDBEngine)
}

func TestOpenSQLiteAndMigrate(t *testing.T) {
	cfg := &config.Config{DB: config.DB{
		GormEngine:   config.EngineSQLite,
		Name:         filepath.Join(t.TempDir(), "connector.db"),
		MaxOpenConns: 1,
	}}

	gdb, err := db.Open(cfg)
	require.NoError(t, err)

	require.NoError(t, db.Migrate(gdb))

	for _, m := range []any{&models.Setup{}, &models.ThemeConfiguration{}, &models.HomePageConfiguration{}, &models.User{}, &models.APIKey{}} {
		assert.True(t, gdb.Migrator().HasTable(m))
	}

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

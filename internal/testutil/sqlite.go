package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/orderbot/internal/db"
	"github.com/Skotchmaster/orderbot/internal/models"
)

// NewDB returns a migrated in-memory database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to connect to in-memory db")

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb), "failed to migrate tables")

	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}

func SeedProduct(t *testing.T, gdb *gorm.DB, name, sell, cost string) models.Product {
	t.Helper()

	p := models.Product{
		Name:      name,
		SellPrice: decimal.RequireFromString(sell),
		CostPrice: decimal.RequireFromString(cost),
	}
	require.NoError(t, gdb.Create(&p).Error)
	return p
}

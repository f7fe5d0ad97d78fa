package persistence

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/van-william/carbon-sub017/internal/infrastructure/persistence/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newSQLiteDB opens an in-memory database holding every ERP table
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.SequenceModel{},
		&models.CustomerModel{},
		&models.SupplierModel{},
		&models.PartModel{},
		&models.PriceBreakModel{},
		&models.QuoteModel{},
		&models.QuoteLineModel{},
		&models.QuoteLinePriceModel{},
		&models.SalesOrderModel{},
		&models.SalesOrderLineModel{},
		&models.PurchaseOrderModel{},
		&models.PurchaseOrderLineModel{},
		&models.JobModel{},
	))
	for _, stmt := range []string{
		"CREATE UNIQUE INDEX idx_customers_company_code ON customers (company_id, code)",
		"CREATE UNIQUE INDEX idx_suppliers_company_code ON suppliers (company_id, code)",
		"CREATE UNIQUE INDEX idx_parts_company_number ON parts (company_id, part_number)",
		"CREATE UNIQUE INDEX idx_quotes_company_number ON quotes (company_id, quote_number)",
	} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

// newMockDB creates a GORM handle over sqlmock using the postgres dialect
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

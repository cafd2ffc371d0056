package services_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-floor/models"
	"github.com/yeremiapane/restaurant-floor/services"
	"github.com/yeremiapane/restaurant-floor/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

// setupTestDB -> SQLite in-memory terisolasi per test
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}

	// Satu koneksi supaya semua akses lewat database yang sama
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.Table{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func testGSTRate() decimal.Decimal {
	rate, _ := decimal.NewFromString("0.05")
	return rate
}

func newTestStack(t *testing.T) (*gorm.DB, *services.TableRegistry, *services.OrderLedger, *services.LifecycleController) {
	t.Helper()
	db := setupTestDB(t)
	registry := services.NewTableRegistry(db)
	ledger := services.NewOrderLedger(db, testGSTRate())
	lifecycle := services.NewLifecycleController(registry, ledger)
	return db, registry, ledger, lifecycle
}

func sampleItems() []services.ItemInput {
	return []services.ItemInput{
		{Name: "Tea", Quantity: 2, UnitPrice: decimal.NewFromInt(20)},
		{Name: "Samosa", Quantity: 3, UnitPrice: decimal.NewFromInt(15)},
	}
}

// assertOccupancyInvariant -> status occupied berlaku persis ketika ada
// order open untuk meja tersebut
func assertOccupancyInvariant(t *testing.T, db *gorm.DB) {
	t.Helper()

	var tables []models.Table
	if err := db.Find(&tables).Error; err != nil {
		t.Fatalf("failed to load tables: %v", err)
	}

	for _, table := range tables {
		var openCount int64
		db.Model(&models.Order{}).
			Where("table_number = ? AND status = ?", table.TableNumber, models.OrderStatusOpen).
			Count(&openCount)

		occupied := table.Status == models.TableStatusOccupied
		if occupied && openCount != 1 {
			t.Fatalf("table %d occupied but has %d open orders", table.TableNumber, openCount)
		}
		if !occupied && openCount != 0 {
			t.Fatalf("table %d available but has %d open orders", table.TableNumber, openCount)
		}
	}
}

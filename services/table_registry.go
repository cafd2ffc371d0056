package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-floor/models"
	"github.com/yeremiapane/restaurant-floor/utils"
)

// TableRegistry memegang set meja kanonik beserta status occupancy-nya.
// Semua perubahan status lewat satu UPDATE bersyarat per nomor meja,
// sehingga tidak ada read-modify-write yang bisa kalah race.
type TableRegistry struct {
	db *gorm.DB
}

func NewTableRegistry(db *gorm.DB) *TableRegistry {
	return &TableRegistry{db: db}
}

// ListTables -> seluruh meja, urut nomor meja
func (r *TableRegistry) ListTables(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	if err := r.db.WithContext(ctx).Order("table_number asc").Find(&tables).Error; err != nil {
		return nil, utils.WrapStoreError(err)
	}
	return tables, nil
}

// GetTable -> satu meja berdasarkan nomor meja
func (r *TableRegistry) GetTable(ctx context.Context, tableNumber int) (*models.Table, error) {
	var table models.Table
	err := r.db.WithContext(ctx).Where("table_number = ?", tableNumber).First(&table).Error
	if err != nil {
		return nil, fmt.Errorf("table %d: %w", tableNumber, utils.WrapStoreError(err))
	}
	return &table, nil
}

// SeedTables membuat meja 1..count sekali untuk setup awal. Idempotent:
// nomor meja yang sudah ada dilewati, jadi aman dijalankan ulang.
func (r *TableRegistry) SeedTables(ctx context.Context, count int) ([]models.Table, error) {
	if count <= 0 {
		return nil, fmt.Errorf("table count must be positive: %w", utils.ErrInvalidInput)
	}

	for i := 1; i <= count; i++ {
		table := models.Table{TableNumber: i, Status: models.TableStatusAvailable}
		err := r.db.WithContext(ctx).
			Where(models.Table{TableNumber: i}).
			FirstOrCreate(&table).Error
		if err != nil {
			return nil, utils.WrapStoreError(err)
		}
	}

	return r.ListTables(ctx)
}

// SetStatus mengubah status meja tanpa syarat status lama. Dipakai jalur
// recovery manual (supervisor membebaskan meja yang ditinggal waiter).
// Tetap satu statement UPDATE keyed by table number.
func (r *TableRegistry) SetStatus(ctx context.Context, tableNumber int, status string) (*models.Table, error) {
	if !models.ValidTableStatus(status) {
		return nil, fmt.Errorf("unknown table status %q: %w", status, utils.ErrInvalidInput)
	}

	res := r.db.WithContext(ctx).
		Model(&models.Table{}).
		Where("table_number = ?", tableNumber).
		Update("status", status)
	if res.Error != nil {
		return nil, utils.WrapStoreError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("table %d: %w", tableNumber, utils.ErrNotFound)
	}

	return r.GetTable(ctx, tableNumber)
}

// CompareAndSetStatus mengubah status hanya jika status saat ini masih
// `from`. Ini gerbang mutual-exclusion untuk claim: dua claim bersamaan
// pada meja yang sama, persis satu yang menang.
func (r *TableRegistry) CompareAndSetStatus(ctx context.Context, tableNumber int, from, to string) (*models.Table, error) {
	if !models.ValidTableStatus(from) || !models.ValidTableStatus(to) {
		return nil, fmt.Errorf("unknown table status: %w", utils.ErrInvalidInput)
	}

	res := r.db.WithContext(ctx).
		Model(&models.Table{}).
		Where("table_number = ? AND status = ?", tableNumber, from).
		Update("status", to)
	if res.Error != nil {
		return nil, utils.WrapStoreError(res.Error)
	}
	if res.RowsAffected == 0 {
		// Bedakan meja tidak ada vs status sudah bergeser
		if _, err := r.GetTable(ctx, tableNumber); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("table %d is no longer %s: %w", tableNumber, from, utils.ErrConflict)
	}

	return r.GetTable(ctx, tableNumber)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-floor/models"
	"github.com/yeremiapane/restaurant-floor/utils"
)

// ItemInput adalah line item yang dikirim waiter saat take order /
// update order.
type ItemInput struct {
	Name      string          `json:"name" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderLedger memegang seluruh order. Order finalized bersifat immutable
// dan tidak pernah dihapus (riwayat).
type OrderLedger struct {
	db      *gorm.DB
	gstRate decimal.Decimal
}

func NewOrderLedger(db *gorm.DB, gstRate decimal.Decimal) *OrderLedger {
	return &OrderLedger{db: db, gstRate: gstRate}
}

// CreateOrder membuat order open baru untuk sebuah meja. Maksimal satu
// order open per meja; pelanggaran -> Conflict.
func (l *OrderLedger) CreateOrder(ctx context.Context, tableNumber int, items []ItemInput) (*models.Order, error) {
	orderItems, subtotal, err := buildOrderItems(items)
	if err != nil {
		return nil, err
	}

	gst := subtotal.Mul(l.gstRate).Round(2)
	order := models.Order{
		OrderCode:   uuid.NewString(),
		TableNumber: tableNumber,
		Status:      models.OrderStatusOpen,
		Subtotal:    subtotal,
		GST:         gst,
		GrandTotal:  subtotal.Add(gst),
		Items:       orderItems,
	}

	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Order
		err := tx.Where("table_number = ? AND status = ?", tableNumber, models.OrderStatusOpen).
			First(&existing).Error
		if err == nil {
			return fmt.Errorf("table %d already has open order %d: %w",
				tableNumber, existing.ID, utils.ErrConflict)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.WrapStoreError(err)
		}

		return utils.WrapStoreError(tx.Create(&order).Error)
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// GetOpenOrderByTable -> order open untuk sebuah meja. NotFound di sini
// adalah kondisi normal ("belum ada order"), bukan fault.
func (l *OrderLedger) GetOpenOrderByTable(ctx context.Context, tableNumber int) (*models.Order, error) {
	var order models.Order
	err := l.db.WithContext(ctx).Preload("Items").
		Where("table_number = ? AND status = ?", tableNumber, models.OrderStatusOpen).
		First(&order).Error
	if err != nil {
		return nil, fmt.Errorf("open order for table %d: %w", tableNumber, utils.WrapStoreError(err))
	}
	return &order, nil
}

// GetOrder -> satu order berdasarkan ID, items ikut dimuat
func (l *OrderLedger) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := l.db.WithContext(ctx).Preload("Items").First(&order, orderID).Error
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", orderID, utils.WrapStoreError(err))
	}
	return &order, nil
}

// ListOrders -> seluruh order (riwayat), terbaru dulu
func (l *OrderLedger) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := l.db.WithContext(ctx).Preload("Items").
		Order("created_at desc").Find(&orders).Error
	if err != nil {
		return nil, utils.WrapStoreError(err)
	}
	return orders, nil
}

// UpdateItems mengganti line items order open dan menghitung ulang total.
func (l *OrderLedger) UpdateItems(ctx context.Context, orderID uint, items []ItemInput) (*models.Order, error) {
	orderItems, subtotal, err := buildOrderItems(items)
	if err != nil {
		return nil, err
	}
	gst := subtotal.Mul(l.gstRate).Round(2)

	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			return fmt.Errorf("order %d: %w", orderID, utils.WrapStoreError(err))
		}
		if !order.IsOpen() {
			return fmt.Errorf("order %d is already finalized: %w", orderID, utils.ErrInvalidState)
		}

		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
			return utils.WrapStoreError(err)
		}
		for i := range orderItems {
			orderItems[i].OrderID = orderID
		}
		if err := tx.Create(&orderItems).Error; err != nil {
			return utils.WrapStoreError(err)
		}

		updates := map[string]interface{}{
			"subtotal":    subtotal,
			"gst":         gst,
			"grand_total": subtotal.Add(gst),
		}
		return utils.WrapStoreError(tx.Model(&order).Updates(updates).Error)
	})
	if err != nil {
		return nil, err
	}

	return l.GetOrder(ctx, orderID)
}

// Finalize menutup order open. Guard idempotensi: UPDATE bersyarat pada
// status, finalize kedua kena InvalidState -- tidak boleh sukses diam-diam
// karena tiap finalize memicu tepat satu release meja.
func (l *OrderLedger) Finalize(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := l.db.WithContext(ctx).First(&order, orderID).Error; err != nil {
		return nil, fmt.Errorf("order %d: %w", orderID, utils.WrapStoreError(err))
	}

	now := time.Now()
	res := l.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, models.OrderStatusOpen).
		Updates(map[string]interface{}{
			"status":       models.OrderStatusFinalized,
			"finalized_at": now,
		})
	if res.Error != nil {
		return nil, utils.WrapStoreError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("order %d is already finalized: %w", orderID, utils.ErrInvalidState)
	}

	return l.GetOrder(ctx, orderID)
}

// buildOrderItems memvalidasi input dan menghitung line total + subtotal.
// Semua aritmetika uang memakai decimal, bukan float.
func buildOrderItems(items []ItemInput) ([]models.OrderItem, decimal.Decimal, error) {
	if len(items) == 0 {
		return nil, decimal.Zero, fmt.Errorf("order needs at least one item: %w", utils.ErrInvalidInput)
	}

	orderItems := make([]models.OrderItem, 0, len(items))
	subtotal := decimal.Zero
	for _, item := range items {
		if item.Name == "" {
			return nil, decimal.Zero, fmt.Errorf("item name is required: %w", utils.ErrInvalidInput)
		}
		if item.Quantity <= 0 {
			return nil, decimal.Zero, fmt.Errorf("item %q quantity must be positive: %w", item.Name, utils.ErrInvalidInput)
		}
		if item.UnitPrice.IsNegative() {
			return nil, decimal.Zero, fmt.Errorf("item %q unit price cannot be negative: %w", item.Name, utils.ErrInvalidInput)
		}

		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
		subtotal = subtotal.Add(lineTotal)

		orderItems = append(orderItems, models.OrderItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: lineTotal,
		})
	}

	return orderItems, subtotal, nil
}

package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/restaurant-floor/models"
	"github.com/yeremiapane/restaurant-floor/realtime"
	"github.com/yeremiapane/restaurant-floor/utils"
)

const (
	defaultStoreTimeout = 5 * time.Second
	releaseRetries      = 3
	releaseBackoff      = 100 * time.Millisecond
)

// LifecycleController mengorkestrasi transisi meja/order:
// claim -> create order -> finalize -> release. Satu-satunya pintu mutasi
// untuk TableRegistry dan OrderLedger; collaborator lain tidak boleh
// menulis ke store secara langsung.
type LifecycleController struct {
	registry     *TableRegistry
	ledger       *OrderLedger
	storeTimeout time.Duration
}

func NewLifecycleController(registry *TableRegistry, ledger *OrderLedger) *LifecycleController {
	return &LifecycleController{
		registry:     registry,
		ledger:       ledger,
		storeTimeout: defaultStoreTimeout,
	}
}

// Claim menandai meja AVAILABLE menjadi OCCUPIED. Claim kedua pada meja
// yang sama kalah di conditional write registry dan menerima Conflict.
func (lc *LifecycleController) Claim(ctx context.Context, tableNumber int) (*models.Table, error) {
	ctx, cancel := lc.withTimeout(ctx)
	defer cancel()

	table, err := lc.registry.CompareAndSetStatus(ctx, tableNumber,
		models.TableStatusAvailable, models.TableStatusOccupied)
	if err != nil {
		if errors.Is(err, utils.ErrConflict) {
			utils.InfoLogger.WithFields(logrus.Fields{
				"table": tableNumber,
				"event": "claim_conflict",
			}).Warn("claim lost the race")
		}
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"table": tableNumber,
		"event": "table_claimed",
	}).Info("table claimed")
	realtime.BroadcastTableClaimed(tableNumber)

	return table, nil
}

// TakeOrder membuat order open untuk sebuah meja. Kalau meja masih
// available, claim terjadi dalam intent yang sama (UI menggabungkan
// claim + take order dalam satu aksi).
func (lc *LifecycleController) TakeOrder(ctx context.Context, tableNumber int, items []ItemInput) (*models.Order, error) {
	ctx, cancel := lc.withTimeout(ctx)
	defer cancel()

	table, err := lc.registry.GetTable(ctx, tableNumber)
	if err != nil {
		return nil, err
	}

	claimedHere := false
	if table.Status == models.TableStatusAvailable {
		if _, err := lc.registry.CompareAndSetStatus(ctx, tableNumber,
			models.TableStatusAvailable, models.TableStatusOccupied); err != nil {
			return nil, err
		}
		claimedHere = true
		realtime.BroadcastTableClaimed(tableNumber)
	}

	order, err := lc.ledger.CreateOrder(ctx, tableNumber, items)
	if err != nil {
		if claimedHere {
			// Claim milik kita gagal berlanjut ke order; kembalikan meja
			// supaya tidak ada occupied tanpa open order.
			lc.releaseTable(tableNumber)
		}
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"table": tableNumber,
		"order": order.ID,
		"event": "order_created",
	}).Info("order created")
	realtime.BroadcastOrderUpdated(order.ID, order.OrderCode, order.TableNumber)

	return order, nil
}

// ViewOrder -> order open milik sebuah meja. NotFound berarti "belum ada
// order", bukan kegagalan.
func (lc *LifecycleController) ViewOrder(ctx context.Context, tableNumber int) (*models.Order, error) {
	ctx, cancel := lc.withTimeout(ctx)
	defer cancel()
	return lc.ledger.GetOpenOrderByTable(ctx, tableNumber)
}

// ChangeItems mengganti line items order yang masih open.
func (lc *LifecycleController) ChangeItems(ctx context.Context, orderID uint, items []ItemInput) (*models.Order, error) {
	ctx, cancel := lc.withTimeout(ctx)
	defer cancel()

	order, err := lc.ledger.UpdateItems(ctx, orderID, items)
	if err != nil {
		return nil, err
	}

	realtime.BroadcastOrderUpdated(order.ID, order.OrderCode, order.TableNumber)
	return order, nil
}

// Finalize menutup order lalu membebaskan mejanya. Finalize dan release
// menyentuh dua baris berbeda, jadi release adalah langkah kompensasi:
// kalau gagal setelah order terlanjur finalized, diulang sampai batas
// percobaan (mismatch order-finalized/meja-occupied itu recoverable).
func (lc *LifecycleController) Finalize(ctx context.Context, orderID uint) (*models.Order, error) {
	ctx, cancel := lc.withTimeout(ctx)
	defer cancel()

	order, err := lc.ledger.Finalize(ctx, orderID)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidState) {
			utils.InfoLogger.WithFields(logrus.Fields{
				"order": orderID,
				"event": "finalize_rejected",
			}).Warn("finalize on non-open order")
		}
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"table": order.TableNumber,
		"order": order.ID,
		"event": "order_finalized",
	}).Info("order finalized")

	lc.releaseTable(order.TableNumber)
	realtime.BroadcastOrderUpdated(order.ID, order.OrderCode, order.TableNumber)

	return order, nil
}

// SetTableStatus adalah jalur recovery manual (supervisor) untuk meja yang
// ditinggal dalam keadaan occupied. Idempotent: set ke status yang sama
// bukan error.
func (lc *LifecycleController) SetTableStatus(ctx context.Context, tableNumber int, status string) (*models.Table, error) {
	ctx, cancel := lc.withTimeout(ctx)
	defer cancel()

	table, err := lc.registry.SetStatus(ctx, tableNumber, status)
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"table":  tableNumber,
		"status": status,
		"event":  "table_status_set",
	}).Info("table status set")

	switch status {
	case models.TableStatusOccupied:
		realtime.BroadcastTableClaimed(tableNumber)
	case models.TableStatusAvailable:
		realtime.BroadcastTableReleased(tableNumber)
	}

	return table, nil
}

// releaseTable mengembalikan meja ke available, diulang sampai batas
// percobaan. Meja yang ternyata sudah available dihitung selesai.
func (lc *LifecycleController) releaseTable(tableNumber int) {
	var lastErr error
	for attempt := 0; attempt < releaseRetries; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), lc.storeTimeout)
		_, err := lc.registry.CompareAndSetStatus(ctx, tableNumber,
			models.TableStatusOccupied, models.TableStatusAvailable)
		cancel()

		if err == nil || errors.Is(err, utils.ErrConflict) {
			utils.InfoLogger.WithFields(logrus.Fields{
				"table": tableNumber,
				"event": "table_released",
			}).Info("table released")
			realtime.BroadcastTableReleased(tableNumber)
			return
		}

		lastErr = err
		time.Sleep(releaseBackoff)
	}

	utils.ErrorLogger.WithFields(logrus.Fields{
		"table": tableNumber,
		"event": "release_failed",
	}).Errorf("failed to release table after %d attempts: %v", releaseRetries, lastErr)
}

func (lc *LifecycleController) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, lc.storeTimeout)
}

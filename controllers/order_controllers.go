package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-floor/services"
	"github.com/yeremiapane/restaurant-floor/utils"
)

type OrderController struct {
	Ledger    *services.OrderLedger
	Lifecycle *services.LifecycleController
}

func NewOrderController(ledger *services.OrderLedger, lifecycle *services.LifecycleController) *OrderController {
	return &OrderController{Ledger: ledger, Lifecycle: lifecycle}
}

// GetAllOrders -> riwayat seluruh order beserta items
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.Ledger.ListOrders(c.Request.Context())
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// CreateOrder -> take order untuk sebuah meja; claim meja ikut terjadi
// kalau meja masih available
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var body struct {
		TableNumber int                  `json:"table_number" binding:"required"`
		Items       []services.ItemInput `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Lifecycle.TakeOrder(c.Request.Context(), body.TableNumber, body.Items)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order %d created for table %d", order.ID, order.TableNumber)
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetOrderByTable -> order open milik sebuah meja. 404 di sini artinya
// "belum ada order" (empty state untuk UI), bukan fault.
func (oc *OrderController) GetOrderByTable(c *gin.Context) {
	tableNumber, err := parseTableNumber(c)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	order, err := oc.Lifecycle.ViewOrder(c.Request.Context(), tableNumber)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Open order", order)
}

// GetOrderByID -> detail 1 order
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	orderID, err := parseOrderID(c)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	order, err := oc.Ledger.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrderItems -> ganti line items order open, total dihitung ulang
func (oc *OrderController) UpdateOrderItems(c *gin.Context) {
	orderID, err := parseOrderID(c)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	var body struct {
		Items []services.ItemInput `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Lifecycle.ChangeItems(c.Request.Context(), orderID, body.Items)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}

// FinalizeOrder -> tutup order dan bebaskan mejanya
func (oc *OrderController) FinalizeOrder(c *gin.Context) {
	orderID, err := parseOrderID(c)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	order, err := oc.Lifecycle.Finalize(c.Request.Context(), orderID)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order %d finalized, table %d released", order.ID, order.TableNumber)
	utils.RespondJSON(c, http.StatusOK, "Order finalized", order)
}

func parseOrderID(c *gin.Context) (uint, error) {
	raw := c.Param("order_id")
	orderID, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid order id %q: %w", raw, utils.ErrInvalidInput)
	}
	return uint(orderID), nil
}

package controllers_test

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-floor/controllers"
	"github.com/yeremiapane/restaurant-floor/models"
)

func setupOrderRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()

	registry, ledger, lifecycle := newStack(db)
	tableCtrl := controllers.NewTableController(registry, lifecycle)
	orderCtrl := controllers.NewOrderController(ledger, lifecycle)
	router.POST("/tables/:table_number/claim", tableCtrl.ClaimTable)
	router.GET("/orders", orderCtrl.GetAllOrders)
	router.POST("/orders", orderCtrl.CreateOrder)
	router.GET("/orders/by-table/:table_number", orderCtrl.GetOrderByTable)
	router.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	router.PATCH("/orders/:order_id/items", orderCtrl.UpdateOrderItems)
	router.POST("/orders/:order_id/finalize", orderCtrl.FinalizeOrder)
	return router
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// assertAmount -> bandingkan nilai uang dari JSON secara numerik,
// bukan per-karakter ("85" dan "85.00" sama)
func assertAmount(t *testing.T, want string, got interface{}) {
	t.Helper()

	s, ok := got.(string)
	if !ok {
		t.Fatalf("amount is not a string: %v", got)
	}
	assert.True(t, decimal.RequireFromString(s).Equal(decimal.RequireFromString(want)),
		"want %s, got %s", want, s)
}

func orderBody(tableNumber int) map[string]interface{} {
	return map[string]interface{}{
		"table_number": tableNumber,
		"items": []map[string]interface{}{
			{"name": "Tea", "quantity": 2, "unit_price": 20},
			{"name": "Samosa", "quantity": 3, "unit_price": 15},
		},
	}
}

func TestCreateOrderEndpoint(t *testing.T) {
	db := setupTestDB(t)
	db.Create(&models.Table{TableNumber: 3, Status: models.TableStatusAvailable})

	router := setupOrderRouter(db)
	w := doJSON(t, router, http.MethodPost, "/orders", orderBody(3))
	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "open", data["status"])
	assertAmount(t, "85", data["subtotal"])
	assertAmount(t, "89.25", data["grand_total"])

	// Meja ikut ter-claim
	var table models.Table
	db.Where("table_number = ?", 3).First(&table)
	assert.Equal(t, models.TableStatusOccupied, table.Status)
}

func TestCreateOrderConflictEndpoint(t *testing.T) {
	db := setupTestDB(t)
	db.Create(&models.Table{TableNumber: 3, Status: models.TableStatusAvailable})

	router := setupOrderRouter(db)
	w := doJSON(t, router, http.MethodPost, "/orders", orderBody(3))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/orders", orderBody(3))
	assert.Equal(t, http.StatusConflict, w.Code)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGetOrderByTableEndpoint(t *testing.T) {
	db := setupTestDB(t)
	db.Create(&models.Table{TableNumber: 2, Status: models.TableStatusAvailable})

	router := setupOrderRouter(db)

	// Belum ada order -> 404 (empty state)
	w := doJSON(t, router, http.MethodGet, "/orders/by-table/2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodPost, "/orders", orderBody(2))
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, "/orders/by-table/2", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	assert.Len(t, items, 2)
}

func TestUpdateOrderItemsEndpoint(t *testing.T) {
	db := setupTestDB(t)
	db.Create(&models.Table{TableNumber: 1, Status: models.TableStatusAvailable})

	router := setupOrderRouter(db)
	w := doJSON(t, router, http.MethodPost, "/orders", orderBody(1))
	assert.Equal(t, http.StatusCreated, w.Code)

	var created map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	orderID := int(created["data"].(map[string]interface{})["id"].(float64))

	update := map[string]interface{}{
		"items": []map[string]interface{}{
			{"name": "Tea", "quantity": 4, "unit_price": 20},
		},
	}
	w = doJSON(t, router, http.MethodPatch,
		"/orders/"+itoa(orderID)+"/items", update)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	assertAmount(t, "80", data["subtotal"])
	assertAmount(t, "84", data["grand_total"])
}

func TestFinalizeOrderEndpoint(t *testing.T) {
	db := setupTestDB(t)
	db.Create(&models.Table{TableNumber: 5, Status: models.TableStatusAvailable})

	router := setupOrderRouter(db)
	w := doJSON(t, router, http.MethodPost, "/orders", orderBody(5))
	assert.Equal(t, http.StatusCreated, w.Code)

	var created map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	orderID := int(created["data"].(map[string]interface{})["id"].(float64))

	w = doJSON(t, router, http.MethodPost, "/orders/"+itoa(orderID)+"/finalize", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var table models.Table
	db.Where("table_number = ?", 5).First(&table)
	assert.Equal(t, models.TableStatusAvailable, table.Status)

	// Finalize kedua -> 422
	w = doJSON(t, router, http.MethodPost, "/orders/"+itoa(orderID)+"/finalize", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Order tidak ada -> 404
	w = doJSON(t, router, http.MethodPost, "/orders/999/finalize", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-floor/services"
	"github.com/yeremiapane/restaurant-floor/utils"
)

const defaultTableCount = 6

var ErrNoPermission = errors.New("you don't have permission for this action")

type TableController struct {
	Registry  *services.TableRegistry
	Lifecycle *services.LifecycleController
}

func NewTableController(registry *services.TableRegistry, lifecycle *services.LifecycleController) *TableController {
	return &TableController{Registry: registry, Lifecycle: lifecycle}
}

// GetAllTables -> menampilkan seluruh meja, urut nomor meja
func (tc *TableController) GetAllTables(c *gin.Context) {
	tables, err := tc.Registry.ListTables(c.Request.Context())
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByNumber -> detail satu meja
func (tc *TableController) GetTableByNumber(c *gin.Context) {
	tableNumber, err := parseTableNumber(c)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	table, err := tc.Registry.GetTable(c.Request.Context(), tableNumber)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// SeedTables -> setup awal: buat meja 1..count (supervisor saja)
func (tc *TableController) SeedTables(c *gin.Context) {
	roleInterface, _ := c.Get("role")
	if roleInterface != "supervisor" {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var req struct {
		Count int `json:"count"`
	}
	// Body opsional; tanpa body pakai default
	_ = c.ShouldBindJSON(&req)
	if req.Count == 0 {
		req.Count = defaultTableCount
	}

	tables, err := tc.Registry.SeedTables(c.Request.Context(), req.Count)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	utils.InfoLogger.Printf("Seeded %d tables", req.Count)
	utils.RespondJSON(c, http.StatusCreated, "Tables seeded", tables)
}

// ClaimTable -> waiter mengambil meja (available -> occupied)
func (tc *TableController) ClaimTable(c *gin.Context) {
	tableNumber, err := parseTableNumber(c)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	table, err := tc.Lifecycle.Claim(c.Request.Context(), tableNumber)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table claimed", table)
}

// UpdateTableStatus -> jalur manual/supervisor untuk set status meja
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	tableNumber, err := parseTableNumber(c)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Lifecycle.SetTableStatus(c.Request.Context(), tableNumber, body.Status)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table status updated", table)
}

func parseTableNumber(c *gin.Context) (int, error) {
	raw := c.Param("table_number")
	tableNumber, err := strconv.Atoi(raw)
	if err != nil || tableNumber <= 0 {
		return 0, fmt.Errorf("invalid table number %q: %w", raw, utils.ErrInvalidInput)
	}
	return tableNumber, nil
}

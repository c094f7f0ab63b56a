package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"expense_tracker/internal/models"
)

func budgetRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.GET("/budgets", ListBudgets(db))
	r.GET("/budgets/:id", GetBudget(db))
	r.POST("/budgets", CreateBudget(db))
	r.PUT("/budgets/:id", UpdateBudget(db))
	r.DELETE("/budgets/:id", DeleteBudget(db))
	return r
}

func TestCreateBudget(t *testing.T) {
	db := openTestDB(t)
	r := budgetRouter(db)
	cat := models.Category{Name: "groceries"}
	mustCreate(t, db, &cat)

	w := doJSON(t, r, http.MethodPost, "/budgets", gin.H{
		"category_id": cat.ID, "month": "2026-08", "amount": 300.0,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Same category and month conflicts.
	w = doJSON(t, r, http.MethodPost, "/budgets", gin.H{
		"category_id": cat.ID, "month": "2026-08", "amount": 500.0,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Another month is fine.
	w = doJSON(t, r, http.MethodPost, "/budgets", gin.H{
		"category_id": cat.ID, "month": "2026-09", "amount": 300.0,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateBudgetValidation(t *testing.T) {
	db := openTestDB(t)
	r := budgetRouter(db)
	cat := models.Category{Name: "groceries"}
	mustCreate(t, db, &cat)

	w := doJSON(t, r, http.MethodPost, "/budgets", gin.H{
		"category_id": cat.ID, "month": "August 2026", "amount": 300.0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "YYYY-MM")

	w = doJSON(t, r, http.MethodPost, "/budgets", gin.H{
		"category_id": int64(9999), "month": "2026-08", "amount": 300.0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/budgets", gin.H{
		"category_id": cat.ID, "month": "2026-08", "amount": -10.0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListBudgetsMonthFilter(t *testing.T) {
	db := openTestDB(t)
	r := budgetRouter(db)
	cat := models.Category{Name: "groceries"}
	mustCreate(t, db, &cat)
	other := models.Category{Name: "transport"}
	mustCreate(t, db, &other)

	mustCreate(t, db, &models.Budget{CategoryID: cat.ID, Month: "2026-08", Amount: 300})
	mustCreate(t, db, &models.Budget{CategoryID: other.ID, Month: "2026-08", Amount: 80})
	mustCreate(t, db, &models.Budget{CategoryID: cat.ID, Month: "2026-09", Amount: 310})

	w := doJSON(t, r, http.MethodGet, "/budgets?month=2026-08", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Budgets []models.Budget `json:"budgets"`
	}
	decodeBody(t, w, &resp)
	assert.Len(t, resp.Budgets, 2)
}

func TestUpdateAndDeleteBudget(t *testing.T) {
	db := openTestDB(t)
	r := budgetRouter(db)
	cat := models.Category{Name: "groceries"}
	mustCreate(t, db, &cat)
	budget := models.Budget{CategoryID: cat.ID, Month: "2026-08", Amount: 300}
	mustCreate(t, db, &budget)
	path := fmt.Sprintf("/budgets/%d", budget.ID)

	w := doJSON(t, r, http.MethodPut, path, gin.H{"amount": 275.0})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Budget models.Budget `json:"budget"`
	}
	decodeBody(t, w, &resp)
	assert.Equal(t, 275.0, resp.Budget.Amount)
	assert.Equal(t, "2026-08", resp.Budget.Month)

	w = doJSON(t, r, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMoveBudget(t *testing.T) {
	db := openTestDB(t)
	r := budgetRouter(db)
	groceries := models.Category{Name: "groceries"}
	mustCreate(t, db, &groceries)
	transport := models.Category{Name: "transport"}
	mustCreate(t, db, &transport)

	budget := models.Budget{CategoryID: groceries.ID, Month: "2026-08", Amount: 300}
	mustCreate(t, db, &budget)
	taken := models.Budget{CategoryID: transport.ID, Month: "2026-09", Amount: 80}
	mustCreate(t, db, &taken)
	path := fmt.Sprintf("/budgets/%d", budget.ID)

	// Move to a free category+month pair.
	w := doJSON(t, r, http.MethodPut, path, gin.H{"category_id": transport.ID, "month": "2026-10"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Budget models.Budget `json:"budget"`
	}
	decodeBody(t, w, &resp)
	assert.Equal(t, transport.ID, resp.Budget.CategoryID)
	assert.Equal(t, "2026-10", resp.Budget.Month)

	// Moving onto an occupied pair conflicts.
	w = doJSON(t, r, http.MethodPut, path, gin.H{"month": "2026-09"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Keeping its own pair while changing the amount is not a conflict.
	w = doJSON(t, r, http.MethodPut, path, gin.H{"month": "2026-10", "amount": 90.0})
	assert.Equal(t, http.StatusOK, w.Code)

	// Validation still applies on the move fields.
	w = doJSON(t, r, http.MethodPut, path, gin.H{"month": "October"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(t, r, http.MethodPut, path, gin.H{"category_id": int64(9999)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

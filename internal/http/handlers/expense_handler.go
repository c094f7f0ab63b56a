package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"expense_tracker/internal/models"
)

// expenseInput is shared by create and update; update treats absent fields
// as "leave unchanged".
type expenseInput struct {
	Amount          *float64 `json:"amount" binding:"omitempty,gt=0"`
	Date            string   `json:"date"` // "2006-01-02"
	Description     *string  `json:"description"`
	CategoryID      *int64   `json:"category_id"`
	PaymentMethodID *int64   `json:"payment_method_id"`
}

func ListExpenses(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var expenses []models.Expense
		if err := db.Preload("Category").Preload("PaymentMethod").Find(&expenses).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"expenses": expenses})
	}
}

func GetExpense(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var expense models.Expense
		err := db.Preload("Category").Preload("PaymentMethod").
			First(&expense, "id = ?", c.Param("id")).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "expense not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"expense": expense})
	}
}

func CreateExpense(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in expenseInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if in.Amount == nil || in.CategoryID == nil || in.PaymentMethodID == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount, category_id and payment_method_id are required"})
			return
		}

		if msg := checkExpenseRefs(db, in.CategoryID, in.PaymentMethodID); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}

		date := time.Now()
		if in.Date != "" {
			parsed, err := time.Parse("2006-01-02", in.Date)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
				return
			}
			date = parsed
		}

		expense := models.Expense{
			Amount:          *in.Amount,
			Date:            date,
			CategoryID:      *in.CategoryID,
			PaymentMethodID: *in.PaymentMethodID,
		}
		if in.Description != nil {
			expense.Description = *in.Description
		}

		if err := db.Create(&expense).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"expense": expense})
	}
}

func UpdateExpense(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var expense models.Expense
		err := db.First(&expense, "id = ?", c.Param("id")).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "expense not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		var in expenseInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if msg := checkExpenseRefs(db, in.CategoryID, in.PaymentMethodID); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}

		if in.Amount != nil {
			expense.Amount = *in.Amount
		}
		if in.Date != "" {
			parsed, err := time.Parse("2006-01-02", in.Date)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
				return
			}
			expense.Date = parsed
		}
		if in.Description != nil {
			expense.Description = *in.Description
		}
		if in.CategoryID != nil {
			expense.CategoryID = *in.CategoryID
		}
		if in.PaymentMethodID != nil {
			expense.PaymentMethodID = *in.PaymentMethodID
		}

		if err := db.Save(&expense).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"expense": expense})
	}
}

func DeleteExpense(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := db.Delete(&models.Expense{}, "id = ?", c.Param("id"))
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "expense not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}

// checkExpenseRefs validates that referenced category and payment method
// exist. Nil IDs are skipped (update semantics). Returns an error message or "".
func checkExpenseRefs(db *gorm.DB, categoryID, paymentMethodID *int64) string {
	if categoryID != nil {
		var n int64
		if err := db.Model(&models.Category{}).Where("id = ?", *categoryID).Count(&n).Error; err != nil {
			return err.Error()
		}
		if n == 0 {
			return "category does not exist"
		}
	}
	if paymentMethodID != nil {
		var n int64
		if err := db.Model(&models.PaymentMethod{}).Where("id = ?", *paymentMethodID).Count(&n).Error; err != nil {
			return err.Error()
		}
		if n == 0 {
			return "payment method does not exist"
		}
	}
	return ""
}

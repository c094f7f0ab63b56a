package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"expense_tracker/internal/models"
)

func ListBudgets(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Category")
		if month := c.Query("month"); month != "" {
			query = query.Where("month = ?", month)
		}
		var budgets []models.Budget
		if err := query.Order("month DESC").Find(&budgets).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"budgets": budgets})
	}
}

func GetBudget(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var budget models.Budget
		err := db.Preload("Category").First(&budget, "id = ?", c.Param("id")).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "budget not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"budget": budget})
	}
}

func CreateBudget(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			CategoryID int64   `json:"category_id" binding:"required"`
			Month      string  `json:"month" binding:"required"`
			Amount     float64 `json:"amount" binding:"required,gt=0"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if _, err := time.Parse("2006-01", in.Month); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
			return
		}

		var category models.Category
		if err := db.First(&category, "id = ?", in.CategoryID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "category does not exist"})
			return
		}

		var existing int64
		if err := db.Model(&models.Budget{}).
			Where("category_id = ? AND month = ?", in.CategoryID, in.Month).
			Count(&existing).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if existing > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "budget already exists for this category and month"})
			return
		}

		budget := models.Budget{CategoryID: in.CategoryID, Month: in.Month, Amount: in.Amount}
		if err := db.Create(&budget).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"budget": budget})
	}
}

func UpdateBudget(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var budget models.Budget
		err := db.First(&budget, "id = ?", c.Param("id")).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "budget not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		var in struct {
			Amount     *float64 `json:"amount" binding:"omitempty,gt=0"`
			CategoryID *int64   `json:"category_id"`
			Month      *string  `json:"month"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if in.Month != nil {
			if _, err := time.Parse("2006-01", *in.Month); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
				return
			}
		}
		if in.CategoryID != nil {
			var category models.Category
			if err := db.First(&category, "id = ?", *in.CategoryID).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "category does not exist"})
				return
			}
		}

		// Moving the budget must not land on another budget's category+month.
		if in.CategoryID != nil || in.Month != nil {
			newCategory := budget.CategoryID
			if in.CategoryID != nil {
				newCategory = *in.CategoryID
			}
			newMonth := budget.Month
			if in.Month != nil {
				newMonth = *in.Month
			}
			var existing int64
			if err := db.Model(&models.Budget{}).
				Where("category_id = ? AND month = ? AND id <> ?", newCategory, newMonth, budget.ID).
				Count(&existing).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if existing > 0 {
				c.JSON(http.StatusConflict, gin.H{"error": "budget already exists for this category and month"})
				return
			}
			budget.CategoryID = newCategory
			budget.Month = newMonth
		}

		if in.Amount != nil {
			budget.Amount = *in.Amount
		}

		if err := db.Save(&budget).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"budget": budget})
	}
}

func DeleteBudget(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := db.Delete(&models.Budget{}, "id = ?", c.Param("id"))
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "budget not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}

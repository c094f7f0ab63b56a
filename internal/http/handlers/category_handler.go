package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"expense_tracker/internal/models"
)

func ListCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []models.Category
		if err := db.Preload("Children").Find(&categories).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": categories})
	}
}

func GetCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		err := db.Preload("Parent").Preload("Children").
			First(&category, "id = ?", c.Param("id")).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"category": category})
	}
}

func CreateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Name     string `json:"name" binding:"required"`
			ParentID *int64 `json:"parent_id"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if in.ParentID != nil {
			var parent models.Category
			if err := db.First(&parent, "id = ?", *in.ParentID).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "parent category does not exist"})
				return
			}
		}

		category := models.Category{Name: in.Name, ParentID: in.ParentID}
		if err := db.Create(&category).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"category": category})
	}
}

func UpdateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		err := db.First(&category, "id = ?", c.Param("id")).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		var in struct {
			Name     *string `json:"name"`
			ParentID *int64  `json:"parent_id"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if in.ParentID != nil {
			cycle, err := wouldCreateCycle(db, category.ID, *in.ParentID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if cycle {
				c.JSON(http.StatusBadRequest, gin.H{"error": "parent assignment would create a cycle"})
				return
			}
			category.ParentID = in.ParentID
		}
		if in.Name != nil {
			category.Name = *in.Name
		}

		if err := db.Save(&category).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"category": category})
	}
}

func DeleteCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var children int64
		if err := db.Model(&models.Category{}).Where("parent_id = ?", id).Count(&children).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if children > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "category has child categories"})
			return
		}

		var expenses int64
		if err := db.Model(&models.Expense{}).Where("category_id = ?", id).Count(&expenses).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if expenses > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "category has expenses"})
			return
		}

		res := db.Delete(&models.Category{}, "id = ?", id)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}

// wouldCreateCycle walks the ancestry of the proposed parent. The schema
// itself does not forbid cycles, so the check lives here. The visited set
// keeps the walk finite even if stored data already contains a loop that
// bypassed this guard.
func wouldCreateCycle(db *gorm.DB, categoryID, parentID int64) (bool, error) {
	visited := map[int64]bool{}
	current := parentID
	for {
		if current == categoryID || visited[current] {
			return true, nil
		}
		visited[current] = true
		var parent models.Category
		err := db.Select("id", "parent_id").First(&parent, "id = ?", current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Nonexistent parent is caught by the FK; not a cycle.
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if parent.ParentID == nil {
			return false, nil
		}
		current = *parent.ParentID
	}
}

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"expense_tracker/internal/audit"
	"expense_tracker/internal/auth"
	"expense_tracker/internal/models"
)

// userResp is the safe response shape (no password hash).
type userResp struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

func toUserResp(u models.User) userResp {
	roleName := ""
	if u.Role != nil {
		roleName = u.Role.Name
	}
	return userResp{ID: u.ID, Email: u.Email, Role: roleName, IsActive: u.IsActive}
}

// ListUsers returns all users from DB
func ListUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.Preload("Role").Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		resp := make([]userResp, 0, len(users))
		for _, u := range users {
			resp = append(resp, toUserResp(u))
		}
		c.JSON(http.StatusOK, gin.H{"users": resp})
	}
}

// CreateUser inserts a new user
func CreateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
			Role     string `json:"role" binding:"required"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		in.Email = strings.TrimSpace(strings.ToLower(in.Email))

		if len(in.Password) < 8 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 8 characters"})
			return
		}

		var role models.Role
		if err := db.Where("name = ?", in.Role).First(&role).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
			return
		}

		var existing int64
		if err := db.Model(&models.User{}).Where("email = ?", in.Email).Count(&existing).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if existing > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
			return
		}

		user := models.User{
			ID:           uuid.NewString(),
			Email:        in.Email,
			PasswordHash: string(hash),
			RoleID:       role.ID,
			IsActive:     true,
		}
		if creatorID, ok := auth.UserID(c); ok {
			user.CreatedBy = &creatorID
		}

		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		audit.Record(db, c, "users.create", "user", user.ID, gin.H{"email": user.Email, "role": in.Role})
		user.Role = &role
		c.JSON(http.StatusCreated, gin.H{"user": toUserResp(user)})
	}
}

func setUserActive(db *gorm.DB, active bool, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		err := db.First(&user, "id = ?", c.Param("id")).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		user.IsActive = active
		if err := db.Save(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		audit.Record(db, c, action, "user", user.ID, nil)
		c.JSON(http.StatusOK, gin.H{"user": gin.H{"id": user.ID, "is_active": user.IsActive}})
	}
}

func ActivateUser(db *gorm.DB) gin.HandlerFunc {
	return setUserActive(db, true, "users.activate")
}

func DeactivateUser(db *gorm.DB) gin.HandlerFunc {
	return setUserActive(db, false, "users.deactivate")
}

// ChangePassword sets a new password for the target user.
func ChangePassword(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if len(in.Password) < 8 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 8 characters"})
			return
		}

		var user models.User
		err := db.First(&user, "id = ?", c.Param("id")).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
			return
		}
		user.PasswordHash = string(hash)
		user.PasswordChanged = true

		if err := db.Save(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		audit.Record(db, c, "users.change_password", "user", user.ID, nil)
		c.JSON(http.StatusOK, gin.H{"updated": true})
	}
}

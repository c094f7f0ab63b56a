package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"expense_tracker/internal/auth"
	"expense_tracker/internal/authz"
	"expense_tracker/internal/http/handlers"
)

func NewRouter(db *gorm.DB, logger *zap.Logger, jwtSecret string) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(logger))
	r.Use(gin.Recovery())

	r.GET("/health", handlers.Health(db))

	// Public routes
	r.POST("/api/v1/auth/login", handlers.Login(db, jwtSecret))

	// Protected API routes
	chk := authz.Checker{DB: db}
	authMW := auth.Authenticate(db, jwtSecret)

	api := r.Group("/api/v1", authMW)
	{
		// Current user info & permissions
		api.GET("/me", handlers.Me(db))

		// Expenses
		api.GET("/expenses", requirePermission(chk,"expenses:read"), handlers.ListExpenses(db))
		api.GET("/expenses/:id", requirePermission(chk,"expenses:read"), handlers.GetExpense(db))
		api.POST("/expenses", requirePermission(chk,"expenses:create"), handlers.CreateExpense(db))
		api.PUT("/expenses/:id", requirePermission(chk,"expenses:update"), handlers.UpdateExpense(db))
		api.DELETE("/expenses/:id", requirePermission(chk,"expenses:delete"), handlers.DeleteExpense(db))

		// Categories
		api.GET("/categories", requirePermission(chk,"categories:read"), handlers.ListCategories(db))
		api.GET("/categories/:id", requirePermission(chk,"categories:read"), handlers.GetCategory(db))
		api.POST("/categories", requirePermission(chk,"categories:create"), handlers.CreateCategory(db))
		api.PUT("/categories/:id", requirePermission(chk,"categories:update"), handlers.UpdateCategory(db))
		api.DELETE("/categories/:id", requirePermission(chk,"categories:delete"), handlers.DeleteCategory(db))

		// Payment methods
		api.GET("/payment-methods", requirePermission(chk,"payment_methods:read"), handlers.ListPaymentMethods(db))
		api.GET("/payment-methods/:id", requirePermission(chk,"payment_methods:read"), handlers.GetPaymentMethod(db))
		api.POST("/payment-methods", requirePermission(chk,"payment_methods:create"), handlers.CreatePaymentMethod(db))
		api.PUT("/payment-methods/:id", requirePermission(chk,"payment_methods:update"), handlers.UpdatePaymentMethod(db))
		api.DELETE("/payment-methods/:id", requirePermission(chk,"payment_methods:delete"), handlers.DeletePaymentMethod(db))

		// Budgets
		api.GET("/budgets", requirePermission(chk,"budgets:read"), handlers.ListBudgets(db))
		api.GET("/budgets/:id", requirePermission(chk,"budgets:read"), handlers.GetBudget(db))
		api.POST("/budgets", requirePermission(chk,"budgets:create"), handlers.CreateBudget(db))
		api.PUT("/budgets/:id", requirePermission(chk,"budgets:update"), handlers.UpdateBudget(db))
		api.DELETE("/budgets/:id", requirePermission(chk,"budgets:delete"), handlers.DeleteBudget(db))

		// Users
		api.GET("/users", requirePermission(chk,"users:read"), handlers.ListUsers(db))
		api.POST("/users", requirePermission(chk,"users:create"), handlers.CreateUser(db))
		api.POST("/users/:id/activate", requirePermission(chk,"users:update"), handlers.ActivateUser(db))
		api.POST("/users/:id/deactivate", requirePermission(chk,"users:update"), handlers.DeactivateUser(db))
		api.POST("/users/:id/password", requirePermission(chk,"users:update"), handlers.ChangePassword(db))

		// Permission assignment
		api.GET("/permissions", requirePermission(chk,"roles:read"), handlers.ListPermissions(db))
		api.POST("/users/:id/permissions/grant-all", requirePermission(chk,"users:update"), handlers.GrantAllToUser(db))
		api.POST("/users/:id/permissions/revoke-all", requirePermission(chk,"users:update"), handlers.RevokeAllFromUser(db))
		api.POST("/api-keys/:id/permissions/grant-all", requirePermission(chk,"api_keys:update"), handlers.GrantAllToAPIKey(db))
		api.POST("/api-keys/:id/permissions/revoke-all", requirePermission(chk,"api_keys:update"), handlers.RevokeAllFromAPIKey(db))

		// API keys
		api.GET("/api-keys", requirePermission(chk,"api_keys:read"), handlers.ListAPIKeys(db))
		api.POST("/api-keys", requirePermission(chk,"api_keys:create"), handlers.CreateAPIKey(db))
		api.POST("/api-keys/:id/revoke", requirePermission(chk,"api_keys:delete"), handlers.RevokeAPIKey(db))

		// Audit trail (admin-ish: gated on the users feature)
		api.GET("/audit", requirePermission(chk,"users:read"), handlers.ListAudit(db))
	}

	return r
}

// requirePermission gates a route on one permission name, for whichever
// identity (user JWT or API key) authenticated the request.
func requirePermission(chk authz.Checker, permName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ok bool
		var err error
		if keyID, isKey := auth.APIKeyID(c); isKey {
			ok, err = chk.KeyCan(c, keyID, permName)
		} else if userID, isUser := auth.UserID(c); isUser {
			ok, err = chk.Can(c, userID, permName)
		}
		if err != nil || !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden", "missing": permName})
			return
		}
		c.Next()
	}
}

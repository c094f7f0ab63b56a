package seed

import (
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"expense_tracker/internal/models"
)

// Role catalog names. Users reference exactly one role.
const (
	RoleAdmin    = "Admin"
	RoleUser     = "User"
	RoleTestUser = "TestUser"
)

const (
	DefaultAdminEmail    = "admin@example.com"
	defaultAdminPassword = "admin123" // change after first login
)

// EnsureRoles makes sure the role catalog exists and returns name -> id.
func EnsureRoles(db *gorm.DB) (map[string]string, error) {
	roles := []models.Role{
		{Name: RoleAdmin, Description: "Administrator with full access"},
		{Name: RoleUser, Description: "Standard user"},
		{Name: RoleTestUser, Description: "Throwaway account for testing"},
	}

	ids := make(map[string]string, len(roles))
	for _, r := range roles {
		// The UUID lives in Attrs so it only applies on create; a pre-set
		// primary key on the dest would leak into the lookup and miss the
		// existing row.
		var role models.Role
		err := db.Where("name = ?", r.Name).
			Attrs(models.Role{ID: uuid.NewString(), Name: r.Name, Description: r.Description}).
			FirstOrCreate(&role).Error
		if err != nil {
			return nil, err
		}
		ids[r.Name] = role.ID
	}
	return ids, nil
}

// EnsureAdminUser creates the default admin account when none exists yet.
func EnsureAdminUser(db *gorm.DB, adminRoleID string) (*models.User, error) {
	passHash, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var admin models.User
	err = db.Where("email = ?", DefaultAdminEmail).
		Attrs(models.User{
			ID:           uuid.NewString(),
			Email:        DefaultAdminEmail,
			PasswordHash: string(passHash),
			RoleID:       adminRoleID,
			IsActive:     true,
		}).
		FirstOrCreate(&admin).Error
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Seed OK | admin=%s pass=%s | roles=[Admin,User,TestUser]",
		DefaultAdminEmail, defaultAdminPassword)
	return &admin, nil
}

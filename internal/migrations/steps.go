package migrations

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"expense_tracker/internal/authz"
	"expense_tracker/internal/models"
	"expense_tracker/internal/seed"
)

// All is the revision chain, applied in order. IDs are timestamps so the
// chain reads chronologically.
var All = []Migration{
	{
		ID:      "20250503150000",
		Label:   "initialize tables",
		Migrate: initializeTables,
		Rollback: func(tx *gorm.DB) error {
			// Reverse dependency order so FK constraints don't block the drops.
			for i := len(models.All()) - 1; i >= 0; i-- {
				if err := tx.Migrator().DropTable(models.All()[i]); err != nil {
					return err
				}
			}
			return nil
		},
	},
	{
		ID:       "20250506100000",
		Label:    "seed permission catalog",
		Migrate:  seedPermissionCatalog,
		Rollback: dropPermissionCatalog,
	},
	{
		ID:      "20250704120000",
		Label:   "seed roles and default admin user",
		Migrate: seedRolesAndAdmin,
		Rollback: func(tx *gorm.DB) error {
			// Remove the default admin's grants, then the user. Seeded roles stay:
			// later users may reference them.
			var admin models.User
			err := tx.Where("email = ?", seed.DefaultAdminEmail).First(&admin).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			if _, err := authz.RevokeAllFromUser(tx, admin.ID); err != nil {
				return err
			}
			return tx.Delete(&admin).Error
		},
	},
	{
		ID:      "20250705090000",
		Label:   "seed initial payment methods",
		Migrate: seedPaymentMethods,
		Rollback: func(tx *gorm.DB) error {
			return tx.Where("name IN ?", defaultPaymentMethods).
				Delete(&models.PaymentMethod{}).Error
		},
	},
	{
		ID:      "20250718133221",
		Label:   "assign all permissions to admin users",
		Migrate: grantAdminPermissions,
		Rollback: func(tx *gorm.DB) error {
			admins, err := adminUsers(tx)
			if err != nil {
				return err
			}
			for _, u := range admins {
				removed, err := authz.RevokeAllFromUser(tx, u.ID)
				if err != nil {
					return err
				}
				log.Printf("🗑️ removed %d permissions from admin user %s", removed, u.Email)
			}
			return nil
		},
	},
	{
		ID:      "20250721100000",
		Label:   "seed admin API key with all permissions",
		Migrate: seedAdminAPIKey,
		// Irreversible: the generated key is not re-derivable, and deleting
		// "the" admin key later could remove a rotated production credential.
	},
	{
		ID:      "20250821120000",
		Label:   "sync action catalog from enum",
		Migrate: syncActionCatalog,
		// Irreversible by contract: enum-sync steps only converge forward.
	},
	{
		ID:      "20250821123000",
		Label:   "sync feature catalog from enum",
		Migrate: syncFeatureCatalog,
		// Irreversible by contract: enum-sync steps only converge forward.
	},
}

func initializeTables(tx *gorm.DB) error {
	return tx.AutoMigrate(models.All()...)
}

// seedPermissionCatalog brings features/actions/permissions up from an empty
// database. Reconciling against the enums from scratch is the same operation
// as the initial seed, so the reconciler does the work.
func seedPermissionCatalog(tx *gorm.DB) error {
	res, err := authz.Reconciler{DB: tx}.Reconcile(authz.Features, authz.Actions)
	if err != nil {
		return err
	}
	log.Printf("✅ permission catalog seeded | features=%d actions=%d permissions=%d",
		len(res.Features.Added), len(res.Actions.Added), res.PermissionsAdded)
	return nil
}

func dropPermissionCatalog(tx *gorm.DB) error {
	for _, stmt := range []string{
		"DELETE FROM api_key_permissions",
		"DELETE FROM user_permissions",
		"DELETE FROM permissions",
		"DELETE FROM actions",
		"DELETE FROM features",
	} {
		if err := tx.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedRolesAndAdmin(tx *gorm.DB) error {
	roleIDs, err := seed.EnsureRoles(tx)
	if err != nil {
		return err
	}
	_, err = seed.EnsureAdminUser(tx, roleIDs[seed.RoleAdmin])
	return err
}

var defaultPaymentMethods = []string{"cash", "credit_card", "debit_card", "bank_transfer"}

func seedPaymentMethods(tx *gorm.DB) error {
	for _, name := range defaultPaymentMethods {
		pm := models.PaymentMethod{Name: name}
		if err := tx.Where("name = ?", name).FirstOrCreate(&pm).Error; err != nil {
			return err
		}
	}
	return nil
}

// grantAdminPermissions gives every admin user the full permission set.
// Missing prerequisites (no admin role, no admin users, no permissions) are
// valid empty states: the step logs a skip and returns without error.
func grantAdminPermissions(tx *gorm.DB) error {
	admins, err := adminUsers(tx)
	if err != nil {
		return err
	}
	if len(admins) == 0 {
		log.Println("⚠️ no admin users found, skipping permission assignment")
		return nil
	}

	var permCount int64
	if err := tx.Model(&models.Permission{}).Count(&permCount).Error; err != nil {
		return err
	}
	if permCount == 0 {
		log.Println("⚠️ no permissions found, skipping permission assignment")
		return nil
	}

	total := 0
	for _, u := range admins {
		granted, err := authz.GrantAllToUser(tx, u.ID)
		if err != nil {
			return err
		}
		total += granted
	}
	log.Printf("✅ assigned %d permissions to %d admin users", total, len(admins))
	return nil
}

func adminUsers(tx *gorm.DB) ([]models.User, error) {
	var role models.Role
	err := tx.Where("name = ?", seed.RoleAdmin).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Println("⚠️ admin role not found, skipping")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := tx.Where("role_id = ?", role.ID).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func seedAdminAPIKey(tx *gorm.DB) error {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return err
	}
	keyString := base64.RawURLEncoding.EncodeToString(b)

	key := models.APIKey{ID: uuid.NewString(), Key: keyString, IsActive: true}
	if err := tx.Create(&key).Error; err != nil {
		return err
	}
	granted, err := authz.GrantAllToAPIKey(tx, key.ID)
	if err != nil {
		return err
	}

	// Shown once, in the migration log only.
	log.Println("============================================")
	log.Printf("🔑 Created admin API key: %s (%d permissions)", keyString, granted)
	log.Println("Please store this key safely, it won't be shown again.")
	log.Println("============================================")
	return nil
}

func syncActionCatalog(tx *gorm.DB) error {
	rec := authz.Reconciler{DB: tx}
	if _, err := rec.SyncActions(authz.Actions); err != nil {
		return err
	}
	_, err := rec.RebuildPermissions()
	return err
}

func syncFeatureCatalog(tx *gorm.DB) error {
	rec := authz.Reconciler{DB: tx}
	if _, err := rec.SyncFeatures(authz.Features); err != nil {
		return err
	}
	_, err := rec.RebuildPermissions()
	return err
}

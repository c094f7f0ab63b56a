package authz

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"expense_tracker/internal/models"
)

// GrantAllToUser grants the user every extant permission it does not already
// hold. Returns the number of grants inserted; never inserts a duplicate.
func GrantAllToUser(db *gorm.DB, userID string) (int, error) {
	var permIDs []string
	if err := db.Model(&models.Permission{}).Pluck("id", &permIDs).Error; err != nil {
		return 0, err
	}

	var held []string
	if err := db.Model(&models.UserPermission{}).
		Where("user_id = ?", userID).
		Pluck("permission_id", &held).Error; err != nil {
		return 0, err
	}
	has := make(map[string]struct{}, len(held))
	for _, id := range held {
		has[id] = struct{}{}
	}

	granted := 0
	for _, pid := range permIDs {
		if _, ok := has[pid]; ok {
			continue
		}
		up := models.UserPermission{ID: uuid.NewString(), UserID: userID, PermissionID: pid}
		if err := db.Create(&up).Error; err != nil {
			return granted, err
		}
		granted++
	}
	return granted, nil
}

// RevokeAllFromUser deletes every grant of the user and reports the count.
func RevokeAllFromUser(db *gorm.DB, userID string) (int64, error) {
	res := db.Where("user_id = ?", userID).Delete(&models.UserPermission{})
	return res.RowsAffected, res.Error
}

// GrantAllToAPIKey grants the API key every extant permission it does not
// already hold, skipping pairs already present.
func GrantAllToAPIKey(db *gorm.DB, apiKeyID string) (int, error) {
	var permIDs []string
	if err := db.Model(&models.Permission{}).Pluck("id", &permIDs).Error; err != nil {
		return 0, err
	}

	var held []string
	if err := db.Model(&models.APIKeyPermission{}).
		Where("api_key_id = ?", apiKeyID).
		Pluck("permission_id", &held).Error; err != nil {
		return 0, err
	}
	has := make(map[string]struct{}, len(held))
	for _, id := range held {
		has[id] = struct{}{}
	}

	granted := 0
	for _, pid := range permIDs {
		if _, ok := has[pid]; ok {
			continue
		}
		kp := models.APIKeyPermission{APIKeyID: apiKeyID, PermissionID: pid}
		if err := db.Create(&kp).Error; err != nil {
			return granted, err
		}
		granted++
	}
	return granted, nil
}

// RevokeAllFromAPIKey deletes every grant of the API key and reports the count.
func RevokeAllFromAPIKey(db *gorm.DB, apiKeyID string) (int64, error) {
	res := db.Where("api_key_id = ?", apiKeyID).Delete(&models.APIKeyPermission{})
	return res.RowsAffected, res.Error
}

// UserPermissionNames resolves the user's grants to "feature:action" names.
func UserPermissionNames(db *gorm.DB, userID string) ([]string, error) {
	type pair struct {
		Feature string
		Action  string
	}
	var pairs []pair
	err := db.Table("user_permissions up").
		Joins("JOIN permissions p ON p.id = up.permission_id").
		Joins("JOIN features f ON f.id = p.feature_id").
		Joins("JOIN actions a ON a.id = p.action_id").
		Where("up.user_id = ?", userID).
		Order("f.name, a.name").
		Select("f.name AS feature, a.name AS action").
		Scan(&pairs).Error
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(pairs))
	for _, p := range pairs {
		names = append(names, PermissionName(p.Feature, p.Action))
	}
	return names, nil
}

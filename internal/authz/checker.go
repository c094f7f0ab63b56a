package authz

import (
	"context"

	"gorm.io/gorm"
)

// Checker answers permission questions for users and API keys.
type Checker struct {
	DB *gorm.DB
}

// Can reports whether the user holds the named permission ("expenses:read").
func (c Checker) Can(ctx context.Context, userID, permName string) (bool, error) {
	feature, action, ok := splitPermissionName(permName)
	if !ok {
		return false, nil
	}
	var count int64
	err := c.DB.WithContext(ctx).
		Table("user_permissions up").
		Joins("JOIN permissions p ON p.id = up.permission_id").
		Joins("JOIN features f ON f.id = p.feature_id").
		Joins("JOIN actions a ON a.id = p.action_id").
		Where("up.user_id = ? AND f.name = ? AND a.name = ?", userID, feature, action).
		Count(&count).Error
	return count > 0, err
}

// KeyCan reports whether the API key holds the named permission.
func (c Checker) KeyCan(ctx context.Context, apiKeyID, permName string) (bool, error) {
	feature, action, ok := splitPermissionName(permName)
	if !ok {
		return false, nil
	}
	var count int64
	err := c.DB.WithContext(ctx).
		Table("api_key_permissions kp").
		Joins("JOIN permissions p ON p.id = kp.permission_id").
		Joins("JOIN features f ON f.id = p.feature_id").
		Joins("JOIN actions a ON a.id = p.action_id").
		Where("kp.api_key_id = ? AND f.name = ? AND a.name = ?", apiKeyID, feature, action).
		Count(&count).Error
	return count > 0, err
}

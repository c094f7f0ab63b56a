package models

// All returns every model in FK dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Role{},
		&User{},
		&Feature{},
		&Action{},
		&Permission{},
		&UserPermission{},
		&APIKey{},
		&APIKeyPermission{},
		&Category{},
		&PaymentMethod{},
		&Expense{},
		&Budget{},
		&AuditLog{},
	}
}

package tenant

import "gorm.io/gorm"

// Scope restricts a query to one company. Every tenant-owned lookup goes
// through this so a caller can never read across the boundary.
func Scope(companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}

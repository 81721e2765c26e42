package company

import (
	"time"

	"github.com/google/uuid"
)

// Company is the tenant boundary. It is created exactly once by the
// first-user bootstrap and never mutated afterwards.
type Company struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(150);not null"`
	Country   string    `gorm:"type:varchar(100);not null"`
	Currency  string    `gorm:"type:varchar(10);not null"`
	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Company) TableName() string {
	return "companies"
}

package user

import (
	"time"

	"go-accounts/internal/company"
	"go-accounts/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID   `gorm:"type:uuid;not null;index"`
	Name      string      `gorm:"type:varchar(255);not null"`
	Email     string      `gorm:"type:varchar(255);not null;uniqueIndex:uq_user_email"`
	Password  string      `gorm:"type:text;not null"`
	Role      domain.Role `gorm:"type:varchar(50);not null;default:'Employee'"`
	IsActive  bool        `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Company *company.Company `gorm:"foreignKey:CompanyID"`
}

func (User) TableName() string {
	return "users"
}

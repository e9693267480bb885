package Models

import (
	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User holds the credit balance every purchase and reward settles against.
// Password is a bcrypt hash and is opaque to everything outside the login flow.
type User struct {
	UID      string          `json:"uid" gorm:"primaryKey;type:varchar(36)"`
	Name     string          `json:"name" gorm:"type:varchar(255);not null"`
	Role     Role            `json:"role" gorm:"type:varchar(50);not null;default:USER"`
	Email    string          `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Password string          `json:"-" gorm:"type:varchar(255);not null"`
	Credit   decimal.Decimal `json:"credit" gorm:"type:numeric(10,2);default:0"`
	IsActive bool            `json:"is_active" gorm:"default:true"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

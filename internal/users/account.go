package users

import (
	"strings"
	"time"
)

// Account is one administrative login known to the service.
type Account struct {
	Username    string    `gorm:"column:username;primaryKey;size:190;not null"`
	DisplayName string    `gorm:"column:display_name;size:320"`
	LastLoginAt time.Time `gorm:"column:last_login_at"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName exposes the table backing admin accounts.
func (Account) TableName() string {
	return "admin_accounts"
}

func normalize(value string) string {
	return strings.TrimSpace(value)
}

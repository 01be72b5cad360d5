package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel is the local user directory; uploads reference it only for
// audit attribution. Account management itself lives elsewhere.
type UserModel struct {
	UserID   uuid.UUID `gorm:"column:id;primaryKey;type:uuid;default:gen_random_uuid()"`
	FullName string    `gorm:"column:full_name;not null"`
	Email    string    `gorm:"column:email;not null;uniqueIndex"`

	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (UserModel) TableName() string {
	return "users"
}

package model

import (
	"time"

	"github.com/google/uuid"
)

type ProgramModel struct {
	ProgramID      uuid.UUID `gorm:"column:id;primaryKey;type:uuid;default:gen_random_uuid()"`
	ProgramCode    string    `gorm:"column:program_code;not null"`
	ProgramName    string    `gorm:"column:program_name;not null"`
	InstitutionsID uuid.UUID `gorm:"column:institutions_id;type:uuid;not null"`

	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProgramModel) TableName() string {
	return "programs"
}

package model

import (
	"time"

	"github.com/google/uuid"
)

type ExaminationSessionModel struct {
	ExaminationSessionID uuid.UUID `gorm:"column:id;primaryKey;type:uuid;default:gen_random_uuid()"`
	SessionName          string    `gorm:"column:session_name;not null"`
	SessionCode          string    `gorm:"column:session_code;not null"`
	InstitutionsID       uuid.UUID `gorm:"column:institutions_id;type:uuid;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ExaminationSessionModel) TableName() string {
	return "examination_sessions"
}

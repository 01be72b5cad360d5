package model

import (
	"time"

	"github.com/google/uuid"
)

type CourseModel struct {
	CourseID        uuid.UUID `gorm:"column:id;primaryKey;type:uuid;default:gen_random_uuid()"`
	CourseCode      string    `gorm:"column:course_code;not null"`
	CourseName      string    `gorm:"column:course_name;not null"`
	InstitutionsID  uuid.UUID `gorm:"column:institutions_id;type:uuid;not null"`
	InternalMaxMark int       `gorm:"column:internal_max_mark;not null;default:100"`

	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CourseModel) TableName() string {
	return "courses"
}

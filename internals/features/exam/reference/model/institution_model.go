package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type InstitutionModel struct {
	InstitutionID   uuid.UUID `gorm:"column:id;primaryKey;type:uuid;default:gen_random_uuid()"`
	InstitutionName string    `gorm:"column:name;not null"`
	InstitutionCode string    `gorm:"column:institution_code;not null;uniqueIndex"`

	// External ids of the same institution in the upstream student
	// information system; used during enrollment sync, read-only here.
	ExternalInstitutionIDs pq.StringArray `gorm:"column:external_institution_ids;type:text[]"`

	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (InstitutionModel) TableName() string {
	return "institutions"
}

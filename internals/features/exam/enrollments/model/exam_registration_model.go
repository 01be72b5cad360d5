package model

import (
	"time"

	"github.com/google/uuid"
)

// ExamRegistrationModel is one student's confirmed registration for one
// course offering in one examination session. Owned by the enrollment
// subsystem; the marks pipeline only ever reads it.
type ExamRegistrationModel struct {
	ExamRegistrationID   uuid.UUID  `gorm:"column:id;primaryKey;type:uuid;default:gen_random_uuid()"`
	StuRegisterNo        string     `gorm:"column:stu_register_no;not null"`
	StudentID            uuid.UUID  `gorm:"column:student_id;type:uuid;not null"`
	StudentName          string     `gorm:"column:student_name;not null"`
	CourseID             uuid.UUID  `gorm:"column:course_id;type:uuid;not null"`
	CourseCode           string     `gorm:"column:course_code;not null"` // denormalized from course_offerings
	CourseOfferingID     uuid.UUID  `gorm:"column:course_offering_id;type:uuid;not null"`
	ProgramID            *uuid.UUID `gorm:"column:program_id;type:uuid"`
	ProgramCode          *string    `gorm:"column:program_code"`
	ExaminationSessionID uuid.UUID  `gorm:"column:examination_session_id;type:uuid;not null"`
	InstitutionsID       uuid.UUID  `gorm:"column:institutions_id;type:uuid;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ExamRegistrationModel) TableName() string {
	return "exam_registrations"
}

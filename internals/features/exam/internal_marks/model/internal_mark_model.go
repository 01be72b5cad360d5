package model

import (
	"time"

	"github.com/google/uuid"
)

// InternalMarkModel is the persisted marks ledger entry: at most one
// active row per (institution, student, course). Components are nullable;
// total_internal_marks always equals the sum of the non-null components.
type InternalMarkModel struct {
	InternalMarkID       uuid.UUID  `gorm:"column:id;primaryKey;type:uuid;default:gen_random_uuid()"`
	InstitutionsID       uuid.UUID  `gorm:"column:institutions_id;type:uuid;not null"`
	ExaminationSessionID *uuid.UUID `gorm:"column:examination_session_id;type:uuid"`
	ProgramID            *uuid.UUID `gorm:"column:program_id;type:uuid"`
	ProgramCode          *string    `gorm:"column:program_code"`
	CourseID             uuid.UUID  `gorm:"column:course_id;type:uuid;not null"`
	CourseOfferingID     *uuid.UUID `gorm:"column:course_offering_id;type:uuid"`
	ExamRegistrationID   *uuid.UUID `gorm:"column:exam_registration_id;type:uuid"`
	StudentID            uuid.UUID  `gorm:"column:student_id;type:uuid;not null"`

	AssignmentMarks   *int `gorm:"column:assignment_marks"`
	QuizMarks         *int `gorm:"column:quiz_marks"`
	MidTermMarks      *int `gorm:"column:mid_term_marks"`
	PresentationMarks *int `gorm:"column:presentation_marks"`
	AttendanceMarks   *int `gorm:"column:attendance_marks"`
	LabMarks          *int `gorm:"column:lab_marks"`
	ProjectMarks      *int `gorm:"column:project_marks"`
	SeminarMarks      *int `gorm:"column:seminar_marks"`
	VivaMarks         *int `gorm:"column:viva_marks"`
	OtherMarks        *int `gorm:"column:other_marks"`
	Test1Mark         *int `gorm:"column:test_1_mark"`
	Test2Mark         *int `gorm:"column:test_2_mark"`
	Test3Mark         *int `gorm:"column:test_3_mark"`

	TotalInternalMarks int      `gorm:"column:total_internal_marks;not null;default:0"`
	MaxInternalMarks   int      `gorm:"column:max_internal_marks;not null;default:100"`
	InternalPercentage *float64 `gorm:"column:internal_percentage"`
	MarksStatus        string   `gorm:"column:marks_status;not null;default:'Draft'"`
	Remarks            *string  `gorm:"column:remarks"`

	SubmittedBy    *uuid.UUID `gorm:"column:submitted_by;type:uuid"`
	SubmissionDate *time.Time `gorm:"column:submission_date;type:date"`

	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (InternalMarkModel) TableName() string {
	return "internal_marks"
}

// ComponentSum recomputes the total from the components currently set.
func (m *InternalMarkModel) ComponentSum() int {
	sum := 0
	for _, v := range []*int{
		m.AssignmentMarks, m.QuizMarks, m.MidTermMarks, m.PresentationMarks,
		m.AttendanceMarks, m.LabMarks, m.ProjectMarks, m.SeminarMarks,
		m.VivaMarks, m.OtherMarks, m.Test1Mark, m.Test2Mark, m.Test3Mark,
	} {
		if v != nil {
			sum += *v
		}
	}
	return sum
}

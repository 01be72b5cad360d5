package dto

import (
	"time"

	"github.com/google/uuid"
)

/* ===============================
   Request DTOs
=================================*/

// BulkUploadRequest carries one decoded marks file plus its scope.
// The institution comes either as an id or as an institution code to
// resolve; rows are mandatory. The remaining scope fields only decide
// whether a batch audit record can be created.
type BulkUploadRequest struct {
	InstitutionID        uuid.UUID  `json:"institution_id"`
	InstitutionCode      *string    `json:"institution_code,omitempty"`
	ExaminationSessionID *uuid.UUID `json:"examination_session_id,omitempty"`
	ProgramID            *uuid.UUID `json:"program_id,omitempty"`
	CourseID             *uuid.UUID `json:"course_id,omitempty"`
	CourseOfferingID     *uuid.UUID `json:"course_offering_id,omitempty"`

	Rows []ScoreRow `json:"rows" validate:"required,min=1"`

	FileName *string `json:"file_name,omitempty"`
	FileSize *int64  `json:"file_size,omitempty"`
	FileType *string `json:"file_type,omitempty"`

	UploaderID    *uuid.UUID `json:"uploader_id,omitempty"`
	UploaderEmail *string    `json:"uploader_email,omitempty" validate:"omitempty,email"`
}

// SingleMarkRequest records one component value for one student/course.
type SingleMarkRequest struct {
	InstitutionID        uuid.UUID  `json:"institution_id" validate:"required"`
	ExaminationSessionID *uuid.UUID `json:"examination_session_id,omitempty"`
	ProgramID            *uuid.UUID `json:"program_id,omitempty"`
	CourseID             uuid.UUID  `json:"course_id" validate:"required"`
	StudentID            uuid.UUID  `json:"student_id" validate:"required"`
	InternalType         string     `json:"internal_type" validate:"required"`
	Marks                int        `json:"marks" validate:"min=0"`
}

// BulkDeleteRequest soft-deletes a set of ledger rows.
type BulkDeleteRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1"`
}

/* ===============================
   Row outcomes
=================================*/

// RowError is a write-time failure for one row.
type RowError struct {
	Row        int    `json:"row"`
	RegisterNo string `json:"register_no"`
	CourseCode string `json:"course_code"`
	Error      string `json:"error"`
}

// RowValidationError is a pre-write rejection for one row, with every
// reason the row failed.
type RowValidationError struct {
	Row        int      `json:"row"`
	RegisterNo string   `json:"register_no"`
	CourseCode string   `json:"course_code"`
	Errors     []string `json:"errors"`
}

/* ===============================
   Response DTOs
=================================*/

// BulkUploadResult is the only output the caller ever inspects: a
// complete accounting of the batch plus enough per-row detail to correct
// and resubmit just the failing rows.
type BulkUploadResult struct {
	BatchID          *uuid.UUID           `json:"batch_id"`
	Status           string               `json:"status"`
	Total            int                  `json:"total"`
	Successful       int                  `json:"successful"`
	Failed           int                  `json:"failed"`
	Skipped          int                  `json:"skipped"`
	Errors           []RowError           `json:"errors"`
	ValidationErrors []RowValidationError `json:"validation_errors"`
}

// InternalMarkDTO is the ledger row enriched with display labels joined
// from reference data, for the list screens.
type InternalMarkDTO struct {
	InternalMarkID       uuid.UUID  `json:"id" gorm:"column:id"`
	InstitutionsID       uuid.UUID  `json:"institutions_id" gorm:"column:institutions_id"`
	ExaminationSessionID *uuid.UUID `json:"examination_session_id" gorm:"column:examination_session_id"`
	ProgramCode          *string    `json:"program_code" gorm:"column:program_code"`
	CourseID             uuid.UUID  `json:"course_id" gorm:"column:course_id"`
	StudentID            uuid.UUID  `json:"student_id" gorm:"column:student_id"`

	AssignmentMarks   *int `json:"assignment_marks" gorm:"column:assignment_marks"`
	QuizMarks         *int `json:"quiz_marks" gorm:"column:quiz_marks"`
	MidTermMarks      *int `json:"mid_term_marks" gorm:"column:mid_term_marks"`
	PresentationMarks *int `json:"presentation_marks" gorm:"column:presentation_marks"`
	AttendanceMarks   *int `json:"attendance_marks" gorm:"column:attendance_marks"`
	LabMarks          *int `json:"lab_marks" gorm:"column:lab_marks"`
	ProjectMarks      *int `json:"project_marks" gorm:"column:project_marks"`
	SeminarMarks      *int `json:"seminar_marks" gorm:"column:seminar_marks"`
	VivaMarks         *int `json:"viva_marks" gorm:"column:viva_marks"`
	OtherMarks        *int `json:"other_marks" gorm:"column:other_marks"`
	Test1Mark         *int `json:"test_1_mark" gorm:"column:test_1_mark"`
	Test2Mark         *int `json:"test_2_mark" gorm:"column:test_2_mark"`
	Test3Mark         *int `json:"test_3_mark" gorm:"column:test_3_mark"`

	TotalInternalMarks int      `json:"total_internal_marks" gorm:"column:total_internal_marks"`
	MaxInternalMarks   int      `json:"max_internal_marks" gorm:"column:max_internal_marks"`
	InternalPercentage *float64 `json:"internal_percentage" gorm:"column:internal_percentage"`
	MarksStatus        string   `json:"marks_status" gorm:"column:marks_status"`
	Remarks            *string  `json:"remarks" gorm:"column:remarks"`

	RegisterNo      string `json:"register_no" gorm:"column:register_no"`
	StudentName     string `json:"student_name" gorm:"column:student_name"`
	CourseCode      string `json:"course_code" gorm:"column:course_code"`
	CourseName      string `json:"course_name" gorm:"column:course_name"`
	SessionName     string `json:"session_name" gorm:"column:session_name"`
	InstitutionCode string `json:"institution_code" gorm:"column:institution_code"`
	InstitutionName string `json:"institution_name" gorm:"column:institution_name"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

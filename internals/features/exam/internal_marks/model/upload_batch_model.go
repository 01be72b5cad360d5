package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UploadBatchModel is the audit record for one submitted marks file.
// Invariant: file_hash is unique within its scope, so a byte-identical
// resubmission is rejected before any row is processed.
type UploadBatchModel struct {
	UploadBatchID        uuid.UUID `gorm:"column:id;primaryKey;type:uuid;default:gen_random_uuid()"`
	InstitutionsID       uuid.UUID `gorm:"column:institutions_id;type:uuid;not null"`
	ExaminationSessionID uuid.UUID `gorm:"column:examination_session_id;type:uuid;not null"`
	CourseOfferingID     uuid.UUID `gorm:"column:course_offering_id;type:uuid;not null"`
	ProgramID            uuid.UUID `gorm:"column:program_id;type:uuid;not null"`
	CourseID             uuid.UUID `gorm:"column:course_id;type:uuid;not null"`

	UploadType        string `gorm:"column:upload_type;not null;default:'Marks'"`
	TotalRecords      int    `gorm:"column:total_records;not null;default:0"`
	SuccessfulRecords int    `gorm:"column:successful_records;not null;default:0"`
	FailedRecords     int    `gorm:"column:failed_records;not null;default:0"`
	SkippedRecords    int    `gorm:"column:skipped_records;not null;default:0"`

	FileName string `gorm:"column:file_name;not null"`
	FileSize int64  `gorm:"column:file_size;not null;default:0"`
	FileType string `gorm:"column:file_type;not null"`
	FileHash string `gorm:"column:file_hash;not null;uniqueIndex:uq_upload_batches_scope_hash"`

	UploadStatus     string         `gorm:"column:upload_status;not null;default:'Pending'"`
	ErrorDetails     datatypes.JSON `gorm:"column:error_details;type:jsonb"`
	ValidationErrors datatypes.JSON `gorm:"column:validation_errors;type:jsonb"`
	UploadMetadata   datatypes.JSON `gorm:"column:upload_metadata;type:jsonb"`
	ProcessingNotes  *string        `gorm:"column:processing_notes"`

	UploadedBy *uuid.UUID `gorm:"column:uploaded_by;type:uuid"`

	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (UploadBatchModel) TableName() string {
	return "marks_upload_batches"
}

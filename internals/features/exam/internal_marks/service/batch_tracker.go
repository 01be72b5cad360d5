package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"coe_backend/internals/constants"
	"coe_backend/internals/features/exam/internal_marks/dto"
	"coe_backend/internals/features/exam/internal_marks/model"
)

// BatchStore persists the audit record for one submitted file.
type BatchStore interface {
	// FindByScopeAndHash returns an existing batch with the same content
	// hash in the same scope, or nil.
	FindByScopeAndHash(ctx context.Context, batch *model.UploadBatchModel) (*model.UploadBatchModel, error)
	Insert(ctx context.Context, batch *model.UploadBatchModel) error
	Finalize(ctx context.Context, batch *model.UploadBatchModel) error
}

// BatchTracker owns the upload lifecycle: the duplicate-file guard, the
// Pending record, and the single terminal-state transition. Tracking is
// an audit convenience, not a precondition: with incomplete scope the
// pipeline runs untracked.
type BatchTracker struct {
	Store BatchStore
	Log   *log.Logger
}

func NewBatchTracker(store BatchStore, logger *log.Logger) *BatchTracker {
	return &BatchTracker{Store: store, Log: logger}
}

// HashRows hashes the serialized row set; a network retry of the same
// unchanged file must never double-write.
func HashRows(rows []dto.ScoreRow) (hash string, size int64, err error) {
	content, err := sonic.Marshal(rows)
	if err != nil {
		return "", 0, err
	}
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:]), int64(len(content)), nil
}

// Begin applies the duplicate-file guard and creates the Pending batch.
// Returns nil (no batch) when scope is incomplete. A DuplicateFile error
// aborts the whole submission; any other insert failure only disables
// tracking for this run.
func (t *BatchTracker) Begin(ctx context.Context, req *dto.BulkUploadRequest, hash string, contentSize int64, uploadedBy *uuid.UUID) (*model.UploadBatchModel, error) {
	if req.ExaminationSessionID == nil || req.CourseOfferingID == nil || req.ProgramID == nil || req.CourseID == nil {
		return nil, nil
	}

	batch := &model.UploadBatchModel{
		InstitutionsID:       req.InstitutionID,
		ExaminationSessionID: *req.ExaminationSessionID,
		CourseOfferingID:     *req.CourseOfferingID,
		ProgramID:            *req.ProgramID,
		CourseID:             *req.CourseID,
		UploadType:           constants.UploadTypeMarks,
		TotalRecords:         len(req.Rows),
		FileName:             "bulk_upload.xlsx",
		FileSize:             contentSize,
		FileType:             "XLSX",
		FileHash:             hash,
		UploadStatus:         constants.BatchStatusPending,
		UploadedBy:           uploadedBy,
		UploadMetadata:       datatypes.JSON([]byte(`{"source":"bulk_internal_marks_upload"}`)),
		IsActive:             true,
	}
	if req.FileName != nil && *req.FileName != "" {
		batch.FileName = *req.FileName
	}
	if req.FileSize != nil && *req.FileSize > 0 {
		batch.FileSize = *req.FileSize
	}
	if req.FileType != nil && *req.FileType != "" {
		batch.FileType = *req.FileType
	}

	existing, err := t.Store.FindByScopeAndHash(ctx, batch)
	if err != nil {
		if t.Log != nil {
			t.Log.Printf("batch hash guard lookup failed: %v", err)
		}
		return nil, NewBatchDatabaseError("checking for a previous upload of this file", err)
	}
	if existing != nil {
		return nil, NewDuplicateFileError()
	}

	if err := t.Store.Insert(ctx, batch); err != nil {
		// the scope+hash unique index closes the race the lookup leaves open
		if isUniqueViolation(err) {
			return nil, NewDuplicateFileError()
		}
		if t.Log != nil {
			t.Log.Printf("batch create failed, continuing untracked: %v", err)
		}
		return nil, nil
	}
	return batch, nil
}

// Finish computes the terminal state exactly once, after every row has
// been attempted, and persists the final tallies and error detail.
func (t *BatchTracker) Finish(ctx context.Context, batch *model.UploadBatchModel, result *dto.BulkUploadResult) {
	if batch == nil {
		return
	}

	batch.SuccessfulRecords = result.Successful
	batch.FailedRecords = result.Failed
	batch.SkippedRecords = result.Skipped
	batch.UploadStatus = result.Status

	if len(result.Errors) > 0 {
		if blob, err := sonic.Marshal(result.Errors); err == nil {
			batch.ErrorDetails = datatypes.JSON(blob)
		}
	}
	if len(result.ValidationErrors) > 0 {
		if blob, err := sonic.Marshal(result.ValidationErrors); err == nil {
			batch.ValidationErrors = datatypes.JSON(blob)
		}
	}
	notes := fmt.Sprintf("Processed %d records: %d successful, %d failed, %d skipped",
		result.Total, result.Successful, result.Failed, result.Skipped)
	batch.ProcessingNotes = &notes

	if err := t.Store.Finalize(ctx, batch); err != nil && t.Log != nil {
		t.Log.Printf("batch %s finalize failed: %v", batch.UploadBatchID, err)
	}
}

// TerminalStatus classifies a finished batch from its final tally.
func TerminalStatus(total, failed, skipped int) string {
	switch {
	case total > 0 && failed == total:
		return constants.BatchStatusFailed
	case failed > 0 || skipped > 0:
		return constants.BatchStatusPartial
	default:
		return constants.BatchStatusCompleted
	}
}

package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"coe_backend/internals/constants"
	enrollsvc "coe_backend/internals/features/exam/enrollments/service"
	"coe_backend/internals/features/exam/internal_marks/dto"
	"coe_backend/internals/features/exam/internal_marks/model"
)

// UserResolver resolves the uploader for audit attribution. Best-effort:
// an unknown uploader never blocks the upload.
type UserResolver interface {
	ResolveUser(ctx context.Context, id *uuid.UUID, email *string) (*uuid.UUID, error)
}

// InstitutionResolver maps an institution code to its id. Returns
// uuid.Nil with a nil error when the code is unknown.
type InstitutionResolver interface {
	ResolveInstitutionID(ctx context.Context, code string) (uuid.UUID, error)
}

// BulkUploadService runs the whole reconciliation pipeline for one
// submitted file: duplicate-file guard, enrollment index build, per-row
// validation and upsert, batch finalization, result aggregation.
//
// Rows are processed strictly in file order, one at a time, so a pair
// that appears twice in one file resolves last-one-wins. Each row's
// write is its own unit of work; there is no batch-wide transaction.
type BulkUploadService struct {
	Enrollments  enrollsvc.Source
	Marks        MarksStore
	Batches      BatchStore
	Users        UserResolver
	Institutions InstitutionResolver
	Log          *log.Logger
}

// NewBulkUploadService wires the GORM-backed pipeline.
func NewBulkUploadService(db *gorm.DB, logger *log.Logger) *BulkUploadService {
	return &BulkUploadService{
		Enrollments:  enrollsvc.NewGormSource(db),
		Marks:        NewGormMarksStore(db),
		Batches:      NewGormBatchStore(db),
		Users:        NewGormUserResolver(db),
		Institutions: NewGormInstitutionResolver(db),
		Log:          logger,
	}
}

// Process executes one batch. Batch-level failures return a *BatchError
// and nothing is written; row-level failures are folded into the result.
func (s *BulkUploadService) Process(ctx context.Context, req *dto.BulkUploadRequest) (*dto.BulkUploadResult, error) {
	if req.InstitutionID == uuid.Nil {
		if req.InstitutionCode == nil || *req.InstitutionCode == "" || s.Institutions == nil {
			return nil, NewMissingScopeError("institution_id or institution_code is required")
		}
		id, err := s.Institutions.ResolveInstitutionID(ctx, *req.InstitutionCode)
		if err != nil {
			return nil, NewBatchDatabaseError("resolving institution code", err)
		}
		if id == uuid.Nil {
			return nil, NewMissingScopeError(fmt.Sprintf("institution with code %q not found", *req.InstitutionCode))
		}
		req.InstitutionID = id
	}
	if len(req.Rows) == 0 {
		return nil, NewMissingScopeError("rows array is required and must not be empty")
	}

	uploadedBy := s.resolveUploader(ctx, req)

	hash, contentSize, err := HashRows(req.Rows)
	if err != nil {
		return nil, NewBatchDatabaseError("hashing submitted rows", err)
	}

	tracker := NewBatchTracker(s.Batches, s.Log)
	batch, err := tracker.Begin(ctx, req, hash, contentSize, uploadedBy)
	if err != nil {
		return nil, err
	}

	index, err := enrollsvc.BuildEnrollmentIndex(ctx, s.Enrollments, enrollsvc.EnrollmentFilter{
		// deliberately unscoped beyond institution: a reappear student's
		// ledger row may hang off a registration from an earlier session
		InstitutionID: req.InstitutionID,
	})
	if err != nil {
		s.abandonBatch(ctx, tracker, batch, len(req.Rows))
		return nil, NewBatchDatabaseError("building enrollment index", err)
	}
	if s.Log != nil {
		s.Log.Printf("enrollment index ready: %d pairs for institution %s", index.Size(), req.InstitutionID)
	}

	validator := NewRowValidator(index)
	reconciler := NewReconciler(s.Marks, s.Log)
	agg := newResultAggregator(len(req.Rows))

	for i := range req.Rows {
		row := &req.Rows[i]
		// +2: spreadsheet rows are 1-indexed under a header row
		rowNumber := i + 2

		matched, invalid := validator.Validate(rowNumber, row)
		if invalid != nil {
			agg.recordInvalid(invalid)
			continue
		}

		if writeErr := reconciler.Reconcile(ctx, matched, uploadedBy); writeErr != nil {
			agg.recordWriteError(writeErr)
			continue
		}
		agg.recordSuccess()
	}

	result := agg.finalize(batch)
	tracker.Finish(ctx, batch, result)
	return result, nil
}

func (s *BulkUploadService) resolveUploader(ctx context.Context, req *dto.BulkUploadRequest) *uuid.UUID {
	if s.Users == nil {
		return nil
	}
	id, err := s.Users.ResolveUser(ctx, req.UploaderID, req.UploaderEmail)
	if err != nil || id == nil {
		if s.Log != nil {
			s.Log.Printf("uploader not resolved, proceeding without attribution (id=%v email=%v err=%v)",
				req.UploaderID, req.UploaderEmail, err)
		}
		return nil
	}
	return id
}

// abandonBatch closes a Pending batch whose pipeline died before any row
// was attempted, so no batch is ever left non-terminal.
func (s *BulkUploadService) abandonBatch(ctx context.Context, tracker *BatchTracker, batch *model.UploadBatchModel, total int) {
	if batch == nil {
		return
	}
	tracker.Finish(ctx, batch, &dto.BulkUploadResult{
		Status: constants.BatchStatusFailed,
		Total:  total,
		Failed: total,
	})
}

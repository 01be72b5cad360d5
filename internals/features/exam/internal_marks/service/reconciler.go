package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"coe_backend/internals/constants"
	"coe_backend/internals/features/exam/internal_marks/dto"
	"coe_backend/internals/features/exam/internal_marks/model"
)

// MarksStore is the ledger persistence surface. Implemented by the GORM
// store; faked in tests.
type MarksStore interface {
	// FindActive returns the active ledger row for the triple, or nil.
	FindActive(ctx context.Context, institutionID, studentID, courseID uuid.UUID) (*model.InternalMarkModel, error)
	Insert(ctx context.Context, m *model.InternalMarkModel) error
	Update(ctx context.Context, m *model.InternalMarkModel) error
}

// Reconciler writes one matched row into exactly one ledger record,
// converging to the same state no matter how often the same content is
// resubmitted.
type Reconciler struct {
	Store MarksStore
	Log   *log.Logger
}

func NewReconciler(store MarksStore, logger *log.Logger) *Reconciler {
	return &Reconciler{Store: store, Log: logger}
}

// Reconcile upserts the row. A nil return means success; otherwise the
// row-scoped error to report. Write failures never abort the batch.
func (r *Reconciler) Reconcile(ctx context.Context, matched *MatchedRow, submittedBy *uuid.UUID) *dto.RowError {
	enr := matched.Enrollment

	existing, err := r.Store.FindActive(ctx, enr.InstitutionsID, enr.StudentID, enr.CourseID)
	if err != nil {
		return r.writeError(matched, err)
	}

	today := time.Now().Truncate(24 * time.Hour)

	if existing != nil {
		// Merge: each present component overwrites, absent components stay
		// untouched, then the total is recomputed from the merged set.
		r.applyComponents(matched.Row, existing)
		if max := matched.Row.MaxInternalMarks.Int(); max != nil {
			existing.MaxInternalMarks = *max
		}
		if remarks := strings.TrimSpace(matched.Row.Remarks); remarks != "" {
			existing.Remarks = &remarks
		}
		existing.TotalInternalMarks = existing.ComponentSum()
		existing.InternalPercentage = percentage(existing.TotalInternalMarks, existing.MaxInternalMarks)
		existing.SubmissionDate = &today
		if submittedBy != nil {
			existing.SubmittedBy = submittedBy
		}

		if err := r.Store.Update(ctx, existing); err != nil {
			return r.writeError(matched, err)
		}
		return nil
	}

	record := &model.InternalMarkModel{
		InstitutionsID:       enr.InstitutionsID,
		ExaminationSessionID: &enr.ExaminationSessionID,
		ProgramID:            enr.ProgramID,
		ProgramCode:          enr.ProgramCode,
		CourseID:             enr.CourseID,
		CourseOfferingID:     &enr.CourseOfferingID,
		ExamRegistrationID:   &enr.ExamRegistrationID,
		StudentID:            enr.StudentID,
		MaxInternalMarks:     enr.InternalMaxMark,
		MarksStatus:          constants.MarksStatusDraft,
		SubmittedBy:          submittedBy,
		SubmissionDate:       &today,
		IsActive:             true,
	}
	if record.MaxInternalMarks <= 0 {
		record.MaxInternalMarks = constants.DefaultMaxInternalMarks
	}
	if max := matched.Row.MaxInternalMarks.Int(); max != nil {
		record.MaxInternalMarks = *max
	}
	if remarks := strings.TrimSpace(matched.Row.Remarks); remarks != "" {
		record.Remarks = &remarks
	}
	r.applyComponents(matched.Row, record)
	record.TotalInternalMarks = record.ComponentSum()
	record.InternalPercentage = percentage(record.TotalInternalMarks, record.MaxInternalMarks)

	if err := r.Store.Insert(ctx, record); err != nil {
		return r.writeError(matched, err)
	}
	return nil
}

func (r *Reconciler) applyComponents(row *dto.ScoreRow, record *model.InternalMarkModel) {
	for _, comp := range dto.ScoreComponents() {
		if v := comp.Row(row).Int(); v != nil {
			*comp.Model(record) = v
		}
	}
}

func (r *Reconciler) writeError(matched *MatchedRow, err error) *dto.RowError {
	message := errString(err)
	if isForeignKeyViolation(err) {
		message = foreignKeyMessage(err)
	}
	if r.Log != nil {
		r.Log.Printf("row %d (%s/%s): write failed: %v",
			matched.RowNumber, matched.Row.RegisterNo, matched.Row.CourseCode, err)
	}
	return &dto.RowError{
		Row:        matched.RowNumber,
		RegisterNo: matched.Row.RegisterNo,
		CourseCode: matched.Row.CourseCode,
		Error:      message,
	}
}

func percentage(total, max int) *float64 {
	if max <= 0 {
		return nil
	}
	p := float64(total) / float64(max) * 100
	return &p
}

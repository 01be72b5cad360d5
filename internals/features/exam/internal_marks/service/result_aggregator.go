package service

import (
	"coe_backend/internals/features/exam/internal_marks/dto"
	"coe_backend/internals/features/exam/internal_marks/model"
)

// resultAggregator folds per-row outcomes into the single response the
// caller renders. Skipped is reserved for rows excluded before
// validation; the bulk pipeline currently never skips.
type resultAggregator struct {
	total            int
	successful       int
	failed           int
	skipped          int
	errors           []dto.RowError
	validationErrors []dto.RowValidationError
}

func newResultAggregator(total int) *resultAggregator {
	return &resultAggregator{
		total:            total,
		errors:           []dto.RowError{},
		validationErrors: []dto.RowValidationError{},
	}
}

func (a *resultAggregator) recordSuccess() {
	a.successful++
}

func (a *resultAggregator) recordInvalid(verr *dto.RowValidationError) {
	a.failed++
	a.validationErrors = append(a.validationErrors, *verr)
}

func (a *resultAggregator) recordWriteError(werr *dto.RowError) {
	a.failed++
	a.errors = append(a.errors, *werr)
}

func (a *resultAggregator) finalize(batch *model.UploadBatchModel) *dto.BulkUploadResult {
	result := &dto.BulkUploadResult{
		Status:           TerminalStatus(a.total, a.failed, a.skipped),
		Total:            a.total,
		Successful:       a.successful,
		Failed:           a.failed,
		Skipped:          a.skipped,
		Errors:           a.errors,
		ValidationErrors: a.validationErrors,
	}
	if batch != nil {
		id := batch.UploadBatchID
		result.BatchID = &id
	}
	return result
}

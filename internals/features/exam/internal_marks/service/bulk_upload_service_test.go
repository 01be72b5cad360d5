package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coe_backend/internals/constants"
	enrollsvc "coe_backend/internals/features/exam/enrollments/service"
	"coe_backend/internals/features/exam/internal_marks/dto"
)

type pipelineFixture struct {
	svc     *BulkUploadService
	marks   *memMarksStore
	batches *memBatchStore
	source  *memEnrollmentSource
}

func newPipeline(t *testing.T, enrollments ...enrollsvc.EnrollmentRecord) *pipelineFixture {
	t.Helper()
	f := &pipelineFixture{
		marks:   newMemMarksStore(),
		batches: &memBatchStore{},
		source:  &memEnrollmentSource{records: enrollments},
	}
	f.svc = &BulkUploadService{
		Enrollments: f.source,
		Marks:       f.marks,
		Batches:     f.batches,
		Users:       &memUserResolver{},
	}
	return f
}

// scopedRequest fills the full batch scope so tracking is active.
func scopedRequest(t *testing.T, institutionID uuid.UUID, rows ...string) *dto.BulkUploadRequest {
	t.Helper()
	session := uuid.New()
	offering := uuid.New()
	program := uuid.New()
	course := uuid.New()
	req := &dto.BulkUploadRequest{
		InstitutionID:        institutionID,
		ExaminationSessionID: &session,
		CourseOfferingID:     &offering,
		ProgramID:            &program,
		CourseID:             &course,
	}
	for _, r := range rows {
		req.Rows = append(req.Rows, *scoreRow(t, r))
	}
	return req
}

func TestProcessRequiresInstitution(t *testing.T) {
	f := newPipeline(t)
	req := scopedRequest(t, uuid.Nil, `{"register_no":"a","course_code":"b","quiz_marks":1}`)

	result, err := f.svc.Process(context.Background(), req)
	assert.Nil(t, result)
	be, ok := AsBatchError(err)
	require.True(t, ok)
	assert.Equal(t, CodeMissingRequiredScope, be.Code)
}

func TestProcessRequiresRows(t *testing.T) {
	f := newPipeline(t)
	req := scopedRequest(t, uuid.New())

	result, err := f.svc.Process(context.Background(), req)
	assert.Nil(t, result)
	be, ok := AsBatchError(err)
	require.True(t, ok)
	assert.Equal(t, CodeMissingRequiredScope, be.Code)
}

func TestProcessAllRowsSucceed(t *testing.T) {
	e1 := testEnrollment("21BCA001", "CS101")
	e2 := testEnrollment("21BCA002", "CS101")
	f := newPipeline(t, e1, e2)

	req := scopedRequest(t, e1.InstitutionsID,
		`{"register_no":"21BCA001","course_code":"CS101","assignment_marks":18,"quiz_marks":22}`,
		`{"register_no":"21BCA002","course_code":"CS101","quiz_marks":15}`,
	)

	result, err := f.svc.Process(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, constants.BatchStatusCompleted, result.Status)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 2, result.Successful)
	assert.Zero(t, result.Failed)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.ValidationErrors)
	require.NotNil(t, result.BatchID)

	rec, _ := f.marks.FindActive(context.Background(), e1.InstitutionsID, e1.StudentID, e1.CourseID)
	require.NotNil(t, rec)
	assert.Equal(t, 40, rec.TotalInternalMarks)

	require.Len(t, f.batches.finalized, 1)
	assert.Equal(t, constants.BatchStatusCompleted, f.batches.finalized[0].UploadStatus)
	assert.Equal(t, 2, f.batches.finalized[0].SuccessfulRecords)
}

func TestProcessPartialBatch(t *testing.T) {
	enrollments := make([]enrollsvc.EnrollmentRecord, 0, 8)
	institution := uuid.New()
	for i := 0; i < 10; i++ {
		if i == 2 || i == 6 {
			continue // these two students never registered
		}
		e := testEnrollment(fmt.Sprintf("21BCA%03d", i), "CS101")
		e.InstitutionsID = institution
		enrollments = append(enrollments, e)
	}
	f := newPipeline(t, enrollments...)

	rows := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		rows = append(rows, fmt.Sprintf(`{"register_no":"21BCA%03d","course_code":"CS101","quiz_marks":%d}`, i, 10+i))
	}
	req := scopedRequest(t, institution, rows...)

	result, err := f.svc.Process(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, constants.BatchStatusPartial, result.Status)
	assert.Equal(t, 10, result.Total)
	assert.Equal(t, 8, result.Successful)
	assert.Equal(t, 2, result.Failed)
	assert.Zero(t, result.Skipped)

	require.Len(t, result.ValidationErrors, 2)
	// spreadsheet numbering: slice index i lands on sheet row i+2
	assert.Equal(t, 4, result.ValidationErrors[0].Row)
	assert.Equal(t, 8, result.ValidationErrors[1].Row)
	assert.Contains(t, result.ValidationErrors[0].Errors[0], "not found in exam registrations")

	require.Len(t, f.batches.finalized, 1)
	assert.Equal(t, constants.BatchStatusPartial, f.batches.finalized[0].UploadStatus)
	assert.Equal(t, 2, f.batches.finalized[0].FailedRecords)
}

func TestProcessWholeBatchFails(t *testing.T) {
	f := newPipeline(t, testEnrollment("21BCA001", "CS101"))
	institution := f.source.records[0].InstitutionsID

	req := scopedRequest(t, institution,
		`{"register_no":"NOPE1","course_code":"CS101","quiz_marks":1}`,
		`{"register_no":"NOPE2","course_code":"CS101","quiz_marks":2}`,
	)

	result, err := f.svc.Process(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, constants.BatchStatusFailed, result.Status)
	assert.Equal(t, 2, result.Failed)
	assert.Zero(t, result.Successful)
	assert.Zero(t, f.marks.inserts)
}

func TestProcessMergesAcrossUploads(t *testing.T) {
	e := testEnrollment("21BCA001", "CS101")
	f := newPipeline(t, e)

	first := scopedRequest(t, e.InstitutionsID,
		`{"register_no":"21BCA001","course_code":"CS101","quiz_marks":18,"mid_term_marks":22}`)
	r1, err := f.svc.Process(context.Background(), first)
	require.NoError(t, err)
	require.Equal(t, 1, r1.Successful)

	rec, _ := f.marks.FindActive(context.Background(), e.InstitutionsID, e.StudentID, e.CourseID)
	require.NotNil(t, rec)
	assert.Equal(t, 40, rec.TotalInternalMarks)

	second := scopedRequest(t, e.InstitutionsID,
		`{"register_no":"21BCA001","course_code":"CS101","quiz_marks":20}`)
	_, err = f.svc.Process(context.Background(), second)
	require.NoError(t, err)

	rec, _ = f.marks.FindActive(context.Background(), e.InstitutionsID, e.StudentID, e.CourseID)
	require.NotNil(t, rec)
	require.NotNil(t, rec.MidTermMarks)
	assert.Equal(t, 22, *rec.MidTermMarks, "untouched component retained")
	require.NotNil(t, rec.QuizMarks)
	assert.Equal(t, 20, *rec.QuizMarks)
	assert.Equal(t, 42, rec.TotalInternalMarks)
	assert.Equal(t, 1, f.marks.inserts)
	assert.Equal(t, 1, f.marks.updates)
}

func TestProcessRejectsDuplicateFileWholesale(t *testing.T) {
	e := testEnrollment("21BCA001", "CS101")
	f := newPipeline(t, e)

	req := scopedRequest(t, e.InstitutionsID,
		`{"register_no":"21BCA001","course_code":"CS101","quiz_marks":10}`)
	_, err := f.svc.Process(context.Background(), req)
	require.NoError(t, err)
	writesAfterFirst := f.marks.inserts + f.marks.updates

	// byte-identical rows in the same scope
	dup := scopedRequest(t, e.InstitutionsID,
		`{"register_no":"21BCA001","course_code":"CS101","quiz_marks":10}`)
	dup.ExaminationSessionID = req.ExaminationSessionID
	dup.CourseOfferingID = req.CourseOfferingID
	dup.ProgramID = req.ProgramID
	dup.CourseID = req.CourseID

	result, err := f.svc.Process(context.Background(), dup)
	assert.Nil(t, result)
	be, ok := AsBatchError(err)
	require.True(t, ok)
	assert.Equal(t, CodeDuplicateFile, be.Code)
	assert.Equal(t, writesAfterFirst, f.marks.inserts+f.marks.updates, "no row may be written on a duplicate")
}

func TestProcessUntrackedResubmissionConverges(t *testing.T) {
	// without full scope there is no batch record and no duplicate guard,
	// so idempotence has to come from the merge itself
	e := testEnrollment("21BCA001", "CS101")
	f := newPipeline(t, e)

	req := &dto.BulkUploadRequest{
		InstitutionID: e.InstitutionsID,
		Rows:          []dto.ScoreRow{*scoreRow(t, `{"register_no":"21BCA001","course_code":"CS101","assignment_marks":18,"quiz_marks":22}`)},
	}

	r1, err := f.svc.Process(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, r1.BatchID)

	r2, err := f.svc.Process(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, constants.BatchStatusCompleted, r2.Status)

	rec, _ := f.marks.FindActive(context.Background(), e.InstitutionsID, e.StudentID, e.CourseID)
	assert.Equal(t, 40, rec.TotalInternalMarks)
	assert.Equal(t, 1, f.marks.inserts, "resubmission converges on the same row")
	assert.Empty(t, f.batches.batches)
}

func TestProcessAbortsWhenIndexFetchFails(t *testing.T) {
	e := testEnrollment("21BCA001", "CS101")
	f := newPipeline(t, e)
	f.source.err = errors.New("registrations table unreachable")

	req := scopedRequest(t, e.InstitutionsID,
		`{"register_no":"21BCA001","course_code":"CS101","quiz_marks":10}`)

	result, err := f.svc.Process(context.Background(), req)
	assert.Nil(t, result)
	be, ok := AsBatchError(err)
	require.True(t, ok)
	assert.Equal(t, CodeDatabaseError, be.Code)
	assert.Zero(t, f.marks.inserts, "no writes on a dead index")

	// the Pending batch must still reach a terminal state
	require.Len(t, f.batches.finalized, 1)
	assert.Equal(t, constants.BatchStatusFailed, f.batches.finalized[0].UploadStatus)
}

func TestProcessLastRowWinsWithinOneFile(t *testing.T) {
	e := testEnrollment("21BCA001", "CS101")
	f := newPipeline(t, e)

	req := scopedRequest(t, e.InstitutionsID,
		`{"register_no":"21BCA001","course_code":"CS101","quiz_marks":10}`,
		`{"register_no":"21BCA001","course_code":"CS101","quiz_marks":25}`,
	)

	result, err := f.svc.Process(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Successful)

	rec, _ := f.marks.FindActive(context.Background(), e.InstitutionsID, e.StudentID, e.CourseID)
	require.NotNil(t, rec.QuizMarks)
	assert.Equal(t, 25, *rec.QuizMarks)
	assert.Equal(t, 1, f.marks.inserts)
	assert.Equal(t, 1, f.marks.updates)
}

func TestProcessResolvesInstitutionCode(t *testing.T) {
	e := testEnrollment("21BCA001", "CS101")
	f := newPipeline(t, e)
	resolver := &memInstitutionResolver{codes: map[string]uuid.UUID{"KU-COE": e.InstitutionsID}}
	f.svc.Institutions = resolver

	req := scopedRequest(t, uuid.Nil,
		`{"register_no":"21BCA001","course_code":"CS101","quiz_marks":10}`)
	code := "KU-COE"
	req.InstitutionCode = &code

	result, err := f.svc.Process(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, constants.BatchStatusCompleted, result.Status)
	assert.Equal(t, 1, resolver.calls)

	rec, _ := f.marks.FindActive(context.Background(), e.InstitutionsID, e.StudentID, e.CourseID)
	require.NotNil(t, rec, "rows land under the resolved institution")
}

func TestProcessRejectsUnknownInstitutionCode(t *testing.T) {
	f := newPipeline(t)
	f.svc.Institutions = &memInstitutionResolver{codes: map[string]uuid.UUID{}}

	req := scopedRequest(t, uuid.Nil,
		`{"register_no":"21BCA001","course_code":"CS101","quiz_marks":10}`)
	code := "NO-SUCH"
	req.InstitutionCode = &code

	result, err := f.svc.Process(context.Background(), req)
	assert.Nil(t, result)
	be, ok := AsBatchError(err)
	require.True(t, ok)
	assert.Equal(t, CodeMissingRequiredScope, be.Code)
	assert.Contains(t, be.Message, "NO-SUCH")
}

func TestProcessFailsWhenInstitutionLookupErrors(t *testing.T) {
	f := newPipeline(t)
	f.svc.Institutions = &memInstitutionResolver{err: errors.New("institutions table unreachable")}

	req := scopedRequest(t, uuid.Nil,
		`{"register_no":"21BCA001","course_code":"CS101","quiz_marks":10}`)
	code := "KU-COE"
	req.InstitutionCode = &code

	result, err := f.svc.Process(context.Background(), req)
	assert.Nil(t, result)
	be, ok := AsBatchError(err)
	require.True(t, ok)
	assert.Equal(t, CodeDatabaseError, be.Code)
}

func TestProcessSucceedsWhenUploaderResolutionFails(t *testing.T) {
	e := testEnrollment("21BCA001", "CS101")
	f := newPipeline(t, e)
	f.svc.Users = &memUserResolver{err: errors.New("users table unreachable")}

	req := scopedRequest(t, e.InstitutionsID,
		`{"register_no":"21BCA001","course_code":"CS101","quiz_marks":10}`)

	result, err := f.svc.Process(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, constants.BatchStatusCompleted, result.Status)

	rec, _ := f.marks.FindActive(context.Background(), e.InstitutionsID, e.StudentID, e.CourseID)
	assert.Nil(t, rec.SubmittedBy, "attribution is best-effort")
}

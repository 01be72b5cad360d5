package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	enrollsvc "coe_backend/internals/features/exam/enrollments/service"
	"coe_backend/internals/features/exam/internal_marks/model"
)

/* ===============================
   In-memory fakes for the pipeline
=================================*/

type memMarksStore struct {
	records map[string]*model.InternalMarkModel

	findErr   error
	insertErr error
	updateErr error

	inserts int
	updates int
}

func newMemMarksStore() *memMarksStore {
	return &memMarksStore{records: map[string]*model.InternalMarkModel{}}
}

func tripleKey(institutionID, studentID, courseID uuid.UUID) string {
	return institutionID.String() + "|" + studentID.String() + "|" + courseID.String()
}

func (s *memMarksStore) FindActive(_ context.Context, institutionID, studentID, courseID uuid.UUID) (*model.InternalMarkModel, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	rec, ok := s.records[tripleKey(institutionID, studentID, courseID)]
	if !ok || !rec.IsActive {
		return nil, nil
	}
	return rec, nil
}

func (s *memMarksStore) Insert(_ context.Context, m *model.InternalMarkModel) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	if m.InternalMarkID == uuid.Nil {
		m.InternalMarkID = uuid.New()
	}
	s.inserts++
	s.records[tripleKey(m.InstitutionsID, m.StudentID, m.CourseID)] = m
	return nil
}

func (s *memMarksStore) Update(_ context.Context, m *model.InternalMarkModel) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updates++
	s.records[tripleKey(m.InstitutionsID, m.StudentID, m.CourseID)] = m
	return nil
}

type memBatchStore struct {
	batches []*model.UploadBatchModel

	findErr   error
	insertErr error

	finalized []*model.UploadBatchModel
}

func (s *memBatchStore) FindByScopeAndHash(_ context.Context, want *model.UploadBatchModel) (*model.UploadBatchModel, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	for _, b := range s.batches {
		if b.IsActive &&
			b.InstitutionsID == want.InstitutionsID &&
			b.ExaminationSessionID == want.ExaminationSessionID &&
			b.CourseOfferingID == want.CourseOfferingID &&
			b.FileHash == want.FileHash {
			return b, nil
		}
	}
	return nil, nil
}

func (s *memBatchStore) Insert(_ context.Context, batch *model.UploadBatchModel) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	if batch.UploadBatchID == uuid.Nil {
		batch.UploadBatchID = uuid.New()
	}
	s.batches = append(s.batches, batch)
	return nil
}

func (s *memBatchStore) Finalize(_ context.Context, batch *model.UploadBatchModel) error {
	s.finalized = append(s.finalized, batch)
	return nil
}

type memEnrollmentSource struct {
	records []enrollsvc.EnrollmentRecord
	err     error
}

func (s *memEnrollmentSource) FetchPage(_ context.Context, _ enrollsvc.EnrollmentFilter, offset, limit int) ([]enrollsvc.EnrollmentRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	if offset >= len(s.records) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.records) {
		end = len(s.records)
	}
	return s.records[offset:end], nil
}

type memInstitutionResolver struct {
	codes map[string]uuid.UUID
	err   error

	calls int
}

func (r *memInstitutionResolver) ResolveInstitutionID(_ context.Context, code string) (uuid.UUID, error) {
	r.calls++
	if r.err != nil {
		return uuid.Nil, r.err
	}
	return r.codes[code], nil
}

type memUserResolver struct {
	id  *uuid.UUID
	err error
}

func (r *memUserResolver) ResolveUser(_ context.Context, _ *uuid.UUID, _ *string) (*uuid.UUID, error) {
	return r.id, r.err
}

// fakePgError mimics the driver error surface the mapping code reads.
type fakePgError struct {
	state string
	msg   string
}

func (e *fakePgError) SQLState() string { return e.state }
func (e *fakePgError) Error() string {
	return fmt.Sprintf("ERROR: %s (SQLSTATE %s)", e.msg, e.state)
}

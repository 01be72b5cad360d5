package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	helper "coe_backend/internals/helpers"
)

// ErrInstitutionRequired is a caller mistake, not a pipeline failure.
var ErrInstitutionRequired = errors.New("institution id is required to build the enrollment index")

/* ===============================
   Records & filters
=================================*/

// EnrollmentRecord is the flat projection the index is built from:
// exam_registrations joined with courses for the internal max mark.
type EnrollmentRecord struct {
	ExamRegistrationID   uuid.UUID  `gorm:"column:exam_registration_id"`
	StuRegisterNo        string     `gorm:"column:stu_register_no"`
	StudentID            uuid.UUID  `gorm:"column:student_id"`
	StudentName          string     `gorm:"column:student_name"`
	CourseID             uuid.UUID  `gorm:"column:course_id"`
	CourseCode           string     `gorm:"column:course_code"`
	CourseOfferingID     uuid.UUID  `gorm:"column:course_offering_id"`
	ProgramID            *uuid.UUID `gorm:"column:program_id"`
	ProgramCode          *string    `gorm:"column:program_code"`
	ExaminationSessionID uuid.UUID  `gorm:"column:examination_session_id"`
	InstitutionsID       uuid.UUID  `gorm:"column:institutions_id"`
	InternalMaxMark      int        `gorm:"column:internal_max_mark"`
}

// EnrollmentFilter scopes the bulk fetch. Institution is mandatory;
// the rest narrow the set when the caller wants to.
type EnrollmentFilter struct {
	InstitutionID uuid.UUID
	SessionID     *uuid.UUID
	ProgramID     *uuid.UUID
	CourseID      *uuid.UUID
}

// Source fetches one page of enrollment records. Implemented by the
// GORM store; faked in tests.
type Source interface {
	FetchPage(ctx context.Context, f EnrollmentFilter, offset, limit int) ([]EnrollmentRecord, error)
}

/* ===============================
   Index
=================================*/

// EnrollmentIndex maps (normalized register no, normalized course code)
// to the authoritative enrollment record, plus the per-dimension sets
// used to classify composite-key misses.
type EnrollmentIndex struct {
	byKey       map[string]*EnrollmentRecord
	registerNos map[string]struct{}
	courseCodes map[string]struct{}
}

// Normalize lowercases and trims; index keys and lookups must agree.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func indexKey(registerNo, courseCode string) string {
	return Normalize(registerNo) + "|" + Normalize(courseCode)
}

// BuildEnrollmentIndex fetches the complete enrollment set for the scope
// (paging past the per-request row cap) and builds the lookup structures.
// Any page failure aborts the build: an incomplete index would silently
// misclassify valid rows as unmatched.
func BuildEnrollmentIndex(ctx context.Context, src Source, f EnrollmentFilter) (*EnrollmentIndex, error) {
	if f.InstitutionID == uuid.Nil {
		return nil, ErrInstitutionRequired
	}

	records, err := helper.FetchAllPages(func(offset, limit int) ([]EnrollmentRecord, error) {
		return src.FetchPage(ctx, f, offset, limit)
	})
	if err != nil {
		return nil, fmt.Errorf("fetching exam registrations: %w", err)
	}

	idx := &EnrollmentIndex{
		byKey:       make(map[string]*EnrollmentRecord, len(records)),
		registerNos: make(map[string]struct{}, len(records)),
		courseCodes: make(map[string]struct{}),
	}
	for i := range records {
		rec := &records[i]
		regNo := Normalize(rec.StuRegisterNo)
		courseCode := Normalize(rec.CourseCode)
		if regNo == "" || courseCode == "" {
			continue
		}
		idx.registerNos[regNo] = struct{}{}
		idx.courseCodes[courseCode] = struct{}{}

		// first registration wins on duplicates; later ones are usually
		// reappear entries for the same student/course
		key := regNo + "|" + courseCode
		if _, exists := idx.byKey[key]; !exists {
			idx.byKey[key] = rec
		}
	}
	return idx, nil
}

// Lookup resolves a row's composite key against the index.
func (idx *EnrollmentIndex) Lookup(registerNo, courseCode string) (*EnrollmentRecord, bool) {
	rec, ok := idx.byKey[indexKey(registerNo, courseCode)]
	return rec, ok
}

// HasRegisterNo reports whether the register number exists anywhere in
// the scope, regardless of course.
func (idx *EnrollmentIndex) HasRegisterNo(registerNo string) bool {
	_, ok := idx.registerNos[Normalize(registerNo)]
	return ok
}

// HasCourseCode reports whether the course code exists anywhere in the
// scope, regardless of student.
func (idx *EnrollmentIndex) HasCourseCode(courseCode string) bool {
	_, ok := idx.courseCodes[Normalize(courseCode)]
	return ok
}

func (idx *EnrollmentIndex) Size() int {
	return len(idx.byKey)
}

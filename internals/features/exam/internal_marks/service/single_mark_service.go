package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"coe_backend/internals/constants"
	"coe_backend/internals/features/exam/internal_marks/dto"
	"coe_backend/internals/features/exam/internal_marks/model"
	refmodel "coe_backend/internals/features/exam/reference/model"
)

var (
	ErrUnknownMarkType = errors.New("unknown internal mark type")
	ErrMarkOutOfRange  = errors.New("mark out of range")
)

// CourseMaxSource resolves a course's configured internal max mark.
type CourseMaxSource interface {
	InternalMaxMark(ctx context.Context, courseID uuid.UUID) int
}

// SingleMarkService records one component value for one student/course,
// with the same fetch-then-insert-or-update semantics as the bulk path.
type SingleMarkService struct {
	Marks   MarksStore
	Courses CourseMaxSource
}

func NewSingleMarkService(db *gorm.DB) *SingleMarkService {
	return &SingleMarkService{
		Marks:   NewGormMarksStore(db),
		Courses: &gormCourseMaxSource{db: db},
	}
}

func (s *SingleMarkService) Record(ctx context.Context, req *dto.SingleMarkRequest) (*model.InternalMarkModel, error) {
	comp, ok := dto.ComponentByType(req.InternalType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMarkType, req.InternalType)
	}

	maxMark := s.Courses.InternalMaxMark(ctx, req.CourseID)
	if req.Marks < 0 || req.Marks > maxMark {
		return nil, fmt.Errorf("%w: marks must be between 0 and %d", ErrMarkOutOfRange, maxMark)
	}

	existing, err := s.Marks.FindActive(ctx, req.InstitutionID, req.StudentID, req.CourseID)
	if err != nil {
		return nil, err
	}

	today := time.Now().Truncate(24 * time.Hour)
	value := req.Marks

	if existing != nil {
		*comp.Model(existing) = &value
		existing.TotalInternalMarks = existing.ComponentSum()
		existing.InternalPercentage = percentage(existing.TotalInternalMarks, existing.MaxInternalMarks)
		existing.SubmissionDate = &today
		if err := s.Marks.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	record := &model.InternalMarkModel{
		InstitutionsID:       req.InstitutionID,
		ExaminationSessionID: req.ExaminationSessionID,
		ProgramID:            req.ProgramID,
		CourseID:             req.CourseID,
		StudentID:            req.StudentID,
		MaxInternalMarks:     maxMark,
		MarksStatus:          constants.MarksStatusDraft,
		SubmissionDate:       &today,
		IsActive:             true,
	}
	*comp.Model(record) = &value
	record.TotalInternalMarks = record.ComponentSum()
	record.InternalPercentage = percentage(record.TotalInternalMarks, record.MaxInternalMarks)

	if err := s.Marks.Insert(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

type gormCourseMaxSource struct {
	db *gorm.DB
}

func (s *gormCourseMaxSource) InternalMaxMark(ctx context.Context, courseID uuid.UUID) int {
	type row struct {
		InternalMaxMark int `gorm:"column:internal_max_mark"`
	}
	var r row
	err := s.db.WithContext(ctx).Model(&refmodel.CourseModel{}).
		Select("internal_max_mark").
		Where("id = ?", courseID).
		Take(&r).Error
	if err != nil || r.InternalMaxMark <= 0 {
		return constants.DefaultMaxInternalMarks
	}
	return r.InternalMaxMark
}

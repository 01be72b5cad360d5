package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"coe_backend/internals/features/exam/internal_marks/dto"
	"coe_backend/internals/features/exam/internal_marks/model"
	refmodel "coe_backend/internals/features/exam/reference/model"
)

// MarksListFilter scopes the ledger listing. InstitutionID is required,
// the rest narrow the result set when set.
type MarksListFilter struct {
	InstitutionID uuid.UUID
	SessionID     *uuid.UUID
	ProgramCode   *string
	CourseID      *uuid.UUID
	StudentID     *uuid.UUID
	MarksStatus   *string
}

// MarksQueryService serves the read and soft-delete side of the ledger.
type MarksQueryService struct {
	DB *gorm.DB
}

func NewMarksQueryService(db *gorm.DB) *MarksQueryService {
	return &MarksQueryService{DB: db}
}

// ListPage returns one page of active ledger rows in scope, enriched
// with student/course/session display fields, plus the total row count
// for the pagination block.
func (s *MarksQueryService) ListPage(ctx context.Context, f MarksListFilter, offset, limit int) ([]dto.InternalMarkDTO, int64, error) {
	if f.InstitutionID == uuid.Nil {
		return nil, 0, NewMissingScopeError("institution_id is required")
	}

	base := s.scopedQuery(ctx, f)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []dto.InternalMarkDTO
	err := base.
		Select(`im.*,
			u.register_no AS register_no,
			u.full_name AS student_name,
			c.course_code AS course_code,
			c.course_name AS course_name,
			es.session_name AS session_name,
			p.program_code AS program_code,
			i.institution_code AS institution_code,
			i.name AS institution_name`).
		Order("im.created_at DESC, im.id").
		Offset(offset).Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// scopedQuery builds the filtered, joined base query shared by the page
// fetch and the count. Join table names come from the reference models
// so a rename breaks loudly at one place.
func (s *MarksQueryService) scopedQuery(ctx context.Context, f MarksListFilter) *gorm.DB {
	q := s.DB.WithContext(ctx).
		Table(model.InternalMarkModel{}.TableName()+" AS im").
		Joins("LEFT JOIN "+refmodel.UserModel{}.TableName()+" u ON u.id = im.student_id").
		Joins("LEFT JOIN "+refmodel.CourseModel{}.TableName()+" c ON c.id = im.course_id").
		Joins("LEFT JOIN "+refmodel.ExaminationSessionModel{}.TableName()+" es ON es.id = im.examination_session_id").
		Joins("LEFT JOIN "+refmodel.ProgramModel{}.TableName()+" p ON p.id = im.program_id").
		Joins("LEFT JOIN "+refmodel.InstitutionModel{}.TableName()+" i ON i.id = im.institutions_id").
		Where("im.is_active = ?", true).
		Where("im.institutions_id = ?", f.InstitutionID)

	if f.SessionID != nil {
		q = q.Where("im.examination_session_id = ?", *f.SessionID)
	}
	if f.ProgramCode != nil {
		q = q.Where("p.program_code = ?", *f.ProgramCode)
	}
	if f.CourseID != nil {
		q = q.Where("im.course_id = ?", *f.CourseID)
	}
	if f.StudentID != nil {
		q = q.Where("im.student_id = ?", *f.StudentID)
	}
	if f.MarksStatus != nil {
		q = q.Where("im.marks_status = ?", *f.MarksStatus)
	}
	return q
}

// SoftDelete deactivates a single ledger row. Returns the number of
// rows touched so callers can distinguish a missing id.
func (s *MarksQueryService) SoftDelete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := s.DB.WithContext(ctx).Model(&model.InternalMarkModel{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

// SoftDeleteMany deactivates a batch of ledger rows in one statement.
func (s *MarksQueryService) SoftDeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := s.DB.WithContext(ctx).Model(&model.InternalMarkModel{}).
		Where("id IN ? AND is_active = ?", ids, true).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

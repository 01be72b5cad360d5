package service

import (
	"context"

	"gorm.io/gorm"

	"coe_backend/internals/features/exam/enrollments/model"
)

// GormSource reads enrollment pages straight from Postgres.
type GormSource struct {
	DB *gorm.DB
}

func NewGormSource(db *gorm.DB) *GormSource { return &GormSource{DB: db} }

func (s *GormSource) FetchPage(ctx context.Context, f EnrollmentFilter, offset, limit int) ([]EnrollmentRecord, error) {
	q := s.DB.WithContext(ctx).
		Model(&model.ExamRegistrationModel{}).
		Select(`exam_registrations.id AS exam_registration_id,
		        exam_registrations.stu_register_no,
		        exam_registrations.student_id,
		        exam_registrations.student_name,
		        exam_registrations.course_id,
		        exam_registrations.course_code,
		        exam_registrations.course_offering_id,
		        exam_registrations.program_id,
		        exam_registrations.program_code,
		        exam_registrations.examination_session_id,
		        exam_registrations.institutions_id,
		        COALESCE(courses.internal_max_mark, 100) AS internal_max_mark`).
		Joins("LEFT JOIN courses ON courses.id = exam_registrations.course_id").
		Where("exam_registrations.institutions_id = ?", f.InstitutionID)

	if f.SessionID != nil {
		q = q.Where("exam_registrations.examination_session_id = ?", *f.SessionID)
	}
	if f.ProgramID != nil {
		q = q.Where("exam_registrations.program_id = ?", *f.ProgramID)
	}
	if f.CourseID != nil {
		q = q.Where("exam_registrations.course_id = ?", *f.CourseID)
	}

	var rows []EnrollmentRecord
	err := q.Order("exam_registrations.id").
		Offset(offset).Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

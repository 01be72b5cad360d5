package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"coe_backend/internals/features/exam/internal_marks/model"
	refmodel "coe_backend/internals/features/exam/reference/model"
)

/* ===============================
   Marks ledger store
=================================*/

type GormMarksStore struct {
	DB *gorm.DB
}

func NewGormMarksStore(db *gorm.DB) *GormMarksStore { return &GormMarksStore{DB: db} }

func (s *GormMarksStore) FindActive(ctx context.Context, institutionID, studentID, courseID uuid.UUID) (*model.InternalMarkModel, error) {
	var record model.InternalMarkModel
	err := s.DB.WithContext(ctx).
		Where("institutions_id = ? AND student_id = ? AND course_id = ? AND is_active = TRUE",
			institutionID, studentID, courseID).
		Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *GormMarksStore) Insert(ctx context.Context, m *model.InternalMarkModel) error {
	if m.InternalMarkID == uuid.Nil {
		m.InternalMarkID = uuid.New()
	}
	return s.DB.WithContext(ctx).Create(m).Error
}

func (s *GormMarksStore) Update(ctx context.Context, m *model.InternalMarkModel) error {
	// Save writes the full in-memory state, which at this point is the
	// loaded row with the present components merged over it.
	return s.DB.WithContext(ctx).Save(m).Error
}

/* ===============================
   Upload batch store
=================================*/

type GormBatchStore struct {
	DB *gorm.DB
}

func NewGormBatchStore(db *gorm.DB) *GormBatchStore { return &GormBatchStore{DB: db} }

func (s *GormBatchStore) FindByScopeAndHash(ctx context.Context, batch *model.UploadBatchModel) (*model.UploadBatchModel, error) {
	var existing model.UploadBatchModel
	err := s.DB.WithContext(ctx).
		Where(`institutions_id = ? AND examination_session_id = ? AND course_offering_id = ?
		       AND program_id = ? AND course_id = ? AND file_hash = ? AND is_active = TRUE`,
			batch.InstitutionsID, batch.ExaminationSessionID, batch.CourseOfferingID,
			batch.ProgramID, batch.CourseID, batch.FileHash).
		Take(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

func (s *GormBatchStore) Insert(ctx context.Context, batch *model.UploadBatchModel) error {
	if batch.UploadBatchID == uuid.Nil {
		batch.UploadBatchID = uuid.New()
	}
	return s.DB.WithContext(ctx).Create(batch).Error
}

func (s *GormBatchStore) Finalize(ctx context.Context, batch *model.UploadBatchModel) error {
	return s.DB.WithContext(ctx).
		Model(&model.UploadBatchModel{}).
		Where("id = ?", batch.UploadBatchID).
		Updates(map[string]any{
			"successful_records": batch.SuccessfulRecords,
			"failed_records":     batch.FailedRecords,
			"skipped_records":    batch.SkippedRecords,
			"upload_status":      batch.UploadStatus,
			"error_details":      batch.ErrorDetails,
			"validation_errors":  batch.ValidationErrors,
			"processing_notes":   batch.ProcessingNotes,
		}).Error
}

/* ===============================
   Uploader resolver
=================================*/

type GormUserResolver struct {
	DB *gorm.DB
}

func NewGormUserResolver(db *gorm.DB) *GormUserResolver { return &GormUserResolver{DB: db} }

// ResolveUser tries id first, then email. Both lookups are best-effort.
func (s *GormUserResolver) ResolveUser(ctx context.Context, id *uuid.UUID, email *string) (*uuid.UUID, error) {
	type row struct {
		ID uuid.UUID `gorm:"column:id"`
	}

	if id != nil && *id != uuid.Nil {
		var r row
		err := s.DB.WithContext(ctx).Model(&refmodel.UserModel{}).Select("id").
			Where("id = ?", *id).Take(&r).Error
		if err == nil {
			return &r.ID, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if email != nil && *email != "" {
		var r row
		err := s.DB.WithContext(ctx).Model(&refmodel.UserModel{}).Select("id").
			Where("email = ?", *email).Take(&r).Error
		if err == nil {
			return &r.ID, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return nil, nil
}

/* ===============================
   Institution resolver
=================================*/

type GormInstitutionResolver struct {
	DB *gorm.DB
}

func NewGormInstitutionResolver(db *gorm.DB) *GormInstitutionResolver {
	return &GormInstitutionResolver{DB: db}
}

// ResolveInstitutionID maps an institution code to its id. Unknown codes
// resolve to uuid.Nil without an error.
func (s *GormInstitutionResolver) ResolveInstitutionID(ctx context.Context, code string) (uuid.UUID, error) {
	var inst refmodel.InstitutionModel
	err := s.DB.WithContext(ctx).
		Where("institution_code = ? AND is_active = TRUE", strings.TrimSpace(code)).
		Take(&inst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, err
	}
	return inst.InstitutionID, nil
}

package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"coe_backend/internals/constants"
	"coe_backend/internals/features/exam/internal_marks/dto"
	"coe_backend/internals/features/exam/internal_marks/service"
	helper "coe_backend/internals/helpers"
	"coe_backend/internals/middlewares/auth"
)

var validate = validator.New()

type InternalMarkController struct {
	DB     *gorm.DB
	Bulk   *service.BulkUploadService
	Single *service.SingleMarkService
	Query  *service.MarksQueryService
}

func NewInternalMarkController(db *gorm.DB, logger *log.Logger) *InternalMarkController {
	return &InternalMarkController{
		DB:     db,
		Bulk:   service.NewBulkUploadService(db, logger),
		Single: service.NewSingleMarkService(db),
		Query:  service.NewMarksQueryService(db),
	}
}

/* ===============================
   POST /internal-marks/bulk-upload
=================================*/

func (ctrl *InternalMarkController) BulkUpload(c *fiber.Ctx) error {
	var req dto.BulkUploadRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}
	ctrl.fillUploaderFromToken(c, &req)

	result, err := ctrl.Bulk.Process(c.UserContext(), &req)
	if err != nil {
		if be, ok := service.AsBatchError(err); ok {
			switch be.Code {
			case service.CodeMissingRequiredScope:
				return helper.JsonError(c, fiber.StatusBadRequest, be.Message)
			case service.CodeDuplicateFile:
				return helper.JsonError(c, fiber.StatusConflict, be.Message)
			default:
				return helper.JsonError(c, fiber.StatusInternalServerError, be.Message)
			}
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to process bulk upload")
	}
	return helper.JsonOK(c, "Bulk upload processed", result)
}

// fillUploaderFromToken backfills the uploader identity from the JWT
// when the request body did not carry it.
func (ctrl *InternalMarkController) fillUploaderFromToken(c *fiber.Ctx, req *dto.BulkUploadRequest) {
	if req.UploaderID == nil {
		if raw, ok := c.Locals(auth.LocUserID).(string); ok && raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				req.UploaderID = &id
			}
		}
	}
	if req.UploaderEmail == nil {
		if email, ok := c.Locals(auth.LocUserEmail).(string); ok && email != "" {
			req.UploaderEmail = &email
		}
	}
}

/* ===============================
   POST /internal-marks
=================================*/

func (ctrl *InternalMarkController) Create(c *fiber.Ctx) error {
	var req dto.SingleMarkRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	record, err := ctrl.Single.Record(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, service.ErrUnknownMarkType) || errors.Is(err, service.ErrMarkOutOfRange) {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save internal mark")
	}
	return helper.JsonCreated(c, "Internal mark saved", record)
}

/* ===============================
   GET /internal-marks
=================================*/

func (ctrl *InternalMarkController) List(c *fiber.Ctx) error {
	institutionID, err := uuid.Parse(c.Query("institution_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "institution_id is required")
	}

	filter := service.MarksListFilter{InstitutionID: institutionID}
	if id, err := uuid.Parse(c.Query("examination_session_id")); err == nil {
		filter.SessionID = &id
	}
	if id, err := uuid.Parse(c.Query("course_id")); err == nil {
		filter.CourseID = &id
	}
	if id, err := uuid.Parse(c.Query("student_id")); err == nil {
		filter.StudentID = &id
	}
	if code := strings.TrimSpace(c.Query("program_code")); code != "" {
		filter.ProgramCode = &code
	}
	if status := strings.TrimSpace(c.Query("marks_status")); status != "" {
		if !constants.IsValidMarksStatus(status) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid marks_status")
		}
		filter.MarksStatus = &status
	}

	paging := helper.ResolvePaging(c, 50, 200)
	rows, total, err := ctrl.Query.ListPage(c.UserContext(), filter, paging.Offset, paging.Limit)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch internal marks")
	}

	pg := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	pg.Count = len(rows)
	return helper.JsonList(c, "Internal marks fetched", rows, &pg)
}

/* ===============================
   DELETE /internal-marks/:id
   DELETE /internal-marks (bulk)
=================================*/

func (ctrl *InternalMarkController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid id")
	}
	affected, err := ctrl.Query.SoftDelete(c.UserContext(), id)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete internal mark")
	}
	if affected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Internal mark not found")
	}
	return helper.JsonDeleted(c, "Internal mark deleted", fiber.Map{"deleted": affected})
}

func (ctrl *InternalMarkController) BulkDelete(c *fiber.Ctx) error {
	var req dto.BulkDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}
	affected, err := ctrl.Query.SoftDeleteMany(c.UserContext(), req.IDs)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete internal marks")
	}
	return helper.JsonDeleted(c, "Internal marks deleted", fiber.Map{"deleted": affected})
}

package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	enrollsvc "coe_backend/internals/features/exam/enrollments/service"
	"coe_backend/internals/features/exam/internal_marks/model"
	"coe_backend/internals/features/exam/internal_marks/service"
)

/* ===============================
   Handler-level fakes
=================================*/

type ctxKey string

const seenKey ctxKey = "seen"

// recordingSource remembers the context value each fetch arrived with,
// so tests can assert the request-scoped context reaches the DB layer.
type recordingSource struct {
	seen []any
}

func (s *recordingSource) FetchPage(ctx context.Context, _ enrollsvc.EnrollmentFilter, offset, _ int) ([]enrollsvc.EnrollmentRecord, error) {
	s.seen = append(s.seen, ctx.Value(seenKey))
	return nil, nil
}

type nopMarksStore struct{}

func (nopMarksStore) FindActive(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) (*model.InternalMarkModel, error) {
	return nil, nil
}
func (nopMarksStore) Insert(context.Context, *model.InternalMarkModel) error { return nil }
func (nopMarksStore) Update(context.Context, *model.InternalMarkModel) error { return nil }

type nopBatchStore struct{}

func (nopBatchStore) FindByScopeAndHash(context.Context, *model.UploadBatchModel) (*model.UploadBatchModel, error) {
	return nil, nil
}
func (nopBatchStore) Insert(context.Context, *model.UploadBatchModel) error   { return nil }
func (nopBatchStore) Finalize(context.Context, *model.UploadBatchModel) error { return nil }

type nopUserResolver struct{}

func (nopUserResolver) ResolveUser(context.Context, *uuid.UUID, *string) (*uuid.UUID, error) {
	return nil, nil
}

func newTestApp(ctrl *InternalMarkController) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.SetUserContext(context.WithValue(c.UserContext(), seenKey, "request-scoped"))
		return c.Next()
	})
	app.Post("/internal-marks/bulk-upload", ctrl.BulkUpload)
	app.Get("/internal-marks", ctrl.List)
	return app
}

/* ===============================
   Tests
=================================*/

func TestListRequiresInstitution(t *testing.T) {
	app := newTestApp(&InternalMarkController{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/internal-marks", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestListRejectsUnknownMarksStatus(t *testing.T) {
	app := newTestApp(&InternalMarkController{})

	target := "/internal-marks?institution_id=" + uuid.New().String() + "&marks_status=published"
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestBulkUploadRunsOnRequestContext(t *testing.T) {
	source := &recordingSource{}
	ctrl := &InternalMarkController{
		Bulk: &service.BulkUploadService{
			Enrollments: source,
			Marks:       nopMarksStore{},
			Batches:     nopBatchStore{},
			Users:       nopUserResolver{},
		},
	}
	app := newTestApp(ctrl)

	body := `{"institution_id":"` + uuid.New().String() + `","rows":[{"register_no":"21BCA001","course_code":"CS101","quiz_marks":10}]}`
	req := httptest.NewRequest(http.MethodPost, "/internal-marks/bulk-upload", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NotEmpty(t, source.seen, "pipeline must have fetched enrollments")
	for _, v := range source.seen {
		assert.Equal(t, "request-scoped", v, "middleware user context must reach the data layer")
	}
}

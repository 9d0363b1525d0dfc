package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planlabs/planner-api/internal/dto"
	"github.com/planlabs/planner-api/internal/models"
	appErrors "github.com/planlabs/planner-api/pkg/errors"
)

type lessonServiceMock struct {
	listResp  []models.Lesson
	getResp   *models.Lesson
	getErr    error
	createErr error
	deleteErr error
}

func (m *lessonServiceMock) List(ctx context.Context, query dto.ListLessonsQuery) ([]models.Lesson, *models.Pagination, error) {
	return m.listResp, &models.Pagination{Page: 1, PageSize: 50, TotalCount: len(m.listResp)}, nil
}

func (m *lessonServiceMock) Get(ctx context.Context, id string) (*models.Lesson, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.getResp, nil
}

func (m *lessonServiceMock) Create(ctx context.Context, req dto.CreateLessonRequest) (*models.Lesson, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &models.Lesson{ID: "lesson-1", Subject: req.Subject}, nil
}

func (m *lessonServiceMock) Update(ctx context.Context, id string, req dto.UpdateLessonRequest) (*models.Lesson, error) {
	return &models.Lesson{ID: id, Subject: req.Subject}, nil
}

func (m *lessonServiceMock) Delete(ctx context.Context, id string) error {
	return m.deleteErr
}

func TestLessonHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewLessonHandler(&lessonServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.CreateLessonRequest{
		Date:      "2024-09-02",
		StartTime: "09:00",
		EndTime:   "09:45",
		TeacherID: "teacher-1",
		GroupID:   "group-10",
		Subject:   "Mathematics",
	})
	req, _ := http.NewRequest(http.MethodPost, "/lessons", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Mathematics")
}

func TestLessonHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewLessonHandler(&lessonServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/lessons", bytes.NewReader([]byte(`invalid`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLessonHandlerCreateConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewLessonHandler(&lessonServiceMock{
		createErr: appErrors.Clone(appErrors.ErrConflict, "placement rejected"),
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.CreateLessonRequest{
		Date:      "2024-09-02",
		StartTime: "09:00",
		EndTime:   "09:45",
		TeacherID: "teacher-1",
		GroupID:   "group-10",
		Subject:   "Mathematics",
	})
	req, _ := http.NewRequest(http.MethodPost, "/lessons", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "placement rejected")
}

func TestLessonHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewLessonHandler(&lessonServiceMock{getErr: appErrors.ErrNotFound})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/lessons/missing", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLessonHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewLessonHandler(&lessonServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/lessons/lesson-1", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "lesson-1"}}

	handler.Delete(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
}

package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/coursehub/internal/app/controllers"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/app/routes"
	"github.com/yigit/coursehub/internal/app/services"
)

func newRouter(t *testing.T, delay time.Duration) (*gin.Engine, services.CatalogService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog := services.NewCatalogService(repositories.NewCourseRepository(50), zerolog.Nop())
	courses := make([]models.Course, 0, 12)
	for i := 1; i <= 12; i++ {
		courses = append(courses, models.Course{ID: int64(i), Description: "Course", Category: models.CategoryBeginner})
	}
	_, err := catalog.Seed(context.Background(), courses)
	require.NoError(t, err)

	router := gin.New()
	routes.SetupRouter(router, controllers.NewCourseController(catalog), routes.Options{
		IdentityHeader: "X-Auth",
		Delay:          delay,
	})
	return router, catalog
}

func perform(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.False(t, resp.Success)
	return resp
}

func TestGetCourses_DefaultPage(t *testing.T) {
	router, _ := newRouter(t, 0)

	w := perform(router, httptest.NewRequest(http.MethodGet, "/api/courses", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var courses []models.Course
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &courses))
	assert.Len(t, courses, 10)
}

func TestGetCourses_Paging(t *testing.T) {
	router, _ := newRouter(t, 0)

	w := perform(router, httptest.NewRequest(http.MethodGet, "/api/courses?page=2&pageSize=10", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var courses []models.Course
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &courses))
	require.Len(t, courses, 2)
	assert.Equal(t, int64(11), courses[0].ID)

	w = perform(router, httptest.NewRequest(http.MethodGet, "/api/courses?page=9", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestGetCourseByID(t *testing.T) {
	router, _ := newRouter(t, 0)

	w := perform(router, httptest.NewRequest(http.MethodGet, "/api/courses/3", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = perform(router, httptest.NewRequest(http.MethodGet, "/api/courses/99", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrorCodeResourceNotFound, decodeError(t, w).Error.Code)

	w = perform(router, httptest.NewRequest(http.MethodGet, "/api/courses/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func saveRequest(id, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPut, "/api/courses/"+id, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Auth", "userId")
	return req
}

func TestSaveCourse_ReturnsStoredCourse(t *testing.T) {
	router, catalog := newRouter(t, 0)

	w := perform(router, saveRequest("4", `{"id":4,"description":"Edited","category":"ADVANCED"}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"id":4,"description":"Edited","category":"ADVANCED"}`, w.Body.String())

	stored, err := catalog.GetCourse(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "Edited", stored.Description)
}

func TestSaveCourse_IDTakenFromPath(t *testing.T) {
	router, _ := newRouter(t, 0)

	w := perform(router, saveRequest("5", `{"description":"No id in body"}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var saved models.Course
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	assert.Equal(t, int64(5), saved.ID)
}

func TestSaveCourse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		req    *http.Request
		status int
		code   dto.ErrorCode
	}{
		{"unknown course", saveRequest("99", `{"description":"x"}`), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"mismatched id", saveRequest("1", `{"id":2,"description":"x"}`), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"missing description", saveRequest("1", `{"id":1}`), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"bad category", saveRequest("1", `{"description":"x","category":"EXPERT"}`), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"malformed body", saveRequest("1", `{"description":`), http.StatusBadRequest, dto.ErrorCodeBadRequest},
		{"missing identity", func() *http.Request {
			r := saveRequest("1", `{"description":"x"}`)
			r.Header.Del("X-Auth")
			return r
		}(), http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, catalog := newRouter(t, 0)

			w := perform(router, tt.req)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, decodeError(t, w).Error.Code)
			assert.Equal(t, 12, catalog.Count())
		})
	}
}

func TestSaveCourse_ValidationNamesJSONField(t *testing.T) {
	router, _ := newRouter(t, 0)

	w := perform(router, saveRequest("1", `{"description":"x","iconUrl":"not a url"}`))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "iconUrl", decodeError(t, w).Error.Field)
}

func TestDelay_AbortsWhenCallerLeaves(t *testing.T) {
	router, _ := newRouter(t, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/courses", nil).WithContext(ctx)

	start := time.Now()
	w := perform(router, req)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, 499, w.Code)
}

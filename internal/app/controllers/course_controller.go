package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/services"
	"github.com/yigit/coursehub/internal/middleware"
	"github.com/yigit/coursehub/internal/pkg/helpers"
)

// CourseController serves the course collection
type CourseController struct {
	catalogService services.CatalogService
}

// NewCourseController creates a new CourseController
func NewCourseController(catalogService services.CatalogService) *CourseController {
	return &CourseController{
		catalogService: catalogService,
	}
}

// GetCourses returns one page of courses as a bare JSON array
// GET /api/courses?page=1&pageSize=10
func (c *CourseController) GetCourses(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	courses, err := c.catalogService.ListCourses(ctx.Request.Context(), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, courses)
}

// GetCourseByID returns a single course
// GET /api/courses/:id
func (c *CourseController) GetCourseByID(ctx *gin.Context) {
	id, ok := parseCourseID(ctx)
	if !ok {
		return
	}

	course, err := c.catalogService.GetCourse(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, course)
}

// SaveCourse replaces an existing course and returns the stored record
// PUT /api/courses/:id
func (c *CourseController) SaveCourse(ctx *gin.Context) {
	id, ok := parseCourseID(ctx)
	if !ok {
		return
	}

	var course models.Course
	fillID := func() {
		if course.ID == 0 {
			course.ID = id
		}
	}
	if !middleware.BindAndValidate(ctx, &course, fillID) {
		return
	}

	saved, err := c.catalogService.UpdateCourse(ctx.Request.Context(), id, course)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, saved)
}

func parseCourseID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course ID").
			WithField("id").
			WithDetails("Course ID must be a positive number")
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

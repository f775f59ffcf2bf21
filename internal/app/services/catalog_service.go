package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/helpers"
)

// CatalogService defines the operations of the development course API
type CatalogService interface {
	ListCourses(ctx context.Context, page, pageSize int) ([]models.Course, error)
	GetCourse(ctx context.Context, id int64) (models.Course, error)
	UpdateCourse(ctx context.Context, id int64, course models.Course) (models.Course, error)
	Seed(ctx context.Context, courses []models.Course) (int, error)
	Count() int
}

// catalogServiceImpl implements CatalogService
type catalogServiceImpl struct {
	courseRepo *repositories.CourseRepository
	logger     zerolog.Logger
}

// NewCatalogService creates a new catalog service instance
func NewCatalogService(courseRepo *repositories.CourseRepository, logger zerolog.Logger) CatalogService {
	return &catalogServiceImpl{
		courseRepo: courseRepo,
		logger:     logger.With().Str("component", "catalog_service").Logger(),
	}
}

// ListCourses returns one page of courses ordered by id. A page past the end is empty.
func (s *catalogServiceImpl) ListCourses(ctx context.Context, page, pageSize int) ([]models.Course, error) {
	all, err := s.courseRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	start, end := helpers.CalculateSliceIndices(page, pageSize, len(all))
	return all[start:end], nil
}

// GetCourse retrieves a course by id
func (s *catalogServiceImpl) GetCourse(ctx context.Context, id int64) (models.Course, error) {
	if id <= 0 {
		return models.Course{}, fmt.Errorf("%w: course id must be positive", apperrors.ErrValidationFailed)
	}
	return s.courseRepo.GetByID(ctx, id)
}

// UpdateCourse replaces the course named by id. The body may omit the id but
// must not name a different one.
func (s *catalogServiceImpl) UpdateCourse(ctx context.Context, id int64, course models.Course) (models.Course, error) {
	if id <= 0 {
		return models.Course{}, fmt.Errorf("%w: course id must be positive", apperrors.ErrValidationFailed)
	}
	if course.ID != 0 && course.ID != id {
		return models.Course{}, fmt.Errorf("%w: body id %d does not match path id %d", apperrors.ErrValidationFailed, course.ID, id)
	}
	course.ID = id

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return models.Course{}, err
	}

	s.logger.Info().Int64("courseId", id).Str("description", course.Description).Msg("Course updated")
	return course, nil
}

// Seed loads courses into the catalogue. Courses beyond the capacity are skipped.
func (s *catalogServiceImpl) Seed(ctx context.Context, courses []models.Course) (int, error) {
	loaded := 0
	for _, c := range courses {
		if c.ID <= 0 {
			return loaded, fmt.Errorf("%w: seed course without id", apperrors.ErrValidationFailed)
		}

		err := s.courseRepo.Insert(ctx, c)
		if errors.Is(err, apperrors.ErrCatalogFull) {
			s.logger.Warn().Int("loaded", loaded).Int("skipped", len(courses)-loaded).Msg("Course catalog full, remaining seed courses skipped")
			break
		}
		if err != nil {
			return loaded, err
		}
		loaded++
	}
	return loaded, nil
}

// Count returns the number of stored courses
func (s *catalogServiceImpl) Count() int {
	return s.courseRepo.Count()
}

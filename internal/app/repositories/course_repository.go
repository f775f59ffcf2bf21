package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

// CourseRepository keeps the development catalogue in memory
type CourseRepository struct {
	mu       sync.RWMutex
	courses  map[int64]models.Course
	capacity int
}

// NewCourseRepository creates an empty repository holding at most capacity courses
func NewCourseRepository(capacity int) *CourseRepository {
	return &CourseRepository{
		courses:  make(map[int64]models.Course),
		capacity: capacity,
	}
}

// Insert adds a course. Existing ids are overwritten.
func (r *CourseRepository) Insert(ctx context.Context, course models.Course) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.courses[course.ID]; !exists && r.capacity > 0 && len(r.courses) >= r.capacity {
		return fmt.Errorf("%w: capacity %d reached", apperrors.ErrCatalogFull, r.capacity)
	}
	r.courses[course.ID] = course
	return nil
}

// GetAll returns every course ordered by id
func (r *CourseRepository) GetAll(ctx context.Context) ([]models.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	courses := make([]models.Course, 0, len(r.courses))
	for _, c := range r.courses {
		courses = append(courses, c)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses, nil
}

// GetByID retrieves a course by id
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (models.Course, error) {
	if err := ctx.Err(); err != nil {
		return models.Course{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.courses[id]
	if !ok {
		return models.Course{}, apperrors.NewResourceNotFoundError(fmt.Sprintf("course %d not found", id))
	}
	return c, nil
}

// Update replaces an existing course. Unknown ids are never created.
func (r *CourseRepository) Update(ctx context.Context, course models.Course) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.courses[course.ID]; !ok {
		return apperrors.NewResourceNotFoundError(fmt.Sprintf("course %d not found", course.ID))
	}
	r.courses[course.ID] = course
	return nil
}

// Count returns the number of stored courses
func (r *CourseRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.courses)
}

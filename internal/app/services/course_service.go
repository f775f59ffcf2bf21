package services

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/pkg/async"
	"github.com/yigit/coursehub/internal/pkg/httpclient"
	"github.com/yigit/coursehub/internal/pkg/request"
)

// CoursesPath is the collection endpoint of the course API
const CoursesPath = "/api/courses"

// CourseService defines the reactive operations on the remote course catalogue.
// Every returned sequence is cold: nothing is sent until it is subscribed, and
// each subscription sends its own request.
type CourseService interface {
	LoadCourses() async.Sequence[[]models.Course]
	GetCourse(id int64) async.Sequence[models.Course]
	SaveCourse(course models.Course) async.Sequence[models.Course]
}

// CourseServiceOptions configures NewCourseService
type CourseServiceOptions struct {
	BaseURL  string
	Paging   request.Paging
	Identity request.Identity
	Logger   zerolog.Logger
}

// courseServiceImpl implements CourseService over an HTTP transport
type courseServiceImpl struct {
	client   *httpclient.Client
	paging   request.Paging
	identity request.Identity
	logger   zerolog.Logger
}

// NewCourseService creates a course service that sends its requests through transport
func NewCourseService(transport httpclient.Doer, opts CourseServiceOptions) (CourseService, error) {
	logger := opts.Logger.With().Str("component", "course_service").Logger()

	client, err := httpclient.New(transport, opts.BaseURL, logger)
	if err != nil {
		return nil, fmt.Errorf("course service: %w", err)
	}

	paging := opts.Paging
	if paging == (request.Paging{}) {
		paging = request.DefaultPaging()
	}
	identity := opts.Identity
	if identity == (request.Identity{}) {
		identity = request.DefaultIdentity()
	}

	return &courseServiceImpl{
		client:   client,
		paging:   paging,
		identity: identity,
		logger:   logger,
	}, nil
}

// LoadCourses reads one page of the catalogue
func (s *courseServiceImpl) LoadCourses() async.Sequence[[]models.Course] {
	return async.New(func(ctx context.Context) ([]models.Course, error) {
		var courses []models.Course
		err := s.client.Do(ctx, httpclient.Request{
			Method: http.MethodGet,
			Path:   CoursesPath,
			Query:  request.ReadParams(s.paging),
		}, httpclient.ArrayShape, &courses)
		if err != nil {
			return nil, err
		}

		if courses == nil {
			courses = []models.Course{}
		}
		return courses, nil
	})
}

// GetCourse reads the current record of a single course
func (s *courseServiceImpl) GetCourse(id int64) async.Sequence[models.Course] {
	return async.New(func(ctx context.Context) (models.Course, error) {
		var course models.Course
		err := s.client.Do(ctx, httpclient.Request{
			Method: http.MethodGet,
			Path:   coursePath(id),
		}, httpclient.ObjectShape, &course)
		if err != nil {
			return models.Course{}, err
		}
		return course, nil
	})
}

// SaveCourse replaces the server-side record named by course.ID
func (s *courseServiceImpl) SaveCourse(course models.Course) async.Sequence[models.Course] {
	return async.New(func(ctx context.Context) (models.Course, error) {
		var saved models.Course
		err := s.client.Do(ctx, httpclient.Request{
			Method:  http.MethodPut,
			Path:    coursePath(course.ID),
			Headers: request.WriteHeaders(s.identity),
			Body:    course,
		}, httpclient.ObjectShape, &saved)
		if err != nil {
			return models.Course{}, err
		}

		if ctx.Err() == nil {
			s.logger.Info().Int64("courseId", saved.ID).Msg("Course saved")
		}
		return saved, nil
	})
}

func coursePath(id int64) string {
	return CoursesPath + "/" + strconv.FormatInt(id, 10)
}

package view

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/services"
	"github.com/yigit/coursehub/internal/pkg/async"
)

// App is the root unit: it shows the course list and saves edited courses
type App struct {
	svc    services.CourseService
	logger zerolog.Logger

	mu        sync.Mutex
	ctx       context.Context
	list      *CourseList
	saves     map[*async.Subscription]struct{}
	destroyed bool
}

// NewApp creates an uninitialised app
func NewApp(svc services.CourseService, logger zerolog.Logger) *App {
	return &App{
		svc:    svc,
		logger: logger.With().Str("component", "app").Logger(),
		saves:  make(map[*async.Subscription]struct{}),
	}
}

// Init binds the course list and starts loading it. ctx bounds every
// subscription the app makes.
func (a *App) Init(ctx context.Context) error {
	a.mu.Lock()
	if a.destroyed {
		a.mu.Unlock()
		return ErrDestroyed
	}
	if a.list != nil {
		a.mu.Unlock()
		return ErrAlreadyActive
	}
	a.ctx = ctx
	a.list = NewCourseList(a.svc, func(c models.Course) { a.OnCourseChanged(c) })
	list := a.list
	a.mu.Unlock()

	return list.Activate(ctx)
}

// Courses returns the course list, nil before Init
func (a *App) Courses() *CourseList {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.list
}

// OnCourseChanged saves course and logs the stored description. It returns
// nil once the app is destroyed.
func (a *App) OnCourseChanged(course models.Course) *async.Subscription {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.destroyed {
		return nil
	}
	ctx := a.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	var sub *async.Subscription
	// Callbacks take a.mu, so sub is assigned before they read it
	sub = a.svc.SaveCourse(course).Subscribe(ctx, async.Observer[models.Course]{
		Next: func(saved models.Course) {
			a.mu.Lock()
			defer a.mu.Unlock()
			if a.destroyed {
				return
			}
			delete(a.saves, sub)
			a.logger.Info().Int64("courseId", saved.ID).Msg(saved.Description)
		},
		Error: func(err error) {
			a.mu.Lock()
			defer a.mu.Unlock()
			if a.destroyed {
				return
			}
			delete(a.saves, sub)
			a.logger.Error().Err(err).Int64("courseId", course.ID).Msg("Failed to save course")
		},
	})
	a.saves[sub] = struct{}{}
	return sub
}

// Pending returns the number of saves still in flight
func (a *App) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.saves)
}

// Destroy tears down the list and every pending save. Only the first call has
// an effect.
func (a *App) Destroy() bool {
	a.mu.Lock()
	if a.destroyed {
		a.mu.Unlock()
		return false
	}
	a.destroyed = true
	list := a.list
	saves := a.saves
	a.saves = nil
	a.mu.Unlock()

	if list != nil {
		list.Destroy()
	}
	for sub := range saves {
		sub.Unsubscribe()
	}
	return true
}

package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursehub/internal/app/controllers"
	"github.com/yigit/coursehub/internal/middleware"
)

// Options configures the course routes
type Options struct {
	// IdentityHeader must be present on writes
	IdentityHeader string
	// Delay is added before every course request is handled
	Delay time.Duration
}

// SetupRouter registers the course API routes
func SetupRouter(router *gin.Engine, courseController *controllers.CourseController, opts Options) {
	api := router.Group("/api")

	courses := api.Group("/courses")
	courses.Use(middleware.Latency(opts.Delay))
	{
		courses.GET("", courseController.GetCourses)
		courses.GET("/:id", courseController.GetCourseByID)

		// Writes carry the caller identity
		writes := courses.Group("")
		writes.Use(middleware.RequireIdentity(opts.IdentityHeader))
		{
			writes.PUT("/:id", courseController.SaveCourse)
		}
	}
}

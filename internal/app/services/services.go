// Package services holds the course operations.
//
// Services defined in this package:
//   - CourseService: reactive client of the remote course API (LoadCourses, SaveCourse)
//   - CatalogService: in-memory catalogue behind the development course API
package services

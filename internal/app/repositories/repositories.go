package repositories

// Repositories holds all the repository instances
type Repositories struct {
	CourseRepository *CourseRepository
}

// NewRepositories initializes all repositories. courseCapacity caps the
// number of stored courses.
func NewRepositories(courseCapacity int) *Repositories {
	return &Repositories{
		CourseRepository: NewCourseRepository(courseCapacity),
	}
}

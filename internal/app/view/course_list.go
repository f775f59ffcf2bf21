package view

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/services"
)

// CourseListState is everything Render needs
type CourseListState struct {
	Courses []models.Course
	Loading bool
	Err     error
}

// CourseList presents the first page of the catalogue
type CourseList struct {
	binding   *Binding[[]models.Course]
	onChanged func(models.Course)
}

// NewCourseList binds the list to a course read. Edits made on its cards are
// passed to onChanged.
func NewCourseList(svc services.CourseService, onChanged func(models.Course)) *CourseList {
	return &CourseList{
		binding:   Bind(svc.LoadCourses()),
		onChanged: onChanged,
	}
}

// Activate starts loading the courses
func (l *CourseList) Activate(ctx context.Context) error {
	return l.binding.Activate(ctx)
}

// Destroy stops any load in flight. Safe to call more than once.
func (l *CourseList) Destroy() bool {
	return l.binding.Destroy()
}

// Settled is closed once the courses or an error have arrived
func (l *CourseList) Settled() <-chan struct{} {
	return l.binding.Settled()
}

// State returns the current list state
func (l *CourseList) State() CourseListState {
	snap := l.binding.Snapshot()
	return CourseListState{
		Courses: snap.Value,
		Loading: !snap.Ready,
		Err:     snap.Err,
	}
}

// Cards builds one card per loaded course
func (l *CourseList) Cards() []*CourseCard {
	courses := l.State().Courses
	cards := make([]*CourseCard, 0, len(courses))
	for i, c := range courses {
		cards = append(cards, NewCourseCard(c, i, l.onChanged))
	}
	return cards
}

// Card returns the card of the course with the given id
func (l *CourseList) Card(id int64) (*CourseCard, bool) {
	for _, card := range l.Cards() {
		if card.Course().ID == id {
			return card, true
		}
	}
	return nil, false
}

// Render writes the list as a table, or a placeholder while loading or after a failure
func (l *CourseList) Render(w io.Writer) error {
	state := l.State()

	switch {
	case state.Err != nil:
		_, err := fmt.Fprintf(w, "Could not load courses: %v\n", state.Err)
		return err
	case state.Loading:
		_, err := fmt.Fprintln(w, "Loading courses...")
		return err
	case len(state.Courses) == 0:
		_, err := fmt.Fprintln(w, "No courses available.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tDESCRIPTION\tCATEGORY\tLESSONS")
	for _, card := range l.Cards() {
		if err := card.Render(tw); err != nil {
			return err
		}
	}
	return tw.Flush()
}

package view

import (
	"fmt"
	"io"
	"strconv"

	"github.com/yigit/coursehub/internal/app/models"
)

// CourseCard presents one course of the list
type CourseCard struct {
	course    models.Course
	index     int
	onChanged func(models.Course)
}

// NewCourseCard creates a card. onChanged receives edited copies and may be nil.
func NewCourseCard(course models.Course, index int, onChanged func(models.Course)) *CourseCard {
	return &CourseCard{
		course:    course,
		index:     index,
		onChanged: onChanged,
	}
}

// Course returns the course shown by the card
func (c *CourseCard) Course() models.Course {
	return c.course
}

// Index is the position of the card in its list
func (c *CourseCard) Index() int {
	return c.index
}

// OnSaveClicked emits a copy of the course carrying the new description.
// The card keeps showing the course it was given.
func (c *CourseCard) OnSaveClicked(description string) models.Course {
	edited := c.course.WithDescription(description)
	if c.onChanged != nil {
		c.onChanged(edited)
	}
	return edited
}

// Render writes the card as one tab separated row
func (c *CourseCard) Render(w io.Writer) error {
	lessons := "-"
	if c.course.LessonsCount > 0 {
		lessons = strconv.Itoa(c.course.LessonsCount)
	}
	category := string(c.course.Category)
	if category == "" {
		category = "-"
	}

	_, err := fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n", c.index+1, c.course.ID, c.course.Description, category, lessons)
	return err
}

package models

// Category groups courses by difficulty
type Category string

const (
	CategoryBeginner     Category = "BEGINNER"
	CategoryIntermediate Category = "INTERMEDIATE"
	CategoryAdvanced     Category = "ADVANCED"
)

// Course is the catalogue record owned by the course API. Clients hold transient,
// possibly stale copies; the ID must name an existing server-side record for writes.
type Course struct {
	ID              int64    `json:"id" validate:"required,gt=0"`
	Description     string   `json:"description" validate:"required,max=200"`
	IconURL         string   `json:"iconUrl,omitempty" validate:"omitempty,url"`
	LongDescription string   `json:"longDescription,omitempty"`
	Category        Category `json:"category,omitempty" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	LessonsCount    int      `json:"lessonsCount,omitempty" validate:"gte=0"`
}

// WithDescription returns a copy of the course carrying the new description
func (c Course) WithDescription(description string) Course {
	c.Description = description
	return c
}

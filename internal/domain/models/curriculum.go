// internal/domain/models/curriculum.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Curriculum is a reusable syllabus template. Items are copied into a
// group's CurriculumItems on import; edits to the template never touch
// groups that already imported it.
type Curriculum struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CourseID    primitive.ObjectID `bson:"course_id,omitempty" json:"course_id,omitempty"`
	CreatedBy   primitive.ObjectID `bson:"created_by,omitempty" json:"created_by,omitempty"`

	Items []CurriculumTemplateItem `bson:"items" json:"items"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// CurriculumTemplateItem is one unit in a curriculum template. It carries
// no release schedule, completion flag, or responses; those exist only on
// the group copy.
type CurriculumTemplateItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Position    int                `bson:"position" json:"position"`
	Type        string             `bson:"type" json:"type"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Attachments []Attachment       `bson:"attachments,omitempty" json:"attachments,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Curriculum item types.
const (
	ItemLesson = "lesson"
	ItemEvent  = "event"
	ItemCAT    = "cat"
	ItemExam   = "exam"
)

// Group is a tutor-led cohort sharing one curriculum instance for one
// course. A learner belongs to at most one group per course.
type Group struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	TutorID    primitive.ObjectID `bson:"tutor_id" json:"tutor_id"`
	CourseID   primitive.ObjectID `bson:"course_id" json:"course_id"`
	CourseName string             `bson:"course_name" json:"course_name"`

	Students        []GroupStudent   `bson:"students" json:"students"`
	CurriculumItems []CurriculumItem `bson:"curriculum_items" json:"curriculum_items"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasStudent reports whether the learner is on the group roster.
func (g *Group) HasStudent(studentID primitive.ObjectID) bool {
	for i := range g.Students {
		if g.Students[i].StudentID == studentID {
			return true
		}
	}
	return false
}

// GroupStudent is one roster entry on a group.
type GroupStudent struct {
	StudentID primitive.ObjectID `bson:"student_id" json:"student_id"`
	Name      string             `bson:"name" json:"name"`
	AddedAt   time.Time          `bson:"added_at" json:"added_at"`
}

// CurriculumItem is one unit in a group's ordered syllabus. IsCompleted is
// a single per-group flag: the tutor marks an item done for the whole
// cohort, there is no per-student completion.
type CurriculumItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Position    int                `bson:"position" json:"position"`
	Type        string             `bson:"type" json:"type"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	Attachments []Attachment `bson:"attachments,omitempty" json:"attachments,omitempty"`

	ReleaseDate *time.Time `bson:"release_date,omitempty" json:"release_date,omitempty"`
	ReleaseTime string     `bson:"release_time" json:"release_time"`
	DueDate     *time.Time `bson:"due_date,omitempty" json:"due_date,omitempty"`
	DueTime     string     `bson:"due_time" json:"due_time"`

	IsReleased   bool               `bson:"is_released" json:"is_released"`
	SourceItemID primitive.ObjectID `bson:"source_item_id,omitempty" json:"source_item_id,omitempty"`
	IsCompleted  bool               `bson:"is_completed" json:"is_completed"`

	Responses []StudentResponse `bson:"responses,omitempty" json:"responses,omitempty"`
	CreatedAt time.Time         `bson:"created_at" json:"created_at"`
}

// ItemByID returns a pointer into CurriculumItems, or nil.
func (g *Group) ItemByID(id primitive.ObjectID) *CurriculumItem {
	for i := range g.CurriculumItems {
		if g.CurriculumItems[i].ID == id {
			return &g.CurriculumItems[i]
		}
	}
	return nil
}

// ResponseByID returns a pointer into Responses, or nil.
func (ci *CurriculumItem) ResponseByID(id primitive.ObjectID) *StudentResponse {
	for i := range ci.Responses {
		if ci.Responses[i].ID == id {
			return &ci.Responses[i]
		}
	}
	return nil
}

// ReleaseAt combines ReleaseDate and ReleaseTime into the instant the
// item becomes visible to learners. Nil when no release date is set.
func (ci *CurriculumItem) ReleaseAt() *time.Time {
	if ci.ReleaseDate == nil {
		return nil
	}
	hour, minute := 0, 0
	if t, err := time.Parse("15:04", ci.ReleaseTime); err == nil {
		hour, minute = t.Hour(), t.Minute()
	}
	d := ci.ReleaseDate.UTC()
	at := time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, time.UTC)
	return &at
}

// Attachment is a linked resource on a curriculum item or response.
type Attachment struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type  string             `bson:"type" json:"type"` // youtube | vimeo | mp4 | pdf | article | document | image | link | none
	URL   string             `bson:"url,omitempty" json:"url,omitempty"`
	Title string             `bson:"title,omitempty" json:"title,omitempty"`
}

// StudentResponse is a learner's submission or question on a curriculum
// item, optionally remarked on by the tutor. Each response is owned by
// exactly one learner.
type StudentResponse struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID     primitive.ObjectID `bson:"student_id" json:"student_id"`
	StudentName   string             `bson:"student_name" json:"student_name"`
	ResponseText  string             `bson:"response_text" json:"response_text"`
	Attachments   []Attachment       `bson:"attachments,omitempty" json:"attachments,omitempty"`
	IsQuestion    bool               `bson:"is_question" json:"is_question"`
	IsPublic      bool               `bson:"is_public" json:"is_public"`
	TutorRemark   string             `bson:"tutor_remark,omitempty" json:"tutor_remark,omitempty"`
	TutorRemarkAt *time.Time         `bson:"tutor_remark_at,omitempty" json:"tutor_remark_at,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}

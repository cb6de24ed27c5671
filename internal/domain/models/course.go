// internal/domain/models/course.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course is a catalog entry. EnrolledStudents mirrors the reverse side of
// Learner.Courses; the lifecycle services keep the two in sync inside one
// transaction and nothing else may write either side directly.
type Course struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	CourseType string `bson:"course_type" json:"course_type"` // online | physical | hybrid
	CourseTier string `bson:"course_tier" json:"course_tier"` // basic | professional | premium

	Duration     int    `bson:"duration" json:"duration"`
	DurationType string `bson:"duration_type" json:"duration_type"` // hours | days | weeks | months

	CourseFee  float64  `bson:"course_fee" json:"course_fee"`
	OfferPrice *float64 `bson:"offer_price,omitempty" json:"offer_price,omitempty"`

	CoverImage      *StoredImage  `bson:"cover_image,omitempty" json:"cover_image,omitempty"`
	SecondaryImages []StoredImage `bson:"secondary_images,omitempty" json:"secondary_images,omitempty"`

	Status string               `bson:"status" json:"status"`
	Tutors []primitive.ObjectID `bson:"tutors,omitempty" json:"tutors,omitempty"`

	EnrolledStudents []EnrolledStudent `bson:"enrolled_students" json:"enrolled_students"`

	IsArchived bool      `bson:"is_archived" json:"is_archived"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}

// RosterEntryFor returns a pointer into EnrolledStudents for the learner, or nil.
func (c *Course) RosterEntryFor(studentID primitive.ObjectID) *EnrolledStudent {
	for i := range c.EnrolledStudents {
		if c.EnrolledStudents[i].StudentID == studentID {
			return &c.EnrolledStudents[i]
		}
	}
	return nil
}

// EnrolledStudent is the denormalized roster entry on a course.
type EnrolledStudent struct {
	StudentID primitive.ObjectID `bson:"student_id" json:"student_id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone" json:"phone"`
	UserType  string             `bson:"user_type,omitempty" json:"user_type,omitempty"`

	EnrollmentTime time.Time   `bson:"enrollment_time" json:"enrollment_time"`
	Payment        PaymentInfo `bson:"payment" json:"payment"`

	AssignmentStatus string    `bson:"assignment_status" json:"assignment_status"`
	AdminNotes       string    `bson:"admin_notes,omitempty" json:"admin_notes,omitempty"`
	Tutor            *TutorRef `bson:"tutor,omitempty" json:"tutor,omitempty"`
}

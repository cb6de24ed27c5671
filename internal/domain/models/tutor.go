// internal/domain/models/tutor.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tutor teaches courses and carries two rosters: MyStudents for active
// assignments and CertifiedStudents for graduated ones. A (student, course)
// pair appears in at most one of the two.
type Tutor struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName string             `bson:"first_name" json:"first_name"`
	LastName  string             `bson:"last_name" json:"last_name"`
	Role      string             `bson:"role" json:"role"`
	Email     string             `bson:"email" json:"email"`
	EmailCI   string             `bson:"email_ci" json:"-"`
	Phone     string             `bson:"phone" json:"phone"`
	KRAPin    string             `bson:"kra_pin,omitempty" json:"kra_pin,omitempty"`
	Password  string             `bson:"password,omitempty" json:"-"`

	ProfilePicture *StoredImage `bson:"profile_picture,omitempty" json:"profile_picture,omitempty"`

	Courses []primitive.ObjectID `bson:"courses" json:"courses"`

	MyStudents        []TutorStudent     `bson:"my_students" json:"my_students"`
	CertifiedStudents []CertifiedStudent `bson:"certified_students" json:"certified_students"`

	IsActive  bool      `bson:"is_active" json:"is_active"`
	JoinDate  time.Time `bson:"join_date" json:"join_date"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// FullName returns "First Last" for denormalized name fields.
func (t Tutor) FullName() string {
	return t.FirstName + " " + t.LastName
}

// StudentFor returns a pointer into MyStudents for (studentID, courseID), or nil.
func (t *Tutor) StudentFor(studentID, courseID primitive.ObjectID) *TutorStudent {
	for i := range t.MyStudents {
		if t.MyStudents[i].StudentID == studentID && t.MyStudents[i].CourseID == courseID {
			return &t.MyStudents[i]
		}
	}
	return nil
}

// TutorStudent is one active assignment on a tutor's roster.
type TutorStudent struct {
	StudentID     primitive.ObjectID `bson:"student_id" json:"student_id"`
	Name          string             `bson:"name" json:"name"`
	UserType      string             `bson:"user_type" json:"user_type"` // student | alumni
	CourseID      primitive.ObjectID `bson:"course_id" json:"course_id"`
	CourseName    string             `bson:"course_name" json:"course_name"`
	PaymentStatus string             `bson:"payment_status" json:"payment_status"`

	IsAssignedToGroup bool           `bson:"is_assigned_to_group" json:"is_assigned_to_group"`
	AssignedGroup     *AssignedGroup `bson:"assigned_group,omitempty" json:"assigned_group,omitempty"`

	Settlement *Settlement `bson:"settlement,omitempty" json:"settlement,omitempty"`
	AssignedAt time.Time   `bson:"assigned_at" json:"assigned_at"`
}

// CertifiedStudent is the historical snapshot kept after graduation.
type CertifiedStudent struct {
	StudentID   primitive.ObjectID `bson:"student_id" json:"student_id"`
	StudentName string             `bson:"student_name" json:"student_name"`
	Email       string             `bson:"email" json:"email"`
	Phone       string             `bson:"phone" json:"phone"`
	UserType    string             `bson:"user_type" json:"user_type"`
	CourseID    primitive.ObjectID `bson:"course_id" json:"course_id"`
	CourseName  string             `bson:"course_name" json:"course_name"`

	Payment    PaymentInfo `bson:"payment" json:"payment"`
	Settlement *Settlement `bson:"settlement,omitempty" json:"settlement,omitempty"`

	Exams             []Exam    `bson:"exams" json:"exams"`
	GPA               float64   `bson:"gpa" json:"gpa"`
	FinalGrade        string    `bson:"final_grade" json:"final_grade"`
	CertificateSerial string    `bson:"certificate_serial,omitempty" json:"certificate_serial,omitempty"`
	CertificationDate time.Time `bson:"certification_date" json:"certification_date"`
}

// Settlement statuses.
const (
	SettlementPending = "PENDING"
	SettlementPaid    = "PAID"
)

// Settlement records an outbound payment to a tutor for one student.
type Settlement struct {
	Status        string     `bson:"status" json:"status"`
	Amount        float64    `bson:"amount,omitempty" json:"amount,omitempty"`
	Phone         string     `bson:"phone,omitempty" json:"phone,omitempty"`
	TransactionID string     `bson:"transaction_id,omitempty" json:"transaction_id,omitempty"`
	TimeOfPayment *time.Time `bson:"time_of_payment,omitempty" json:"time_of_payment,omitempty"`
	Notes         string     `bson:"notes,omitempty" json:"notes,omitempty"`
}

// internal/domain/models/learner.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Learner kinds. A learner lives in exactly one of the "students" or
// "alumni" collections; Kind records which one it was loaded from and is
// never persisted.
const (
	KindStudent = "student"
	KindAlumnus = "alumni"
)

// Payment status for a course enrollment.
const (
	PaymentPending = "PENDING"
	PaymentPaid    = "PAID"
	PaymentFailed  = "FAILED"
)

// Assignment status for a course enrollment.
const (
	AssignmentPending   = "PENDING"
	AssignmentAssigned  = "ASSIGNED"
	AssignmentCancelled = "CANCELLED"
)

// Certification status for a course enrollment.
const (
	CertificationPending   = "PENDING"
	CertificationCertified = "CERTIFIED"
	CertificationGraduated = "GRADUATED"
)

// Exam grades.
const (
	GradeDistinction = "Distinction"
	GradeMerit       = "Merit"
	GradeCredit      = "Credit"
	GradePass        = "Pass"
	GradeFail        = "Fail"
)

// Learner represents a person-in-training: a student or an alumnus.
// Both variants share one shape; graduation migrates the document from the
// students collection to the alumni collection keeping the same _id.
type Learner struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Kind      string             `bson:"-" json:"kind"`
	FirstName string             `bson:"first_name" json:"first_name"`
	LastName  string             `bson:"last_name" json:"last_name"`
	Email     string             `bson:"email" json:"email"`
	EmailCI   string             `bson:"email_ci" json:"-"`
	Phone     string             `bson:"phone" json:"phone"`
	IDNumber  string             `bson:"id_number,omitempty" json:"id_number,omitempty"`
	DOB       *time.Time         `bson:"dob,omitempty" json:"dob,omitempty"`
	Password  string             `bson:"password" json:"-"`

	AdmissionNumber string `bson:"admission_number,omitempty" json:"admission_number,omitempty"`
	CurrentLocation string `bson:"current_location,omitempty" json:"current_location,omitempty"`
	PublicProfile   bool   `bson:"is_public_profile_enabled" json:"is_public_profile_enabled"`

	ProfilePicture *StoredImage `bson:"profile_picture,omitempty" json:"profile_picture,omitempty"`

	Courses    []CourseEnrollment `bson:"courses" json:"courses"`
	CPDRecords []CPDRecord        `bson:"cpd_records,omitempty" json:"cpd_records,omitempty"`

	// Alumni-only: subscription state and payment history.
	Subscription         *Subscription         `bson:"subscription,omitempty" json:"subscription,omitempty"`
	SubscriptionPayments []SubscriptionPayment `bson:"subscription_payments,omitempty" json:"subscription_payments,omitempty"`

	GraduationDate *time.Time `bson:"graduation_date,omitempty" json:"graduation_date,omitempty"`

	NextOfKinName         string `bson:"next_of_kin_name,omitempty" json:"next_of_kin_name,omitempty"`
	NextOfKinRelationship string `bson:"next_of_kin_relationship,omitempty" json:"next_of_kin_relationship,omitempty"`
	NextOfKinPhone        string `bson:"next_of_kin_phone,omitempty" json:"next_of_kin_phone,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// FullName returns "First Last" for denormalized name fields.
func (l Learner) FullName() string {
	return l.FirstName + " " + l.LastName
}

// EnrollmentFor returns a pointer into Courses for the given course, or nil.
func (l *Learner) EnrollmentFor(courseID primitive.ObjectID) *CourseEnrollment {
	for i := range l.Courses {
		if l.Courses[i].CourseID == courseID {
			return &l.Courses[i]
		}
	}
	return nil
}

// CourseEnrollment is a learner's per-course state: payment, tutor and
// group assignment, curriculum progress and certification outcome.
type CourseEnrollment struct {
	CourseID     primitive.ObjectID `bson:"course_id" json:"course_id"`
	Name         string             `bson:"name" json:"name"`
	Duration     int                `bson:"duration" json:"duration"`
	DurationType string             `bson:"duration_type" json:"duration_type"`

	Payment PaymentInfo `bson:"payment" json:"payment"`

	AssignmentStatus string    `bson:"assignment_status" json:"assignment_status"`
	EnrolledAt       time.Time `bson:"enrolled_at" json:"enrolled_at"`
	AdminNotes       string    `bson:"admin_notes,omitempty" json:"admin_notes,omitempty"`

	Tutor *TutorRef `bson:"tutor,omitempty" json:"tutor,omitempty"`

	IsAssignedToGroup bool          `bson:"is_assigned_to_group" json:"is_assigned_to_group"`
	AssignedGroup     *AssignedGroup `bson:"assigned_group,omitempty" json:"assigned_group,omitempty"`

	Exams               []Exam     `bson:"exams,omitempty" json:"exams,omitempty"`
	GPA                 float64    `bson:"gpa" json:"gpa"`
	FinalGrade          string     `bson:"final_grade,omitempty" json:"final_grade,omitempty"`
	CertificationDate   *time.Time `bson:"certification_date,omitempty" json:"certification_date,omitempty"`
	CertificationStatus string     `bson:"certification_status" json:"certification_status"`
	CertificateSerial   string     `bson:"certificate_serial,omitempty" json:"certificate_serial,omitempty"`

	PaymentNotificationHidden bool `bson:"payment_notification_hidden,omitempty" json:"payment_notification_hidden,omitempty"`
}

// PaymentInfo records the payment attempt attached to an enrollment.
// A non-empty TransactionID is treated as proof of payment at enrollment
// time; it is not re-verified against the gateway.
type PaymentInfo struct {
	Status        string     `bson:"status" json:"status"`
	Phone         string     `bson:"phone,omitempty" json:"phone,omitempty"`
	TransactionID string     `bson:"transaction_id,omitempty" json:"transaction_id,omitempty"`
	Amount        float64    `bson:"amount,omitempty" json:"amount,omitempty"`
	TimeOfPayment *time.Time `bson:"time_of_payment,omitempty" json:"time_of_payment,omitempty"`
}

// TutorRef is the tutor identity embedded on an enrollment once assigned.
type TutorRef struct {
	ID     primitive.ObjectID `bson:"id" json:"id"`
	Name   string             `bson:"name" json:"name"`
	Email  string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone  string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Status string             `bson:"status" json:"status"`
}

// AssignedGroup points at the group a learner was placed into for a course.
type AssignedGroup struct {
	GroupID   primitive.ObjectID `bson:"group_id" json:"group_id"`
	GroupName string             `bson:"group_name" json:"group_name"`
}

// Exam is one recorded exam outcome on an enrollment.
type Exam struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"exam_name" json:"exam_name"`
	Grade      string             `bson:"grade" json:"grade"`
	RecordedAt time.Time          `bson:"recorded_at" json:"recorded_at"`
}

// CPDRecord is one continuing-professional-development exam result.
type CPDRecord struct {
	Year      int       `bson:"year" json:"year"`
	DateTaken time.Time `bson:"date_taken" json:"date_taken"`
	Result    string    `bson:"result" json:"result"` // pass | fail
	Score     float64   `bson:"score,omitempty" json:"score,omitempty"`
	Remarks   string    `bson:"remarks,omitempty" json:"remarks,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Subscription is the current alumni subscription state.
type Subscription struct {
	Active          bool       `bson:"active" json:"active"`
	ExpiryDate      *time.Time `bson:"expiry_date,omitempty" json:"expiry_date,omitempty"`
	YearsSubscribed int        `bson:"years_subscribed" json:"years_subscribed"`
	LastPaymentDate *time.Time `bson:"last_payment_date,omitempty" json:"last_payment_date,omitempty"`
	AutoRenew       bool       `bson:"auto_renew" json:"auto_renew"`
}

// SubscriptionPayment is one entry in the alumni subscription history.
type SubscriptionPayment struct {
	Years         int       `bson:"years" json:"years"`
	Amount        float64   `bson:"amount" json:"amount"`
	PaymentDate   time.Time `bson:"payment_date" json:"payment_date"`
	ExpiryDate    time.Time `bson:"expiry_date" json:"expiry_date"`
	PaymentMethod string    `bson:"payment_method" json:"payment_method"` // mpesa | cash | bank_transfer | cheque | paypal
	TransactionID string    `bson:"transaction_id,omitempty" json:"transaction_id,omitempty"`
	Phone         string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Status        string    `bson:"status" json:"status"` // pending | paid | failed | cancelled
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}

// StoredImage is an uploaded image held in object storage.
type StoredImage struct {
	URL       string `bson:"url" json:"url"`
	StorageID string `bson:"storage_id" json:"storage_id"`
}

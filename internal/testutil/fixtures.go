package testutil

import (
	"context"
	"testing"
	"time"

	textfold "github.com/dalemusser/waffle/pantry/text"
	"github.com/shulehub/shulehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateStudent inserts a student with no enrollments.
func (f *Fixtures) CreateStudent(ctx context.Context, firstName, lastName, email string) models.Learner {
	f.t.Helper()

	now := time.Now().UTC()
	s := models.Learner{
		ID:        primitive.NewObjectID(),
		Kind:      models.KindStudent,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		EmailCI:   textfold.Fold(email),
		Phone:     "254700000000",
		Courses:   []models.CourseEnrollment{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("students").InsertOne(ctx, s); err != nil {
		f.t.Fatalf("failed to create test student: %v", err)
	}
	return s
}

// CreateAlumnus inserts a learner directly into the alumni collection.
func (f *Fixtures) CreateAlumnus(ctx context.Context, firstName, lastName, email string) models.Learner {
	f.t.Helper()

	now := time.Now().UTC()
	grad := now.AddDate(-1, 0, 0)
	a := models.Learner{
		ID:             primitive.NewObjectID(),
		Kind:           models.KindAlumnus,
		FirstName:      firstName,
		LastName:       lastName,
		Email:          email,
		EmailCI:        textfold.Fold(email),
		Phone:          "254700000000",
		Courses:        []models.CourseEnrollment{},
		GraduationDate: &grad,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := f.db.Collection("alumni").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test alumnus: %v", err)
	}
	return a
}

// CreateTutor inserts an active tutor with empty rosters.
func (f *Fixtures) CreateTutor(ctx context.Context, firstName, lastName, email string) models.Tutor {
	f.t.Helper()

	now := time.Now().UTC()
	tu := models.Tutor{
		ID:                primitive.NewObjectID(),
		FirstName:         firstName,
		LastName:          lastName,
		Role:              "tutor",
		Email:             email,
		EmailCI:           textfold.Fold(email),
		Phone:             "254711000000",
		MyStudents:        []models.TutorStudent{},
		CertifiedStudents: []models.CertifiedStudent{},
		IsActive:          true,
		JoinDate:          now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if _, err := f.db.Collection("tutors").InsertOne(ctx, tu); err != nil {
		f.t.Fatalf("failed to create test tutor: %v", err)
	}
	return tu
}

// CreateCourse inserts a course with an empty roster.
func (f *Fixtures) CreateCourse(ctx context.Context, name string, fee float64) models.Course {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Course{
		ID:               primitive.NewObjectID(),
		Name:             name,
		NameCI:           textfold.Fold(name),
		CourseType:       "online",
		CourseTier:       "professional",
		Duration:         8,
		DurationType:     "weeks",
		CourseFee:        fee,
		Status:           "active",
		EnrolledStudents: []models.EnrolledStudent{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if _, err := f.db.Collection("courses").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test course: %v", err)
	}
	return c
}

// CreateGroup inserts a group for the tutor and course with no students.
func (f *Fixtures) CreateGroup(ctx context.Context, name string, tutorID primitive.ObjectID, course models.Course) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	g := models.Group{
		ID:              primitive.NewObjectID(),
		Name:            name,
		TutorID:         tutorID,
		CourseID:        course.ID,
		CourseName:      course.Name,
		Students:        []models.GroupStudent{},
		CurriculumItems: []models.CurriculumItem{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := f.db.Collection("groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return g
}

// CreateCurriculum inserts a curriculum template with the given items.
func (f *Fixtures) CreateCurriculum(ctx context.Context, name string, courseID primitive.ObjectID, items []models.CurriculumTemplateItem) models.Curriculum {
	f.t.Helper()

	now := time.Now().UTC()
	cu := models.Curriculum{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    textfold.Fold(name),
		CourseID:  courseID,
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("curricula").InsertOne(ctx, cu); err != nil {
		f.t.Fatalf("failed to create test curriculum: %v", err)
	}
	return cu
}

// CreateMpesaTransaction inserts an unused gateway transaction.
func (f *Fixtures) CreateMpesaTransaction(ctx context.Context, transactionID, phone string, amount float64) models.MpesaTransaction {
	f.t.Helper()

	now := time.Now().UTC()
	tx := models.MpesaTransaction{
		ID:            primitive.NewObjectID(),
		TransactionID: transactionID,
		Phone:         phone,
		Amount:        amount,
		CreatedAt:     now,
	}

	if _, err := f.db.Collection("mpesa_transactions").InsertOne(ctx, tx); err != nil {
		f.t.Fatalf("failed to create test mpesa transaction: %v", err)
	}
	return tx
}

// EnrollStudent writes a paid or pending enrollment onto both sides of the
// student/course relationship, bypassing the enrollment service. Useful for
// tests that need a learner mid-lifecycle.
func (f *Fixtures) EnrollStudent(ctx context.Context, student models.Learner, course models.Course, paid bool) {
	f.t.Helper()

	now := time.Now().UTC()
	payStatus := models.PaymentPending
	var txID string
	if paid {
		payStatus = models.PaymentPaid
		txID = "FIX" + primitive.NewObjectID().Hex()[:10]
	}

	enrollment := models.CourseEnrollment{
		CourseID:            course.ID,
		Name:                course.Name,
		Duration:            course.Duration,
		DurationType:        course.DurationType,
		Payment:             models.PaymentInfo{Status: payStatus, Phone: student.Phone, TransactionID: txID, Amount: course.CourseFee},
		AssignmentStatus:    models.AssignmentPending,
		EnrolledAt:          now,
		CertificationStatus: models.CertificationPending,
	}
	roster := models.EnrolledStudent{
		StudentID:        student.ID,
		Name:             student.FullName(),
		Email:            student.Email,
		Phone:            student.Phone,
		UserType:         models.KindStudent,
		EnrollmentTime:   now,
		Payment:          enrollment.Payment,
		AssignmentStatus: models.AssignmentPending,
	}

	if _, err := f.db.Collection("students").UpdateByID(ctx, student.ID,
		map[string]interface{}{"$push": map[string]interface{}{"courses": enrollment}}); err != nil {
		f.t.Fatalf("failed to write enrollment: %v", err)
	}
	if _, err := f.db.Collection("courses").UpdateByID(ctx, course.ID,
		map[string]interface{}{"$push": map[string]interface{}{"enrolled_students": roster}}); err != nil {
		f.t.Fatalf("failed to write roster entry: %v", err)
	}
}

package tutorstore_test

import (
	"errors"
	"testing"

	"github.com/shulehub/shulehub/internal/app/store/tutors"
	"github.com/shulehub/shulehub/internal/app/system/indexes"
	"github.com/shulehub/shulehub/internal/domain/models"
	"github.com/shulehub/shulehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := tutorstore.New(db)

	tu, err := store.Create(ctx, models.Tutor{
		FirstName: "Grace",
		LastName:  "Wanjiru",
		Email:     "grace@example.com",
		IsActive:  true,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if tu.Role != "tutor" {
		t.Errorf("expected default role tutor, got %q", tu.Role)
	}
	if tu.MyStudents == nil || tu.CertifiedStudents == nil {
		t.Error("expected rosters initialized to empty slices")
	}

	got, err := store.GetByID(ctx, tu.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.FullName() != "Grace Wanjiru" {
		t.Errorf("unexpected name %q", got.FullName())
	}

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, tutorstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	store := tutorstore.New(db)
	if _, err := store.Create(ctx, models.Tutor{FirstName: "A", LastName: "B", Email: "tutor@example.com"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, models.Tutor{FirstName: "C", LastName: "D", Email: "Tutor@Example.com"})
	if !errors.Is(err, tutorstore.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestSave_Rosters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	tutor := fx.CreateTutor(ctx, "Henry", "Kiprop", "henry@example.com")

	store := tutorstore.New(db)

	studentID := primitive.NewObjectID()
	courseID := primitive.NewObjectID()
	tutor.MyStudents = append(tutor.MyStudents, models.TutorStudent{
		StudentID:     studentID,
		Name:          "Test Student",
		UserType:      models.KindStudent,
		CourseID:      courseID,
		CourseName:    "Data Analysis",
		PaymentStatus: models.PaymentPaid,
	})
	if err := store.Save(ctx, tutor); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.GetByID(ctx, tutor.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	entry := got.StudentFor(studentID, courseID)
	if entry == nil {
		t.Fatal("expected roster entry after Save")
	}
	if entry.PaymentStatus != models.PaymentPaid {
		t.Errorf("unexpected payment status %q", entry.PaymentStatus)
	}
}

func TestListByCourse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	courseID := primitive.NewObjectID()

	teaching := fx.CreateTutor(ctx, "Irene", "Moraa", "irene@example.com")
	other := fx.CreateTutor(ctx, "James", "Omondi", "james@example.com")
	_ = other

	store := tutorstore.New(db)
	teaching.Courses = []primitive.ObjectID{courseID}
	if err := store.Save(ctx, teaching); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.ListByCourse(ctx, courseID)
	if err != nil {
		t.Fatalf("ListByCourse failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != teaching.ID {
		t.Errorf("expected only the teaching tutor, got %d results", len(got))
	}
}

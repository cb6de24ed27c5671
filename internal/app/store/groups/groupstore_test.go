package groupstore_test

import (
	"errors"
	"testing"
	"time"

	groupstore "github.com/shulehub/shulehub/internal/app/store/groups"
	"github.com/shulehub/shulehub/internal/domain/models"
	"github.com/shulehub/shulehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tutor := fixtures.CreateTutor(ctx, "Grace", "Wanjiru", "grace@example.com")
	course := fixtures.CreateCourse(ctx, "Data Analysis", 15000)

	created, err := store.Create(ctx, models.Group{
		Name:       "Morning Cohort",
		TutorID:    tutor.ID,
		CourseID:   course.ID,
		CourseName: course.Name,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
	if created.Students == nil || created.CurriculumItems == nil {
		t.Error("expected roster and curriculum initialized to empty slices")
	}
}

func TestStore_FindByStudentAndCourse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tutor := fixtures.CreateTutor(ctx, "Henry", "Kiprop", "henry@example.com")
	course := fixtures.CreateCourse(ctx, "Accounting", 20000)
	group := fixtures.CreateGroup(ctx, "Evening Cohort", tutor.ID, course)
	student := fixtures.CreateStudent(ctx, "Amina", "Otieno", "amina@example.com")

	group.Students = append(group.Students, models.GroupStudent{
		StudentID: student.ID,
		Name:      student.FullName(),
		AddedAt:   time.Now().UTC(),
	})
	if err := store.Save(ctx, group); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	found, err := store.FindByStudentAndCourse(ctx, student.ID, course.ID)
	if err != nil {
		t.Fatalf("FindByStudentAndCourse failed: %v", err)
	}
	if found.ID != group.ID {
		t.Errorf("expected group %v, got %v", group.ID, found.ID)
	}
	if !found.HasStudent(student.ID) {
		t.Error("expected student on roster")
	}

	_, err = store.FindByStudentAndCourse(ctx, primitive.NewObjectID(), course.ID)
	if !errors.Is(err, groupstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ListByTutorAndCourse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tutorA := fixtures.CreateTutor(ctx, "Irene", "Moraa", "irene@example.com")
	tutorB := fixtures.CreateTutor(ctx, "James", "Omondi", "james@example.com")
	course := fixtures.CreateCourse(ctx, "Digital Marketing", 10000)

	fixtures.CreateGroup(ctx, "Cohort A", tutorA.ID, course)
	fixtures.CreateGroup(ctx, "Cohort B", tutorA.ID, course)
	fixtures.CreateGroup(ctx, "Cohort C", tutorB.ID, course)

	byTutor, err := store.ListByTutor(ctx, tutorA.ID)
	if err != nil {
		t.Fatalf("ListByTutor failed: %v", err)
	}
	if len(byTutor) != 2 {
		t.Errorf("expected 2 groups for tutor, got %d", len(byTutor))
	}

	byCourse, err := store.ListByCourse(ctx, course.ID)
	if err != nil {
		t.Fatalf("ListByCourse failed: %v", err)
	}
	if len(byCourse) != 3 {
		t.Errorf("expected 3 groups for course, got %d", len(byCourse))
	}
}

func TestStore_SaveCurriculumItems(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tutor := fixtures.CreateTutor(ctx, "Kevin", "Barasa", "kevin@example.com")
	course := fixtures.CreateCourse(ctx, "Project Management", 25000)
	group := fixtures.CreateGroup(ctx, "Weekend Cohort", tutor.ID, course)

	group.CurriculumItems = append(group.CurriculumItems, models.CurriculumItem{
		ID:       primitive.NewObjectID(),
		Position: 1,
		Type:     models.ItemLesson,
		Name:     "Introduction",
	})
	if err := store.Save(ctx, group); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.GetByID(ctx, group.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.CurriculumItems) != 1 || got.CurriculumItems[0].Name != "Introduction" {
		t.Errorf("unexpected curriculum items %v", got.CurriculumItems)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tutor := fixtures.CreateTutor(ctx, "Lydia", "Naliaka", "lydia@example.com")
	course := fixtures.CreateCourse(ctx, "Supply Chain", 18000)
	group := fixtures.CreateGroup(ctx, "Short Course", tutor.ID, course)

	n, err := store.Delete(ctx, group.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deletion, got %d", n)
	}

	n, err = store.Delete(ctx, group.ID)
	if err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 deletions, got %d", n)
	}
}

package curriculumstore_test

import (
	"errors"
	"testing"

	curriculumstore "github.com/shulehub/shulehub/internal/app/store/curricula"
	"github.com/shulehub/shulehub/internal/domain/models"
	"github.com/shulehub/shulehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreate_AssignsItemIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := curriculumstore.New(db)

	cu, err := store.Create(ctx, models.Curriculum{
		Name:     "Data Analysis Syllabus",
		CourseID: primitive.NewObjectID(),
		Items: []models.CurriculumTemplateItem{
			{Position: 1, Type: models.ItemLesson, Name: "Intro"},
			{Position: 2, Type: models.ItemCAT, Name: "CAT 1"},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for i, item := range cu.Items {
		if item.ID.IsZero() {
			t.Errorf("item %d missing generated ID", i)
		}
		if item.CreatedAt.IsZero() {
			t.Errorf("item %d missing CreatedAt", i)
		}
	}
}

func TestListByCourse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	courseA := primitive.NewObjectID()
	courseB := primitive.NewObjectID()

	fx.CreateCurriculum(ctx, "Syllabus A", courseA, nil)
	fx.CreateCurriculum(ctx, "Syllabus B", courseA, nil)
	fx.CreateCurriculum(ctx, "Syllabus C", courseB, nil)

	store := curriculumstore.New(db)

	got, err := store.List(ctx, &courseA)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 templates for course, got %d", len(got))
	}

	all, err := store.List(ctx, nil)
	if err != nil {
		t.Fatalf("List(all) failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 templates total, got %d", len(all))
	}
}

func TestSave_NewItemsGetIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := curriculumstore.New(db)
	cu, err := store.Create(ctx, models.Curriculum{Name: "Marketing Syllabus"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	cu.Items = append(cu.Items, models.CurriculumTemplateItem{Position: 1, Type: models.ItemExam, Name: "Final Exam"})
	if err := store.Save(ctx, cu); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.GetByID(ctx, cu.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].ID.IsZero() {
		t.Errorf("expected saved item with ID, got %v", got.Items)
	}
}

func TestDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := curriculumstore.New(db)
	cu, err := store.Create(ctx, models.Curriculum{Name: "Short Syllabus"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	n, err := store.Delete(ctx, cu.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deletion, got %d", n)
	}

	if _, err := store.GetByID(ctx, cu.ID); !errors.Is(err, curriculumstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

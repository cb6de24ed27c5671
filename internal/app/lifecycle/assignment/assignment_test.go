package assignment_test

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/shulehub/shulehub/internal/app/lifecycle/assignment"
	"github.com/shulehub/shulehub/internal/app/store/audit"
	coursestore "github.com/shulehub/shulehub/internal/app/store/courses"
	groupstore "github.com/shulehub/shulehub/internal/app/store/groups"
	learnerstore "github.com/shulehub/shulehub/internal/app/store/learners"
	tutorstore "github.com/shulehub/shulehub/internal/app/store/tutors"
	"github.com/shulehub/shulehub/internal/app/system/auditlog"
	"github.com/shulehub/shulehub/internal/app/system/txn"
	"github.com/shulehub/shulehub/internal/domain/models"
	"github.com/shulehub/shulehub/internal/testutil"
)

func newService(t *testing.T) (*assignment.Service, *testutil.Fixtures, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{})
	svc := assignment.NewService(
		learnerstore.New(db),
		tutorstore.New(db),
		coursestore.New(db),
		groupstore.New(db),
		txn.NewRunner(db.Client()),
		auditLog,
		logger,
	)
	return svc, testutil.NewFixtures(t, db), db
}

// teachCourse adds the course to the tutor's teaching list.
func teachCourse(t *testing.T, ctx context.Context, db *mongo.Database, tutorID, courseID primitive.ObjectID) {
	t.Helper()
	_, err := db.Collection("tutors").UpdateByID(ctx, tutorID,
		bson.M{"$push": bson.M{"courses": courseID}})
	if err != nil {
		t.Fatalf("failed to add course to tutor: %v", err)
	}
}

func TestAssignTutor(t *testing.T) {
	svc, fx, db := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := fx.CreateStudent(ctx, "Amina", "Otieno", "amina@example.com")
	course := fx.CreateCourse(ctx, "Data Analysis", 15000)
	tutor := fx.CreateTutor(ctx, "Daniel", "Kiprop", "daniel@example.com")
	teachCourse(t, ctx, db, tutor.ID, course.ID)
	fx.EnrollStudent(ctx, student, course, true)

	actor := primitive.NewObjectID()
	if err := svc.AssignTutor(ctx, actor, student.ID, course.ID, tutor.ID); err != nil {
		t.Fatalf("AssignTutor failed: %v", err)
	}

	learner, err := learnerstore.New(db).Get(ctx, models.KindStudent, student.ID)
	if err != nil {
		t.Fatalf("Get learner failed: %v", err)
	}
	e := learner.EnrollmentFor(course.ID)
	if e.AssignmentStatus != models.AssignmentAssigned {
		t.Errorf("assignment status = %q, want ASSIGNED", e.AssignmentStatus)
	}
	if e.Tutor == nil || e.Tutor.ID != tutor.ID {
		t.Errorf("unexpected tutor ref %+v", e.Tutor)
	}

	savedTutor, err := tutorstore.New(db).GetByID(ctx, tutor.ID)
	if err != nil {
		t.Fatalf("Get tutor failed: %v", err)
	}
	if savedTutor.StudentFor(student.ID, course.ID) == nil {
		t.Error("student missing from tutor roster")
	}

	savedCourse, err := coursestore.New(db).GetByID(ctx, course.ID)
	if err != nil {
		t.Fatalf("Get course failed: %v", err)
	}
	entry := savedCourse.RosterEntryFor(student.ID)
	if entry == nil || entry.Tutor == nil || entry.Tutor.ID != tutor.ID {
		t.Errorf("course roster not synced: %+v", entry)
	}
}

func TestAssignTutor_Preconditions(t *testing.T) {
	svc, fx, db := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := fx.CreateStudent(ctx, "Brian", "Mutua", "brian@example.com")
	course := fx.CreateCourse(ctx, "Marketing", 8000)
	tutor := fx.CreateTutor(ctx, "Daniel", "Kiprop", "daniel@example.com")
	actor := primitive.NewObjectID()

	// Not enrolled.
	err := svc.AssignTutor(ctx, actor, student.ID, course.ID, tutor.ID)
	if !errors.Is(err, assignment.ErrNotEnrolled) {
		t.Errorf("expected ErrNotEnrolled, got %v", err)
	}

	fx.EnrollStudent(ctx, student, course, true)

	// Tutor does not teach the course.
	err = svc.AssignTutor(ctx, actor, student.ID, course.ID, tutor.ID)
	if !errors.Is(err, assignment.ErrTutorCourse) {
		t.Errorf("expected ErrTutorCourse, got %v", err)
	}

	teachCourse(t, ctx, db, tutor.ID, course.ID)
	if err := svc.AssignTutor(ctx, actor, student.ID, course.ID, tutor.ID); err != nil {
		t.Fatalf("AssignTutor failed: %v", err)
	}

	// Second assignment is rejected.
	err = svc.AssignTutor(ctx, actor, student.ID, course.ID, tutor.ID)
	if !errors.Is(err, assignment.ErrAlreadyAssigned) {
		t.Errorf("expected ErrAlreadyAssigned, got %v", err)
	}
}

func TestCancelAssignment_KeepsTutorRoster(t *testing.T) {
	svc, fx, db := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := fx.CreateStudent(ctx, "Cynthia", "Njeri", "cynthia@example.com")
	course := fx.CreateCourse(ctx, "Data Analysis", 15000)
	tutor := fx.CreateTutor(ctx, "Daniel", "Kiprop", "daniel@example.com")
	teachCourse(t, ctx, db, tutor.ID, course.ID)
	fx.EnrollStudent(ctx, student, course, true)

	actor := primitive.NewObjectID()
	if err := svc.AssignTutor(ctx, actor, student.ID, course.ID, tutor.ID); err != nil {
		t.Fatalf("AssignTutor failed: %v", err)
	}
	if err := svc.CancelAssignment(ctx, actor, student.ID, course.ID, "student requested a break"); err != nil {
		t.Fatalf("CancelAssignment failed: %v", err)
	}

	learner, err := learnerstore.New(db).Get(ctx, models.KindStudent, student.ID)
	if err != nil {
		t.Fatalf("Get learner failed: %v", err)
	}
	e := learner.EnrollmentFor(course.ID)
	if e.AssignmentStatus != models.AssignmentCancelled {
		t.Errorf("assignment status = %q, want CANCELLED", e.AssignmentStatus)
	}
	if e.AdminNotes != "student requested a break" {
		t.Errorf("admin notes = %q", e.AdminNotes)
	}

	// Cancellation is recorded, not erased: the tutor keeps the entry.
	savedTutor, err := tutorstore.New(db).GetByID(ctx, tutor.ID)
	if err != nil {
		t.Fatalf("Get tutor failed: %v", err)
	}
	if savedTutor.StudentFor(student.ID, course.ID) == nil {
		t.Error("tutor roster entry should survive cancellation")
	}
}

// setupGrouped builds a student assigned to a tutor with one group.
func setupGrouped(t *testing.T, ctx context.Context, svc *assignment.Service, fx *testutil.Fixtures, db *mongo.Database) (models.Learner, models.Course, models.Tutor, models.Group) {
	t.Helper()
	student := fx.CreateStudent(ctx, "Amina", "Otieno", "amina@example.com")
	course := fx.CreateCourse(ctx, "Data Analysis", 15000)
	tutor := fx.CreateTutor(ctx, "Daniel", "Kiprop", "daniel@example.com")
	teachCourse(t, ctx, db, tutor.ID, course.ID)
	fx.EnrollStudent(ctx, student, course, true)
	if err := svc.AssignTutor(ctx, primitive.NewObjectID(), student.ID, course.ID, tutor.ID); err != nil {
		t.Fatalf("AssignTutor failed: %v", err)
	}
	group := fx.CreateGroup(ctx, "Morning Cohort", tutor.ID, course)
	return student, course, tutor, group
}

func TestAddToGroup(t *testing.T) {
	svc, fx, db := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student, course, tutor, group := setupGrouped(t, ctx, svc, fx, db)
	actor := primitive.NewObjectID()

	if err := svc.AddToGroup(ctx, actor, group.ID, student.ID); err != nil {
		t.Fatalf("AddToGroup failed: %v", err)
	}

	savedGroup, err := groupstore.New(db).GetByID(ctx, group.ID)
	if err != nil {
		t.Fatalf("Get group failed: %v", err)
	}
	if !savedGroup.HasStudent(student.ID) {
		t.Error("student missing from group roster")
	}

	learner, err := learnerstore.New(db).Get(ctx, models.KindStudent, student.ID)
	if err != nil {
		t.Fatalf("Get learner failed: %v", err)
	}
	e := learner.EnrollmentFor(course.ID)
	if !e.IsAssignedToGroup || e.AssignedGroup == nil || e.AssignedGroup.GroupID != group.ID {
		t.Errorf("group assignment not mirrored on learner: %+v", e.AssignedGroup)
	}

	savedTutor, err := tutorstore.New(db).GetByID(ctx, tutor.ID)
	if err != nil {
		t.Fatalf("Get tutor failed: %v", err)
	}
	ts := savedTutor.StudentFor(student.ID, course.ID)
	if ts == nil || !ts.IsAssignedToGroup {
		t.Errorf("group assignment not mirrored on tutor roster: %+v", ts)
	}

	// Duplicate add is rejected.
	if err := svc.AddToGroup(ctx, actor, group.ID, student.ID); !errors.Is(err, assignment.ErrAlreadyInGroup) {
		t.Errorf("expected ErrAlreadyInGroup, got %v", err)
	}
}

func TestAddToGroup_RequiresTutor(t *testing.T) {
	svc, fx, db := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := fx.CreateStudent(ctx, "Brian", "Mutua", "brian@example.com")
	course := fx.CreateCourse(ctx, "Marketing", 8000)
	tutor := fx.CreateTutor(ctx, "Daniel", "Kiprop", "daniel@example.com")
	teachCourse(t, ctx, db, tutor.ID, course.ID)
	fx.EnrollStudent(ctx, student, course, true)
	group := fx.CreateGroup(ctx, "Evening Cohort", tutor.ID, course)

	err := svc.AddToGroup(ctx, primitive.NewObjectID(), group.ID, student.ID)
	if !errors.Is(err, assignment.ErrNoTutorAssigned) {
		t.Errorf("expected ErrNoTutorAssigned, got %v", err)
	}
}

func TestAddToGroup_RejectsOtherTutorsGroup(t *testing.T) {
	svc, fx, db := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := fx.CreateStudent(ctx, "Brian", "Mutua", "brian@example.com")
	course := fx.CreateCourse(ctx, "Marketing", 8000)
	assigned := fx.CreateTutor(ctx, "Daniel", "Kiprop", "daniel@example.com")
	other := fx.CreateTutor(ctx, "Faith", "Njeri", "faith@example.com")
	teachCourse(t, ctx, db, assigned.ID, course.ID)
	teachCourse(t, ctx, db, other.ID, course.ID)
	fx.EnrollStudent(ctx, student, course, true)

	actor := primitive.NewObjectID()
	if err := svc.AssignTutor(ctx, actor, student.ID, course.ID, assigned.ID); err != nil {
		t.Fatalf("AssignTutor failed: %v", err)
	}
	group := fx.CreateGroup(ctx, "Evening Cohort", other.ID, course)

	err := svc.AddToGroup(ctx, actor, group.ID, student.ID)
	if !errors.Is(err, assignment.ErrTutorMismatch) {
		t.Errorf("expected ErrTutorMismatch, got %v", err)
	}

	savedGroup, err := groupstore.New(db).GetByID(ctx, group.ID)
	if err != nil {
		t.Fatalf("Get group failed: %v", err)
	}
	if savedGroup.HasStudent(student.ID) {
		t.Error("student must not land on another tutor's group roster")
	}
}

func TestRemoveFromGroup(t *testing.T) {
	svc, fx, db := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student, course, _, group := setupGrouped(t, ctx, svc, fx, db)
	actor := primitive.NewObjectID()

	if err := svc.AddToGroup(ctx, actor, group.ID, student.ID); err != nil {
		t.Fatalf("AddToGroup failed: %v", err)
	}
	if err := svc.RemoveFromGroup(ctx, actor, group.ID, student.ID); err != nil {
		t.Fatalf("RemoveFromGroup failed: %v", err)
	}

	savedGroup, err := groupstore.New(db).GetByID(ctx, group.ID)
	if err != nil {
		t.Fatalf("Get group failed: %v", err)
	}
	if savedGroup.HasStudent(student.ID) {
		t.Error("student still on group roster")
	}

	learner, err := learnerstore.New(db).Get(ctx, models.KindStudent, student.ID)
	if err != nil {
		t.Fatalf("Get learner failed: %v", err)
	}
	e := learner.EnrollmentFor(course.ID)
	if e.IsAssignedToGroup || e.AssignedGroup != nil {
		t.Error("group assignment not cleared on learner")
	}

	// Removing again reports the learner is not in the group.
	err = svc.RemoveFromGroup(ctx, actor, group.ID, student.ID)
	if !errors.Is(err, assignment.ErrNotInGroup) {
		t.Errorf("expected ErrNotInGroup, got %v", err)
	}
}

func TestTransferGroup(t *testing.T) {
	svc, fx, db := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student, course, _, from := setupGrouped(t, ctx, svc, fx, db)
	to := fx.CreateGroup(ctx, "Evening Cohort", from.TutorID, course)
	actor := primitive.NewObjectID()

	if err := svc.AddToGroup(ctx, actor, from.ID, student.ID); err != nil {
		t.Fatalf("AddToGroup failed: %v", err)
	}
	if err := svc.TransferGroup(ctx, actor, from.ID, to.ID, student.ID); err != nil {
		t.Fatalf("TransferGroup failed: %v", err)
	}

	groups := groupstore.New(db)
	savedFrom, err := groups.GetByID(ctx, from.ID)
	if err != nil {
		t.Fatalf("Get group failed: %v", err)
	}
	savedTo, err := groups.GetByID(ctx, to.ID)
	if err != nil {
		t.Fatalf("Get group failed: %v", err)
	}
	if savedFrom.HasStudent(student.ID) {
		t.Error("student still in source group")
	}
	if !savedTo.HasStudent(student.ID) {
		t.Error("student missing from destination group")
	}

	learner, err := learnerstore.New(db).Get(ctx, models.KindStudent, student.ID)
	if err != nil {
		t.Fatalf("Get learner failed: %v", err)
	}
	e := learner.EnrollmentFor(course.ID)
	if e.AssignedGroup == nil || e.AssignedGroup.GroupID != to.ID {
		t.Errorf("learner assignment points at %+v, want destination group", e.AssignedGroup)
	}
}

func TestDeleteGroup_ReleasesStudents(t *testing.T) {
	svc, fx, db := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student, course, tutor, group := setupGrouped(t, ctx, svc, fx, db)
	actor := primitive.NewObjectID()

	if err := svc.AddToGroup(ctx, actor, group.ID, student.ID); err != nil {
		t.Fatalf("AddToGroup failed: %v", err)
	}
	if err := svc.DeleteGroup(ctx, actor, group.ID); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}

	_, err := groupstore.New(db).GetByID(ctx, group.ID)
	if !errors.Is(err, groupstore.ErrNotFound) {
		t.Errorf("expected group gone, got %v", err)
	}

	learner, err := learnerstore.New(db).Get(ctx, models.KindStudent, student.ID)
	if err != nil {
		t.Fatalf("Get learner failed: %v", err)
	}
	e := learner.EnrollmentFor(course.ID)
	if e.IsAssignedToGroup || e.AssignedGroup != nil {
		t.Error("group assignment not cleared on learner after delete")
	}

	savedTutor, err := tutorstore.New(db).GetByID(ctx, tutor.ID)
	if err != nil {
		t.Fatalf("Get tutor failed: %v", err)
	}
	ts := savedTutor.StudentFor(student.ID, course.ID)
	if ts == nil || ts.IsAssignedToGroup {
		t.Errorf("group assignment not cleared on tutor roster: %+v", ts)
	}
}

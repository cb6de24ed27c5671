package certification_test

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/shulehub/shulehub/internal/app/lifecycle/certification"
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

func newService(t *testing.T) (*certification.Service, *testutil.Fixtures, *mongo.Database, *testutil.FakeMailer) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{})
	mail := &testutil.FakeMailer{}
	svc := certification.NewService(
		learnerstore.New(db),
		tutorstore.New(db),
		coursestore.New(db),
		groupstore.New(db),
		txn.NewRunner(db.Client()),
		auditLog,
		mail,
		"ShuleHub",
		logger,
	)
	return svc, testutil.NewFixtures(t, db), db, mail
}

// candidate builds a paid, tutored, grouped student with finished
// coursework, ready to graduate once exams are recorded.
func candidate(t *testing.T, ctx context.Context, fx *testutil.Fixtures, db *mongo.Database) (models.Learner, models.Course, models.Tutor, models.Group) {
	t.Helper()
	student := fx.CreateStudent(ctx, "Amina", "Otieno", "amina@example.com")
	course := fx.CreateCourse(ctx, "Data Analysis", 15000)
	tutor := fx.CreateTutor(ctx, "Daniel", "Kiprop", "daniel@example.com")
	fx.EnrollStudent(ctx, student, course, true)
	group := fx.CreateGroup(ctx, "Morning Cohort", tutor.ID, course)

	// Wire the assignment and membership directly; the assignment
	// service has its own tests.
	ref := models.TutorRef{ID: tutor.ID, Name: tutor.FullName(), Email: tutor.Email, Status: "active"}
	if _, err := db.Collection("students").UpdateOne(ctx,
		bson.M{"_id": student.ID, "courses.course_id": course.ID},
		bson.M{"$set": bson.M{
			"courses.$.tutor":                ref,
			"courses.$.assignment_status":    models.AssignmentAssigned,
			"courses.$.is_assigned_to_group": true,
			"courses.$.assigned_group":       models.AssignedGroup{GroupID: group.ID, GroupName: group.Name},
		}}); err != nil {
		t.Fatalf("failed to wire assignment: %v", err)
	}
	if _, err := db.Collection("tutors").UpdateByID(ctx, tutor.ID,
		bson.M{"$push": bson.M{"my_students": models.TutorStudent{
			StudentID:     student.ID,
			Name:          student.FullName(),
			UserType:      models.KindStudent,
			CourseID:      course.ID,
			CourseName:    course.Name,
			PaymentStatus: models.PaymentPaid,
		}}}); err != nil {
		t.Fatalf("failed to wire tutor roster: %v", err)
	}
	if _, err := db.Collection("groups").UpdateByID(ctx, group.ID,
		bson.M{"$push": bson.M{"students": models.GroupStudent{
			StudentID: student.ID,
			Name:      student.FullName(),
		}}, "$set": bson.M{"curriculum_items": []models.CurriculumItem{
			{ID: primitive.NewObjectID(), Position: 1, Type: models.ItemLesson, Name: "Intro", IsCompleted: true},
			{ID: primitive.NewObjectID(), Position: 2, Type: models.ItemExam, Name: "Final", IsCompleted: true},
		}}}); err != nil {
		t.Fatalf("failed to wire group: %v", err)
	}
	return student, course, tutor, group
}

func TestAddExam_RecomputesGPA(t *testing.T) {
	svc, fx, db, _ := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := fx.CreateStudent(ctx, "Brian", "Mutua", "brian@example.com")
	course := fx.CreateCourse(ctx, "Marketing", 8000)
	fx.EnrollStudent(ctx, student, course, true)
	actor := primitive.NewObjectID()

	if _, err := svc.AddExam(ctx, actor, student.ID, course.ID, "CAT 1", models.GradeMerit); err != nil {
		t.Fatalf("AddExam failed: %v", err)
	}
	exam, err := svc.AddExam(ctx, actor, student.ID, course.ID, "Final", models.GradeCredit)
	if err != nil {
		t.Fatalf("AddExam failed: %v", err)
	}

	learner, err := learnerstore.New(db).Get(ctx, models.KindStudent, student.ID)
	if err != nil {
		t.Fatalf("Get learner failed: %v", err)
	}
	e := learner.EnrollmentFor(course.ID)
	if len(e.Exams) != 2 {
		t.Fatalf("expected 2 exams, got %d", len(e.Exams))
	}
	if e.GPA != 3.35 {
		t.Errorf("GPA = %v, want 3.35", e.GPA)
	}
	if e.FinalGrade != models.GradeCredit {
		t.Errorf("final grade = %q, want Credit", e.FinalGrade)
	}

	// Removing the last exam reverts the final grade.
	if err := svc.RemoveExam(ctx, actor, student.ID, course.ID, exam.ID); err != nil {
		t.Fatalf("RemoveExam failed: %v", err)
	}
	learner, err = learnerstore.New(db).Get(ctx, models.KindStudent, student.ID)
	if err != nil {
		t.Fatalf("Get learner failed: %v", err)
	}
	e = learner.EnrollmentFor(course.ID)
	if e.GPA != 3.7 || e.FinalGrade != models.GradeMerit {
		t.Errorf("after removal GPA = %v grade = %q, want 3.7 Merit", e.GPA, e.FinalGrade)
	}
}

func TestAddExam_InvalidGrade(t *testing.T) {
	svc, fx, _, _ := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := fx.CreateStudent(ctx, "Cynthia", "Njeri", "cynthia@example.com")
	course := fx.CreateCourse(ctx, "Marketing", 8000)
	fx.EnrollStudent(ctx, student, course, true)

	_, err := svc.AddExam(ctx, primitive.NewObjectID(), student.ID, course.ID, "CAT", "A+")
	if !errors.Is(err, certification.ErrInvalidGrade) {
		t.Errorf("expected ErrInvalidGrade, got %v", err)
	}
}

func TestRemoveExam_NotFound(t *testing.T) {
	svc, fx, _, _ := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student := fx.CreateStudent(ctx, "Dennis", "Omondi", "dennis@example.com")
	course := fx.CreateCourse(ctx, "Marketing", 8000)
	fx.EnrollStudent(ctx, student, course, true)

	err := svc.RemoveExam(ctx, primitive.NewObjectID(), student.ID, course.ID, primitive.NewObjectID())
	if !errors.Is(err, certification.ErrExamNotFound) {
		t.Errorf("expected ErrExamNotFound, got %v", err)
	}
}

func TestGraduate(t *testing.T) {
	svc, fx, db, mail := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student, course, tutor, group := candidate(t, ctx, fx, db)
	actor := primitive.NewObjectID()

	if _, err := svc.AddExam(ctx, actor, student.ID, course.ID, "Final", models.GradeDistinction); err != nil {
		t.Fatalf("AddExam failed: %v", err)
	}

	cert, err := svc.Graduate(ctx, actor, student.ID, course.ID, group.ID)
	if err != nil {
		t.Fatalf("Graduate failed: %v", err)
	}
	if cert.Serial == "" {
		t.Error("expected a certificate serial")
	}
	if cert.FinalGrade != models.GradeDistinction || cert.GPA != 4.0 {
		t.Errorf("certificate grade/GPA = %q/%v", cert.FinalGrade, cert.GPA)
	}

	learners := learnerstore.New(db)

	// The learner now lives in alumni under the same id.
	if _, err := learners.Get(ctx, models.KindStudent, student.ID); !errors.Is(err, learnerstore.ErrNotFound) {
		t.Errorf("expected student record gone, got %v", err)
	}
	alum, err := learners.Get(ctx, models.KindAlumnus, student.ID)
	if err != nil {
		t.Fatalf("Get alumnus failed: %v", err)
	}
	e := alum.EnrollmentFor(course.ID)
	if e.CertificationStatus != models.CertificationGraduated {
		t.Errorf("certification status = %q, want GRADUATED", e.CertificationStatus)
	}
	if e.CertificateSerial != cert.Serial {
		t.Errorf("serial mismatch: %q vs %q", e.CertificateSerial, cert.Serial)
	}
	if alum.GraduationDate == nil {
		t.Error("graduation date not set")
	}

	// Moved from my_students to certified_students.
	savedTutor, err := tutorstore.New(db).GetByID(ctx, tutor.ID)
	if err != nil {
		t.Fatalf("Get tutor failed: %v", err)
	}
	if savedTutor.StudentFor(student.ID, course.ID) != nil {
		t.Error("student still on tutor's active roster")
	}
	foundCertified := false
	for _, cs := range savedTutor.CertifiedStudents {
		if cs.StudentID == student.ID && cs.CourseID == course.ID {
			foundCertified = true
			if cs.CertificateSerial != cert.Serial {
				t.Errorf("certified snapshot serial = %q", cs.CertificateSerial)
			}
		}
	}
	if !foundCertified {
		t.Error("student missing from certified_students")
	}

	// Off the group and course rosters.
	savedGroup, err := groupstore.New(db).GetByID(ctx, group.ID)
	if err != nil {
		t.Fatalf("Get group failed: %v", err)
	}
	if savedGroup.HasStudent(student.ID) {
		t.Error("student still on group roster")
	}
	savedCourse, err := coursestore.New(db).GetByID(ctx, course.ID)
	if err != nil {
		t.Fatalf("Get course failed: %v", err)
	}
	if savedCourse.RosterEntryFor(student.ID) != nil {
		t.Error("student still on course roster")
	}

	if msg, ok := mail.Last(); !ok || msg.To != student.Email {
		t.Errorf("expected graduation email to %s", student.Email)
	}

	// Graduating twice never double-applies.
	if _, err := svc.Graduate(ctx, actor, student.ID, course.ID, group.ID); !errors.Is(err, certification.ErrAlreadyGraduated) {
		t.Errorf("expected ErrAlreadyGraduated, got %v", err)
	}
}

func TestGraduate_GateOrder(t *testing.T) {
	svc, fx, db, _ := newService(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	student, course, _, group := candidate(t, ctx, fx, db)
	actor := primitive.NewObjectID()

	// Unfinished coursework is checked first, before payment or exams.
	if _, err := db.Collection("groups").UpdateOne(ctx,
		bson.M{"_id": group.ID, "curriculum_items.position": 2},
		bson.M{"$set": bson.M{"curriculum_items.$.is_completed": false}}); err != nil {
		t.Fatalf("failed to unfinish coursework: %v", err)
	}
	if _, err := svc.Graduate(ctx, actor, student.ID, course.ID, group.ID); !errors.Is(err, certification.ErrIncompleteCoursework) {
		t.Errorf("expected ErrIncompleteCoursework, got %v", err)
	}

	if _, err := db.Collection("groups").UpdateOne(ctx,
		bson.M{"_id": group.ID, "curriculum_items.position": 2},
		bson.M{"$set": bson.M{"curriculum_items.$.is_completed": true}}); err != nil {
		t.Fatalf("failed to finish coursework: %v", err)
	}

	// Unsettled payment blocks next.
	if _, err := db.Collection("students").UpdateOne(ctx,
		bson.M{"_id": student.ID, "courses.course_id": course.ID},
		bson.M{"$set": bson.M{"courses.$.payment.status": models.PaymentPending}}); err != nil {
		t.Fatalf("failed to unset payment: %v", err)
	}
	if _, err := svc.Graduate(ctx, actor, student.ID, course.ID, group.ID); !errors.Is(err, certification.ErrPaymentIncomplete) {
		t.Errorf("expected ErrPaymentIncomplete, got %v", err)
	}

	if _, err := db.Collection("students").UpdateOne(ctx,
		bson.M{"_id": student.ID, "courses.course_id": course.ID},
		bson.M{"$set": bson.M{"courses.$.payment.status": models.PaymentPaid}}); err != nil {
		t.Fatalf("failed to set payment: %v", err)
	}

	// No exams yet.
	if _, err := svc.Graduate(ctx, actor, student.ID, course.ID, group.ID); !errors.Is(err, certification.ErrNoExamRecords) {
		t.Errorf("expected ErrNoExamRecords, got %v", err)
	}

	// A failing exam blocks graduation.
	failed, err := svc.AddExam(ctx, actor, student.ID, course.ID, "Final", models.GradeFail)
	if err != nil {
		t.Fatalf("AddExam failed: %v", err)
	}
	if _, err := svc.Graduate(ctx, actor, student.ID, course.ID, group.ID); !errors.Is(err, certification.ErrFailingGrade) {
		t.Errorf("expected ErrFailingGrade, got %v", err)
	}

	// A passing retake does not clear the gate while the Fail is still on
	// record.
	if _, err := svc.AddExam(ctx, actor, student.ID, course.ID, "Retake", models.GradePass); err != nil {
		t.Fatalf("AddExam failed: %v", err)
	}
	if _, err := svc.Graduate(ctx, actor, student.ID, course.ID, group.ID); !errors.Is(err, certification.ErrFailingGrade) {
		t.Errorf("expected ErrFailingGrade with a Fail still on record, got %v", err)
	}

	// Removing the failed exam clears the last gate.
	if err := svc.RemoveExam(ctx, actor, student.ID, course.ID, failed.ID); err != nil {
		t.Fatalf("RemoveExam failed: %v", err)
	}
	if _, err := svc.Graduate(ctx, actor, student.ID, course.ID, group.ID); err != nil {
		t.Fatalf("Graduate failed: %v", err)
	}
}

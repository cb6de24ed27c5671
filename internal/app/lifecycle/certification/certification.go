// internal/app/lifecycle/certification/certification.go

// Package certification records exam outcomes and graduates learners.
// Graduation is the one operation that moves a learner document between
// collections: the student is copied into alumni and deleted from
// students inside the same transaction that rewrites the tutor, group and
// course documents.
package certification

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/shulehub/shulehub/internal/app/store/audit"
	coursestore "github.com/shulehub/shulehub/internal/app/store/courses"
	groupstore "github.com/shulehub/shulehub/internal/app/store/groups"
	learnerstore "github.com/shulehub/shulehub/internal/app/store/learners"
	tutorstore "github.com/shulehub/shulehub/internal/app/store/tutors"
	"github.com/shulehub/shulehub/internal/app/system/auditlog"
	"github.com/shulehub/shulehub/internal/app/system/mailer"
	"github.com/shulehub/shulehub/internal/app/system/txn"
	"github.com/shulehub/shulehub/internal/domain/models"
)

// Graduation gates, checked in this order. The first failing gate is the
// one reported.
var (
	ErrIncompleteCoursework = errors.New("group coursework is not complete")
	ErrPaymentIncomplete    = errors.New("course payment is not settled")
	ErrNoExamRecords        = errors.New("no exam records for this course")
	ErrFailingGrade         = errors.New("a failing exam grade is on record")
)

var (
	ErrLearnerNotFound  = errors.New("learner not found")
	ErrGroupNotFound    = errors.New("group not found")
	ErrNotEnrolled      = errors.New("learner is not enrolled in this course")
	ErrAlreadyGraduated = errors.New("learner has already graduated this course")
	ErrExamNotFound     = errors.New("exam not found")
	ErrInvalidGrade     = errors.New("unrecognized grade")
)

// Certificate is the outcome handed back from a successful graduation.
type Certificate struct {
	Serial         string    `json:"serial"`
	StudentID      string    `json:"student_id"`
	StudentName    string    `json:"student_name"`
	CourseName     string    `json:"course_name"`
	FinalGrade     string    `json:"final_grade"`
	GPA            float64   `json:"gpa"`
	GraduationDate time.Time `json:"graduation_date"`
}

type Service struct {
	learners *learnerstore.Store
	tutors   *tutorstore.Store
	courses  *coursestore.Store
	groups   *groupstore.Store
	txn      txn.Runner
	audit    *auditlog.Logger
	mail     mailer.Sender
	siteName string
	log      *zap.Logger
}

func NewService(learners *learnerstore.Store, tutors *tutorstore.Store, courses *coursestore.Store, groups *groupstore.Store, runner txn.Runner, auditLog *auditlog.Logger, mail mailer.Sender, siteName string, log *zap.Logger) *Service {
	return &Service{
		learners: learners,
		tutors:   tutors,
		courses:  courses,
		groups:   groups,
		txn:      runner,
		audit:    auditLog,
		mail:     mail,
		siteName: siteName,
		log:      log,
	}
}

// AddExam appends an exam outcome to the enrollment and recomputes its
// GPA and final grade.
func (s *Service) AddExam(ctx context.Context, actorID, learnerID, courseID primitive.ObjectID, name, grade string) (models.Exam, error) {
	if !ValidGrade(grade) {
		return models.Exam{}, ErrInvalidGrade
	}

	exam := models.Exam{
		ID:         primitive.NewObjectID(),
		Name:       name,
		Grade:      grade,
		RecordedAt: time.Now().UTC(),
	}
	err := s.txn.InTransaction(ctx, func(ctx context.Context) error {
		learner, enrollment, err := s.enrollment(ctx, learnerID, courseID)
		if err != nil {
			return err
		}
		enrollment.Exams = append(enrollment.Exams, exam)
		enrollment.GPA = GPA(enrollment.Exams)
		enrollment.FinalGrade = FinalGrade(enrollment.Exams)
		return s.learners.Save(ctx, learner)
	})
	if err != nil {
		return models.Exam{}, err
	}
	s.audit.ExamRecorded(ctx, audit.EventExamAdded, actorID, learnerID, courseID, grade)
	return exam, nil
}

// RemoveExam deletes one exam record and recomputes GPA and final grade
// from the remaining ones.
func (s *Service) RemoveExam(ctx context.Context, actorID, learnerID, courseID, examID primitive.ObjectID) error {
	var removedGrade string
	err := s.txn.InTransaction(ctx, func(ctx context.Context) error {
		learner, enrollment, err := s.enrollment(ctx, learnerID, courseID)
		if err != nil {
			return err
		}

		found := false
		kept := enrollment.Exams[:0]
		for _, e := range enrollment.Exams {
			if e.ID == examID {
				found = true
				removedGrade = e.Grade
				continue
			}
			kept = append(kept, e)
		}
		if !found {
			return ErrExamNotFound
		}
		enrollment.Exams = kept
		enrollment.GPA = GPA(enrollment.Exams)
		enrollment.FinalGrade = FinalGrade(enrollment.Exams)
		return s.learners.Save(ctx, learner)
	})
	if err != nil {
		return err
	}
	s.audit.ExamRecorded(ctx, audit.EventExamRemoved, actorID, learnerID, courseID, removedGrade)
	return nil
}

// Graduate certifies the learner for the course. All four gates must pass;
// then one transaction marks the enrollment GRADUATED, migrates the
// student document into alumni, snapshots the result onto the tutor's
// certified roster and removes the learner from the group and course
// rosters. The congratulations email goes out after commit, best effort.
func (s *Service) Graduate(ctx context.Context, actorID, learnerID, courseID, groupID primitive.ObjectID) (Certificate, error) {
	var (
		cert     Certificate
		migrated bool
		email    mailer.Email
	)

	err := s.txn.InTransaction(ctx, func(ctx context.Context) error {
		learner, enrollment, err := s.enrollment(ctx, learnerID, courseID)
		if err != nil {
			return err
		}
		if enrollment.CertificationStatus == models.CertificationGraduated {
			return ErrAlreadyGraduated
		}

		group, err := s.groups.GetByID(ctx, groupID)
		if err != nil {
			if errors.Is(err, groupstore.ErrNotFound) {
				return ErrGroupNotFound
			}
			return err
		}

		if gateErr := checkGates(group, *enrollment); gateErr != nil {
			s.audit.GraduationBlocked(ctx, actorID, learnerID, courseID, gateErr.Error())
			return gateErr
		}

		now := time.Now().UTC()
		serial := uuid.NewString()

		enrollment.CertificationStatus = models.CertificationGraduated
		enrollment.CertificationDate = &now
		enrollment.CertificateSerial = serial
		enrollment.IsAssignedToGroup = false
		enrollment.AssignedGroup = nil
		learner.GraduationDate = &now

		migrated = learner.Kind == models.KindStudent
		if migrated {
			// Copy then delete, both idempotent, so a transaction
			// retry replays cleanly.
			if err := s.learners.UpsertAlumnus(ctx, learner); err != nil {
				return err
			}
			if err := s.learners.DeleteStudent(ctx, learner.ID); err != nil {
				return err
			}
		} else if err := s.learners.Save(ctx, learner); err != nil {
			return err
		}

		if enrollment.Tutor != nil {
			if err := s.certifyOnTutor(ctx, enrollment.Tutor.ID, learner, *enrollment, serial, now); err != nil {
				return err
			}
		}

		kept := group.Students[:0]
		for _, gs := range group.Students {
			if gs.StudentID != learnerID {
				kept = append(kept, gs)
			}
		}
		group.Students = kept
		if err := s.groups.Save(ctx, group); err != nil {
			return err
		}

		if err := s.dropFromCourseRoster(ctx, courseID, learnerID); err != nil {
			return err
		}

		cert = Certificate{
			Serial:         serial,
			StudentID:      learner.ID.Hex(),
			StudentName:    learner.FullName(),
			CourseName:     enrollment.Name,
			FinalGrade:     enrollment.FinalGrade,
			GPA:            enrollment.GPA,
			GraduationDate: now,
		}
		email = mailer.BuildGraduationEmail(mailer.GraduationEmailData{
			SiteName:          s.siteName,
			FirstName:         learner.FirstName,
			CourseName:        enrollment.Name,
			FinalGrade:        enrollment.FinalGrade,
			GPA:               strconv.FormatFloat(enrollment.GPA, 'f', 2, 64),
			CertificateSerial: serial,
		})
		email.To = learner.Email
		email.ToName = learner.FullName()
		return nil
	})
	if err != nil {
		return Certificate{}, err
	}

	s.audit.StudentGraduated(ctx, actorID, learnerID, courseID, migrated, cert.Serial)
	if err := s.mail.Send(email); err != nil {
		s.log.Warn("could not send graduation email",
			zap.String("student_id", learnerID.Hex()),
			zap.Error(err))
	}
	return cert, nil
}

// checkGates enforces the graduation preconditions in fixed order.
func checkGates(group models.Group, enrollment models.CourseEnrollment) error {
	for _, item := range group.CurriculumItems {
		if !item.IsCompleted {
			return ErrIncompleteCoursework
		}
	}
	if enrollment.Payment.Status != models.PaymentPaid {
		return ErrPaymentIncomplete
	}
	if len(enrollment.Exams) == 0 {
		return ErrNoExamRecords
	}
	// Any Fail on record blocks graduation, not just the latest exam.
	for _, exam := range enrollment.Exams {
		if exam.Grade == models.GradeFail {
			return ErrFailingGrade
		}
	}
	return nil
}

// certifyOnTutor moves the learner from my_students to certified_students
// on the tutor document, carrying the settlement forward.
func (s *Service) certifyOnTutor(ctx context.Context, tutorID primitive.ObjectID, learner models.Learner, enrollment models.CourseEnrollment, serial string, when time.Time) error {
	tutor, err := s.tutors.GetByID(ctx, tutorID)
	if err != nil {
		if errors.Is(err, tutorstore.ErrNotFound) {
			s.log.Warn("tutor missing at graduation", zap.String("tutor_id", tutorID.Hex()))
			return nil
		}
		return err
	}

	var settlement *models.Settlement
	kept := tutor.MyStudents[:0]
	for _, ts := range tutor.MyStudents {
		if ts.StudentID == learner.ID && ts.CourseID == enrollment.CourseID {
			settlement = ts.Settlement
			continue
		}
		kept = append(kept, ts)
	}
	tutor.MyStudents = kept

	tutor.CertifiedStudents = append(tutor.CertifiedStudents, models.CertifiedStudent{
		StudentID:         learner.ID,
		StudentName:       learner.FullName(),
		Email:             learner.Email,
		Phone:             learner.Phone,
		UserType:          models.KindAlumnus,
		CourseID:          enrollment.CourseID,
		CourseName:        enrollment.Name,
		Payment:           enrollment.Payment,
		Settlement:        settlement,
		Exams:             enrollment.Exams,
		GPA:               enrollment.GPA,
		FinalGrade:        enrollment.FinalGrade,
		CertificateSerial: serial,
		CertificationDate: when,
	})
	return s.tutors.Save(ctx, tutor)
}

// dropFromCourseRoster removes the learner's entry from the course's
// enrolled_students list.
func (s *Service) dropFromCourseRoster(ctx context.Context, courseID, learnerID primitive.ObjectID) error {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, coursestore.ErrNotFound) {
			s.log.Warn("course missing at graduation", zap.String("course_id", courseID.Hex()))
			return nil
		}
		return err
	}
	kept := course.EnrolledStudents[:0]
	for _, es := range course.EnrolledStudents {
		if es.StudentID != learnerID {
			kept = append(kept, es)
		}
	}
	course.EnrolledStudents = kept
	return s.courses.Save(ctx, course)
}

func (s *Service) enrollment(ctx context.Context, learnerID, courseID primitive.ObjectID) (models.Learner, *models.CourseEnrollment, error) {
	learner, err := s.learners.FindAnyKind(ctx, learnerID)
	if err != nil {
		if errors.Is(err, learnerstore.ErrNotFound) {
			return models.Learner{}, nil, ErrLearnerNotFound
		}
		return models.Learner{}, nil, err
	}
	enrollment := learner.EnrollmentFor(courseID)
	if enrollment == nil {
		return models.Learner{}, nil, ErrNotEnrolled
	}
	return learner, enrollment, nil
}

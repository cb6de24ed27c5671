// internal/app/lifecycle/enrollment/enrollment.go

// Package enrollment attaches a learner to a course. The learner document
// and the course roster are two sides of the same fact and are written in
// one transaction; nothing else writes either side.
package enrollment

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	coursestore "github.com/shulehub/shulehub/internal/app/store/courses"
	learnerstore "github.com/shulehub/shulehub/internal/app/store/learners"
	paymentstore "github.com/shulehub/shulehub/internal/app/store/payments"
	"github.com/shulehub/shulehub/internal/app/system/auditlog"
	"github.com/shulehub/shulehub/internal/app/system/txn"
	"github.com/shulehub/shulehub/internal/domain/models"
)

var (
	ErrLearnerNotFound   = errors.New("learner not found")
	ErrCourseNotFound    = errors.New("course not found")
	ErrAlreadyEnrolled   = errors.New("learner is already enrolled in this course")
	ErrCourseUnavailable = errors.New("course is archived")
)

// PaymentAttempt is the payment evidence presented at enrollment time.
// A non-empty TransactionID is accepted as proof of payment; the gateway
// is not consulted again.
type PaymentAttempt struct {
	Phone         string
	TransactionID string
	Amount        float64
	Status        string
}

type Service struct {
	learners *learnerstore.Store
	courses  *coursestore.Store
	payments *paymentstore.Store
	txn      txn.Runner
	audit    *auditlog.Logger
	log      *zap.Logger
}

func NewService(learners *learnerstore.Store, courses *coursestore.Store, payments *paymentstore.Store, runner txn.Runner, audit *auditlog.Logger, log *zap.Logger) *Service {
	return &Service{
		learners: learners,
		courses:  courses,
		payments: payments,
		txn:      runner,
		audit:    audit,
		log:      log,
	}
}

// Enroll adds the course to the learner and the learner to the course
// roster. Both writes happen in one transaction; the M-Pesa record is
// marked consumed after commit, best effort.
func (s *Service) Enroll(ctx context.Context, learnerID, courseID primitive.ObjectID, attempt PaymentAttempt) (models.CourseEnrollment, error) {
	var enrollment models.CourseEnrollment

	err := s.txn.InTransaction(ctx, func(ctx context.Context) error {
		learner, err := s.learners.FindAnyKind(ctx, learnerID)
		if err != nil {
			if errors.Is(err, learnerstore.ErrNotFound) {
				return ErrLearnerNotFound
			}
			return err
		}

		course, err := s.courses.GetByID(ctx, courseID)
		if err != nil {
			if errors.Is(err, coursestore.ErrNotFound) {
				return ErrCourseNotFound
			}
			return err
		}
		if course.IsArchived {
			return ErrCourseUnavailable
		}

		if learner.EnrollmentFor(courseID) != nil {
			return ErrAlreadyEnrolled
		}

		now := time.Now().UTC()
		enrollment = models.CourseEnrollment{
			CourseID:            course.ID,
			Name:                course.Name,
			Duration:            course.Duration,
			DurationType:        course.DurationType,
			Payment:             paymentInfo(attempt, now),
			AssignmentStatus:    models.AssignmentPending,
			EnrolledAt:          now,
			CertificationStatus: models.CertificationPending,
		}

		learner.Courses = append(learner.Courses, enrollment)
		if err := s.learners.Save(ctx, learner); err != nil {
			return err
		}

		course.EnrolledStudents = append(course.EnrolledStudents, models.EnrolledStudent{
			StudentID:        learner.ID,
			Name:             learner.FullName(),
			Email:            learner.Email,
			Phone:            learner.Phone,
			UserType:         learner.Kind,
			EnrollmentTime:   now,
			Payment:          enrollment.Payment,
			AssignmentStatus: models.AssignmentPending,
		})
		return s.courses.Save(ctx, course)
	})
	if err != nil {
		return models.CourseEnrollment{}, err
	}

	s.audit.StudentEnrolled(ctx, learnerID, courseID, enrollment.Payment.Status)

	if attempt.TransactionID != "" {
		s.consumeTransaction(ctx, learnerID, courseID, attempt.TransactionID)
	}
	return enrollment, nil
}

// paymentInfo resolves the enrollment payment status: a transaction id
// means PAID, otherwise the caller's status stands, otherwise FAILED.
func paymentInfo(attempt PaymentAttempt, now time.Time) models.PaymentInfo {
	info := models.PaymentInfo{
		Status:        attempt.Status,
		Phone:         attempt.Phone,
		TransactionID: attempt.TransactionID,
		Amount:        attempt.Amount,
	}
	if attempt.TransactionID != "" {
		info.Status = models.PaymentPaid
		info.TimeOfPayment = &now
	} else if info.Status == "" {
		info.Status = models.PaymentFailed
	}
	return info
}

// consumeTransaction marks the gateway record used. Failure only logs;
// the enrollment has already committed.
func (s *Service) consumeTransaction(ctx context.Context, learnerID, courseID primitive.ObjectID, transactionID string) {
	err := s.payments.MarkUsed(ctx, transactionID, models.PurposeCoursePurchase, map[string]string{
		"student_id": learnerID.Hex(),
		"course_id":  courseID.Hex(),
	})
	if err != nil {
		s.log.Warn("could not mark transaction consumed",
			zap.String("transaction_id", transactionID),
			zap.Error(err))
		return
	}
	s.audit.TransactionConsumed(ctx, learnerID, transactionID, models.PurposeCoursePurchase)
}

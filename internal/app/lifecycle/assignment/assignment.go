// internal/app/lifecycle/assignment/assignment.go

// Package assignment moves learners between tutors and groups. Each
// operation rewrites every document that mirrors the assignment (learner
// enrollment, tutor roster, course roster, group) inside one transaction.
package assignment

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/shulehub/shulehub/internal/app/store/audit"
	coursestore "github.com/shulehub/shulehub/internal/app/store/courses"
	groupstore "github.com/shulehub/shulehub/internal/app/store/groups"
	learnerstore "github.com/shulehub/shulehub/internal/app/store/learners"
	tutorstore "github.com/shulehub/shulehub/internal/app/store/tutors"
	"github.com/shulehub/shulehub/internal/app/system/auditlog"
	"github.com/shulehub/shulehub/internal/app/system/txn"
	"github.com/shulehub/shulehub/internal/domain/models"
)

var (
	ErrLearnerNotFound = errors.New("learner not found")
	ErrTutorNotFound   = errors.New("tutor not found")
	ErrGroupNotFound   = errors.New("group not found")
	ErrNotEnrolled     = errors.New("learner is not enrolled in this course")
	ErrNoTutorAssigned = errors.New("learner has no tutor for this course")
	ErrTutorMismatch   = errors.New("learner is assigned to a different tutor than the group's")
	ErrAlreadyAssigned = errors.New("learner already has a tutor for this course")
	ErrAlreadyInGroup  = errors.New("learner is already in a group for this course")
	ErrNotInGroup      = errors.New("learner is not in this group")
	ErrTutorInactive   = errors.New("tutor is not active")
	ErrTutorCourse     = errors.New("tutor does not teach this course")
)

type Service struct {
	learners *learnerstore.Store
	tutors   *tutorstore.Store
	courses  *coursestore.Store
	groups   *groupstore.Store
	txn      txn.Runner
	audit    *auditlog.Logger
	log      *zap.Logger
}

func NewService(learners *learnerstore.Store, tutors *tutorstore.Store, courses *coursestore.Store, groups *groupstore.Store, runner txn.Runner, auditLog *auditlog.Logger, log *zap.Logger) *Service {
	return &Service{
		learners: learners,
		tutors:   tutors,
		courses:  courses,
		groups:   groups,
		txn:      runner,
		audit:    auditLog,
		log:      log,
	}
}

// AssignTutor puts the learner's enrollment under a tutor. Three documents
// change together: the learner enrollment, the tutor's my_students roster
// and the course roster entry.
func (s *Service) AssignTutor(ctx context.Context, actorID, learnerID, courseID, tutorID primitive.ObjectID) error {
	err := s.txn.InTransaction(ctx, func(ctx context.Context) error {
		learner, enrollment, err := s.enrollment(ctx, learnerID, courseID)
		if err != nil {
			return err
		}
		if enrollment.Tutor != nil && enrollment.AssignmentStatus == models.AssignmentAssigned {
			return ErrAlreadyAssigned
		}

		tutor, err := s.tutors.GetByID(ctx, tutorID)
		if err != nil {
			if errors.Is(err, tutorstore.ErrNotFound) {
				return ErrTutorNotFound
			}
			return err
		}
		if !tutor.IsActive {
			return ErrTutorInactive
		}
		if !teaches(tutor, courseID) {
			return ErrTutorCourse
		}

		ref := &models.TutorRef{
			ID:     tutor.ID,
			Name:   tutor.FullName(),
			Email:  tutor.Email,
			Phone:  tutor.Phone,
			Status: "active",
		}
		enrollment.Tutor = ref
		enrollment.AssignmentStatus = models.AssignmentAssigned
		if err := s.learners.Save(ctx, learner); err != nil {
			return err
		}

		if tutor.StudentFor(learnerID, courseID) == nil {
			tutor.MyStudents = append(tutor.MyStudents, models.TutorStudent{
				StudentID:     learner.ID,
				Name:          learner.FullName(),
				UserType:      learner.Kind,
				CourseID:      courseID,
				CourseName:    enrollment.Name,
				PaymentStatus: enrollment.Payment.Status,
				AssignedAt:    time.Now().UTC(),
			})
		}
		if err := s.tutors.Save(ctx, tutor); err != nil {
			return err
		}

		return s.syncCourseRoster(ctx, courseID, learnerID, func(e *models.EnrolledStudent) {
			e.Tutor = ref
			e.AssignmentStatus = models.AssignmentAssigned
		})
	})
	if err != nil {
		return err
	}
	s.audit.TutorAssigned(ctx, actorID, learnerID, courseID, tutorID)
	return nil
}

// CancelAssignment marks the enrollment CANCELLED with an admin note. The
// tutor keeps the roster entry as history.
func (s *Service) CancelAssignment(ctx context.Context, actorID, learnerID, courseID primitive.ObjectID, reason string) error {
	err := s.txn.InTransaction(ctx, func(ctx context.Context) error {
		learner, enrollment, err := s.enrollment(ctx, learnerID, courseID)
		if err != nil {
			return err
		}

		enrollment.AssignmentStatus = models.AssignmentCancelled
		enrollment.AdminNotes = reason
		if err := s.learners.Save(ctx, learner); err != nil {
			return err
		}

		return s.syncCourseRoster(ctx, courseID, learnerID, func(e *models.EnrolledStudent) {
			e.AssignmentStatus = models.AssignmentCancelled
			e.AdminNotes = reason
		})
	})
	if err != nil {
		return err
	}
	s.audit.AssignmentCancelled(ctx, actorID, learnerID, courseID, reason)
	return nil
}

// AddToGroup puts the learner on the group roster and mirrors the
// assignment on the learner enrollment and the tutor roster entry. The
// learner must already be assigned to the group's tutor.
func (s *Service) AddToGroup(ctx context.Context, actorID, groupID, learnerID primitive.ObjectID) error {
	err := s.txn.InTransaction(ctx, func(ctx context.Context) error {
		return s.addToGroupTx(ctx, groupID, learnerID)
	})
	if err != nil {
		return err
	}
	s.audit.GroupMembershipChanged(ctx, audit.EventStudentAddedToGroup, actorID, learnerID, groupID)
	return nil
}

// RemoveFromGroup takes the learner off the group roster and clears the
// mirrored assignment.
func (s *Service) RemoveFromGroup(ctx context.Context, actorID, groupID, learnerID primitive.ObjectID) error {
	err := s.txn.InTransaction(ctx, func(ctx context.Context) error {
		return s.removeFromGroup(ctx, groupID, learnerID)
	})
	if err != nil {
		return err
	}
	s.audit.GroupMembershipChanged(ctx, audit.EventStudentRemovedFromGroup, actorID, learnerID, groupID)
	return nil
}

// TransferGroup moves the learner between two groups of the same course in
// one transaction. A failure on either side leaves the learner where they
// were.
func (s *Service) TransferGroup(ctx context.Context, actorID, fromID, toID, learnerID primitive.ObjectID) error {
	err := s.txn.InTransaction(ctx, func(ctx context.Context) error {
		if err := s.removeFromGroup(ctx, fromID, learnerID); err != nil {
			return err
		}
		return s.addToGroupTx(ctx, toID, learnerID)
	})
	if err != nil {
		return err
	}
	s.audit.GroupMembershipChanged(ctx, audit.EventStudentTransferred, actorID, learnerID, toID)
	return nil
}

// DeleteGroup removes the group and releases every learner on its roster:
// group assignment cleared on each learner enrollment and on the tutor's
// roster entries, all in one transaction.
func (s *Service) DeleteGroup(ctx context.Context, actorID, groupID primitive.ObjectID) error {
	var studentCount int
	err := s.txn.InTransaction(ctx, func(ctx context.Context) error {
		group, err := s.groups.GetByID(ctx, groupID)
		if err != nil {
			if errors.Is(err, groupstore.ErrNotFound) {
				return ErrGroupNotFound
			}
			return err
		}
		studentCount = len(group.Students)

		for _, gs := range group.Students {
			learner, err := s.learners.FindAnyKind(ctx, gs.StudentID)
			if err != nil {
				if errors.Is(err, learnerstore.ErrNotFound) {
					continue
				}
				return err
			}
			enrollment := learner.EnrollmentFor(group.CourseID)
			if enrollment == nil {
				continue
			}
			enrollment.IsAssignedToGroup = false
			enrollment.AssignedGroup = nil
			if err := s.learners.Save(ctx, learner); err != nil {
				return err
			}
			if enrollment.Tutor != nil {
				err := s.syncTutorRoster(ctx, enrollment.Tutor.ID, gs.StudentID, group.CourseID, func(ts *models.TutorStudent) {
					ts.IsAssignedToGroup = false
					ts.AssignedGroup = nil
				})
				if err != nil && !errors.Is(err, ErrTutorNotFound) {
					return err
				}
			}
		}

		_, err = s.groups.Delete(ctx, groupID)
		return err
	})
	if err != nil {
		return err
	}
	s.audit.GroupDeleted(ctx, actorID, groupID, studentCount)
	return nil
}

// removeFromGroup is the in-transaction body shared by RemoveFromGroup and
// TransferGroup.
func (s *Service) removeFromGroup(ctx context.Context, groupID, learnerID primitive.ObjectID) error {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, groupstore.ErrNotFound) {
			return ErrGroupNotFound
		}
		return err
	}
	if !group.HasStudent(learnerID) {
		return ErrNotInGroup
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

	learner, enrollment, err := s.enrollment(ctx, learnerID, group.CourseID)
	if err != nil {
		return err
	}
	enrollment.IsAssignedToGroup = false
	enrollment.AssignedGroup = nil
	if err := s.learners.Save(ctx, learner); err != nil {
		return err
	}

	if enrollment.Tutor == nil {
		return nil
	}
	err = s.syncTutorRoster(ctx, enrollment.Tutor.ID, learnerID, group.CourseID, func(ts *models.TutorStudent) {
		ts.IsAssignedToGroup = false
		ts.AssignedGroup = nil
	})
	if errors.Is(err, ErrTutorNotFound) {
		return nil
	}
	return err
}

// addToGroupTx is the in-transaction body of AddToGroup, reused by
// TransferGroup after the removal step.
func (s *Service) addToGroupTx(ctx context.Context, groupID, learnerID primitive.ObjectID) error {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, groupstore.ErrNotFound) {
			return ErrGroupNotFound
		}
		return err
	}
	if group.HasStudent(learnerID) {
		return ErrAlreadyInGroup
	}

	learner, enrollment, err := s.enrollment(ctx, learnerID, group.CourseID)
	if err != nil {
		return err
	}
	if enrollment.Tutor == nil {
		return ErrNoTutorAssigned
	}
	if enrollment.Tutor.ID != group.TutorID {
		return ErrTutorMismatch
	}
	if enrollment.IsAssignedToGroup {
		return ErrAlreadyInGroup
	}

	group.Students = append(group.Students, models.GroupStudent{
		StudentID: learner.ID,
		Name:      learner.FullName(),
		AddedAt:   time.Now().UTC(),
	})
	if err := s.groups.Save(ctx, group); err != nil {
		return err
	}

	assigned := &models.AssignedGroup{GroupID: group.ID, GroupName: group.Name}
	enrollment.IsAssignedToGroup = true
	enrollment.AssignedGroup = assigned
	if err := s.learners.Save(ctx, learner); err != nil {
		return err
	}

	return s.syncTutorRoster(ctx, enrollment.Tutor.ID, learnerID, group.CourseID, func(ts *models.TutorStudent) {
		ts.IsAssignedToGroup = true
		ts.AssignedGroup = assigned
	})
}

// enrollment loads the learner and the matching course enrollment. The
// returned pointer aliases learner.Courses, so mutations land on the
// learner before Save.
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

// syncCourseRoster applies update to the learner's roster entry on the
// course document. A missing entry is repaired silently rather than
// failing the operation.
func (s *Service) syncCourseRoster(ctx context.Context, courseID, learnerID primitive.ObjectID, update func(*models.EnrolledStudent)) error {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, coursestore.ErrNotFound) {
			s.log.Warn("course missing during roster sync", zap.String("course_id", courseID.Hex()))
			return nil
		}
		return err
	}
	entry := course.RosterEntryFor(learnerID)
	if entry == nil {
		s.log.Warn("learner missing from course roster",
			zap.String("course_id", courseID.Hex()),
			zap.String("student_id", learnerID.Hex()))
		return nil
	}
	update(entry)
	return s.courses.Save(ctx, course)
}

// syncTutorRoster applies update to the tutor's my_students entry for
// (learner, course).
func (s *Service) syncTutorRoster(ctx context.Context, tutorID, learnerID, courseID primitive.ObjectID, update func(*models.TutorStudent)) error {
	tutor, err := s.tutors.GetByID(ctx, tutorID)
	if err != nil {
		if errors.Is(err, tutorstore.ErrNotFound) {
			return ErrTutorNotFound
		}
		return err
	}
	entry := tutor.StudentFor(learnerID, courseID)
	if entry == nil {
		s.log.Warn("learner missing from tutor roster",
			zap.String("tutor_id", tutorID.Hex()),
			zap.String("student_id", learnerID.Hex()))
		return nil
	}
	update(entry)
	return s.tutors.Save(ctx, tutor)
}

func teaches(t models.Tutor, courseID primitive.ObjectID) bool {
	for _, id := range t.Courses {
		if id == courseID {
			return true
		}
	}
	return false
}

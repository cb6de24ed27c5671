// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/shulehub/shulehub/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for authentication events.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off"
	Auth string
	// Lifecycle controls logging for enrollment, assignment, progress and
	// certification events. Same values as Auth.
	Lifecycle string
	// Finance controls logging for payment and settlement events.
	Finance string
}

// Logger records audit events to MongoDB (via audit.Store) and to
// structured logs (via zap). A nil *Logger is a valid no-op, so services
// under test can skip auditing entirely.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
	}
	if event.SubjectID != nil {
		fields = append(fields, zap.String("subject_id", event.SubjectID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.CourseID != nil {
		fields = append(fields, zap.String("course_id", event.CourseID.Hex()))
	}
	if event.GroupID != nil {
		fields = append(fields, zap.String("group_id", event.GroupID.Hex()))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration. A nil logger is a no-op.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryLifecycle:
		setting = l.config.Lifecycle
	case audit.CategoryFinance:
		setting = l.config.Finance
	default:
		setting = "all"
	}

	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" || setting == "" {
		l.logToZap(event)
	}
	if setting == "all" || setting == "db" || setting == "" {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType))
		}
	}
}

/* --- Lifecycle events --- */

// StudentEnrolled logs a new course enrollment.
func (l *Logger) StudentEnrolled(ctx context.Context, studentID, courseID primitive.ObjectID, paymentStatus string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryLifecycle,
		EventType: audit.EventStudentEnrolled,
		SubjectID: &studentID,
		CourseID:  &courseID,
		Success:   true,
		Details:   map[string]string{"payment_status": paymentStatus},
	})
}

// StudentAdmitted logs an offline admission with its admission number.
func (l *Logger) StudentAdmitted(ctx context.Context, actorID, studentID primitive.ObjectID, admissionNumber string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryLifecycle,
		EventType: audit.EventStudentAdmitted,
		SubjectID: &studentID,
		ActorID:   &actorID,
		Success:   true,
		Details:   map[string]string{"admission_number": admissionNumber},
	})
}

// TutorAssigned logs a tutor assignment for one enrollment.
func (l *Logger) TutorAssigned(ctx context.Context, actorID, studentID, courseID, tutorID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryLifecycle,
		EventType: audit.EventTutorAssigned,
		SubjectID: &studentID,
		ActorID:   &actorID,
		CourseID:  &courseID,
		Success:   true,
		Details:   map[string]string{"tutor_id": tutorID.Hex()},
	})
}

// AssignmentCancelled logs the rollback of a tutor assignment.
func (l *Logger) AssignmentCancelled(ctx context.Context, actorID, studentID, courseID primitive.ObjectID, reason string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryLifecycle,
		EventType: audit.EventAssignmentCancelled,
		SubjectID: &studentID,
		ActorID:   &actorID,
		CourseID:  &courseID,
		Success:   true,
		Details:   map[string]string{"reason": reason},
	})
}

// GroupMembershipChanged logs adds, removals and transfers on group rosters.
func (l *Logger) GroupMembershipChanged(ctx context.Context, eventType string, actorID, studentID, groupID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryLifecycle,
		EventType: eventType,
		SubjectID: &studentID,
		ActorID:   &actorID,
		GroupID:   &groupID,
		Success:   true,
	})
}

// GroupCreated logs the creation of a group.
func (l *Logger) GroupCreated(ctx context.Context, actorID, groupID, courseID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryLifecycle,
		EventType: audit.EventGroupCreated,
		ActorID:   &actorID,
		GroupID:   &groupID,
		CourseID:  &courseID,
		Success:   true,
	})
}

// GroupDeleted logs a group deletion and how many students it released.
func (l *Logger) GroupDeleted(ctx context.Context, actorID, groupID primitive.ObjectID, studentCount int) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryLifecycle,
		EventType: audit.EventGroupDeleted,
		ActorID:   &actorID,
		GroupID:   &groupID,
		Success:   true,
		Details:   map[string]string{"students_released": strconv.Itoa(studentCount)},
	})
}

// ExamRecorded logs exam adds and removals on an enrollment.
func (l *Logger) ExamRecorded(ctx context.Context, eventType string, actorID, studentID, courseID primitive.ObjectID, grade string) {
	details := map[string]string{}
	if grade != "" {
		details["grade"] = grade
	}
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryLifecycle,
		EventType: eventType,
		SubjectID: &studentID,
		ActorID:   &actorID,
		CourseID:  &courseID,
		Success:   true,
		Details:   details,
	})
}

// StudentGraduated logs a successful graduation, including whether the
// learner migrated from students to alumni.
func (l *Logger) StudentGraduated(ctx context.Context, actorID, studentID, courseID primitive.ObjectID, migrated bool, serial string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryLifecycle,
		EventType: audit.EventStudentGraduated,
		SubjectID: &studentID,
		ActorID:   &actorID,
		CourseID:  &courseID,
		Success:   true,
		Details: map[string]string{
			"migrated_to_alumni": strconv.FormatBool(migrated),
			"certificate_serial": serial,
		},
	})
}

// GraduationBlocked logs a graduation attempt that failed a gate.
func (l *Logger) GraduationBlocked(ctx context.Context, actorID, studentID, courseID primitive.ObjectID, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryLifecycle,
		EventType:     audit.EventStudentGraduated,
		SubjectID:     &studentID,
		ActorID:       &actorID,
		CourseID:      &courseID,
		Success:       false,
		FailureReason: reason,
	})
}

// ApplicationReceived logs an inbound application form.
func (l *Logger) ApplicationReceived(ctx context.Context, r *http.Request, applicationID primitive.ObjectID, applicationNumber string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryLifecycle,
		EventType: audit.EventApplicationReceived,
		SubjectID: &applicationID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
		Details:   map[string]string{"application_number": applicationNumber},
	})
}

// ApplicationReviewed logs a status decision on an application.
func (l *Logger) ApplicationReviewed(ctx context.Context, actorID, applicationID primitive.ObjectID, fromStatus, toStatus string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryLifecycle,
		EventType: audit.EventApplicationReviewed,
		SubjectID: &applicationID,
		ActorID:   &actorID,
		Success:   true,
		Details:   map[string]string{"from": fromStatus, "to": toStatus},
	})
}

/* --- Finance events --- */

// PaymentRecorded logs a confirmed gateway payment landing in the store.
func (l *Logger) PaymentRecorded(ctx context.Context, transactionID, phone string, amount float64) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryFinance,
		EventType: audit.EventPaymentRecorded,
		Success:   true,
		Details: map[string]string{
			"transaction_id": transactionID,
			"phone":          phone,
			"amount":         strconv.FormatFloat(amount, 'f', 2, 64),
		},
	})
}

// TransactionConsumed logs an M-Pesa transaction being tied to a purchase.
func (l *Logger) TransactionConsumed(ctx context.Context, studentID primitive.ObjectID, transactionID, purpose string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryFinance,
		EventType: audit.EventTransactionConsumed,
		SubjectID: &studentID,
		Success:   true,
		Details: map[string]string{
			"transaction_id": transactionID,
			"purpose":        purpose,
		},
	})
}

// SettlementMarked logs a tutor settlement status change.
func (l *Logger) SettlementMarked(ctx context.Context, actorID, tutorID, studentID primitive.ObjectID, status string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryFinance,
		EventType: audit.EventSettlementMarked,
		SubjectID: &tutorID,
		ActorID:   &actorID,
		Success:   true,
		Details: map[string]string{
			"student_id": studentID.Hex(),
			"status":     status,
		},
	})
}


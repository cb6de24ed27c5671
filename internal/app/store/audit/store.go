// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event categories
const (
	CategoryAuth      = "auth"
	CategoryLifecycle = "lifecycle"
	CategoryFinance   = "finance"
)

// Auth event types
const (
	EventLoginSuccess             = "login_success"
	EventLoginFailedUserNotFound  = "login_failed_user_not_found"
	EventLoginFailedWrongPassword = "login_failed_wrong_password"
	EventPasswordChanged          = "password_changed"
)

// Lifecycle event types
const (
	EventStudentEnrolled         = "student_enrolled"
	EventStudentAdmitted         = "student_admitted"
	EventTutorAssigned           = "tutor_assigned"
	EventAssignmentCancelled     = "assignment_cancelled"
	EventStudentAddedToGroup     = "student_added_to_group"
	EventStudentRemovedFromGroup = "student_removed_from_group"
	EventStudentTransferred      = "student_transferred"
	EventGroupCreated            = "group_created"
	EventGroupDeleted            = "group_deleted"
	EventExamAdded               = "exam_added"
	EventExamRemoved             = "exam_removed"
	EventStudentGraduated        = "student_graduated"
	EventApplicationReceived     = "application_received"
	EventApplicationReviewed     = "application_reviewed"
)

// Finance event types
const (
	EventPaymentRecorded     = "payment_recorded"
	EventTransactionConsumed = "transaction_consumed"
	EventSettlementMarked    = "settlement_marked"
	EventSubscriptionRenewed = "subscription_renewed"
)

// Event represents an audit event.
type Event struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Timestamp time.Time          `bson:"timestamp"`

	Category  string `bson:"category"`
	EventType string `bson:"event_type"`

	// Who: the learner or tutor affected, and the user who acted.
	SubjectID *primitive.ObjectID `bson:"subject_id,omitempty"`
	ActorID   *primitive.ObjectID `bson:"actor_id,omitempty"`

	// What the event touched.
	CourseID *primitive.ObjectID `bson:"course_id,omitempty"`
	GroupID  *primitive.ObjectID `bson:"group_id,omitempty"`

	IP        string `bson:"ip,omitempty"`
	UserAgent string `bson:"user_agent,omitempty"`

	Success       bool   `bson:"success"`
	FailureReason string `bson:"failure_reason,omitempty"`

	Details map[string]string `bson:"details,omitempty"`
}

// QueryFilter defines filters for querying audit events.
type QueryFilter struct {
	SubjectID *primitive.ObjectID
	CourseID  *primitive.ObjectID
	Category  string
	EventType string
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int64
	Offset    int64
}

// Store manages audit event records.
type Store struct {
	c *mongo.Collection
}

// New creates a new audit Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// Log stores an audit event. Timestamp defaults to now.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, event)
	return err
}

// Query returns events matching the filter, most recent first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	q := bson.M{}
	if filter.SubjectID != nil {
		q["subject_id"] = *filter.SubjectID
	}
	if filter.CourseID != nil {
		q["course_id"] = *filter.CourseID
	}
	if filter.Category != "" {
		q["category"] = filter.Category
	}
	if filter.EventType != "" {
		q["event_type"] = filter.EventType
	}
	if filter.StartTime != nil || filter.EndTime != nil {
		tr := bson.M{}
		if filter.StartTime != nil {
			tr["$gte"] = *filter.StartTime
		}
		if filter.EndTime != nil {
			tr["$lte"] = *filter.EndTime
		}
		q["timestamp"] = tr
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}
	if filter.Offset > 0 {
		opts.SetSkip(filter.Offset)
	}

	cur, err := s.c.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Count returns the number of events matching the filter.
func (s *Store) Count(ctx context.Context, filter QueryFilter) (int64, error) {
	q := bson.M{}
	if filter.SubjectID != nil {
		q["subject_id"] = *filter.SubjectID
	}
	if filter.Category != "" {
		q["category"] = filter.Category
	}
	if filter.EventType != "" {
		q["event_type"] = filter.EventType
	}
	return s.c.CountDocuments(ctx, q)
}

// internal/app/features/auditlog/types.go
package auditlog

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shulehub/shulehub/internal/app/store/audit"
)

// event is the JSON shape returned to admins. The store type carries only
// bson tags; this mirror keeps the wire format explicit.
type event struct {
	ID        primitive.ObjectID `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Category  string             `json:"category"`
	EventType string             `json:"event_type"`

	SubjectID *primitive.ObjectID `json:"subject_id,omitempty"`
	ActorID   *primitive.ObjectID `json:"actor_id,omitempty"`
	CourseID  *primitive.ObjectID `json:"course_id,omitempty"`
	GroupID   *primitive.ObjectID `json:"group_id,omitempty"`

	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`

	Success       bool              `json:"success"`
	FailureReason string            `json:"failure_reason,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
}

func toEvent(e audit.Event) event {
	return event{
		ID:            e.ID,
		Timestamp:     e.Timestamp,
		Category:      e.Category,
		EventType:     e.EventType,
		SubjectID:     e.SubjectID,
		ActorID:       e.ActorID,
		CourseID:      e.CourseID,
		GroupID:       e.GroupID,
		IP:            e.IP,
		UserAgent:     e.UserAgent,
		Success:       e.Success,
		FailureReason: e.FailureReason,
		Details:       e.Details,
	}
}

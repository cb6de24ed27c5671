package auditlog_test

import (
	"testing"

	"github.com/shulehub/shulehub/internal/app/store/audit"
	"github.com/shulehub/shulehub/internal/app/system/auditlog"
	"github.com/shulehub/shulehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestLogger_NilLogger(t *testing.T) {
	// nil logger must be a no-op, not a panic
	var logger *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.StudentEnrolled(ctx, primitive.NewObjectID(), primitive.NewObjectID(), "PAID")
	logger.StudentGraduated(ctx, primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID(), true, "SN-1")
}

func TestLogger_Log_ConfigOff(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{
		Auth:      "off",
		Lifecycle: "off",
		Finance:   "off",
	})

	logger.Log(ctx, audit.Event{
		Category:  audit.CategoryLifecycle,
		EventType: audit.EventStudentEnrolled,
		Success:   true,
	})

	n, err := store.Count(ctx, audit.QueryFilter{Category: audit.CategoryLifecycle})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Error("expected no stored events when config is 'off'")
	}
}

func TestLogger_Log_ConfigDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Lifecycle: "db"})

	student := primitive.NewObjectID()
	course := primitive.NewObjectID()
	logger.StudentEnrolled(ctx, student, course, "PENDING")

	events, err := store.Query(ctx, audit.QueryFilter{SubjectID: &student})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 stored event, got %d", len(events))
	}
	if events[0].Details["payment_status"] != "PENDING" {
		t.Errorf("expected payment_status detail, got %v", events[0].Details)
	}
}

func TestLogger_Log_ConfigLogOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Finance: "log"})

	student := primitive.NewObjectID()
	logger.TransactionConsumed(ctx, student, "TX55", "course_purchase")

	n, err := store.Count(ctx, audit.QueryFilter{Category: audit.CategoryFinance})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Error("expected no stored events when config is 'log'")
	}
}

func TestLogger_GraduationBlocked(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Lifecycle: "all"})

	actor := primitive.NewObjectID()
	student := primitive.NewObjectID()
	course := primitive.NewObjectID()
	logger.GraduationBlocked(ctx, actor, student, course, "payment incomplete")

	events, err := store.Query(ctx, audit.QueryFilter{SubjectID: &student})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Success {
		t.Error("expected blocked graduation to be recorded as failure")
	}
	if events[0].FailureReason != "payment incomplete" {
		t.Errorf("unexpected failure reason %q", events[0].FailureReason)
	}
}

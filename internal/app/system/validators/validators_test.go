package validators_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shulehub/shulehub/internal/app/system/validators"
	"github.com/shulehub/shulehub/internal/testutil"
)

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// EnsureAll should succeed on a clean database
	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// First call
	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}

	// Second call should also succeed (idempotent)
	err = validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// Verify collections exist
	expectedCollections := []string{
		"students",
		"alumni",
		"tutors",
		"courses",
		"groups",
		"curricula",
		"applications",
		"mpesa_transactions",
		"audit_events",
		"counters",
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}

	collMap := make(map[string]bool)
	for _, name := range names {
		collMap[name] = true
	}

	for _, expected := range expectedCollections {
		if !collMap[expected] {
			t.Errorf("expected collection %q to exist", expected)
		}
	}
}

func TestLearnerValidator_RequiredFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// Try to insert a learner without required fields - should fail
	_, err = db.Collection("students").InsertOne(ctx, bson.M{
		"first_name": "Amina",
	})
	if err == nil {
		t.Error("expected validation error when inserting learner without required fields")
	}
}

func TestLearnerValidator_ValidLearner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// Insert valid learner - should succeed
	_, err = db.Collection("students").InsertOne(ctx, bson.M{
		"first_name": "Amina",
		"last_name":  "Otieno",
		"email":      "amina@example.com",
		"email_ci":   "amina@example.com",
		"courses": bson.A{bson.M{
			"course_id":            primitive.NewObjectID(),
			"name":                 "Web Development",
			"assignment_status":    "PENDING",
			"certification_status": "PENDING",
		}},
	})
	if err != nil {
		t.Errorf("Insert valid learner failed: %v", err)
	}
}

func TestLearnerValidator_InvalidEnrollmentStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// Try to insert a learner with an unknown assignment status - should fail
	_, err = db.Collection("students").InsertOne(ctx, bson.M{
		"first_name": "Amina",
		"last_name":  "Otieno",
		"email":      "amina@example.com",
		"email_ci":   "amina@example.com",
		"courses": bson.A{bson.M{
			"course_id":         primitive.NewObjectID(),
			"name":              "Web Development",
			"assignment_status": "MAYBE",
		}},
	})
	if err == nil {
		t.Error("expected validation error for unknown assignment_status")
	}
}

func TestApplicationsValidator_InvalidStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// Try to insert an application with an unknown status - should fail
	_, err = db.Collection("applications").InsertOne(ctx, bson.M{
		"application_number": "APP-1",
		"status":             "waitlisted",
	})
	if err == nil {
		t.Error("expected validation error for unknown application status")
	}
}

func TestMpesaValidator_RequiredFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	// Receipt without a transaction id - should fail
	_, err = db.Collection("mpesa_transactions").InsertOne(ctx, bson.M{
		"phone": "254708374149",
	})
	if err == nil {
		t.Error("expected validation error when inserting transaction without transaction_id")
	}

	// Valid receipt - should succeed
	_, err = db.Collection("mpesa_transactions").InsertOne(ctx, bson.M{
		"transaction_id": "NLJ7RT61SV",
		"phone":          "254708374149",
		"amount":         1500.0,
		"used":           false,
	})
	if err != nil {
		t.Errorf("Insert valid transaction failed: %v", err)
	}
}

// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Errors are aggregated so every problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	for _, e := range []struct {
		name string
		fn   func(context.Context, *mongo.Database) error
	}{
		{"students", ensureLearners("students")},
		{"alumni", ensureLearners("alumni")},
		{"tutors", ensureTutors},
		{"courses", ensureCourses},
		{"groups", ensureGroups},
		{"curricula", ensureCurricula},
		{"applications", ensureApplications},
		{"mpesa_transactions", ensureMpesaTransactions},
		{"audit_events", ensureAuditEvents},
	} {
		if err := e.fn(ctx, db); err != nil {
			problems = append(problems, e.name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func uniq(name string) *options.IndexOptions {
	return options.Index().SetName(name).SetUnique(true)
}

func plain(name string) *options.IndexOptions {
	return options.Index().SetName(name)
}

// sparseUniq is for unique fields that older documents may lack.
func sparseUniq(name string) *options.IndexOptions {
	return options.Index().SetName(name).SetUnique(true).SetSparse(true)
}

// Both learner collections carry the same indexes so a migrated document
// keeps its guarantees.
func ensureLearners(coll string) func(context.Context, *mongo.Database) error {
	return func(ctx context.Context, db *mongo.Database) error {
		return ensureIndexSet(ctx, db.Collection(coll), []mongo.IndexModel{
			{Keys: bson.D{{Key: "email_ci", Value: 1}}, Options: uniq("uniq_email_ci")},
			{Keys: bson.D{{Key: "phone", Value: 1}}, Options: plain("idx_phone")},
			{Keys: bson.D{{Key: "admission_number", Value: 1}}, Options: sparseUniq("uniq_admission_number")},
			{Keys: bson.D{{Key: "courses.course_id", Value: 1}}, Options: plain("idx_courses_course_id")},
		})
	}
}

func ensureTutors(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("tutors"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "email_ci", Value: 1}}, Options: uniq("uniq_email_ci")},
		{Keys: bson.D{{Key: "my_students.student_id", Value: 1}}, Options: plain("idx_my_students_student_id")},
	})
}

func ensureCourses(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("courses"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "name_ci", Value: 1}}, Options: uniq("uniq_name_ci")},
		{Keys: bson.D{{Key: "enrolled_students.student_id", Value: 1}}, Options: plain("idx_enrolled_student_id")},
	})
}

func ensureGroups(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("groups"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "tutor_id", Value: 1}}, Options: plain("idx_tutor_id")},
		{Keys: bson.D{{Key: "course_id", Value: 1}}, Options: plain("idx_course_id")},
		{Keys: bson.D{{Key: "students.student_id", Value: 1}}, Options: plain("idx_students_student_id")},
	})
}

func ensureCurricula(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("curricula"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "name_ci", Value: 1}}, Options: plain("idx_name_ci")},
		{Keys: bson.D{{Key: "course_id", Value: 1}}, Options: plain("idx_course_id")},
	})
}

func ensureApplications(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("applications"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "application_number", Value: 1}}, Options: uniq("uniq_application_number")},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}, Options: plain("idx_status_created_at")},
	})
}

func ensureMpesaTransactions(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("mpesa_transactions"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "transaction_id", Value: 1}}, Options: uniq("uniq_transaction_id")},
		{Keys: bson.D{{Key: "phone", Value: 1}, {Key: "created_at", Value: -1}}, Options: plain("idx_phone_created_at")},
	})
}

func ensureAuditEvents(ctx context.Context, db *mongo.Database) error {
	return ensureIndexSet(ctx, db.Collection("audit_events"), []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}, Options: plain("idx_timestamp")},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "timestamp", Value: -1}}, Options: plain("idx_category_timestamp")},
	})
}

/* -------------------------------------------------------------------------- */
/* Reconcile a set of desired indexes for one collection                      */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameUnique(a, b *bool) bool {
	av, bv := false, false
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return av == bv
}

// ensureIndexSet creates any missing index and recreates one whose
// uniqueness no longer matches. Matching is by key signature, not name.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, desired []mongo.IndexModel) error {
	existing := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return fmt.Errorf("list indexes: %w", err)
	}
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("decode existing index failed",
				zap.String("collection", coll.Name()), zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	cur.Close(ctx)

	var errs []string
	for _, m := range desired {
		sig := keySig(m.Keys.(bson.D))
		var wantUnique *bool
		name := ""
		if m.Options != nil {
			wantUnique = m.Options.Unique
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
		}

		if ex, ok := existing[sig]; ok {
			if sameUnique(wantUnique, ex.Unique) {
				continue
			}
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			continue
		}
		zap.L().Info("index created",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", wantUnique != nil && *wantUnique))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

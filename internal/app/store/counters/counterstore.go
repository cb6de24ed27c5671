// internal/app/store/counters/counterstore.go
package counterstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Counter names.
const (
	AdmissionNumber   = "admission_number"
	ApplicationNumber = "application_number"
)

// Store hands out monotonically increasing sequence numbers backed by a
// counters collection. Each Next is a single atomic $inc, so concurrent
// callers never observe the same value.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("counters")}
}

type counterDoc struct {
	Name  string `bson:"_id"`
	Value int64  `bson:"value"`
}

// Next increments and returns the counter, creating it at 1 on first use.
func (s *Store) Next(ctx context.Context, name string) (int64, error) {
	var doc counterDoc
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"value": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next %s: %w", name, err)
	}
	return doc.Value, nil
}

// NextAdmissionNumber formats the next admission number, e.g. ZOE-1042.
func (s *Store) NextAdmissionNumber(ctx context.Context) (string, error) {
	n, err := s.Next(ctx, AdmissionNumber)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ZOE-%d", n), nil
}

// NextApplicationNumber formats the next application number for the
// current year, e.g. APP-2026-00017. Each year gets its own sequence.
func (s *Store) NextApplicationNumber(ctx context.Context) (string, error) {
	year := time.Now().UTC().Year()
	n, err := s.Next(ctx, fmt.Sprintf("%s_%d", ApplicationNumber, year))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("APP-%d-%05d", year, n), nil
}

// internal/app/store/tutors/tutorstore.go
package tutorstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	textfold "github.com/dalemusser/waffle/pantry/text"
	"github.com/shulehub/shulehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrDuplicateEmail = errors.New("a tutor with this email already exists")
	ErrNotFound       = errors.New("tutor not found")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tutors")}
}

func (s *Store) Create(ctx context.Context, t models.Tutor) (models.Tutor, error) {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.EmailCI = textfold.Fold(t.Email)
	if t.Role == "" {
		t.Role = "tutor"
	}
	if t.MyStudents == nil {
		t.MyStudents = []models.TutorStudent{}
	}
	if t.CertifiedStudents == nil {
		t.CertifiedStudents = []models.CertifiedStudent{}
	}
	if t.JoinDate.IsZero() {
		t.JoinDate = now
	}
	t.CreatedAt = now
	t.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, t); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Tutor{}, ErrDuplicateEmail
		}
		return models.Tutor{}, err
	}
	return t, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Tutor, error) {
	var t models.Tutor
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Tutor{}, ErrNotFound
		}
		return models.Tutor{}, err
	}
	return t, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (models.Tutor, error) {
	var t models.Tutor
	err := s.c.FindOne(ctx, bson.M{"email_ci": textfold.Fold(email)}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Tutor{}, ErrNotFound
		}
		return models.Tutor{}, err
	}
	return t, nil
}

// Save replaces the tutor document.
func (s *Store) Save(ctx context.Context, t models.Tutor) error {
	t.UpdatedAt = time.Now().UTC()
	t.EmailCI = textfold.Fold(t.Email)
	res, err := s.c.ReplaceOne(ctx, bson.M{"_id": t.ID}, t)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns tutors, active first, then by join date.
func (s *Store) List(ctx context.Context, activeOnly bool) ([]models.Tutor, error) {
	filter := bson.M{}
	if activeOnly {
		filter["is_active"] = true
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{
		{Key: "is_active", Value: -1},
		{Key: "join_date", Value: -1},
	}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Tutor
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByCourse returns tutors who teach the course.
func (s *Store) ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]models.Tutor, error) {
	cur, err := s.c.Find(ctx, bson.M{"courses": courseID, "is_active": true})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Tutor
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ErrRosterEntryNotFound is returned by MarkSettlement when the student
// appears on neither the active nor the certified roster of the tutor.
var ErrRosterEntryNotFound = errors.New("student not found on this tutor's roster")

// MarkSettlement sets the settlement on the tutor's roster entry for the
// student, active roster first, then the certified snapshots. Graduation
// moves the entry between the two arrays, so both must be checked.
func (s *Store) MarkSettlement(ctx context.Context, tutorID, studentID primitive.ObjectID, st models.Settlement) error {
	now := time.Now().UTC()

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": tutorID, "my_students.student_id": studentID},
		bson.M{"$set": bson.M{"my_students.$.settlement": st, "updated_at": now}})
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	res, err = s.c.UpdateOne(ctx,
		bson.M{"_id": tutorID, "certified_students.student_id": studentID},
		bson.M{"$set": bson.M{"certified_students.$.settlement": st, "updated_at": now}})
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	if err := s.c.FindOne(ctx, bson.M{"_id": tutorID}).Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	return ErrRosterEntryNotFound
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

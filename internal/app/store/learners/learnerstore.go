// internal/app/store/learners/learnerstore.go
package learnerstore

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
	ErrDuplicateEmail = errors.New("a learner with this email already exists")
	ErrNotFound       = errors.New("learner not found")
)

// Store reads and writes learners across the students and alumni
// collections. Kind on the returned Learner records which collection the
// document came from.
type Store struct {
	students *mongo.Collection
	alumni   *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		students: db.Collection("students"),
		alumni:   db.Collection("alumni"),
	}
}

func (s *Store) coll(kind string) *mongo.Collection {
	if kind == models.KindAlumnus {
		return s.alumni
	}
	return s.students
}

// CreateStudent inserts a new learner into the students collection.
func (s *Store) CreateStudent(ctx context.Context, l models.Learner) (models.Learner, error) {
	now := time.Now().UTC()
	l.ID = primitive.NewObjectID()
	l.Kind = models.KindStudent
	l.EmailCI = textfold.Fold(l.Email)
	if l.Courses == nil {
		l.Courses = []models.CourseEnrollment{}
	}
	l.CreatedAt = now
	l.UpdatedAt = now

	if _, err := s.students.InsertOne(ctx, l); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Learner{}, ErrDuplicateEmail
		}
		return models.Learner{}, err
	}
	return l, nil
}

// Get loads a learner from the collection matching kind.
func (s *Store) Get(ctx context.Context, kind string, id primitive.ObjectID) (models.Learner, error) {
	var l models.Learner
	if err := s.coll(kind).FindOne(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Learner{}, ErrNotFound
		}
		return models.Learner{}, err
	}
	l.Kind = kind
	return l, nil
}

// FindAnyKind looks the learner up in students first, then alumni. Kind on
// the result says where the document was found.
func (s *Store) FindAnyKind(ctx context.Context, id primitive.ObjectID) (models.Learner, error) {
	l, err := s.Get(ctx, models.KindStudent, id)
	if err == nil {
		return l, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return models.Learner{}, err
	}
	return s.Get(ctx, models.KindAlumnus, id)
}

// FindAnyKindByEmail resolves a login identifier across both collections.
func (s *Store) FindAnyKindByEmail(ctx context.Context, email string) (models.Learner, error) {
	folded := textfold.Fold(email)
	for _, kind := range []string{models.KindStudent, models.KindAlumnus} {
		var l models.Learner
		err := s.coll(kind).FindOne(ctx, bson.M{"email_ci": folded}).Decode(&l)
		if err == nil {
			l.Kind = kind
			return l, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return models.Learner{}, err
		}
	}
	return models.Learner{}, ErrNotFound
}

// Save replaces the learner document in the collection Kind names.
func (s *Store) Save(ctx context.Context, l models.Learner) error {
	l.UpdatedAt = time.Now().UTC()
	l.EmailCI = textfold.Fold(l.Email)
	res, err := s.coll(l.Kind).ReplaceOne(ctx, bson.M{"_id": l.ID}, l)
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

// List returns learners of one kind, newest first.
func (s *Store) List(ctx context.Context, kind string, limit, offset int64) ([]models.Learner, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	if offset > 0 {
		opts.SetSkip(offset)
	}

	cur, err := s.coll(kind).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Learner
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Kind = kind
	}
	return out, nil
}

// ListByCourse returns learners of one kind enrolled in the course.
func (s *Store) ListByCourse(ctx context.Context, kind string, courseID primitive.ObjectID) ([]models.Learner, error) {
	cur, err := s.coll(kind).Find(ctx, bson.M{"courses.course_id": courseID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Learner
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Kind = kind
	}
	return out, nil
}

// ListPublicAlumni returns alumni who opted into the public directory.
func (s *Store) ListPublicAlumni(ctx context.Context) ([]models.Learner, error) {
	cur, err := s.alumni.Find(ctx, bson.M{"is_public_profile_enabled": true},
		options.Find().SetSort(bson.D{{Key: "graduation_date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Learner
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Kind = models.KindAlumnus
	}
	return out, nil
}

// UpdatePassword sets a new password hash on the learner.
func (s *Store) UpdatePassword(ctx context.Context, kind string, id primitive.ObjectID, hash string) error {
	res, err := s.coll(kind).UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"password":   hash,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertAlumnus writes the learner into the alumni collection keeping its
// _id. Used by graduation migration; the upsert makes a retried
// transaction idempotent.
func (s *Store) UpsertAlumnus(ctx context.Context, l models.Learner) error {
	l.Kind = models.KindAlumnus
	l.UpdatedAt = time.Now().UTC()
	_, err := s.alumni.ReplaceOne(ctx, bson.M{"_id": l.ID}, l, options.Replace().SetUpsert(true))
	return err
}

// DeleteStudent removes the learner from the students collection. A
// missing document is not an error so graduation migration can retry.
func (s *Store) DeleteStudent(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.students.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// Delete removes a learner from the collection matching kind.
func (s *Store) Delete(ctx context.Context, kind string, id primitive.ObjectID) (int64, error) {
	res, err := s.coll(kind).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"time"

	"github.com/shulehub/shulehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("group not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	if g.Students == nil {
		g.Students = []models.GroupStudent{}
	}
	if g.CurriculumItems == nil {
		g.CurriculumItems = []models.CurriculumItem{}
	}
	g.CreatedAt = now
	g.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Group{}, ErrNotFound
		}
		return models.Group{}, err
	}
	return g, nil
}

// Save replaces the group document.
func (s *Store) Save(ctx context.Context, g models.Group) error {
	g.UpdatedAt = time.Now().UTC()
	res, err := s.c.ReplaceOne(ctx, bson.M{"_id": g.ID}, g)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByTutor returns a tutor's groups, newest first.
func (s *Store) ListByTutor(ctx context.Context, tutorID primitive.ObjectID) ([]models.Group, error) {
	return s.list(ctx, bson.M{"tutor_id": tutorID})
}

// ListByCourse returns all groups running the course.
func (s *Store) ListByCourse(ctx context.Context, courseID primitive.ObjectID) ([]models.Group, error) {
	return s.list(ctx, bson.M{"course_id": courseID})
}

// ListByStudent returns the groups a learner belongs to.
func (s *Store) ListByStudent(ctx context.Context, studentID primitive.ObjectID) ([]models.Group, error) {
	return s.list(ctx, bson.M{"students.student_id": studentID})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Group, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Group
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByStudentAndCourse returns the group holding the learner for the
// course. A learner is in at most one group per course.
func (s *Store) FindByStudentAndCourse(ctx context.Context, studentID, courseID primitive.ObjectID) (models.Group, error) {
	var g models.Group
	err := s.c.FindOne(ctx, bson.M{
		"course_id":           courseID,
		"students.student_id": studentID,
	}).Decode(&g)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Group{}, ErrNotFound
		}
		return models.Group{}, err
	}
	return g, nil
}

// Delete removes a group by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// internal/app/store/curricula/curriculumstore.go
package curriculumstore

import (
	"context"
	"errors"
	"time"

	textfold "github.com/dalemusser/waffle/pantry/text"
	"github.com/shulehub/shulehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("curriculum not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("curricula")}
}

func (s *Store) Create(ctx context.Context, cu models.Curriculum) (models.Curriculum, error) {
	now := time.Now().UTC()
	cu.ID = primitive.NewObjectID()
	cu.NameCI = textfold.Fold(cu.Name)
	if cu.Items == nil {
		cu.Items = []models.CurriculumTemplateItem{}
	}
	for i := range cu.Items {
		if cu.Items[i].ID.IsZero() {
			cu.Items[i].ID = primitive.NewObjectID()
		}
		if cu.Items[i].CreatedAt.IsZero() {
			cu.Items[i].CreatedAt = now
		}
	}
	cu.CreatedAt = now
	cu.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, cu); err != nil {
		return models.Curriculum{}, err
	}
	return cu, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Curriculum, error) {
	var cu models.Curriculum
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&cu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Curriculum{}, ErrNotFound
		}
		return models.Curriculum{}, err
	}
	return cu, nil
}

// Save replaces the template. Groups that already imported it keep their
// own copies untouched.
func (s *Store) Save(ctx context.Context, cu models.Curriculum) error {
	cu.UpdatedAt = time.Now().UTC()
	cu.NameCI = textfold.Fold(cu.Name)
	for i := range cu.Items {
		if cu.Items[i].ID.IsZero() {
			cu.Items[i].ID = primitive.NewObjectID()
			cu.Items[i].CreatedAt = cu.UpdatedAt
		}
	}
	res, err := s.c.ReplaceOne(ctx, bson.M{"_id": cu.ID}, cu)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns templates, optionally scoped to one course.
func (s *Store) List(ctx context.Context, courseID *primitive.ObjectID) ([]models.Curriculum, error) {
	filter := bson.M{}
	if courseID != nil {
		filter["course_id"] = *courseID
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Curriculum
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// internal/app/lifecycle/progress/progress.go

// Package progress reports how far a group has worked through its
// curriculum. Completion is tracked per group, not per learner: the tutor
// marks an item done for the whole cohort.
package progress

import (
	"context"
	"errors"
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"

	groupstore "github.com/shulehub/shulehub/internal/app/store/groups"
	"github.com/shulehub/shulehub/internal/domain/models"
)

var ErrGroupNotFound = errors.New("group not found")

// Completion summarizes curriculum progress for one group.
type Completion struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// Compute counts completed curriculum items. Percentage rounds to the
// nearest whole number and is 0 for an empty curriculum.
func Compute(g models.Group) Completion {
	c := Completion{Total: len(g.CurriculumItems)}
	for _, item := range g.CurriculumItems {
		if item.IsCompleted {
			c.Completed++
		}
	}
	if c.Total > 0 {
		c.Percentage = int(math.Round(float64(c.Completed) / float64(c.Total) * 100))
	}
	return c
}

type Service struct {
	groups *groupstore.Store
}

func NewService(groups *groupstore.Store) *Service {
	return &Service{groups: groups}
}

// ForGroup loads the group and computes its completion.
func (s *Service) ForGroup(ctx context.Context, groupID primitive.ObjectID) (Completion, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, groupstore.ErrNotFound) {
			return Completion{}, ErrGroupNotFound
		}
		return Completion{}, err
	}
	return Compute(group), nil
}

// ForLearner finds the learner's group for a course and computes its
// completion. Learners not yet in a group report zero progress.
func (s *Service) ForLearner(ctx context.Context, learnerID, courseID primitive.ObjectID) (Completion, error) {
	group, err := s.groups.FindByStudentAndCourse(ctx, learnerID, courseID)
	if err != nil {
		if errors.Is(err, groupstore.ErrNotFound) {
			return Completion{}, nil
		}
		return Completion{}, err
	}
	return Compute(group), nil
}

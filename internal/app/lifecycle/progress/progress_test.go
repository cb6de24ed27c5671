package progress_test

import (
	"testing"

	"github.com/shulehub/shulehub/internal/app/lifecycle/progress"
	"github.com/shulehub/shulehub/internal/domain/models"
)

func group(completed, total int) models.Group {
	var g models.Group
	for i := 0; i < total; i++ {
		g.CurriculumItems = append(g.CurriculumItems, models.CurriculumItem{
			Name:        "Item",
			Position:    i + 1,
			IsCompleted: i < completed,
		})
	}
	return g
}

func TestCompute(t *testing.T) {
	cases := []struct {
		name      string
		completed int
		total     int
		wantPct   int
	}{
		{"empty curriculum", 0, 0, 0},
		{"nothing done", 0, 4, 0},
		{"half done", 2, 4, 50},
		{"rounds up", 2, 3, 67},
		{"rounds down", 1, 3, 33},
		{"all done", 5, 5, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := progress.Compute(group(tc.completed, tc.total))
			if got.Completed != tc.completed || got.Total != tc.total {
				t.Errorf("counts = %d/%d, want %d/%d", got.Completed, got.Total, tc.completed, tc.total)
			}
			if got.Percentage != tc.wantPct {
				t.Errorf("percentage = %d, want %d", got.Percentage, tc.wantPct)
			}
		})
	}
}

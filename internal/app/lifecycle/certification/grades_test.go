package certification_test

import (
	"testing"
	"time"

	"github.com/shulehub/shulehub/internal/app/lifecycle/certification"
	"github.com/shulehub/shulehub/internal/domain/models"
)

func exams(grades ...string) []models.Exam {
	out := make([]models.Exam, 0, len(grades))
	for i, g := range grades {
		out = append(out, models.Exam{
			Name:       "Exam",
			Grade:      g,
			RecordedAt: time.Now().Add(time.Duration(i) * time.Minute),
		})
	}
	return out
}

func TestGPA(t *testing.T) {
	cases := []struct {
		name   string
		grades []string
		want   float64
	}{
		{"no exams", nil, 0},
		{"single distinction", []string{models.GradeDistinction}, 4.0},
		{"single fail", []string{models.GradeFail}, 0},
		{"merit and credit", []string{models.GradeMerit, models.GradeCredit}, 3.35},
		{"pass fail pass", []string{models.GradePass, models.GradeFail, models.GradePass}, 1.33},
		{"all five", []string{models.GradeDistinction, models.GradeMerit, models.GradeCredit, models.GradePass, models.GradeFail}, 2.54},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := certification.GPA(exams(tc.grades...)); got != tc.want {
				t.Errorf("GPA = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFinalGrade_LastExamWins(t *testing.T) {
	if got := certification.FinalGrade(nil); got != "" {
		t.Errorf("expected empty final grade, got %q", got)
	}
	got := certification.FinalGrade(exams(models.GradeDistinction, models.GradeFail))
	if got != models.GradeFail {
		t.Errorf("final grade = %q, want %q", got, models.GradeFail)
	}
	got = certification.FinalGrade(exams(models.GradeFail, models.GradeMerit))
	if got != models.GradeMerit {
		t.Errorf("final grade = %q, want %q", got, models.GradeMerit)
	}
}

func TestValidGrade(t *testing.T) {
	for _, g := range []string{models.GradeDistinction, models.GradeMerit, models.GradeCredit, models.GradePass, models.GradeFail} {
		if !certification.ValidGrade(g) {
			t.Errorf("expected %q to be valid", g)
		}
	}
	for _, g := range []string{"", "A", "distinction", "Excellent"} {
		if certification.ValidGrade(g) {
			t.Errorf("expected %q to be invalid", g)
		}
	}
}

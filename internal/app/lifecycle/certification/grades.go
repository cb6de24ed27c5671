// internal/app/lifecycle/certification/grades.go
package certification

import (
	"math"

	"github.com/shulehub/shulehub/internal/domain/models"
)

// gradePoints maps an exam grade to its GPA contribution.
var gradePoints = map[string]float64{
	models.GradeDistinction: 4.0,
	models.GradeMerit:       3.7,
	models.GradeCredit:      3.0,
	models.GradePass:        2.0,
	models.GradeFail:        0.0,
}

// ValidGrade reports whether g is a recognized exam grade.
func ValidGrade(g string) bool {
	_, ok := gradePoints[g]
	return ok
}

// GPA averages the grade points over all exams, rounded to two decimals.
// No exams means 0.
func GPA(exams []models.Exam) float64 {
	if len(exams) == 0 {
		return 0
	}
	var sum float64
	for _, e := range exams {
		sum += gradePoints[e.Grade]
	}
	return math.Round(sum/float64(len(exams))*100) / 100
}

// FinalGrade is the grade of the most recently added exam. Exam order in
// the slice is append order, so the last entry wins.
func FinalGrade(exams []models.Exam) string {
	if len(exams) == 0 {
		return ""
	}
	return exams[len(exams)-1].Grade
}

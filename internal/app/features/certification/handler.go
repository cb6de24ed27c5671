// internal/app/features/certification/handler.go

// Package certification exposes exam recording and graduation. The gate
// checks, certificate issue, and student-to-alumni migration live in the
// certification lifecycle service; handlers translate its errors to
// statuses.
package certification

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/shulehub/shulehub/internal/app/lifecycle/certification"
	"github.com/shulehub/shulehub/internal/app/lifecycle/progress"
	groupstore "github.com/shulehub/shulehub/internal/app/store/groups"
	learnerstore "github.com/shulehub/shulehub/internal/app/store/learners"
)

type Handler struct {
	Cert     *certification.Service
	Groups   *groupstore.Store
	Learners *learnerstore.Store
	Progress *progress.Service
	Log      *zap.Logger
}

func NewHandler(cert *certification.Service, groups *groupstore.Store, learners *learnerstore.Store, prog *progress.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Cert:     cert,
		Groups:   groups,
		Learners: learners,
		Progress: prog,
		Log:      logger,
	}
}

// statusFor maps the certification service's sentinel errors to HTTP
// statuses. The four graduation gates return 422: the request is valid
// but the learner is not ready.
var statusFor = map[error]int{
	certification.ErrLearnerNotFound:      http.StatusNotFound,
	certification.ErrGroupNotFound:        http.StatusNotFound,
	certification.ErrExamNotFound:         http.StatusNotFound,
	certification.ErrNotEnrolled:          http.StatusConflict,
	certification.ErrAlreadyGraduated:     http.StatusConflict,
	certification.ErrInvalidGrade:         http.StatusBadRequest,
	certification.ErrIncompleteCoursework: http.StatusUnprocessableEntity,
	certification.ErrPaymentIncomplete:    http.StatusUnprocessableEntity,
	certification.ErrNoExamRecords:        http.StatusUnprocessableEntity,
	certification.ErrFailingGrade:         http.StatusUnprocessableEntity,
}

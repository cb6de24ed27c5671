// internal/app/features/courses/handler.go

// Package courses is the catalog API: public listing plus admin CRUD and
// archiving. Enrollment rosters on course documents are maintained by the
// lifecycle services, never by this feature.
package courses

import (
	"go.uber.org/zap"

	coursestore "github.com/shulehub/shulehub/internal/app/store/courses"
)

type Handler struct {
	Courses *coursestore.Store
	Log     *zap.Logger
}

func NewHandler(courses *coursestore.Store, logger *zap.Logger) *Handler {
	return &Handler{Courses: courses, Log: logger}
}

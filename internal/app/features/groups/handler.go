// internal/app/features/groups/handler.go

// Package groups manages tutor-led cohorts: creating and deleting groups,
// roster membership, and the group's completion report. Roster mutations
// go through the assignment service so every mirrored document stays
// consistent.
package groups

import (
	"go.uber.org/zap"

	"github.com/shulehub/shulehub/internal/app/lifecycle/assignment"
	"github.com/shulehub/shulehub/internal/app/lifecycle/progress"
	coursestore "github.com/shulehub/shulehub/internal/app/store/courses"
	curriculumstore "github.com/shulehub/shulehub/internal/app/store/curricula"
	groupstore "github.com/shulehub/shulehub/internal/app/store/groups"
	tutorstore "github.com/shulehub/shulehub/internal/app/store/tutors"
	"github.com/shulehub/shulehub/internal/app/system/auditlog"
)

type Handler struct {
	Groups     *groupstore.Store
	Tutors     *tutorstore.Store
	Courses    *coursestore.Store
	Curricula  *curriculumstore.Store
	Assignment *assignment.Service
	Progress   *progress.Service
	Audit      *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(groups *groupstore.Store, tutors *tutorstore.Store, courses *coursestore.Store, curricula *curriculumstore.Store, assign *assignment.Service, prog *progress.Service, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Groups:     groups,
		Tutors:     tutors,
		Courses:    courses,
		Curricula:  curricula,
		Assignment: assign,
		Progress:   prog,
		Audit:      auditLog,
		Log:        logger,
	}
}

// internal/app/features/finance/handler.go

// Package finance covers tutor payouts: an overview of what each tutor is
// owed and an endpoint to mark a roster entry settled once the money has
// been sent.
package finance

import (
	"go.uber.org/zap"

	coursestore "github.com/shulehub/shulehub/internal/app/store/courses"
	tutorstore "github.com/shulehub/shulehub/internal/app/store/tutors"
	"github.com/shulehub/shulehub/internal/app/system/auditlog"
)

// tutorShare is the fraction of the course fee paid out to the tutor.
const tutorShare = 0.15

type Handler struct {
	Tutors  *tutorstore.Store
	Courses *coursestore.Store
	Audit   *auditlog.Logger
	Log     *zap.Logger
}

func NewHandler(tutors *tutorstore.Store, courses *coursestore.Store, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Tutors: tutors, Courses: courses, Audit: auditLog, Log: logger}
}

// internal/app/features/tutors/handler.go

// Package tutors is the staff API for managing tutor accounts and reading
// their rosters.
package tutors

import (
	"go.uber.org/zap"

	tutorstore "github.com/shulehub/shulehub/internal/app/store/tutors"
)

type Handler struct {
	Tutors *tutorstore.Store
	Log    *zap.Logger
}

func NewHandler(tutors *tutorstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Tutors: tutors, Log: logger}
}

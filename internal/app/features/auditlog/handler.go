// internal/app/features/auditlog/handler.go

// Package auditlog exposes the audit trail to administrators: who enrolled,
// assigned, graduated or paid, filterable by subject, course, category and
// time range.
package auditlog

import (
	"go.uber.org/zap"

	"github.com/shulehub/shulehub/internal/app/store/audit"
)

type Handler struct {
	Audit *audit.Store
	Log   *zap.Logger
}

func NewHandler(store *audit.Store, logger *zap.Logger) *Handler {
	return &Handler{Audit: store, Log: logger}
}

// internal/app/features/learners/handler.go

// Package learners exposes learner records: admin listing, the signed-in
// learner's own profile, the public alumni directory and alumni
// subscription renewals.
package learners

import (
	"go.uber.org/zap"

	learnerstore "github.com/shulehub/shulehub/internal/app/store/learners"
	paymentstore "github.com/shulehub/shulehub/internal/app/store/payments"
	"github.com/shulehub/shulehub/internal/app/system/auditlog"
)

type Handler struct {
	Learners *learnerstore.Store
	Payments *paymentstore.Store
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(learners *learnerstore.Store, payments *paymentstore.Store, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Learners: learners,
		Payments: payments,
		Audit:    auditLog,
		Log:      logger,
	}
}

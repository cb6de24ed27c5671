// internal/app/features/payments/handler.go

// Package payments fronts the M-Pesa gateway: staff or students trigger an
// STK push, Daraja posts the outcome to the callback endpoint, and the
// confirmed transaction becomes the proof of payment that enrollment and
// subscription renewals consume by id.
package payments

import (
	"go.uber.org/zap"

	paymentstore "github.com/shulehub/shulehub/internal/app/store/payments"
	"github.com/shulehub/shulehub/internal/app/system/auditlog"
	"github.com/shulehub/shulehub/internal/app/system/mpesa"
)

type Handler struct {
	Mpesa    *mpesa.Client
	Payments *paymentstore.Store
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(client *mpesa.Client, payments *paymentstore.Store, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Mpesa: client, Payments: payments, Audit: auditLog, Log: logger}
}

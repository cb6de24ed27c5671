// internal/app/features/applications/handler.go

// Package applications takes admission applications from the public site
// and lets staff review them. Accepting one converts it into a student
// record through the admissions service.
package applications

import (
	"go.uber.org/zap"

	"github.com/shulehub/shulehub/internal/app/lifecycle/admissions"
	applicationstore "github.com/shulehub/shulehub/internal/app/store/applications"
	counterstore "github.com/shulehub/shulehub/internal/app/store/counters"
	"github.com/shulehub/shulehub/internal/app/system/auditlog"
	"github.com/shulehub/shulehub/internal/app/system/mailer"
)

type Handler struct {
	Applications *applicationstore.Store
	Counters     *counterstore.Store
	Admissions   *admissions.Service
	Mail         mailer.Sender
	Audit        *auditlog.Logger
	SiteName     string
	Log          *zap.Logger
}

func NewHandler(applications *applicationstore.Store, counters *counterstore.Store, adm *admissions.Service, mail mailer.Sender, auditLog *auditlog.Logger, siteName string, logger *zap.Logger) *Handler {
	return &Handler{
		Applications: applications,
		Counters:     counters,
		Admissions:   adm,
		Mail:         mail,
		Audit:        auditLog,
		SiteName:     siteName,
		Log:          logger,
	}
}

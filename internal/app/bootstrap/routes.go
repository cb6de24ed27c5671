// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	admissionsfeature "github.com/shulehub/shulehub/internal/app/features/admissions"
	applicationsfeature "github.com/shulehub/shulehub/internal/app/features/applications"
	auditlogfeature "github.com/shulehub/shulehub/internal/app/features/auditlog"
	certificationfeature "github.com/shulehub/shulehub/internal/app/features/certification"
	coursesfeature "github.com/shulehub/shulehub/internal/app/features/courses"
	curriculumfeature "github.com/shulehub/shulehub/internal/app/features/curriculum"
	enrollmentfeature "github.com/shulehub/shulehub/internal/app/features/enrollment"
	financefeature "github.com/shulehub/shulehub/internal/app/features/finance"
	groupsfeature "github.com/shulehub/shulehub/internal/app/features/groups"
	healthfeature "github.com/shulehub/shulehub/internal/app/features/health"
	learnersfeature "github.com/shulehub/shulehub/internal/app/features/learners"
	loginfeature "github.com/shulehub/shulehub/internal/app/features/login"
	paymentsfeature "github.com/shulehub/shulehub/internal/app/features/payments"
	tutorsfeature "github.com/shulehub/shulehub/internal/app/features/tutors"
	"github.com/shulehub/shulehub/internal/app/lifecycle/admissions"
	"github.com/shulehub/shulehub/internal/app/lifecycle/assignment"
	"github.com/shulehub/shulehub/internal/app/lifecycle/certification"
	"github.com/shulehub/shulehub/internal/app/lifecycle/enrollment"
	"github.com/shulehub/shulehub/internal/app/lifecycle/progress"
	applicationstore "github.com/shulehub/shulehub/internal/app/store/applications"
	auditstore "github.com/shulehub/shulehub/internal/app/store/audit"
	counterstore "github.com/shulehub/shulehub/internal/app/store/counters"
	coursestore "github.com/shulehub/shulehub/internal/app/store/courses"
	curriculumstore "github.com/shulehub/shulehub/internal/app/store/curricula"
	groupstore "github.com/shulehub/shulehub/internal/app/store/groups"
	learnerstore "github.com/shulehub/shulehub/internal/app/store/learners"
	paymentstore "github.com/shulehub/shulehub/internal/app/store/payments"
	tutorstore "github.com/shulehub/shulehub/internal/app/store/tutors"
	"github.com/shulehub/shulehub/internal/app/system/auditlog"
	"github.com/shulehub/shulehub/internal/app/system/auth"
	"github.com/shulehub/shulehub/internal/app/system/mailer"
	"github.com/shulehub/shulehub/internal/app/system/mpesa"
	"github.com/shulehub/shulehub/internal/app/system/objstore"
	"github.com/shulehub/shulehub/internal/app/system/ratelimit"
	"github.com/shulehub/shulehub/internal/app/system/txn"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It builds the stores over the shared
// Mongo database, the lifecycle services over the stores, and the feature
// routers over the services, then mounts everything on a chi router.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	verifier := auth.NewVerifier(appCfg.JWTSecret, appCfg.JWTTTL)

	// Stores.
	learners := learnerstore.New(db)
	tutors := tutorstore.New(db)
	courses := coursestore.New(db)
	groups := groupstore.New(db)
	curricula := curriculumstore.New(db)
	applications := applicationstore.New(db)
	counters := counterstore.New(db)
	payments := paymentstore.New(db)
	audits := auditstore.New(db)

	// Shared infrastructure.
	runner := txn.NewRunner(deps.MongoClient)
	auditLog := auditlog.New(audits, logger, auditlog.Config{
		Auth:      appCfg.AuditLogAuth,
		Lifecycle: appCfg.AuditLogLifecycle,
		Finance:   appCfg.AuditLogFinance,
	})
	mail := mailer.New(appCfg.SendGridKey, appCfg.MailFromName, appCfg.MailFrom, logger)
	files, err := objstore.NewLocal(appCfg.StorageLocalPath, appCfg.StorageLocalURL)
	if err != nil {
		logger.Error("object storage init failed", zap.Error(err))
		return nil, err
	}
	mpesaClient := mpesa.New(mpesa.Config{
		Env:            appCfg.MpesaEnv,
		ConsumerKey:    appCfg.MpesaConsumerKey,
		ConsumerSecret: appCfg.MpesaConsumerSecret,
		ShortCode:      appCfg.MpesaShortCode,
		Passkey:        appCfg.MpesaPasskey,
		CallbackURL:    appCfg.MpesaCallbackURL,
	}, logger)

	loginURL := strings.TrimRight(appCfg.BaseURL, "/") + "/login"

	// Lifecycle services.
	admissionsSvc := admissions.NewService(learners, counters, files, mail, auditLog, appCfg.SiteName, loginURL, logger)
	enrollmentSvc := enrollment.NewService(learners, courses, payments, runner, auditLog, logger)
	assignmentSvc := assignment.NewService(learners, tutors, courses, groups, runner, auditLog, logger)
	progressSvc := progress.NewService(groups)
	certificationSvc := certification.NewService(learners, tutors, courses, groups, runner, auditLog, mail, appCfg.SiteName, logger)

	// Feature handlers.
	healthH := healthfeature.NewHandler(deps.MongoClient, logger)
	loginH := loginfeature.NewHandler(learners, tutors, verifier, auditLog, logger)
	coursesH := coursesfeature.NewHandler(courses, logger)
	tutorsH := tutorsfeature.NewHandler(tutors, logger)
	learnersH := learnersfeature.NewHandler(learners, payments, auditLog, logger)
	enrollmentH := enrollmentfeature.NewHandler(enrollmentSvc, logger)
	groupsH := groupsfeature.NewHandler(groups, tutors, courses, curricula, assignmentSvc, progressSvc, auditLog, logger)
	curriculumH := curriculumfeature.NewHandler(curricula, groups, learners, tutors, logger)
	certificationH := certificationfeature.NewHandler(certificationSvc, groups, learners, progressSvc, logger)
	admissionsH := admissionsfeature.NewHandler(admissionsSvc, logger)
	applicationsH := applicationsfeature.NewHandler(applications, counters, admissionsSvc, mail, auditLog, appCfg.SiteName, logger)
	paymentsH := paymentsfeature.NewHandler(mpesaClient, payments, auditLog, logger)
	financeH := financefeature.NewHandler(tutors, courses, auditLog, logger)
	auditlogH := auditlogfeature.NewHandler(audits, logger)

	r := chi.NewRouter()

	// Attaches the bearer-token user (if any) to the request context.
	// Role checks happen inside each feature's routes.
	r.Use(verifier.LoadTokenUser)

	r.Mount("/health", healthfeature.Routes(healthH))
	r.Mount("/auth", loginfeature.Routes(loginH))

	// Public, unauthenticated surfaces. The Daraja callback sits under a
	// path segment that is not advertised anywhere.
	applyLimiter := ratelimit.New(20, time.Minute)
	r.With(applyLimiter.Middleware).Mount("/apply", applicationsfeature.PublicRoutes(applicationsH))
	r.Mount("/alumni", learnersfeature.PublicRoutes(learnersH))
	r.Mount("/"+strings.Trim(appCfg.MpesaCallbackPath, "/"), paymentsfeature.CallbackRoutes(paymentsH))

	r.Mount("/courses", coursesfeature.Routes(coursesH))
	r.Mount("/tutors", tutorsfeature.Routes(tutorsH))
	r.Mount("/learners", learnersfeature.Routes(learnersH))
	r.Mount("/enrollments", enrollmentfeature.Routes(enrollmentH))
	r.Mount("/groups", groupsfeature.Routes(groupsH))
	r.Mount("/curricula", curriculumfeature.TemplateRoutes(curriculumH))
	r.Mount("/group-curriculum", curriculumfeature.GroupRoutes(curriculumH))
	r.Mount("/my/curriculum", curriculumfeature.LearnerRoutes(curriculumH))
	r.Mount("/certification", certificationfeature.Routes(certificationH))
	r.Mount("/admissions", admissionsfeature.Routes(admissionsH))
	r.Mount("/applications", applicationsfeature.Routes(applicationsH))
	r.Mount("/payments", paymentsfeature.Routes(paymentsH))
	r.Mount("/finance", financefeature.Routes(financeH))
	r.Mount("/audit", auditlogfeature.Routes(auditlogH))

	// Serves uploaded profile pictures from local storage.
	r.Handle(appCfg.StorageLocalURL+"/*", http.StripPrefix(appCfg.StorageLocalURL+"/", http.FileServer(http.Dir(appCfg.StorageLocalPath))))

	return r, nil
}

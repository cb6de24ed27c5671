// internal/app/lifecycle/admissions/admissions.go

// Package admissions creates student records outside the self-service
// application flow: staff admitting someone directly, or an accepted
// application being converted. The student gets a sequential admission
// number and a temporary password derived from their phone number.
package admissions

import (
	"context"
	"errors"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	counterstore "github.com/shulehub/shulehub/internal/app/store/counters"
	learnerstore "github.com/shulehub/shulehub/internal/app/store/learners"
	"github.com/shulehub/shulehub/internal/app/system/auditlog"
	"github.com/shulehub/shulehub/internal/app/system/mailer"
	"github.com/shulehub/shulehub/internal/app/system/objstore"
	"github.com/shulehub/shulehub/internal/domain/models"
)

var (
	ErrDuplicateEmail = errors.New("a learner with this email already exists")
	ErrMissingPhone   = errors.New("a phone number is required")
)

// NewStudent is the staff-entered admission form.
type NewStudent struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	IDNumber  string
	DOB       *time.Time

	NextOfKinName         string
	NextOfKinRelationship string
	NextOfKinPhone        string

	ProfilePicture     io.Reader
	ProfilePictureName string
	ProfilePictureType string
}

type Service struct {
	learners *learnerstore.Store
	counters *counterstore.Store
	files    objstore.Store
	mail     mailer.Sender
	audit    *auditlog.Logger
	siteName string
	loginURL string
	log      *zap.Logger
}

func NewService(learners *learnerstore.Store, counters *counterstore.Store, files objstore.Store, mail mailer.Sender, auditLog *auditlog.Logger, siteName, loginURL string, log *zap.Logger) *Service {
	return &Service{
		learners: learners,
		counters: counters,
		files:    files,
		mail:     mail,
		audit:    auditLog,
		siteName: siteName,
		loginURL: loginURL,
		log:      log,
	}
}

// AdmitStudent creates the student record, assigns the next admission
// number and emails the credentials. The initial password is the phone
// number; the learner must change it at first sign-in.
func (s *Service) AdmitStudent(ctx context.Context, actorID primitive.ObjectID, in NewStudent) (models.Learner, error) {
	if in.Phone == "" {
		return models.Learner{}, ErrMissingPhone
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Phone), bcrypt.DefaultCost)
	if err != nil {
		return models.Learner{}, err
	}

	admissionNumber, err := s.counters.NextAdmissionNumber(ctx)
	if err != nil {
		return models.Learner{}, err
	}

	learner := models.Learner{
		FirstName:             in.FirstName,
		LastName:              in.LastName,
		Email:                 in.Email,
		Phone:                 in.Phone,
		IDNumber:              in.IDNumber,
		DOB:                   in.DOB,
		Password:              string(hash),
		AdmissionNumber:       admissionNumber,
		Courses:               []models.CourseEnrollment{},
		NextOfKinName:         in.NextOfKinName,
		NextOfKinRelationship: in.NextOfKinRelationship,
		NextOfKinPhone:        in.NextOfKinPhone,
	}

	if in.ProfilePicture != nil {
		key := objstore.Key("profiles", in.ProfilePictureName)
		url, err := s.files.Put(ctx, key, in.ProfilePicture, in.ProfilePictureType)
		if err != nil {
			s.log.Warn("could not store profile picture", zap.Error(err))
		} else {
			learner.ProfilePicture = &models.StoredImage{URL: url, StorageID: key}
		}
	}

	created, err := s.learners.CreateStudent(ctx, learner)
	if err != nil {
		if errors.Is(err, learnerstore.ErrDuplicateEmail) {
			return models.Learner{}, ErrDuplicateEmail
		}
		return models.Learner{}, err
	}

	s.audit.StudentAdmitted(ctx, actorID, created.ID, admissionNumber)
	s.sendWelcome(created)
	return created, nil
}

// sendWelcome emails the credentials. Failure only logs; the admission
// has already been recorded.
func (s *Service) sendWelcome(learner models.Learner) {
	email := mailer.BuildWelcomeEmail(mailer.WelcomeEmailData{
		SiteName:        s.siteName,
		FirstName:       learner.FirstName,
		AdmissionNumber: learner.AdmissionNumber,
		TempPassword:    learner.Phone,
		LoginURL:        s.loginURL,
	})
	email.To = learner.Email
	email.ToName = learner.FullName()
	if err := s.mail.Send(email); err != nil {
		s.log.Warn("could not send welcome email",
			zap.String("student_id", learner.ID.Hex()),
			zap.Error(err))
	}
}

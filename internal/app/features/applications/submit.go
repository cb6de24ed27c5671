// internal/app/features/applications/submit.go
package applications

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/shulehub/shulehub/internal/app/features/shared/respond"
	"github.com/shulehub/shulehub/internal/app/system/inputval"
	"github.com/shulehub/shulehub/internal/app/system/mailer"
	"github.com/shulehub/shulehub/internal/app/system/normalize"
	"github.com/shulehub/shulehub/internal/domain/models"
)

type submitRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`

	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      string     `json:"gender"`
	Citizenship string     `json:"citizenship"`
	IDNumber    string     `json:"id_number"`

	Qualification      string     `json:"qualification"`
	KCSEGrade          string     `json:"kcse_grade"`
	Course             string     `json:"course"`
	TrainingMode       string     `json:"training_mode"`
	PreferredIntake    string     `json:"preferred_intake"`
	PreferredStartDate *time.Time `json:"preferred_start_date"`

	HowHeardAbout []string `json:"how_heard_about"`
	OtherSource   string   `json:"other_source"`

	FeePayer      string `json:"fee_payer"`
	FeePayerPhone string `json:"fee_payer_phone"`

	NextOfKinName         string `json:"next_of_kin_name"`
	NextOfKinRelationship string `json:"next_of_kin_relationship"`
	NextOfKinPhone        string `json:"next_of_kin_phone"`

	AgreedToTerms bool `json:"agreed_to_terms"`
}

// HandleSubmit handles the public POST /applications. The acknowledgement
// email is best effort; the application stands either way.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	req.FirstName = normalize.Name(req.FirstName)
	req.LastName = normalize.Name(req.LastName)
	req.Email = normalize.Email(req.Email)
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Phone == "" || req.DateOfBirth == nil {
		respond.Error(w, http.StatusBadRequest, "first_name, last_name, email, phone and date_of_birth are required")
		return
	}
	if !inputval.IsValidEmail(req.Email) {
		respond.Error(w, http.StatusBadRequest, "email is not a valid address")
		return
	}
	if !req.AgreedToTerms {
		respond.Error(w, http.StatusBadRequest, "terms must be accepted")
		return
	}

	number, err := h.Counters.NextApplicationNumber(r.Context())
	if err != nil {
		h.Log.Error("application number allocation failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	app := models.Application{
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		Email:                 req.Email,
		Phone:                 req.Phone,
		DateOfBirth:           req.DateOfBirth,
		Gender:                req.Gender,
		Citizenship:           req.Citizenship,
		IDNumber:              req.IDNumber,
		Qualification:         req.Qualification,
		KCSEGrade:             req.KCSEGrade,
		Course:                req.Course,
		TrainingMode:          req.TrainingMode,
		PreferredIntake:       req.PreferredIntake,
		PreferredStartDate:    req.PreferredStartDate,
		HowHeardAbout:         req.HowHeardAbout,
		OtherSource:           req.OtherSource,
		FeePayer:              req.FeePayer,
		FeePayerPhone:         req.FeePayerPhone,
		NextOfKinName:         req.NextOfKinName,
		NextOfKinRelationship: req.NextOfKinRelationship,
		NextOfKinPhone:        req.NextOfKinPhone,
		AgreedToTerms:         true,
		ApplicationNumber:     number,
	}

	created, err := h.Applications.Create(r.Context(), app)
	if err != nil {
		h.Log.Error("application create failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.Audit.ApplicationReceived(r.Context(), r, created.ID, created.ApplicationNumber)

	email := mailer.BuildApplicationReceivedEmail(mailer.ApplicationReceivedData{
		SiteName:          h.SiteName,
		FirstName:         created.FirstName,
		ApplicationNumber: created.ApplicationNumber,
		CourseName:        created.Course,
	})
	email.To = created.Email
	email.ToName = created.FirstName + " " + created.LastName
	if err := h.Mail.Send(email); err != nil {
		h.Log.Warn("application acknowledgement email failed",
			zap.String("application", created.ApplicationNumber), zap.Error(err))
	} else if err := h.Applications.MarkEmailSent(r.Context(), created.ID); err != nil {
		h.Log.Warn("mark email sent failed", zap.Error(err))
	}

	respond.JSON(w, http.StatusCreated, created)
}

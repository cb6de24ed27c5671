// internal/app/features/admissions/handler.go

// Package admissions lets staff admit students directly. The request is
// multipart so an optional profile picture can ride along with the form
// fields.
package admissions

import (
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/shulehub/shulehub/internal/app/features/shared/respond"
	"github.com/shulehub/shulehub/internal/app/lifecycle/admissions"
	"github.com/shulehub/shulehub/internal/app/system/auth"
	"github.com/shulehub/shulehub/internal/app/system/inputval"
	"github.com/shulehub/shulehub/internal/app/system/limits"
	"github.com/shulehub/shulehub/internal/app/system/normalize"
)

type Handler struct {
	Admissions *admissions.Service
	Log        *zap.Logger
}

func NewHandler(svc *admissions.Service, logger *zap.Logger) *Handler {
	return &Handler{Admissions: svc, Log: logger}
}

// HandleAdmit handles POST /admissions as a multipart form: learner
// fields plus an optional profile_picture file part.
func (h *Handler) HandleAdmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(limits.MaxPhotoUpload); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	in := admissions.NewStudent{
		FirstName: r.FormValue("first_name"),
		LastName:  r.FormValue("last_name"),
		Email:     normalize.Email(r.FormValue("email")),
		Phone:     r.FormValue("phone"),
		IDNumber:  r.FormValue("id_number"),

		NextOfKinName:         r.FormValue("next_of_kin_name"),
		NextOfKinRelationship: r.FormValue("next_of_kin_relationship"),
		NextOfKinPhone:        r.FormValue("next_of_kin_phone"),
	}
	if in.FirstName == "" || in.LastName == "" || in.Email == "" {
		respond.Error(w, http.StatusBadRequest, "first_name, last_name and email are required")
		return
	}
	if !inputval.IsValidEmail(in.Email) {
		respond.Error(w, http.StatusBadRequest, "email is not a valid address")
		return
	}
	if raw := r.FormValue("dob"); raw != "" {
		dob, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "dob must be YYYY-MM-DD")
			return
		}
		in.DOB = &dob
	}

	file, header, fileErr := r.FormFile("profile_picture")
	if fileErr == nil {
		defer file.Close()
		in.ProfilePicture = file
		in.ProfilePictureName = header.Filename
		in.ProfilePictureType = header.Header.Get("Content-Type")
	}

	student, err := h.Admissions.AdmitStudent(r.Context(), actorID(r), in)
	if err != nil {
		respond.FromError(w, err, map[error]int{
			admissions.ErrDuplicateEmail: http.StatusConflict,
			admissions.ErrMissingPhone:   http.StatusBadRequest,
		})
		return
	}
	respond.JSON(w, http.StatusCreated, student)
}

func actorID(r *http.Request) primitive.ObjectID {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return primitive.NilObjectID
	}
	id, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return primitive.NilObjectID
	}
	return id
}

// internal/app/features/login/handler.go

// Package login exchanges credentials for a bearer token. Learners
// (students and alumni) and tutors authenticate against their own
// collections; the role in the token drives authorization everywhere else.
package login

import (
	"errors"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/shulehub/shulehub/internal/app/features/shared/respond"
	"github.com/shulehub/shulehub/internal/app/store/audit"
	learnerstore "github.com/shulehub/shulehub/internal/app/store/learners"
	tutorstore "github.com/shulehub/shulehub/internal/app/store/tutors"
	"github.com/shulehub/shulehub/internal/app/system/auditlog"
	"github.com/shulehub/shulehub/internal/app/system/auth"
	"github.com/shulehub/shulehub/internal/app/system/normalize"
	"github.com/shulehub/shulehub/internal/app/system/ratelimit"
)

type Handler struct {
	Learners *learnerstore.Store
	Tutors   *tutorstore.Store
	Verifier *auth.Verifier
	Audit    *auditlog.Logger
	Limits   *ratelimit.LoginLimiter
	Log      *zap.Logger
}

func NewHandler(learners *learnerstore.Store, tutors *tutorstore.Store, verifier *auth.Verifier, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Learners: learners,
		Tutors:   tutors,
		Verifier: verifier,
		Audit:    auditLog,
		Limits:   ratelimit.NewLoginLimiter(),
		Log:      logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	Name  string `json:"name"`
	ID    string `json:"id"`
}

// HandleLogin handles POST /auth/login. Learners are looked up first,
// then tutors. Wrong email and wrong password answer identically.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	req.Email = normalize.Email(req.Email)
	if req.Email == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}
	if allowed, reason := h.Limits.Check(r, req.Email); !allowed {
		respond.Error(w, http.StatusTooManyRequests, reason)
		return
	}

	user, hash, found := h.lookup(r, req.Email)
	failure := ""
	if !found {
		failure = audit.EventLoginFailedUserNotFound
	} else if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		failure = audit.EventLoginFailedWrongPassword
	}
	if failure != "" {
		h.Audit.Log(r.Context(), audit.Event{
			Category:  audit.CategoryAuth,
			EventType: failure,
			Success:   false,
			Details:   map[string]string{"email": req.Email},
		})
		respond.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := h.Verifier.Issue(user)
	if err != nil {
		h.Log.Error("could not sign token", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.Limits.ResetEmail(req.Email)
	h.Audit.Log(r.Context(), audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		Success:   true,
		Details:   map[string]string{"email": req.Email, "role": user.Role},
	})
	respond.JSON(w, http.StatusOK, loginResponse{
		Token: token,
		Role:  user.Role,
		Name:  user.Name,
		ID:    user.ID,
	})
}

// lookup finds the account for an email across learners and tutors.
func (h *Handler) lookup(r *http.Request, email string) (auth.TokenUser, string, bool) {
	learner, err := h.Learners.FindAnyKindByEmail(r.Context(), email)
	if err == nil {
		return auth.TokenUser{
			ID:    learner.ID.Hex(),
			Name:  learner.FullName(),
			Email: learner.Email,
			Role:  auth.RoleStudent,
		}, learner.Password, true
	}
	if !errors.Is(err, learnerstore.ErrNotFound) {
		h.Log.Error("learner lookup failed", zap.Error(err))
		return auth.TokenUser{}, "", false
	}

	tutor, err := h.Tutors.GetByEmail(r.Context(), email)
	if err == nil {
		return auth.TokenUser{
			ID:    tutor.ID.Hex(),
			Name:  tutor.FullName(),
			Email: tutor.Email,
			Role:  auth.RoleTutor,
		}, tutor.Password, true
	}
	if !errors.Is(err, tutorstore.ErrNotFound) {
		h.Log.Error("tutor lookup failed", zap.Error(err))
	}
	return auth.TokenUser{}, "", false
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// HandleChangePassword handles POST /auth/change-password for the signed-in
// learner.
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "sign in required")
		return
	}

	var req changePasswordRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	if len(req.NewPassword) < 8 {
		respond.Error(w, http.StatusBadRequest, "new password must be at least 8 characters")
		return
	}

	learner, err := h.Learners.FindAnyKindByEmail(r.Context(), user.Email)
	if err != nil {
		respond.Error(w, http.StatusNotFound, "account not found")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(learner.Password), []byte(req.CurrentPassword)); err != nil {
		respond.Error(w, http.StatusUnauthorized, "current password is incorrect")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := h.Learners.UpdatePassword(r.Context(), learner.Kind, learner.ID, string(hash)); err != nil {
		h.Log.Error("could not update password", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "password changed"})
}

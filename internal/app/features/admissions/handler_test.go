package admissions_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	feature "github.com/shulehub/shulehub/internal/app/features/admissions"
	"github.com/shulehub/shulehub/internal/app/lifecycle/admissions"
	"github.com/shulehub/shulehub/internal/app/store/audit"
	counterstore "github.com/shulehub/shulehub/internal/app/store/counters"
	learnerstore "github.com/shulehub/shulehub/internal/app/store/learners"
	"github.com/shulehub/shulehub/internal/app/system/auditlog"
	"github.com/shulehub/shulehub/internal/app/system/objstore"
	"github.com/shulehub/shulehub/internal/domain/models"
	"github.com/shulehub/shulehub/internal/testutil"
)

func newTestHandler(t *testing.T) (*feature.Handler, *testutil.FakeMailer, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{})
	mail := &testutil.FakeMailer{}
	files, err := objstore.NewLocal(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("objstore setup failed: %v", err)
	}
	svc := admissions.NewService(
		learnerstore.New(db),
		counterstore.New(db),
		files,
		mail,
		auditLog,
		"ShuleHub",
		"https://portal.example.com/login",
		logger,
	)
	return feature.NewHandler(svc, logger), mail, db
}

func multipartRequest(t *testing.T, fields map[string]string, picture []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if picture != nil {
		part, err := mw.CreateFormFile("profile_picture", "amina.jpg")
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		if _, err := part.Write(picture); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/admissions", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return testutil.WithUser(req, testutil.AdminUser())
}

func TestHandleAdmit(t *testing.T) {
	h, mail, _ := newTestHandler(t)

	req := multipartRequest(t, map[string]string{
		"first_name": "Amina",
		"last_name":  "Otieno",
		"email":      "amina@example.com",
		"phone":      "254712345678",
		"dob":        "1999-04-12",
	}, []byte("fake-jpeg-bytes"))
	rec := httptest.NewRecorder()
	h.HandleAdmit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var student models.Learner
	testutil.DecodeJSON(t, rec, &student)
	if student.AdmissionNumber != "ZOE-1" {
		t.Errorf("admission number = %q, want ZOE-1", student.AdmissionNumber)
	}
	if student.ProfilePicture == nil || student.ProfilePicture.URL == "" {
		t.Error("profile picture not stored")
	}
	if student.DOB == nil {
		t.Error("dob not recorded")
	}

	msg, ok := mail.Last()
	if !ok {
		t.Fatal("welcome email not sent")
	}
	if msg.To != "amina@example.com" || !strings.Contains(msg.TextBody, "ZOE-1") {
		t.Errorf("welcome email = %+v", msg)
	}
}

func TestHandleAdmit_Validation(t *testing.T) {
	h, _, _ := newTestHandler(t)

	// Missing email.
	req := multipartRequest(t, map[string]string{
		"first_name": "Amina",
		"last_name":  "Otieno",
		"phone":      "254712345678",
	}, nil)
	rec := httptest.NewRecorder()
	h.HandleAdmit(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing email expected 400, got %d", rec.Code)
	}

	// Missing phone surfaces from the service.
	req = multipartRequest(t, map[string]string{
		"first_name": "Amina",
		"last_name":  "Otieno",
		"email":      "amina@example.com",
	}, nil)
	rec = httptest.NewRecorder()
	h.HandleAdmit(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing phone expected 400, got %d", rec.Code)
	}
}

package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shulehub/shulehub/internal/testutil"
)

func testAppConfig(t *testing.T) AppConfig {
	t.Helper()
	return AppConfig{
		MongoDatabase:     "shulehub_test",
		JWTSecret:         "test-secret-0123456789ABCDEF",
		JWTTTL:            time.Hour,
		MailFrom:          "noreply@test.local",
		MailFromName:      "ShuleHub Test",
		SiteName:          "ShuleHub",
		BaseURL:           "http://localhost:3000",
		StorageLocalPath:  t.TempDir(),
		StorageLocalURL:   "/files/profiles",
		MpesaEnv:          "sandbox",
		MpesaCallbackPath: "mpesa-result",
		AuditLogAuth:      "log",
		AuditLogLifecycle: "log",
		AuditLogFinance:   "log",
	}
}

func TestBuildHandler_Routing(t *testing.T) {
	db := testutil.SetupTestDB(t)

	deps := DBDeps{MongoClient: db.Client(), MongoDatabase: db}
	h, err := BuildHandler(&config.CoreConfig{}, testAppConfig(t), deps, zap.NewNop())
	require.NoError(t, err)

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/alumni/directory", http.StatusOK},
		{http.MethodGet, "/courses/", http.StatusOK},
		{http.MethodGet, "/learners/", http.StatusUnauthorized},
		{http.MethodGet, "/groups/", http.StatusUnauthorized},
		{http.MethodGet, "/applications/", http.StatusUnauthorized},
		{http.MethodGet, "/finance/tutors", http.StatusUnauthorized},
		{http.MethodGet, "/audit/", http.StatusUnauthorized},
		{http.MethodGet, "/no-such-route", http.StatusNotFound},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, tc.want, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestValidateConfig(t *testing.T) {
	logger := zap.NewNop()

	good := testAppConfig(t)
	good.MongoURI = "mongodb://localhost:27017"
	assert.NoError(t, ValidateConfig(&config.CoreConfig{Env: "dev"}, good, logger))

	badURI := good
	badURI.MongoURI = "postgres://nope"
	assert.Error(t, ValidateConfig(&config.CoreConfig{Env: "dev"}, badURI, logger), "non-mongodb URI should be rejected")

	badEnv := good
	badEnv.MpesaEnv = "staging"
	assert.Error(t, ValidateConfig(&config.CoreConfig{Env: "dev"}, badEnv, logger), "unknown mpesa environment should be rejected")

	prodDefault := good
	prodDefault.JWTSecret = "dev-only-change-me-please-0123456789ABCDEF"
	assert.Error(t, ValidateConfig(&config.CoreConfig{Env: "prod"}, prodDefault, logger), "default jwt secret must not pass in prod")
}

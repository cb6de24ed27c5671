package auditlog_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/shulehub/shulehub/internal/app/features/auditlog"
	"github.com/shulehub/shulehub/internal/app/store/audit"
	"github.com/shulehub/shulehub/internal/testutil"
)

func newTestHandler(t *testing.T) (*auditlog.Handler, *audit.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	return auditlog.NewHandler(store, zap.NewNop()), store
}

func listEvents(t *testing.T, h *auditlog.Handler, query string) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.NewRequest("GET", "/audit"+query)
	req = testutil.WithUser(req, testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.HandleList(rec, req)
	return rec
}

type listResponse struct {
	Events []struct {
		EventType string              `json:"event_type"`
		Category  string              `json:"category"`
		SubjectID *primitive.ObjectID `json:"subject_id"`
		Details   map[string]string   `json:"details"`
	} `json:"events"`
	Total int64 `json:"total"`
}

func TestHandleList(t *testing.T) {
	h, store := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	studentID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()
	seed := []audit.Event{
		{Category: audit.CategoryLifecycle, EventType: audit.EventStudentEnrolled, SubjectID: &studentID, Success: true},
		{Category: audit.CategoryLifecycle, EventType: audit.EventStudentGraduated, SubjectID: &studentID, Success: true},
		{Category: audit.CategoryLifecycle, EventType: audit.EventStudentEnrolled, SubjectID: &otherID, Success: true},
		{Category: audit.CategoryFinance, EventType: audit.EventPaymentRecorded, Success: true,
			Details: map[string]string{"transaction_id": "NLJ7RT61SV"}},
	}
	for _, e := range seed {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	rec := listEvents(t, h, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var all listResponse
	testutil.DecodeJSON(t, rec, &all)
	if all.Total != 4 || len(all.Events) != 4 {
		t.Errorf("unfiltered: total=%d events=%d", all.Total, len(all.Events))
	}

	rec = listEvents(t, h, "?subject_id="+studentID.Hex())
	var bySubject listResponse
	testutil.DecodeJSON(t, rec, &bySubject)
	if bySubject.Total != 2 {
		t.Errorf("by subject: total=%d, want 2", bySubject.Total)
	}
	for _, e := range bySubject.Events {
		if e.SubjectID == nil || *e.SubjectID != studentID {
			t.Errorf("unexpected subject in %+v", e)
		}
	}

	rec = listEvents(t, h, "?category="+audit.CategoryFinance)
	var finance listResponse
	testutil.DecodeJSON(t, rec, &finance)
	if finance.Total != 1 || finance.Events[0].Details["transaction_id"] != "NLJ7RT61SV" {
		t.Errorf("finance filter: %+v", finance)
	}

	rec = listEvents(t, h, "?event_type="+audit.EventStudentEnrolled)
	var enrolled listResponse
	testutil.DecodeJSON(t, rec, &enrolled)
	if enrolled.Total != 2 {
		t.Errorf("event_type filter: total=%d, want 2", enrolled.Total)
	}
}

func TestHandleList_Pagination(t *testing.T) {
	h, store := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		e := audit.Event{
			Category:  audit.CategoryLifecycle,
			EventType: audit.EventStudentEnrolled,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Success:   true,
		}
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	rec := listEvents(t, h, "?limit=2&offset=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var page listResponse
	testutil.DecodeJSON(t, rec, &page)
	if len(page.Events) != 2 {
		t.Errorf("page size = %d, want 2", len(page.Events))
	}
	if page.Total != 5 {
		t.Errorf("total = %d, want 5", page.Total)
	}
}

func TestHandleList_BadParams(t *testing.T) {
	h, _ := newTestHandler(t)

	for _, q := range []string{"?subject_id=nope", "?start=yesterday", "?limit=0", "?offset=-1"} {
		if rec := listEvents(t, h, q); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", q, rec.Code)
		}
	}
}

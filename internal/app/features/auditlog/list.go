// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/shulehub/shulehub/internal/app/features/shared/respond"
	"github.com/shulehub/shulehub/internal/app/store/audit"
)

const defaultLimit = 50

// HandleList handles GET /audit. Filters arrive as query parameters:
// subject_id, course_id, category, event_type, start, end (RFC 3339),
// limit and offset.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := audit.QueryFilter{
		Category:  q.Get("category"),
		EventType: q.Get("event_type"),
		Limit:     defaultLimit,
	}

	if raw := q.Get("subject_id"); raw != "" {
		id, ok := respond.ObjectID(w, raw)
		if !ok {
			return
		}
		filter.SubjectID = &id
	}
	if raw := q.Get("course_id"); raw != "" {
		id, ok := respond.ObjectID(w, raw)
		if !ok {
			return
		}
		filter.CourseID = &id
	}
	if raw := q.Get("start"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "start must be RFC 3339")
			return
		}
		filter.StartTime = &ts
	}
	if raw := q.Get("end"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "end must be RFC 3339")
			return
		}
		filter.EndTime = &ts
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 || n > 500 {
			respond.Error(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		filter.Limit = n
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			respond.Error(w, http.StatusBadRequest, "offset must be non-negative")
			return
		}
		filter.Offset = n
	}

	events, err := h.Audit.Query(r.Context(), filter)
	if err != nil {
		h.Log.Error("audit query failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to query audit events")
		return
	}
	total, err := h.Audit.Count(r.Context(), filter)
	if err != nil {
		h.Log.Error("audit count failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to query audit events")
		return
	}

	out := make([]event, 0, len(events))
	for _, e := range events {
		out = append(out, toEvent(e))
	}
	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"events": out,
		"total":  total,
	})
}

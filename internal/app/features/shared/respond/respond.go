// internal/app/features/shared/respond/respond.go

// Package respond writes the API's JSON envelopes. Every handler goes
// through these helpers so errors always look the same on the wire.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shulehub/shulehub/internal/app/system/limits"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes {"error": msg}.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

// Decode reads the request body into v. Returns false after writing a 400
// when the body is not valid JSON or exceeds the size cap.
func Decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, limits.MaxJSONBody)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// ObjectID parses a hex id from a URL parameter. Returns false after
// writing a 400 for a malformed id.
func ObjectID(w http.ResponseWriter, raw string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid id")
		return primitive.NilObjectID, false
	}
	return id, true
}

// FromError translates store and service sentinels to statuses:
//
//	respond.FromError(w, err, map[error]int{store.ErrNotFound: 404})
//
// Unmapped errors become a 500 with a generic message.
func FromError(w http.ResponseWriter, err error, statuses map[error]int) {
	for sentinel, status := range statuses {
		if errors.Is(err, sentinel) {
			Error(w, status, sentinel.Error())
			return
		}
	}
	Error(w, http.StatusInternalServerError, "internal error")
}

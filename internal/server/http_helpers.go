package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

func readJSON(body io.Reader, dest any) error {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotGameMaster):
		return http.StatusForbidden
	case errors.Is(err, ErrNotAParticipant),
		errors.Is(err, ErrNotAnImposter),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrRoundCompleted),
		errors.Is(err, ErrStorageConflict):
		return http.StatusConflict
	}
	return http.StatusBadRequest
}

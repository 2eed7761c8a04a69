package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// statusResponse is the envelope every mutating endpoint answers with.
type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "success"})
}

func writeError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "error", Message: message})
}

func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

// internal/api/response.go
package api

import (
	"encoding/json"
	"net/http"
)

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithJobError reports a failed invocation along with whatever it got done.
func respondWithJobError(w http.ResponseWriter, err error, partial any) {
	respondWithJSON(w, http.StatusInternalServerError, map[string]any{
		"error":   err.Error(),
		"summary": partial,
	})
}

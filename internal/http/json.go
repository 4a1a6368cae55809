package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"
)

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// errorBody is the JSON error shape returned on 400 and 500 responses.
type errorBody struct {
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

// WriteError writes a JSON error response with the message and current time.
func WriteError(w http.ResponseWriter, code int, message string) {
	WriteJSON(w, code, errorBody{Error: message, Timestamp: time.Now().UTC()})
}

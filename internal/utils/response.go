package utils

import (
	"encoding/json"
	"log"
	"net/http"
)

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// ErrorBody is the JSON envelope for failures. Kind is a stable
// machine-readable identifier; Message is for display.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// WriteError writes a structured JSON error response
func WriteError(w http.ResponseWriter, status int, kind, message string) {
	WriteJSON(w, status, map[string]ErrorBody{
		"error": {Kind: kind, Message: message},
	})
}

package pkg

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

var ContentType = struct {
	JSON string
	Text string
}{
	JSON: "application/json",
	Text: "text/plain",
}

func WriteResponse(w http.ResponseWriter, contentType, message string, statusCode int) {
	WriteResponseBytes(w, contentType, []byte(message), statusCode)
}

func WriteResponseBytes(w http.ResponseWriter, contentType string, message []byte, statusCode int) {
	if contentType != "" {
		w.Header().Add("Content-Type", contentType)
	}

	w.WriteHeader(statusCode)

	if _, err := w.Write(message); err != nil {
		log.Errorf("failed to write response [%s]: %s", message, err)
	}
}

func WriteResponseBytesOK(w http.ResponseWriter, contentType string, message []byte) {
	WriteResponseBytes(w, contentType, message, http.StatusOK)
}

func WriteTextResponseOK(w http.ResponseWriter, message string) {
	WriteResponseBytes(w, ContentType.Text, []byte(message), http.StatusOK)
}

func WriteJSONResponseOK(w http.ResponseWriter, message string) {
	WriteResponseBytes(w, ContentType.JSON, []byte(message), http.StatusOK)
}

// ErrorResponse is the JSON body for every non-2xx response. Fields carries
// per-field validation messages when the failure is tied to input fields.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func WriteError(w http.ResponseWriter, statusCode int, message string) {
	writeErrorResponse(w, statusCode, ErrorResponse{Error: message})
}

func WriteFieldErrors(w http.ResponseWriter, statusCode int, fields map[string]string) {
	writeErrorResponse(w, statusCode, ErrorResponse{
		Error:  "validation failed",
		Fields: fields,
	})
}

func writeErrorResponse(w http.ResponseWriter, statusCode int, errResp ErrorResponse) {
	respJson, err := json.Marshal(errResp)
	if err != nil {
		log.Errorf("failed to marshal error response [%s]: %s", errResp.Error, err)
		http.Error(w, errResp.Error, statusCode)
		return
	}
	WriteResponseBytes(w, ContentType.JSON, respJson, statusCode)
}

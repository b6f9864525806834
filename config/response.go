package config

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/linesmerrill/studio-api/models"
)

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	body := models.ErrorMessageResponse{Success: false, Error: message}
	if err != nil {
		body.Details = err.Error()
		zap.S().With(zap.Error(err)).Errorw(message, "status", httpStatusCode)
	} else {
		zap.S().Warnw(message, "status", httpStatusCode)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteJSON writes data inside the success envelope
func WriteJSON(w http.ResponseWriter, httpStatusCode int, data interface{}) {
	writeEnvelope(w, httpStatusCode, models.Envelope{Success: true, Data: data})
}

// WritePage writes a page of data with its pagination block
func WritePage(w http.ResponseWriter, data interface{}, p models.Pagination) {
	writeEnvelope(w, http.StatusOK, models.Envelope{Success: true, Data: data, Pagination: &p})
}

func writeEnvelope(w http.ResponseWriter, httpStatusCode int, e models.Envelope) {
	b, err := json.Marshal(e)
	if err != nil {
		ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	_, _ = w.Write(b)
}

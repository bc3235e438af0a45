package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope wraps every API response.
type Envelope struct {
	Status string      `json:"status"`
	Code   int         `json:"code"`
	Data   interface{} `json:"data"`
}

func Success(data interface{}) Envelope {
	return Envelope{Status: StatusSuccess, Code: http.StatusOK, Data: data}
}

func Failure(code int, message string) Envelope {
	if code == 0 {
		code = http.StatusInternalServerError
	}
	return Envelope{Status: StatusError, Code: code, Data: message}
}

// WriteEnvelope encodes env as the whole response body. The transport status
// is 200 unless mirrorStatus is set, in which case it follows env.Code.
func WriteEnvelope(w http.ResponseWriter, env Envelope, mirrorStatus bool, logger *slog.Logger) {
	status := http.StatusOK
	if mirrorStatus {
		status = env.Code
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil && logger != nil {
		logger.Error("failed to encode response envelope", "error", err)
	}
}

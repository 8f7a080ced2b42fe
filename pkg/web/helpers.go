package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrBody is the error envelope every failing endpoint returns.
type ErrBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errResponse struct {
	Err ErrBody `json:"err"`
}

func RespondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	// Handle nil payload
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error encoding response to JSON", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

// RespondError writes the {"err": {"code", "message"}} envelope.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, code, message string) {
	RespondJSON(w, logger, status, errResponse{Err: ErrBody{Code: code, Message: message}})
}

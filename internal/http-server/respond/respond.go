package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"dealfinder/internal/domain/models"
)

type ErrorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func WriteInternalError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func WriteError(w http.ResponseWriter, status int, code, msg string) {
	var b ErrorBody
	b.Error.Code = code
	b.Error.Message = msg
	WriteJSON(w, status, b)
}

func WriteBadRequest(w http.ResponseWriter, msg string) {
	WriteError(w, http.StatusBadRequest, "bad_request", msg)
}

// WriteDomainError maps domain sentinels to statuses. Anything unknown is
// logged and answered with 500.
func WriteDomainError(w http.ResponseWriter, log *slog.Logger, err error, attrs ...any) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, models.ErrInvalidQuantity):
		WriteBadRequest(w, err.Error())
	default:
		log.Error("request failed", append([]any{"err", err}, attrs...)...)
		WriteInternalError(w)
	}
}

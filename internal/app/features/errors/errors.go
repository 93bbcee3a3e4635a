// internal/app/features/errors/errors.go
package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/dalemusser/shoppingo/internal/app/lists"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Codes used outside the list service.
const (
	CodeInternal         = "internal"
	CodeNotFound         = "not_found"
	CodeMethodNotAllowed = "method_not_allowed"
)

// MsgInternal is the only text a client sees for unexpected failures.
const MsgInternal = "Internal server error"

// body is the JSON shape of every error response.
type body struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes {error, code} with the given status.
func WriteError(w http.ResponseWriter, status int, code, msg string) {
	WriteJSON(w, status, body{Error: msg, Code: code})
}

// ErrorLogger turns handler errors into JSON responses and logs the ones a
// client cannot act on.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// Write responds for err. Service errors keep their message and advisory
// status. Anything else becomes a 500 whose details stay in the log.
func (e *ErrorLogger) Write(w http.ResponseWriter, r *http.Request, op string, err error) {
	var se *lists.Error
	if stderrors.As(err, &se) {
		if se.Status() >= http.StatusInternalServerError {
			e.log.Warn("request failed",
				zap.String("op", op),
				zap.String("code", se.Code()),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.Error(err))
		}
		WriteError(w, se.Status(), se.Code(), se.Message)
		return
	}

	e.log.Error("request failed",
		zap.String("op", op),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err))
	WriteError(w, http.StatusInternalServerError, CodeInternal, MsgInternal)
}

// Handler serves router-level error responses.
// No dependencies; it only writes JSON.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// NotFound is installed as the router's NotFound handler.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusNotFound, CodeNotFound, "Not found")
}

// MethodNotAllowed is installed as the router's MethodNotAllowed handler.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "Method not allowed")
}

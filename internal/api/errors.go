package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MJE43/game-arena/internal/arena"
	"github.com/MJE43/game-arena/internal/games"
	"github.com/MJE43/game-arena/internal/store"
)

// ErrorBuilder helps construct structured errors with context
type ErrorBuilder struct {
	errType   string
	message   string
	context   map[string]any
	requestID string
}

// NewError creates a new error builder
func NewError(errType, message string) *ErrorBuilder {
	return &ErrorBuilder{
		errType: errType,
		message: message,
		context: make(map[string]any),
	}
}

// WithContext adds context information to the error
func (eb *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	eb.context[key] = value
	return eb
}

// WithRequestID adds request ID to the error
func (eb *ErrorBuilder) WithRequestID(requestID string) *ErrorBuilder {
	eb.requestID = requestID
	return eb
}

// Build creates the final EngineError
func (eb *ErrorBuilder) Build() EngineError {
	return EngineError{
		Type:      eb.errType,
		Message:   eb.message,
		Context:   eb.context,
		RequestID: eb.requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// ErrorHandler provides centralized error handling with logging
type ErrorHandler struct {
	logger *log.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *log.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// classify maps domain errors onto an HTTP status and error type.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, games.ErrGameNotFound):
		return http.StatusNotFound, ErrTypeGameNotFound
	case errors.Is(err, games.ErrActorNotFound):
		return http.StatusNotFound, ErrTypeActorNotFound
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, ErrTypeTournamentNotFound
	case errors.Is(err, games.ErrScript), errors.Is(err, games.ErrNotScriptable):
		return http.StatusBadRequest, ErrTypeScript
	case arena.IsInvalidAction(err):
		return http.StatusUnprocessableEntity, ErrTypeInvalidAction
	case arena.IsActorFailure(err):
		return http.StatusUnprocessableEntity, ErrTypeActorFailure
	case errors.Is(err, arena.ErrTurnLimit):
		return http.StatusUnprocessableEntity, ErrTypeTurnLimit
	case errors.Is(err, arena.ErrPlayerCount),
		errors.Is(err, arena.ErrNoActors),
		errors.Is(err, arena.ErrInvalidRepetitions),
		errors.Is(err, arena.ErrDuplicateActorName),
		errors.Is(err, arena.ErrNotTwoPlayer):
		return http.StatusBadRequest, ErrTypeValidation
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout, ErrTypeTimeout
	default:
		return http.StatusInternalServerError, ErrTypeInternal
	}
}

// HandleError processes an error and writes appropriate HTTP response
func (eh *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetReqID(r.Context())

	var engineErr EngineError
	status := http.StatusInternalServerError
	if errors.As(err, &engineErr) {
		eh.logError(r, engineErr, status)
		eh.writeErrorResponse(w, status, engineErr)
		return
	}

	status, errType := classify(err)
	eb := NewError(errType, err.Error()).
		WithRequestID(requestID).
		WithContext("path", r.URL.Path).
		WithContext("method", r.Method)

	var te *arena.TournamentError
	if errors.As(err, &te) {
		eb.WithContext("first", te.First).
			WithContext("second", te.Second).
			WithContext("repetition", te.Repetition)
	}
	var me *arena.MatchError
	if errors.As(err, &me) {
		eb.WithContext("turn", me.Turn).WithContext("slot", me.Slot)
	}

	engineErr = eb.Build()
	eh.logError(r, engineErr, status)
	eh.writeErrorResponse(w, status, engineErr)
}

// HandleValidationError handles validation-specific errors
func (eh *ErrorHandler) HandleValidationError(w http.ResponseWriter, r *http.Request, field, message string) {
	requestID := middleware.GetReqID(r.Context())

	engineErr := NewError(ErrTypeValidation, fmt.Sprintf("Validation failed: %s", message)).
		WithRequestID(requestID).
		WithContext("field", field).
		WithContext("path", r.URL.Path).
		WithContext("method", r.Method).
		Build()

	eh.logError(r, engineErr, http.StatusBadRequest)
	eh.writeErrorResponse(w, http.StatusBadRequest, engineErr)
}

// logError logs the error with appropriate level and context
func (eh *ErrorHandler) logError(r *http.Request, engineErr EngineError, status int) {
	category := GetErrorCategory(engineErr.Type)

	logLevel := "ERROR"
	if status < 500 {
		logLevel = "WARN"
	}

	eh.logger.Printf(
		"error_occurred level=%s type=%s category=%s status=%d request_id=%s path=%s message=%q",
		logLevel, engineErr.Type, category, status, engineErr.RequestID, r.URL.Path, engineErr.Message,
	)
}

// writeErrorResponse writes the error response as JSON
func (eh *ErrorHandler) writeErrorResponse(w http.ResponseWriter, status int, engineErr EngineError) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Engine-Version", EngineVersion)
	w.Header().Set("X-Error-Type", engineErr.Type)
	w.Header().Set("X-Error-Category", string(GetErrorCategory(engineErr.Type)))
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(engineErr); err != nil {
		eh.logger.Printf("error_encode_failed request_id=%s err=%v", engineErr.RequestID, err)
	}
}

// RecoveryHandler provides panic recovery with structured error logging
func (eh *ErrorHandler) RecoveryHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				requestID := middleware.GetReqID(r.Context())

				eh.logger.Printf(
					"panic_recovered request_id=%s path=%s method=%s panic=%v",
					requestID, r.URL.Path, r.Method, rvr,
				)

				engineErr := NewError(ErrTypeInternal, "Internal server error").
					WithRequestID(requestID).
					WithContext("panic", fmt.Sprintf("%v", rvr)).
					WithContext("path", r.URL.Path).
					WithContext("method", r.Method).
					Build()

				eh.writeErrorResponse(w, http.StatusInternalServerError, engineErr)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"interviewprep/apperr"
	"interviewprep/auth"
)

const maxBodyBytes = 1 << 20

const generationFailedMessage = "generation failed, please try again"

// errorKinds maps each error kind to its status and wire name, in match order.
var errorKinds = []struct {
	err    error
	status int
	kind   string
}{
	{apperr.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{apperr.ErrForbidden, http.StatusForbidden, "forbidden"},
	{apperr.ErrNotFound, http.StatusNotFound, "not_found"},
	{apperr.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{apperr.ErrConflict, http.StatusConflict, "conflict"},
	{apperr.ErrGenerationUnavailable, http.StatusServiceUnavailable, "generation_unavailable"},
	{apperr.ErrMalformedGenerationOutput, http.StatusBadGateway, "malformed_generation_output"},
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[ERROR] Failed to encode response: %v", err)
	}
}

func writeErrorResponse(w http.ResponseWriter, statusCode int, kind, message string) {
	writeJSONResponse(w, statusCode, errorResponse{Error: kind, Message: message})
}

// writeServiceError renders err by kind. Generation failures and unknown
// errors get fixed messages so provider output and internals never reach
// the client.
func writeServiceError(w http.ResponseWriter, err error) {
	for _, k := range errorKinds {
		if !errors.Is(err, k.err) {
			continue
		}
		message := err.Error()
		if apperr.IsGeneration(err) {
			message = generationFailedMessage
		}
		writeErrorResponse(w, k.status, k.kind, message)
		return
	}

	log.Printf("[ERROR] Unhandled service error: %v", err)
	writeErrorResponse(w, http.StatusInternalServerError, "internal", "internal server error")
}

// decodeJSON reads a JSON body of at most maxBodyBytes into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: request body too large", apperr.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid JSON payload", apperr.ErrInvalidInput)
	}
	return nil
}

// decodeOptionalJSON is decodeJSON for routes whose body may be omitted.
// An empty body leaves v at its zero value.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: request body too large", apperr.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid JSON payload", apperr.ErrInvalidInput)
	}
	return nil
}

func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "unauthorized", "missing or invalid authorization")
	}
	return userID, ok
}

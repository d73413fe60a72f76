package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"mission-quiz-service/internal/domain"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, errorResponse{Message: message})
}

// writeServiceError maps domain errors to status codes. Unrecognized errors
// are logged and answered with a generic message.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFound   *domain.NotFoundError
		conflict   *domain.ConflictError
		validation *domain.ValidationError
	)
	switch {
	case errors.As(err, &notFound):
		writeMessage(w, http.StatusNotFound, capitalize(notFound.Entity)+" not found")
	case errors.As(err, &conflict):
		writeMessage(w, http.StatusConflict, capitalize(conflict.Field)+" already exists")
	case errors.As(err, &validation):
		writeMessage(w, http.StatusBadRequest, validation.Error())
	default:
		log.Printf("%s %s failed: %v", r.Method, r.URL.Path, err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON reads a single JSON object into dst and runs struct validation.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return domain.Invalid("", "invalid request body")
	}
	if err := requestValidate.Struct(dst); err != nil {
		return domain.Invalid("", validationMessage(err))
	}
	return nil
}

// parseLimitParam accepts an integer in [0, maxValue]; an empty value yields defaultValue.
func parseLimitParam(r *http.Request, key string, defaultValue, maxValue int) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 || parsed > maxValue {
		return 0, domain.Invalid(key, fmt.Sprintf("must be an integer between 0 and %d", maxValue))
	}
	return parsed, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

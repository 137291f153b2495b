package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/zatekoja/campushub/internal/application/services"
	"github.com/zatekoja/campushub/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/campushub/pkg/errors"
)

const maxBodyBytes = 1 << 20

// errorResponse is the body of every non-2xx reply
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, errorResponse{Error: message})
}

// respondWithAppError maps err to a status and writes its user-facing text
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := errorResponse{Error: apperrors.UserMessage(err)}
	if appErr, ok := apperrors.As(err); ok {
		body.Field = appErr.Field
	}

	if status >= http.StatusInternalServerError {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	respondWithJSON(w, status, body)
}

func statusFor(err error) int {
	if errors.Is(err, services.ErrSubmitInProgress) || errors.Is(err, services.ErrFormClosed) {
		return http.StatusConflict
	}
	appErr, ok := apperrors.As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Type {
	case apperrors.ErrorTypeValidation:
		return http.StatusBadRequest
	case apperrors.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case apperrors.ErrorTypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeDraft reads a flat JSON object into raw form values. Strings are
// taken verbatim, null is blank and anything else keeps its JSON text.
func decodeDraft(w http.ResponseWriter, r *http.Request) (map[string]string, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&raw); err != nil {
		return nil, apperrors.NewValidationError("request body must be a JSON object")
	}

	fields := make(map[string]string, len(raw))
	for name, value := range raw {
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			s = string(value)
		}
		fields[name] = s
	}
	return fields, nil
}

type fieldUpdater interface {
	UpdateField(name, value string) error
}

// applyDraft writes fields into form in name order so the first unknown
// field reported is stable.
func applyDraft(form fieldUpdater, fields map[string]string) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := form.UpdateField(name, fields[name]); err != nil {
			return err
		}
	}
	return nil
}

func queryInt(r *http.Request, key string, def int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(key)); err == nil && v > 0 {
		return v
	}
	return def
}

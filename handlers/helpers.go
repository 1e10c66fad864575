package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/courtline/league-system/scoring"
	"github.com/courtline/league-system/services"
	"github.com/go-chi/chi/v5"
)

type jsonResponse map[string]interface{}

var errMissingToken = errors.New("missing token in URL path")

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	if err = dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	if err := writeJSON(w, status, env, nil); err != nil {
		slog.Error("failed to write error response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal server error", "method", r.Method, "path", r.URL.Path, "error", err)
	errorResponse(w, r, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func notFoundResponse(w http.ResponseWriter, r *http.Request) {
	errorResponse(w, r, http.StatusNotFound, "the requested resource could not be found")
}

func conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusConflict, message)
}

func unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusUnauthorized, message)
}

func forbiddenResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusForbidden, message)
}

func unprocessableResponse(w http.ResponseWriter, r *http.Request, message interface{}) {
	errorResponse(w, r, http.StatusUnprocessableEntity, message)
}

// mapServiceErrorToHTTP translates service sentinels and scoring rule errors
// into HTTP responses. Anything unrecognized is a 500.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	// Set-level rule violations surface as 422 with the offending set.
	var validationErr *scoring.ValidationError
	if errors.As(err, &validationErr) {
		unprocessableResponse(w, r, jsonResponse{
			"set":     validationErr.Set,
			"message": validationErr.Err.Error(),
		})
		return
	}
	if errors.Is(err, scoring.ErrSetCount) || errors.Is(err, scoring.ErrNoMatchWinner) ||
		errors.Is(err, scoring.ErrDeciderNotSplit) {
		unprocessableResponse(w, r, err.Error())
		return
	}

	switch {
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrLeagueNotFound),
		errors.Is(err, services.ErrParticipantNotFound),
		errors.Is(err, services.ErrInviteNotFound),
		errors.Is(err, services.ErrMatchNotFound),
		errors.Is(err, services.ErrScoreReportNotFound):
		notFoundResponse(w, r)

	case errors.Is(err, services.ErrUserEmailConflict),
		errors.Is(err, services.ErrTeamNameConflict),
		errors.Is(err, services.ErrLeagueNameConflict),
		errors.Is(err, services.ErrRegistrationConflict),
		errors.Is(err, services.ErrLeagueFull),
		errors.Is(err, services.ErrScheduleAlreadyGenerated),
		errors.Is(err, services.ErrScoringConflict),
		errors.Is(err, services.ErrMatchAlreadyFinalized),
		errors.Is(err, services.ErrAuthEmailTaken):
		conflictResponse(w, r, err.Error())

	case errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrTeamNameRequired),
		errors.Is(err, services.ErrLeagueNameRequired),
		errors.Is(err, services.ErrUserAlreadyInTeam),
		errors.Is(err, services.ErrUserNotInTeam),
		errors.Is(err, services.ErrCannotRemoveCaptain),
		errors.Is(err, services.ErrInviteExpired),
		errors.Is(err, services.ErrParticipantTypeWrong),
		errors.Is(err, services.ErrLeagueInvalidRegDate),
		errors.Is(err, services.ErrLeagueInvalidDates),
		errors.Is(err, services.ErrLeagueInvalidCapacity),
		errors.Is(err, services.ErrNotEnoughParticipants),
		errors.Is(err, services.ErrMatchNotPlayable),
		errors.Is(err, services.ErrMatchNotFinalized),
		errors.Is(err, services.ErrReportNotForMatch),
		errors.Is(err, services.ErrBothReportsRequired):
		badRequestResponse(w, r, err)

	case errors.Is(err, services.ErrAuthInvalidCredentials):
		unauthorizedResponse(w, r, err.Error())

	case errors.Is(err, services.ErrForbiddenOperation),
		errors.Is(err, services.ErrCaptainActionForbidden),
		errors.Is(err, services.ErrOrganizerOnly),
		errors.Is(err, services.ErrNotMatchParticipant),
		errors.Is(err, services.ErrRegistrationNotOpen):
		forbiddenResponse(w, r, err.Error())

	default:
		serverErrorResponse(w, r, err)
	}
}

func getIDFromURL(r *http.Request, paramName string) (int, error) {
	idStr := chi.URLParam(r, paramName)
	if idStr == "" {
		return 0, fmt.Errorf("missing %s in URL path", paramName)
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s format: %q", paramName, idStr)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid %s value: %d", paramName, id)
	}
	return id, nil
}

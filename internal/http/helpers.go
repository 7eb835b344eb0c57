package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/courtside/internal/rotation"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

// statusFor maps an engine error kind to an HTTP status.
func statusFor(kind string) int {
	switch kind {
	case "":
		return http.StatusInternalServerError
	case "CourtNotFound", "GroupNotFound", "PlayerNotFound", "ScheduleNotFound":
		return http.StatusNotFound
	case "InvalidName", "InvalidSkillLevel", "InvalidArgument":
		return http.StatusBadRequest
	default:
		return http.StatusConflict
	}
}

func writeError(w http.ResponseWriter, err error) {
	kind := rotation.Kind(err)
	status := statusFor(kind)
	if status == http.StatusInternalServerError {
		log.Error("Request failed", "error", err)
	} else {
		log.Debug("Command rejected", "kind", kind, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed body: %v", rotation.ErrInvalidArgument, err)
	}
	return nil
}

func pathInt(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", rotation.ErrInvalidArgument, name)
	}
	return v, nil
}

var errUnknownTimerAction = errors.New("action must be start, pause or set")

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lucasmonteiro/agendei/internal/appointments"
	"github.com/lucasmonteiro/agendei/internal/booking"
	"github.com/lucasmonteiro/agendei/internal/calendar"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return false
	}
	return true
}

// errorMessage picks the user-facing text for a failed operation.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, booking.ErrIncomplete):
		return "select a time and enter the client name"
	case errors.Is(err, booking.ErrBusy):
		return "a request is already in flight, try again"
	case errors.Is(err, calendar.ErrPastDay):
		return "that day is in the past"
	}
	return appointments.UserMessage(err)
}

// statusFor maps controller and backend errors onto response codes. The
// backend's own HTTP failures come back as 502, not their original code;
// to the browser they are a broken collaborator, not a client mistake.
func statusFor(err error) int {
	var se *appointments.StatusError
	switch {
	case errors.Is(err, calendar.ErrPastDay), errors.Is(err, booking.ErrIncomplete):
		return http.StatusUnprocessableEntity
	case errors.Is(err, booking.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, appointments.ErrUnreachable):
		return http.StatusBadGateway
	case errors.As(err, &se):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/prismdash/prism/internal/logging"
	"github.com/prismdash/prism/internal/panel"
)

// APIError is used by the HTTP layer for request validation and a few
// HTTP-specific errors. Message is what the client sees; Cause stays in
// the logs.
type APIError struct {
	Status  int
	Message string
	Cause   error
}

func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *APIError) Unwrap() error { return e.Cause }

func apiError(status int, message string, cause error) error {
	return &APIError{Status: status, Message: message, Cause: cause}
}

func requestError(message string) error {
	return apiError(http.StatusBadRequest, message, nil)
}

// writeErrorFromErr maps an error to the response envelope. Upstream
// detail never reaches the client; the generic message plus a log line
// is all a 500 carries.
func writeErrorFromErr(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	var ae *APIError
	if errors.As(err, &ae) {
		if ae.Status >= http.StatusInternalServerError {
			logging.Errorf("http %s %s: %v", r.Method, r.URL.Path, ae)
		}
		WriteError(w, ae.Status, ae.Message)
		return
	}

	if errors.Is(err, panel.ErrUserNotFound) {
		WriteError(w, http.StatusNotFound, "user not found")
		return
	}

	logging.Errorf("http %s %s: %v", r.Method, r.URL.Path, err)
	WriteError(w, http.StatusInternalServerError, "internal server error")
}

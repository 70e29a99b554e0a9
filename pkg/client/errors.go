package client

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s: %d %s: %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// StatusCode extracts the HTTP status from err, or 0 when the request never got an answer.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 answer. For the item list this
// means no list has been provisioned for the session yet.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

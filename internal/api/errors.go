// Package api provides the client for the platform's document store, object
// storage, and account endpoints.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
)

// StatusError carries the HTTP status and server message of a failed request.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api request failed with status %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the platform.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == nethttp.StatusNotFound
}

// statusError builds a StatusError from a non-2xx response, preferring the
// server's JSON "message" field over the raw body.
func statusError(resp *nethttp.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return &StatusError{Status: resp.StatusCode, Message: payload.Message}
	}
	return &StatusError{Status: resp.StatusCode, Message: string(body)}
}

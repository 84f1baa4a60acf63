package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Error codes the backend attaches to failure bodies.
const (
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeTokenExpired       = "TOKEN_EXPIRED"
)

// User-facing fallback messages for failures with no server message.
const (
	MsgForbidden   = "You do not have permission to perform this operation."
	MsgServerError = "Server error. Please try again later."
	MsgNetwork     = "Connection error. Please check your network connection."
	MsgUnexpected  = "An unexpected error occurred."
)

// APIError is a non-2xx platform response: the HTTP status plus whatever
// the backend put in its {message, errorCode} failure body.
type APIError struct {
	Status    int
	ErrorCode string
	Message   string
}

// ParseResponse builds an APIError from a failure status and body. Bodies
// that are not the usual {message, errorCode} JSON yield an APIError with
// just the status.
func ParseResponse(status int, raw []byte) *APIError {
	var eb struct {
		Message   string `json:"message"`
		ErrorCode string `json:"errorCode"`
	}
	_ = json.Unmarshal(raw, &eb)
	return &APIError{Status: status, ErrorCode: eb.ErrorCode, Message: eb.Message}
}

func (e *APIError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("api error: status %d code %s: %s", e.Status, e.ErrorCode, e.Message)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

// InvalidCredentials reports whether this failure came from a rejected
// login attempt. Such failures must never trigger a token refresh.
func (e *APIError) InvalidCredentials() bool {
	return e.Status == 401 && e.ErrorCode == CodeInvalidCredentials
}

// AsAPIError unwraps err to an *APIError if one is in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// UserMessage maps any client failure to a message fit for display.
func UserMessage(err error) string {
	apiErr, ok := AsAPIError(err)
	if !ok {
		if err != nil {
			return MsgNetwork
		}
		return MsgUnexpected
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}
	switch {
	case apiErr.Status == 403:
		return MsgForbidden
	case apiErr.Status >= 500:
		return MsgServerError
	}
	return MsgUnexpected
}

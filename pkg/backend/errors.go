package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// APIError is a non-2xx response from the backend. Message carries the
// provider's error text when one could be extracted, otherwise the raw body.
type APIError struct {
	StatusCode int
	Code       string // provider error code when present (e.g. "23505")
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err (or any wrapped error) is an APIError with the
// given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}

// IsConflict reports whether err is a unique-constraint rejection from the
// table facade: HTTP 409, or the relational duplicate-key code.
func IsConflict(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusConflict || apiErr.Code == "23505"
}

// decodeAPIError extracts the provider's message from an error response.
// The auth provider and the table facade use different envelopes; probe the
// known message fields and fall back to the raw body text.
func decodeAPIError(resp *http.Response) *APIError {
	body, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
	if readErr != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
	}

	var envelope struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
		Code             any    `json:"code"`
	}
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	if json.Unmarshal(body, &envelope) != nil {
		return apiErr
	}
	switch {
	case envelope.Message != "":
		apiErr.Message = envelope.Message
	case envelope.Msg != "":
		apiErr.Message = envelope.Msg
	case envelope.ErrorDescription != "":
		apiErr.Message = envelope.ErrorDescription
	case envelope.Error != "":
		apiErr.Message = envelope.Error
	}
	if code, ok := envelope.Code.(string); ok {
		apiErr.Code = code
	}
	return apiErr
}

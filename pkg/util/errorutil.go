package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure codes returned by the user service flows.
const (
	CodeInvalidPayload  = "INVALID_PAYLOAD"
	CodeMissingFields   = "MISSING_REQUIRED_FIELDS"
	CodeInvalidMobileNo = "INVALID_MOBILE_NO"
	CodeMobileNoExist   = "MOBILE_NO_EXIST"
	CodeInvalidLogin    = "INVALID_LOGIN"
	CodeInvalidToken    = "INVALID_TOKEN"
	CodeInternal        = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewInvalidPayload reports a request body that could not be decoded.
func NewInvalidPayload() error {
	return NewDomainError(CodeInvalidPayload, "Invalid request payload.", http.StatusBadRequest, nil)
}

// NewMissingFields reports absent required input fields.
func NewMissingFields() error {
	return NewDomainError(CodeMissingFields, "Required fields are missing.", http.StatusBadRequest, nil)
}

// NewInvalidMobileNo reports a mobile number failing the format check.
func NewInvalidMobileNo() error {
	return NewDomainError(CodeInvalidMobileNo, "Invalid mobile number.", http.StatusBadRequest, nil)
}

// NewDuplicateUser reports an already-registered mobile number.
func NewDuplicateUser() error {
	return NewDomainError(CodeMobileNoExist, "Mobile number already registered.", http.StatusConflict, nil)
}

// NewInvalidLogin reports a credential mismatch. The message is deliberately
// identical for lookup miss, password mismatch and user-type mismatch.
func NewInvalidLogin() error {
	return NewDomainError(CodeInvalidLogin, "Invalid credentials.", http.StatusUnauthorized, nil)
}

// NewInvalidToken reports a token that failed signature, structure or expiry
// checks.
func NewInvalidToken() error {
	return NewDomainError(CodeInvalidToken, "Invalid token.", http.StatusUnauthorized, nil)
}

// NewInternalError wraps an infrastructure fault. The cause is retained for
// logging but never serialized to clients.
func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "Something went wrong.",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "Something went wrong.",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// IsCode reports whether err is a DomainError carrying the given code.
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}

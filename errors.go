package attestation

import "errors"

// Error codes returned in the errorCode field. These are part of the
// external contract.
const (
	CodeMissingIntegrityToken = "MISSING_INTEGRITY_TOKEN"
	CodeIntegrityTokenTooLong = "INTEGRITY_TOKEN_TOO_LONG"
	CodeMissingDeviceKey      = "MISSING_DEVICE_KEY"
	CodeDeviceKeyTooLong      = "DEVICE_KEY_TOO_LONG"
	CodeMissingNonce          = "MISSING_NONCE"
	CodeNonceTooLong          = "NONCE_TOO_LONG"
	CodeInvalidHeader         = "INVALID_HEADER"
	CodeMethodNotAllowed      = "METHOD_NOT_ALLOWED"
	CodeInternalError         = "INTERNAL_ERROR"
	CodeInvalidBody           = "INVALID_BODY"
	CodeNotFound              = "NOT_FOUND"
)

// Common errors returned by the attestation package.
var (
	ErrMissingRequest      = errors.New("missing attestation request")
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrMalformedBody       = errors.New("malformed request body")
	ErrInvalidHeader       = errors.New("invalid request header")
)

// ValidationError reports the first request field that failed validation.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validation errors, one per rule.
var (
	ErrMissingIntegrityToken = &ValidationError{
		Code:    CodeMissingIntegrityToken,
		Message: "integrityToken is required and must not be blank",
	}
	ErrIntegrityTokenTooLong = &ValidationError{
		Code:    CodeIntegrityTokenTooLong,
		Message: "integrityToken exceeds maximum allowed length",
	}
	ErrMissingDeviceKey = &ValidationError{
		Code:    CodeMissingDeviceKey,
		Message: "deviceKey is required and must not be blank",
	}
	ErrDeviceKeyTooLong = &ValidationError{
		Code:    CodeDeviceKeyTooLong,
		Message: "deviceKey exceeds maximum allowed length",
	}
	ErrMissingNonce = &ValidationError{
		Code:    CodeMissingNonce,
		Message: "nonce is required and must not be blank",
	}
	ErrNonceTooLong = &ValidationError{
		Code:    CodeNonceTooLong,
		Message: "nonce exceeds maximum allowed length",
	}
)

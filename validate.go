package attestation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Maximum field lengths in characters. They must match the max tags on Request.
const (
	MaxIntegrityTokenLen = 4096
	MaxDeviceKeyLen      = 512
	MaxNonceLen          = 256
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// rules maps "<field>.<tag>" to the error reported when that tag fails.
var rules = map[string]*ValidationError{
	"IntegrityToken.notblank": ErrMissingIntegrityToken,
	"IntegrityToken.max":      ErrIntegrityTokenTooLong,
	"DeviceKey.notblank":      ErrMissingDeviceKey,
	"DeviceKey.max":           ErrDeviceKeyTooLong,
	"Nonce.notblank":          ErrMissingNonce,
	"Nonce.max":               ErrNonceTooLong,
}

// Validate checks the size and presence rules on req. Only the first failing
// rule is reported, as a *ValidationError.
func Validate(req *Request) error {
	if req == nil {
		return ErrMissingRequest
	}

	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validating request: %w", err)
	}

	fe := fieldErrs[0]
	if ve, ok := rules[fe.StructField()+"."+fe.Tag()]; ok {
		return ve
	}
	return fmt.Errorf("no rule for %s.%s: %w", fe.StructField(), fe.Tag(), err)
}

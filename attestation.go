package attestation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/kacy/attestation-verifier/android"
	"github.com/kacy/attestation-verifier/ios"
	"github.com/kacy/attestation-verifier/nullifier"
	"github.com/kacy/attestation-verifier/web"
)

// Platform represents the client platform that produced the integrity token.
type Platform string

// Platform constants. No other values are accepted.
const (
	PlatformWeb     Platform = "web"
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
)

// ParsePlatform returns the Platform named by s. Matching is exact.
func ParsePlatform(s string) (Platform, error) {
	switch p := Platform(s); p {
	case PlatformWeb, PlatformIOS, PlatformAndroid:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedPlatform, s)
	}
}

// UnmarshalJSON rejects unknown platforms while decoding.
func (p *Platform) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: platform must be a string", ErrUnsupportedPlatform)
	}
	parsed, err := ParsePlatform(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// UnmarshalCBOR rejects unknown platforms while decoding.
func (p *Platform) UnmarshalCBOR(data []byte) error {
	var s string
	if err := cbor.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: platform must be a text string", ErrUnsupportedPlatform)
	}
	parsed, err := ParsePlatform(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p Platform) String() string {
	return string(p)
}

// Request represents an attestation verification request.
//
// Fields carrying validate tags are checked by Validate in declaration order.
type Request struct {
	// Platform is the client platform (web, ios or android).
	Platform Platform `json:"platform" cbor:"platform"`

	// IntegrityToken is the opaque token produced by the platform.
	IntegrityToken string `json:"integrityToken" cbor:"integrityToken" validate:"notblank,max=4096"`

	// DeviceKey identifies the device. Only its nullifier leaves the verifier.
	DeviceKey string `json:"deviceKey" cbor:"deviceKey" validate:"notblank,max=512"`

	// Nonce is the client-supplied freshness value.
	Nonce string `json:"nonce" cbor:"nonce" validate:"notblank,max=256"`

	// MockRequested is the per-request mock override. It is set by the
	// transport from the x-mock-attestation header, never from the body.
	MockRequested bool `json:"-" cbor:"-"`
}

func (*Request) wireNames() []string {
	return []string{"platform", "integrityToken", "deviceKey", "nonce"}
}

// Outcome is the result of a successful verification.
type Outcome struct {
	// TrustScore is in [0.0, 1.0].
	TrustScore float64

	// Nullifier is the pseudonymous device identifier.
	Nullifier string

	// Platform is the scored platform.
	Platform Platform

	// MockMode reports whether the score was forced by mock mode.
	MockMode bool
}

// Scorer maps an integrity token to a trust score in [0.0, 1.0].
type Scorer func(token string, mock bool) float64

var scorers = map[Platform]Scorer{
	PlatformWeb:     web.Score,
	PlatformIOS:     ios.Score,
	PlatformAndroid: android.Score,
}

// Config holds configuration for the verifier.
type Config struct {
	// ForceMock forces the maximal trust score for every request.
	ForceMock bool

	// NullifierSalt is mixed into every nullifier (default: nullifier.DefaultSalt).
	NullifierSalt string
}

// Verifier verifies attestation requests.
type Verifier interface {
	// Verify validates req, scores it and derives its nullifier.
	// Validation failures are returned as *ValidationError.
	Verify(ctx context.Context, req *Request) (*Outcome, error)
}

type verifier struct {
	forceMock  bool
	nullifiers *nullifier.Deriver
}

// NewVerifier creates a new attestation verifier.
func NewVerifier(cfg Config) Verifier {
	return &verifier{
		forceMock:  cfg.ForceMock,
		nullifiers: nullifier.NewDeriver(cfg.NullifierSalt),
	}
}

// Verify verifies an attestation request.
func (v *verifier) Verify(ctx context.Context, req *Request) (*Outcome, error) {
	if req == nil {
		return nil, ErrMissingRequest
	}

	if err := Validate(req); err != nil {
		return nil, err
	}

	score, ok := scorers[req.Platform]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPlatform, req.Platform)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mock := ResolveMock(v.forceMock, req.MockRequested)
	return &Outcome{
		TrustScore: score(req.IntegrityToken, mock),
		Nullifier:  v.nullifiers.Derive(req.DeviceKey),
		Platform:   req.Platform,
		MockMode:   mock,
	}, nil
}

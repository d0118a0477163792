package attestation

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Environment is the deployment label attached to every response.
const Environment = "DEV"

// Disclaimer is attached to every successful response.
const Disclaimer = "DEV-ONLY: this attestation is a stub and does not provide production sybil defense"

// Posture describes the deployment mode reported to clients.
type Posture struct {
	Environment string `json:"environment" cbor:"environment"`
	Disclaimer  string `json:"disclaimer,omitempty" cbor:"disclaimer,omitempty"`
}

// DevPosture is the only posture this service runs with.
var DevPosture = Posture{Environment: Environment, Disclaimer: Disclaimer}

// SessionResponse is returned after a successful verification.
type SessionResponse struct {
	Token      string  `json:"token" cbor:"token"`
	TrustScore float64 `json:"trustScore" cbor:"trustScore"`
	Nullifier  string  `json:"nullifier" cbor:"nullifier"`
	Posture
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status string `json:"status" cbor:"status"`
	Posture
}

// ErrorResponse is returned for every failure. It carries the environment
// label but not the disclaimer.
type ErrorResponse struct {
	Success   bool   `json:"success" cbor:"success"`
	Error     string `json:"error" cbor:"error"`
	ErrorCode string `json:"errorCode" cbor:"errorCode"`
	Posture
}

// labeled is implemented by every response body.
type labeled interface {
	label(p Posture)
}

func (r *SessionResponse) label(p Posture) { r.Posture = p }
func (r *HealthResponse) label(p Posture)  { r.Posture = p }
func (r *ErrorResponse) label(p Posture)   { r.Posture = Posture{Environment: p.Environment} }

// respond labels body with the service posture and writes it.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, body labeled) {
	body.label(DevPosture)
	if err := encodeBody(w, r, status, body); err != nil {
		s.logger.WithFields(logrus.Fields{
			"request_id": requestIDFrom(r.Context()),
			"status":     status,
		}).WithError(err).Error("failed to write response")
	}
}

// assemble builds the success payload for outcome with a fresh session token.
func (s *Server) assemble(outcome *Outcome) *SessionResponse {
	return &SessionResponse{
		Token:      s.sessions.Mint(),
		TrustScore: outcome.TrustScore,
		Nullifier:  outcome.Nullifier,
	}
}

var (
	errRouteNotFound    = errors.New("route not found")
	errMethodNotAllowed = errors.New("method not allowed")
	errPanic            = errors.New("handler panicked")
)

// errorFor maps err to its HTTP status, error code and public message.
func errorFor(err error) (int, string, string) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Code, ve.Message
	case errors.Is(err, ErrMalformedBody), errors.Is(err, ErrUnsupportedPlatform):
		return http.StatusBadRequest, CodeInvalidBody, "malformed request body"
	case errors.Is(err, ErrInvalidHeader):
		return http.StatusBadRequest, CodeInvalidHeader, "invalid request header"
	case errors.Is(err, errMethodNotAllowed):
		return http.StatusMethodNotAllowed, CodeMethodNotAllowed, err.Error()
	case errors.Is(err, errRouteNotFound):
		return http.StatusNotFound, CodeNotFound, "route not found"
	default:
		return http.StatusInternalServerError, CodeInternalError, "internal server error"
	}
}

// respondError writes the error payload for err.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := errorFor(err)

	entry := s.logger.WithFields(logrus.Fields{
		"request_id": requestIDFrom(r.Context()),
		"status":     status,
		"code":       code,
	}).WithError(err)
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Warn("request rejected")
	}

	s.respond(w, r, status, &ErrorResponse{
		Success:   false,
		Error:     message,
		ErrorCode: code,
	})
}

func methodNotAllowed(method string) error {
	return fmt.Errorf("%w: %s", errMethodNotAllowed, method)
}

package attestation

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/kacy/attestation-verifier/session"
)

// Routes served by Server.
const (
	RouteHealth = "/health"
	RouteVerify = "/verify"
)

// MockHeader carries the per-request mock override.
const MockHeader = "x-mock-attestation"

// Server is the HTTP front end of the verifier. It holds no per-request
// state and is safe for concurrent use.
type Server struct {
	verifier Verifier
	sessions session.Minter
	logger   *logrus.Logger
	handler  http.Handler
}

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	// ForceMock forces the maximal trust score for every request.
	ForceMock bool

	// NullifierSalt is mixed into every nullifier (default: nullifier.DefaultSalt).
	NullifierSalt string

	// UniqueSessionTokens appends a random UUID to session tokens.
	UniqueSessionTokens bool

	// AllowedOrigins lists CORS origins (default: all).
	AllowedOrigins []string

	// Logger receives request and error logs (default: logrus.StandardLogger()).
	Logger *logrus.Logger

	// Now is the clock used for session tokens (default: time.Now).
	Now func() time.Time

	// Verifier replaces the verifier built from ForceMock and NullifierSalt.
	Verifier Verifier
}

// NewServer creates a new verifier server.
//
// Example:
//
//	srv := attestation.NewServer(attestation.ServerConfig{
//	    NullifierSalt: os.Getenv("NULLIFIER_SALT"),
//	})
//	log.Fatal(http.ListenAndServe(":3000", srv))
func NewServer(cfg ServerConfig) *Server {
	v := cfg.Verifier
	if v == nil {
		v = NewVerifier(Config{
			ForceMock:     cfg.ForceMock,
			NullifierSalt: cfg.NullifierSalt,
		})
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s := &Server{
		verifier: v,
		sessions: session.Minter{Now: cfg.Now, Unique: cfg.UniqueSessionTokens},
		logger:   logger,
	}

	router := mux.NewRouter()
	router.HandleFunc(RouteHealth, s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc(RouteVerify, s.handleVerify).Methods(http.MethodPost)
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, methodNotAllowed(r.Method))
	})
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, errRouteNotFound)
	})

	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept", MockHeader, RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
	})

	// request id/logging -> recover -> CORS -> routes
	s.handler = s.logRequests(s.recoverPanics(c.Handler(router)))
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Verifier returns the underlying verifier.
func (s *Server) Verifier() Verifier {
	return s.verifier
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, http.StatusOK, &HealthResponse{Status: "ok"})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	mock, err := mockRequested(r.Header)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req Request
	if err := decodeBody(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if req.Platform == "" {
		s.respondError(w, r, ErrMalformedBody)
		return
	}
	req.MockRequested = mock

	outcome, err := s.verifier.Verify(r.Context(), &req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, r, http.StatusOK, s.assemble(outcome))
}

// mockRequested reads the mock override header. Only a case-insensitive
// "true" enables it; values that are not visible ASCII are rejected.
func mockRequested(h http.Header) (bool, error) {
	values := h.Values(MockHeader)
	if len(values) == 0 {
		return false, nil
	}
	v := values[0]
	for i := 0; i < len(v); i++ {
		if c := v[i]; c != '\t' && (c < 0x20 || c > 0x7e) {
			return false, ErrInvalidHeader
		}
	}
	return strings.EqualFold(v, "true"), nil
}

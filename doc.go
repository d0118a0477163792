// Package attestation provides a development stand-in for device attestation
// verification.
//
// A client submits an integrity token for its platform (web, iOS or Android)
// together with a device key and a nonce. The verifier scores the token with
// simple heuristics, derives a stable pseudonymous nullifier for the device and
// returns a session token. Nothing is cryptographically verified and nothing is
// stored between requests, so every response is labeled with the DEV
// environment and successful ones carry a disclaimer.
//
// # Scoring
//
//   - web: "test-token" or mock mode scores 1.0, tokens longer than 8
//     characters score 0.8, anything else 0.0
//   - ios: tokens prefixed "apple-" or mock mode score 1.0, otherwise 0.5
//   - android: tokens prefixed "google-" or mock mode score 1.0, otherwise 0.5
//
// Mock mode is forced by configuration or requested per call with the
// x-mock-attestation header.
//
// # Basic Usage
//
//	srv := attestation.NewServer(attestation.ServerConfig{
//	    NullifierSalt: os.Getenv("NULLIFIER_SALT"),
//	})
//	log.Fatal(http.ListenAndServe(":3000", srv))
//
// The pipeline is also usable without HTTP:
//
//	v := attestation.NewVerifier(attestation.Config{})
//	outcome, err := v.Verify(ctx, &attestation.Request{
//	    Platform:       attestation.PlatformIOS,
//	    IntegrityToken: "apple-xyz",
//	    DeviceKey:      "dk",
//	    Nonce:          "nn",
//	})
//
// # Subpackages
//
//   - web, ios, android: per-platform token scoring
//   - nullifier: salted device nullifier derivation
//   - session: session token minting
//   - config: file and environment configuration
//   - logging: logrus logger construction
package attestation

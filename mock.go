package attestation

// ResolveMock reports whether scoring must be forced to the maximal trust
// score. A forced process-wide setting wins over the per-request signal.
func ResolveMock(forced, requested bool) bool {
	if forced {
		return true
	}
	return requested
}

package inference

// Error describes a failed prediction run: a spawn failure, a non-zero
// exit, a timeout, or malformed output. The diagnostic fields are only
// surfaced to clients outside production.
type Error struct {
	// Message is the client-facing summary.
	Message string
	// Detail carries captured stderr or the spawn error text.
	Detail string
	// RawOutput is the unparsed stdout when JSON decoding failed.
	RawOutput string
	// Received is the decoded payload when it had the wrong shape.
	Received any
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

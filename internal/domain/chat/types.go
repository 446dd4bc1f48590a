package chat

// Segment kinds observed in vendor replies. Anything else is legal and ignored.
const (
	SegmentText     = "text"
	SegmentThinking = "thinking"
)

// ContentSegment represents one unit of a vendor chat reply, tagged with a kind.
// Only "text" segments contribute to the final answer.
type ContentSegment struct {
	Kind     string
	Text     string
	Thinking string
}

// Exchange is the outcome of one handled chat call.
type Exchange struct {
	// RequestID is the client-supplied idempotency key when present,
	// otherwise a freshly generated identifier. Never empty.
	RequestID string

	// Answer is the concatenated text of the reply. May be empty when the
	// vendor returns no text segments.
	Answer string

	// Model is the configured upstream model identifier.
	Model string

	// ElapsedMS is the wall-clock duration of the provider call in milliseconds.
	ElapsedMS int64
}

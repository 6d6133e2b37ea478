package domain

// EnvelopeKind tags a cross-context completion message.
type EnvelopeKind string

const (
	// KindConnectComplete signals a successful first-time selection.
	KindConnectComplete EnvelopeKind = "vectorize-connect-complete"
	// KindEditComplete signals a successful selection edit.
	KindEditComplete EnvelopeKind = "vectorize-edit-complete"
	// KindConnectError signals a failed flow.
	KindConnectError EnvelopeKind = "vectorize-connect-error"
	// KindConnectCancelled signals the user abandoned the flow.
	KindConnectCancelled EnvelopeKind = "vectorize-connect-cancelled"
)

// Valid returns true for known envelope kinds.
func (k EnvelopeKind) Valid() bool {
	switch k {
	case KindConnectComplete, KindEditComplete, KindConnectError, KindConnectCancelled:
		return true
	}
	return false
}

// Completed returns true for kinds that carry a selection payload.
func (k EnvelopeKind) Completed() bool {
	return k == KindConnectComplete || k == KindEditComplete
}

// Envelope is the typed message that crosses browsing-context and process
// boundaries: picker page to host server, hosted iframe to parent. Every
// envelope is correlated to one OAuth attempt by AttemptID; messages with an
// unknown attempt ID are dropped by the dispatcher.
type Envelope struct {
	Kind      EnvelopeKind `json:"kind"`
	AttemptID string       `json:"attemptId"`
	Selection *Selection   `json:"selection,omitempty"`
	Error     *EnvelopeError `json:"error,omitempty"`
}

// EnvelopeError is the wire form of a ConnectError inside an envelope.
type EnvelopeError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// AsConnectError reconstructs the ConnectError carried by the envelope.
func (e *EnvelopeError) AsConnectError() *ConnectError {
	if e == nil {
		return nil
	}
	code := e.Code
	if code == "" {
		code = CodeUnknown
	}
	return &ConnectError{Code: code, Message: e.Message, Details: e.Details}
}

// NewErrorEnvelope builds an error envelope for an attempt. Cancellation
// gets its own kind so hosts can tell abandonment from failure.
func NewErrorEnvelope(attemptID string, err *ConnectError) Envelope {
	kind := KindConnectError
	if err.Code == CodeCancelled {
		kind = KindConnectCancelled
	}
	return Envelope{
		Kind:      kind,
		AttemptID: attemptID,
		Error: &EnvelopeError{
			Code:    err.Code,
			Message: err.Message,
			Details: err.Details,
		},
	}
}

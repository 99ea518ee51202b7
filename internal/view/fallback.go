package view

const (
	FallbackCode    = "INTERNAL_ERROR"
	FallbackMessage = "Something went wrong"
)

// Fallback is what the error boundary renders in place of a failed subtree.
type Fallback struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"requestId,omitempty"`
}

func NewFallback(requestID string) Fallback {
	return Fallback{Error: FallbackMessage, Code: FallbackCode, RequestID: requestID}
}

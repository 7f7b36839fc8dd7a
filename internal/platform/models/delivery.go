package models

// Delivery outcome values recorded in the delivery log.
const (
	OutcomeDelivered = "delivered"
	OutcomeIgnored   = "ignored"
	OutcomeDuplicate = "duplicate"
	OutcomeFailed    = "failed"
)

// Delivery is one processed inbound webhook call.
type Delivery struct {
	ID         string `json:"id"`
	EventType  string `json:"event_type"`
	Template   string `json:"template,omitempty"`
	Outcome    string `json:"outcome"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`
	ReceivedAt int64  `json:"received_at"`
}

// ForwardResult is the outcome of one downstream POST.
type ForwardResult struct {
	Succeeded   bool
	StatusCode  int
	ErrorDetail string
}

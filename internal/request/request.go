package request

// SchedulerRequest represents the JSON body for scheduler control.
type SchedulerRequest struct {
	// Action controls the scheduler. Allowed values:
	// - "start": start dispatching pending messages
	// - "stop":  stop dispatching pending messages
	Action string `json:"action"`
}

// EnqueueMessageRequest is the JSON body accepted by POST /messages.
type EnqueueMessageRequest struct {
	To      string `json:"to"`
	Content string `json:"content"`
	// Quality is one of GP, TI, SI, EE, AD. Empty means the account default.
	Quality string `json:"quality,omitempty"`
}

// SkebbySMSRequest is the body of the provider's POST sms call.
type SkebbySMSRequest struct {
	Message         string   `json:"message"`
	MessageType     string   `json:"message_type"`
	ReturnRemaining bool     `json:"returnRemaining"`
	Recipient       []string `json:"recipient"`
	Sender          string   `json:"sender,omitempty"`
}

package types

import "strings"

// PushEnvelope is the wire shape of one at-least-once push delivery from
// the broker: a wrapped message with a base64-encoded payload.
type PushEnvelope struct {
	Message      *PushMessage `json:"message"`
	Subscription string       `json:"subscription,omitempty"`
}

type PushMessage struct {
	Data       string            `json:"data"`
	MessageID  string            `json:"messageId,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// PushPayload is the decoded message body published per record.
type PushPayload struct {
	User   PushUser `json:"user"`
	Action string   `json:"action"`
}

type PushUser struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Identifier resolves the payload's identifier: user_id, then username,
// then email.
func (u PushUser) Identifier() string {
	for _, v := range []string{u.UserID, u.Username, u.Email} {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// Disposition is the abstract delivery response the push worker hands
// back; the transport layer maps it to a wire status.
type Disposition int

const (
	// Ack acknowledges the message; the broker must not redeliver.
	// Also used for poison messages that can never succeed.
	Ack Disposition = iota
	// RetryRequested asks the broker to redeliver later; the failure is
	// presumed transient.
	RetryRequested
	// Reject permanently refuses a malformed envelope. Not the broker's
	// fault to retry.
	Reject
)

func (d Disposition) String() string {
	switch d {
	case Ack:
		return "ack"
	case RetryRequested:
		return "retry-requested"
	case Reject:
		return "reject"
	}
	return "unknown"
}

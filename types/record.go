package types

import "strings"

// Record is one input row: a mapping of field name to string value.
// There is no fixed schema; rows come straight out of delimited uploads
// or queue payloads, and only the identifier fields below are probed.
type Record map[string]string

// identifierFields is the probe order for resolving a record's
// identifier. The first non-empty, trimmed value wins.
var identifierFields = []string{
	"username",
	"email",
	"Email",
	"UserId",
	"user_id",
}

// Identifier resolves the record's identifier, or "" when no candidate
// field carries a value. A record without an identifier must never reach
// the transport.
func (r Record) Identifier() string {
	for _, f := range identifierFields {
		if v := strings.TrimSpace(r[f]); v != "" {
			return v
		}
	}
	return ""
}

// OperationKind selects the remote state change applied per record.
type OperationKind int

const (
	Activate OperationKind = iota
	Deactivate
)

// Action is the wire verb for the row-level action endpoint.
func (o OperationKind) Action() string {
	if o == Activate {
		return "activate"
	}
	return "deactivate"
}

func (o OperationKind) String() string {
	return o.Action()
}

// ParseOperation maps the intake selector strings to an OperationKind.
// The intake form says "activation", queue payloads say "activate";
// anything else is a deactivation, matching the form's historic default.
func ParseOperation(selector string) OperationKind {
	switch strings.ToLower(strings.TrimSpace(selector)) {
	case "activation", "activate":
		return Activate
	}
	return Deactivate
}

// Outcome is the result of applying an operation to one record.
type Outcome struct {
	// Success is true iff the remote call landed with a 2xx status.
	Success bool
	// StatusCode is the remote HTTP status, when a response was received.
	StatusCode int
	// Reason describes the failure. Free-form; callers classify broadly
	// (no response vs. remote status vs. bad input) and must not
	// pattern-match on exact text.
	Reason string
}

func SuccessOutcome(statusCode int) Outcome {
	return Outcome{Success: true, StatusCode: statusCode}
}

func FailureOutcome(reason string) Outcome {
	return Outcome{Reason: reason}
}

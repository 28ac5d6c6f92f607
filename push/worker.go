package push

import (
	"encoding/base64"
	"encoding/json"

	"github.com/sunkingbms/litmos-two/logger"
	"github.com/sunkingbms/litmos-two/metrics"
	"github.com/sunkingbms/litmos-two/types"
)

// RecordApplier applies one operation to one record. Satisfied by
// api.Directory.
type RecordApplier interface {
	ApplyRecord(op types.OperationKind, rec types.Record) types.Outcome
}

// Config tunes the worker. The zero value asks the broker to redeliver
// on remote rejections; set AckRemoteRejections when a non-2xx answer
// means the message can never succeed and redelivery only burns quota.
type Config struct {
	AckRemoteRejections bool
	Logger              logger.Logger
}

// Worker consumes at-least-once push deliveries: it unwraps the
// envelope, applies the record operation, and decides whether the
// broker should redeliver. Handlers must never panic outward; a poison
// message is acknowledged or rejected, never looped forever.
type Worker struct {
	applier RecordApplier
	config  Config
}

func NewWorker(applier RecordApplier, config Config) *Worker {
	if config.Logger == nil {
		config.Logger = &logger.Noop{}
	}
	return &Worker{applier: applier, config: config}
}

// Handle processes one delivery and returns the disposition the
// transport should signal back to the broker.
//
// Malformed envelopes (no message, no data, undecodable payload) are
// rejected outright: redelivering them can never help. A payload with
// no identifier is acknowledged so the broker stops redelivering a
// message that will fail identically every time. Transient failures,
// including a panicking operation, request redelivery.
func (w *Worker) Handle(envelope types.PushEnvelope) (d types.Disposition) {
	defer func() {
		metrics.PushDeliveries.WithLabelValues(d.String()).Inc()
	}()

	if envelope.Message == nil || envelope.Message.Data == "" {
		w.config.Logger.Warnf("Push delivery without message data")
		return types.Reject
	}

	raw, err := base64.StdEncoding.DecodeString(envelope.Message.Data)
	if err != nil {
		w.config.Logger.Warnf("Push message %s: undecodable data: %v",
			envelope.Message.MessageID, err)
		return types.Reject
	}

	var payload types.PushPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		w.config.Logger.Warnf("Push message %s: malformed payload: %v",
			envelope.Message.MessageID, err)
		return types.Reject
	}

	identifier := payload.User.Identifier()
	if identifier == "" {
		w.config.Logger.Warnf("Push message %s: no user identifier, dropping",
			envelope.Message.MessageID)
		return types.Ack
	}

	op := types.ParseOperation(payload.Action)
	outcome := w.applier.ApplyRecord(op, types.Record{"email": identifier})

	switch {
	case outcome.Success:
		w.config.Logger.Debugf("Push message %s: %s %s ok",
			envelope.Message.MessageID, op, identifier)
		return types.Ack
	case outcome.StatusCode == 0:
		w.config.Logger.Warnf("Push message %s: %s %s failed without a response: %s",
			envelope.Message.MessageID, op, identifier, outcome.Reason)
		return types.RetryRequested
	default:
		w.config.Logger.Warnf("Push message %s: %s %s rejected remotely: %s",
			envelope.Message.MessageID, op, identifier, outcome.Reason)
		if w.config.AckRemoteRejections {
			return types.Ack
		}
		return types.RetryRequested
	}
}

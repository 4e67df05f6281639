package service

import (
	"context"

	"Doubts_Clearance/internal/pkg"

	"go.uber.org/zap"
)

const drainBatchSize = 32

// EventDrainer pushes pending outbox rows to kafka after a mutation commits.
// Draining is synchronous and best-effort: rows that fail are parked in the
// failed state with a bumped retry counter for offline reconciliation.
type EventDrainer struct {
	outbox   OutboxStore
	producer EventSender
	logger   *zap.Logger
}

func NewEventDrainer(outbox OutboxStore, producer EventSender, logger *zap.Logger) *EventDrainer {
	return &EventDrainer{outbox: outbox, producer: producer, logger: logger}
}

// Drain publishes up to one batch of pending events. Never returns an error:
// event delivery must not affect the caller's committed write.
func (d *EventDrainer) Drain(ctx context.Context) {
	if d == nil || d.producer == nil {
		return
	}
	rows, err := d.outbox.ListPending(ctx, drainBatchSize)
	if err != nil {
		d.logger.Warn("outbox list failed", zap.Error(err))
		return
	}
	for _, row := range rows {
		if err := d.producer.Send(ctx, pkg.DoubtEventKey(row.DoubtID), []byte(row.Payload)); err != nil {
			d.logger.Warn("outbox publish failed",
				zap.Uint64("outbox_id", row.ID),
				zap.String("event", row.EventType),
				zap.Error(err))
			_ = d.outbox.MarkFailed(ctx, row.ID)
			continue
		}
		_ = d.outbox.MarkSent(ctx, row.ID)
	}
}

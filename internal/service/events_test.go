package service

import (
	"context"
	"errors"
	"testing"

	"Doubts_Clearance/internal/model"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type recordingOutbox struct {
	fakeOutboxStore
	pending []model.DoubtOutbox
	sent    []uint64
	failed  []uint64
}

func (o *recordingOutbox) ListPending(_ context.Context, _ int) ([]model.DoubtOutbox, error) {
	return o.pending, nil
}

func (o *recordingOutbox) MarkSent(_ context.Context, id uint64) error {
	o.sent = append(o.sent, id)
	return nil
}

func (o *recordingOutbox) MarkFailed(_ context.Context, id uint64) error {
	o.failed = append(o.failed, id)
	return nil
}

type fakeSender struct {
	failKeys map[string]bool
	sent     []string
}

func (s *fakeSender) Send(_ context.Context, key string, _ []byte) error {
	if s.failKeys[key] {
		return errors.New("broker unavailable")
	}
	s.sent = append(s.sent, key)
	return nil
}

func TestDrainPublishesPending(t *testing.T) {
	outbox := &recordingOutbox{pending: []model.DoubtOutbox{
		{ID: 1, DoubtID: 7, EventType: model.EventDoubtCreated, Payload: "{}"},
		{ID: 2, DoubtID: 7, EventType: model.EventDoubtVoted, Payload: "{}"},
	}}
	sender := &fakeSender{}

	NewEventDrainer(outbox, sender, zap.NewNop()).Drain(context.Background())

	assert.Equal(t, []string{"7", "7"}, sender.sent)
	assert.Equal(t, []uint64{1, 2}, outbox.sent)
	assert.Empty(t, outbox.failed)
}

func TestDrainKeepsFailedRows(t *testing.T) {
	outbox := &recordingOutbox{pending: []model.DoubtOutbox{
		{ID: 1, DoubtID: 7, Payload: "{}"},
		{ID: 2, DoubtID: 8, Payload: "{}"},
	}}
	sender := &fakeSender{failKeys: map[string]bool{"7": true}}

	NewEventDrainer(outbox, sender, zap.NewNop()).Drain(context.Background())

	assert.Equal(t, []uint64{1}, outbox.failed)
	assert.Equal(t, []uint64{2}, outbox.sent)
}

func TestDrainNilSafe(t *testing.T) {
	var d *EventDrainer
	d.Drain(context.Background())
	NewEventDrainer(&recordingOutbox{}, nil, zap.NewNop()).Drain(context.Background())
}

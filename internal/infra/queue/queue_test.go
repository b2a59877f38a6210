package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	exchange, key string
	msg           amqp.Publishing
	err           error
}

func (f *fakePublisher) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

type fakeAck struct {
	mu      sync.Mutex
	acks    int
	nacks   int
	requeue []bool
}

func (a *fakeAck) Ack(uint64, bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acks++
	return nil
}

func (a *fakeAck) Nack(_ uint64, _ bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacks++
	a.requeue = append(a.requeue, requeue)
	return nil
}

func (a *fakeAck) Reject(uint64, bool) error { return nil }

func (a *fakeAck) counts() (int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.acks, a.nacks
}

type fakeConsumer struct {
	msgs chan amqp.Delivery
	err  error
}

func (f *fakeConsumer) Consume(string, string, bool, bool, bool, bool, amqp.Table) (<-chan amqp.Delivery, error) {
	return f.msgs, f.err
}

func TestPublishMutationFillsEnvelope(t *testing.T) {
	pub := &fakePublisher{}
	p := NewAuditProducer(pub, zerolog.Nop())

	err := p.PublishMutation(context.Background(), MutationEvent{Kind: KindLeadsDelete, Mode: "bulk", LeadIDs: []int64{1, 2}})
	require.NoError(t, err)

	assert.Equal(t, ExchangeName, pub.exchange)
	assert.Equal(t, RoutingKey, pub.key)
	assert.Equal(t, amqp.Persistent, pub.msg.DeliveryMode)
	assert.Equal(t, KindLeadsDelete, pub.msg.Type)

	var got MutationEvent
	require.NoError(t, json.Unmarshal(pub.msg.Body, &got))
	assert.NotEmpty(t, got.EventID)
	assert.Equal(t, pub.msg.MessageId, got.EventID)
	assert.Equal(t, []int64{1, 2}, got.LeadIDs)
	assert.False(t, got.OccurredAt.IsZero())
}

func TestPublishMutationWrapsBrokerError(t *testing.T) {
	p := NewAuditProducer(&fakePublisher{err: errors.New("channel closed")}, zerolog.Nop())
	err := p.PublishMutation(context.Background(), MutationEvent{Kind: KindPromptCreate})
	assert.ErrorContains(t, err, "channel closed")
}

func TestAuditWorkerAcksValidAndDropsMalformed(t *testing.T) {
	ack := &fakeAck{}
	msgs := make(chan amqp.Delivery, 3)

	valid, _ := json.Marshal(MutationEvent{EventID: "e-1", Kind: KindLeadEdit, LeadIDs: []int64{7}})
	msgs <- amqp.Delivery{Acknowledger: ack, Body: valid}
	msgs <- amqp.Delivery{Acknowledger: ack, Body: []byte("{quebrado")}
	msgs <- amqp.Delivery{Acknowledger: ack, Body: []byte(`{"kind":"lead.edit"}`)}

	var mu sync.Mutex
	var handled []MutationEvent
	w := NewAuditWorker(&fakeConsumer{msgs: msgs}, func(_ context.Context, e MutationEvent) error {
		mu.Lock()
		defer mu.Unlock()
		handled = append(handled, e)
		return nil
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx, QueueName) }()

	require.Eventually(t, func() bool {
		a, n := ack.counts()
		return a+n == 3
	}, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	acks, nacks := ack.counts()
	assert.Equal(t, 1, acks)
	assert.Equal(t, 2, nacks)
	assert.Equal(t, []bool{false, false}, ack.requeue)
	require.Len(t, handled, 1)
	assert.Equal(t, "e-1", handled[0].EventID)
}

func TestAuditWorkerNacksHandlerFailure(t *testing.T) {
	ack := &fakeAck{}
	msgs := make(chan amqp.Delivery, 1)
	body, _ := json.Marshal(MutationEvent{EventID: "e-2", Kind: KindPromptDelete})
	msgs <- amqp.Delivery{Acknowledger: ack, Body: body}
	close(msgs)

	w := NewAuditWorker(&fakeConsumer{msgs: msgs}, func(context.Context, MutationEvent) error {
		return errors.New("destino indisponível")
	}, zerolog.Nop())

	err := w.Start(context.Background(), QueueName)
	assert.ErrorContains(t, err, "canal de consumo fechado")

	acks, nacks := ack.counts()
	assert.Equal(t, 0, acks)
	assert.Equal(t, 1, nacks)
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.PublishMutation(context.Background(), MutationEvent{}))
}

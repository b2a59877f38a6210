package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// AuditHandler processa um evento já decodificado.
type AuditHandler func(ctx context.Context, event MutationEvent) error

// Consumer é o pedaço do canal que o worker usa; *amqp.Channel satisfaz.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type AuditWorker struct {
	Channel Consumer
	Handle  AuditHandler
	log     zerolog.Logger
}

func NewAuditWorker(ch Consumer, handle AuditHandler, log zerolog.Logger) *AuditWorker {
	if handle == nil {
		handle = LogHandler(log)
	}
	return &AuditWorker{Channel: ch, Handle: handle, log: log}
}

// LogHandler só registra o evento; é o destino padrão da fila de auditoria.
func LogHandler(log zerolog.Logger) AuditHandler {
	return func(_ context.Context, e MutationEvent) error {
		log.Info().
			Str("event_id", e.EventID).
			Str("kind", e.Kind).
			Str("mode", e.Mode).
			Ints64("lead_ids", e.LeadIDs).
			Int64("prompt_id", e.PromptID).
			Strs("changed", e.Changed).
			Time("occurred_at", e.OccurredAt).
			Msg("mutação auditada")
		return nil
	}
}

// Start consome a fila até o contexto ser cancelado ou o canal fechar.
func (w *AuditWorker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	w.log.Info().Str("queue", queueName).Msg("worker de auditoria aguardando mensagens")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("worker de auditoria encerrado")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("canal de consumo fechado pelo broker")
			}
			w.process(ctx, d)
		}
	}
}

func (w *AuditWorker) process(ctx context.Context, d amqp.Delivery) {
	var event MutationEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		w.log.Error().Err(err).Msg("evento de auditoria com JSON inválido")
		// mensagem podre vai pra DLQ, sem requeue
		d.Nack(false, false)
		return
	}
	if err := event.Validate(); err != nil {
		w.log.Error().Err(err).Msg("evento de auditoria incompleto")
		d.Nack(false, false)
		return
	}

	if err := w.Handle(ctx, event); err != nil {
		w.log.Error().Err(err).Str("event_id", event.EventID).Msg("falha ao processar evento de auditoria")
		d.Nack(false, false)
		return
	}
	d.Ack(false)
}

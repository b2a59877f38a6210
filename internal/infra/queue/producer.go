package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const (
	KindLeadsDelete     = "leads.delete"
	KindLeadEdit        = "lead.edit"
	KindPromptCreate    = "prompt.create"
	KindPromptUpdate    = "prompt.update"
	KindPromptDelete    = "prompt.delete"
	KindPromptToggle    = "prompt.toggle"
	KindPromptDuplicate = "prompt.duplicate"
)

// MutationEvent descreve uma mutação já confirmada pelo webhook.
type MutationEvent struct {
	EventID    string    `json:"event_id"`
	Kind       string    `json:"kind"`
	Mode       string    `json:"mode,omitempty"`
	LeadIDs    []int64   `json:"lead_ids,omitempty"`
	PromptID   int64     `json:"prompt_id,omitempty"`
	Changed    []string  `json:"changed,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e MutationEvent) Validate() error {
	if e.EventID == "" {
		return fmt.Errorf("evento sem event_id")
	}
	if e.Kind == "" {
		return fmt.Errorf("evento %s sem kind", e.EventID)
	}
	return nil
}

// Publisher é o canal mínimo usado pelo produtor; *amqp.Channel satisfaz.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type AuditProducer struct {
	Ch  Publisher
	log zerolog.Logger
}

func NewAuditProducer(ch Publisher, log zerolog.Logger) *AuditProducer {
	return &AuditProducer{Ch: ch, log: log}
}

func (p *AuditProducer) PublishMutation(ctx context.Context, event MutationEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("erro ao converter evento de auditoria: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    event.EventID,
			Timestamp:    event.OccurredAt,
			Type:         event.Kind,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}

	p.log.Debug().Str("event_id", event.EventID).Str("kind", event.Kind).Msg("evento de auditoria publicado")
	return nil
}

// NoopPublisher é usado quando não há broker configurado.
type NoopPublisher struct{}

func (NoopPublisher) PublishMutation(context.Context, MutationEvent) error { return nil }

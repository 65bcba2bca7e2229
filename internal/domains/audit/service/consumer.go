package service

import (
	"context"
	"hotel/config"
	"hotel/infras/kafka"
	"hotel/internal/domains/audit/model"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// Consumer moves audit events from the audit topic into the audit table.
type Consumer struct {
	cfg    *config.Config
	client kafka.Client
	audit  Audit
}

func NewConsumer(cfg *config.Config, client kafka.Client, audit Audit) *Consumer {
	return &Consumer{cfg: cfg, client: client, audit: audit}
}

// Run blocks until ctx is cancelled. It returns immediately when Kafka is disabled.
func (c *Consumer) Run(ctx context.Context) {
	if !c.cfg.Kafka.Enable {
		return
	}

	log.Info().Str("topic", c.cfg.Kafka.AuditTopic).Msg("Audit consumer started")

	c.client.Consume(ctx, c.cfg.Kafka.ConsumerGroup, c.cfg.Kafka.AuditTopic, c.Handle)
}

func (c *Consumer) Handle(ctx context.Context, message kafkaGo.Message) error {
	entry, err := kafka.Decode[model.Log](message)
	if err != nil {
		// a payload that cannot be decoded will never succeed, skip it
		log.Error().Err(err).Str("key", string(message.Key)).Msg("dropping malformed audit event")

		return nil
	}

	return c.audit.Store(ctx, entry) //nolint:wrapcheck
}

package service

import (
	"context"
	"fmt"
	"hotel/infras/kafka"
	"hotel/internal/domains/audit/model"
	"hotel/internal/domains/audit/repository"
)

type kafkaSink struct {
	client kafka.Client
	topic  string
}

func NewKafkaSink(client kafka.Client, topic string) Sink {
	return &kafkaSink{client: client, topic: topic}
}

func (s *kafkaSink) Write(ctx context.Context, entry model.Log) error {
	if err := s.client.SendMessages(ctx, s.topic, kafka.Message{Key: entry.ID, Value: entry}); err != nil {
		return fmt.Errorf("failed to publish audit event: %w", err)
	}

	return nil
}

type storeSink struct {
	repo repository.Audit
}

func NewStoreSink(repo repository.Audit) Sink {
	return &storeSink{repo: repo}
}

func (s *storeSink) Write(ctx context.Context, entry model.Log) error {
	if err := s.repo.Insert(ctx, entry); err != nil {
		return fmt.Errorf("failed to store audit event: %w", err)
	}

	return nil
}

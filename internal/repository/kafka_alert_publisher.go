package repository

import (
	"context"
	"strconv"

	"MarketDash/internal/domain/models"
	domrepo "MarketDash/internal/domain/repository"
	pkgkafka "MarketDash/pkg/kafka"
)

// KafkaAlertPublisher implements AlertPublisher. Alerts are keyed by
// analysis id so replays of one run land on one partition.
type KafkaAlertPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

var _ domrepo.AlertPublisher = (*KafkaAlertPublisher)(nil)

func NewKafkaAlertPublisher(producer *pkgkafka.Producer, topic string) *KafkaAlertPublisher {
	return &KafkaAlertPublisher{producer: producer, topic: topic}
}

func (p *KafkaAlertPublisher) PublishAlert(ctx context.Context, alert models.Alert) error {
	return p.producer.Publish(ctx, alertMessage(p.topic, alert))
}

func (p *KafkaAlertPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// alertMessage carries the level in a header so consumers can filter without
// decoding the body.
func alertMessage(topic string, alert models.Alert) pkgkafka.Message {
	return pkgkafka.Message{
		Topic: topic,
		Key:   alert.AnalysisID,
		Value: alert,
		Headers: map[string]string{
			"alert-id":      alert.ID,
			"warning-level": alert.WarningLevel,
			"warnings":      strconv.Itoa(len(alert.Warnings)),
		},
	}
}

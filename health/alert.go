package health

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"gmscraper/types"

	"github.com/IBM/sarama"
)

// AlertSink receives critical-source notifications. The transport is the
// deployment's concern; the monitor only emits.
type AlertSink interface {
	SendAlert(status types.SourceHealthStatus) error
}

// LogSink writes alerts to the process log. The default when nothing else
// is configured.
type LogSink struct{}

func (LogSink) SendAlert(status types.SourceHealthStatus) error {
	lastSuccess := "never"
	if status.LastSuccessfulScrape != nil {
		lastSuccess = status.LastSuccessfulScrape.Format(time.RFC3339)
	}
	log.Printf("ALERT: source %s is %s (failures=%d, lastSuccess=%s, lastError=%q)",
		status.Source, status.Status, status.FailureCount, lastSuccess, status.LastError)
	return nil
}

type alertMessage struct {
	Source       string            `json:"source"`
	Status       types.HealthState `json:"status"`
	FailureCount int               `json:"failure_count"`
	LastSuccess  *time.Time        `json:"last_success,omitempty"`
	LastError    string            `json:"last_error,omitempty"`
	EmittedAt    time.Time         `json:"emitted_at"`
}

// KafkaSink publishes alerts to a Kafka topic for whatever pager or admin
// bot consumes them.
type KafkaSink struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaSink connects a synchronous producer to the given brokers.
func NewKafkaSink(brokers []string, topic string) (*KafkaSink, error) {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V3_6_0_0
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForLocal

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &KafkaSink{producer: producer, topic: topic}, nil
}

func (k *KafkaSink) SendAlert(status types.SourceHealthStatus) error {
	msg := alertMessage{
		Source:       status.Source,
		Status:       status.Status,
		FailureCount: status.FailureCount,
		LastSuccess:  status.LastSuccessfulScrape,
		LastError:    status.LastError,
		EmittedAt:    time.Now(),
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode alert: %w", err)
	}

	_, _, err = k.producer.SendMessage(&sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(status.Source),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("failed to publish alert: %w", err)
	}
	return nil
}

// Close shuts the producer down.
func (k *KafkaSink) Close() error {
	return k.producer.Close()
}

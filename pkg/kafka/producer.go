package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/kafka-go"
)

// Message is one record to publish. Value is sent as is when it is []byte or
// string and JSON encoded otherwise.
type Message struct {
	Topic   string
	Key     string
	Value   any
	Headers map[string]string
}

// Producer publishes messages through a single kafka.Writer.
type Producer struct {
	writer *kafka.Writer
	codec  string
}

func NewProducer(opts ...ProducerOption) (*Producer, error) {
	cfg := &ProducerConfig{
		RequiredAcks: -1,
		MaxAttempts:  3,
		Compression:  "gzip",
		BatchSize:    100,
		BatchBytes:   1 << 20,
		Linger:       100 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka producer: no brokers")
	}
	codec, err := compressionCodec(cfg.Compression)
	if err != nil {
		return nil, err
	}

	var balancer kafka.Balancer = &kafka.LeastBytes{}
	if cfg.HashByKey {
		balancer = &kafka.Hash{}
	}

	producerMetricsOnce.Do(registerProducerMetrics)
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Balancer:     balancer,
			RequiredAcks: kafka.RequiredAcks(cfg.RequiredAcks),
			MaxAttempts:  cfg.MaxAttempts,
			Compression:  codec,
			BatchSize:    cfg.BatchSize,
			BatchBytes:   int64(cfg.BatchBytes),
			BatchTimeout: cfg.Linger,
			WriteTimeout: cfg.WriteTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			Async:        cfg.Async,
		},
		codec: cfg.Compression,
	}, nil
}

// Publish writes msgs in one call; they may span topics.
func (p *Producer) Publish(ctx context.Context, msgs ...Message) error {
	if len(msgs) == 0 {
		return nil
	}
	out := make([]kafka.Message, 0, len(msgs))
	for _, m := range msgs {
		km, err := toKafkaMessage(m)
		if err != nil {
			return err
		}
		out = append(out, km)
	}

	start := time.Now()
	err := p.writer.WriteMessages(ctx, out...)
	for _, km := range out {
		observePublish(km.Topic, p.codec, len(km.Value), time.Since(start), err)
	}
	if err != nil {
		return fmt.Errorf("kafka publish: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

func toKafkaMessage(m Message) (kafka.Message, error) {
	var value []byte
	switch v := m.Value.(type) {
	case []byte:
		value = v
	case string:
		value = []byte(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return kafka.Message{}, fmt.Errorf("encode %s message: %w", m.Topic, err)
		}
		value = data
	}

	km := kafka.Message{Topic: m.Topic, Value: value, Time: time.Now()}
	if m.Key != "" {
		km.Key = []byte(m.Key)
	}
	for k, v := range m.Headers {
		km.Headers = append(km.Headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return km, nil
}

func compressionCodec(name string) (kafka.Compression, error) {
	switch name {
	case "", "gzip":
		return kafka.Gzip, nil
	case "snappy":
		return kafka.Snappy, nil
	case "lz4":
		return kafka.Lz4, nil
	case "zstd":
		return kafka.Zstd, nil
	default:
		return 0, fmt.Errorf("kafka producer: unknown compression %q", name)
	}
}

var (
	producerMetricsOnce sync.Once
	publishedTotal      *prometheus.CounterVec
	publishedBytes      *prometheus.CounterVec
	publishSeconds      *prometheus.HistogramVec
)

func registerProducerMetrics() {
	publishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketdash_kafka_producer_messages_total",
		Help: "Messages handed to Kafka, by result",
	}, []string{"topic", "compression", "result"})
	publishedBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketdash_kafka_producer_bytes_total",
		Help: "Payload bytes handed to Kafka",
	}, []string{"topic"})
	publishSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "marketdash_kafka_producer_publish_seconds",
		Help:    "WriteMessages latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"topic"})
}

func observePublish(topic, codec string, size int, took time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	publishedTotal.WithLabelValues(topic, codec, result).Inc()
	publishedBytes.WithLabelValues(topic).Add(float64(size))
	publishSeconds.WithLabelValues(topic).Observe(took.Seconds())
}

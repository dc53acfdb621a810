package kafka

import (
	"testing"

	"github.com/segmentio/kafka-go"
)

func TestToKafkaMessage(t *testing.T) {
	km, err := toKafkaMessage(Message{
		Topic:   "alerts",
		Key:     "run-1",
		Value:   map[string]int{"score": 42},
		Headers: map[string]string{"warning-level": "HIGH"},
	})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if km.Topic != "alerts" || string(km.Key) != "run-1" || string(km.Value) != `{"score":42}` {
		t.Fatalf("unexpected message %+v", km)
	}
	if len(km.Headers) != 1 || km.Headers[0].Key != "warning-level" || string(km.Headers[0].Value) != "HIGH" {
		t.Fatalf("headers not copied: %+v", km.Headers)
	}

	raw, err := toKafkaMessage(Message{Topic: "t", Value: "plain"})
	if err != nil || string(raw.Value) != "plain" || raw.Key != nil {
		t.Fatalf("string value must pass through unkeyed: %+v %v", raw, err)
	}
}

func TestToKafkaMessageEncodeError(t *testing.T) {
	if _, err := toKafkaMessage(Message{Topic: "t", Value: make(chan int)}); err == nil {
		t.Fatalf("expected encode error")
	}
}

func TestCompressionCodec(t *testing.T) {
	if c, err := compressionCodec(""); err != nil || c != kafka.Gzip {
		t.Fatalf("empty codec should default to gzip: %v %v", c, err)
	}
	if c, err := compressionCodec("zstd"); err != nil || c != kafka.Zstd {
		t.Fatalf("zstd: %v %v", c, err)
	}
	if _, err := compressionCodec("brotli"); err == nil {
		t.Fatalf("expected error for unknown codec")
	}
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	if _, err := NewProducer(); err == nil {
		t.Fatalf("expected error without brokers")
	}
}

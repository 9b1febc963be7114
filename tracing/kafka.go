package tracing

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
)

// KafkaTraceWriter publishes every record as a JSON message. Messages of one
// run share the run label as key, so they land on one partition in order.
type KafkaTraceWriter struct {
	producer sarama.SyncProducer
	topic    string
}

// kafkaMessage is the JSON payload of a trace message.
type kafkaMessage struct {
	Run   string   `json:"run,omitempty"`
	Seq   uint64   `json:"seq"`
	Time  float64  `json:"time"`
	Event string   `json:"event"`
	Notes []string `json:"notes,omitempty"`
	Fatal string   `json:"fatal,omitempty"`
}

// NewKafkaProducer connects a synchronous producer to the brokers.
func NewKafkaProducer(brokers []string) (sarama.SyncProducer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Net.DialTimeout = 30 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sarama producer: %w", err)
	}

	return producer, nil
}

// NewKafkaTraceWriter creates a writer that publishes to topic.
func NewKafkaTraceWriter(producer sarama.SyncProducer, topic string) *KafkaTraceWriter {
	return &KafkaTraceWriter{producer: producer, topic: topic}
}

// Write publishes a record and waits for the acknowledgement.
func (t *KafkaTraceWriter) Write(r Record) error {
	value, err := json.Marshal(kafkaMessage{
		Run:   r.Run,
		Seq:   r.Seq,
		Time:  r.Time,
		Event: r.Event,
		Notes: r.Notes,
		Fatal: r.Fatal,
	})
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: t.topic,
		Value: sarama.ByteEncoder(value),
	}
	if r.Run != "" {
		msg.Key = sarama.StringEncoder(r.Run)
	}

	_, _, err = t.producer.SendMessage(msg)

	return err
}

// Flush does nothing; every Write is synchronous.
func (t *KafkaTraceWriter) Flush() error {
	return nil
}

// Close closes the producer.
func (t *KafkaTraceWriter) Close() error {
	return t.producer.Close()
}

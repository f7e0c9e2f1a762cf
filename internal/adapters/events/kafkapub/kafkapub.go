// Package kafkapub publishes JSON events to a kafka topic
package kafkapub

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	perr "leadscore/internal/platform/errors"
	"leadscore/internal/platform/logger"

	"github.com/segmentio/kafka-go"
)

// Config selects brokers and topic
type Config struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// messageWriter is the slice of *kafka.Writer the publisher needs
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes keyed JSON messages, safe for concurrent use
type Publisher struct {
	w       messageWriter
	topic   string
	timeout time.Duration
	log     logger.Logger
}

// New builds a synchronous writer that waits for the leader ack
func New(cfg Config) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafkapub: no brokers configured")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafkapub: no topic configured")
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}
	return newWithWriter(w, cfg), nil
}

func newWithWriter(w messageWriter, cfg Config) *Publisher {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	return &Publisher{w: w, topic: cfg.Topic, timeout: cfg.WriteTimeout, log: *logger.Named("kafkapub")}
}

// Publish encodes v as JSON and writes it under key
// the event type travels in the "type" header
func (p *Publisher) Publish(ctx context.Context, eventType, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode "+eventType)
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	msg := kafka.Message{
		Key:     []byte(key),
		Value:   body,
		Time:    time.Now().UTC(),
		Headers: []kafka.Header{{Key: "type", Value: []byte(eventType)}},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "publish %s to %s", eventType, p.topic)
	}
	p.log.Debug().Str("topic", p.topic).Str("type", eventType).Str("key", key).Msg("event published")
	return nil
}

// Close flushes pending writes and releases connections
func (p *Publisher) Close() error {
	if p == nil || p.w == nil {
		return nil
	}
	return p.w.Close()
}

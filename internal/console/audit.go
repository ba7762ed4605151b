package console

import (
	"context"
	"time"

	"github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/resilience"
)

// AuditEvent describes one executed command.
type AuditEvent struct {
	SessionID string        `json:"session_id"`
	Command   string        `json:"command"`
	Argument  string        `json:"argument,omitempty"`
	Outcome   string        `json:"outcome"`
	Duration  time.Duration `json:"duration_ns"`
	At        time.Time     `json:"at"`
}

// Auditor records executed commands. A failing Auditor never fails the
// command.
type Auditor interface {
	Record(ctx context.Context, event AuditEvent) error
}

// Publisher is the write side of a message broker.
type Publisher interface {
	Publish(ctx context.Context, event kafka.Event) error
}

// KafkaAuditor publishes audit events keyed by session id, so the events of
// one session land on one partition in order.
type KafkaAuditor struct {
	publisher Publisher
	timeout   time.Duration
	breaker   *resilience.Breaker
}

// NewKafkaAuditor returns an auditor bounding each publish by timeout
// (unbounded when zero). A non-nil breaker skips publishing while the broker
// keeps failing.
func NewKafkaAuditor(publisher Publisher, timeout time.Duration, breaker *resilience.Breaker) *KafkaAuditor {
	return &KafkaAuditor{publisher: publisher, timeout: timeout, breaker: breaker}
}

func (a *KafkaAuditor) Record(ctx context.Context, event AuditEvent) error {
	if a.breaker == nil {
		return a.publish(ctx, event)
	}
	return a.breaker.Do(ctx, func(ctx context.Context) error {
		return a.publish(ctx, event)
	})
}

func (a *KafkaAuditor) publish(ctx context.Context, event AuditEvent) error {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	return a.publisher.Publish(ctx, kafka.Event{Key: event.SessionID, Value: event})
}

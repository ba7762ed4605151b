package mock

import (
	"context"

	"github.com/Adithya-Monish-Kumar-K/geoindex-console/internal/console"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/kafka"
)

var (
	_ console.Auditor   = (*Auditor)(nil)
	_ console.Publisher = (*Publisher)(nil)
)

// Auditor is a mock implementation of console.Auditor.
type Auditor struct {
	RecordFn func(ctx context.Context, event console.AuditEvent) error
}

func (a *Auditor) Record(ctx context.Context, event console.AuditEvent) error {
	return a.RecordFn(ctx, event)
}

// Publisher is a mock implementation of console.Publisher.
type Publisher struct {
	PublishFn func(ctx context.Context, event kafka.Event) error
}

func (p *Publisher) Publish(ctx context.Context, event kafka.Event) error {
	return p.PublishFn(ctx, event)
}

package main

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/Creatishin/flora-knots-be/internal/catalog"
	"github.com/Creatishin/flora-knots-be/internal/hooks"
)

// Processor drains the hook queue and applies sales-counter adjustments to
// the catalog.
type Processor struct {
	products *catalog.ProductStore
	log      *zap.Logger
}

// NewProcessor creates a Processor bound to the products table.
func NewProcessor(products *catalog.ProductStore, log *zap.Logger) *Processor {
	return &Processor{products: products, log: log}
}

// Handle processes an SQS batch. Adjustments are best-effort on both sides
// of the queue, so a malformed body is logged and skipped rather than
// returned for retry; redelivery cannot fix it and the counters tolerate
// drift.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	p.log.Info("received hook events", zap.Int("count", len(ev.Records)))
	for _, rec := range ev.Records {
		var event hooks.Event
		if err := json.Unmarshal([]byte(rec.Body), &event); err != nil {
			p.log.Warn("skipping malformed hook event",
				zap.String("message_id", rec.MessageId),
				zap.Error(err))
			continue
		}
		p.log.Info("applying hook event",
			zap.String("type", event.Type),
			zap.String("order_id", event.OrderID),
			zap.Int("adjustments", len(event.Adjustments)))
		hooks.Apply(ctx, p.products, event, p.log)
	}
	return nil
}

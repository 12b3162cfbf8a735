package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"

	"github.com/imrishuroy/go-storefront/internal/cart"
)

// OrphanRemover deletes the cart line items named by a reconcile message
// whose product is still missing.
type OrphanRemover interface {
	Remove(ctx context.Context, msg cart.ReconcileMessage) (int, error)
}

// Processor handles cart reconcile messages from SQS.
type Processor struct {
	remover OrphanRemover
}

func NewProcessor(remover OrphanRemover) *Processor {
	return &Processor{remover: remover}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	log.Printf("[worker] received %d SQS messages", len(ev.Records))
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Lambda retries the batch; repeated failures land in the DLQ.
			log.Printf("[worker] error message_id=%s: %v", rec.MessageId, err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg cart.ReconcileMessage
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}

	// Removal re-checks the catalog, so redelivered messages are harmless.
	n, err := p.remover.Remove(ctx, msg)
	if err != nil {
		return fmt.Errorf("reconcile user=%s: %w", msg.UserID, err)
	}
	log.Printf("[worker] reconciled user=%s candidates=%d removed=%d", msg.UserID, len(msg.ProductIDs), n)
	return nil
}

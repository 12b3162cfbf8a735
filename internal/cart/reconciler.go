package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/imrishuroy/go-storefront/internal/telemetry"
)

// ItemRemover deletes line items idempotently.
type ItemRemover interface {
	RemoveItems(ctx context.Context, userID string, productIDs []string) (int, error)
}

// InlineReconciler removes orphaned line items during the request that
// found them.
type InlineReconciler struct {
	carts   ItemRemover
	metrics telemetry.Counter
}

func NewInlineReconciler(carts ItemRemover, metrics telemetry.Counter) *InlineReconciler {
	return &InlineReconciler{carts: carts, metrics: telemetry.OrNop(metrics)}
}

func (r *InlineReconciler) Reconcile(ctx context.Context, userID string, productIDs []string) error {
	n, err := r.carts.RemoveItems(ctx, userID, productIDs)
	if err != nil {
		return fmt.Errorf("remove orphaned items: %w", err)
	}
	r.metrics.Count(ctx, telemetry.MetricCartOrphansRemoved, float64(n), nil)
	log.Printf("[cart] reconciled user=%s removed=%d", userID, n)
	return nil
}

// MessagePublisher sends a message body to a queue.
type MessagePublisher interface {
	SendMessage(ctx context.Context, messageBody string, attributes map[string]string) error
}

// QueueReconciler defers orphan removal to the reconcile worker.
type QueueReconciler struct {
	publisher MessagePublisher
}

func NewQueueReconciler(publisher MessagePublisher) *QueueReconciler {
	return &QueueReconciler{publisher: publisher}
}

func (r *QueueReconciler) Reconcile(ctx context.Context, userID string, productIDs []string) error {
	body, err := json.Marshal(ReconcileMessage{UserID: userID, ProductIDs: productIDs})
	if err != nil {
		return fmt.Errorf("marshal reconcile message: %w", err)
	}
	if err := r.publisher.SendMessage(ctx, string(body), map[string]string{"kind": "cart.reconcile"}); err != nil {
		return fmt.Errorf("enqueue reconcile: %w", err)
	}
	log.Printf("[cart] reconcile queued user=%s orphans=%d", userID, len(productIDs))
	return nil
}

// OrphanRemover re-checks queued product ids against the catalog and drops
// the line items whose product is still missing. Used by the worker.
type OrphanRemover struct {
	carts    ItemRemover
	products ProductLookup
	metrics  telemetry.Counter
}

func NewOrphanRemover(carts ItemRemover, products ProductLookup, metrics telemetry.Counter) *OrphanRemover {
	return &OrphanRemover{carts: carts, products: products, metrics: telemetry.OrNop(metrics)}
}

// Remove returns how many line items were deleted.
func (o *OrphanRemover) Remove(ctx context.Context, msg ReconcileMessage) (int, error) {
	if msg.UserID == "" {
		return 0, fmt.Errorf("reconcile message: user_id is required")
	}
	if len(msg.ProductIDs) == 0 {
		return 0, nil
	}
	live, err := o.products.FindByIDs(ctx, msg.ProductIDs)
	if err != nil {
		return 0, fmt.Errorf("find products: %w", err)
	}
	missing := make([]string, 0, len(msg.ProductIDs))
	for _, id := range msg.ProductIDs {
		if _, ok := live[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return 0, nil
	}
	n, err := o.carts.RemoveItems(ctx, msg.UserID, missing)
	if err != nil {
		return n, fmt.Errorf("remove orphaned items: %w", err)
	}
	o.metrics.Count(ctx, telemetry.MetricCartOrphansRemoved, float64(n), nil)
	return n, nil
}

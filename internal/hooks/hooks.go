// Package hooks runs best-effort post-commit side effects. Order handlers
// dispatch an event after the order is durable; execution failures are
// logged and never surfaced to the request that queued them.
package hooks

import (
	"context"

	"go.uber.org/zap"

	"github.com/Creatishin/flora-knots-be/internal/catalog"
)

// Event types.
const (
	EventOrderPlaced    = "order.placed"
	EventOrderCancelled = "order.cancelled"
)

// SalesAdjustment shifts one product's sales counter by Delta.
type SalesAdjustment struct {
	ProductID string `json:"product_id"`
	Delta     int    `json:"delta"`
	// CheckBestSeller asks the applier to demote the product's best-seller
	// flag if the counter has fallen under the threshold. Set on
	// cancellations only.
	CheckBestSeller bool `json:"check_best_seller,omitempty"`
}

// Event is one post-commit task.
type Event struct {
	Type        string            `json:"type"`
	OrderID     string            `json:"order_id"`
	Adjustments []SalesAdjustment `json:"adjustments"`
}

// Dispatcher hands events off for execution after the triggering write has
// committed. Implementations never report failure to the caller.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev Event)
}

// Applier executes the catalog mutations an event describes.
type Applier interface {
	IncrementSalesCount(ctx context.Context, productID string, delta int) (*catalog.Product, error)
	DemoteBestSeller(ctx context.Context, productID string) error
}

// Apply performs each adjustment independently: a failed adjustment is
// logged and the rest still run. The sales counter is an analytics signal,
// not an inventory ledger, so drift here is tolerated.
func Apply(ctx context.Context, applier Applier, ev Event, log *zap.Logger) {
	for _, adj := range ev.Adjustments {
		p, err := applier.IncrementSalesCount(ctx, adj.ProductID, adj.Delta)
		if err != nil {
			log.Warn("sales count adjustment failed",
				zap.String("order_id", ev.OrderID),
				zap.String("product_id", adj.ProductID),
				zap.Int("delta", adj.Delta),
				zap.Error(err))
			continue
		}
		if !adj.CheckBestSeller || p == nil {
			continue
		}
		if p.BestSeller && p.SalesCount < catalog.BestSellerThreshold {
			if err := applier.DemoteBestSeller(ctx, adj.ProductID); err != nil {
				log.Warn("best seller demotion failed",
					zap.String("product_id", adj.ProductID),
					zap.Error(err))
			}
		}
	}
}

// Package payment wraps the remote gateway that fronts order payments.
package payment

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// Currency every gateway order is created in.
const Currency = "INR"

// CreateOrderInput describes a gateway order. Amount is in minor currency
// units (paise).
type CreateOrderInput struct {
	AmountMinorUnits int64
	Currency         string
	Receipt          string
}

// Gateway creates remote payment orders ahead of capture. It returns the
// gateway's external reference for the new order.
type Gateway interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (string, error)
}

// RazorpayGateway backs Gateway with the Razorpay Orders API.
type RazorpayGateway struct {
	client *razorpay.Client
}

// NewRazorpay builds a gateway from API credentials.
func NewRazorpay(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{client: razorpay.NewClient(keyID, keySecret)}
}

// CreateOrder registers the order with Razorpay with capture enabled.
// The Razorpay SDK does not take a context; cancellation is bounded by the
// client's own HTTP timeout.
func (g *RazorpayGateway) CreateOrder(_ context.Context, in CreateOrderInput) (string, error) {
	data := map[string]interface{}{
		"amount":          in.AmountMinorUnits,
		"currency":        in.Currency,
		"receipt":         in.Receipt,
		"payment_capture": 1,
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("razorpay create order: %w", err)
	}

	id, _ := body["id"].(string)
	if id == "" {
		return "", fmt.Errorf("razorpay create order: response missing id")
	}
	return id, nil
}

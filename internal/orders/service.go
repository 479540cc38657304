package orders

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Creatishin/flora-knots-be/internal/apperr"
	"github.com/Creatishin/flora-knots-be/internal/catalog"
	"github.com/Creatishin/flora-knots-be/internal/hooks"
	"github.com/Creatishin/flora-knots-be/internal/payment"
	"github.com/Creatishin/flora-knots-be/internal/validation"
)

// Catalog is the slice of the product store the order service needs.
type Catalog interface {
	GetByID(ctx context.Context, productID string) (*catalog.Product, error)
}

// Service owns order placement and lifecycle transitions.
type Service struct {
	store   *Store
	catalog Catalog
	gateway payment.Gateway
	hooks   hooks.Dispatcher
	log     *zap.Logger
	nowFunc func() time.Time
}

// NewService wires the order service.
func NewService(store *Store, cat Catalog, gateway payment.Gateway, dispatcher hooks.Dispatcher, log *zap.Logger) *Service {
	return &Service{
		store:   store,
		catalog: cat,
		gateway: gateway,
		hooks:   dispatcher,
		log:     log,
		nowFunc: time.Now,
	}
}

// PlaceOrder validates the cart, prices it against the catalog, registers a
// payment order with the gateway, and persists the result. Sales counters
// are adjusted after the write through the hooks dispatcher.
func (s *Service) PlaceOrder(ctx context.Context, ownerID string, req *validation.PlaceOrderRequest) (*Order, error) {
	if err := validateCart(req); err != nil {
		return nil, err
	}

	items := make([]OrderItem, 0, len(req.OrderItems))
	sum := 0.0
	for _, line := range req.OrderItems {
		p, err := s.catalog.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindProcessing, "resolve product", err)
		}
		if p == nil {
			return nil, apperr.New(apperr.KindValidation,
				fmt.Sprintf("One or more products in your order could not be found: %s", line.ProductID))
		}
		lineTotal := p.Price * (100 - p.Discount) / 100 * float64(line.Quantity)
		items = append(items, OrderItem{
			ProductID:  p.ProductID,
			Name:       p.Name,
			Quantity:   line.Quantity,
			UnitPrice:  p.Price,
			Discount:   p.Discount,
			TotalPrice: lineTotal,
		})
		sum += lineTotal
	}

	// TODO: reject caller totals that disagree with the computed sum once
	// the storefront sends both consistently.
	total := req.Total
	if total == 0 {
		total = sum
	}

	orderID := uuid.New().String()
	receipt := "#" + strings.ReplaceAll(orderID, "-", "")[:8]
	gatewayRef, err := s.gateway.CreateOrder(ctx, payment.CreateOrderInput{
		AmountMinorUnits: int64(math.Round(total * 100)),
		Currency:         payment.Currency,
		Receipt:          receipt,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindProcessing, "create payment order", err)
	}

	now := s.nowFunc().UTC()
	order := &Order{
		OrderID:             orderID,
		OwnerID:             ownerID,
		OrderDate:           now,
		Status:              StatusProcessing,
		Items:               items,
		PersonalizedMessage: req.PersonalizedMessage,
		ShippingDetails:     shippingFromRequest(req.ShippingDetails),
		PaymentDetails: PaymentDetails{
			OrderID:       gatewayRef,
			PaymentStatus: PaymentPending,
		},
		Total: total,
	}
	if req.PaymentDetails != nil {
		order.PaymentDetails.PaymentMethod = req.PaymentDetails.PaymentMethod
		order.PaymentDetails.TransactionReference = req.PaymentDetails.TransactionReference
	}

	if err := s.store.Save(ctx, order); err != nil {
		return nil, apperr.Wrap(apperr.KindProcessing, "save order", err)
	}

	s.hooks.Dispatch(ctx, placementEvent(order))
	return order, nil
}

// GetOrder fetches one order, scoped to the requester unless they are an
// admin.
func (s *Service) GetOrder(ctx context.Context, requesterID string, admin bool, orderID string) (*Order, error) {
	order, err := s.store.GetByID(ctx, orderID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindProcessing, "get order", err)
	}
	if order == nil || (!admin && order.OwnerID != requesterID) {
		return nil, apperr.New(apperr.KindNotFound,
			fmt.Sprintf("Cannot find order with the id: %s.", orderID))
	}
	return order, nil
}

// ListOrders pages through the requester's orders; admins see every order.
func (s *Service) ListOrders(ctx context.Context, requesterID string, admin bool, page, limit int) ([]Order, int, error) {
	owner := requesterID
	if admin {
		owner = ""
	}
	orders, total, err := s.store.ListByOwner(ctx, owner, page, limit)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.KindProcessing, "list orders", err)
	}
	return orders, total, nil
}

// CancelOrder marks the order cancelled and queues sales rollbacks. A second
// cancellation is refused.
func (s *Service) CancelOrder(ctx context.Context, requesterID string, admin bool, orderID string) error {
	order, err := s.GetOrder(ctx, requesterID, admin, orderID)
	if err != nil {
		return err
	}
	if order.Status == StatusCancelled {
		return apperr.New(apperr.KindConflict, "Order is already cancelled.")
	}

	if err := s.store.UpdateStatus(ctx, orderID, StatusCancelled); err != nil {
		return apperr.Wrap(apperr.KindProcessing, "cancel order", err)
	}

	s.hooks.Dispatch(ctx, cancellationEvent(order))
	return nil
}

// SetPaymentStatus updates the payment status. Pending is the initial state;
// asking for it again is a no-op rather than an error.
func (s *Service) SetPaymentStatus(ctx context.Context, requesterID string, admin bool, orderID, status string) (*Order, error) {
	order, err := s.GetOrder(ctx, requesterID, admin, orderID)
	if err != nil {
		return nil, err
	}
	if status == PaymentPending || order.PaymentDetails.PaymentStatus == status {
		return order, nil
	}

	if err := s.store.UpdatePaymentStatus(ctx, orderID, status); err != nil {
		return nil, apperr.Wrap(apperr.KindProcessing, "update payment status", err)
	}
	order.PaymentDetails.PaymentStatus = status
	return order, nil
}

// SetStatus updates the fulfilment status. Cancellation goes through
// CancelOrder so the sales rollback runs; requesting Cancelled here is a
// no-op.
func (s *Service) SetStatus(ctx context.Context, orderID, status string) (*Order, error) {
	order, err := s.store.GetByID(ctx, orderID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindProcessing, "get order", err)
	}
	if order == nil {
		return nil, apperr.New(apperr.KindNotFound,
			fmt.Sprintf("Cannot find order with the id: %s.", orderID))
	}
	if status == StatusCancelled || order.Status == status {
		return order, nil
	}

	if err := s.store.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, apperr.Wrap(apperr.KindProcessing, "update order status", err)
	}
	order.Status = status
	return order, nil
}

func validateCart(req *validation.PlaceOrderRequest) error {
	if len(req.OrderItems) == 0 {
		return apperr.New(apperr.KindValidation, "At least one order item is required")
	}
	for _, line := range req.OrderItems {
		if strings.TrimSpace(line.ProductID) == "" {
			return apperr.New(apperr.KindValidation, "Product ID is required for all items")
		}
		if line.Quantity < 1 {
			return apperr.New(apperr.KindValidation, "Quantity must be at least 1")
		}
	}
	sd := req.ShippingDetails
	if sd == nil || sd.AddressLine1 == "" || sd.City == "" || sd.State == "" || sd.ZipCode == "" || sd.Country == "" {
		return apperr.New(apperr.KindValidation, "Complete shipping details are required")
	}
	return nil
}

func shippingFromRequest(sd *validation.ShippingDetailsRequest) ShippingDetails {
	return ShippingDetails{
		AddressLine1:   sd.AddressLine1,
		AddressLine2:   sd.AddressLine2,
		City:           sd.City,
		State:          sd.State,
		ZipCode:        sd.ZipCode,
		Country:        sd.Country,
		Carrier:        sd.Carrier,
		TrackingNumber: sd.TrackingNumber,
		ShippingMethod: sd.ShippingMethod,
		ShippingCost:   sd.ShippingCost,
	}
}

func placementEvent(order *Order) hooks.Event {
	adjs := make([]hooks.SalesAdjustment, 0, len(order.Items))
	for _, it := range order.Items {
		adjs = append(adjs, hooks.SalesAdjustment{ProductID: it.ProductID, Delta: it.Quantity})
	}
	return hooks.Event{Type: hooks.EventOrderPlaced, OrderID: order.OrderID, Adjustments: adjs}
}

func cancellationEvent(order *Order) hooks.Event {
	adjs := make([]hooks.SalesAdjustment, 0, len(order.Items))
	for _, it := range order.Items {
		adjs = append(adjs, hooks.SalesAdjustment{
			ProductID:       it.ProductID,
			Delta:           -it.Quantity,
			CheckBestSeller: true,
		})
	}
	return hooks.Event{Type: hooks.EventOrderCancelled, OrderID: order.OrderID, Adjustments: adjs}
}

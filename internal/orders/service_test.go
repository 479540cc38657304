package orders

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/Creatishin/flora-knots-be/internal/apperr"
	"github.com/Creatishin/flora-knots-be/internal/catalog"
	"github.com/Creatishin/flora-knots-be/internal/hooks"
	"github.com/Creatishin/flora-knots-be/internal/payment"
	"github.com/Creatishin/flora-knots-be/internal/validation"
)

type mockDynamo struct {
	items      map[string]map[string]types.AttributeValue
	putErr     error
	updateErr  error
	putCalls   int
	lastUpdate *dyn.UpdateItemInput
	lastScan   *dyn.ScanInput
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func keyOf(item map[string]types.AttributeValue) string {
	if v, ok := item["order_id"].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

func (m *mockDynamo) PutItem(_ context.Context, params *dyn.PutItemInput, _ ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.putCalls++
	if m.putErr != nil {
		return nil, m.putErr
	}
	m.items[keyOf(params.Item)] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(_ context.Context, params *dyn.GetItemInput, _ ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	item := m.items[keyOf(params.Key)]
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) UpdateItem(_ context.Context, params *dyn.UpdateItemInput, _ ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.lastUpdate = params
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return &dyn.UpdateItemOutput{}, nil
}

func (m *mockDynamo) DeleteItem(_ context.Context, _ *dyn.DeleteItemInput, _ ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	return &dyn.DeleteItemOutput{}, nil
}

func (m *mockDynamo) Query(_ context.Context, _ *dyn.QueryInput, _ ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	var out []map[string]types.AttributeValue
	for _, item := range m.items {
		out = append(out, item)
	}
	return &dyn.QueryOutput{Items: out}, nil
}

func (m *mockDynamo) Scan(_ context.Context, params *dyn.ScanInput, _ ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	m.lastScan = params
	var out []map[string]types.AttributeValue
	for _, item := range m.items {
		out = append(out, item)
	}
	return &dyn.ScanOutput{Items: out, Count: int32(len(out))}, nil
}

type fakeCatalog struct {
	products map[string]*catalog.Product
}

func (f *fakeCatalog) GetByID(_ context.Context, id string) (*catalog.Product, error) {
	return f.products[id], nil
}

type fakeGateway struct {
	lastInput payment.CreateOrderInput
	err       error
	calls     int
}

func (f *fakeGateway) CreateOrder(_ context.Context, in payment.CreateOrderInput) (string, error) {
	f.calls++
	f.lastInput = in
	if f.err != nil {
		return "", f.err
	}
	return "order_rzp_123", nil
}

type fakeDispatcher struct {
	events []hooks.Event
}

func (f *fakeDispatcher) Dispatch(_ context.Context, ev hooks.Event) {
	f.events = append(f.events, ev)
}

func testService(t *testing.T) (*Service, *mockDynamo, *fakeGateway, *fakeDispatcher) {
	t.Helper()
	db := newMockDynamo()
	store := NewStore(db, "orders-test")
	store.nowFunc = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	cat := &fakeCatalog{products: map[string]*catalog.Product{
		"p1": {ProductID: "p1", Name: "Tulip Knot", Price: 100, Discount: 10, IsActive: true},
		"p2": {ProductID: "p2", Name: "Rose Wreath", Price: 50, IsActive: true},
	}}
	gw := &fakeGateway{}
	disp := &fakeDispatcher{}
	svc := NewService(store, cat, gw, disp, zap.NewNop())
	svc.nowFunc = store.nowFunc
	return svc, db, gw, disp
}

func placeReq() *validation.PlaceOrderRequest {
	return &validation.PlaceOrderRequest{
		OrderItems: []validation.OrderItemRequest{{ProductID: "p1", Quantity: 2}},
		ShippingDetails: &validation.ShippingDetailsRequest{
			AddressLine1: "12 Lily Lane",
			City:         "Pune",
			State:        "MH",
			ZipCode:      "411001",
			Country:      "IN",
		},
	}
}

func TestPlaceOrder_PricesFromCatalog(t *testing.T) {
	svc, db, gw, disp := testService(t)

	order, err := svc.PlaceOrder(context.Background(), "user-1", placeReq())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 100 * 0.9 * 2
	if order.Total != 180 {
		t.Fatalf("expected total 180, got %v", order.Total)
	}
	if order.Items[0].TotalPrice != 180 {
		t.Fatalf("expected line total 180, got %v", order.Items[0].TotalPrice)
	}
	if gw.lastInput.AmountMinorUnits != 18000 {
		t.Fatalf("expected 18000 paise, got %d", gw.lastInput.AmountMinorUnits)
	}
	if gw.lastInput.Currency != "INR" {
		t.Fatalf("expected INR, got %s", gw.lastInput.Currency)
	}
	if !strings.HasPrefix(gw.lastInput.Receipt, "#") || len(gw.lastInput.Receipt) != 9 {
		t.Fatalf("unexpected receipt %q", gw.lastInput.Receipt)
	}
	if order.Status != StatusProcessing {
		t.Fatalf("expected Processing, got %s", order.Status)
	}
	if order.PaymentDetails.PaymentStatus != PaymentPending {
		t.Fatalf("expected Pending, got %s", order.PaymentDetails.PaymentStatus)
	}
	if order.PaymentDetails.OrderID != "order_rzp_123" {
		t.Fatalf("gateway reference not recorded: %+v", order.PaymentDetails)
	}
	if db.putCalls != 1 {
		t.Fatalf("expected 1 put, got %d", db.putCalls)
	}
	if len(disp.events) != 1 || disp.events[0].Type != hooks.EventOrderPlaced {
		t.Fatalf("expected placement event, got %+v", disp.events)
	}
	if disp.events[0].Adjustments[0].Delta != 2 {
		t.Fatalf("expected delta 2, got %+v", disp.events[0].Adjustments)
	}
}

func TestPlaceOrder_CallerTotalTrusted(t *testing.T) {
	svc, _, gw, _ := testService(t)

	req := placeReq()
	req.Total = 150
	order, err := svc.PlaceOrder(context.Background(), "user-1", req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Total != 150 {
		t.Fatalf("expected caller total 150, got %v", order.Total)
	}
	if gw.lastInput.AmountMinorUnits != 15000 {
		t.Fatalf("expected 15000 paise, got %d", gw.lastInput.AmountMinorUnits)
	}
}

func TestPlaceOrder_UnknownProduct(t *testing.T) {
	svc, db, gw, disp := testService(t)

	req := placeReq()
	req.OrderItems = append(req.OrderItems, validation.OrderItemRequest{ProductID: "ghost", Quantity: 1})
	_, err := svc.PlaceOrder(context.Background(), "user-1", req)
	if err == nil || apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if db.putCalls != 0 {
		t.Fatalf("nothing should be persisted, got %d puts", db.putCalls)
	}
	if gw.calls != 0 {
		t.Fatalf("gateway should not be called")
	}
	if len(disp.events) != 0 {
		t.Fatalf("no events expected, got %+v", disp.events)
	}
}

func TestPlaceOrder_CartValidation(t *testing.T) {
	svc, _, _, _ := testService(t)

	cases := []struct {
		name string
		edit func(*validation.PlaceOrderRequest)
		msg  string
	}{
		{"empty items", func(r *validation.PlaceOrderRequest) { r.OrderItems = nil }, "At least one order item is required"},
		{"zero quantity", func(r *validation.PlaceOrderRequest) { r.OrderItems[0].Quantity = 0 }, "Quantity must be at least 1"},
		{"blank product id", func(r *validation.PlaceOrderRequest) { r.OrderItems[0].ProductID = " " }, "Product ID is required for all items"},
		{"missing city", func(r *validation.PlaceOrderRequest) { r.ShippingDetails.City = "" }, "Complete shipping details are required"},
		{"no shipping", func(r *validation.PlaceOrderRequest) { r.ShippingDetails = nil }, "Complete shipping details are required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := placeReq()
			tc.edit(req)
			_, err := svc.PlaceOrder(context.Background(), "user-1", req)
			if err == nil || apperr.KindOf(err) != apperr.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if apperr.UserMessage(err) != tc.msg {
				t.Fatalf("expected %q, got %q", tc.msg, apperr.UserMessage(err))
			}
		})
	}
}

func TestPlaceOrder_GatewayFailure(t *testing.T) {
	svc, db, gw, _ := testService(t)
	gw.err = errors.New("gateway down")

	_, err := svc.PlaceOrder(context.Background(), "user-1", placeReq())
	if err == nil || apperr.KindOf(err) != apperr.KindProcessing {
		t.Fatalf("expected processing error, got %v", err)
	}
	if db.putCalls != 0 {
		t.Fatalf("order must not persist when gateway fails")
	}
}

func TestCancelOrder(t *testing.T) {
	svc, _, _, disp := testService(t)

	order, err := svc.PlaceOrder(context.Background(), "user-1", placeReq())
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	disp.events = nil

	if err := svc.CancelOrder(context.Background(), "user-1", false, order.OrderID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if len(disp.events) != 1 || disp.events[0].Type != hooks.EventOrderCancelled {
		t.Fatalf("expected cancellation event, got %+v", disp.events)
	}
	adj := disp.events[0].Adjustments[0]
	if adj.Delta != -2 || !adj.CheckBestSeller {
		t.Fatalf("expected rollback with best-seller check, got %+v", adj)
	}
}

func TestCancelOrder_AlreadyCancelled(t *testing.T) {
	svc, db, _, _ := testService(t)

	order, err := svc.PlaceOrder(context.Background(), "user-1", placeReq())
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	// Reflect the status change in the stored item so the second cancel
	// sees a cancelled order.
	stored := order
	stored.Status = StatusCancelled
	item, _ := attributevalue.MarshalMap(stored)
	db.items[order.OrderID] = item

	err = svc.CancelOrder(context.Background(), "user-1", false, order.OrderID)
	if err == nil || apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if apperr.UserMessage(err) != "Order is already cancelled." {
		t.Fatalf("unexpected message %q", apperr.UserMessage(err))
	}
}

func TestCancelOrder_ForeignOrderHidden(t *testing.T) {
	svc, _, _, _ := testService(t)

	order, err := svc.PlaceOrder(context.Background(), "user-1", placeReq())
	if err != nil {
		t.Fatalf("place: %v", err)
	}

	err = svc.CancelOrder(context.Background(), "user-2", false, order.OrderID)
	if err == nil || apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found for foreign order, got %v", err)
	}

	// Admin may cancel anyone's order.
	if err := svc.CancelOrder(context.Background(), "admin-1", true, order.OrderID); err != nil {
		t.Fatalf("admin cancel: %v", err)
	}
}

func TestGetOrder_NotFoundMessage(t *testing.T) {
	svc, _, _, _ := testService(t)

	_, err := svc.GetOrder(context.Background(), "user-1", false, "nope")
	if err == nil || apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if apperr.UserMessage(err) != "Cannot find order with the id: nope." {
		t.Fatalf("unexpected message %q", apperr.UserMessage(err))
	}
}

func TestSetPaymentStatus_PendingNoOp(t *testing.T) {
	svc, db, _, _ := testService(t)

	order, err := svc.PlaceOrder(context.Background(), "user-1", placeReq())
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	db.lastUpdate = nil

	got, err := svc.SetPaymentStatus(context.Background(), "user-1", false, order.OrderID, PaymentPending)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db.lastUpdate != nil {
		t.Fatalf("Pending must not issue an update")
	}
	if got.PaymentDetails.PaymentStatus != PaymentPending {
		t.Fatalf("status changed unexpectedly: %s", got.PaymentDetails.PaymentStatus)
	}

	got, err = svc.SetPaymentStatus(context.Background(), "user-1", false, order.OrderID, PaymentPaid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db.lastUpdate == nil {
		t.Fatalf("Paid should issue an update")
	}
	if got.PaymentDetails.PaymentStatus != PaymentPaid {
		t.Fatalf("expected Paid, got %s", got.PaymentDetails.PaymentStatus)
	}
}

func TestSetStatus_CancelledNoOp(t *testing.T) {
	svc, db, _, _ := testService(t)

	order, err := svc.PlaceOrder(context.Background(), "user-1", placeReq())
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	db.lastUpdate = nil

	got, err := svc.SetStatus(context.Background(), order.OrderID, StatusCancelled)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db.lastUpdate != nil {
		t.Fatalf("Cancelled via status update must be a no-op")
	}
	if got.Status != StatusProcessing {
		t.Fatalf("status changed unexpectedly: %s", got.Status)
	}

	got, err = svc.SetStatus(context.Background(), order.OrderID, StatusShipped)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != StatusShipped {
		t.Fatalf("expected Shipped, got %s", got.Status)
	}
}

func TestStore_Count(t *testing.T) {
	db := newMockDynamo()
	store := NewStore(db, "orders-test")

	for i := 0; i < 3; i++ {
		o := &Order{OrderID: string(rune('a' + i)), OwnerID: "user-1"}
		item, err := attributevalue.MarshalMap(o)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		db.items[o.OrderID] = item
	}

	n, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 orders, got %d", n)
	}
	if db.lastScan == nil || db.lastScan.Select != types.SelectCount {
		t.Fatalf("count must scan with the COUNT projection, got %+v", db.lastScan)
	}
}

func TestListOrders_ScopedToOwner(t *testing.T) {
	svc, db, _, _ := testService(t)

	for i, owner := range []string{"user-1", "user-1", "user-2"} {
		o := &Order{
			OrderID:   string(rune('a' + i)),
			OwnerID:   owner,
			Status:    StatusProcessing,
			CreatedAt: time.Date(2024, 6, 1, 12, i, 0, 0, time.UTC),
		}
		item, err := attributevalue.MarshalMap(o)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		db.items[o.OrderID] = item
	}

	// Admin sees everything, newest first.
	all, total, err := svc.ListOrders(context.Background(), "admin-1", true, 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(all) != 3 {
		t.Fatalf("expected 3 orders, got %d/%d", len(all), total)
	}
	if all[0].CreatedAt.Before(all[1].CreatedAt) {
		t.Fatalf("expected newest first")
	}

	// Paging.
	page2, total, err := svc.ListOrders(context.Background(), "admin-1", true, 2, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(page2) != 1 {
		t.Fatalf("expected 1 order on page 2, got %d/%d", len(page2), total)
	}
}

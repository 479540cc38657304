package orders

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/Creatishin/flora-knots-be/internal/aws"
)

// Store encapsulates operations on the orders table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new orders Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Save persists an order, stamping created_at/updated_at when unset.
func (s *Store) Save(ctx context.Context, order *Order) error {
	now := s.nowFunc().UTC()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	item, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &dyn.PutItemInput{TableName: &s.tableName, Item: item}); err != nil {
		return fmt.Errorf("put order: %w", err)
	}
	return nil
}

// GetByID fetches an order. Returns (nil, nil) if not found.
func (s *Store) GetByID(ctx context.Context, orderID string) (*Order, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// ListByOwner returns a page of the owner's orders newest-first, plus the
// total count. An empty ownerID lists every order (admin view).
func (s *Store) ListByOwner(ctx context.Context, ownerID string, page, limit int) ([]Order, int, error) {
	var items []map[string]types.AttributeValue

	if ownerID == "" {
		input := &dyn.ScanInput{TableName: &s.tableName}
		for {
			out, err := s.client.Scan(ctx, input)
			if err != nil {
				return nil, 0, fmt.Errorf("scan orders: %w", err)
			}
			items = append(items, out.Items...)
			if len(out.LastEvaluatedKey) == 0 {
				break
			}
			input.ExclusiveStartKey = out.LastEvaluatedKey
		}
	} else {
		input := &dyn.QueryInput{
			TableName:              &s.tableName,
			IndexName:              awsString("owner-index"),
			KeyConditionExpression: awsString("owner_id = :owner"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":owner": &types.AttributeValueMemberS{Value: ownerID},
			},
		}
		for {
			out, err := s.client.Query(ctx, input)
			if err != nil {
				return nil, 0, fmt.Errorf("query orders by owner: %w", err)
			}
			items = append(items, out.Items...)
			if len(out.LastEvaluatedKey) == 0 {
				break
			}
			input.ExclusiveStartKey = out.LastEvaluatedKey
		}
	}

	orders := make([]Order, 0, len(items))
	for _, item := range items {
		var o Order
		if err := attributevalue.UnmarshalMap(item, &o); err != nil {
			return nil, 0, fmt.Errorf("unmarshal order: %w", err)
		}
		orders = append(orders, o)
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	total := len(orders)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	start := (page - 1) * limit
	if start >= total {
		return nil, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return orders[start:end], total, nil
}

// UpdateStatus sets the order status unconditionally; callers guard the
// Cancelled sentinel themselves.
func (s *Store) UpdateStatus(ctx context.Context, orderID, status string) error {
	return s.updateField(ctx, orderID, "#s = :v", map[string]string{"#s": "status"}, status)
}

// UpdatePaymentStatus sets payment_details.payment_status.
func (s *Store) UpdatePaymentStatus(ctx context.Context, orderID, status string) error {
	return s.updateField(ctx, orderID, "payment_details.payment_status = :v", nil, status)
}

func (s *Store) updateField(ctx context.Context, orderID, setExpr string, names map[string]string, value string) error {
	now := s.nowFunc().UTC()
	input := &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
		UpdateExpression: awsString("SET " + setExpr + ", updated_at = :ua"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v":  &types.AttributeValueMemberS{Value: value},
			":ua": &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		},
	}
	if len(names) > 0 {
		input.ExpressionAttributeNames = names
	}
	if _, err := s.client.UpdateItem(ctx, input); err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

// Count returns the number of persisted orders.
func (s *Store) Count(ctx context.Context) (int, error) {
	input := &dyn.ScanInput{
		TableName: &s.tableName,
		Select:    types.SelectCount,
	}
	total := 0
	for {
		out, err := s.client.Scan(ctx, input)
		if err != nil {
			return 0, fmt.Errorf("count orders: %w", err)
		}
		total += int(out.Count)
		if len(out.LastEvaluatedKey) == 0 {
			return total, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func awsString(s string) *string { return &s }

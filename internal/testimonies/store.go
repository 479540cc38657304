package testimonies

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

// Store encapsulates operations on the testimonies table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new testimonies Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Put persists a testimony, stamping created_at when unset.
func (s *Store) Put(ctx context.Context, t *Testimony) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.nowFunc().UTC()
	}
	item, err := attributevalue.MarshalMap(t)
	if err != nil {
		return fmt.Errorf("marshal testimony: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &dyn.PutItemInput{TableName: &s.tableName, Item: item}); err != nil {
		return fmt.Errorf("put testimony: %w", err)
	}
	return nil
}

// List returns every testimony, newest first.
func (s *Store) List(ctx context.Context) ([]Testimony, error) {
	input := &dyn.ScanInput{TableName: &s.tableName}
	var out []Testimony
	for {
		res, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("scan testimonies: %w", err)
		}
		for _, item := range res.Items {
			var t Testimony
			if err := attributevalue.UnmarshalMap(item, &t); err != nil {
				return nil, fmt.Errorf("unmarshal testimony: %w", err)
			}
			out = append(out, t)
		}
		if len(res.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = res.LastEvaluatedKey
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Count returns the wall size, used to enforce the cap before uploads.
func (s *Store) Count(ctx context.Context) (int, error) {
	input := &dyn.ScanInput{
		TableName: &s.tableName,
		Select:    types.SelectCount,
	}
	total := 0
	for {
		out, err := s.client.Scan(ctx, input)
		if err != nil {
			return 0, fmt.Errorf("count testimonies: %w", err)
		}
		total += int(out.Count)
		if len(out.LastEvaluatedKey) == 0 {
			return total, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// Delete removes a testimony and returns it so callers can clean up the
// stored image. Returns (nil, nil) if absent.
func (s *Store) Delete(ctx context.Context, testimonyID string) (*Testimony, error) {
	out, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"testimony_id": &types.AttributeValueMemberS{Value: testimonyID},
		},
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return nil, fmt.Errorf("delete testimony: %w", err)
	}
	if len(out.Attributes) == 0 {
		return nil, nil
	}
	var t Testimony
	if err := attributevalue.UnmarshalMap(out.Attributes, &t); err != nil {
		return nil, fmt.Errorf("unmarshal deleted testimony: %w", err)
	}
	return &t, nil
}

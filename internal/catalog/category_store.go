package catalog

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

// CategoryStore encapsulates operations on the categories table.
type CategoryStore struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewCategoryStore creates a new CategoryStore.
func NewCategoryStore(client aws.DynamoDBAPI, tableName string) *CategoryStore {
	return &CategoryStore{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Put creates a category. Returns ErrAlreadyExists when the id is taken.
func (s *CategoryStore) Put(ctx context.Context, c *Category) error {
	now := s.nowFunc().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal category: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(category_id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("put category: %w", err)
	}
	return nil
}

// Save replaces a category unconditionally, refreshing updated_at.
func (s *CategoryStore) Save(ctx context.Context, c *Category) error {
	c.UpdatedAt = s.nowFunc().UTC()
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal category: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &dyn.PutItemInput{TableName: &s.tableName, Item: item}); err != nil {
		return fmt.Errorf("save category: %w", err)
	}
	return nil
}

// GetByID fetches a category. Returns (nil, nil) if not found.
func (s *CategoryStore) GetByID(ctx context.Context, categoryID string) (*Category, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"category_id": &types.AttributeValueMemberS{Value: categoryID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var c Category
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, fmt.Errorf("unmarshal category: %w", err)
	}
	return &c, nil
}

// GetBySlug resolves a slug via the slug-index GSI. Returns (nil, nil) if
// absent.
func (s *CategoryStore) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	out, err := s.client.Query(ctx, &dyn.QueryInput{
		TableName:              &s.tableName,
		IndexName:              awsString("slug-index"),
		KeyConditionExpression: awsString("slug = :slug"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":slug": &types.AttributeValueMemberS{Value: slug},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query category by slug: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, nil
	}
	var c Category
	if err := attributevalue.UnmarshalMap(out.Items[0], &c); err != nil {
		return nil, fmt.Errorf("unmarshal category: %w", err)
	}
	return &c, nil
}

// ExistsByName reports whether a category with the exact name exists.
func (s *CategoryStore) ExistsByName(ctx context.Context, name string) (bool, error) {
	out, err := s.client.Query(ctx, &dyn.QueryInput{
		TableName:              &s.tableName,
		IndexName:              awsString("name-index"),
		KeyConditionExpression: awsString("#n = :name"),
		ExpressionAttributeNames: map[string]string{
			"#n": "name",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":name": &types.AttributeValueMemberS{Value: name},
		},
	})
	if err != nil {
		return false, fmt.Errorf("query category by name: %w", err)
	}
	return len(out.Items) > 0, nil
}

// List returns categories newest-first, optionally active only, with the
// total match count.
func (s *CategoryStore) List(ctx context.Context, activeOnly bool, page, limit int) ([]Category, int, error) {
	items, err := scanAll(ctx, s.client, &dyn.ScanInput{TableName: &s.tableName})
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}

	var categories []Category
	for _, item := range items {
		var c Category
		if err := attributevalue.UnmarshalMap(item, &c); err != nil {
			return nil, 0, fmt.Errorf("unmarshal category: %w", err)
		}
		if activeOnly && !c.IsActive {
			continue
		}
		categories = append(categories, c)
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].CreatedAt.After(categories[j].CreatedAt)
	})

	total := len(categories)
	return paginate(categories, page, limit), total, nil
}

// SetActive flips the is_active flag.
func (s *CategoryStore) SetActive(ctx context.Context, categoryID string, active bool) error {
	now := s.nowFunc().UTC()
	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"category_id": &types.AttributeValueMemberS{Value: categoryID},
		},
		UpdateExpression: awsString("SET is_active = :a, updated_at = :ua"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":a":  &types.AttributeValueMemberBOOL{Value: active},
			":ua": &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		},
	})
	if err != nil {
		return fmt.Errorf("set category active: %w", err)
	}
	return nil
}

// Delete removes a category, returning the deleted item for image cleanup.
// Returns (nil, nil) if absent.
func (s *CategoryStore) Delete(ctx context.Context, categoryID string) (*Category, error) {
	out, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"category_id": &types.AttributeValueMemberS{Value: categoryID},
		},
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return nil, fmt.Errorf("delete category: %w", err)
	}
	if len(out.Attributes) == 0 {
		return nil, nil
	}
	var c Category
	if err := attributevalue.UnmarshalMap(out.Attributes, &c); err != nil {
		return nil, fmt.Errorf("unmarshal deleted category: %w", err)
	}
	return &c, nil
}

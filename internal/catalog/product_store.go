package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/Creatishin/flora-knots-be/internal/aws"
)

// ProductStore encapsulates operations on the products table.
type ProductStore struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewProductStore creates a new ProductStore.
func NewProductStore(client aws.DynamoDBAPI, tableName string) *ProductStore {
	return &ProductStore{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Put creates a product. Returns ErrAlreadyExists when the id is taken.
func (s *ProductStore) Put(ctx context.Context, p *Product) error {
	now := s.nowFunc().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(product_id)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("put product: %w", err)
	}
	return nil
}

// Save replaces a product unconditionally, refreshing updated_at.
func (s *ProductStore) Save(ctx context.Context, p *Product) error {
	p.UpdatedAt = s.nowFunc().UTC()
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &dyn.PutItemInput{TableName: &s.tableName, Item: item}); err != nil {
		return fmt.Errorf("save product: %w", err)
	}
	return nil
}

// GetByID fetches a product. Returns (nil, nil) if not found.
func (s *ProductStore) GetByID(ctx context.Context, productID string) (*Product, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"product_id": &types.AttributeValueMemberS{Value: productID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var p Product
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, fmt.Errorf("unmarshal product: %w", err)
	}
	return &p, nil
}

// GetBySlug resolves a storefront slug via the slug-index GSI. Returns
// (nil, nil) if absent or, with activeOnly, inactive.
func (s *ProductStore) GetBySlug(ctx context.Context, slug string, activeOnly bool) (*Product, error) {
	out, err := s.client.Query(ctx, &dyn.QueryInput{
		TableName:              &s.tableName,
		IndexName:              awsString("slug-index"),
		KeyConditionExpression: awsString("slug = :slug"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":slug": &types.AttributeValueMemberS{Value: slug},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query product by slug: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, nil
	}
	var p Product
	if err := attributevalue.UnmarshalMap(out.Items[0], &p); err != nil {
		return nil, fmt.Errorf("unmarshal product: %w", err)
	}
	if activeOnly && !p.IsActive {
		return nil, nil
	}
	return &p, nil
}

// ExistsByName reports whether a product with the exact name exists.
func (s *ProductStore) ExistsByName(ctx context.Context, name string) (bool, error) {
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
		return false, fmt.Errorf("query product by name: %w", err)
	}
	return len(out.Items) > 0, nil
}

// List returns the filtered page plus the total match count.
func (s *ProductStore) List(ctx context.Context, filter Filter) ([]Product, int, error) {
	items, err := scanAll(ctx, s.client, &dyn.ScanInput{TableName: &s.tableName})
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	var products []Product
	for _, item := range items {
		var p Product
		if err := attributevalue.UnmarshalMap(item, &p); err != nil {
			return nil, 0, fmt.Errorf("unmarshal product: %w", err)
		}
		if filter.matches(&p) {
			products = append(products, p)
		}
	}

	sortProducts(products, filter.SortBy)
	total := len(products)
	return paginate(products, filter.Page, filter.Limit), total, nil
}

func (f *Filter) matches(p *Product) bool {
	if f.ActiveOnly && !p.IsActive {
		return false
	}
	if len(f.CategoryIDs) > 0 && !contains(f.CategoryIDs, p.CategoryID) {
		return false
	}
	if len(f.ProductIDs) > 0 && !contains(f.ProductIDs, p.ProductID) {
		return false
	}
	if f.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Name)) {
		return false
	}
	if f.Featured != nil && p.Featured != *f.Featured {
		return false
	}
	if f.InStock != nil && p.InStock != *f.InStock {
		return false
	}
	return true
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func sortProducts(products []Product, sortBy string) {
	sort.SliceStable(products, func(i, j int) bool {
		switch sortBy {
		case SortPriceHighToLow:
			return products[i].Price > products[j].Price
		case SortPriceLowToHigh:
			return products[i].Price < products[j].Price
		case SortSalesHighToLow:
			return products[i].SalesCount > products[j].SalesCount
		case SortSalesLowToHigh:
			return products[i].SalesCount < products[j].SalesCount
		default:
			return products[i].CreatedAt.After(products[j].CreatedAt)
		}
	})
}

// ListNames returns the id/name projection used by admin select inputs.
func (s *ProductStore) ListNames(ctx context.Context) ([]NameRef, error) {
	items, err := scanAll(ctx, s.client, &dyn.ScanInput{
		TableName:            &s.tableName,
		ProjectionExpression: awsString("product_id, #n"),
		ExpressionAttributeNames: map[string]string{
			"#n": "name",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("list product names: %w", err)
	}
	names := make([]NameRef, 0, len(items))
	for _, item := range items {
		var ref NameRef
		if err := attributevalue.UnmarshalMap(item, &ref); err != nil {
			return nil, fmt.Errorf("unmarshal name ref: %w", err)
		}
		names = append(names, ref)
	}
	return names, nil
}

// SetActive flips the is_active flag.
func (s *ProductStore) SetActive(ctx context.Context, productID string, active bool) error {
	now := s.nowFunc().UTC()
	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"product_id": &types.AttributeValueMemberS{Value: productID},
		},
		UpdateExpression: awsString("SET is_active = :a, updated_at = :ua"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":a":  &types.AttributeValueMemberBOOL{Value: active},
			":ua": &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		},
	})
	if err != nil {
		return fmt.Errorf("set product active: %w", err)
	}
	return nil
}

// SetActiveMany applies SetActive to each id, stopping on the first error.
func (s *ProductStore) SetActiveMany(ctx context.Context, productIDs []string, active bool) error {
	for _, id := range productIDs {
		if err := s.SetActive(ctx, id, active); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a product and returns the deleted item so callers can clean
// up its stored images. Returns (nil, nil) if absent.
func (s *ProductStore) Delete(ctx context.Context, productID string) (*Product, error) {
	out, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"product_id": &types.AttributeValueMemberS{Value: productID},
		},
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return nil, fmt.Errorf("delete product: %w", err)
	}
	if len(out.Attributes) == 0 {
		return nil, nil
	}
	var p Product
	if err := attributevalue.UnmarshalMap(out.Attributes, &p); err != nil {
		return nil, fmt.Errorf("unmarshal deleted product: %w", err)
	}
	return &p, nil
}

// IncrementSalesCount atomically shifts sales_count by delta and returns the
// updated product. The ADD expression is the only concurrency control the
// counter needs.
func (s *ProductStore) IncrementSalesCount(ctx context.Context, productID string, delta int) (*Product, error) {
	now := s.nowFunc().UTC()
	out, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"product_id": &types.AttributeValueMemberS{Value: productID},
		},
		UpdateExpression:    awsString("ADD sales_count :d SET updated_at = :ua"),
		ConditionExpression: awsString("attribute_exists(product_id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":d":  &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", delta)},
			":ua": &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, fmt.Errorf("increment sales count: %w", err)
	}
	var p Product
	if err := attributevalue.UnmarshalMap(out.Attributes, &p); err != nil {
		return nil, fmt.Errorf("unmarshal updated product: %w", err)
	}
	return &p, nil
}

// DemoteBestSeller clears the best_seller flag once the counter has dropped
// under the threshold. A failed condition means the flag no longer applies
// and is not an error.
func (s *ProductStore) DemoteBestSeller(ctx context.Context, productID string) error {
	now := s.nowFunc().UTC()
	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"product_id": &types.AttributeValueMemberS{Value: productID},
		},
		UpdateExpression:    awsString("SET best_seller = :f, updated_at = :ua"),
		ConditionExpression: awsString("best_seller = :t AND sales_count < :threshold"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":f":         &types.AttributeValueMemberBOOL{Value: false},
			":t":         &types.AttributeValueMemberBOOL{Value: true},
			":threshold": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", BestSellerThreshold)},
			":ua":        &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		},
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return nil
		}
		return fmt.Errorf("demote best seller: %w", err)
	}
	return nil
}

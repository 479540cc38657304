package catalog

import (
	"context"
	"errors"
	"fmt"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/Creatishin/flora-knots-be/internal/aws"
)

// ErrAlreadyExists signals a conditional create hitting an existing item.
var ErrAlreadyExists = errors.New("item already exists")

func awsString(s string) *string { return &s }

func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "ConditionalCheckFailedException"
}

// scanAll drains every page of a Scan. Catalog tables are boutique-sized;
// listings filter and sort in memory on top of this.
func scanAll(ctx context.Context, client aws.DynamoDBAPI, input *dyn.ScanInput) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	for {
		out, err := client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		items = append(items, out.Items...)
		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// paginate slices an already-sorted result set the way the storefront's
// page/limit query parameters expect.
func paginate[T any](items []T, page, limit int) []T {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

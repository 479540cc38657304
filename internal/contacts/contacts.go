// Package contacts persists storefront contact-form submissions for the
// shop owner to follow up on.
package contacts

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/Creatishin/flora-knots-be/internal/aws"
)

// Contact is one form submission.
type Contact struct {
	ContactID   string    `dynamodbav:"contact_id" json:"contactId"` // PK
	Name        string    `dynamodbav:"name" json:"name"`
	Email       string    `dynamodbav:"email,omitempty" json:"email,omitempty"`
	PhoneNumber string    `dynamodbav:"phone_number" json:"phoneNumber"`
	Message     string    `dynamodbav:"message" json:"message"`
	CreatedAt   time.Time `dynamodbav:"created_at" json:"created"`
}

// Store encapsulates operations on the contacts table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new contacts Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Put persists a submission, stamping created_at when unset.
func (s *Store) Put(ctx context.Context, c *Contact) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.nowFunc().UTC()
	}
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal contact: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &dyn.PutItemInput{TableName: &s.tableName, Item: item}); err != nil {
		return fmt.Errorf("put contact: %w", err)
	}
	return nil
}

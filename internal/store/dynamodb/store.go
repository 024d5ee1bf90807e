// Package dynamodb persists enriched stream records to a DynamoDB table
// keyed by transaction_id.
package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DDBAPI is the subset of the DynamoDB client used by the record store.
type DDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// Store is a DynamoDB-backed record store. Writes are idempotent upserts:
// the partition key is the record's transaction_id and last write wins.
type Store struct {
	client    DDBAPI
	tableName string
}

// Option configures a Store.
type Option func(*Store)

// WithClient sets a custom DynamoDB client (useful for testing).
func WithClient(c DDBAPI) Option {
	return func(s *Store) { s.client = c }
}

// New creates a Store for the given table.
func New(ctx context.Context, tableName, region string, opts ...Option) (*Store, error) {
	if tableName == "" {
		return nil, fmt.Errorf("table name required")
	}
	s := &Store{tableName: tableName}
	for _, o := range opts {
		o(s)
	}
	if s.client == nil {
		var loadOpts []func(*awsconfig.LoadOptions) error
		if region != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(region))
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		s.client = dynamodb.NewFromConfig(cfg)
	}
	return s, nil
}

// Put stores the record, overwriting any prior item with the same
// transaction_id. Decimal values are written as exact DynamoDB numbers.
func (s *Store) Put(ctx context.Context, record map[string]any) error {
	item, err := marshalItem(record)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("dynamodb put: %w", err)
	}
	return nil
}

// Get retrieves a stored record by transaction id. Returns nil when absent.
func (s *Store) Get(ctx context.Context, transactionID string) (map[string]any, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      &s.tableName,
		ConsistentRead: aws.Bool(true),
		Key: map[string]ddbtypes.AttributeValue{
			"transaction_id": &ddbtypes.AttributeValueMemberS{Value: transactionID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb get: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}
	var record map[string]any
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, fmt.Errorf("unmarshaling record: %w", err)
	}
	return record, nil
}

package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/imrishuroy/go-storefront/internal/aws"
)

var (
	ErrProductNotFound = errors.New("product not found")
	// ErrVersionConflict means the product changed (or vanished) since it was read.
	ErrVersionConflict = errors.New("product version conflict")
	ErrDuplicateID     = errors.New("product id already exists")
)

const (
	batchGetLimit   = 100
	batchGetRetries = 3
)

// Store encapsulates operations on the products table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new products Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// TableDefinition describes the products table: one item per product keyed by id.
func TableDefinition(name string) *dyn.CreateTableInput {
	return &dyn.CreateTableInput{
		TableName:   aws.String(name),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
		},
	}
}

// Create persists a new product with version 1. The id must be unused.
func (s *Store) Create(ctx context.Context, p Product) (Product, error) {
	now := s.nowFunc().UTC()
	p.Version = 1
	p.CreatedAt = now
	p.UpdatedAt = now

	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return Product{}, fmt.Errorf("marshal product: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		if aws.IsConditionalCheckFailed(err) {
			return Product{}, ErrDuplicateID
		}
		return Product{}, fmt.Errorf("put item: %w", err)
	}
	return p, nil
}

// Save replaces p if the stored version still equals p.Version, and bumps
// the version. A lost race returns ErrVersionConflict.
func (s *Store) Save(ctx context.Context, p Product) (Product, error) {
	expected := p.Version
	p.Version = expected + 1
	p.UpdatedAt = s.nowFunc().UTC()

	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return Product{}, fmt.Errorf("marshal product: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_exists(id) AND version = :v"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberN{Value: strconv.FormatInt(expected, 10)},
		},
	})
	if err != nil {
		if aws.IsConditionalCheckFailed(err) {
			return Product{}, ErrVersionConflict
		}
		return Product{}, fmt.Errorf("put item: %w", err)
	}
	return p, nil
}

// DeleteByID removes a product. A missing product returns ErrProductNotFound.
func (s *Store) DeleteByID(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName:           &s.tableName,
		Key:                 key(id),
		ConditionExpression: aws.String("attribute_exists(id)"),
	})
	if err != nil {
		if aws.IsConditionalCheckFailed(err) {
			return ErrProductNotFound
		}
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// FindByID returns (nil, nil) when the product does not exist.
func (s *Store) FindByID(ctx context.Context, id string) (*Product, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName:      &s.tableName,
		Key:            key(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
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

// FindByIDs batch-loads products. Missing ids are simply absent from the map.
func (s *Store) FindByIDs(ctx context.Context, ids []string) (map[string]Product, error) {
	found := make(map[string]Product, len(ids))
	seen := make(map[string]struct{}, len(ids))
	keys := make([]map[string]types.AttributeValue, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		keys = append(keys, key(id))
	}

	for start := 0; start < len(keys); start += batchGetLimit {
		end := min(start+batchGetLimit, len(keys))
		pending := map[string]types.KeysAndAttributes{
			s.tableName: {Keys: keys[start:end], ConsistentRead: aws.Bool(true)},
		}
		for attempt := 0; len(pending) > 0; attempt++ {
			if attempt == batchGetRetries {
				return nil, fmt.Errorf("batch get item: %d keys left unprocessed", len(pending[s.tableName].Keys))
			}
			out, err := s.client.BatchGetItem(ctx, &dyn.BatchGetItemInput{RequestItems: pending})
			if err != nil {
				return nil, fmt.Errorf("batch get item: %w", err)
			}
			for _, item := range out.Responses[s.tableName] {
				var p Product
				if err := attributevalue.UnmarshalMap(item, &p); err != nil {
					return nil, fmt.Errorf("unmarshal product: %w", err)
				}
				found[p.ID] = p
			}
			pending = out.UnprocessedKeys
		}
	}
	return found, nil
}

// FindMany scans the table and returns the products matching f, ordered by sort.
func (s *Store) FindMany(ctx context.Context, f Filter, sort Sort) ([]Product, error) {
	products := []Product{}
	paginator := dyn.NewScanPaginator(s.client, &dyn.ScanInput{TableName: &s.tableName})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan products: %w", err)
		}
		var batch []Product
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal products: %w", err)
		}
		for _, p := range batch {
			if f.Match(p) {
				products = append(products, p)
			}
		}
	}
	sort.Apply(products)
	return products, nil
}

func key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

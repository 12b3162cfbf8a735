package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/imrishuroy/go-storefront/internal/aws"
)

var ErrAccountNotFound = errors.New("account not found")

// Store encapsulates operations on the accounts table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
}

func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{client: client, tableName: tableName}
}

// TableDefinition describes the accounts table.
func TableDefinition(name string) *dyn.CreateTableInput {
	return &dyn.CreateTableInput{
		TableName:   aws.String(name),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("email"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("email"), KeyType: types.KeyTypeHash},
		},
	}
}

// CreateIfNotExists writes acct unless its email is taken.
// Returns (created=true, nil) if successfully created.
// Returns (created=false, nil) if the email already exists.
func (s *Store) CreateIfNotExists(ctx context.Context, acct Account) (bool, error) {
	item, err := attributevalue.MarshalMap(acct)
	if err != nil {
		return false, fmt.Errorf("marshal account: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(email)"),
	})
	if err != nil {
		if aws.IsConditionalCheckFailed(err) {
			return false, nil
		}
		return false, fmt.Errorf("put item: %w", err)
	}
	return true, nil
}

// Get retrieves an account by email. If not found, returns (nil, nil).
func (s *Store) Get(ctx context.Context, email string) (*Account, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"email": &types.AttributeValueMemberS{Value: email},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var acct Account
	if err := attributevalue.UnmarshalMap(out.Item, &acct); err != nil {
		return nil, fmt.Errorf("unmarshal account: %w", err)
	}
	return &acct, nil
}

// TouchLogin records a successful login.
func (s *Store) TouchLogin(ctx context.Context, email string, at time.Time) error {
	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"email": &types.AttributeValueMemberS{Value: email},
		},
		UpdateExpression:    aws.String("SET last_login_at = :t"),
		ConditionExpression: aws.String("attribute_exists(email)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberS{Value: at.UTC().Format(time.RFC3339Nano)},
		},
	})
	if err != nil {
		if aws.IsConditionalCheckFailed(err) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("update item (touch login): %w", err)
	}
	return nil
}

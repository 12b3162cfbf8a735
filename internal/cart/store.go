package cart

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
	ErrItemNotFound = errors.New("cart item not found")
	// ErrQuantityLimit means the merged quantity would pass the ceiling.
	ErrQuantityLimit = errors.New("cart quantity limit exceeded")
)

// Store encapsulates operations on the carts table (user_id, product_id).
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new carts Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// TableDefinition describes the carts table.
func TableDefinition(name string) *dyn.CreateTableInput {
	return &dyn.CreateTableInput{
		TableName:   aws.String(name),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("user_id"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("product_id"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("user_id"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("product_id"), KeyType: types.KeyTypeRange},
		},
	}
}

// FindByUser returns (nil, nil) when the user has no line items.
func (s *Store) FindByUser(ctx context.Context, userID string) (*Cart, error) {
	paginator := dyn.NewQueryPaginator(s.client, &dyn.QueryInput{
		TableName:              &s.tableName,
		KeyConditionExpression: aws.String("user_id = :u"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberS{Value: userID},
		},
		ConsistentRead: aws.Bool(true),
	})

	var items []LineItem
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query cart: %w", err)
		}
		var batch []LineItem
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal cart items: %w", err)
		}
		items = append(items, batch...)
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &Cart{UserID: userID, Items: items}, nil
}

// AddItem merges quantity into the line item in a single conditional
// update, creating the item (and with it the cart) when absent. The write
// only succeeds while the merged quantity stays within ceiling; otherwise
// ErrQuantityLimit is returned and nothing changes.
func (s *Store) AddItem(ctx context.Context, userID, productID string, quantity, ceiling int) (LineItem, error) {
	room := ceiling - quantity
	if quantity < 1 || room < 0 {
		return LineItem{}, ErrQuantityLimit
	}
	now := s.nowFunc().UTC().Format(time.RFC3339Nano)

	out, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName:           &s.tableName,
		Key:                 itemKey(userID, productID),
		UpdateExpression:    aws.String("ADD quantity :q SET added_at = if_not_exists(added_at, :now), updated_at = :now"),
		ConditionExpression: aws.String("attribute_not_exists(quantity) OR quantity <= :room"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":q":    &types.AttributeValueMemberN{Value: strconv.Itoa(quantity)},
			":room": &types.AttributeValueMemberN{Value: strconv.Itoa(room)},
			":now":  &types.AttributeValueMemberS{Value: now},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		if aws.IsConditionalCheckFailed(err) {
			return LineItem{}, ErrQuantityLimit
		}
		return LineItem{}, fmt.Errorf("update item (add): %w", err)
	}
	return decodeItem(out.Attributes)
}

// SetQuantity overwrites the quantity of an existing line item.
func (s *Store) SetQuantity(ctx context.Context, userID, productID string, quantity int) (LineItem, error) {
	now := s.nowFunc().UTC().Format(time.RFC3339Nano)
	out, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName:           &s.tableName,
		Key:                 itemKey(userID, productID),
		UpdateExpression:    aws.String("SET quantity = :q, updated_at = :now"),
		ConditionExpression: aws.String("attribute_exists(product_id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":q":   &types.AttributeValueMemberN{Value: strconv.Itoa(quantity)},
			":now": &types.AttributeValueMemberS{Value: now},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		if aws.IsConditionalCheckFailed(err) {
			return LineItem{}, ErrItemNotFound
		}
		return LineItem{}, fmt.Errorf("update item (set quantity): %w", err)
	}
	return decodeItem(out.Attributes)
}

// RemoveItem deletes one line item, failing with ErrItemNotFound when absent.
func (s *Store) RemoveItem(ctx context.Context, userID, productID string) error {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName:           &s.tableName,
		Key:                 itemKey(userID, productID),
		ConditionExpression: aws.String("attribute_exists(product_id)"),
	})
	if err != nil {
		if aws.IsConditionalCheckFailed(err) {
			return ErrItemNotFound
		}
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// RemoveItems deletes the given line items if present and returns how many
// existed. It is safe to repeat.
func (s *Store) RemoveItems(ctx context.Context, userID string, productIDs []string) (int, error) {
	removed := 0
	for _, pid := range productIDs {
		out, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
			TableName:    &s.tableName,
			Key:          itemKey(userID, pid),
			ReturnValues: types.ReturnValueAllOld,
		})
		if err != nil {
			return removed, fmt.Errorf("delete item %s: %w", pid, err)
		}
		if len(out.Attributes) > 0 {
			removed++
		}
	}
	return removed, nil
}

// DeleteByUser removes the whole cart.
func (s *Store) DeleteByUser(ctx context.Context, userID string) (int, error) {
	c, err := s.FindByUser(ctx, userID)
	if err != nil || c == nil {
		return 0, err
	}
	return s.RemoveItems(ctx, userID, c.ProductIDs())
}

func itemKey(userID, productID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"user_id":    &types.AttributeValueMemberS{Value: userID},
		"product_id": &types.AttributeValueMemberS{Value: productID},
	}
}

func decodeItem(attrs map[string]types.AttributeValue) (LineItem, error) {
	var it LineItem
	if err := attributevalue.UnmarshalMap(attrs, &it); err != nil {
		return LineItem{}, fmt.Errorf("unmarshal cart item: %w", err)
	}
	return it, nil
}

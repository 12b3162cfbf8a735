package money

import (
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type priced struct {
	Price     Amount  `json:"price" dynamodbav:"price"`
	SalePrice *Amount `json:"salePrice,omitempty" dynamodbav:"sale_price,omitempty"`
}

func TestAmount_JSONKeepsPrecision(t *testing.T) {
	var p priced
	require.NoError(t, json.Unmarshal([]byte(`{"price": 19.99, "salePrice": "0.10"}`), &p))

	assert.True(t, p.Price.Equal(MustParse("19.99")))
	require.NotNil(t, p.SalePrice)
	assert.Equal(t, "0.1", p.SalePrice.String())
	assert.Equal(t, "59.97", p.Price.Mul(3).String())

	out, err := json.Marshal(priced{Price: MustParse("19.99")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":19.99}`, string(out))
}

func TestAmount_DynamoDBNumber(t *testing.T) {
	item, err := attributevalue.MarshalMap(priced{Price: MustParse("5.50")})
	require.NoError(t, err)

	n, ok := item["price"].(*types.AttributeValueMemberN)
	require.True(t, ok, "price should be stored as N, got %T", item["price"])
	assert.Equal(t, "5.5", n.Value)
	_, hasSale := item["sale_price"]
	assert.False(t, hasSale)

	var back priced
	require.NoError(t, attributevalue.UnmarshalMap(item, &back))
	assert.True(t, back.Price.Equal(FromInt(5).Add(MustParse("0.5"))))
	assert.Nil(t, back.SalePrice)
}

func TestAmount_Comparisons(t *testing.T) {
	assert.True(t, MustParse("-0.01").IsNegative())
	assert.False(t, FromInt(0).IsNegative())
	assert.True(t, MustParse("10.00").Equal(FromInt(10)))
	assert.True(t, FromInt(3).LessThan(FromInt(4)))

	_, err := Parse("ten")
	assert.Error(t, err)
}

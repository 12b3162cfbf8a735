// Package money holds the decimal amount type used for prices.
package money

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// Amount is a non-float monetary value. It encodes as a JSON number and a
// DynamoDB N attribute.
type Amount struct {
	d decimal.Decimal
}

func New(d decimal.Decimal) Amount { return Amount{d: d} }

// FromInt returns an amount of whole units.
func FromInt(units int64) Amount { return Amount{d: decimal.NewFromInt(units)} }

func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return Amount{d: d}, nil
}

func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Decimal() decimal.Decimal { return a.d }
func (a Amount) IsNegative() bool         { return a.d.IsNegative() }
func (a Amount) IsZero() bool             { return a.d.IsZero() }
func (a Amount) Equal(b Amount) bool      { return a.d.Equal(b.d) }
func (a Amount) LessThan(b Amount) bool   { return a.d.LessThan(b.d) }
func (a Amount) Add(b Amount) Amount      { return Amount{d: a.d.Add(b.d)} }
func (a Amount) Mul(n int) Amount         { return Amount{d: a.d.Mul(decimal.NewFromInt(int64(n)))} }
func (a Amount) String() string           { return a.d.String() }

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.d.String()), nil
}

// UnmarshalJSON accepts numbers and numeric strings.
func (a *Amount) UnmarshalJSON(b []byte) error {
	return a.d.UnmarshalJSON(b)
}

func (a Amount) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberN{Value: a.d.String()}, nil
}

func (a *Amount) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	switch v := av.(type) {
	case *types.AttributeValueMemberN:
		d, err := decimal.NewFromString(v.Value)
		if err != nil {
			return fmt.Errorf("decode amount: %w", err)
		}
		a.d = d
		return nil
	case *types.AttributeValueMemberNULL:
		a.d = decimal.Zero
		return nil
	default:
		return fmt.Errorf("decode amount: unexpected attribute type %T", av)
	}
}

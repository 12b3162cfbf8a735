package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

type captureCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (c *captureCloudWatch) PutMetricData(ctx context.Context, in *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	c.inputs = append(c.inputs, in)
	return &cloudwatch.PutMetricDataOutput{}, c.err
}

func TestMetricsEmitter_Count(t *testing.T) {
	cw := &captureCloudWatch{}
	m := NewMetricsEmitter(cw, "Storefront")

	m.Count(context.Background(), "CartItemAdded", 2, map[string]string{"route": "cart", "env": "test"})

	if len(cw.inputs) != 1 {
		t.Fatalf("expected 1 put, got %d", len(cw.inputs))
	}
	datum := cw.inputs[0].MetricData[0]
	if *datum.MetricName != "CartItemAdded" || *datum.Value != 2 {
		t.Fatalf("unexpected datum: %+v", datum)
	}
	if len(datum.Dimensions) != 2 || *datum.Dimensions[0].Name != "env" {
		t.Fatalf("expected sorted dimensions, got %+v", datum.Dimensions)
	}
}

func TestMetricsEmitter_Disabled(t *testing.T) {
	cw := &captureCloudWatch{}
	NewMetricsEmitter(cw, "").Count(context.Background(), "X", 1, nil)
	if len(cw.inputs) != 0 {
		t.Fatalf("expected no puts without namespace, got %d", len(cw.inputs))
	}

	var nilEmitter *MetricsEmitter
	nilEmitter.Count(context.Background(), "X", 1, nil)

	// errors are swallowed
	NewMetricsEmitter(&captureCloudWatch{err: errors.New("down")}, "ns").Count(context.Background(), "X", 1, nil)
}

func TestIsConditionalCheckFailed(t *testing.T) {
	if !IsConditionalCheckFailed(&types.ConditionalCheckFailedException{}) {
		t.Fatal("expected typed exception to match")
	}
	apiErr := &smithy.GenericAPIError{Code: "ConditionalCheckFailedException", Message: "failed"}
	if !IsConditionalCheckFailed(apiErr) {
		t.Fatal("expected generic api error to match")
	}
	if IsConditionalCheckFailed(errors.New("other")) || IsConditionalCheckFailed(nil) {
		t.Fatal("unexpected match")
	}
}

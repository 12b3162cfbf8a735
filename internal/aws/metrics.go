package aws

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// MetricsEmitter publishes counters to CloudWatch. A nil emitter, or one
// without a namespace, drops every datapoint.
type MetricsEmitter struct {
	client    CloudWatchAPI
	namespace string
	nowFunc   func() time.Time
}

func NewMetricsEmitter(client CloudWatchAPI, namespace string) *MetricsEmitter {
	return &MetricsEmitter{
		client:    client,
		namespace: namespace,
		nowFunc:   time.Now,
	}
}

// Count records value under name. Failures are logged and never returned:
// a lost datapoint must not fail the request that produced it.
func (m *MetricsEmitter) Count(ctx context.Context, name string, value float64, dims map[string]string) {
	if m == nil || m.client == nil || m.namespace == "" {
		return
	}

	keys := make([]string, 0, len(dims))
	for k := range dims {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	dimensions := make([]cwtypes.Dimension, 0, len(keys))
	for _, k := range keys {
		dimensions = append(dimensions, cwtypes.Dimension{Name: String(k), Value: String(dims[k])})
	}

	now := m.nowFunc()
	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: &m.namespace,
		MetricData: []cwtypes.MetricDatum{{
			MetricName: &name,
			Value:      &value,
			Unit:       cwtypes.StandardUnitCount,
			Timestamp:  &now,
			Dimensions: dimensions,
		}},
	})
	if err != nil {
		log.Printf("[metrics] put metric failed name=%s err=%v", name, err)
	}
}

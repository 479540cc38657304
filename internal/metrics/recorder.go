// Package metrics publishes coarse business metrics to CloudWatch.
// Best-effort: a metrics failure never affects the request that produced it.
package metrics

import (
	"context"

	cw "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"

	"github.com/Creatishin/flora-knots-be/internal/aws"
)

// Recorder writes metric data under a single namespace.
type Recorder struct {
	client    aws.CloudWatchAPI
	namespace string
	log       *zap.Logger
}

// NewRecorder creates a Recorder. A nil client disables publishing.
func NewRecorder(client aws.CloudWatchAPI, namespace string, log *zap.Logger) *Recorder {
	return &Recorder{
		client:    client,
		namespace: namespace,
		log:       log.With(zap.String("component", "metrics")),
	}
}

// OrderPlaced counts one order and records its total.
func (r *Recorder) OrderPlaced(ctx context.Context, total float64) {
	one := 1.0
	r.put(ctx, []cwtypes.MetricDatum{
		{
			MetricName: awsString("OrdersPlaced"),
			Value:      &one,
			Unit:       cwtypes.StandardUnitCount,
		},
		{
			MetricName: awsString("OrderTotal"),
			Value:      &total,
			Unit:       cwtypes.StandardUnitNone,
		},
	})
}

// OrderCancelled counts one cancellation.
func (r *Recorder) OrderCancelled(ctx context.Context) {
	one := 1.0
	r.put(ctx, []cwtypes.MetricDatum{
		{
			MetricName: awsString("OrdersCancelled"),
			Value:      &one,
			Unit:       cwtypes.StandardUnitCount,
		},
	})
}

// ImagesCompressed counts images that made it through the pipeline.
func (r *Recorder) ImagesCompressed(ctx context.Context, n int) {
	if n <= 0 {
		return
	}
	v := float64(n)
	r.put(ctx, []cwtypes.MetricDatum{
		{
			MetricName: awsString("ImagesCompressed"),
			Value:      &v,
			Unit:       cwtypes.StandardUnitCount,
		},
	})
}

func (r *Recorder) put(ctx context.Context, data []cwtypes.MetricDatum) {
	if r == nil || r.client == nil {
		return
	}
	_, err := r.client.PutMetricData(ctx, &cw.PutMetricDataInput{
		Namespace:  &r.namespace,
		MetricData: data,
	})
	if err != nil {
		r.log.Warn("put metric data failed", zap.Error(err))
	}
}

func awsString(s string) *string { return &s }

package hooks

import (
	"context"
	"encoding/json"

	sqssvc "github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"github.com/Creatishin/flora-knots-be/internal/aws"
)

// SQSDispatcher publishes events to the queue drained by cmd/worker. Send
// failures are logged and swallowed; the triggering order already committed.
type SQSDispatcher struct {
	client   aws.SQSAPI
	queueURL string
	log      *zap.Logger
}

// NewSQSDispatcher returns a dispatcher bound to a queue URL.
func NewSQSDispatcher(client aws.SQSAPI, queueURL string, log *zap.Logger) *SQSDispatcher {
	return &SQSDispatcher{
		client:   client,
		queueURL: queueURL,
		log:      log.With(zap.String("component", "hooks")),
	}
}

func (d *SQSDispatcher) Dispatch(ctx context.Context, ev Event) {
	body, err := json.Marshal(ev)
	if err != nil {
		d.log.Error("marshal hook event", zap.String("order_id", ev.OrderID), zap.Error(err))
		return
	}

	bodyStr := string(body)
	input := &sqssvc.SendMessageInput{
		QueueUrl:    &d.queueURL,
		MessageBody: &bodyStr,
		MessageAttributes: map[string]sqstypes.MessageAttributeValue{
			"type": {
				DataType:    awsString("String"),
				StringValue: &ev.Type,
			},
			"order_id": {
				DataType:    awsString("String"),
				StringValue: &ev.OrderID,
			},
		},
	}

	if _, err := d.client.SendMessage(ctx, input); err != nil {
		d.log.Warn("enqueue hook event failed",
			zap.String("type", ev.Type),
			zap.String("order_id", ev.OrderID),
			zap.Error(err))
	}
}

func awsString(s string) *string { return &s }

package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQSPublisher implements the Publisher interface using AWS SQS.
type SQSPublisher struct {
	Client   *sqs.Client
	QueueURL string
}

// NewSQSPublisher creates a new SQSPublisher.
func NewSQSPublisher(client *sqs.Client, queueURL string) *SQSPublisher {
	return &SQSPublisher{
		Client:   client,
		QueueURL: queueURL,
	}
}

// Make sure we conform to the interface
var _ Publisher = (*SQSPublisher)(nil)

// PublishBatchApplied sends the event to an SQS queue.
func (p *SQSPublisher) PublishBatchApplied(ctx context.Context, event BatchApplied) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event for SQS: %w", err)
	}

	_, err = p.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.QueueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}

	return nil
}

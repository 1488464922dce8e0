package sqs

import (
	"context"
	"fmt"
	"time"

	"github.com/andreyxaxa/asset-pipeline/internal/infrastructure"
	"github.com/andreyxaxa/asset-pipeline/pkg/sqsclient"
	"github.com/aws/aws-sdk-go-v2/aws"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
)

type EventConsumer struct {
	*sqsclient.SQSClient

	batchSize int32
	waitTime  time.Duration
}

func NewEventConsumer(client *sqsclient.SQSClient, batchSize int, waitTime time.Duration) *EventConsumer {
	return &EventConsumer{
		SQSClient: client,
		batchSize: int32(batchSize),
		waitTime:  waitTime,
	}
}

func (ec *EventConsumer) ReceiveBatch(ctx context.Context) ([]infrastructure.Message, error) {
	result, err := ec.Client.ReceiveMessage(ctx, &awssqs.ReceiveMessageInput{
		QueueUrl:            aws.String(ec.QueueURL),
		MaxNumberOfMessages: ec.batchSize,
		WaitTimeSeconds:     int32(ec.waitTime.Seconds()),
	})
	if err != nil {
		return nil, fmt.Errorf("EventConsumer - ReceiveBatch - ec.Client.ReceiveMessage: %w", err)
	}

	msgs := make([]infrastructure.Message, 0, len(result.Messages))
	for _, m := range result.Messages {
		msgs = append(msgs, infrastructure.Message{
			ID:      aws.ToString(m.MessageId),
			Body:    aws.ToString(m.Body),
			Receipt: aws.ToString(m.ReceiptHandle),
		})
	}

	return msgs, nil
}

// Acknowledge удаляет сообщение из очереди. Неподтверждённое сообщение
// вернётся после visibility timeout.
func (ec *EventConsumer) Acknowledge(ctx context.Context, msg infrastructure.Message) error {
	_, err := ec.Client.DeleteMessage(ctx, &awssqs.DeleteMessageInput{
		QueueUrl:      aws.String(ec.QueueURL),
		ReceiptHandle: aws.String(msg.Receipt),
	})
	if err != nil {
		return fmt.Errorf("EventConsumer - Acknowledge - ec.Client.DeleteMessage: %w", err)
	}

	return nil
}

func (ec *EventConsumer) Close() error {
	return nil
}

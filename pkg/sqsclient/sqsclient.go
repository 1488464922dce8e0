package sqsclient

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

const (
	_defaultConnAttempts = 10
	_defaultConnTimeout  = time.Second
	_defaultRegion       = "us-east-1"
)

type SQSClient struct {
	connAttempts int
	connTimeout  time.Duration

	endpoint  string
	region    string
	accessKey string
	secretKey string
	queueURL  string

	Client   *sqs.Client
	QueueURL string
}

func New(ctx context.Context, endpoint, accessKey, secretKey, queueURL string, opts ...Option) (*SQSClient, error) {
	sc := &SQSClient{
		connAttempts: _defaultConnAttempts,
		connTimeout:  _defaultConnTimeout,
		region:       _defaultRegion,
		endpoint:     endpoint,
		accessKey:    accessKey,
		secretKey:    secretKey,
		queueURL:     queueURL,
	}

	for _, opt := range opts {
		opt(sc)
	}

	var err error
	for sc.connAttempts > 0 {
		err = sc.connect(ctx)
		if err == nil {
			break
		}

		log.Printf("SQS is trying to connect, attempts left: %d", sc.connAttempts)

		time.Sleep(sc.connTimeout)

		sc.connAttempts--
	}

	if err != nil {
		return nil, fmt.Errorf("SQSClient - New - connAttempts == 0: %w", err)
	}

	return sc, nil
}

func (s *SQSClient) connect(ctx context.Context) error {
	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(s.region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.accessKey, s.secretKey, ""),
		),
	)
	if err != nil {
		return fmt.Errorf("SQSClient - config.LoadDefaultConfig: %w", err)
	}

	s.Client = sqs.NewFromConfig(cfg, func(o *sqs.Options) {
		if s.endpoint != "" {
			o.BaseEndpoint = aws.String(s.endpoint)
		}
	})

	s.QueueURL = s.queueURL

	// check connection
	_, err = s.Client.GetQueueAttributes(ctx, &sqs.GetQueueAttributesInput{
		QueueUrl: aws.String(s.queueURL),
	})
	if err != nil {
		return fmt.Errorf("SQSClient - s.Client.GetQueueAttributes: %w", err)
	}

	return nil
}

package sqsclient

import "time"

type Option func(c *SQSClient)

func ConnAttempts(attempts int) Option {
	return func(c *SQSClient) {
		c.connAttempts = attempts
	}
}

func ConnTimeout(timeout time.Duration) Option {
	return func(c *SQSClient) {
		c.connTimeout = timeout
	}
}

func Region(region string) Option {
	return func(c *SQSClient) {
		c.region = region
	}
}

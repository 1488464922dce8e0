package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type (
	Config struct {
		HTTP          HTTP
		Log           Log
		AWS           AWS
		S3            S3
		DynamoDB      DynamoDB
		SQS           SQS
		Asset         Asset
		SQSController SQSController
		Swagger       Swagger
	}

	HTTP struct {
		Port           string `env:"HTTP_PORT,required"`
		UsePreforkMode bool   `env:"HTTP_USE_PREFORK_MODE" envDefault:"false"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL,required"`
	}

	AWS struct {
		Region    string `env:"AWS_REGION" envDefault:"us-east-1"`
		AccessKey string `env:"AWS_ACCESS_KEY,required"`
		SecretKey string `env:"AWS_SECRET_KEY,required"`
	}

	S3 struct {
		Endpoint       string        `env:"S3_ENDPOINT,required"`
		Bucket         string        `env:"S3_BUCKET,required"`
		CfgLoadTimeout time.Duration `env:"S3_LOAD_CFG_TIMEOUT" envDefault:"10s"`
	}

	DynamoDB struct {
		Endpoint       string        `env:"DYNAMODB_ENDPOINT"`
		Table          string        `env:"DYNAMODB_TABLE,required"`
		CfgLoadTimeout time.Duration `env:"DYNAMODB_LOAD_CFG_TIMEOUT" envDefault:"10s"`
	}

	SQS struct {
		Endpoint       string        `env:"SQS_ENDPOINT"`
		QueueURL       string        `env:"SQS_QUEUE_URL,required"`
		BatchSize      int           `env:"SQS_BATCH_SIZE" envDefault:"10"`
		WaitTime       time.Duration `env:"SQS_WAIT_TIME" envDefault:"20s"`
		CfgLoadTimeout time.Duration `env:"SQS_LOAD_CFG_TIMEOUT" envDefault:"10s"`
	}

	Asset struct {
		DownscaleThreshold int           `env:"ASSET_DOWNSCALE_THRESHOLD" envDefault:"1024"`
		GrantTTL           time.Duration `env:"ASSET_GRANT_TTL" envDefault:"5m"`
		DownloadTTL        time.Duration `env:"ASSET_DOWNLOAD_TTL" envDefault:"10m"`
		MaxUploadBytes     int64         `env:"ASSET_MAX_UPLOAD_BYTES" envDefault:"10485760"`
		MaxPageSize        int           `env:"ASSET_MAX_PAGE_SIZE" envDefault:"25"`
	}

	SQSController struct {
		AckTimeout      time.Duration `env:"SQS_CONTROLLER_ACK_TIMEOUT" envDefault:"2s"`
		ProcessTimeout  time.Duration `env:"SQS_CONTROLLER_PROCESS_TIMEOUT" envDefault:"15s"` // вся операция - чтение/запись в хранилище и БД, обработка изображения
		ShutdownTimeout time.Duration `env:"SQS_CONTROLLER_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	}

	Swagger struct {
		Enabled bool `env:"SWAGGER_ENABLED" envDefault:"false"`
	}
)

func New() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return cfg, nil
}

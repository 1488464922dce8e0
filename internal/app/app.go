package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/andreyxaxa/asset-pipeline/config"
	"github.com/andreyxaxa/asset-pipeline/internal/controller/restapi"
	sqsctrl "github.com/andreyxaxa/asset-pipeline/internal/controller/sqs"
	"github.com/andreyxaxa/asset-pipeline/internal/infrastructure/processor"
	infrasqs "github.com/andreyxaxa/asset-pipeline/internal/infrastructure/sqs"
	"github.com/andreyxaxa/asset-pipeline/internal/repo/persistent"
	"github.com/andreyxaxa/asset-pipeline/internal/usecase/asset"
	"github.com/andreyxaxa/asset-pipeline/internal/usecase/ingest"
	"github.com/andreyxaxa/asset-pipeline/pkg/dynamoclient"
	"github.com/andreyxaxa/asset-pipeline/pkg/httpserver"
	"github.com/andreyxaxa/asset-pipeline/pkg/logger"
	"github.com/andreyxaxa/asset-pipeline/pkg/s3client"
	"github.com/andreyxaxa/asset-pipeline/pkg/sqsclient"
)

func Run(cfg *config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Logger
	l := logger.New(cfg.Log.Level)

	// Repository

	// s3
	s3Ctx, s3Cancel := context.WithTimeout(ctx, cfg.S3.CfgLoadTimeout)
	defer s3Cancel()
	s3c, err := s3client.New(s3Ctx, cfg.S3.Endpoint, cfg.AWS.AccessKey, cfg.AWS.SecretKey,
		s3client.Region(cfg.AWS.Region))
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - s3client.New: %w", err))
	}

	// dynamodb
	dynamoCtx, dynamoCancel := context.WithTimeout(ctx, cfg.DynamoDB.CfgLoadTimeout)
	defer dynamoCancel()
	dc, err := dynamoclient.New(dynamoCtx, cfg.DynamoDB.Endpoint, cfg.AWS.AccessKey, cfg.AWS.SecretKey, cfg.DynamoDB.Table,
		dynamoclient.Region(cfg.AWS.Region))
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - dynamoclient.New: %w", err))
	}

	blobRepo := persistent.NewAssetBlobRepo(s3c, cfg.S3.Bucket)
	recordRepo := persistent.NewAssetRecordRepo(dc, cfg.DynamoDB.Table)

	// Use-Case

	// asset use-case
	assetUseCase := asset.New(
		blobRepo,
		recordRepo,
		l,
		cfg.Asset.GrantTTL,
		cfg.Asset.DownloadTTL,
		cfg.Asset.MaxUploadBytes,
		cfg.Asset.MaxPageSize,
	)

	// ingest use-case
	ingestUseCase := ingest.New(
		blobRepo,
		recordRepo,
		processor.New(),
		l,
		cfg.Asset.DownscaleThreshold,
	)

	// SQS Consumer
	sqsCtx, sqsCancel := context.WithTimeout(ctx, cfg.SQS.CfgLoadTimeout)
	defer sqsCancel()
	sc, err := sqsclient.New(sqsCtx, cfg.SQS.Endpoint, cfg.AWS.AccessKey, cfg.AWS.SecretKey, cfg.SQS.QueueURL,
		sqsclient.Region(cfg.AWS.Region))
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - sqsclient.New: %w", err))
	}

	// SQS as Controller
	sqsController := sqsctrl.New(
		ingestUseCase,
		infrasqs.NewEventConsumer(sc, cfg.SQS.BatchSize, cfg.SQS.WaitTime),
		l,
		cfg.SQSController.AckTimeout,
		cfg.SQSController.ProcessTimeout,
		runtime.NumCPU(),
	)

	// HTTP Server
	httpServer := httpserver.New(l, httpserver.Port(cfg.HTTP.Port), httpserver.Prefork(cfg.HTTP.UsePreforkMode))
	restapi.NewRouter(httpServer.App, cfg, assetUseCase, l)

	// Start Components
	err = sqsController.Start(ctx)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - sqsController.Start: %w", err))
	}
	httpServer.Start()

	// Waiting Signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		l.Info("app - Run - signal: %s", s.String())
	case err = <-httpServer.Notify():
		l.Error(fmt.Errorf("app - Run - httpServer.Notify: %w", err))
	}

	// Shutdown
	err = httpServer.Shutdown()
	if err != nil {
		l.Error(fmt.Errorf("app - Run - httpServer.Shutdown: %w", err))
	}

	scShutdownCtx, scShutdownCancel := context.WithTimeout(ctx, cfg.SQSController.ShutdownTimeout)
	defer scShutdownCancel()
	err = sqsController.Shutdown(scShutdownCtx)
	if err != nil {
		l.Error(fmt.Errorf("app - Run - sqsController.Shutdown: %w", err))
	}
}

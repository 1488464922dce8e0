package sqs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andreyxaxa/asset-pipeline/internal/entity"
	"github.com/andreyxaxa/asset-pipeline/internal/infrastructure"
	"github.com/andreyxaxa/asset-pipeline/internal/usecase"
	"github.com/andreyxaxa/asset-pipeline/pkg/logger"
	"github.com/andreyxaxa/asset-pipeline/pkg/types/errs"
)

type SQSController struct {
	ing    usecase.IngestUseCase
	ns     infrastructure.NotificationSource
	logger logger.Interface

	ackTimeout     time.Duration
	processTimeout time.Duration

	workers int
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	started atomic.Bool
}

func New(
	ing usecase.IngestUseCase,
	ns infrastructure.NotificationSource,
	l logger.Interface,
	ackTimeout time.Duration,
	processTimeout time.Duration,
	workers int,
) *SQSController {
	return &SQSController{
		ing:            ing,
		ns:             ns,
		logger:         l,
		ackTimeout:     ackTimeout,
		processTimeout: processTimeout,
		workers:        workers,
	}
}

func (c *SQSController) Start(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return fmt.Errorf("SQSController - Start - controller already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)

	// канал для задач
	tasks := make(chan infrastructure.Message, c.workers*2)

	// запускаем воркеры
	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go c.worker(tasks)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(tasks)

		for {
			select {
			case <-c.ctx.Done():
				return
			default:
				// 1. длинный опрос очереди
				msgs, err := c.ns.ReceiveBatch(c.ctx)
				if err != nil {
					if !errors.Is(err, context.Canceled) {
						c.logger.Error(err, "SQSController - Start - c.ns.ReceiveBatch")
					}
					continue
				}

				// 2. отправляем в канал для воркеров
				for _, msg := range msgs {
					select {
					case tasks <- msg:
					case <-c.ctx.Done():
						return
					}
				}
			}
		}
	}()

	return nil
}

// processMessage возвращает true, если сообщение можно подтверждать.
// false оставляет сообщение в очереди до повторной доставки.
func (c *SQSController) processMessage(ctx context.Context, msg infrastructure.Message) bool {
	var body notificationBody
	err := json.Unmarshal([]byte(msg.Body), &body)
	if err != nil {
		// повторная доставка кривой JSON не починит
		c.logger.Warn("skipping malformed notification id=%s: %v", msg.ID, err)
		return true
	}

	handled := true

	// записи независимы: падение одной не трогает соседние
	for _, rec := range body.Records {
		if !strings.HasPrefix(rec.EventName, createdEventPrefix) {
			c.logger.Debug("skipping event %s", rec.EventName)
			continue
		}

		key, err := decodeObjectKey(rec.S3.Object.Key)
		if err != nil {
			c.logger.Warn("skipping undecodable key %q: %v", rec.S3.Object.Key, err)
			continue
		}

		ownerID, assetID, ok := entity.ParseRawKey(key)
		if !ok {
			c.logger.Debug("skipping key %q: not a raw asset key", key)
			continue
		}

		err = c.ing.Ingest(ctx, ownerID, assetID)
		if err != nil {
			if errors.Is(err, errs.ErrInvalidImage) {
				c.logger.Warn("skipping invalid image owner=%s asset=%s: %v", ownerID, assetID, err)
				continue
			}

			c.logger.Error(err, "SQSController - processMessage - c.ing.Ingest")
			handled = false
		}
	}

	return handled
}

func (c *SQSController) worker(tasks <-chan infrastructure.Message) {
	defer c.wg.Done()

	// читаем канал, пока не закроется
	for msg := range tasks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.logger.Error(fmt.Errorf("panic %v", r), "SQSController - worker - panic")
				}
			}()

			// выполняем обработку
			processCtx, processCancel := context.WithTimeout(c.ctx, c.processTimeout)
			handled := c.processMessage(processCtx, msg)
			processCancel()
			if !handled {
				// сообщение вернётся после visibility timeout
				return
			}

			// подтверждаем после успешной обработки
			ackCtx, ackCancel := context.WithTimeout(c.ctx, c.ackTimeout)
			err := c.ns.Acknowledge(ackCtx, msg)
			ackCancel()
			if err != nil {
				c.logger.Error(err, "SQSController - worker - c.ns.Acknowledge")
			}
		}()
	}
}

func (c *SQSController) Shutdown(ctx context.Context) error {
	if !c.started.Load() {
		return nil
	}

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})

	go func() {
		c.wg.Wait()
		c.ns.Close()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return nil
	}
}

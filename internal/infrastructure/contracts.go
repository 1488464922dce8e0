package infrastructure

import (
	"context"

	"github.com/andreyxaxa/asset-pipeline/internal/entity"
)

// Message - одно сообщение из очереди уведомлений.
type Message struct {
	ID      string
	Body    string
	Receipt string
}

type (
	ImageTransformer interface {
		Probe(data []byte) (entity.ImageMetadata, error)
		Downscale(ctx context.Context, data []byte, width, height int) ([]byte, entity.ImageMetadata, error)
	}

	// NotificationSource - очередь событий хранилища, at-least-once.
	// Неподтверждённые сообщения доставляются повторно.
	NotificationSource interface {
		ReceiveBatch(ctx context.Context) ([]Message, error)
		Acknowledge(ctx context.Context, msg Message) error
		Close() error
	}
)

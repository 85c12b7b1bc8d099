package kafka

import (
	"context"

	"github.com/nguyentranbao-ct/price-tracker/internal/models"
)

// Consumer defines the interface for Kafka message consumption
type Consumer interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// MessageHandler handles a decoded refresh trigger.
type MessageHandler interface {
	HandleMessage(ctx context.Context, req *models.RefreshRequest) error
}

// Publisher sends change logs to the changes topic.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, changeLog models.ChangeLog) error
	Close() error
}

package kafka

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/nguyentranbao-ct/price-tracker/internal/config"
	"github.com/nguyentranbao-ct/price-tracker/internal/models"
	log "github.com/nguyentranbao-ct/price-tracker/pkg/logger/log"
)

const publisherName = "kafka"

type changePublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewPublisher returns a no-op publisher when Kafka is disabled.
func NewPublisher(conf *config.Config) (Publisher, error) {
	cfg := conf.Kafka
	if !cfg.Enabled {
		return &noopPublisher{}, nil
	}

	producer, err := sarama.NewSyncProducer(cfg.Brokers, newSaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("new sync producer: %w", err)
	}
	return newChangePublisher(producer, cfg.ChangesTopic), nil
}

func newChangePublisher(producer sarama.SyncProducer, topic string) *changePublisher {
	return &changePublisher{
		producer: producer,
		topic:    topic,
	}
}

func newSaramaConfig() *sarama.Config {
	c := sarama.NewConfig()
	c.ClientID = "price-tracker"
	c.Producer.RequiredAcks = sarama.WaitForAll
	c.Producer.Return.Successes = true
	c.Producer.Retry.Max = 3
	c.Consumer.Offsets.Initial = sarama.OffsetNewest
	c.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{
		sarama.NewBalanceStrategyRoundRobin(),
	}
	return c
}

func (p *changePublisher) Name() string {
	return publisherName
}

func (p *changePublisher) Publish(ctx context.Context, changeLog models.ChangeLog) error {
	value, err := json.Marshal(changeLog)
	if err != nil {
		return fmt.Errorf("marshal change log: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(changeLog.ID),
		Value:     sarama.ByteEncoder(value),
		Timestamp: changeLog.Timestamp,
		Headers: []sarama.RecordHeader{
			{Key: []byte("content-type"), Value: []byte("application/json")},
		},
	})
	if err != nil {
		return fmt.Errorf("send change log: %w", err)
	}

	log.Debugw(ctx, "change log published",
		"topic", p.topic,
		"partition", partition,
		"offset", offset,
		"changes", len(changeLog.Changes),
	)
	return nil
}

func (p *changePublisher) Close() error {
	return p.producer.Close()
}

// noopPublisher is used when Kafka is disabled
type noopPublisher struct{}

func (n *noopPublisher) Name() string {
	return publisherName
}

func (n *noopPublisher) Publish(context.Context, models.ChangeLog) error {
	return nil
}

func (n *noopPublisher) Close() error {
	return nil
}

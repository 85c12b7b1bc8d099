package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/nguyentranbao-ct/price-tracker/internal/config"
	"github.com/nguyentranbao-ct/price-tracker/internal/models"
	"github.com/nguyentranbao-ct/price-tracker/pkg/logger"
	log "github.com/nguyentranbao-ct/price-tracker/pkg/logger/log"
	"github.com/nguyentranbao-ct/price-tracker/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type kafkaConsumer struct {
	group          sarama.ConsumerGroup
	topic          string
	groupID        string
	metrics        *prometheus.HistogramVec
	consumeTimeout time.Duration
	messageHandler MessageHandler
	started        atomic.Bool
	stopOnce       sync.Once
	stop           chan struct{}
	done           chan struct{}
}

// NewConsumer creates the refresh trigger consumer. It returns a no-op
// consumer when Kafka is disabled.
func NewConsumer(conf *config.Config, handler MessageHandler) (Consumer, error) {
	cfg := conf.Kafka
	if !cfg.Enabled {
		return &noopConsumer{}, nil
	}

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, newSaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("new consumer group: %w", err)
	}
	return newKafkaConsumer(group, cfg.RefreshTopic, cfg.GroupID, handler)
}

func newKafkaConsumer(group sarama.ConsumerGroup, topic, groupID string, handler MessageHandler) (*kafkaConsumer, error) {
	metrics, err := util.GetHistogramVec("kafka_messages_consumed", "status", "topic", "group")
	if err != nil {
		return nil, fmt.Errorf("get histogram vec: %w", err)
	}
	return &kafkaConsumer{
		group:          group,
		topic:          topic,
		groupID:        groupID,
		metrics:        metrics,
		consumeTimeout: 2 * time.Minute,
		messageHandler: handler,
		stop:           make(chan struct{}),
		done:           make(chan struct{}),
	}, nil
}

// Start blocks until ctx is done or Stop is called.
func (c *kafkaConsumer) Start(ctx context.Context) error {
	c.started.Store(true)
	defer close(c.done)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-c.stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	log.Infof(ctx, "Starting Kafka consumer for topic: %s", c.topic)
	for {
		err := c.group.Consume(ctx, []string{c.topic}, c)
		if errors.Is(err, sarama.ErrClosedConsumerGroup) || ctx.Err() != nil {
			return nil
		}
		if err != nil {
			log.Errorw(ctx, "Error consuming refresh topic", "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
		}
	}
}

func (c *kafkaConsumer) Stop(ctx context.Context) error {
	log.Infof(ctx, "Stopping Kafka consumer")
	c.stopOnce.Do(func() { close(c.stop) })
	if c.started.Load() {
		select {
		case <-c.done:
		case <-ctx.Done():
		}
	}
	return c.group.Close()
}

func (c *kafkaConsumer) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (c *kafkaConsumer) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (c *kafkaConsumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case <-session.Context().Done():
			return nil
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			c.processMessage(session.Context(), msg)
			session.MarkMessage(msg, "")
		}
	}
}

func (c *kafkaConsumer) processMessage(ctx context.Context, msg *sarama.ConsumerMessage) {
	start := time.Now()
	lagMs := start.Sub(msg.Timestamp).Milliseconds()

	duration, err := c.handle(ctx, msg)

	code := getCode(err)
	content := "success"
	if err != nil {
		content = err.Error()
	}

	log.Logw(ctx, getLogLevel(code), content,
		"code", code,
		"duration_ms", duration.Milliseconds(),
		"topic", msg.Topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
		"lag_ms", lagMs,
		"key", string(msg.Key),
		"value", string(msg.Value),
	)

	c.metrics.
		WithLabelValues(code.String(), msg.Topic, c.groupID).
		Observe(duration.Seconds())
}

func (c *kafkaConsumer) handle(msgCtx context.Context, msg *sarama.ConsumerMessage) (duration time.Duration, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PANIC RECOVER: %+v", r)
		}
	}()

	start := time.Now()
	defer func() {
		duration = time.Since(start)
	}()

	var req models.RefreshRequest
	if len(msg.Value) > 0 {
		if err := json.Unmarshal(msg.Value, &req); err != nil {
			return 0, status.Errorf(codes.InvalidArgument, "unmarshal refresh request: %v", err)
		}
	}

	ctx := logger.WithFields(msgCtx, "trigger", "kafka", "reason", req.Reason)
	ctx, cancel := context.WithTimeout(ctx, c.consumeTimeout)
	defer cancel()

	return 0, c.messageHandler.HandleMessage(ctx, &req)
}

func getCode(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return codes.DeadlineExceeded
	}
	if errors.Is(err, context.Canceled) {
		return codes.Canceled
	}
	if st, ok := status.FromError(err); ok {
		return st.Code()
	}
	return codes.Unknown
}

// noopConsumer is used when Kafka is disabled
type noopConsumer struct{}

func (n *noopConsumer) Start(ctx context.Context) error {
	log.Infof(ctx, "Kafka consumer is disabled")
	return nil
}

func (n *noopConsumer) Stop(ctx context.Context) error {
	return nil
}

func getLogLevel(code codes.Code) logger.Level {
	switch code {
	case codes.OK:
		return logger.InfoLevel
	case codes.Canceled,
		codes.InvalidArgument,
		codes.NotFound,
		codes.AlreadyExists,
		codes.PermissionDenied,
		codes.Unauthenticated,
		codes.ResourceExhausted,
		codes.FailedPrecondition,
		codes.Aborted,
		codes.Unimplemented,
		codes.OutOfRange:
		return logger.WarnLevel
	default:
		return logger.ErrorLevel
	}
}

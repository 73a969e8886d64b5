package pubsub

import (
	"context"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/google/uuid"

	pkglog "github.com/wrxx97/chat/pkg/log"
)

const kafkaPollMs = 200

// KafkaSource consumes one topic per channel. Every instance joins its own
// consumer group so each notify server sees every notification.
type KafkaSource struct {
	consumer *kafka.Consumer
}

func NewKafkaSource(cfg KafkaConfig, channels ...string) (*KafkaSource, error) {
	group := cfg.GroupID
	if group == "" {
		group = "notify-server"
	}

	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  cfg.Brokers,
		"group.id":           group + "-" + uuid.NewString(),
		"auto.offset.reset":  "latest",
		"enable.auto.commit": false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer: %w", err)
	}

	if err := c.SubscribeTopics(channels, nil); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to subscribe to %v: %w", channels, err)
	}

	return &KafkaSource{consumer: c}, nil
}

func (s *KafkaSource) Receive(ctx context.Context) (*Notification, error) {
	logger := pkglog.L()
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		switch e := s.consumer.Poll(kafkaPollMs).(type) {
		case nil:
			continue
		case *kafka.Message:
			if e.TopicPartition.Error != nil {
				logger.Warn().Err(e.TopicPartition.Error).Msg("kafka message error")
				continue
			}
			return &Notification{Channel: *e.TopicPartition.Topic, Payload: string(e.Value)}, nil
		case kafka.Error:
			if e.IsFatal() || e.Code() == kafka.ErrAllBrokersDown {
				return nil, fmt.Errorf("kafka consumer: %w", e)
			}
			logger.Warn().Err(e).Int("code", int(e.Code())).Msg("kafka consumer error")
		}
	}
}

func (s *KafkaSource) Close() error {
	return s.consumer.Close()
}

// KafkaPublisher produces to the topic named after the channel.
type KafkaPublisher struct {
	producer *kafka.Producer
	cfg      KafkaConfig
	doneCh   chan struct{}
}

func NewKafkaPublisher(cfg KafkaConfig) (*KafkaPublisher, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": cfg.Brokers,
		"acks":              "1",
		"linger.ms":         5,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	kp := &KafkaPublisher{producer: p, cfg: cfg, doneCh: make(chan struct{})}
	go kp.deliveryReportHandler()

	if err := kp.ensureTopics(ChannelChatUpdated, ChannelChatMessageCreated); err != nil {
		l := pkglog.L()
		l.Warn().Err(err).Msg("failed to ensure kafka topics (may already exist)")
	}

	return kp, nil
}

// ensureTopics creates the channel topics if missing.
func (k *KafkaPublisher) ensureTopics(topics ...string) error {
	admin, err := kafka.NewAdminClientFromProducer(k.producer)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer admin.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	results, err := admin.CreateTopics(ctx, topicSpecs(k.cfg.Partitions, topics...))
	if err != nil {
		return fmt.Errorf("failed to create topics: %w", err)
	}
	for _, r := range results {
		if r.Error.Code() != kafka.ErrNoError && r.Error.Code() != kafka.ErrTopicAlreadyExists {
			l := pkglog.L()
			l.Warn().Str(pkglog.FieldChannel, r.Topic).Err(r.Error).Msg("failed to create topic")
		}
	}
	return nil
}

// topicSpecs describes one topic per channel. Messages are produced without a
// key, so only a single partition keeps a channel in commit order; more
// partitions trade that order for throughput.
func topicSpecs(partitions int, topics ...string) []kafka.TopicSpecification {
	if partitions < 1 {
		partitions = 1
	}
	specs := make([]kafka.TopicSpecification, 0, len(topics))
	for _, t := range topics {
		specs = append(specs, kafka.TopicSpecification{Topic: t, NumPartitions: partitions, ReplicationFactor: 1})
	}
	return specs
}

func (k *KafkaPublisher) deliveryReportHandler() {
	for e := range k.producer.Events() {
		if m, ok := e.(*kafka.Message); ok && m.TopicPartition.Error != nil {
			l := pkglog.L()
			l.Error().Err(m.TopicPartition.Error).Msg("kafka delivery failed")
		}
	}
	close(k.doneCh)
}

func (k *KafkaPublisher) Publish(_ context.Context, channel string, payload []byte) error {
	topic := channel
	err := k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          payload,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to produce message: %w", err)
	}
	return nil
}

func (k *KafkaPublisher) Close() error {
	k.producer.Flush(5000)
	k.producer.Close()
	<-k.doneCh
	return nil
}

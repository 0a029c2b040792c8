package kafka

import (
	"NewsDesk/internal/api/config"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// ViewPublisher 将唯一阅读投递到消息队列
type ViewPublisher interface {
	PublishView(ctx context.Context, msg *ViewMessage) error
	Close() error
}

type viewPublisherImpl struct {
	producer sarama.SyncProducer
	topic    string
}

// NewViewPublisher 根据配置创建生产者，Brokers 为空时返回空实现
func NewViewPublisher(cfg *config.Config) (ViewPublisher, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		log.Warn("kafka brokers not configured, view stream disabled")
		return NewNoopViewPublisher(), nil
	}
	producer, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, newSaramaConfig(cfg.Kafka))
	if err != nil {
		return nil, err
	}
	return NewViewPublisherWithProducer(producer, cfg.KafkaViewConsumer.Topic), nil
}

func NewViewPublisherWithProducer(producer sarama.SyncProducer, topic string) ViewPublisher {
	return &viewPublisherImpl{producer: producer, topic: topic}
}

func (s *viewPublisherImpl) PublishView(ctx context.Context, msg *ViewMessage) error {
	value, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	partition, offset, err := s.producer.SendMessage(&sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(msg.ArticleSlug),
		Value: sarama.ByteEncoder(value),
	})
	if err != nil {
		return err
	}
	log.DebugContext(ctx, "view message published",
		"slug", msg.ArticleSlug,
		"partition", partition,
		"offset", offset,
	)
	return nil
}

func (s *viewPublisherImpl) Close() error {
	return s.producer.Close()
}

type noopViewPublisher struct{}

func NewNoopViewPublisher() ViewPublisher {
	return noopViewPublisher{}
}

func (noopViewPublisher) PublishView(context.Context, *ViewMessage) error { return nil }

func (noopViewPublisher) Close() error { return nil }

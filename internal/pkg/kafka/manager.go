package kafka

import (
	"NewsDesk/internal/api/config"
	"NewsDesk/internal/pkg/redis"
	"context"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	topic string

	viewsConsumer sarama.ConsumerGroup
	viewsHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数，Brokers 为空时返回 nil
func NewConsumerManager(cfg *config.Config, cache redis.Cache, loc *time.Location) (*ConsumerManager, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}
	saramaCfg := newSaramaConfig(cfg.Kafka)

	viewsConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaViewConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	return &ConsumerManager{
		topic:         cfg.KafkaViewConsumer.Topic,
		viewsConsumer: viewsConsumer,
		viewsHandler:  NewViewsHandler(cache, loc),
	}, nil
}

// Start 启动所有消费者，阻塞直到 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context) error {
	go func() {
		for err := range m.viewsConsumer.Errors() {
			log.Error("view consumer group error", "err", err)
		}
	}()

	go func() {
		log.Info("View consumer started", "topic", m.topic)
		for {
			if err := m.viewsConsumer.Consume(ctx, []string{m.topic}, m.viewsHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.viewsConsumer.Close(); err != nil {
		log.Error("Failed to close view consumer", "err", err)
		return err
	}
	return nil
}

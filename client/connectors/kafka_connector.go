/*
 * @module client/connectors/kafka_connector
 * @description Kafka结果连接器，把每次流水线运行的活动日志条目镜像发布到Kafka主题，供下游订阅
 * @architecture 适配器模式 - 封装第三方Kafka客户端
 * @documentReference ai_docs/clientbase_pipeline_design.md
 * @stateFlow 连接建立 -> 条目序列化 -> 消息发送 -> 连接关闭
 * @rules 发布是尽力而为的镜像，失败由调用方记录日志吸收，不参与流水线结果判定
 * @dependencies github.com/segmentio/kafka-go, encoding/json
 * @refs service/pipeline/activity_logger.go
 */

package connectors

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"clientbase-service/service/models"
)

// OutcomePublisherConfig Kafka结果发布配置
type OutcomePublisherConfig struct {
	Brokers      []string      `json:"brokers"`
	Topic        string        `json:"topic"`
	BatchTimeout time.Duration `json:"batch_timeout"`
}

// KafkaOutcomePublisher 流水线结果的Kafka发布端
type KafkaOutcomePublisher struct {
	writer *kafka.Writer
}

// NewKafkaOutcomePublisher 创建Kafka结果发布端
func NewKafkaOutcomePublisher(config OutcomePublisherConfig) *KafkaOutcomePublisher {
	batchTimeout := config.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = time.Second
	}
	return &KafkaOutcomePublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(config.Brokers...),
			Topic:        config.Topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: batchTimeout,
		},
	}
}

// PublishOutcome 发布一条活动日志条目
// 消息键为activity名，保证同一报表类型的结果在分区内有序
func (p *KafkaOutcomePublisher) PublishOutcome(ctx context.Context, entry *models.PipelineActivityLog) error {
	value, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("活动日志序列化失败: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(entry.Activity),
		Value: value,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("活动日志发布失败: %w", err)
	}
	return nil
}

// Close 关闭底层生产者
func (p *KafkaOutcomePublisher) Close() error {
	return p.writer.Close()
}

/*
 * @module service/pipeline/activity_logger
 * @description 活动日志器，尽力而为地把每次流水线运行的终态写入审计表并可选镜像到Kafka主题
 * @architecture 分层架构 - 审计层
 * @documentReference ai_docs/clientbase_pipeline_design.md
 * @stateFlow 终态生成 -> 消息截断 -> 审计表写入 -> 可选事件发布
 * @rules 日志写入的任何失败只记录到运维日志，绝不向上传播，不得掩盖被记录的流水线结果
 * @dependencies gorm.io/gorm, log/slog
 * @refs pipeline.go, client/connectors/kafka_connector.go
 */

package pipeline

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"clientbase-service/service/models"
)

// 审计表消息列的长度上限，超长截断
const maxActivityMessage = 1000

// OutcomePublisher 运行终态的可选外部发布端
type OutcomePublisher interface {
	PublishOutcome(ctx context.Context, entry *models.PipelineActivityLog) error
}

// ActivityLogger 活动日志器
type ActivityLogger struct {
	db        *gorm.DB
	publisher OutcomePublisher // 可为nil
}

// NewActivityLogger 创建活动日志器
func NewActivityLogger(db *gorm.DB, publisher OutcomePublisher) *ActivityLogger {
	return &ActivityLogger{db: db, publisher: publisher}
}

// Log 记录一次运行的终态
// 尽力而为：审计表或事件发布失败只打运维日志，从不返回错误
func (l *ActivityLogger) Log(ctx context.Context, runID, activity, status string, rowCount int64, message string) {
	if len(message) > maxActivityMessage {
		// 截断点退到rune边界，避免把多字节字符劈成非法UTF-8
		cut := maxActivityMessage
		for cut > 0 && !utf8.RuneStart(message[cut]) {
			cut--
		}
		message = message[:cut]
	}

	entry := &models.PipelineActivityLog{
		RunID:     runID,
		Activity:  activity,
		Status:    status,
		RowCount:  rowCount,
		Message:   message,
		CreatedAt: time.Now(),
	}

	if l.db != nil {
		if err := l.db.WithContext(ctx).Create(entry).Error; err != nil {
			slog.Warn("活动日志写入失败",
				"run_id", runID,
				"activity", activity,
				"error", err)
		}
	}

	pipelineRunsTotal.WithLabelValues(activity, status).Inc()

	if l.publisher != nil {
		if err := l.publisher.PublishOutcome(ctx, entry); err != nil {
			slog.Warn("活动事件发布失败",
				"run_id", runID,
				"activity", activity,
				"error", err)
		}
	}
}

/*
 * @module service/pipeline/pipeline
 * @description 流水线编排器，按固定状态机顺序执行下载、原始备份、规范化、对账、批量写入、历史快照与活动日志
 * @architecture 分层架构 - 编排层，状态机顺序推进
 * @documentReference ai_docs/clientbase_pipeline_design.md
 * @stateFlow Received -> Downloaded -> Normalized -> Reconciled -> Written -> Snapshotted -> Logged(Success)；
 *            无下载URL时短路到Logged(Warning)；任意状态异常进入Logged(Error)
 * @rules 单次调用内严格顺序、不重试、不回退；重试完全依赖合作方的webhook重投；每次调用恰好返回一个结构化结果
 * @dependencies gorm.io/gorm, github.com/google/uuid
 * @refs normalizer.go, reconciler.go, batch_writer.go, historian.go, activity_logger.go
 */

package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"clientbase-service/service/meta"
	"clientbase-service/service/models"
)

// Downloader 报表文件下载端
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// Service 单个报表类型的流水线服务
type Service struct {
	db         *gorm.DB
	cfg        *meta.ReportConfig
	downloader Downloader
	normalizer *Normalizer
	reconciler *Reconciler
	writer     *BatchWriter
	historian  *Historian
	activity   *ActivityLogger
}

// NewService 创建流水线服务，所有依赖在构造时显式注入
func NewService(db *gorm.DB, cfg *meta.ReportConfig, downloader Downloader, limits meta.EngineLimits, publisher OutcomePublisher) *Service {
	writer := NewBatchWriter(db, limits)
	return &Service{
		db:         db,
		cfg:        cfg,
		downloader: downloader,
		normalizer: NewNormalizer(cfg),
		reconciler: NewReconciler(db, cfg),
		writer:     writer,
		historian:  NewHistorian(writer, cfg),
		activity:   NewActivityLogger(db, publisher),
	}
}

// Run 处理一次webhook投递，返回恰好一个结构化结果
// 无下载URL是合作方"数据尚未就绪"，以Warning短路确认，避免重投风暴
func (s *Service) Run(ctx context.Context, notification Notification) Outcome {
	runID := uuid.New().String()
	runDate := time.Now()

	slog.Info("流水线开始",
		"run_id", runID,
		"activity", s.cfg.Name,
		"account", notification.AccountNumber,
		"reference_date", notification.ReferenceDate)

	if notification.URL == "" {
		return s.finish(ctx, runID, models.ActivityStatusWarning, 0, "通知未携带下载URL，等待合作方生成文件", 0)
	}

	payload, err := s.downloader.Download(ctx, notification.URL)
	if err != nil {
		return s.fail(ctx, runID, fmt.Sprintf("文件下载失败: %v", err))
	}
	if len(payload) == 0 {
		return s.finish(ctx, runID, models.ActivityStatusWarning, 0, "下载内容为空", 0)
	}

	extract, _, err := ParseExtract(payload)
	if err != nil {
		return s.fail(ctx, runID, fmt.Sprintf("提取解析失败: %v", err))
	}

	warnings := 0

	// 原始备份镜像是取证用途，失败降级继续，不阻断主流程
	if err := s.mirrorRaw(ctx, runID, extract); err != nil {
		slog.Warn("原始备份写入失败", "run_id", runID, "error", err)
		warnings++
	}

	normalized := s.normalizer.Normalize(extract)

	switch s.cfg.Strategy {
	case meta.LoadStrategyAppend:
		return s.runAppend(ctx, runID, runDate, normalized, warnings)
	default:
		return s.runReconcile(ctx, runID, runDate, normalized, warnings)
	}
}

// runReconcile 对账-替换-快照主路径
func (s *Service) runReconcile(ctx context.Context, runID string, runDate time.Time, normalized []Record, warnings int) Outcome {
	reconciled, projection, stepResult := s.reconciler.Reconcile(ctx, normalized)
	if stepResult.State == StepRecovered {
		warnings++
	}

	// 已知竞态：同一报表的并发重投会各自整表替换，后写者胜
	written, writeResult, err := s.writer.Write(ctx, WriteRequest{
		Table:      s.cfg.DestinationTable,
		Columns:    s.cfg.TargetColumns,
		Kinds:      s.cfg.ColumnKinds,
		Mode:       WriteModeReplace,
		PrimaryKey: s.cfg.KeyColumn,
	}, reconciled)
	if err != nil {
		return s.fail(ctx, runID, fmt.Sprintf("主表替换失败: %v", err))
	}
	if writeResult.State == StepRecovered {
		slog.Warn("主键约束补充失败，数据已落库",
			"run_id", runID,
			"table", s.cfg.DestinationTable,
			"warning", writeResult.Warning)
		warnings++
	}
	rowsWrittenTotal.WithLabelValues(s.cfg.DestinationTable).Add(float64(written))

	snapshotRows, err := s.historian.AppendSnapshot(ctx, projection, runDate)
	if err != nil {
		// 主表已替换而快照缺失，属于§并发模型中记录的不一致窗口
		return s.fail(ctx, runID, fmt.Sprintf("历史快照追加失败: %v", err))
	}
	snapshotRowsTotal.Add(float64(snapshotRows))

	message := fmt.Sprintf("主表替换%d行，快照追加%d行", written, snapshotRows)
	return s.finish(ctx, runID, models.ActivityStatusSuccess, written, message, warnings)
}

// runAppend 仅规范化后追加的简化路径（如NNM报表）
func (s *Service) runAppend(ctx context.Context, runID string, runDate time.Time, normalized []Record, warnings int) Outcome {
	columns := append(append([]string{}, s.cfg.TargetColumns...), "uploaded_at")
	for _, record := range normalized {
		record["uploaded_at"] = runDate
	}

	written, _, err := s.writer.Write(ctx, WriteRequest{
		Table:   s.cfg.DestinationTable,
		Columns: columns,
		Kinds:   s.cfg.ColumnKinds,
		Mode:    WriteModeAppend,
	}, normalized)
	if err != nil {
		return s.fail(ctx, runID, fmt.Sprintf("追加写入失败: %v", err))
	}
	rowsWrittenTotal.WithLabelValues(s.cfg.DestinationTable).Add(float64(written))

	return s.finish(ctx, runID, models.ActivityStatusSuccess, written, fmt.Sprintf("追加写入%d行", written), warnings)
}

// mirrorRaw 把原始提取逐行镜像到备份表（只追加）
func (s *Service) mirrorRaw(ctx context.Context, runID string, extract []Record) error {
	if len(extract) == 0 || s.db == nil {
		return nil
	}

	rows := make([]models.ClientBaseRaw, 0, len(extract))
	receivedAt := time.Now()
	for _, record := range extract {
		encoded, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("原始行编码失败: %w", err)
		}
		rows = append(rows, models.ClientBaseRaw{
			RunID:      runID,
			ReportName: s.cfg.Name,
			RowData:    string(encoded),
			ReceivedAt: receivedAt,
		})
	}
	return s.db.WithContext(ctx).CreateInBatches(rows, 500).Error
}

// finish 记录终态并返回结果
func (s *Service) finish(ctx context.Context, runID, status string, rows int64, message string, warnings int) Outcome {
	s.activity.Log(ctx, runID, s.cfg.Name, status, rows, message)
	slog.Info("流水线结束",
		"run_id", runID,
		"activity", s.cfg.Name,
		"status", status,
		"rows", rows,
		"warnings", warnings)
	return Outcome{
		RunID:    runID,
		Activity: s.cfg.Name,
		Status:   status,
		RowCount: rows,
		Message:  message,
		Warnings: warnings,
	}
}

// fail 记录错误终态并返回结果
func (s *Service) fail(ctx context.Context, runID, message string) Outcome {
	slog.Error("流水线失败", "run_id", runID, "activity", s.cfg.Name, "error", message)
	return s.finish(ctx, runID, models.ActivityStatusError, 0, message, 0)
}

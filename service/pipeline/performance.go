/*
 * @module service/pipeline/performance
 * @description 业绩报告流水线，下载webhook投递的PDF压缩包，逐账户覆盖更新最新业绩报告
 * @architecture 分层架构 - 编排层
 * @documentReference ai_docs/clientbase_pipeline_design.md
 * @stateFlow Received -> Downloaded -> Unzipped -> Upserted(逐账户) -> Logged
 * @rules 账户号优先取通知载荷，缺失时从文件名中提取数字兜底；PDF按原始字节落库不做内容解析；
 *        每个账户只保留最新一份报告，重复投递按主键覆盖
 * @dependencies archive/zip, gorm.io/gorm, github.com/google/uuid
 * @refs pipeline.go, activity_logger.go, service/models/clientbase.go
 */

package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clientbase-service/service/models"
)

// 业绩报告流水线的活动名
const performanceActivity = "performance"

var fileNameDigits = regexp.MustCompile(`\d+`)

// PerformanceService 业绩报告流水线服务
type PerformanceService struct {
	db         *gorm.DB
	downloader Downloader
	activity   *ActivityLogger
}

// NewPerformanceService 创建业绩报告流水线服务
func NewPerformanceService(db *gorm.DB, downloader Downloader, publisher OutcomePublisher) *PerformanceService {
	return &PerformanceService{
		db:         db,
		downloader: downloader,
		activity:   NewActivityLogger(db, publisher),
	}
}

// Run 处理一次业绩报告webhook投递
// 压缩包内逐个PDF条目按账户覆盖更新；无法定位账户的条目跳过并计为警告
func (s *PerformanceService) Run(ctx context.Context, notification Notification) Outcome {
	runID := uuid.New().String()

	slog.Info("业绩报告流水线开始",
		"run_id", runID,
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

	archive, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return s.fail(ctx, runID, fmt.Sprintf("压缩包解析失败: %v", err))
	}

	var upserted int64
	skipped := 0
	uploadedAt := time.Now()
	for _, entry := range archive.File {
		if !strings.HasSuffix(strings.ToLower(entry.Name), ".pdf") {
			continue
		}

		account := notification.AccountNumber
		if account == "" {
			account = fileNameDigits.FindString(entry.Name)
		}
		if account == "" {
			slog.Warn("无法从文件名定位账户，条目跳过", "run_id", runID, "file", entry.Name)
			skipped++
			continue
		}

		pdfData, err := readZipEntry(entry)
		if err != nil {
			return s.fail(ctx, runID, fmt.Sprintf("压缩包条目 %s 读取失败: %v", entry.Name, err))
		}

		report := models.PerformanceReport{
			AccountCode:   account,
			FileName:      entry.Name,
			ReferenceDate: notification.ReferenceDate,
			PDFData:       pdfData,
			UploadedAt:    uploadedAt,
		}
		err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_code"}},
			DoUpdates: clause.AssignmentColumns([]string{"file_name", "reference_date", "pdf_data", "uploaded_at"}),
		}).Create(&report).Error
		if err != nil {
			return s.fail(ctx, runID, fmt.Sprintf("账户 %s 的业绩报告写入失败: %v", account, err))
		}
		upserted++
	}
	rowsWrittenTotal.WithLabelValues(models.PerformanceReport{}.TableName()).Add(float64(upserted))

	status := models.ActivityStatusSuccess
	message := fmt.Sprintf("业绩报告覆盖更新%d个账户", upserted)
	if skipped > 0 {
		status = models.ActivityStatusWarning
		message = fmt.Sprintf("%s，%d个条目无法定位账户被跳过", message, skipped)
	}
	return s.finish(ctx, runID, status, upserted, message, skipped)
}

func readZipEntry(entry *zip.File) ([]byte, error) {
	reader, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

// finish 记录终态并返回结果
func (s *PerformanceService) finish(ctx context.Context, runID, status string, rows int64, message string, warnings int) Outcome {
	s.activity.Log(ctx, runID, performanceActivity, status, rows, message)
	slog.Info("业绩报告流水线结束",
		"run_id", runID,
		"status", status,
		"rows", rows,
		"warnings", warnings)
	return Outcome{
		RunID:    runID,
		Activity: performanceActivity,
		Status:   status,
		RowCount: rows,
		Message:  message,
		Warnings: warnings,
	}
}

// fail 记录错误终态并返回结果
func (s *PerformanceService) fail(ctx context.Context, runID, message string) Outcome {
	slog.Error("业绩报告流水线失败", "run_id", runID, "error", message)
	return s.finish(ctx, runID, models.ActivityStatusError, 0, message, 0)
}

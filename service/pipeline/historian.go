/*
 * @module service/pipeline/historian
 * @description 历史记录器，从对账投影派生按日快照行并追加到时间序列表，绝不替换、绝不跨日去重
 * @architecture 分层架构 - 数据写入层
 * @documentReference ai_docs/clientbase_pipeline_design.md
 * @stateFlow 投影行 -> 日期截断/月桶派生 -> 批量追加
 * @rules 每次运行每个业务主键恰好追加一行，形成逐日时间序列；同日重复调用会产生重复日层，由每日一次的调度保障
 * @dependencies gorm.io/gorm（经由batch_writer）
 * @refs batch_writer.go, reconciler.go
 */

package pipeline

import (
	"context"
	"time"

	"clientbase-service/service/meta"
)

// 历史快照表的固定列集合
var historyColumns = []string{"account_code", "advisor_name", "total_balance", "snapshot_date", "month_bucket"}

// Historian 历史记录器
type Historian struct {
	writer *BatchWriter
	cfg    *meta.ReportConfig
}

// NewHistorian 创建历史记录器
func NewHistorian(writer *BatchWriter, cfg *meta.ReportConfig) *Historian {
	return &Historian{writer: writer, cfg: cfg}
}

// AppendSnapshot 把对账投影作为一个新的日期层追加到历史表
// runDate截断到日历日，月桶为YYYY-MM派生串；N条投影恰好产生N条新行
func (h *Historian) AppendSnapshot(ctx context.Context, projection []HistoryEntry, runDate time.Time) (int64, error) {
	if h.cfg.HistoryTable == "" || len(projection) == 0 {
		return 0, nil
	}

	day := time.Date(runDate.Year(), runDate.Month(), runDate.Day(), 0, 0, 0, 0, runDate.Location())
	bucket := day.Format("2006-01")

	records := make([]Record, 0, len(projection))
	for _, entry := range projection {
		records = append(records, Record{
			"account_code":  entry.AccountCode,
			"advisor_name":  entry.AdvisorName,
			"total_balance": entry.TotalBalance,
			"snapshot_date": day,
			"month_bucket":  bucket,
		})
	}

	written, _, err := h.writer.Write(ctx, WriteRequest{
		Table:   h.cfg.HistoryTable,
		Columns: historyColumns,
		Mode:    WriteModeAppend,
	}, records)
	return written, err
}

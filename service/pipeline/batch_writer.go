/*
 * @module service/pipeline/batch_writer
 * @description 批量写入器，按绑定参数上限自适应计算批次行数，执行分批插入与整表替换，并在替换后补充主键约束
 * @architecture 分层架构 - 数据写入层
 * @documentReference ai_docs/clientbase_pipeline_design.md
 * @stateFlow 批次行数计算 -> （替换模式：删表重建）-> 分批插入 -> （替换模式：主键约束补充）
 * @rules 空数据集直接返回0不发语句；每个批次是独立语句各自提交；主键约束补充失败只降级为警告不影响已落库数据
 * @dependencies gorm.io/gorm, github.com/lib/pq
 * @refs service/meta/clientbase.go, historian.go, pipeline.go
 */

package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"clientbase-service/service/meta"
)

// WriteRequest 一次批量写入的目标描述
type WriteRequest struct {
	Table      string                     // 目标表名
	Columns    []string                   // 写入列集合（有序）
	Kinds      map[string]meta.ColumnKind // 列语义类型，缺省按字符串建列
	Mode       WriteMode                  // append 或 replace
	PrimaryKey string                     // replace模式下要补充约束的主键列，可为空
}

// BatchWriter 批量写入器
type BatchWriter struct {
	db     *gorm.DB
	limits meta.EngineLimits
}

// NewBatchWriter 创建批量写入器
func NewBatchWriter(db *gorm.DB, limits meta.EngineLimits) *BatchWriter {
	return &BatchWriter{db: db, limits: limits}
}

// BatchRows 由列数和引擎上限计算安全的批次行数
// batch = max(1, min(paramLimit/columnCount, rowCap))
// 防止宽表超出单条语句的绑定参数上限，这是正确性约束而不是调优项
func (w *BatchWriter) BatchRows(columnCount int) int {
	if columnCount <= 0 {
		return w.limits.RowCap
	}
	rows := w.limits.ParamLimit / columnCount
	if rows > w.limits.RowCap {
		rows = w.limits.RowCap
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

// Write 执行批量写入，返回写入行数与步骤结果
// replace模式整表删建后分批插入，再补充主键约束；约束补充失败降级为警告，数据已落库
func (w *BatchWriter) Write(ctx context.Context, req WriteRequest, records []Record) (int64, StepResult, error) {
	if len(records) == 0 {
		// 空数据集不发任何语句
		return 0, Ok(), nil
	}
	if len(req.Columns) == 0 {
		return 0, Ok(), fmt.Errorf("写入列集合为空")
	}

	if req.Mode == WriteModeReplace {
		if err := w.recreateTable(ctx, req); err != nil {
			return 0, Ok(), fmt.Errorf("重建目标表 %s 失败: %w", req.Table, err)
		}
	}

	written, err := w.insertBatches(ctx, req, records)
	if err != nil {
		return written, Ok(), err
	}

	if req.Mode == WriteModeReplace && req.PrimaryKey != "" {
		if err := w.enforcePrimaryKey(ctx, req.Table, req.PrimaryKey); err != nil {
			// 数据已提交，仅缺约束，降级为警告
			return written, Recovered(fmt.Sprintf("主键约束补充失败: %v", err)), nil
		}
	}

	return written, Ok(), nil
}

// recreateTable 删除并按列语义类型重建目标表
func (w *BatchWriter) recreateTable(ctx context.Context, req WriteRequest) error {
	db := w.db.WithContext(ctx)
	if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", pq.QuoteIdentifier(req.Table))).Error; err != nil {
		return err
	}

	defs := make([]string, 0, len(req.Columns))
	for _, col := range req.Columns {
		defs = append(defs, fmt.Sprintf("%s %s", pq.QuoteIdentifier(col), sqlType(req.Kinds[col])))
	}
	createSQL := fmt.Sprintf("CREATE TABLE %s (%s)", pq.QuoteIdentifier(req.Table), strings.Join(defs, ", "))
	return db.Exec(createSQL).Error
}

// insertBatches 分批插入，保持输入行顺序，每批一条独立语句
func (w *BatchWriter) insertBatches(ctx context.Context, req WriteRequest, records []Record) (int64, error) {
	db := w.db.WithContext(ctx)
	batchRows := w.BatchRows(len(req.Columns))

	quoted := make([]string, 0, len(req.Columns))
	for _, col := range req.Columns {
		quoted = append(quoted, pq.QuoteIdentifier(col))
	}
	rowPlaceholder := "(" + strings.TrimSuffix(strings.Repeat("?,", len(req.Columns)), ",") + ")"
	prefix := fmt.Sprintf("INSERT INTO %s (%s) VALUES ", pq.QuoteIdentifier(req.Table), strings.Join(quoted, ", "))

	var written int64
	for start := 0; start < len(records); start += batchRows {
		end := start + batchRows
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		placeholders := make([]string, 0, len(batch))
		args := make([]interface{}, 0, len(batch)*len(req.Columns))
		for _, record := range batch {
			placeholders = append(placeholders, rowPlaceholder)
			for _, col := range req.Columns {
				args = append(args, record[col])
			}
		}

		if err := db.Exec(prefix+strings.Join(placeholders, ", "), args...).Error; err != nil {
			// 之前已提交的批次保持落库，中途失败只影响后续批次
			return written, fmt.Errorf("批量插入 %s 第 %d 行起失败: %w", req.Table, start, err)
		}
		written += int64(len(batch))
	}

	return written, nil
}

// enforcePrimaryKey 替换完成后补充主键约束：限长字符串、非空、主键
func (w *BatchWriter) enforcePrimaryKey(ctx context.Context, table, column string) error {
	db := w.db.WithContext(ctx)
	statements := []string{
		fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s TYPE varchar(64)", pq.QuoteIdentifier(table), pq.QuoteIdentifier(column)),
		fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET NOT NULL", pq.QuoteIdentifier(table), pq.QuoteIdentifier(column)),
		fmt.Sprintf("ALTER TABLE %s ADD PRIMARY KEY (%s)", pq.QuoteIdentifier(table), pq.QuoteIdentifier(column)),
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// sqlType 列语义类型到建表类型的映射
func sqlType(kind meta.ColumnKind) string {
	switch kind {
	case meta.ColumnKindDecimal:
		return "numeric"
	case meta.ColumnKindBool:
		return "integer"
	default:
		return "text"
	}
}

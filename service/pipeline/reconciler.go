/*
 * @module service/pipeline/reconciler
 * @description 对账器，把新到的规范记录与已持久化的补充数据集合并，应用有序标签修正规则并按业务主键保首去重
 * @architecture 分层架构 - 数据处理层
 * @documentReference ai_docs/clientbase_pipeline_design.md
 * @stateFlow 补充集读取 -> 补充集前置拼接 -> 标签修正 -> 保首去重 -> 历史投影
 * @rules 补充行先拼接，主键冲突时补充行胜出，这是显式优先级约定；补充表读取失败吸收为空集而不终止
 * @dependencies gorm.io/gorm, github.com/spf13/cast
 * @refs service/meta/clientbase.go, historian.go
 */

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cast"
	"gorm.io/gorm"

	"clientbase-service/service/meta"
)

// Reconciler 对账器
type Reconciler struct {
	db  *gorm.DB
	cfg *meta.ReportConfig
}

// NewReconciler 创建对账器
func NewReconciler(db *gorm.DB, cfg *meta.ReportConfig) *Reconciler {
	return &Reconciler{db: db, cfg: cfg}
}

// Reconcile 执行对账合并
// 返回去重后的对账数据集、供历史快照使用的精简投影以及步骤结果
// 补充表不可读时以空集替代并返回Recovered，而不是让整次运行失败
func (r *Reconciler) Reconcile(ctx context.Context, incoming []Record) ([]Record, []HistoryEntry, StepResult) {
	result := Ok()

	supplemental, err := r.loadSupplemental(ctx)
	if err != nil {
		slog.Warn("补充表读取失败，按空集处理",
			"table", r.cfg.SupplementalTable,
			"error", err)
		supplemental = nil
		result = Recovered(fmt.Sprintf("补充表 %s 读取失败: %v", r.cfg.SupplementalTable, err))
	}

	// 补充行排在前面，保首去重时主键冲突由补充行胜出
	merged := make([]Record, 0, len(supplemental)+len(incoming))
	merged = append(merged, supplemental...)
	merged = append(merged, incoming...)

	r.applyLabelRules(merged)

	reconciled := r.dedupeByKey(merged)

	projection := make([]HistoryEntry, 0, len(reconciled))
	for _, record := range reconciled {
		projection = append(projection, HistoryEntry{
			AccountCode:  cast.ToString(record[r.cfg.KeyColumn]),
			AdvisorName:  cast.ToString(record[r.cfg.LabelColumn]),
			TotalBalance: cast.ToFloat64(record[r.cfg.MeasureColumn]),
		})
	}

	return reconciled, projection, result
}

// loadSupplemental 读取补充数据集并投影到目标列集合
func (r *Reconciler) loadSupplemental(ctx context.Context) ([]Record, error) {
	if r.cfg.SupplementalTable == "" {
		return nil, nil
	}

	var rows []map[string]interface{}
	if err := r.db.WithContext(ctx).Table(r.cfg.SupplementalTable).Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		record := make(Record, len(r.cfg.TargetColumns))
		for _, col := range r.cfg.TargetColumns {
			if value, ok := row[col]; ok {
				if col == r.cfg.KeyColumn {
					record[col] = cast.ToString(value)
				} else {
					record[col] = value
				}
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// applyLabelRules 按声明顺序应用标签修正规则
// 规则不互斥：后声明的规则可以覆盖先前规则在同一行上的结果
func (r *Reconciler) applyLabelRules(records []Record) {
	if r.cfg.LabelColumn == "" || len(r.cfg.LabelRules) == 0 {
		return
	}

	for _, record := range records {
		label := cast.ToString(record[r.cfg.LabelColumn])
		for _, rule := range r.cfg.LabelRules {
			switch rule.Kind {
			case meta.LabelMatchExact:
				if label == rule.Pattern {
					label = rule.Replacement
				}
			case meta.LabelMatchContains:
				if strings.Contains(label, rule.Pattern) {
					label = rule.Replacement
				}
			}
		}
		record[r.cfg.LabelColumn] = label
	}
}

// dedupeByKey 按业务主键保首去重，保留输入顺序
func (r *Reconciler) dedupeByKey(records []Record) []Record {
	seen := make(map[string]struct{}, len(records))
	deduped := make([]Record, 0, len(records))
	for _, record := range records {
		key := cast.ToString(record[r.cfg.KeyColumn])
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, record)
	}
	return deduped
}

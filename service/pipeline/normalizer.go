/*
 * @module service/pipeline/normalizer
 * @description 规范化器，把原始提取记录转换为目标表的规范列集合与规范值域（列重命名、类型强制、本地化小数解析、布尔位转换）
 * @architecture 分层架构 - 数据处理层，纯函数无副作用
 * @documentReference ai_docs/clientbase_pipeline_design.md
 * @stateFlow 列重命名 -> 目标列投影 -> 按列语义类型强制转换
 * @rules 坏单元格从不导致失败：不可解析的小数转为0.0，缺失列直接缺省，业务主键一律转为字符串
 * @dependencies github.com/spf13/cast
 * @refs service/meta/clientbase.go, reconciler.go
 */

package pipeline

import (
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"clientbase-service/service/meta"
)

// Normalizer 规范化器
type Normalizer struct {
	cfg *meta.ReportConfig
}

// NewNormalizer 创建规范化器
func NewNormalizer(cfg *meta.ReportConfig) *Normalizer {
	return &Normalizer{cfg: cfg}
}

// Normalize 把原始提取转换为规范记录集合
// 未映射且不在目标列集合中的列被丢弃，上游缺失的列在输出中缺省而不报错
func (n *Normalizer) Normalize(extract []Record) []Record {
	targetSet := make(map[string]struct{}, len(n.cfg.TargetColumns))
	for _, col := range n.cfg.TargetColumns {
		targetSet[col] = struct{}{}
	}

	normalized := make([]Record, 0, len(extract))
	for _, raw := range extract {
		record := make(Record, len(n.cfg.TargetColumns))
		for rawName, value := range raw {
			name := rawName
			if renamed, ok := n.cfg.RenameMap[rawName]; ok {
				name = renamed
			}
			if _, ok := targetSet[name]; !ok {
				continue
			}
			record[name] = n.coerce(name, value)
		}
		normalized = append(normalized, record)
	}
	return normalized
}

// coerce 按目标列的语义类型转换单个值
func (n *Normalizer) coerce(column string, value interface{}) interface{} {
	if column == n.cfg.KeyColumn {
		// 业务主键一律字符串化，避免数值与文本账号编码的下游类型冲突
		return cast.ToString(value)
	}

	switch n.cfg.ColumnKinds[column] {
	case meta.ColumnKindDecimal:
		return ParseLocaleDecimal(cast.ToString(value))
	case meta.ColumnKindBool:
		return BoolBit(cast.ToString(value))
	default:
		return cast.ToString(value)
	}
}

// ParseLocaleDecimal 解析本地化小数文本
// 同时含点和逗号时按千分点/小数逗号处理（1.234,56 -> 1234.56）；
// 只含逗号时逗号作小数点；不可解析或为空时返回0.0而不是报错
func ParseLocaleDecimal(value string) float64 {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0.0
	}

	hasDot := strings.Contains(v, ".")
	hasComma := strings.Contains(v, ",")
	switch {
	case hasDot && hasComma:
		v = strings.ReplaceAll(v, ".", "")
		v = strings.ReplaceAll(v, ",", ".")
	case hasComma:
		v = strings.ReplaceAll(v, ",", ".")
	}

	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0.0
	}
	return parsed
}

// BoolBit 布尔文本转位值：忽略大小写的true -> 1，其余一律0
func BoolBit(value string) int {
	if strings.EqualFold(strings.TrimSpace(value), "true") {
		return 1
	}
	return 0
}

/*
 * @module service/meta/clientbase
 * @description 客户基础报表固定配置定义，包括目标列集合、列重命名映射、标签修正规则和引擎上限
 * @architecture 配置即代码 - 单一包内声明式规则记录
 * @documentReference ai_docs/clientbase_pipeline_design.md
 * @stateFlow 启动时加载一次 -> 各组件构造时注入 -> 运行期只读
 * @rules 规则记录按声明顺序生效，后声明的规则可以覆盖先前规则的结果
 * @dependencies 无第三方依赖
 * @refs service/pipeline/normalizer.go, service/pipeline/reconciler.go
 */

package meta

// ColumnKind 目标列的语义类型
type ColumnKind string

const (
	ColumnKindString  ColumnKind = "string"  // 字符串
	ColumnKindDecimal ColumnKind = "decimal" // 十进制数值（支持本地化格式）
	ColumnKindBool    ColumnKind = "bool"    // 布尔位（true文本 -> 1，其余 -> 0）
)

// LabelMatchKind 标签修正规则的匹配方式
type LabelMatchKind string

const (
	LabelMatchExact    LabelMatchKind = "exact"    // 精确匹配
	LabelMatchContains LabelMatchKind = "contains" // 子串包含匹配
)

// LabelRule 标签修正规则记录
// 按声明顺序应用，规则之间不互斥：后面的规则可以覆盖前面规则产生的结果
type LabelRule struct {
	Kind        LabelMatchKind `json:"kind"`
	Pattern     string         `json:"pattern"`
	Replacement string         `json:"replacement"`
}

// EngineLimits 数据库引擎上限
// ParamLimit 是单条语句绑定参数上限，RowCap 是单批次行数上限
// 这是正确性约束而不是性能调优项
type EngineLimits struct {
	ParamLimit int `json:"param_limit"`
	RowCap     int `json:"row_cap"`
}

// DefaultEngineLimits 默认引擎上限
var DefaultEngineLimits = EngineLimits{
	ParamLimit: 2090,
	RowCap:     1000,
}

// LoadStrategy 报表的落库策略
type LoadStrategy string

const (
	LoadStrategyReconcile LoadStrategy = "reconcile" // 对账合并后整表替换，并追加历史快照
	LoadStrategyAppend    LoadStrategy = "append"    // 规范化后直接追加
)

// ReportConfig 单个报表类型的固定流水线配置
type ReportConfig struct {
	Name              string                `json:"name"`               // 报表名称，也作为活动日志的activity名
	Strategy          LoadStrategy          `json:"strategy"`           // 落库策略，缺省为reconcile
	DestinationTable  string                `json:"destination_table"`  // 主表（整表替换）
	SupplementalTable string                `json:"supplemental_table"` // 补充表（只读输入，可为空）
	HistoryTable      string                `json:"history_table"`      // 历史快照表（只追加，可为空）
	KeyColumn         string                `json:"key_column"`         // 业务主键列
	LabelColumn       string                `json:"label_column"`       // 标签列（用于修正规则和快照）
	MeasureColumn     string                `json:"measure_column"`     // 核心度量列（用于快照）
	RenameMap         map[string]string     `json:"rename_map"`         // 上游列名 -> 目标列名
	TargetColumns     []string              `json:"target_columns"`     // 目标表的完整列集合（有序）
	ColumnKinds       map[string]ColumnKind `json:"column_kinds"`       // 目标列 -> 语义类型（缺省为string）
	LabelRules        []LabelRule           `json:"label_rules"`        // 标签修正规则（有序）
}

// ClientBaseReport 客户基础表报表配置
// 字段名与修正规则是产品特定的硬编码，按设计不做通用化
var ClientBaseReport = ReportConfig{
	Name:              "client_base",
	Strategy:          LoadStrategyReconcile,
	DestinationTable:  "client_base",
	SupplementalTable: "client_base_offshore",
	HistoryTable:      "client_base_history",
	KeyColumn:         "account_code",
	LabelColumn:       "advisor_name",
	MeasureColumn:     "total_balance",
	RenameMap: map[string]string{
		"nr_conta":         "account_code",
		"nome_cliente":     "client_name",
		"assessor":         "advisor_name",
		"patrimonio":       "total_balance",
		"captacao_liquida": "net_new_money",
		"qualificado":      "is_qualified",
		"mercado":          "market_segment",
		"dt_abertura":      "opened_at",
	},
	TargetColumns: []string{
		"account_code",
		"client_name",
		"advisor_name",
		"total_balance",
		"net_new_money",
		"is_qualified",
		"market_segment",
		"opened_at",
	},
	ColumnKinds: map[string]ColumnKind{
		"total_balance": ColumnKindDecimal,
		"net_new_money": ColumnKindDecimal,
		"is_qualified":  ColumnKindBool,
	},
	LabelRules: []LabelRule{
		{Kind: LabelMatchExact, Pattern: "R. Carvalho", Replacement: "Rafael Carvalho"},
		{Kind: LabelMatchExact, Pattern: "M. Tavares", Replacement: "Marina Tavares"},
		{Kind: LabelMatchContains, Pattern: "Mesa Institucional", Replacement: "Mesa Institucional"},
		{Kind: LabelMatchContains, Pattern: "Oliveira", Replacement: "Equipe Oliveira"},
	},
}

// NNMReport NNM（净新增资金）报表配置
// 只做规范化后追加写入，没有补充表和历史快照
var NNMReport = ReportConfig{
	Name:             "nnm",
	Strategy:         LoadStrategyAppend,
	DestinationTable: "nnm_entries",
	KeyColumn:        "account_code",
	RenameMap: map[string]string{
		"nr_conta":        "account_code",
		"dt_captacao":     "capture_date",
		"ativo":           "asset",
		"mercado":         "market",
		"tipo_lancamento": "entry_type",
		"captacao":        "amount",
	},
	TargetColumns: []string{
		"account_code",
		"capture_date",
		"asset",
		"market",
		"entry_type",
		"amount",
	},
	ColumnKinds: map[string]ColumnKind{
		"amount": ColumnKindDecimal,
	},
}

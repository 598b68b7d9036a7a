/*
 * @module service/pipeline/types
 * @description 对账流水线公共类型定义：提取记录、通知载荷、步骤三态结果和运行结果
 * @architecture 分层架构 - 数据处理层
 * @documentReference ai_docs/clientbase_pipeline_design.md
 * @stateFlow Received -> Downloaded -> Normalized -> Reconciled -> Written -> Snapshotted -> Logged
 * @rules 步骤结果采用三态（Ok/Recovered/Fatal），由编排器决定降级为警告还是终止
 * @dependencies 无第三方依赖
 * @refs pipeline.go, reconciler.go, batch_writer.go
 */

package pipeline

// Record 单行记录，列名到原始值或已规范化值的映射
type Record map[string]interface{}

// Notification webhook通知载荷中与流水线相关的字段
// URL为空表示合作方"数据尚未就绪"，流水线以警告短路
type Notification struct {
	URL           string `json:"url"`
	AccountNumber string `json:"account_number,omitempty"`
	ReferenceDate string `json:"reference_date,omitempty"`
}

// StepState 步骤执行三态
type StepState int

const (
	StepOk        StepState = iota // 正常完成
	StepRecovered                  // 出现可吸收的故障，已降级继续
	StepFatal                      // 致命失败，终止本次运行
)

// StepResult 单个步骤的执行结果
type StepResult struct {
	State   StepState `json:"state"`
	Warning string    `json:"warning,omitempty"` // State为Recovered时的说明
}

// Ok 返回正常步骤结果
func Ok() StepResult {
	return StepResult{State: StepOk}
}

// Recovered 返回已降级的步骤结果
func Recovered(warning string) StepResult {
	return StepResult{State: StepRecovered, Warning: warning}
}

// WriteMode 批量写入模式
type WriteMode string

const (
	WriteModeAppend  WriteMode = "append"  // 追加写入
	WriteModeReplace WriteMode = "replace" // 整表替换
)

// HistoryEntry 供历史快照使用的精简投影
type HistoryEntry struct {
	AccountCode  string  `json:"account_code"`
	AdvisorName  string  `json:"advisor_name"`
	TotalBalance float64 `json:"total_balance"`
}

// Outcome 一次流水线运行的结构化结果
// 每次调用恰好返回一个Outcome，没有部分/流式响应
type Outcome struct {
	RunID    string `json:"run_id"`
	Activity string `json:"activity"`
	Status   string `json:"status"` // success, warning, error
	RowCount int64  `json:"row_count"`
	Message  string `json:"message,omitempty"`
	Warnings int    `json:"warnings,omitempty"` // 运行中被降级吸收的故障数
}

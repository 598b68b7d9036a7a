/*
 * @module service/models/clientbase
 * @description 客户基础数据相关模型定义，包括离岸补充表、原始备份表、历史快照表和流水线活动日志
 * @architecture 分层架构 - 数据模型层
 * @documentReference ai_docs/clientbase_pipeline_design.md
 * @stateFlow webhook接收 -> 原始备份 -> 规范化/对账 -> 主表替换 -> 历史快照追加 -> 活动日志记录
 * @rules 主表client_base由批量写入器以原生SQL整表替换管理，不在此定义gorm模型
 * @dependencies gorm.io/gorm, time
 * @refs service/pipeline, service/meta/clientbase.go
 */

package models

import (
	"time"
)

// ClientBaseOffshore 离岸客户补充表
// 人工维护的补充记录，对账时无条件排在新到数据之前参与去重
type ClientBaseOffshore struct {
	AccountCode   string    `json:"account_code" gorm:"primaryKey;type:varchar(64);column:account_code"`
	ClientName    string    `json:"client_name" gorm:"size:255;column:client_name"`
	AdvisorName   string    `json:"advisor_name" gorm:"size:255;column:advisor_name"`
	TotalBalance  float64   `json:"total_balance" gorm:"column:total_balance"`
	NetNewMoney   float64   `json:"net_new_money" gorm:"column:net_new_money"`
	IsQualified   int       `json:"is_qualified" gorm:"column:is_qualified"`
	MarketSegment string    `json:"market_segment" gorm:"size:100;column:market_segment"`
	OpenedAt      string    `json:"opened_at" gorm:"size:32;column:opened_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName 指定表名
func (ClientBaseOffshore) TableName() string {
	return "client_base_offshore"
}

// ClientBaseRaw 原始数据备份表
// 每次到达的原始提取按行镜像保存，用于事后排查和重放，只追加
type ClientBaseRaw struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	RunID      string    `json:"run_id" gorm:"not null;type:varchar(36);index"`
	ReportName string    `json:"report_name" gorm:"not null;size:64;index"`
	RowData    string    `json:"row_data" gorm:"type:text"` // 原始行的JSON编码
	ReceivedAt time.Time `json:"received_at" gorm:"not null;index"`
}

// TableName 指定表名
func (ClientBaseRaw) TableName() string {
	return "client_base_raw"
}

// ClientBaseHistory 客户基础历史快照表
// 每次流水线运行为每个业务主键追加一行，形成按日时间序列，绝不回删
type ClientBaseHistory struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	AccountCode  string    `json:"account_code" gorm:"not null;type:varchar(64);index"`
	AdvisorName  string    `json:"advisor_name" gorm:"size:255"`
	TotalBalance float64   `json:"total_balance"`
	SnapshotDate time.Time `json:"snapshot_date" gorm:"not null;index"` // 运行日期截断到日
	MonthBucket  string    `json:"month_bucket" gorm:"not null;size:7;index"` // YYYY-MM
}

// TableName 指定表名
func (ClientBaseHistory) TableName() string {
	return "client_base_history"
}

// NNMEntry NNM（净新增资金）报表行
// 由NNM webhook规范化后追加写入，只追加
type NNMEntry struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	AccountCode string    `json:"account_code" gorm:"not null;type:varchar(64);index"`
	CaptureDate string    `json:"capture_date" gorm:"size:32"`
	Asset       string    `json:"asset" gorm:"size:128"`
	Market      string    `json:"market" gorm:"size:64"`
	EntryType   string    `json:"entry_type" gorm:"size:64"`
	Amount      float64   `json:"amount"`
	UploadedAt  time.Time `json:"uploaded_at" gorm:"not null"`
}

// TableName 指定表名
func (NNMEntry) TableName() string {
	return "nnm_entries"
}

// PerformanceReport 业绩报告表
// 每个账户恰好一行最新报告，webhook投递时按账户覆盖更新，PDF按原始字节存储不解析
type PerformanceReport struct {
	AccountCode   string    `json:"account_code" gorm:"primaryKey;type:varchar(64);column:account_code"`
	FileName      string    `json:"file_name" gorm:"size:255;column:file_name"`
	ReferenceDate string    `json:"reference_date" gorm:"size:32;column:reference_date"`
	PDFData       []byte    `json:"-" gorm:"column:pdf_data"`
	UploadedAt    time.Time `json:"uploaded_at" gorm:"not null;column:uploaded_at"`
}

// TableName 指定表名
func (PerformanceReport) TableName() string {
	return "performance_reports"
}

// 流水线活动日志状态枚举
const (
	ActivityStatusSuccess = "success"
	ActivityStatusWarning = "warning"
	ActivityStatusError   = "error"
)

// PipelineActivityLog 流水线活动日志
// 一次运行一条，只追加，仅用于运维审计，流水线自身从不读取
type PipelineActivityLog struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	RunID     string    `json:"run_id" gorm:"not null;type:varchar(36);index"`
	Activity  string    `json:"activity" gorm:"not null;size:64;index"`
	Status    string    `json:"status" gorm:"not null;size:16"` // success, warning, error
	RowCount  int64     `json:"row_count"`
	Message   string    `json:"message" gorm:"size:1000"` // 超长时截断
	CreatedAt time.Time `json:"created_at"`
}

// TableName 指定表名
func (PipelineActivityLog) TableName() string {
	return "pipeline_activity_logs"
}

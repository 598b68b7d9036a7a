/*
 * @module service/scheduler/report_scheduler
 * @description 报表请求调度器，按cron表达式每日向合作方发起报表生成请求，结果经webhook异步回投
 * @architecture 分层架构 - 调度层
 * @documentReference ai_docs/clientbase_pipeline_design.md
 * @stateFlow 调度器启动 -> 定时触发 -> 逐个报表类型请求 -> 失败记录等待下个周期
 * @rules 请求失败不在进程内重试，只记录日志；真正的数据重试依赖合作方webhook重投
 * @dependencies github.com/robfig/cron/v3
 * @refs client/partner_client.go, service/init.go
 */

package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// ReportRequester 合作方报表请求端
type ReportRequester interface {
	RequestReport(ctx context.Context, reportType, referenceDate string) error
}

// ReportScheduleConfig 调度配置
type ReportScheduleConfig struct {
	CronSpec    string   `json:"cron_spec"`    // 含秒的cron表达式
	ReportTypes []string `json:"report_types"` // 每次触发要请求的报表类型
}

// ReportScheduler 报表请求调度器
type ReportScheduler struct {
	cron    *cron.Cron
	partner ReportRequester
	config  ReportScheduleConfig
}

// NewReportScheduler 创建报表请求调度器
func NewReportScheduler(partner ReportRequester, config ReportScheduleConfig) *ReportScheduler {
	return &ReportScheduler{
		cron:    cron.New(cron.WithSeconds()),
		partner: partner,
		config:  config,
	}
}

// Start 注册定时任务并启动调度器
func (s *ReportScheduler) Start() error {
	_, err := s.cron.AddFunc(s.config.CronSpec, s.requestAll)
	if err != nil {
		return err
	}
	s.cron.Start()
	slog.Info("报表调度器已启动",
		"cron", s.config.CronSpec,
		"report_types", s.config.ReportTypes)
	return nil
}

// Stop 停止调度器
func (s *ReportScheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// requestAll 逐个报表类型向合作方发起生成请求
func (s *ReportScheduler) requestAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	referenceDate := time.Now().Format("2006-01-02")
	for _, reportType := range s.config.ReportTypes {
		if err := s.partner.RequestReport(ctx, reportType, referenceDate); err != nil {
			slog.Error("定时报表请求失败",
				"report_type", reportType,
				"reference_date", referenceDate,
				"error", err)
			continue
		}
		slog.Info("定时报表请求已提交",
			"report_type", reportType,
			"reference_date", referenceDate)
	}
}

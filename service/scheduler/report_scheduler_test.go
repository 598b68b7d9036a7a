/*
 * @module service/scheduler/report_scheduler_test
 * @description 报表调度器单元测试：逐类型请求、失败继续与cron表达式校验
 * @architecture 测试层
 * @dependencies testing, stretchr/testify
 */

package scheduler

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRequester 记录调用的报表请求端
type fakeRequester struct {
	requested []string
	failOn    string
}

func (r *fakeRequester) RequestReport(ctx context.Context, reportType, referenceDate string) error {
	r.requested = append(r.requested, reportType)
	if reportType == r.failOn {
		return fmt.Errorf("request rejected")
	}
	return nil
}

// TestRequestAllEveryType 测试每次触发对所有报表类型发起请求
func TestRequestAllEveryType(t *testing.T) {
	requester := &fakeRequester{}
	s := NewReportScheduler(requester, ReportScheduleConfig{
		CronSpec:    "0 0 7 * * *",
		ReportTypes: []string{"clientbase", "nnm"},
	})

	s.requestAll()
	assert.Equal(t, []string{"clientbase", "nnm"}, requester.requested)
}

// TestRequestAllFailureContinues 测试单个类型失败不影响后续类型
func TestRequestAllFailureContinues(t *testing.T) {
	requester := &fakeRequester{failOn: "clientbase"}
	s := NewReportScheduler(requester, ReportScheduleConfig{
		CronSpec:    "0 0 7 * * *",
		ReportTypes: []string{"clientbase", "nnm"},
	})

	s.requestAll()
	assert.Equal(t, []string{"clientbase", "nnm"}, requester.requested)
}

// TestStartValidatesCronSpec 测试非法cron表达式在启动时报错
func TestStartValidatesCronSpec(t *testing.T) {
	s := NewReportScheduler(&fakeRequester{}, ReportScheduleConfig{CronSpec: "not a cron"})
	assert.Error(t, s.Start())

	valid := NewReportScheduler(&fakeRequester{}, ReportScheduleConfig{CronSpec: "0 0 7 * * *"})
	require.NoError(t, valid.Start())
	valid.Stop()
}

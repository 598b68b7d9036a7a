/*
 * @module api/controllers/report_controller
 * @description 报表触发控制器，按需调用合作方API请求生成报表，结果经webhook异步回投
 * @architecture RESTful API架构 - 控制器层
 * @documentReference ai_docs/clientbase_pipeline_design.md
 * @stateFlow HTTP请求 -> 令牌交换 -> 报表请求 -> 确认响应
 * @dependencies clientbase-service/client, github.com/go-chi/chi/v5, github.com/go-chi/render
 * @refs client/partner_client.go, api/routes.go
 */

package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// ReportRequester 合作方报表请求端
type ReportRequester interface {
	RequestReport(ctx context.Context, reportType, referenceDate string) error
}

// ReportController 报表触发控制器
type ReportController struct {
	partner ReportRequester
}

// NewReportController 创建报表触发控制器
func NewReportController(partner ReportRequester) *ReportController {
	return &ReportController{partner: partner}
}

// RequestReport 触发合作方生成报表
// @Summary 触发报表生成
// @Description 请求合作方生成指定类型的报表，生成完成后经webhook投递
// @Tags 报表
// @Produce json
// @Param type path string true "报表类型" Enums(clientbase, nnm)
// @Param reference_date query string false "参考日期（YYYY-MM-DD）"
// @Success 200 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /reports/{type}/request [post]
func (c *ReportController) RequestReport(w http.ResponseWriter, r *http.Request) {
	reportType := chi.URLParam(r, "type")
	referenceDate := r.URL.Query().Get("reference_date")

	if err := c.partner.RequestReport(r.Context(), reportType, referenceDate); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse("报表请求失败: "+err.Error()))
		return
	}
	render.JSON(w, r, SuccessResponse("报表请求已提交", map[string]string{
		"report_type":    reportType,
		"reference_date": referenceDate,
	}))
}

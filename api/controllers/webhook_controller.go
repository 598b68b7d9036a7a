/*
 * @module api/controllers/webhook_controller
 * @description 报表webhook控制器，接收合作方的报表生成完成通知并触发对账流水线
 * @architecture RESTful API架构 - 控制器层
 * @documentReference ai_docs/clientbase_pipeline_design.md
 * @stateFlow HTTP请求 -> 载荷解析 -> 流水线执行 -> 结构化结果返回
 * @rules 缺少下载URL的"数据未就绪"通知以200确认，避免合作方重投风暴；只有运行失败返回500
 * @dependencies clientbase-service/service/pipeline, github.com/go-chi/render
 * @refs service/pipeline/pipeline.go, api/routes.go
 */

package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/render"

	"clientbase-service/service/models"
	"clientbase-service/service/pipeline"
)

// PipelineRunner 流水线执行端
type PipelineRunner interface {
	Run(ctx context.Context, notification pipeline.Notification) pipeline.Outcome
}

// WebhookPayload 合作方webhook通知载荷
// 下载信息可能嵌在response或partnerResponse下，也可能直接平铺在顶层
type WebhookPayload struct {
	Response        *WebhookResponse `json:"response,omitempty"`
	PartnerResponse *WebhookResponse `json:"partnerResponse,omitempty"`

	// 平铺形态的兜底字段
	URL           string `json:"url,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	EndDate       string `json:"endDate,omitempty"`
}

// WebhookResponse 通知中的报表生成结果
type WebhookResponse struct {
	URL           string `json:"url"`
	AccountNumber string `json:"accountNumber,omitempty"`
	EndDate       string `json:"endDate,omitempty"`
}

// WebhookController 报表webhook控制器
type WebhookController struct {
	clientBase  PipelineRunner
	nnm         PipelineRunner
	performance PipelineRunner
}

// NewWebhookController 创建webhook控制器，流水线依赖显式注入
func NewWebhookController(clientBase, nnm, performance PipelineRunner) *WebhookController {
	return &WebhookController{clientBase: clientBase, nnm: nnm, performance: performance}
}

// HandleClientBase 处理客户基础表报表通知
// @Summary 客户基础表webhook
// @Description 接收合作方客户基础表报表生成完成通知并执行对账流水线
// @Tags webhook
// @Accept json
// @Produce json
// @Param token query string true "共享密钥"
// @Param payload body WebhookPayload true "通知载荷"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /webhook/clientbase [post]
func (c *WebhookController) HandleClientBase(w http.ResponseWriter, r *http.Request) {
	c.handle(w, r, c.clientBase)
}

// HandleNNM 处理NNM报表通知
// @Summary NNM报表webhook
// @Description 接收合作方NNM（净新增资金）报表生成完成通知并执行追加写入流水线
// @Tags webhook
// @Accept json
// @Produce json
// @Param token query string true "共享密钥"
// @Param payload body WebhookPayload true "通知载荷"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /webhook/nnm [post]
func (c *WebhookController) HandleNNM(w http.ResponseWriter, r *http.Request) {
	c.handle(w, r, c.nnm)
}

// HandlePerformance 处理业绩报告通知
// @Summary 业绩报告webhook
// @Description 接收合作方业绩报告PDF压缩包生成完成通知并逐账户覆盖更新
// @Tags webhook
// @Accept json
// @Produce json
// @Param token query string true "共享密钥"
// @Param payload body WebhookPayload true "通知载荷"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /webhook/performance [post]
func (c *WebhookController) HandlePerformance(w http.ResponseWriter, r *http.Request) {
	c.handle(w, r, c.performance)
}

func (c *WebhookController) handle(w http.ResponseWriter, r *http.Request, runner PipelineRunner) {
	var payload WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse("通知载荷解析失败"))
		return
	}

	// 包裹字段缺失时回落到顶层平铺字段；URL仍然缺失的"数据未就绪"
	// 通知由流水线以警告短路并确认，避免合作方重投风暴
	response := payload.Response
	if response == nil {
		response = payload.PartnerResponse
	}
	if response == nil {
		response = &WebhookResponse{
			URL:           payload.URL,
			AccountNumber: payload.AccountNumber,
			EndDate:       payload.EndDate,
		}
	}

	outcome := runner.Run(r.Context(), pipeline.Notification{
		URL:           response.URL,
		AccountNumber: response.AccountNumber,
		ReferenceDate: response.EndDate,
	})

	if outcome.Status == models.ActivityStatusError {
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, APIResponse{Status: 1, Msg: outcome.Message, Data: outcome})
		return
	}
	render.JSON(w, r, SuccessResponse("处理完成", outcome))
}

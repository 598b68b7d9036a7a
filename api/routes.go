/*
 * @module api/routes
 * @description API路由配置模块，负责初始化和配置所有HTTP路由
 * @architecture RESTful API架构
 * @documentReference ai_docs/clientbase_pipeline_design.md
 * @stateFlow 无状态HTTP请求处理
 * @rules webhook路由由共享密钥中间件保护；触发与健康检查路由开放给内部网络
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs api/controllers, api/middleware
 */

package api

import (
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	"clientbase-service/api/controllers"
	"clientbase-service/api/middleware"
	"clientbase-service/service"
)

// InitRoute 初始化所有API路由
func InitRoute(r *chi.Mux) {
	// 基础中间件
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// CORS配置
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 健康检查
	healthController := controllers.NewHealthController()
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	// 合作方webhook，共享密钥保护
	webhookAuth := middleware.NewWebhookAuthMiddleware(os.Getenv("WEBHOOK_TOKEN"))
	webhookController := controllers.NewWebhookController(
		service.GlobalClientBasePipeline,
		service.GlobalNNMPipeline,
		service.GlobalPerformancePipeline,
	)
	r.Route("/webhook", func(r chi.Router) {
		r.Use(webhookAuth.Handler)
		r.Post("/clientbase", webhookController.HandleClientBase)
		r.Post("/nnm", webhookController.HandleNNM)
		r.Post("/performance", webhookController.HandlePerformance)
	})

	// 报表生成触发
	reportController := controllers.NewReportController(service.GlobalPartnerClient)
	r.Route("/reports", func(r chi.Router) {
		r.Post("/{type}/request", reportController.RequestReport)
	})
}

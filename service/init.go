/*
 * @module service/init
 * @description 服务初始化模块，负责数据库连接、模型迁移、合作方客户端与各报表流水线的装配
 * @architecture 分层架构 - 服务层
 * @documentReference ai_docs/clientbase_pipeline_design.md
 * @stateFlow 应用启动时执行初始化流程：数据库 -> 迁移 -> 令牌缓存 -> 发布端 -> 流水线 -> 调度器
 * @rules 配置只在此处读取一次并显式注入各组件构造函数，业务逻辑内不读环境变量
 * @dependencies gorm.io/gorm, gorm.io/driver/postgres
 * @refs service/pipeline, service/scheduler, client
 */

package service

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"clientbase-service/client"
	"clientbase-service/client/connectors"
	"clientbase-service/service/meta"
	"clientbase-service/service/models"
	"clientbase-service/service/pipeline"
	"clientbase-service/service/scheduler"
)

var (
	DB                       *gorm.DB
	GlobalPartnerClient      *client.PartnerClient
	GlobalClientBasePipeline  *pipeline.Service
	GlobalNNMPipeline         *pipeline.Service
	GlobalPerformancePipeline *pipeline.PerformanceService
	GlobalReportScheduler     *scheduler.ReportScheduler
)

func init() {
	initDatabase()
	runMigrations()
	initServices()
}

// initDatabase 初始化数据库连接
func initDatabase() {
	var dsn string

	// 优先使用DATABASE_URL环境变量
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		dsn = databaseURL
	} else {
		// 使用分离的环境变量构建连接字符串
		host := getEnvWithDefault("DB_HOST", "localhost")
		port := getEnvWithDefault("DB_PORT", "5432")
		user := getEnvWithDefault("DB_USER", "postgres")
		password := getEnvWithDefault("DB_PASSWORD", "postgres")
		dbname := getEnvWithDefault("DB_NAME", "postgres")
		sslmode := getEnvWithDefault("DB_SSLMODE", "disable")
		schema := getEnvWithDefault("DB_SCHEMA", "public")

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
			host, port, user, password, dbname, sslmode, schema)
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	log.Println("数据库连接成功")
}

// getEnvWithDefault 获取环境变量，如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// runMigrations 迁移固定模型表
// 主表client_base由批量写入器整表替换管理，不参与gorm迁移
func runMigrations() {
	err := DB.AutoMigrate(
		&models.ClientBaseOffshore{},
		&models.ClientBaseRaw{},
		&models.ClientBaseHistory{},
		&models.NNMEntry{},
		&models.PerformanceReport{},
		&models.PipelineActivityLog{},
	)
	if err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}
	log.Println("数据库表结构迁移完成")
}

// initServices 装配合作方客户端与各报表流水线
func initServices() {
	// 令牌缓存：配置了Redis则跨副本共享，否则回退进程内缓存
	var tokens client.TokenCache
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		redisCache, err := client.NewRedisTokenCache(redisAddr, os.Getenv("REDIS_PASSWORD"), 0)
		if err != nil {
			log.Printf("Redis令牌缓存初始化失败，回退进程内缓存: %v", err)
		} else {
			tokens = redisCache
		}
	}

	GlobalPartnerClient = client.NewPartnerClient(client.PartnerConfig{
		BaseURL:      os.Getenv("PARTNER_BASE_URL"),
		ClientID:     os.Getenv("PARTNER_CLIENT_ID"),
		ClientSecret: os.Getenv("PARTNER_CLIENT_SECRET"),
	}, tokens)

	// 结果发布端：配置了Kafka brokers才启用
	var publisher pipeline.OutcomePublisher
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		publisher = connectors.NewKafkaOutcomePublisher(connectors.OutcomePublisherConfig{
			Brokers: strings.Split(brokers, ","),
			Topic:   getEnvWithDefault("KAFKA_OUTCOME_TOPIC", "clientbase.pipeline.outcomes"),
		})
		log.Printf("Kafka结果发布端已启用: %s", brokers)
	}

	limits := meta.DefaultEngineLimits
	GlobalClientBasePipeline = pipeline.NewService(DB, &meta.ClientBaseReport, GlobalPartnerClient, limits, publisher)
	GlobalNNMPipeline = pipeline.NewService(DB, &meta.NNMReport, GlobalPartnerClient, limits, publisher)
	GlobalPerformancePipeline = pipeline.NewPerformanceService(DB, GlobalPartnerClient, publisher)

	// 每日报表请求调度
	GlobalReportScheduler = scheduler.NewReportScheduler(GlobalPartnerClient, scheduler.ReportScheduleConfig{
		CronSpec:    getEnvWithDefault("REPORT_CRON", "0 0 7 * * *"),
		ReportTypes: []string{"clientbase", "nnm"},
	})
	if err := GlobalReportScheduler.Start(); err != nil {
		log.Printf("报表调度器启动失败: %v", err)
	}

	log.Println("服务初始化完成")
}

/*
 * @module testutil/test_helper
 * @description 测试工具和辅助函数，提供内存数据库与测试数据工厂
 * @architecture 测试基础设施
 * @documentReference ai_docs/clientbase_pipeline_design.md
 * @stateFlow 测试环境初始化 -> 测试数据创建 -> 测试执行 -> 清理资源
 * @rules 提供可重用的测试工具，确保测试环境的一致性
 * @dependencies gorm, sqlite, time
 * @refs service/models
 */

package testutil

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"clientbase-service/service/models"
)

// TestDB 测试数据库配置
type TestDB struct {
	DB *gorm.DB
}

// NewTestDB 创建内存测试数据库并迁移全部固定模型
func NewTestDB() *TestDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect test database: %v", err))
	}

	err = db.AutoMigrate(
		&models.ClientBaseOffshore{},
		&models.ClientBaseRaw{},
		&models.ClientBaseHistory{},
		&models.NNMEntry{},
		&models.PerformanceReport{},
		&models.PipelineActivityLog{},
	)
	if err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}

	return &TestDB{DB: db}
}

// CleanDB 清理数据库
func (tdb *TestDB) CleanDB() {
	tables := []string{
		"client_base_offshore",
		"client_base_raw",
		"client_base_history",
		"nnm_entries",
		"performance_reports",
		"pipeline_activity_logs",
	}

	for _, table := range tables {
		tdb.DB.Exec(fmt.Sprintf("DELETE FROM %s", table))
	}
}

// Close 关闭数据库连接
func (tdb *TestDB) Close() {
	if db, err := tdb.DB.DB(); err == nil {
		db.Close()
	}
}

// CreateOffshoreRecord 创建离岸补充测试记录
func (tdb *TestDB) CreateOffshoreRecord(accountCode, clientName, advisorName string, totalBalance float64) *models.ClientBaseOffshore {
	record := &models.ClientBaseOffshore{
		AccountCode:  accountCode,
		ClientName:   clientName,
		AdvisorName:  advisorName,
		TotalBalance: totalBalance,
		UpdatedAt:    time.Now(),
	}
	if err := tdb.DB.Create(record).Error; err != nil {
		panic(fmt.Sprintf("failed to create offshore record: %v", err))
	}
	return record
}

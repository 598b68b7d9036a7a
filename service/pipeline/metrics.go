/*
 * @module service/pipeline/metrics
 * @description 流水线Prometheus指标定义
 * @architecture 可观测性 - 指标埋点
 * @documentReference ai_docs/clientbase_pipeline_design.md
 * @dependencies github.com/prometheus/client_golang
 * @refs pipeline.go, activity_logger.go
 */

package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// pipelineRunsTotal 按活动名和终态统计的流水线运行次数
	pipelineRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clientbase_pipeline_runs_total",
		Help: "Pipeline runs by activity and terminal status",
	}, []string{"activity", "status"})

	// rowsWrittenTotal 按目标表统计的写入行数
	rowsWrittenTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clientbase_rows_written_total",
		Help: "Rows written by destination table",
	}, []string{"table"})

	// snapshotRowsTotal 历史快照追加行数
	snapshotRowsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clientbase_snapshot_rows_total",
		Help: "History snapshot rows appended",
	})
)

/*
 * @module service/pipeline/historian_test
 * @description 历史记录器单元测试：日期截断、月桶派生与只追加语义
 * @architecture 测试层
 * @dependencies testing, stretchr/testify, testutil内存数据库
 */

package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clientbase-service/service/meta"
	"clientbase-service/testutil"
)

// TestAppendSnapshot 测试N条投影恰好追加N行并派生日期层
func TestAppendSnapshot(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()

	writer := NewBatchWriter(tdb.DB, meta.DefaultEngineLimits)
	historian := NewHistorian(writer, &meta.ClientBaseReport)

	projection := []HistoryEntry{
		{AccountCode: "1", AdvisorName: "Rafael Carvalho", TotalBalance: 100},
		{AccountCode: "2", AdvisorName: "Marina Tavares", TotalBalance: 200},
		{AccountCode: "3", AdvisorName: "Equipe Oliveira", TotalBalance: 300},
	}
	runDate := time.Date(2026, 9, 1, 15, 42, 7, 0, time.UTC)

	written, err := historian.AppendSnapshot(context.Background(), projection, runDate)
	require.NoError(t, err)
	assert.Equal(t, int64(3), written)

	var count int64
	require.NoError(t, tdb.DB.Raw("SELECT COUNT(*) FROM client_base_history").Scan(&count).Error)
	assert.Equal(t, int64(3), count)

	// 全部行落在同一个日期层和月桶
	var buckets []string
	require.NoError(t, tdb.DB.Raw("SELECT DISTINCT month_bucket FROM client_base_history").Scan(&buckets).Error)
	require.Len(t, buckets, 1)
	assert.Equal(t, "2026-09", buckets[0])

	var distinctDates int64
	require.NoError(t, tdb.DB.Raw("SELECT COUNT(DISTINCT snapshot_date) FROM client_base_history").Scan(&distinctDates).Error)
	assert.Equal(t, int64(1), distinctDates)
}

// TestAppendSnapshotNeverReplaces 测试第二次运行只追加不回删
func TestAppendSnapshotNeverReplaces(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()

	writer := NewBatchWriter(tdb.DB, meta.DefaultEngineLimits)
	historian := NewHistorian(writer, &meta.ClientBaseReport)

	projection := []HistoryEntry{{AccountCode: "1", AdvisorName: "X", TotalBalance: 1}}

	_, err := historian.AppendSnapshot(context.Background(), projection, time.Date(2026, 8, 31, 7, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = historian.AppendSnapshot(context.Background(), projection, time.Date(2026, 9, 1, 7, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	var count int64
	require.NoError(t, tdb.DB.Raw("SELECT COUNT(*) FROM client_base_history WHERE account_code = '1'").Scan(&count).Error)
	assert.Equal(t, int64(2), count)

	var buckets []string
	require.NoError(t, tdb.DB.Raw("SELECT DISTINCT month_bucket FROM client_base_history ORDER BY month_bucket").Scan(&buckets).Error)
	assert.Equal(t, []string{"2026-08", "2026-09"}, buckets)
}

// TestAppendSnapshotEmptyProjection 测试空投影不写任何行
func TestAppendSnapshotEmptyProjection(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()

	writer := NewBatchWriter(tdb.DB, meta.DefaultEngineLimits)
	historian := NewHistorian(writer, &meta.ClientBaseReport)

	written, err := historian.AppendSnapshot(context.Background(), nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(0), written)
}

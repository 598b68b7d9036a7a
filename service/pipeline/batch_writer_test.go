/*
 * @module service/pipeline/batch_writer_test
 * @description 批量写入器单元测试：批次行数计算、空集短路、追加顺序、整表替换与主键约束降级
 * @architecture 测试层
 * @dependencies testing, stretchr/testify, testutil内存数据库
 */

package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clientbase-service/service/meta"
	"clientbase-service/testutil"
)

// TestBatchRows 测试由列数和引擎上限计算批次行数
func TestBatchRows(t *testing.T) {
	writer := NewBatchWriter(nil, meta.EngineLimits{ParamLimit: 2090, RowCap: 1000})

	// floor(2090/50) = 41
	assert.Equal(t, 41, writer.BatchRows(50))
	// floor(2090/1) = 2090，被行数上限封顶
	assert.Equal(t, 1000, writer.BatchRows(1))
	// 超宽表至少1行
	assert.Equal(t, 1, writer.BatchRows(5000))
	// 非法列数退回行数上限
	assert.Equal(t, 1000, writer.BatchRows(0))
}

// TestWriteEmptyDataset 测试空数据集不发语句直接返回0
func TestWriteEmptyDataset(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()

	writer := NewBatchWriter(tdb.DB, meta.DefaultEngineLimits)
	written, result, err := writer.Write(context.Background(), WriteRequest{
		Table:   "qualquer",
		Columns: []string{"a"},
		Mode:    WriteModeAppend,
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, int64(0), written)
	assert.Equal(t, StepOk, result.State)
}

// TestWriteAppendPreservesOrder 测试追加写入保持输入行顺序
func TestWriteAppendPreservesOrder(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()

	require.NoError(t, tdb.DB.Exec(`CREATE TABLE append_target (seq text, valor numeric)`).Error)

	// 批次行数压到2，迫使跨批写入
	writer := NewBatchWriter(tdb.DB, meta.EngineLimits{ParamLimit: 4, RowCap: 1000})

	records := make([]Record, 0, 5)
	for i := 0; i < 5; i++ {
		records = append(records, Record{"seq": fmt.Sprintf("s%d", i), "valor": float64(i)})
	}

	written, result, err := writer.Write(context.Background(), WriteRequest{
		Table:   "append_target",
		Columns: []string{"seq", "valor"},
		Mode:    WriteModeAppend,
	}, records)
	require.NoError(t, err)
	assert.Equal(t, int64(5), written)
	assert.Equal(t, StepOk, result.State)

	var got []string
	require.NoError(t, tdb.DB.Raw("SELECT seq FROM append_target ORDER BY rowid").Scan(&got).Error)
	assert.Equal(t, []string{"s0", "s1", "s2", "s3", "s4"}, got)
}

// TestWriteReplaceRecreatesTable 测试替换模式整表删建
func TestWriteReplaceRecreatesTable(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()

	writer := NewBatchWriter(tdb.DB, meta.DefaultEngineLimits)
	request := WriteRequest{
		Table:   "replace_target",
		Columns: []string{"account_code", "total_balance"},
		Kinds:   map[string]meta.ColumnKind{"total_balance": meta.ColumnKindDecimal},
		Mode:    WriteModeReplace,
	}

	// 第一轮写3行
	written, _, err := writer.Write(context.Background(), request, []Record{
		{"account_code": "1", "total_balance": 1.0},
		{"account_code": "2", "total_balance": 2.0},
		{"account_code": "3", "total_balance": 3.0},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), written)

	// 第二轮替换为1行，旧数据全部消失
	written, _, err = writer.Write(context.Background(), request, []Record{
		{"account_code": "9", "total_balance": 9.0},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), written)

	var count int64
	require.NoError(t, tdb.DB.Raw("SELECT COUNT(*) FROM replace_target").Scan(&count).Error)
	assert.Equal(t, int64(1), count)
}

// TestWriteReplacePrimaryKeyFailureDowngraded 测试主键约束补充失败只降级为警告
func TestWriteReplacePrimaryKeyFailureDowngraded(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()

	writer := NewBatchWriter(tdb.DB, meta.DefaultEngineLimits)

	// sqlite不支持ALTER COLUMN，约束补充必然失败，数据仍然落库
	written, result, err := writer.Write(context.Background(), WriteRequest{
		Table:      "replace_pk_target",
		Columns:    []string{"account_code", "client_name"},
		Mode:       WriteModeReplace,
		PrimaryKey: "account_code",
	}, []Record{
		{"account_code": "1", "client_name": "Alice"},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), written)
	assert.Equal(t, StepRecovered, result.State)
	assert.Contains(t, result.Warning, "主键约束")

	var count int64
	require.NoError(t, tdb.DB.Raw("SELECT COUNT(*) FROM replace_pk_target").Scan(&count).Error)
	assert.Equal(t, int64(1), count)
}

// TestWriteMissingColumnsAsNull 测试记录缺失列按NULL写入
func TestWriteMissingColumnsAsNull(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()

	writer := NewBatchWriter(tdb.DB, meta.DefaultEngineLimits)
	written, _, err := writer.Write(context.Background(), WriteRequest{
		Table:   "null_target",
		Columns: []string{"account_code", "client_name"},
		Mode:    WriteModeReplace,
	}, []Record{
		{"account_code": "1"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), written)

	var count int64
	require.NoError(t, tdb.DB.Raw("SELECT COUNT(*) FROM null_target WHERE client_name IS NULL").Scan(&count).Error)
	assert.Equal(t, int64(1), count)
}

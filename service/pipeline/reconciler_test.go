/*
 * @module service/pipeline/reconciler_test
 * @description 对账器单元测试：补充集优先级、保首去重、标签规则顺序与补充表故障吸收
 * @architecture 测试层
 * @dependencies testing, stretchr/testify, testutil内存数据库
 */

package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clientbase-service/service/meta"
	"clientbase-service/testutil"
)

// TestReconcileSupplementalWins 测试主键冲突时补充行胜出
func TestReconcileSupplementalWins(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()

	tdb.CreateOffshoreRecord("1001", "Offshore Alice", "Equipe Offshore", 500)
	reconciler := NewReconciler(tdb.DB, &meta.ClientBaseReport)

	incoming := []Record{
		{"account_code": "1001", "client_name": "Onshore Alice", "advisor_name": "X", "total_balance": 999.0},
		{"account_code": "2002", "client_name": "Bob", "advisor_name": "Y", "total_balance": 100.0},
	}

	reconciled, projection, result := reconciler.Reconcile(context.Background(), incoming)
	assert.Equal(t, StepOk, result.State)
	require.Len(t, reconciled, 2)

	// 补充行排在前面且胜出
	assert.Equal(t, "1001", reconciled[0]["account_code"])
	assert.Equal(t, "Offshore Alice", reconciled[0]["client_name"])
	assert.InDelta(t, 500.0, projection[0].TotalBalance, 1e-9)

	assert.Equal(t, "2002", reconciled[1]["account_code"])
}

// TestReconcileDedupeKeepFirst 测试业务主键保首去重
func TestReconcileDedupeKeepFirst(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()

	reconciler := NewReconciler(tdb.DB, &meta.ClientBaseReport)

	incoming := []Record{
		{"account_code": "1", "client_name": "primeiro"},
		{"account_code": "1", "client_name": "segundo"},
		{"account_code": "2", "client_name": "outro"},
	}

	reconciled, _, _ := reconciler.Reconcile(context.Background(), incoming)
	require.Len(t, reconciled, 2)
	assert.Equal(t, "primeiro", reconciled[0]["client_name"])

	// 主键集合无重复
	seen := map[string]bool{}
	for _, record := range reconciled {
		key := record["account_code"].(string)
		assert.False(t, seen[key], "主键 %s 重复", key)
		seen[key] = true
	}
}

// TestReconcileLabelRulesOrderSensitive 测试标签规则按声明顺序应用且不互斥
func TestReconcileLabelRulesOrderSensitive(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()

	cfg := meta.ClientBaseReport
	cfg.SupplementalTable = ""
	cfg.LabelRules = []meta.LabelRule{
		{Kind: meta.LabelMatchExact, Pattern: "A", Replacement: "B contem C"},
		{Kind: meta.LabelMatchContains, Pattern: "C", Replacement: "D"},
	}
	reconciler := NewReconciler(tdb.DB, &cfg)

	reconciled, _, _ := reconciler.Reconcile(context.Background(), []Record{
		{"account_code": "1", "advisor_name": "A"},
	})
	// 第一条规则的结果被第二条contains规则覆盖
	assert.Equal(t, "D", reconciled[0]["advisor_name"])
}

// TestReconcileLabelRulesFromConfig 测试固定配置中的修正规则
func TestReconcileLabelRulesFromConfig(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()

	cfg := meta.ClientBaseReport
	cfg.SupplementalTable = ""
	reconciler := NewReconciler(tdb.DB, &cfg)

	reconciled, _, _ := reconciler.Reconcile(context.Background(), []Record{
		{"account_code": "1", "advisor_name": "R. Carvalho"},
		{"account_code": "2", "advisor_name": "Pedro Oliveira Jr"},
	})
	assert.Equal(t, "Rafael Carvalho", reconciled[0]["advisor_name"])
	assert.Equal(t, "Equipe Oliveira", reconciled[1]["advisor_name"])
}

// TestReconcileSupplementalReadFailureAbsorbed 测试补充表不可读时以空集降级继续
func TestReconcileSupplementalReadFailureAbsorbed(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()

	cfg := meta.ClientBaseReport
	cfg.SupplementalTable = "tabela_inexistente"
	reconciler := NewReconciler(tdb.DB, &cfg)

	incoming := []Record{{"account_code": "1", "advisor_name": "X"}}
	reconciled, _, result := reconciler.Reconcile(context.Background(), incoming)

	assert.Equal(t, StepRecovered, result.State)
	assert.NotEmpty(t, result.Warning)
	require.Len(t, reconciled, 1)
}

// TestReconcileEmptyIncoming 测试空提取时结果等于去重后的补充集
func TestReconcileEmptyIncoming(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()

	tdb.CreateOffshoreRecord("9001", "Solo", "Equipe Offshore", 10)
	reconciler := NewReconciler(tdb.DB, &meta.ClientBaseReport)

	reconciled, projection, result := reconciler.Reconcile(context.Background(), nil)
	assert.Equal(t, StepOk, result.State)
	require.Len(t, reconciled, 1)
	assert.Equal(t, "9001", reconciled[0]["account_code"])
	require.Len(t, projection, 1)
	assert.Equal(t, "9001", projection[0].AccountCode)
}

/*
 * @module service/pipeline/normalizer_test
 * @description 规范化器单元测试：本地化小数解析、布尔位转换、列重命名与目标列投影
 * @architecture 测试层
 * @dependencies testing, stretchr/testify
 */

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"clientbase-service/service/meta"
)

// TestParseLocaleDecimal 测试本地化小数解析
func TestParseLocaleDecimal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"小数逗号", "1000,50", 1000.50},
		{"千分点加小数逗号", "1.234,56", 1234.56},
		{"大数值千分点", "12.345.678,90", 12345678.90},
		{"纯小数点", "1234.56", 1234.56},
		{"整数", "42", 42},
		{"负数小数逗号", "-1.000,25", -1000.25},
		{"空串", "", 0.0},
		{"空白", "   ", 0.0},
		{"不可解析", "abc", 0.0},
		{"混合垃圾", "12x3", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseLocaleDecimal(tt.input), 1e-9)
		})
	}
}

// TestBoolBit 测试布尔文本转位值
func TestBoolBit(t *testing.T) {
	assert.Equal(t, 1, BoolBit("true"))
	assert.Equal(t, 1, BoolBit("True"))
	assert.Equal(t, 1, BoolBit("TRUE"))
	assert.Equal(t, 1, BoolBit(" true "))
	assert.Equal(t, 0, BoolBit(""))
	assert.Equal(t, 0, BoolBit("false"))
	assert.Equal(t, 0, BoolBit("0"))
	assert.Equal(t, 0, BoolBit("1"))
	assert.Equal(t, 0, BoolBit("yes"))
}

// TestNormalizeRenameAndProjection 测试列重命名与目标列投影
func TestNormalizeRenameAndProjection(t *testing.T) {
	normalizer := NewNormalizer(&meta.ClientBaseReport)

	extract := []Record{
		{
			"nr_conta":     "12345",
			"nome_cliente": "Alice",
			"assessor":     "R. Carvalho",
			"patrimonio":   "1.234,56",
			"qualificado":  "True",
			"coluna_extra": "descartar", // 未映射且不在目标列集合中
		},
	}

	normalized := normalizer.Normalize(extract)
	assert.Len(t, normalized, 1)

	record := normalized[0]
	assert.Equal(t, "12345", record["account_code"])
	assert.Equal(t, "Alice", record["client_name"])
	assert.Equal(t, "R. Carvalho", record["advisor_name"])
	assert.InDelta(t, 1234.56, record["total_balance"], 1e-9)
	assert.Equal(t, 1, record["is_qualified"])

	// 多余列被丢弃，上游缺失的列在输出中缺省
	assert.NotContains(t, record, "coluna_extra")
	assert.NotContains(t, record, "net_new_money")
}

// TestNormalizeKeyAlwaysString 测试业务主键一律字符串化
func TestNormalizeKeyAlwaysString(t *testing.T) {
	normalizer := NewNormalizer(&meta.ClientBaseReport)

	normalized := normalizer.Normalize([]Record{{"nr_conta": 98765}})
	assert.Equal(t, "98765", normalized[0]["account_code"])
}

// TestNormalizeBadCellsNeverFail 测试坏单元格从不导致失败
func TestNormalizeBadCellsNeverFail(t *testing.T) {
	normalizer := NewNormalizer(&meta.ClientBaseReport)

	normalized := normalizer.Normalize([]Record{
		{"nr_conta": "1", "patrimonio": "n/a", "captacao_liquida": ""},
	})
	assert.InDelta(t, 0.0, normalized[0]["total_balance"], 1e-9)
	assert.InDelta(t, 0.0, normalized[0]["net_new_money"], 1e-9)
}

// TestNormalizeEmptyExtract 测试空提取
func TestNormalizeEmptyExtract(t *testing.T) {
	normalizer := NewNormalizer(&meta.ClientBaseReport)
	assert.Empty(t, normalizer.Normalize(nil))
}

/*
 * @module service/pipeline/extract
 * @description 提取解析器，把下载的分隔符文本字节流解析为有序记录集合，支持分隔符嗅探和Latin-1回退解码
 * @architecture 分层架构 - 数据处理层
 * @documentReference ai_docs/clientbase_pipeline_design.md
 * @stateFlow 字节流 -> 编码识别 -> 分隔符嗅探 -> 按行解析 -> 记录集合
 * @dependencies encoding/csv, golang.org/x/text/encoding/charmap
 * @refs normalizer.go, pipeline.go
 */

package pipeline

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ParseExtract 把分隔符文本字节流解析为记录集合，第一行作为列名
// 分隔符在分号和逗号之间按首行出现次数嗅探；非UTF-8输入按Latin-1回退解码
func ParseExtract(payload []byte) ([]Record, []string, error) {
	if len(payload) == 0 {
		return nil, nil, fmt.Errorf("提取内容为空")
	}

	if !utf8.Valid(payload) {
		decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), payload)
		if err != nil {
			return nil, nil, fmt.Errorf("字符集解码失败: %w", err)
		}
		payload = decoded
	}

	reader := csv.NewReader(bytes.NewReader(payload))
	reader.Comma = sniffDelimiter(payload)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("解析表头失败: %w", err)
	}
	columns := make([]string, 0, len(header))
	for _, name := range header {
		columns = append(columns, strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
	}

	var records []Record
	for {
		row, readErr := reader.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, nil, fmt.Errorf("解析数据行失败: %w", readErr)
		}

		record := make(Record, len(columns))
		for i, col := range columns {
			if i < len(row) {
				record[col] = row[i]
			}
		}
		records = append(records, record)
	}

	return records, columns, nil
}

// sniffDelimiter 按首行中分号与逗号的出现次数选择分隔符，默认分号
func sniffDelimiter(payload []byte) rune {
	firstLine := payload
	if idx := bytes.IndexByte(payload, '\n'); idx > 0 {
		firstLine = payload[:idx]
	}
	if bytes.Count(firstLine, []byte(",")) > bytes.Count(firstLine, []byte(";")) {
		return ','
	}
	return ';'
}

package parser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fairlens/internal/model"
)

// missingTokens 视为缺失值的单元格内容（不区分大小写）
var missingTokens = map[string]bool{
	"":     true,
	"na":   true,
	"nan":  true,
	"n/a":  true,
	"null": true,
}

// IsMissing 判断单元格是否为缺失值
func IsMissing(cell string) bool {
	return missingTokens[strings.ToLower(strings.TrimSpace(cell))]
}

// CSVParser CSV 解析器
type CSVParser struct{}

// NewCSVParser 创建 CSV 解析器
func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

// Parse 解析 CSV 内容为表格
// 第一行作为列名；列数不一致的行记为错误行并跳过。
func (p *CSVParser) Parse(r io.Reader) (*Table, int, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, 0, fmt.Errorf("empty csv: no header row")
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read header: %w", err)
	}

	names := make([]string, len(header))
	seen := map[string]int{}
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		// 重名列追加序号，保证列名集合唯一
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		} else {
			seen[name] = 1
		}
		names[i] = name
	}

	var rows [][]string
	errorRows := 0
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			errorRows++
			continue
		}
		if len(rec) != len(names) {
			errorRows++
			continue
		}
		row := make([]string, len(rec))
		for i, cell := range rec {
			cell = strings.TrimSpace(cell)
			if IsMissing(cell) {
				cell = ""
			}
			row[i] = cell
		}
		rows = append(rows, row)
	}

	table := &Table{
		Columns: inferColumns(names, rows),
		Rows:    rows,
	}
	return table, errorRows, nil
}

// inferColumns 推断各列类型并统计缺失/去重
// 所有非缺失单元格都能解析为浮点数的列视为数值列，否则为分类列。
func inferColumns(names []string, rows [][]string) []ColumnSpec {
	columns := make([]ColumnSpec, len(names))
	for j, name := range names {
		numeric := true
		missing := 0
		distinct := map[string]bool{}
		for _, row := range rows {
			cell := row[j]
			if cell == "" {
				missing++
				continue
			}
			distinct[cell] = true
			if numeric {
				if _, err := strconv.ParseFloat(cell, 64); err != nil {
					numeric = false
				}
			}
		}
		colType := model.ColumnCategorical
		if numeric && len(distinct) > 0 {
			colType = model.ColumnNumeric
		}
		columns[j] = ColumnSpec{
			Position:      j,
			Name:          name,
			Type:          colType,
			MissingCount:  missing,
			DistinctCount: len(distinct),
		}
	}
	return columns
}

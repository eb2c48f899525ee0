package parser

import (
	"time"

	"fairlens/internal/model"
)

// ColumnSpec 解析出的列信息
type ColumnSpec struct {
	Position      int              `json:"position"`
	Name          string           `json:"name"`
	Type          model.ColumnType `json:"type"`
	MissingCount  int              `json:"missingCount"`
	DistinctCount int              `json:"distinctCount"`
}

// Table 解析后的表格数据
// Rows 保留原始字符串单元格，缺失值统一规范为空串。
type Table struct {
	Columns []ColumnSpec
	Rows    [][]string
}

// RecognitionResult 数据集类型识别结果
type RecognitionResult struct {
	Kind       model.DatasetKind `json:"kind"`
	Confidence float64           `json:"confidence"` // 置信度 0-1
}

// ParseResult 单个文件的解析结果
type ParseResult struct {
	Filename     string            `json:"filename"`
	Kind         model.DatasetKind `json:"kind"`
	Status       string            `json:"status"` // imported/skipped/error
	ImportedRows int               `json:"importedRows"`
	ErrorRows    int               `json:"errorRows"`
	Errors       []string          `json:"errors,omitempty"`
	Duration     time.Duration     `json:"duration"`
}

// ImportReport 导入报告
type ImportReport struct {
	Filename     string        `json:"filename"`
	TotalRows    int           `json:"totalRows"`
	ImportedRows int           `json:"importedRows"`
	ErrorRows    int           `json:"errorRows"`
	Duration     time.Duration `json:"duration"`
	Result       ParseResult   `json:"result"`
}

package model

import "time"

// DatasetKind 数据集类型
type DatasetKind string

const (
	DatasetKindHR      DatasetKind = "hr"      // 人力资源数据（薪资、职级等）
	DatasetKindComm    DatasetKind = "comm"    // 沟通数据（消息响应时间等）
	DatasetKindUnknown DatasetKind = "unknown" // 无法识别
)

// ColumnType 列类型
type ColumnType string

const (
	ColumnNumeric     ColumnType = "numeric"     // 数值列
	ColumnCategorical ColumnType = "categorical" // 分类列
)

// Dataset 数据集元信息
type Dataset struct {
	ID         string      `json:"id"`         // UUID
	Kind       DatasetKind `json:"kind"`       // hr / comm
	Name       string      `json:"name"`       // 显示名称（默认取文件名）
	SourceFile string      `json:"sourceFile"` // 原始上传文件名
	RowCount   int         `json:"rowCount"`   // 数据行数
	ColCount   int         `json:"colCount"`   // 列数
	UploadedAt time.Time   `json:"uploadedAt"` // 导入时间
}

// Column 数据集列元信息
type Column struct {
	DatasetID     string     `json:"datasetId"`
	Position      int        `json:"position"`      // 原始列序（从 0 开始）
	Name          string     `json:"name"`          // 列名
	Type          ColumnType `json:"type"`          // 推断类型
	MissingCount  int        `json:"missingCount"`  // 缺失值数量
	DistinctCount int        `json:"distinctCount"` // 非缺失去重值数量
}

// IsNumeric 是否数值列
func (c *Column) IsNumeric() bool {
	return c.Type == ColumnNumeric
}

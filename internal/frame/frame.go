package frame

import (
	"fmt"
	"strconv"

	"fairlens/internal/model"
)

// Frame 内存中的分析数据表
// 单元格保留原始字符串，缺失值为空串；一次分析期间不可变。
type Frame struct {
	columns []model.Column
	index   map[string]int // 列名 -> 列序
	rows    [][]string
}

// New 创建 Frame
// 所有行必须与列定义等宽。
func New(columns []model.Column, rows [][]string) (*Frame, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, ok := index[c.Name]; ok {
			return nil, fmt.Errorf("duplicate column name: %s", c.Name)
		}
		index[c.Name] = i
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(columns))
		}
	}
	return &Frame{columns: columns, index: index, rows: rows}, nil
}

// RowCount 数据行数
func (f *Frame) RowCount() int {
	return len(f.rows)
}

// Columns 列定义（按原始顺序）
func (f *Frame) Columns() []model.Column {
	return f.columns
}

// Column 按列名查找列定义
func (f *Frame) Column(name string) (model.Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return model.Column{}, false
	}
	return f.columns[i], true
}

// HasColumn 是否存在该列
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Cell 取第 i 行指定列的单元格，缺失为空串
func (f *Frame) Cell(i int, name string) string {
	return f.rows[i][f.index[name]]
}

// Row 取第 i 行全部单元格
func (f *Frame) Row(i int) []string {
	return f.rows[i]
}

// CompleteRows 返回在给定列上都无缺失的行下标，以及被剔除的行数
func (f *Frame) CompleteRows(cols ...string) (kept []int, excluded int, err error) {
	idx := make([]int, len(cols))
	for k, name := range cols {
		i, ok := f.index[name]
		if !ok {
			return nil, 0, fmt.Errorf("column not found: %s", name)
		}
		idx[k] = i
	}

	kept = make([]int, 0, len(f.rows))
	for i, row := range f.rows {
		complete := true
		for _, j := range idx {
			if row[j] == "" {
				complete = false
				break
			}
		}
		if complete {
			kept = append(kept, i)
		}
	}
	return kept, len(f.rows) - len(kept), nil
}

// Numeric 取指定行的某数值列取值
// 无法解析为数值的单元格返回错误（指明列名和行号）。
func (f *Frame) Numeric(name string, rowIdx []int) ([]float64, error) {
	j, ok := f.index[name]
	if !ok {
		return nil, fmt.Errorf("column not found: %s", name)
	}
	out := make([]float64, len(rowIdx))
	for k, i := range rowIdx {
		v, err := strconv.ParseFloat(f.rows[i][j], 64)
		if err != nil {
			return nil, fmt.Errorf("column %s row %d: not numeric: %q", name, i+1, f.rows[i][j])
		}
		out[k] = v
	}
	return out, nil
}

// Levels 返回指定行上某列的非缺失取值，按首次出现顺序去重
func (f *Frame) Levels(name string, rowIdx []int) []string {
	j := f.index[name]
	seen := map[string]bool{}
	var levels []string
	for _, i := range rowIdx {
		v := f.rows[i][j]
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		levels = append(levels, v)
	}
	return levels
}

// LevelCounts 返回指定行上某列各取值的出现次数
func (f *Frame) LevelCounts(name string, rowIdx []int) map[string]int {
	j := f.index[name]
	counts := map[string]int{}
	for _, i := range rowIdx {
		v := f.rows[i][j]
		if v == "" {
			continue
		}
		counts[v]++
	}
	return counts
}

// AllRows 全部行下标，便于对整表调用 Numeric/Levels
func (f *Frame) AllRows() []int {
	idx := make([]int, len(f.rows))
	for i := range f.rows {
		idx[i] = i
	}
	return idx
}

package analyzer

import (
	"strconv"

	"fairlens/internal/frame"
	"fairlens/internal/model"
)

// CommBiasOptions 沟通偏差分析选项
type CommBiasOptions struct {
	HRKeyColumn   string // HR 数据中的化名列，默认 pseud_id
	CommKeyColumn string // 沟通数据中的接收人化名列，默认 receiver_pseud
	GroupColumn   string // HR 数据中的分组列
	MetricColumn  string // 沟通数据中的数值指标列，默认 response_time_seconds
}

// DefaultHRKeyColumn HR 化名列默认列名
const DefaultHRKeyColumn = "pseud_id"

// DefaultCommKeyColumn 沟通数据化名列默认列名
const DefaultCommKeyColumn = "receiver_pseud"

// DefaultMetricColumn 沟通指标列默认列名
const DefaultMetricColumn = "response_time_seconds"

// CommBias 沟通偏差分析
// 按化名列把沟通数据关联到 HR 数据取得分组，统计各组别指标中位数。
func CommBias(hr, comm *frame.Frame, opts CommBiasOptions) (*model.CommBiasResult, error) {
	if opts.HRKeyColumn == "" {
		opts.HRKeyColumn = DefaultHRKeyColumn
	}
	if opts.CommKeyColumn == "" {
		opts.CommKeyColumn = DefaultCommKeyColumn
	}
	if opts.MetricColumn == "" {
		opts.MetricColumn = DefaultMetricColumn
	}

	for _, col := range []string{opts.HRKeyColumn, opts.GroupColumn} {
		if !hr.HasColumn(col) {
			return nil, &ColumnNotFoundError{Column: col}
		}
	}
	for _, col := range []string{opts.CommKeyColumn, opts.MetricColumn} {
		if !comm.HasColumn(col) {
			return nil, &ColumnNotFoundError{Column: col}
		}
	}
	metric, _ := comm.Column(opts.MetricColumn)
	if !metric.IsNumeric() {
		return nil, &NonNumericOutcomeError{Column: opts.MetricColumn}
	}

	// 化名 -> 组别映射（重复化名取首条记录）
	groupByKey := make(map[string]string, hr.RowCount())
	for i := 0; i < hr.RowCount(); i++ {
		key := hr.Cell(i, opts.HRKeyColumn)
		group := hr.Cell(i, opts.GroupColumn)
		if key == "" || group == "" {
			continue
		}
		if _, ok := groupByKey[key]; !ok {
			groupByKey[key] = group
		}
	}

	values := map[string][]float64{}
	var order []string
	matched, unmatched, excluded := 0, 0, 0

	for i := 0; i < comm.RowCount(); i++ {
		cell := comm.Cell(i, opts.MetricColumn)
		if cell == "" {
			excluded++
			continue
		}
		key := comm.Cell(i, opts.CommKeyColumn)
		group, ok := groupByKey[key]
		if key == "" || !ok {
			unmatched++
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, &NonNumericOutcomeError{Column: opts.MetricColumn, Detail: err.Error()}
		}
		if _, ok := values[group]; !ok {
			order = append(order, group)
		}
		values[group] = append(values[group], v)
		matched++
	}

	medians := make([]model.GroupMedian, 0, len(order))
	for _, lv := range order {
		medians = append(medians, model.GroupMedian{
			Level:  lv,
			Median: median(values[lv]),
			Count:  len(values[lv]),
		})
	}

	return &model.CommBiasResult{
		GroupColumn:   opts.GroupColumn,
		MetricColumn:  opts.MetricColumn,
		Medians:       medians,
		MatchedRows:   matched,
		UnmatchedRows: unmatched,
		RowsExcluded:  excluded,
	}, nil
}

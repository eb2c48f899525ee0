package analyzer

import (
	"sort"

	"fairlens/internal/frame"
	"fairlens/internal/model"
)

// RawGap 原始薪酬差距分析（不做回归调整）
// 各组别结果变量中位数，以及前两个组别的差距比值 1 - m1/m2。
func RawGap(f *frame.Frame, outcomeCol, groupCol string) (*model.RawGapResult, error) {
	outcome, ok := f.Column(outcomeCol)
	if !ok {
		return nil, &ColumnNotFoundError{Column: outcomeCol}
	}
	if !f.HasColumn(groupCol) {
		return nil, &ColumnNotFoundError{Column: groupCol}
	}
	if !outcome.IsNumeric() {
		return nil, &NonNumericOutcomeError{Column: outcomeCol}
	}

	kept, excluded, err := f.CompleteRows(outcomeCol, groupCol)
	if err != nil {
		return nil, err
	}

	levels := f.Levels(groupCol, kept)
	if len(levels) < 2 {
		return nil, &DegenerateGroupingError{Column: groupCol, Levels: len(levels)}
	}

	// 按组别收集结果变量取值
	values := make(map[string][]float64, len(levels))
	for _, i := range kept {
		v, err := f.Numeric(outcomeCol, []int{i})
		if err != nil {
			return nil, &NonNumericOutcomeError{Column: outcomeCol, Detail: err.Error()}
		}
		lv := f.Cell(i, groupCol)
		values[lv] = append(values[lv], v[0])
	}

	medians := make([]model.GroupMedian, 0, len(levels))
	for _, lv := range levels {
		medians = append(medians, model.GroupMedian{
			Level:  lv,
			Median: median(values[lv]),
			Count:  len(values[lv]),
		})
	}

	// 差距比值：第一组相对第二组
	gap := 0.0
	if medians[1].Median != 0 {
		gap = 1 - medians[0].Median/medians[1].Median
	}

	return &model.RawGapResult{
		OutcomeColumn: outcomeCol,
		GroupColumn:   groupCol,
		Medians:       medians,
		GapRatio:      gap,
		FirstLevel:    levels[0],
		SecondLevel:   levels[1],
		RowsUsed:      len(kept),
		RowsExcluded:  excluded,
	}, nil
}

// median 中位数（偶数个取中间两数均值）
func median(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	cp := make([]float64, n)
	copy(cp, x)
	sort.Float64s(cp)
	mid := n / 2
	if n%2 == 0 {
		return (cp[mid-1] + cp[mid]) / 2
	}
	return cp[mid]
}

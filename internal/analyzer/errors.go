package analyzer

import "fmt"

// ColumnNotFoundError 请求的列在数据集中不存在
type ColumnNotFoundError struct {
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column not found: %s", e.Column)
}

// NonNumericOutcomeError 结果列无法按数值解释
type NonNumericOutcomeError struct {
	Column string
	Detail string
}

func (e *NonNumericOutcomeError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("outcome column is not numeric: %s", e.Column)
	}
	return fmt.Sprintf("outcome column is not numeric: %s (%s)", e.Column, e.Detail)
}

// DegenerateGroupingError 剔除缺失后分组列不足两个取值
type DegenerateGroupingError struct {
	Column string
	Levels int
}

func (e *DegenerateGroupingError) Error() string {
	return fmt.Sprintf("group column %s has %d distinct level(s), need at least 2", e.Column, e.Levels)
}

// InsufficientDataError 剔除缺失后观测数少于待估系数数 + 1
type InsufficientDataError struct {
	Rows         int // 剔除缺失后剩余的观测数
	Coefficients int // 待估系数个数（含截距）
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %d observation(s) for %d coefficient(s), need at least %d",
		e.Rows, e.Coefficients, e.Coefficients+1)
}

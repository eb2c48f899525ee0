package model

// AnalysisRequest 调整后薪酬差距分析请求
// Outcome 必须为数值列；Group 必须为至少两个取值的分类列；
// Controls 为控制变量列（数值或分类），不得与 Outcome/Group 重复。
type AnalysisRequest struct {
	OutcomeColumn  string   `json:"outcomeColumn"`
	GroupColumn    string   `json:"groupColumn"`
	ControlColumns []string `json:"controlColumns"`
}

// GroupEffect 单个非基准组别的拟合效应
type GroupEffect struct {
	Level       string  `json:"level"`       // 组别取值
	Coefficient float64 `json:"coefficient"` // 相对基准组别的调整后差距（结果变量单位）
	StdErr      float64 `json:"stdErr"`      // 标准误
	TStat       float64 `json:"tStat"`       // t 统计量
	PValue      float64 `json:"pValue"`      // 双侧 p 值
	CILower     float64 `json:"ciLower"`     // 置信区间下界
	CIUpper     float64 `json:"ciUpper"`     // 置信区间上界
}

// BiasEstimate 调整后薪酬差距分析结果
// 对同一数据集与请求重复计算必须得到完全相同的结果（纯函数，不缓存）。
type BiasEstimate struct {
	OutcomeColumn  string        `json:"outcomeColumn"`
	GroupColumn    string        `json:"groupColumn"`
	ControlColumns []string      `json:"controlColumns"`
	ReferenceLevel string        `json:"referenceLevel"` // 基准组别
	Effects        []GroupEffect `json:"effects"`        // 各非基准组别效应
	Intercept      float64       `json:"intercept"`
	RowsUsed       int           `json:"rowsUsed"`     // 参与拟合的行数
	RowsExcluded   int           `json:"rowsExcluded"` // 因缺失被剔除的行数
	ResidualDOF    int           `json:"residualDof"`  // 残差自由度
	RSquared       float64       `json:"rSquared"`
	Confidence     float64       `json:"confidence"` // 置信水平，如 0.95
}

// GroupMedian 组别中位数
type GroupMedian struct {
	Level  string  `json:"level"`
	Median float64 `json:"median"`
	Count  int     `json:"count"`
}

// RawGapResult 原始薪酬差距分析结果（不做回归调整）
type RawGapResult struct {
	OutcomeColumn string        `json:"outcomeColumn"`
	GroupColumn   string        `json:"groupColumn"`
	Medians       []GroupMedian `json:"medians"`      // 按首次出现顺序
	GapRatio      float64       `json:"gapRatio"`     // 1 - median(第一组)/median(第二组)
	FirstLevel    string        `json:"firstLevel"`   // 参与差距比值的第一组
	SecondLevel   string        `json:"secondLevel"`  // 参与差距比值的第二组
	RowsUsed      int           `json:"rowsUsed"`
	RowsExcluded  int           `json:"rowsExcluded"`
}

// CommBiasResult 沟通偏差分析结果
type CommBiasResult struct {
	GroupColumn    string        `json:"groupColumn"`    // HR 数据中的分组列
	MetricColumn   string        `json:"metricColumn"`   // 沟通数据中的指标列（响应时间）
	Medians        []GroupMedian `json:"medians"`        // 各组别指标中位数
	MatchedRows    int           `json:"matchedRows"`    // 成功关联到 HR 记录的沟通行数
	UnmatchedRows  int           `json:"unmatchedRows"`  // 未关联上的沟通行数
	RowsExcluded   int           `json:"rowsExcluded"`   // 指标缺失被剔除的行数
}

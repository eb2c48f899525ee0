package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"fairlens/internal/model"
	"fairlens/internal/util"
)

// Exporter 分析报告导出器
// 输出包含原始差距、调整后差距与沟通偏差三部分的 Excel 工作簿，
// 并为组别中位数生成柱状图。
type Exporter struct{}

// NewExporter 创建导出器
func NewExporter() *Exporter {
	return &Exporter{}
}

// ExportOptions 导出选项，三个分析结果均可选
type ExportOptions struct {
	Raw      *model.RawGapResult
	Adjusted *model.BiasEstimate
	Comm     *model.CommBiasResult
}

const (
	sheetRawGap      = "Raw Pay Gap"
	sheetAdjustedGap = "Adjusted Pay Gap"
	sheetCommBias    = "Communication Bias"
)

// Export 生成报告工作簿
func (e *Exporter) Export(opts ExportOptions, progress func(ProgressEvent)) (*excelize.File, error) {
	if opts.Raw == nil && opts.Adjusted == nil && opts.Comm == nil {
		return nil, fmt.Errorf("nothing to export: no analysis results supplied")
	}

	f := excelize.NewFile()
	firstSheet := ""

	if opts.Raw != nil {
		reportProgress(progress, 10, "写入原始差距")
		if err := e.fillRawGapSheet(f, opts.Raw); err != nil {
			_ = f.Close()
			return nil, err
		}
		firstSheet = sheetRawGap
	}

	if opts.Adjusted != nil {
		reportProgress(progress, 40, "写入调整后差距")
		if err := e.fillAdjustedSheet(f, opts.Adjusted); err != nil {
			_ = f.Close()
			return nil, err
		}
		if firstSheet == "" {
			firstSheet = sheetAdjustedGap
		}
	}

	if opts.Comm != nil {
		reportProgress(progress, 70, "写入沟通偏差")
		if err := e.fillCommBiasSheet(f, opts.Comm); err != nil {
			_ = f.Close()
			return nil, err
		}
		if firstSheet == "" {
			firstSheet = sheetCommBias
		}
	}

	// 删除默认 Sheet1，激活首个结果页
	_ = f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex(firstSheet); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}

	reportProgress(progress, 100, "导出完成")
	return f, nil
}

// fillRawGapSheet 写入原始差距页与中位数柱状图
func (e *Exporter) fillRawGapSheet(f *excelize.File, result *model.RawGapResult) error {
	if _, err := f.NewSheet(sheetRawGap); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headers := []interface{}{"Group", "Median " + result.OutcomeColumn, "Count"}
	if err := f.SetSheetRow(sheetRawGap, "A1", &headers); err != nil {
		return err
	}
	for i, m := range result.Medians {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{m.Level, m.Median, m.Count}
		if err := f.SetSheetRow(sheetRawGap, cell, &row); err != nil {
			return err
		}
	}

	summaryRow := len(result.Medians) + 3
	gapLine := fmt.Sprintf("Raw pay gap (%s vs %s): %s",
		result.FirstLevel, result.SecondLevel, util.FormatPercent(result.GapRatio))
	if err := f.SetCellValue(sheetRawGap, fmt.Sprintf("A%d", summaryRow), gapLine); err != nil {
		return err
	}
	excludedLine := fmt.Sprintf("Rows used: %d, rows excluded (missing values): %d",
		result.RowsUsed, result.RowsExcluded)
	if err := f.SetCellValue(sheetRawGap, fmt.Sprintf("A%d", summaryRow+1), excludedLine); err != nil {
		return err
	}

	return e.addMedianChart(f, sheetRawGap, "E2",
		fmt.Sprintf("Median %s by %s", result.OutcomeColumn, result.GroupColumn),
		len(result.Medians))
}

// fillAdjustedSheet 写入调整后差距系数表
func (e *Exporter) fillAdjustedSheet(f *excelize.File, est *model.BiasEstimate) error {
	if _, err := f.NewSheet(sheetAdjustedGap); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	meta := [][]interface{}{
		{"Outcome", est.OutcomeColumn},
		{"Group", est.GroupColumn},
		{"Reference level", est.ReferenceLevel},
		{"Controls", joinOrNone(est.ControlColumns)},
		{"Rows used", est.RowsUsed},
		{"Rows excluded", est.RowsExcluded},
		{"Residual DOF", est.ResidualDOF},
		{"R-squared", est.RSquared},
		{"Confidence level", est.Confidence},
	}
	for i, row := range meta {
		if err := f.SetSheetRow(sheetAdjustedGap, fmt.Sprintf("A%d", i+1), &row); err != nil {
			return err
		}
	}

	headerRow := len(meta) + 2
	headers := []interface{}{"Level", "Coefficient", "Std. Error", "t", "p-value", "CI lower", "CI upper"}
	if err := f.SetSheetRow(sheetAdjustedGap, fmt.Sprintf("A%d", headerRow), &headers); err != nil {
		return err
	}
	for i, eff := range est.Effects {
		row := []interface{}{eff.Level, eff.Coefficient, eff.StdErr, eff.TStat, eff.PValue, eff.CILower, eff.CIUpper}
		if err := f.SetSheetRow(sheetAdjustedGap, fmt.Sprintf("A%d", headerRow+1+i), &row); err != nil {
			return err
		}
	}
	return nil
}

// fillCommBiasSheet 写入沟通偏差页与柱状图
func (e *Exporter) fillCommBiasSheet(f *excelize.File, result *model.CommBiasResult) error {
	if _, err := f.NewSheet(sheetCommBias); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headers := []interface{}{"Group", "Median " + result.MetricColumn, "Count"}
	if err := f.SetSheetRow(sheetCommBias, "A1", &headers); err != nil {
		return err
	}
	for i, m := range result.Medians {
		row := []interface{}{m.Level, m.Median, m.Count}
		if err := f.SetSheetRow(sheetCommBias, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}

	summaryRow := len(result.Medians) + 3
	coverage := fmt.Sprintf("Matched rows: %d, unmatched: %d, excluded (missing metric): %d",
		result.MatchedRows, result.UnmatchedRows, result.RowsExcluded)
	if err := f.SetCellValue(sheetCommBias, fmt.Sprintf("A%d", summaryRow), coverage); err != nil {
		return err
	}

	return e.addMedianChart(f, sheetCommBias, "E2",
		fmt.Sprintf("Median %s by %s", result.MetricColumn, result.GroupColumn),
		len(result.Medians))
}

// addMedianChart 在指定位置添加组别中位数柱状图
func (e *Exporter) addMedianChart(f *excelize.File, sheet, cell, title string, rows int) error {
	if rows == 0 {
		return nil
	}
	chart := &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("'%s'!$B$1", sheet),
				Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", sheet, rows+1),
				Values:     fmt.Sprintf("'%s'!$B$2:$B$%d", sheet, rows+1),
			},
		},
		Title: []excelize.RichTextRun{
			{Text: title},
		},
		Legend: excelize.ChartLegend{Position: "none"},
	}
	if err := f.AddChart(sheet, cell, chart); err != nil {
		return fmt.Errorf("failed to add chart: %w", err)
	}
	return nil
}

func joinOrNone(cols []string) string {
	if len(cols) == 0 {
		return "(none)"
	}
	out := cols[0]
	for _, c := range cols[1:] {
		out += ", " + c
	}
	return out
}

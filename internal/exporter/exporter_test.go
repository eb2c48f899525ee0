package exporter

import (
	"strings"
	"testing"

	"fairlens/internal/model"
)

func sampleRaw() *model.RawGapResult {
	return &model.RawGapResult{
		OutcomeColumn: "salary",
		GroupColumn:   "gender",
		Medians: []model.GroupMedian{
			{Level: "F", Median: 47000, Count: 3},
			{Level: "M", Median: 51500, Count: 4},
		},
		GapRatio:     1 - 47000.0/51500.0,
		FirstLevel:   "F",
		SecondLevel:  "M",
		RowsUsed:     7,
		RowsExcluded: 1,
	}
}

func sampleAdjusted() *model.BiasEstimate {
	return &model.BiasEstimate{
		OutcomeColumn:  "salary",
		GroupColumn:    "gender",
		ControlColumns: []string{"tenure", "department"},
		ReferenceLevel: "M",
		Effects: []model.GroupEffect{
			{Level: "F", Coefficient: -3200, StdErr: 1100, TStat: -2.91, PValue: 0.012, CILower: -5500, CIUpper: -900},
		},
		Intercept:    51000,
		RowsUsed:     120,
		RowsExcluded: 6,
		ResidualDOF:  115,
		RSquared:     0.42,
		Confidence:   0.95,
	}
}

func sampleComm() *model.CommBiasResult {
	return &model.CommBiasResult{
		GroupColumn:  "gender",
		MetricColumn: "response_time_seconds",
		Medians: []model.GroupMedian{
			{Level: "F", Median: 120, Count: 40},
			{Level: "M", Median: 70, Count: 55},
		},
		MatchedRows:   95,
		UnmatchedRows: 3,
		RowsExcluded:  2,
	}
}

func TestExport_AllSections(t *testing.T) {
	t.Parallel()

	f, err := NewExporter().Export(ExportOptions{
		Raw:      sampleRaw(),
		Adjusted: sampleAdjusted(),
		Comm:     sampleComm(),
	}, nil)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })

	sheets := f.GetSheetList()
	for _, want := range []string{sheetRawGap, sheetAdjustedGap, sheetCommBias} {
		found := false
		for _, s := range sheets {
			if s == want {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("sheet %q missing, got %v", want, sheets)
		}
	}
	for _, s := range sheets {
		if s == "Sheet1" {
			t.Fatal("default Sheet1 not removed")
		}
	}

	// 原始差距页：组别与中位数
	if v, _ := f.GetCellValue(sheetRawGap, "A2"); v != "F" {
		t.Fatalf("raw A2 = %q, want F", v)
	}
	if v, _ := f.GetCellValue(sheetRawGap, "B3"); v != "51500" {
		t.Fatalf("raw B3 = %q, want 51500", v)
	}
	if v, _ := f.GetCellValue(sheetRawGap, "A5"); !strings.Contains(v, "F vs M") {
		t.Fatalf("raw summary = %q", v)
	}

	// 调整后差距页：基准组别与系数行
	if v, _ := f.GetCellValue(sheetAdjustedGap, "B3"); v != "M" {
		t.Fatalf("adjusted reference = %q, want M", v)
	}
	if v, _ := f.GetCellValue(sheetAdjustedGap, "A12"); v != "F" {
		t.Fatalf("adjusted effect level = %q, want F", v)
	}
	if v, _ := f.GetCellValue(sheetAdjustedGap, "B12"); v != "-3200" {
		t.Fatalf("adjusted coefficient = %q", v)
	}

	// 沟通偏差页
	if v, _ := f.GetCellValue(sheetCommBias, "B2"); v != "120" {
		t.Fatalf("comm B2 = %q, want 120", v)
	}
}

func TestExport_SingleSection(t *testing.T) {
	t.Parallel()

	f, err := NewExporter().Export(ExportOptions{Raw: sampleRaw()}, nil)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != sheetRawGap {
		t.Fatalf("sheets = %v, want only %q", sheets, sheetRawGap)
	}
}

func TestExport_NothingToExport(t *testing.T) {
	t.Parallel()

	if _, err := NewExporter().Export(ExportOptions{}, nil); err == nil {
		t.Fatal("empty export accepted")
	}
}

func TestExport_ReportsProgress(t *testing.T) {
	t.Parallel()

	var percents []int
	f, err := NewExporter().Export(ExportOptions{Raw: sampleRaw()}, func(p ProgressEvent) {
		percents = append(percents, p.Percent)
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })

	if len(percents) == 0 || percents[len(percents)-1] != 100 {
		t.Fatalf("progress percents = %v", percents)
	}
	for i := 1; i < len(percents); i++ {
		if percents[i] < percents[i-1] {
			t.Fatalf("progress not monotonic: %v", percents)
		}
	}
}

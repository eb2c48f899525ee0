package analyzer

import (
	"errors"
	"testing"

	"fairlens/internal/model"
)

func TestCommBias_JoinAndMedians(t *testing.T) {
	t.Parallel()

	hr := testFrame(t,
		[]string{"pseud_id", "gender", "salary"},
		[]model.ColumnType{model.ColumnCategorical, model.ColumnCategorical, model.ColumnNumeric},
		[][]string{
			{"p1", "F", "45000"},
			{"p2", "M", "50000"},
			{"p3", "F", "47000"},
		})
	comm := testFrame(t,
		[]string{"receiver_pseud", "response_time_seconds"},
		[]model.ColumnType{model.ColumnCategorical, model.ColumnNumeric},
		[][]string{
			{"p1", "120"},
			{"p2", "60"},
			{"p1", "180"},
			{"p3", "90"},
			{"p2", "80"},
			{"p9", "300"}, // 化名在 HR 数据中不存在
			{"p1", ""},    // 指标缺失
		})

	result, err := CommBias(hr, comm, CommBiasOptions{GroupColumn: "gender"})
	if err != nil {
		t.Fatalf("comm bias: %v", err)
	}

	if result.MatchedRows != 5 || result.UnmatchedRows != 1 || result.RowsExcluded != 1 {
		t.Fatalf("matched/unmatched/excluded = %d/%d/%d, want 5/1/1",
			result.MatchedRows, result.UnmatchedRows, result.RowsExcluded)
	}
	if len(result.Medians) != 2 {
		t.Fatalf("medians = %d, want 2", len(result.Medians))
	}
	// 组别按关联后首次出现顺序：F 在前
	if result.Medians[0].Level != "F" || result.Medians[1].Level != "M" {
		t.Fatalf("levels = %s/%s, want F/M", result.Medians[0].Level, result.Medians[1].Level)
	}
	// F: 120,180,90 -> 120；M: 60,80 -> 70
	if !floatEquals(result.Medians[0].Median, 120) {
		t.Fatalf("median F = %v, want 120", result.Medians[0].Median)
	}
	if !floatEquals(result.Medians[1].Median, 70) {
		t.Fatalf("median M = %v, want 70", result.Medians[1].Median)
	}
	if result.Medians[0].Count != 3 || result.Medians[1].Count != 2 {
		t.Fatalf("counts = %d/%d, want 3/2", result.Medians[0].Count, result.Medians[1].Count)
	}
}

func TestCommBias_CustomColumns(t *testing.T) {
	t.Parallel()

	hr := testFrame(t,
		[]string{"emp_id", "race"},
		[]model.ColumnType{model.ColumnCategorical, model.ColumnCategorical},
		[][]string{
			{"e1", "G1"},
			{"e2", "G2"},
		})
	comm := testFrame(t,
		[]string{"recipient", "message_count"},
		[]model.ColumnType{model.ColumnCategorical, model.ColumnNumeric},
		[][]string{
			{"e1", "3"},
			{"e2", "7"},
			{"e1", "5"},
		})

	result, err := CommBias(hr, comm, CommBiasOptions{
		HRKeyColumn:   "emp_id",
		CommKeyColumn: "recipient",
		GroupColumn:   "race",
		MetricColumn:  "message_count",
	})
	if err != nil {
		t.Fatalf("comm bias: %v", err)
	}
	if result.MetricColumn != "message_count" {
		t.Fatalf("metric column = %q", result.MetricColumn)
	}
	if !floatEquals(result.Medians[0].Median, 4) {
		t.Fatalf("median G1 = %v, want 4", result.Medians[0].Median)
	}
}

func TestCommBias_DuplicateKeyKeepsFirst(t *testing.T) {
	t.Parallel()

	// 同一化名出现两次，组别以首条记录为准
	hr := testFrame(t,
		[]string{"pseud_id", "gender"},
		[]model.ColumnType{model.ColumnCategorical, model.ColumnCategorical},
		[][]string{
			{"p1", "F"},
			{"p1", "M"},
		})
	comm := testFrame(t,
		[]string{"receiver_pseud", "response_time_seconds"},
		[]model.ColumnType{model.ColumnCategorical, model.ColumnNumeric},
		[][]string{
			{"p1", "100"},
		})

	result, err := CommBias(hr, comm, CommBiasOptions{GroupColumn: "gender"})
	if err != nil {
		t.Fatalf("comm bias: %v", err)
	}
	if len(result.Medians) != 1 || result.Medians[0].Level != "F" {
		t.Fatalf("medians = %+v, want single F group", result.Medians)
	}
}

func TestCommBias_ColumnErrors(t *testing.T) {
	t.Parallel()

	hr := testFrame(t,
		[]string{"pseud_id", "gender"},
		[]model.ColumnType{model.ColumnCategorical, model.ColumnCategorical},
		[][]string{{"p1", "F"}})
	comm := testFrame(t,
		[]string{"receiver_pseud", "channel"},
		[]model.ColumnType{model.ColumnCategorical, model.ColumnCategorical},
		[][]string{{"p1", "email"}})

	if _, err := CommBias(hr, comm, CommBiasOptions{GroupColumn: "race"}); err != nil {
		var colErr *ColumnNotFoundError
		if !errors.As(err, &colErr) || colErr.Column != "race" {
			t.Fatalf("err = %v, want ColumnNotFoundError{race}", err)
		}
	} else {
		t.Fatal("missing group column accepted")
	}

	// 默认指标列 response_time_seconds 不存在
	if _, err := CommBias(hr, comm, CommBiasOptions{GroupColumn: "gender"}); err == nil {
		t.Fatal("missing metric column accepted")
	}

	// 指标列非数值
	if _, err := CommBias(hr, comm, CommBiasOptions{GroupColumn: "gender", MetricColumn: "channel"}); err != nil {
		var numErr *NonNumericOutcomeError
		if !errors.As(err, &numErr) || numErr.Column != "channel" {
			t.Fatalf("err = %v, want NonNumericOutcomeError{channel}", err)
		}
	} else {
		t.Fatal("categorical metric accepted")
	}
}

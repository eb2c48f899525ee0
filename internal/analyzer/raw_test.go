package analyzer

import (
	"errors"
	"testing"

	"fairlens/internal/model"
)

func TestRawGap_MedianAndRatio(t *testing.T) {
	t.Parallel()

	f := testFrame(t,
		[]string{"salary", "gender"},
		[]model.ColumnType{model.ColumnNumeric, model.ColumnCategorical},
		[][]string{
			{"45000", "F"},
			{"50000", "M"},
			{"47000", "F"},
			{"52000", "M"},
			{"49000", "F"},
			{"54000", "M"},
			{"51000", "M"},
		})

	result, err := RawGap(f, "salary", "gender")
	if err != nil {
		t.Fatalf("raw gap: %v", err)
	}

	// 组别按首次出现顺序：F 在前
	if result.FirstLevel != "F" || result.SecondLevel != "M" {
		t.Fatalf("levels = %s/%s, want F/M", result.FirstLevel, result.SecondLevel)
	}
	if len(result.Medians) != 2 {
		t.Fatalf("medians = %d, want 2", len(result.Medians))
	}
	// F: 45000,47000,49000 -> 47000；M: 50000,51000,52000,54000 -> 51500
	if !floatEquals(result.Medians[0].Median, 47000) {
		t.Fatalf("median F = %v, want 47000", result.Medians[0].Median)
	}
	if !floatEquals(result.Medians[1].Median, 51500) {
		t.Fatalf("median M = %v, want 51500", result.Medians[1].Median)
	}
	if result.Medians[0].Count != 3 || result.Medians[1].Count != 4 {
		t.Fatalf("counts = %d/%d, want 3/4", result.Medians[0].Count, result.Medians[1].Count)
	}
	if !floatNear(result.GapRatio, 1-47000.0/51500.0, 1e-9) {
		t.Fatalf("gap ratio = %v", result.GapRatio)
	}
	if result.RowsUsed != 7 || result.RowsExcluded != 0 {
		t.Fatalf("rows used/excluded = %d/%d", result.RowsUsed, result.RowsExcluded)
	}
}

func TestRawGap_MissingExcluded(t *testing.T) {
	t.Parallel()

	f := testFrame(t,
		[]string{"salary", "gender"},
		[]model.ColumnType{model.ColumnNumeric, model.ColumnCategorical},
		[][]string{
			{"100", "A"},
			{"", "B"},
			{"120", "B"},
			{"110", ""},
		})

	result, err := RawGap(f, "salary", "gender")
	if err != nil {
		t.Fatalf("raw gap: %v", err)
	}
	if result.RowsUsed != 2 || result.RowsExcluded != 2 {
		t.Fatalf("rows used/excluded = %d/%d, want 2/2", result.RowsUsed, result.RowsExcluded)
	}
	if result.RowsUsed+result.RowsExcluded != f.RowCount() {
		t.Fatalf("used + excluded != total")
	}
}

func TestRawGap_ZeroSecondMedian(t *testing.T) {
	t.Parallel()

	f := testFrame(t,
		[]string{"bonus", "gender"},
		[]model.ColumnType{model.ColumnNumeric, model.ColumnCategorical},
		[][]string{
			{"10", "A"},
			{"0", "B"},
			{"20", "A"},
			{"0", "B"},
		})

	result, err := RawGap(f, "bonus", "gender")
	if err != nil {
		t.Fatalf("raw gap: %v", err)
	}
	// 第二组中位数为零时比值置零而不是除零
	if !floatEquals(result.GapRatio, 0) {
		t.Fatalf("gap ratio = %v, want 0", result.GapRatio)
	}
}

func TestRawGap_Errors(t *testing.T) {
	t.Parallel()

	f := testFrame(t,
		[]string{"salary", "gender", "title"},
		[]model.ColumnType{model.ColumnNumeric, model.ColumnCategorical, model.ColumnCategorical},
		[][]string{
			{"100", "A", "mgr"},
			{"110", "A", "eng"},
		})

	if _, err := RawGap(f, "wage", "gender"); err != nil {
		var colErr *ColumnNotFoundError
		if !errors.As(err, &colErr) || colErr.Column != "wage" {
			t.Fatalf("err = %v, want ColumnNotFoundError{wage}", err)
		}
	} else {
		t.Fatal("missing outcome column accepted")
	}

	if _, err := RawGap(f, "title", "gender"); err != nil {
		var numErr *NonNumericOutcomeError
		if !errors.As(err, &numErr) {
			t.Fatalf("err = %v, want NonNumericOutcomeError", err)
		}
	} else {
		t.Fatal("categorical outcome accepted")
	}

	if _, err := RawGap(f, "salary", "gender"); err != nil {
		var degErr *DegenerateGroupingError
		if !errors.As(err, &degErr) || degErr.Levels != 1 {
			t.Fatalf("err = %v, want DegenerateGroupingError with 1 level", err)
		}
	} else {
		t.Fatal("single-level grouping accepted")
	}
}

func TestMedian(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   []float64
		want float64
	}{
		{"empty", nil, 0},
		{"single", []float64{5}, 5},
		{"odd", []float64{3, 1, 2}, 2},
		{"even", []float64{4, 1, 3, 2}, 2.5},
		{"unsorted", []float64{10, 2, 8, 4, 6}, 6},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := median(tc.in); !floatEquals(got, tc.want) {
				t.Fatalf("median(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

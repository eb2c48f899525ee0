package parser

import (
	"strings"
	"testing"

	"fairlens/internal/model"
)

func TestCSVParser_Parse(t *testing.T) {
	t.Parallel()

	csv := strings.Join([]string{
		"pseud_id,salary,gender,tenure",
		"p1,45000,F,3",
		"p2,50000,M,5",
		"p3,NA,F,2",
		"p4,52000,,8",
		"p5,47000,F", // 列数不足，跳过
		"p6,48000,M,4",
	}, "\n")

	table, errorRows, err := NewCSVParser().Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if errorRows != 1 {
		t.Fatalf("error rows = %d, want 1", errorRows)
	}
	if len(table.Rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(table.Rows))
	}
	if len(table.Columns) != 4 {
		t.Fatalf("columns = %d, want 4", len(table.Columns))
	}

	// NA 规范为空串
	if table.Rows[2][1] != "" {
		t.Fatalf("missing cell = %q, want empty", table.Rows[2][1])
	}

	// salary 列含缺失但非缺失值全为数值，应识别为数值列
	salary := table.Columns[1]
	if salary.Name != "salary" || salary.Type != model.ColumnNumeric {
		t.Fatalf("salary column = %+v", salary)
	}
	if salary.MissingCount != 1 {
		t.Fatalf("salary missing = %d, want 1", salary.MissingCount)
	}

	gender := table.Columns[2]
	if gender.Type != model.ColumnCategorical {
		t.Fatalf("gender type = %v, want categorical", gender.Type)
	}
	if gender.DistinctCount != 2 {
		t.Fatalf("gender distinct = %d, want 2", gender.DistinctCount)
	}
}

func TestCSVParser_HeaderNormalization(t *testing.T) {
	t.Parallel()

	csv := "name,name,,value\n" +
		"a,b,c,1\n"

	table, _, err := NewCSVParser().Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		got[i] = c.Name
	}
	want := []string{"name", "name_2", "column_3", "value"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("headers = %v, want %v", got, want)
		}
	}
}

func TestCSVParser_EmptyInput(t *testing.T) {
	t.Parallel()

	if _, _, err := NewCSVParser().Parse(strings.NewReader("")); err == nil {
		t.Fatal("empty csv accepted")
	}
}

func TestIsMissing(t *testing.T) {
	t.Parallel()

	missing := []string{"", "NA", "na", "NaN", "n/a", "NULL", "  null  "}
	for _, v := range missing {
		if !IsMissing(v) {
			t.Fatalf("IsMissing(%q) = false, want true", v)
		}
	}
	present := []string{"0", "none", "x", "na1"}
	for _, v := range present {
		if IsMissing(v) {
			t.Fatalf("IsMissing(%q) = true, want false", v)
		}
	}
}

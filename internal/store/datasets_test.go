package store

import (
	"path/filepath"
	"testing"
	"time"

	"fairlens/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "fairlens.db")
	st, err := New(dbPath)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func insertTestDataset(t *testing.T, st *Store, id string, kind model.DatasetKind) {
	t.Helper()
	ds := &model.Dataset{
		ID:         id,
		Kind:       kind,
		Name:       "test-" + id,
		SourceFile: id + ".csv",
		RowCount:   3,
		ColCount:   2,
		UploadedAt: time.Now().UTC(),
	}
	columns := []model.Column{
		{DatasetID: id, Position: 0, Name: "salary", Type: model.ColumnNumeric},
		{DatasetID: id, Position: 1, Name: "gender", Type: model.ColumnCategorical, DistinctCount: 2},
	}
	rows := [][]string{
		{"100", "A"},
		{"120", "B"},
		{"110", "A"},
	}
	if err := st.InsertDataset(ds, columns, rows); err != nil {
		t.Fatalf("insert dataset: %v", err)
	}
}

func TestInsertAndLoadDataset(t *testing.T) {
	st := newTestStore(t)
	insertTestDataset(t, st, "ds1", model.DatasetKindHR)

	ds, err := st.GetDataset("ds1")
	if err != nil {
		t.Fatalf("get dataset: %v", err)
	}
	if ds.Kind != model.DatasetKindHR || ds.RowCount != 3 || ds.ColCount != 2 {
		t.Fatalf("dataset = %+v", ds)
	}

	cols, err := st.GetColumns("ds1")
	if err != nil {
		t.Fatalf("get columns: %v", err)
	}
	if len(cols) != 2 || cols[0].Name != "salary" || !cols[0].IsNumeric() {
		t.Fatalf("columns = %+v", cols)
	}

	rows, err := st.GetRows("ds1", 0)
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if len(rows) != 3 || rows[1][0] != "120" || rows[1][1] != "B" {
		t.Fatalf("rows = %v", rows)
	}

	limited, err := st.GetRows("ds1", 2)
	if err != nil {
		t.Fatalf("get rows with limit: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("limited rows = %d, want 2", len(limited))
	}

	f, err := st.LoadFrame("ds1")
	if err != nil {
		t.Fatalf("load frame: %v", err)
	}
	if f.RowCount() != 3 {
		t.Fatalf("frame rows = %d, want 3", f.RowCount())
	}
	if f.Cell(2, "gender") != "A" {
		t.Fatalf("frame cell = %q", f.Cell(2, "gender"))
	}
}

func TestListAndCountDatasets(t *testing.T) {
	st := newTestStore(t)
	insertTestDataset(t, st, "hr1", model.DatasetKindHR)
	insertTestDataset(t, st, "hr2", model.DatasetKindHR)
	insertTestDataset(t, st, "comm1", model.DatasetKindComm)

	all, err := st.ListDatasets("")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("all = %d, want 3", len(all))
	}

	hr, err := st.ListDatasets("hr")
	if err != nil {
		t.Fatalf("list hr: %v", err)
	}
	if len(hr) != 2 {
		t.Fatalf("hr = %d, want 2", len(hr))
	}

	n, err := st.CountDatasets("comm")
	if err != nil {
		t.Fatalf("count comm: %v", err)
	}
	if n != 1 {
		t.Fatalf("comm count = %d, want 1", n)
	}
}

func TestDeleteDataset(t *testing.T) {
	st := newTestStore(t)
	insertTestDataset(t, st, "ds1", model.DatasetKindHR)

	if err := st.DeleteDataset("ds1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.GetDataset("ds1"); err == nil {
		t.Fatal("deleted dataset still readable")
	}
	rows, err := st.GetRows("ds1", 0)
	if err != nil {
		t.Fatalf("get rows after delete: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("rows after delete = %d, want 0", len(rows))
	}
}

func TestCurrentDatasetConfig(t *testing.T) {
	st := newTestStore(t)

	if _, err := st.GetCurrentDataset("hr"); err == nil {
		t.Fatal("unset current dataset returned no error")
	}

	if err := st.SetCurrentDataset("hr", "ds-hr"); err != nil {
		t.Fatalf("set current hr: %v", err)
	}
	if err := st.SetCurrentDataset("comm", "ds-comm"); err != nil {
		t.Fatalf("set current comm: %v", err)
	}

	id, err := st.GetCurrentDataset("hr")
	if err != nil || id != "ds-hr" {
		t.Fatalf("current hr = %q, %v", id, err)
	}
	id, err = st.GetCurrentDataset("comm")
	if err != nil || id != "ds-comm" {
		t.Fatalf("current comm = %q, %v", id, err)
	}

	// 覆盖更新
	if err := st.SetCurrentDataset("hr", "ds-hr2"); err != nil {
		t.Fatalf("update current hr: %v", err)
	}
	id, _ = st.GetCurrentDataset("hr")
	if id != "ds-hr2" {
		t.Fatalf("current hr after update = %q", id)
	}
}

func TestImportLogLifecycle(t *testing.T) {
	st := newTestStore(t)

	id, err := st.CreateImportLog("hr.csv", 1024)
	if err != nil {
		t.Fatalf("create import log: %v", err)
	}
	if id <= 0 {
		t.Fatalf("log id = %d", id)
	}

	if err := st.UpdateImportLog(id, "ds1", "hr", 10, 9, 1, "imported", ""); err != nil {
		t.Fatalf("update import log: %v", err)
	}

	last, err := st.GetLastImportTime()
	if err != nil {
		t.Fatalf("get last import time: %v", err)
	}
	if last == "" {
		t.Fatal("last import time empty after successful import")
	}
}

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"fairlens/internal/frame"
	"fairlens/internal/model"
)

// InsertDataset 插入数据集元信息、列定义与数据行（单事务）
func (s *Store) InsertDataset(ds *model.Dataset, columns []model.Column, rows [][]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO datasets (id, kind, name, source_file, row_count, col_count, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, ds.ID, string(ds.Kind), ds.Name, ds.SourceFile, ds.RowCount, ds.ColCount, ds.UploadedAt); err != nil {
		return fmt.Errorf("failed to insert dataset: %w", err)
	}

	colStmt, err := tx.Prepare(`
		INSERT INTO dataset_columns (dataset_id, position, name, type, missing_count, distinct_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare column statement: %w", err)
	}
	defer colStmt.Close()

	for _, c := range columns {
		if _, err := colStmt.Exec(ds.ID, c.Position, c.Name, string(c.Type), c.MissingCount, c.DistinctCount); err != nil {
			return fmt.Errorf("failed to insert column %s: %w", c.Name, err)
		}
	}

	rowStmt, err := tx.Prepare(`
		INSERT INTO dataset_rows (dataset_id, row_no, cells) VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare row statement: %w", err)
	}
	defer rowStmt.Close()

	for i, row := range rows {
		cells, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("failed to encode row %d: %w", i, err)
		}
		if _, err := rowStmt.Exec(ds.ID, i+1, string(cells)); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetDataset 获取数据集元信息
func (s *Store) GetDataset(id string) (*model.Dataset, error) {
	var ds model.Dataset
	var kind string
	err := s.db.QueryRow(`
		SELECT id, kind, name, source_file, row_count, col_count, uploaded_at
		FROM datasets WHERE id = ?
	`, id).Scan(&ds.ID, &kind, &ds.Name, &ds.SourceFile, &ds.RowCount, &ds.ColCount, &ds.UploadedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("dataset not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	ds.Kind = model.DatasetKind(kind)
	return &ds, nil
}

// ListDatasets 按导入时间倒序列出数据集，kind 为空时不过滤
func (s *Store) ListDatasets(kind string) ([]*model.Dataset, error) {
	query := `
		SELECT id, kind, name, source_file, row_count, col_count, uploaded_at
		FROM datasets
	`
	args := []interface{}{}
	if kind != "" {
		query += " WHERE kind = ?"
		args = append(args, kind)
	}
	query += " ORDER BY uploaded_at DESC, id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Dataset
	for rows.Next() {
		var ds model.Dataset
		var k string
		if err := rows.Scan(&ds.ID, &k, &ds.Name, &ds.SourceFile, &ds.RowCount, &ds.ColCount, &ds.UploadedAt); err != nil {
			return nil, err
		}
		ds.Kind = model.DatasetKind(k)
		out = append(out, &ds)
	}
	return out, rows.Err()
}

// GetColumns 获取数据集列定义（按原始列序）
func (s *Store) GetColumns(datasetID string) ([]model.Column, error) {
	rows, err := s.db.Query(`
		SELECT position, name, type, missing_count, distinct_count
		FROM dataset_columns WHERE dataset_id = ? ORDER BY position
	`, datasetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Column
	for rows.Next() {
		var c model.Column
		var t string
		if err := rows.Scan(&c.Position, &c.Name, &t, &c.MissingCount, &c.DistinctCount); err != nil {
			return nil, err
		}
		c.DatasetID = datasetID
		c.Type = model.ColumnType(t)
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetRows 获取数据行（limit <= 0 表示全部）
func (s *Store) GetRows(datasetID string, limit int) ([][]string, error) {
	query := "SELECT cells FROM dataset_rows WHERE dataset_id = ? ORDER BY row_no"
	args := []interface{}{datasetID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var cells string
		if err := rows.Scan(&cells); err != nil {
			return nil, err
		}
		var row []string
		if err := json.Unmarshal([]byte(cells), &row); err != nil {
			return nil, fmt.Errorf("failed to decode row cells: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// LoadFrame 加载数据集为内存分析表
func (s *Store) LoadFrame(datasetID string) (*frame.Frame, error) {
	columns, err := s.GetColumns(datasetID)
	if err != nil {
		return nil, fmt.Errorf("failed to load columns for %s: %w", datasetID, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("dataset not found: %s", datasetID)
	}
	rows, err := s.GetRows(datasetID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load rows for %s: %w", datasetID, err)
	}
	return frame.New(columns, rows)
}

// DeleteDataset 删除数据集及其列与数据行
func (s *Store) DeleteDataset(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		"DELETE FROM dataset_rows WHERE dataset_id = ?",
		"DELETE FROM dataset_columns WHERE dataset_id = ?",
		"DELETE FROM datasets WHERE id = ?",
	} {
		if _, err := tx.Exec(q, id); err != nil {
			return fmt.Errorf("failed to delete dataset: %w", err)
		}
	}

	return tx.Commit()
}

// CountDatasets 统计数据集数量，kind 为空时统计全部
func (s *Store) CountDatasets(kind string) (int, error) {
	query := "SELECT COUNT(*) FROM datasets"
	args := []interface{}{}
	if kind != "" {
		query += " WHERE kind = ?"
		args = append(args, kind)
	}
	var count int
	err := s.db.QueryRow(query, args...).Scan(&count)
	return count, err
}

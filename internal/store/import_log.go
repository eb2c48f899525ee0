package store

import "fmt"

// CreateImportLog 创建导入日志，返回 import_log_id
func (s *Store) CreateImportLog(filename string, fileSize int64) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO import_logs (filename, file_size, status)
		VALUES (?, ?, 'processing')
	`, filename, fileSize)
	if err != nil {
		return 0, fmt.Errorf("failed to create import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import log id: %w", err)
	}
	return id, nil
}

// UpdateImportLog 完成导入日志更新
func (s *Store) UpdateImportLog(id int64, datasetID, kind string, totalRows, importedRows, errorRows int, status, errorMessage string) error {
	_, err := s.db.Exec(`
		UPDATE import_logs SET
			dataset_id = ?,
			kind = ?,
			total_rows = ?,
			imported_rows = ?,
			error_rows = ?,
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, datasetID, kind, totalRows, importedRows, errorRows, status, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	return nil
}

// GetLastImportTime 获取最近一次成功导入的完成时间（无记录时返回空串）
func (s *Store) GetLastImportTime() (string, error) {
	var t string
	err := s.db.QueryRow(`
		SELECT COALESCE(completed_at, '') FROM import_logs
		WHERE status = 'imported'
		ORDER BY id DESC LIMIT 1
	`).Scan(&t)
	if err != nil {
		return "", err
	}
	return t, nil
}

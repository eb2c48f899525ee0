package store

import (
	"database/sql"
	"fmt"
	"strconv"
)

// 当前分析所用数据集的配置键
const (
	ConfigCurrentHRDataset   = "current_hr_dataset"
	ConfigCurrentCommDataset = "current_comm_dataset"
)

// GetConfig 获取配置项
func (s *Store) GetConfig(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("config key not found: %s", key)
		}
		return "", err
	}
	return value, nil
}

// GetConfigInt 获取整数配置项
func (s *Store) GetConfigInt(key string) (int, error) {
	value, err := s.GetConfig(key)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(value)
}

// SetConfig 设置配置项
func (s *Store) SetConfig(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = CURRENT_TIMESTAMP
	`, key, value, value)
	return err
}

// GetAllConfig 获取所有配置项
func (s *Store) GetAllConfig() (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM config")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	config := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		config[key] = value
	}

	return config, rows.Err()
}

// GetCurrentDataset 获取当前分析所用的数据集 ID（hr 或 comm）
func (s *Store) GetCurrentDataset(kind string) (string, error) {
	key := ConfigCurrentHRDataset
	if kind == "comm" {
		key = ConfigCurrentCommDataset
	}
	return s.GetConfig(key)
}

// SetCurrentDataset 设置当前分析所用的数据集 ID
func (s *Store) SetCurrentDataset(kind, datasetID string) error {
	key := ConfigCurrentHRDataset
	if kind == "comm" {
		key = ConfigCurrentCommDataset
	}
	return s.SetConfig(key, datasetID)
}

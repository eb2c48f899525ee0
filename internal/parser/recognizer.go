package parser

import (
	"strings"

	"fairlens/internal/model"
)

// DatasetRecognizer 数据集类型识别器
// 根据列名对 HR / 沟通数据集打分，取置信度最高者。
type DatasetRecognizer struct{}

// NewDatasetRecognizer 创建识别器
func NewDatasetRecognizer() *DatasetRecognizer {
	return &DatasetRecognizer{}
}

// hr 数据集的特征字段，竖线分隔同义写法
var hrKeyFields = []string{
	"pseud_id|employee_id|emp_id",
	"salary|base_salary|pay|compensation",
	"gender|sex",
	"department|dept",
	"tenure|years_of_service|seniority",
	"job_level|grade|level",
}

// 沟通数据集的特征字段
var commKeyFields = []string{
	"receiver_pseud|receiver_id|recipient",
	"sender_pseud|sender_id",
	"response_time_seconds|response_time|reply_time",
	"message_count|messages",
	"channel|medium",
}

// Recognize 识别数据集类型
func (r *DatasetRecognizer) Recognize(columnNames []string) RecognitionResult {
	normalized := make([]string, len(columnNames))
	for i, col := range columnNames {
		normalized[i] = NormalizeColumnName(col)
	}

	hrScore := matchScore(normalized, hrKeyFields)
	commScore := matchScore(normalized, commKeyFields)

	// 两类得分都过低则无法识别
	const threshold = 0.3
	switch {
	case commScore >= threshold && commScore > hrScore:
		return RecognitionResult{Kind: model.DatasetKindComm, Confidence: commScore}
	case hrScore >= threshold:
		return RecognitionResult{Kind: model.DatasetKindHR, Confidence: hrScore}
	default:
		return RecognitionResult{Kind: model.DatasetKindUnknown, Confidence: 0}
	}
}

// matchScore 计算列名对特征字段列表的命中比例
func matchScore(columns []string, keyFields []string) float64 {
	matchCount := 0
	for _, field := range keyFields {
		for _, col := range columns {
			if MatchPattern(col, field) {
				matchCount++
				break
			}
		}
	}
	return float64(matchCount) / float64(len(keyFields))
}

// NormalizeColumnName 规范化列名：小写、去空白、空格转下划线
func NormalizeColumnName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")
	return name
}

// MatchPattern 判断列名是否命中模式（竖线分隔的任一候选子串）
func MatchPattern(column, pattern string) bool {
	for _, candidate := range strings.Split(pattern, "|") {
		if candidate != "" && strings.Contains(column, candidate) {
			return true
		}
	}
	return false
}

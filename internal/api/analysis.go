package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fairlens/internal/analyzer"
	"fairlens/internal/frame"
	"fairlens/internal/model"
)

// RawPayGapRequest 原始薪酬差距分析请求体
type RawPayGapRequest struct {
	DatasetID     string `json:"datasetId"` // 为空时使用当前 HR 数据集
	OutcomeColumn string `json:"outcomeColumn"`
	GroupColumn   string `json:"groupColumn"`
}

// RawPayGap 原始薪酬差距分析
// POST /api/analysis/paygap/raw
func (h *Handler) RawPayGap(c *gin.Context) {
	var req RawPayGapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.OutcomeColumn == "" || req.GroupColumn == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "outcomeColumn and groupColumn are required"})
		return
	}

	f, ok := h.loadAnalysisFrame(c, req.DatasetID, "hr")
	if !ok {
		return
	}

	result, err := analyzer.RawGap(f, req.OutcomeColumn, req.GroupColumn)
	if err != nil {
		writeAnalyzerError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// AdjustedPayGapRequest 调整后薪酬差距分析请求体
type AdjustedPayGapRequest struct {
	DatasetID      string   `json:"datasetId"` // 为空时使用当前 HR 数据集
	OutcomeColumn  string   `json:"outcomeColumn"`
	GroupColumn    string   `json:"groupColumn"`
	ControlColumns []string `json:"controlColumns"`
}

// AdjustedPayGap 调整后薪酬差距分析（回归）
// POST /api/analysis/paygap/adjusted
func (h *Handler) AdjustedPayGap(c *gin.Context) {
	var req AdjustedPayGapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.OutcomeColumn == "" || req.GroupColumn == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "outcomeColumn and groupColumn are required"})
		return
	}

	f, ok := h.loadAnalysisFrame(c, req.DatasetID, "hr")
	if !ok {
		return
	}

	estimator := analyzer.NewEstimator(h.cfg.Analysis.ConfidenceLevel)
	estimate, err := estimator.Estimate(f, model.AnalysisRequest{
		OutcomeColumn:  req.OutcomeColumn,
		GroupColumn:    req.GroupColumn,
		ControlColumns: req.ControlColumns,
	})
	if err != nil {
		writeAnalyzerError(c, err)
		return
	}
	c.JSON(http.StatusOK, estimate)
}

// CommBiasRequest 沟通偏差分析请求体
type CommBiasRequest struct {
	HRDatasetID   string `json:"hrDatasetId"`   // 为空时使用当前 HR 数据集
	CommDatasetID string `json:"commDatasetId"` // 为空时使用当前沟通数据集
	GroupColumn   string `json:"groupColumn"`
	HRKeyColumn   string `json:"hrKeyColumn"`
	CommKeyColumn string `json:"commKeyColumn"`
	MetricColumn  string `json:"metricColumn"`
}

// CommBias 沟通偏差分析
// POST /api/analysis/commbias
func (h *Handler) CommBias(c *gin.Context) {
	var req CommBiasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.GroupColumn == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "groupColumn is required"})
		return
	}

	hrFrame, ok := h.loadAnalysisFrame(c, req.HRDatasetID, "hr")
	if !ok {
		return
	}
	commFrame, ok := h.loadAnalysisFrame(c, req.CommDatasetID, "comm")
	if !ok {
		return
	}

	result, err := analyzer.CommBias(hrFrame, commFrame, analyzer.CommBiasOptions{
		HRKeyColumn:   req.HRKeyColumn,
		CommKeyColumn: req.CommKeyColumn,
		GroupColumn:   req.GroupColumn,
		MetricColumn:  req.MetricColumn,
	})
	if err != nil {
		writeAnalyzerError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// loadAnalysisFrame 加载分析数据表；datasetID 为空时使用当前数据集
// 失败时直接写出错误响应并返回 ok=false。
func (h *Handler) loadAnalysisFrame(c *gin.Context, datasetID, kind string) (*frame.Frame, bool) {
	if datasetID == "" {
		id, err := h.store.GetCurrentDataset(kind)
		if err != nil || id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no " + kind + " dataset selected, upload one first"})
			return nil, false
		}
		datasetID = id
	}

	f, err := h.store.LoadFrame(datasetID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}
	return f, true
}

// writeAnalyzerError 把分析错误映射为 HTTP 响应
// 列不存在/非数值结果列 -> 400；数据不足/分组退化 -> 422。
func writeAnalyzerError(c *gin.Context, err error) {
	var (
		colErr    *analyzer.ColumnNotFoundError
		numErr    *analyzer.NonNumericOutcomeError
		degErr    *analyzer.DegenerateGroupingError
		insuffErr *analyzer.InsufficientDataError
	)

	switch {
	case errors.As(err, &colErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": colErr.Error(), "column": colErr.Column})
	case errors.As(err, &numErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": numErr.Error(), "column": numErr.Column})
	case errors.As(err, &degErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": degErr.Error(), "column": degErr.Column, "levels": degErr.Levels})
	case errors.As(err, &insuffErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": insuffErr.Error(), "rows": insuffErr.Rows, "coefficients": insuffErr.Coefficients})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"fairlens/internal/analyzer"
	"fairlens/internal/config"
	"fairlens/internal/exporter"
	"fairlens/internal/frame"
	"fairlens/internal/model"
)

type exportProgressEvent struct {
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// ExportRequest 报告导出请求体，三个分析段均可选，至少选一个
type ExportRequest struct {
	Raw      *RawPayGapRequest      `json:"raw"`
	Adjusted *AdjustedPayGapRequest `json:"adjusted"`
	Comm     *CommBiasRequest       `json:"comm"`
}

// Export 导出分析报告（SSE 进度 + 完成后提供下载地址）
// POST /api/export
func (h *Handler) Export(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Raw == nil && req.Adjusted == nil && req.Comm == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one analysis section is required"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "不支持流式响应"})
		return
	}

	send := func(event exportProgressEvent) {
		b, err := json.Marshal(event)
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", b)
		flusher.Flush()
	}

	fail := func(msg string) {
		send(exportProgressEvent{
			Type:      "error",
			Message:   msg,
			Data:      map[string]any{},
			Timestamp: time.Now(),
		})
	}

	send(exportProgressEvent{
		Type:      "start",
		Message:   "开始导出",
		Data:      map[string]any{},
		Timestamp: time.Now(),
	})

	opts, err := h.runExportAnalyses(req)
	if err != nil {
		fail("分析失败: " + err.Error())
		return
	}

	lastPercent := -1
	progressFn := func(p exporter.ProgressEvent) {
		if p.Percent == lastPercent {
			return
		}
		lastPercent = p.Percent
		send(exportProgressEvent{
			Type:      "progress",
			Message:   p.Stage,
			Data:      map[string]any{"percent": p.Percent},
			Timestamp: time.Now(),
		})
	}

	exp := exporter.NewExporter()
	file, err := exp.Export(opts, progressFn)
	if err != nil {
		fail("导出失败: " + err.Error())
		return
	}
	defer file.Close()

	filename := fmt.Sprintf("fairlens_report_%s.xlsx", time.Now().Format("20060102_150405"))
	tempPath := config.GetDataPath(h.cfg, "exports", fmt.Sprintf("fairlens_export_%d_%d.xlsx", time.Now().UnixNano(), os.Getpid()))
	if err := file.SaveAs(tempPath); err != nil {
		fail("写入导出文件失败: " + err.Error())
		_ = os.Remove(tempPath)
		return
	}

	token := h.downloads.put(tempPath, filename, 10*time.Minute)
	downloadURL := fmt.Sprintf("/api/export/download/%s", token)

	send(exportProgressEvent{
		Type:    "done",
		Message: "导出完成",
		Data: map[string]any{
			"percent":     100,
			"downloadUrl": downloadURL,
			"filename":    filename,
		},
		Timestamp: time.Now(),
	})
}

// runExportAnalyses 按请求段依次执行分析，任一段失败则整体失败
func (h *Handler) runExportAnalyses(req ExportRequest) (exporter.ExportOptions, error) {
	var opts exporter.ExportOptions

	if req.Raw != nil {
		f, err := h.loadFrameForExport(req.Raw.DatasetID, "hr")
		if err != nil {
			return opts, err
		}
		result, err := analyzer.RawGap(f, req.Raw.OutcomeColumn, req.Raw.GroupColumn)
		if err != nil {
			return opts, err
		}
		opts.Raw = result
	}

	if req.Adjusted != nil {
		f, err := h.loadFrameForExport(req.Adjusted.DatasetID, "hr")
		if err != nil {
			return opts, err
		}
		estimator := analyzer.NewEstimator(h.cfg.Analysis.ConfidenceLevel)
		estimate, err := estimator.Estimate(f, model.AnalysisRequest{
			OutcomeColumn:  req.Adjusted.OutcomeColumn,
			GroupColumn:    req.Adjusted.GroupColumn,
			ControlColumns: req.Adjusted.ControlColumns,
		})
		if err != nil {
			return opts, err
		}
		opts.Adjusted = estimate
	}

	if req.Comm != nil {
		hrFrame, err := h.loadFrameForExport(req.Comm.HRDatasetID, "hr")
		if err != nil {
			return opts, err
		}
		commFrame, err := h.loadFrameForExport(req.Comm.CommDatasetID, "comm")
		if err != nil {
			return opts, err
		}
		result, err := analyzer.CommBias(hrFrame, commFrame, analyzer.CommBiasOptions{
			HRKeyColumn:   req.Comm.HRKeyColumn,
			CommKeyColumn: req.Comm.CommKeyColumn,
			GroupColumn:   req.Comm.GroupColumn,
			MetricColumn:  req.Comm.MetricColumn,
		})
		if err != nil {
			return opts, err
		}
		opts.Comm = result
	}

	return opts, nil
}

// loadFrameForExport 与 loadAnalysisFrame 等价，但以错误返回而非写响应
func (h *Handler) loadFrameForExport(datasetID, kind string) (*frame.Frame, error) {
	if datasetID == "" {
		id, err := h.store.GetCurrentDataset(kind)
		if err != nil || id == "" {
			return nil, fmt.Errorf("no %s dataset selected, upload one first", kind)
		}
		datasetID = id
	}
	return h.store.LoadFrame(datasetID)
}

// DownloadExport 下载导出的报告文件（一次性）
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 token"})
		return
	}

	item, ok := h.downloads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下载链接已失效"})
		return
	}

	if _, err := os.Stat(item.filePath); err != nil {
		h.downloads.delete(token)
		c.JSON(http.StatusNotFound, gin.H{"error": "导出文件不存在"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", item.filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.File(item.filePath)

	h.downloads.delete(token)
	_ = os.Remove(item.filePath)
}

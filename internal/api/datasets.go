package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"fairlens/internal/model"
)

// ListDatasets 查询数据集列表
// GET /api/datasets?kind=hr
func (h *Handler) ListDatasets(c *gin.Context) {
	kind := strings.TrimSpace(c.Query("kind"))
	if kind != "" && kind != "hr" && kind != "comm" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid kind, want hr or comm"})
		return
	}

	datasets, err := h.store.ListDatasets(kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if datasets == nil {
		datasets = []*model.Dataset{}
	}

	c.JSON(http.StatusOK, gin.H{"items": datasets, "total": len(datasets)})
}

// GetDataset 获取数据集详情
// GET /api/datasets/:id
func (h *Handler) GetDataset(c *gin.Context) {
	ds, err := h.store.GetDataset(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ds)
}

// GetDatasetColumns 获取数据集列定义（用于前端列选择下拉框）
// GET /api/datasets/:id/columns
func (h *Handler) GetDatasetColumns(c *gin.Context) {
	columns, err := h.store.GetColumns(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(columns) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "dataset not found: " + c.Param("id")})
		return
	}
	c.JSON(http.StatusOK, gin.H{"columns": columns})
}

// PreviewDataset 预览数据集前若干行
// GET /api/datasets/:id/preview?rows=10
func (h *Handler) PreviewDataset(c *gin.Context) {
	id := c.Param("id")

	limit := parseIntWithDefault(c.Query("rows"), 10)
	if limit <= 0 {
		limit = 10
	}
	if limit > h.cfg.Analysis.MaxPreviewRows {
		limit = h.cfg.Analysis.MaxPreviewRows
	}

	columns, err := h.store.GetColumns(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(columns) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "dataset not found: " + id})
		return
	}

	rows, err := h.store.GetRows(id, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.Name
	}
	if rows == nil {
		rows = [][]string{}
	}

	c.JSON(http.StatusOK, gin.H{"columns": names, "rows": rows})
}

// DeleteDataset 删除数据集
// DELETE /api/datasets/:id
func (h *Handler) DeleteDataset(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.store.GetDataset(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.DeleteDataset(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// SelectDataset 设置当前分析所用的数据集
// POST /api/datasets/select
func (h *Handler) SelectDataset(c *gin.Context) {
	var body struct {
		DatasetID string `json:"datasetId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	ds, err := h.store.GetDataset(body.DatasetID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.SetCurrentDataset(string(ds.Kind), ds.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"kind": ds.Kind, "datasetId": ds.ID})
}

func parseIntWithDefault(v string, d int) int {
	if v == "" {
		return d
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return d
	}
	return i
}

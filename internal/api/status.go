package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Initialized    bool   `json:"initialized"`    // 是否已初始化（至少有一个数据集）
	HRDatasetID    string `json:"hrDatasetId"`    // 当前 HR 数据集
	CommDatasetID  string `json:"commDatasetId"`  // 当前沟通数据集
	HRCount        int    `json:"hrCount"`        // HR 数据集数量
	CommCount      int    `json:"commCount"`      // 沟通数据集数量
	LastImportTime string `json:"lastImportTime"` // 最后导入时间
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	hrCount, err := h.store.CountDatasets("hr")
	if err != nil {
		hrCount = 0
	}
	commCount, err := h.store.CountDatasets("comm")
	if err != nil {
		commCount = 0
	}

	hrID, _ := h.store.GetCurrentDataset("hr")
	commID, _ := h.store.GetCurrentDataset("comm")
	lastImport, _ := h.store.GetLastImportTime()

	c.JSON(http.StatusOK, StatusResponse{
		Initialized:    hrCount+commCount > 0,
		HRDatasetID:    hrID,
		CommDatasetID:  commID,
		HRCount:        hrCount,
		CommCount:      commCount,
		LastImportTime: lastImport,
	})
}

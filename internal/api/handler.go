package api

import (
	"github.com/gin-gonic/gin"

	"fairlens/internal/config"
	"fairlens/internal/store"
)

// Handler API 处理器
type Handler struct {
	store     *store.Store
	cfg       *config.AppConfig
	downloads *exportDownloadStore
}

// NewHandler 创建 API 处理器
func NewHandler(store *store.Store, cfg *config.AppConfig) *Handler {
	return &Handler{
		store:     store,
		cfg:       cfg,
		downloads: newExportDownloadStore(),
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 数据集管理
	router.GET("/datasets", h.ListDatasets)
	router.GET("/datasets/:id", h.GetDataset)
	router.GET("/datasets/:id/columns", h.GetDatasetColumns)
	router.GET("/datasets/:id/preview", h.PreviewDataset)
	router.DELETE("/datasets/:id", h.DeleteDataset)
	router.POST("/datasets/select", h.SelectDataset)

	// 数据导入
	router.POST("/import", h.Import)

	// 分析
	router.POST("/analysis/paygap/raw", h.RawPayGap)
	router.POST("/analysis/paygap/adjusted", h.AdjustedPayGap)
	router.POST("/analysis/commbias", h.CommBias)

	// 报告导出
	router.POST("/export", h.Export)
	router.GET("/export/download/:token", h.DownloadExport)
}

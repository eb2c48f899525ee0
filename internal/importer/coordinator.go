package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"fairlens/internal/model"
	"fairlens/internal/parser"
	"fairlens/internal/store"
)

// Coordinator 导入协调器
type Coordinator struct {
	store      *store.Store
	parser     *parser.CSVParser
	recognizer *parser.DatasetRecognizer
}

// NewCoordinator 创建导入协调器
func NewCoordinator(store *store.Store) *Coordinator {
	return &Coordinator{
		store:      store,
		parser:     parser.NewCSVParser(),
		recognizer: parser.NewDatasetRecognizer(),
	}
}

// ImportOptions 导入选项
type ImportOptions struct {
	FilePath       string
	Filename       string            // 原始上传文件名
	Kind           model.DatasetKind // 指定数据集类型；为空时自动识别
	ReplaceCurrent bool              // 是否删除同类型的旧数据集
	SetCurrent     bool              // 是否设为当前分析数据集
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"`      // start/info/warning/done/error
	Message   string      `json:"message"`   // 事件消息
	Data      interface{} `json:"data"`      // 附加数据
	Timestamp time.Time   `json:"timestamp"` // 时间戳
}

// Import 执行导入，返回进度通道
func (c *Coordinator) Import(opts ImportOptions) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 100)

	go func() {
		defer close(progressChan)
		c.doImport(opts, progressChan)
	}()

	return progressChan
}

// doImport 执行导入逻辑
func (c *Coordinator) doImport(opts ImportOptions, progressChan chan ProgressEvent) {
	startTime := time.Now()
	filename := opts.Filename
	if filename == "" {
		filename = filepath.Base(opts.FilePath)
	}

	c.sendProgress(progressChan, ProgressEvent{
		Type:      "start",
		Message:   "开始导入 CSV 文件",
		Data:      map[string]string{"filename": filename},
		Timestamp: time.Now(),
	})

	info, err := os.Stat(opts.FilePath)
	var fileSize int64
	if err == nil {
		fileSize = info.Size()
	}
	logID, logErr := c.store.CreateImportLog(filename, fileSize)
	if logErr != nil {
		c.sendProgress(progressChan, ProgressEvent{
			Type:      "warning",
			Message:   fmt.Sprintf("创建导入日志失败: %v", logErr),
			Timestamp: time.Now(),
		})
	}

	file, err := os.Open(opts.FilePath)
	if err != nil {
		c.fail(progressChan, logID, fmt.Sprintf("打开文件失败: %v", err))
		return
	}
	defer file.Close()

	// 解析 CSV
	table, errorRows, err := c.parser.Parse(file)
	if err != nil {
		c.fail(progressChan, logID, fmt.Sprintf("解析 CSV 失败: %v", err))
		return
	}

	if errorRows > 0 {
		c.sendProgress(progressChan, ProgressEvent{
			Type:      "warning",
			Message:   fmt.Sprintf("跳过 %d 行格式异常数据", errorRows),
			Data:      map[string]int{"error_rows": errorRows},
			Timestamp: time.Now(),
		})
	}

	// 识别数据集类型
	kind := opts.Kind
	if kind == "" || kind == model.DatasetKindUnknown {
		names := make([]string, len(table.Columns))
		for i, col := range table.Columns {
			names[i] = col.Name
		}
		recognition := c.recognizer.Recognize(names)
		kind = recognition.Kind
		c.sendProgress(progressChan, ProgressEvent{
			Type:    "info",
			Message: fmt.Sprintf("数据集识别为: %s (置信度: %.2f)", recognition.Kind, recognition.Confidence),
			Data: map[string]interface{}{
				"kind":       recognition.Kind,
				"confidence": recognition.Confidence,
			},
			Timestamp: time.Now(),
		})
	}
	if kind == model.DatasetKindUnknown {
		c.fail(progressChan, logID, "无法识别数据集类型，请指定 hr 或 comm")
		return
	}

	// 删除同类型旧数据集（可选）
	if opts.ReplaceCurrent {
		if err := c.deleteExisting(string(kind), progressChan); err != nil {
			c.sendProgress(progressChan, ProgressEvent{
				Type:      "warning",
				Message:   fmt.Sprintf("清理旧数据集失败: %v", err),
				Timestamp: time.Now(),
			})
		}
	}

	// 落库
	ds := &model.Dataset{
		ID:         uuid.NewString(),
		Kind:       kind,
		Name:       strings.TrimSuffix(filename, filepath.Ext(filename)),
		SourceFile: filename,
		RowCount:   len(table.Rows),
		ColCount:   len(table.Columns),
		UploadedAt: time.Now().UTC(),
	}

	columns := make([]model.Column, len(table.Columns))
	for i, spec := range table.Columns {
		columns[i] = model.Column{
			DatasetID:     ds.ID,
			Position:      spec.Position,
			Name:          spec.Name,
			Type:          spec.Type,
			MissingCount:  spec.MissingCount,
			DistinctCount: spec.DistinctCount,
		}
	}

	if err := c.store.InsertDataset(ds, columns, table.Rows); err != nil {
		c.fail(progressChan, logID, fmt.Sprintf("数据入库失败: %v", err))
		return
	}

	// 更新当前数据集指针
	if opts.SetCurrent {
		if err := c.store.SetCurrentDataset(string(kind), ds.ID); err != nil {
			c.sendProgress(progressChan, ProgressEvent{
				Type:      "warning",
				Message:   fmt.Sprintf("更新当前数据集失败: %v", err),
				Timestamp: time.Now(),
			})
		}
	}

	if logID > 0 {
		_ = c.store.UpdateImportLog(logID, ds.ID, string(kind), len(table.Rows)+errorRows, len(table.Rows), errorRows, "imported", "")
	}

	report := parser.ImportReport{
		Filename:     filename,
		TotalRows:    len(table.Rows) + errorRows,
		ImportedRows: len(table.Rows),
		ErrorRows:    errorRows,
		Duration:     time.Since(startTime),
		Result: parser.ParseResult{
			Filename:     filename,
			Kind:         kind,
			Status:       "imported",
			ImportedRows: len(table.Rows),
			ErrorRows:    errorRows,
			Duration:     time.Since(startTime),
		},
	}

	c.sendProgress(progressChan, ProgressEvent{
		Type:    "done",
		Message: fmt.Sprintf("导入完成: %d 行", len(table.Rows)),
		Data: map[string]interface{}{
			"dataset_id": ds.ID,
			"kind":       kind,
			"report":     report,
		},
		Timestamp: time.Now(),
	})
}

// deleteExisting 删除同类型的全部旧数据集
func (c *Coordinator) deleteExisting(kind string, progressChan chan ProgressEvent) error {
	existing, err := c.store.ListDatasets(kind)
	if err != nil {
		return err
	}
	for _, ds := range existing {
		if err := c.store.DeleteDataset(ds.ID); err != nil {
			return err
		}
		c.sendProgress(progressChan, ProgressEvent{
			Type:      "info",
			Message:   fmt.Sprintf("已删除旧数据集: %s", ds.Name),
			Timestamp: time.Now(),
		})
	}
	return nil
}

// fail 发送错误事件并落导入日志
func (c *Coordinator) fail(progressChan chan ProgressEvent, logID int64, message string) {
	if logID > 0 {
		_ = c.store.UpdateImportLog(logID, "", "", 0, 0, 0, "error", message)
	}
	c.sendProgress(progressChan, ProgressEvent{
		Type:      "error",
		Message:   message,
		Timestamp: time.Now(),
	})
}

// sendProgress 发送进度事件
func (c *Coordinator) sendProgress(ch chan ProgressEvent, event ProgressEvent) {
	select {
	case ch <- event:
	default:
		// 通道已满，丢弃事件
	}
}

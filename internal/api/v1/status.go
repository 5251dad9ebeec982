package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Version        string `json:"version"`
	Sessions       int    `json:"sessions"`       // 当前有效会话数
	SessionTTL     string `json:"sessionTtl"`     // 会话有效期
	MaxFiles       int    `json:"maxFiles"`       // 单次上传文件数上限
	MaxFileBytes   int64  `json:"maxFileBytes"`   // 单个文件大小上限
	AuditLog       bool   `json:"auditLog"`       // 是否记录上传日志
	SchemaVersion  int    `json:"schemaVersion"`  // 上传日志库迁移版本
	LastImportTime string `json:"lastImportTime"` // 最后上传时间
	PendingExports int    `json:"pendingExports"` // 待下载的导出文件数
	Uptime         string `json:"uptime"`
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	resp := StatusResponse{
		Version:        Version,
		Sessions:       h.sessions.Len(),
		SessionTTL:     h.sessions.TTL().String(),
		MaxFiles:       h.limits.MaxFiles,
		MaxFileBytes:   h.limits.MaxFileBytes,
		AuditLog:       h.store != nil,
		PendingExports: h.downloads.len(),
		Uptime:         time.Since(h.startedAt).Round(time.Second).String(),
	}
	if h.store != nil {
		if v, err := h.store.SchemaVersion(); err == nil {
			resp.SchemaVersion = v
		}
		if logs, err := h.store.ListImportLogs(1); err == nil && len(logs) > 0 {
			resp.LastImportTime = logs[0].CreatedAt.Format(time.RFC3339)
		}
	}
	c.JSON(http.StatusOK, resp)
}

// ListImports 最近的上传日志
// GET /api/imports?limit=
func (h *Handler) ListImports(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusOK, gin.H{"items": []any{}})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	logs, err := h.store.ListImportLogs(limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": logs})
}

// ListImportSheets 某次上传文件的工作表明细
// GET /api/imports/:id/sheets
func (h *Handler) ListImportSheets(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, errorBody(CodeNotFound, "无效的日志 ID"))
		return
	}
	if h.store == nil {
		c.JSON(http.StatusOK, gin.H{"items": []any{}})
		return
	}
	metas, err := h.store.ListSheetMeta(id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if metas == nil {
		c.JSON(http.StatusOK, gin.H{"items": []any{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": metas})
}

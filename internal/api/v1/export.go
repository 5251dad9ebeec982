package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Joaotp75/dashboard-assessores/internal/aggregator"
	"github.com/Joaotp75/dashboard-assessores/internal/exporter"
	"github.com/Joaotp75/dashboard-assessores/internal/metrics"
)

const exportDownloadTTL = 10 * time.Minute

type exportProgressEvent struct {
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Export 直接下载当前筛选的 Excel
// GET /api/sessions/:id/export?advisor=&month=
func (h *Handler) Export(c *gin.Context) {
	sess, ok := h.lookupSession(c)
	if !ok {
		return
	}
	sel := selectionFromQuery(c)
	d, err := aggregator.Build(sess.Table, sel)
	if err != nil {
		h.writeError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.exporter.WriteTo(&buf, d); err != nil {
		h.writeError(c, err)
		return
	}

	h.metrics.ObserveExport(metrics.ExportDirect)
	c.Header("Content-Disposition", contentDisposition(exporter.FileName(sel)))
	c.Data(http.StatusOK, exporter.ContentType, buf.Bytes())
}

// ExportStream 导出 Excel（SSE 进度 + 完成后提供一次性下载地址）
// POST /api/sessions/:id/export/stream?advisor=&month=
func (h *Handler) ExportStream(c *gin.Context) {
	sess, ok := h.lookupSession(c)
	if !ok {
		return
	}
	sel := selectionFromQuery(c)

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, errorBody(CodeInternal, "不支持流式响应"))
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	send := func(event exportProgressEvent) {
		b, err := json.Marshal(event)
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", b)
		flusher.Flush()
	}
	fail := func(message string) {
		send(exportProgressEvent{
			Type:      "error",
			Message:   message,
			Data:      map[string]any{},
			Timestamp: time.Now(),
		})
	}

	send(exportProgressEvent{
		Type:    "start",
		Message: "开始导出",
		Data: map[string]any{
			"advisor": sel.AdvisorCode,
			"month":   sel.Month,
		},
		Timestamp: time.Now(),
	})

	d, err := aggregator.Build(sess.Table, sel)
	if err != nil {
		fail("计算失败: " + err.Error())
		return
	}

	lastPercent := -1
	file, err := h.exporter.Export(d, func(p exporter.ProgressEvent) {
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
	})
	if err != nil {
		fail("导出失败: " + err.Error())
		return
	}
	defer file.Close()

	buf, err := file.WriteToBuffer()
	if err != nil {
		fail("写入导出文件失败: " + err.Error())
		return
	}

	token := h.downloads.put(buf.Bytes(), exporter.FileName(sel), exportDownloadTTL)
	h.metrics.ObserveExport(metrics.ExportStream)
	prefix := c.Request.URL.Path
	if i := strings.Index(prefix, "/sessions/"); i >= 0 {
		prefix = prefix[:i]
	}

	send(exportProgressEvent{
		Type:    "done",
		Message: "导出完成",
		Data: map[string]any{
			"percent":     100,
			"downloadUrl": fmt.Sprintf("%s/export/download/%s", prefix, token),
		},
		Timestamp: time.Now(),
	})
}

// DownloadExport 下载导出的 Excel 文件（一次性）
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, errorBody(CodeNotFound, "缺少 token"))
		return
	}

	item, ok := h.downloads.take(token)
	if !ok {
		c.JSON(http.StatusNotFound, errorBody(CodeNotFound, "下载链接已失效"))
		return
	}

	c.Header("Content-Disposition", contentDisposition(item.filename))
	c.Data(http.StatusOK, exporter.ContentType, item.data)
}

// contentDisposition attachment 头，带 RFC 5987 编码的文件名
func contentDisposition(filename string) string {
	ascii := strings.Map(func(r rune) rune {
		if r > 0x7e || r < 0x20 || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, filename)
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, ascii, url.PathEscape(filename))
}

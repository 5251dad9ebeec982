package v1

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Joaotp75/dashboard-assessores/internal/aggregator"
	"github.com/Joaotp75/dashboard-assessores/internal/consolidator"
	"github.com/Joaotp75/dashboard-assessores/internal/metrics"
	"github.com/Joaotp75/dashboard-assessores/internal/model"
	"github.com/Joaotp75/dashboard-assessores/internal/store"
)

// UploadResponse 上传成功响应
type UploadResponse struct {
	SessionID string                `json:"sessionId"`
	UploadID  string                `json:"uploadId"`
	ExpiresAt time.Time             `json:"expiresAt"`
	Report    *consolidator.Report  `json:"report"`
	Options   OptionsResponse       `json:"options"`
	Dashboard *aggregator.Dashboard `json:"dashboard"`
}

// uploadedFile 已读入内存的上传文件
type uploadedFile struct {
	name  string
	data  []byte
	logID int64
}

// Upload 上传多个 xlsx 文件，合并后创建会话
// POST /api/upload (multipart, 字段 file 可重复)
func (h *Handler) Upload(c *gin.Context) {
	start := time.Now()
	outcome, rows := metrics.UploadRejected, 0
	defer func() { h.metrics.ObserveUpload(outcome, rows, time.Since(start)) }()

	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			c.JSON(http.StatusBadRequest, errorBody(CodeNoFiles, msgNoFiles))
			return
		}
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidForm, "无效的表单数据"))
		return
	}

	headers := form.File["file"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, errorBody(CodeNoFiles, msgNoFiles))
		return
	}
	if h.limits.MaxFiles > 0 && len(headers) > h.limits.MaxFiles {
		c.JSON(http.StatusBadRequest, errorBody(CodeTooManyFiles,
			fmt.Sprintf("no máximo %d arquivos por envio", h.limits.MaxFiles)))
		return
	}

	uploadID := uuid.New().String()
	log := h.log.WithFields(logrus.Fields{"upload": uploadID, "files": len(headers)})

	files := make([]*uploadedFile, 0, len(headers))
	for _, fh := range headers {
		if h.limits.MaxFileBytes > 0 && fh.Size > h.limits.MaxFileBytes {
			c.JSON(http.StatusRequestEntityTooLarge, errorBody(CodeFileTooLarge,
				fmt.Sprintf("arquivo %q excede %d bytes", fh.Filename, h.limits.MaxFileBytes)))
			return
		}
		// 文件名先校验，避免为无法提取顾问代码的文件解析工作簿
		if _, err := consolidator.AdvisorCode(fh.Filename); err != nil {
			h.writeError(c, err)
			return
		}
		data, err := readUploaded(fh)
		if err != nil {
			h.writeError(c, fmt.Errorf("read %s: %w", fh.Filename, err))
			return
		}
		files = append(files, &uploadedFile{name: fh.Filename, data: data})
	}

	h.auditStart(uploadID, files)

	payloads := make([]consolidator.Payload, 0, len(files))
	for _, f := range files {
		payloads = append(payloads, consolidator.Payload{Filename: f.name, Data: f.data})
	}
	outcome = metrics.UploadFailed
	sources, err := consolidator.OpenAll(c.Request.Context(), payloads, 0)
	if err != nil {
		for _, f := range files {
			h.auditFail(f, err)
		}
		log.WithError(err).Warn("open workbook failed")
		h.writeError(c, err)
		return
	}
	defer consolidator.CloseAll(sources)

	result, err := consolidator.New(log).Consolidate(sources)
	if err != nil {
		for _, f := range files {
			h.auditFail(f, err)
		}
		h.writeError(c, err)
		return
	}
	h.auditFinish(files, result.Report)

	if result.NoRows() {
		outcome = metrics.UploadNoRows
		body := errorBody(CodeNoRows, msgNoRows)
		body["report"] = result.Report
		c.JSON(http.StatusUnprocessableEntity, body)
		return
	}

	// 以“全部”筛选计算一次，提前暴露非数值数据
	dashboard, err := aggregator.Build(result.Table, model.AllSelection())
	if err != nil {
		for _, f := range files {
			h.auditFail(f, err)
		}
		h.writeError(c, err)
		return
	}

	sess := h.sessions.Create(uploadID, result)
	outcome, rows = metrics.UploadSuccess, len(result.Table)
	advisors, months := aggregator.Options(result.Table)
	log.WithFields(logrus.Fields{
		"session": sess.ID,
		"rows":    len(result.Table),
	}).Info("upload consolidated")

	c.JSON(http.StatusCreated, UploadResponse{
		SessionID: sess.ID,
		UploadID:  uploadID,
		ExpiresAt: sess.ExpiresAt,
		Report:    result.Report,
		Options:   OptionsResponse{Advisors: advisors, Months: months},
		Dashboard: dashboard,
	})
}

func readUploaded(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (h *Handler) auditStart(uploadID string, files []*uploadedFile) {
	if h.store == nil {
		return
	}
	for _, f := range files {
		sum := sha256.Sum256(f.data)
		id, err := h.store.CreateImportLog(uploadID, f.name, int64(len(f.data)), hex.EncodeToString(sum[:]))
		if err != nil {
			h.log.WithError(err).WithField("file", f.name).Warn("create import log failed")
			continue
		}
		f.logID = id
	}
}

func (h *Handler) auditFail(f *uploadedFile, cause error) {
	if h.store == nil || f.logID == 0 {
		return
	}
	code, _ := consolidator.AdvisorCode(f.name)
	if err := h.store.UpdateImportLog(f.logID, store.ImportLogUpdate{
		AdvisorCode:  code,
		Status:       model.ImportStatusFailed,
		ErrorMessage: cause.Error(),
	}); err != nil {
		h.log.WithError(err).WithField("file", f.name).Warn("update import log failed")
	}
}

// auditFinish 按文件顺序写回合并报告
func (h *Handler) auditFinish(files []*uploadedFile, report *consolidator.Report) {
	if h.store == nil || report == nil {
		return
	}
	for i, f := range files {
		if f.logID == 0 || i >= len(report.Files) {
			continue
		}
		fr := report.Files[i]
		u := store.ImportLogUpdate{
			AdvisorCode:  fr.AdvisorCode,
			TotalSheets:  len(fr.Sheets),
			ImportedRows: fr.RowsKept,
			Status:       model.ImportStatusSuccess,
		}
		for _, s := range fr.Sheets {
			switch s.Status {
			case consolidator.SheetStatusImported:
				u.ImportedSheets++
			case consolidator.SheetStatusEmpty:
				u.EmptySheets++
			}
			u.BlankRows += s.BlankRows

			if err := h.store.InsertSheetMeta(model.SheetMeta{
				ImportLogID:  f.logID,
				SourceFile:   fr.Filename,
				SheetName:    s.SheetName,
				RowsRead:     s.RowsRead,
				ImportedRows: s.RowsKept,
				BlankRows:    s.BlankRows,
				Status:       s.Status,
				ErrorMessage: s.Error,
			}); err != nil {
				h.log.WithError(err).WithField("file", f.name).Warn("insert sheet meta failed")
			}
		}
		if fr.RowsKept == 0 {
			u.Status = model.ImportStatusEmpty
		}
		if err := h.store.UpdateImportLog(f.logID, u); err != nil {
			h.log.WithError(err).WithField("file", f.name).Warn("update import log failed")
		}
	}
}

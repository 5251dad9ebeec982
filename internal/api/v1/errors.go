package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Joaotp75/dashboard-assessores/internal/aggregator"
	"github.com/Joaotp75/dashboard-assessores/internal/consolidator"
)

// 错误码
const (
	CodeInvalidForm     = "invalid_form"
	CodeNoFiles         = "no_files"
	CodeNoRows          = "no_rows"
	CodeTooManyFiles    = "too_many_files"
	CodeFileTooLarge    = "file_too_large"
	CodeInvalidFilename = "invalid_filename"
	CodeInvalidWorkbook = "invalid_workbook"
	CodeInvalidData     = "invalid_data"
	CodeSessionNotFound = "session_not_found"
	CodeRateLimited     = "rate_limited"
	CodeNotFound        = "not_found"
	CodeInternal        = "internal_error"
)

// 面向用户的提示（沿用原仪表盘的葡语文案）
const (
	msgNoFiles     = "Nenhum arquivo enviado."
	msgNoRows      = "Nenhuma linha encontrada nos arquivos enviados."
	msgNoSession   = "Sessão não encontrada ou expirada. Envie os arquivos novamente."
	msgInternalErr = "Erro interno."
)

// errorBody 统一错误响应
func errorBody(code, message string) gin.H {
	return gin.H{"error": message, "code": code}
}

// classify 把领域错误映射为 HTTP 状态码与错误码
func classify(err error) (int, gin.H) {
	var dataErr *aggregator.InvalidDataError
	switch {
	case errors.As(err, &dataErr):
		body := errorBody(CodeInvalidData, err.Error())
		body["cell"] = gin.H{
			"file":   dataErr.File,
			"sheet":  dataErr.Sheet,
			"row":    dataErr.Row,
			"column": dataErr.Column,
			"value":  dataErr.Value,
		}
		return http.StatusUnprocessableEntity, body
	case errors.Is(err, aggregator.ErrInvalidData):
		return http.StatusUnprocessableEntity, errorBody(CodeInvalidData, err.Error())
	case errors.Is(err, consolidator.ErrInvalidFilename):
		return http.StatusBadRequest, errorBody(CodeInvalidFilename, err.Error())
	case errors.Is(err, consolidator.ErrInvalidWorkbook):
		return http.StatusBadRequest, errorBody(CodeInvalidWorkbook, err.Error())
	default:
		return http.StatusInternalServerError, errorBody(CodeInternal, msgInternalErr)
	}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		h.log.WithError(err).Error("request failed")
	}
	_ = c.Error(err)
	c.JSON(status, body)
}

package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Joaotp75/dashboard-assessores/internal/aggregator"
	"github.com/Joaotp75/dashboard-assessores/internal/model"
	"github.com/Joaotp75/dashboard-assessores/internal/session"
)

// OptionsResponse 下拉选项
type OptionsResponse struct {
	Advisors []string `json:"advisors"`
	Months   []string `json:"months"`
}

// lookupSession 取会话，不存在时直接写 404
func (h *Handler) lookupSession(c *gin.Context) (*session.Session, bool) {
	sess, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, errorBody(CodeSessionNotFound, msgNoSession))
		return nil, false
	}
	return sess, true
}

func selectionFromQuery(c *gin.Context) model.FilterSelection {
	return model.FilterSelection{
		AdvisorCode: c.Query("advisor"),
		Month:       c.Query("month"),
	}.Normalize()
}

// GetOptions 顾问与月份选项
// GET /api/sessions/:id/options
func (h *Handler) GetOptions(c *gin.Context) {
	sess, ok := h.lookupSession(c)
	if !ok {
		return
	}
	advisors, months := aggregator.Options(sess.Table)
	c.JSON(http.StatusOK, OptionsResponse{Advisors: advisors, Months: months})
}

// GetDashboard 按筛选重新计算视图
// GET /api/sessions/:id/dashboard?advisor=&month=
func (h *Handler) GetDashboard(c *gin.Context) {
	sess, ok := h.lookupSession(c)
	if !ok {
		return
	}
	d, err := aggregator.Build(sess.Table, selectionFromQuery(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// DeleteSession 丢弃会话数据
// DELETE /api/sessions/:id
func (h *Handler) DeleteSession(c *gin.Context) {
	if !h.sessions.Delete(c.Param("id")) {
		c.JSON(http.StatusNotFound, errorBody(CodeSessionNotFound, msgNoSession))
		return
	}
	c.Status(http.StatusNoContent)
}

package v1

import (
	"net/http"

	"wanderlog/api/v1/request"
	"wanderlog/middleware"
	"wanderlog/model"
	"wanderlog/service"

	"github.com/gin-gonic/gin"
)

// ReviewAPI 审核队列与审核决定的 HTTP Handler。角色检查在 service 层完成。
type ReviewAPI struct {
	moderation *service.ModerationService
	queries    *service.QueryService
}

// NewReviewAPI wires the moderation and query services into the HTTP handlers.
func NewReviewAPI(moderation *service.ModerationService, queries *service.QueryService) *ReviewAPI {
	return &ReviewAPI{moderation: moderation, queries: queries}
}

// Queue 审核队列：按状态过滤、标题/昵称搜索、分页。
func (r *ReviewAPI) Queue(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	var q request.ReviewListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var status *model.NoteStatus
	if q.Status != "" {
		st := model.NoteStatus(q.Status)
		status = &st
	}
	page, err := r.queries.ListForReview(p, status, q.Search, q.Page, q.PageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// SetStatus 审核决定：approved / rejected（需理由）/ pending。
func (r *ReviewAPI) SetStatus(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	id, ok := noteID(c)
	if !ok {
		return
	}
	var req request.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	note, err := r.moderation.SetStatus(p, id, model.NoteStatus(req.Status), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// Delete 管理员软删除任意笔记（审核员无此权限）。
func (r *ReviewAPI) Delete(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	id, ok := noteID(c)
	if !ok {
		return
	}
	if err := r.moderation.SoftDelete(p, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "note deleted"})
}

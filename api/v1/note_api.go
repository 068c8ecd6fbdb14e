package v1

import (
	"net/http"
	"strconv"

	"wanderlog/api/v1/request"
	"wanderlog/internal/auth"
	"wanderlog/middleware"
	"wanderlog/model"
	"wanderlog/service"

	"github.com/gin-gonic/gin"
)

// NoteAPI 笔记生命周期相关的 HTTP Handler。
type NoteAPI struct {
	notes   *service.NoteService
	queries *service.QueryService
}

// NewNoteAPI wires the note and query services into the HTTP handlers.
func NewNoteAPI(notes *service.NoteService, queries *service.QueryService) *NoteAPI {
	return &NoteAPI{notes: notes, queries: queries}
}

func toAttachments(entries []request.MediaEntry) []service.MediaAttachment {
	media := make([]service.MediaAttachment, 0, len(entries))
	for _, e := range entries {
		media = append(media, service.MediaAttachment{
			Kind:      model.MediaKind(e.Kind),
			URL:       e.URL,
			SortOrder: e.SortOrder,
		})
	}
	return media
}

func noteID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid note id"})
		return 0, false
	}
	return id, true
}

// Create 新建笔记，初始状态一律 pending。
func (n *NoteAPI) Create(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	var req request.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	note, err := n.notes.Create(p, req.Title, req.Content, req.Location, toAttachments(req.Media))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// Get 单篇详情。匿名/普通用户只能看到已通过的笔记；作者与管理员不受限。
func (n *NoteAPI) Get(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}
	var principal *auth.Principal
	if p, ok := middleware.PrincipalFrom(c); ok {
		principal = &p
	}
	note, err := n.notes.Get(principal, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// Update 编辑自己的笔记；附件整体替换，状态重置为 pending。
func (n *NoteAPI) Update(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	id, ok := noteID(c)
	if !ok {
		return
	}
	var req request.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	note, err := n.notes.Update(p, id, req.Title, req.Content, req.Location, toAttachments(req.Media))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// Delete 软删除自己的笔记，幂等。
func (n *NoteAPI) Delete(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	id, ok := noteID(c)
	if !ok {
		return
	}
	if err := n.notes.SoftDelete(p, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "note deleted"})
}

// ListMine 当前用户的笔记列表（含未过审与被拒的）。
func (n *NoteAPI) ListMine(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	notes, err := n.notes.ListMine(p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": notes})
}

// ListPublished 公开浏览已过审笔记。
func (n *NoteAPI) ListPublished(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	notes, err := n.queries.ListPublished(limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": notes})
}

// PopularDestinations 热门目的地聚合（Top 6）。
func (n *NoteAPI) PopularDestinations(c *gin.Context) {
	dests, err := n.queries.PopularDestinations(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": dests})
}

package v1

import (
	"net/http"

	"wanderlog/internal/media"
	"wanderlog/internal/metrics"
	"wanderlog/middleware"
	"wanderlog/model"

	"github.com/gin-gonic/gin"
)

const maxUploadBytes = 32 << 20 // 32 MiB

// MediaAPI 附件上传 Handler：落盘后返回 URL，由客户端挂到笔记上。
type MediaAPI struct {
	store *media.LocalStore
}

// NewMediaAPI wires the local media store into the HTTP handlers.
func NewMediaAPI(store *media.LocalStore) *MediaAPI {
	return &MediaAPI{store: store}
}

// Upload 接收 multipart 表单：file 为文件本体，kind 声明 image/video。
// 服务端不校验文件内容与声明是否一致。
func (m *MediaAPI) Upload(c *gin.Context) {
	if _, ok := middleware.PrincipalFrom(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	kind := model.MediaKind(c.PostForm("kind"))
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be image or video"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "open upload failed"})
		return
	}
	defer f.Close()

	stored, err := m.store.Save(f, fileHeader.Filename, kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store upload failed"})
		return
	}
	metrics.IncMediaUpload(string(kind))
	c.JSON(http.StatusOK, stored)
}

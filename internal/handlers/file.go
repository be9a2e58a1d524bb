package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/seoportal-backend/internal/services"
)

type FileHandler struct {
	fileService services.FileService
}

func NewFileHandler(fileService services.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

func (fh *FileHandler) Upload(c *gin.Context) {
	ownerID, err := uuid.Parse(c.PostForm("owner_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid owner id"})
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}
	src, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}
	defer src.Close()

	file, err := fh.fileService.UploadFile(c.Request.Context(), services.UploadInput{
		OwnerKind:    c.PostForm("owner_kind"),
		OwnerID:      ownerID,
		OriginalName: header.Filename,
		Description:  c.PostForm("description"),
		Size:         header.Size,
		Body:         src,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, gin.H{"file": file})
}

func (fh *FileHandler) Download(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}
	download, err := fh.fileService.ServeAttachment(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	defer download.Reader.Close()
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.File.OriginalName))
	c.DataFromReader(http.StatusOK, download.File.SizeBytes, download.File.ContentType, download.Reader, nil)
}

func (fh *FileHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}
	if err := fh.fileService.DeleteFile(c.Request.Context(), id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}

func (fh *FileHandler) AccessLog(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}
	accesses, err := fh.fileService.ListAccessLog(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"accesses": accesses})
}

package handler

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	backupapp "github.com/pms/backend/internal/application/backup"
)

// BackupHandler handles backup export and restore endpoints
type BackupHandler struct {
	BaseHandler
	backupService *backupapp.BackupService
}

// NewBackupHandler creates a new BackupHandler
func NewBackupHandler(backupService *backupapp.BackupService) *BackupHandler {
	return &BackupHandler{backupService: backupService}
}

// Export produces a backup. With download=true the bytes stream back
// directly, otherwise the file is only written to the backup directory.
func (h *BackupHandler) Export(c *gin.Context) {
	var req backupapp.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		h.BindingError(c, err)
		return
	}

	resp, data, err := h.backupService.Export(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if c.Query("download") == "true" {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", resp.FileName))
		c.Data(http.StatusOK, contentTypeFor(resp.FileName), data)
		return
	}
	h.Success(c, resp)
}

// Restore accepts a backup upload and replaces current data with it
func (h *BackupHandler) Restore(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing backup file upload")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Unable to read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.InternalError(c, "Unable to read uploaded file")
		return
	}

	resp, err := h.backupService.Restore(c.Request.Context(), data)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns the stored backup files, newest first
func (h *BackupHandler) List(c *gin.Context) {
	archives, err := h.backupService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, archives)
}

// Download streams a previously exported backup file
func (h *BackupHandler) Download(c *gin.Context) {
	name := c.Param("name")
	if name == "" || strings.Contains(name, "/") || strings.Contains(name, "..") {
		h.BadRequest(c, "Invalid backup name")
		return
	}

	reader, err := h.backupService.Open(name)
	if err != nil {
		h.NotFound(c, "Backup not found")
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Header("Content-Type", contentTypeFor(name))
	c.Status(http.StatusOK)
	io.Copy(c.Writer, reader)
}

func contentTypeFor(name string) string {
	if strings.HasSuffix(name, ".json") {
		return "application/json"
	}
	return "application/gzip"
}

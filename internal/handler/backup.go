package handler

import (
	"fmt"
	"net/http"

	"github.com/grupoevolution/tiktokconteudos/internal/model"
	"github.com/grupoevolution/tiktokconteudos/internal/service"

	"github.com/gin-gonic/gin"
)

type BackupHandler struct{ backup *service.BackupService }

func NewBackupHandler(backup *service.BackupService) *BackupHandler {
	return &BackupHandler{backup: backup}
}

func (h *BackupHandler) Export(c *gin.Context) {
	b, err := h.backup.Export(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=backup-%d.json", b.ExportedAt.Unix()))
	c.JSON(http.StatusOK, b)
}

func (h *BackupHandler) Import(c *gin.Context) {
	var b model.Backup
	if !bindJSON(c, &b) {
		return
	}
	if err := h.backup.Import(c.Request.Context(), b); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats": gin.H{
			"products":     len(b.Data.Items),
			"team_members": len(b.Data.Members),
		},
	})
}

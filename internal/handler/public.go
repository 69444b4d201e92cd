package handler

import (
	"net/http"
	"strconv"

	"github.com/grupoevolution/tiktokconteudos/internal/service"

	"github.com/gin-gonic/gin"
)

// PublicHandler serves the unauthenticated member pages.
type PublicHandler struct{ employee *service.EmployeeService }

func NewPublicHandler(employee *service.EmployeeService) *PublicHandler {
	return &PublicHandler{employee: employee}
}

func (h *PublicHandler) Today(c *gin.Context) {
	day, err := h.employee.Today(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"member":   day.Member,
		"date":     day.Date,
		"products": day.Products,
		"stats":    day.Stats,
	})
}

func (h *PublicHandler) Download(c *gin.Context) {
	itemID, ok := paramID(c, "itemId")
	if !ok {
		return
	}
	if err := h.employee.MarkDownloaded(c.Request.Context(), c.Param("name"), itemID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *PublicHandler) Complete(c *gin.Context) {
	itemID, ok := paramID(c, "itemId")
	if !ok {
		return
	}
	if err := h.employee.MarkCompleted(c.Request.Context(), c.Param("name"), itemID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *PublicHandler) History(c *gin.Context) {
	days, _ := strconv.Atoi(c.Query("days"))
	hist, err := h.employee.History(c.Request.Context(), c.Param("name"), days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "history": hist})
}

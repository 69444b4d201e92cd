package handler

import (
	"net/http"

	"github.com/grupoevolution/tiktokconteudos/internal/model"
	"github.com/grupoevolution/tiktokconteudos/internal/service"

	"github.com/gin-gonic/gin"
)

type TeamHandler struct{ team *service.TeamService }

func NewTeamHandler(team *service.TeamService) *TeamHandler { return &TeamHandler{team: team} }

func (h *TeamHandler) List(c *gin.Context) {
	members, err := h.team.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if members == nil {
		members = []model.TeamMember{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "members": members})
}

func (h *TeamHandler) Create(c *gin.Context) {
	var req model.MemberCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.team.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "member": m})
}

func (h *TeamHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.MemberUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.team.Update(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *TeamHandler) SetAllQuotas(c *gin.Context) {
	var req model.QuotaRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.team.SetAllQuotas(c.Request.Context(), req.ProductsPerDay); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *TeamHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.team.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *TeamHandler) Stats(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	st, err := h.team.Stats(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": st})
}

package handler

import (
	"fmt"
	"net/http"

	"github.com/grupoevolution/tiktokconteudos/internal/model"
	"github.com/grupoevolution/tiktokconteudos/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type DistributionHandler struct {
	plans     *service.PlanService
	publisher *service.Publisher
	export    *service.ExportService
}

func NewDistributionHandler(plans *service.PlanService, publisher *service.Publisher, export *service.ExportService) *DistributionHandler {
	return &DistributionHandler{plans: plans, publisher: publisher, export: export}
}

func (h *DistributionHandler) Generate(c *gin.Context) {
	var req model.GenerateRequest
	if !bindJSON(c, &req) {
		return
	}
	id, doc, err := h.plans.GeneratePlan(c.Request.Context(), req.WeekStart, req.Mode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "distribution_id": id, "distribution": doc})
}

func (h *DistributionHandler) Publish(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.publisher.Publish(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *DistributionHandler) List(c *gin.Context) {
	plans, err := h.plans.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if plans == nil {
		plans = []model.WeekPlan{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "distributions": plans})
}

func (h *DistributionHandler) Active(c *gin.Context) {
	p, err := h.plans.Active(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "distribution": p})
}

func (h *DistributionHandler) Export(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	data, name, err := h.export.Workbook(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", name))
	c.Data(http.StatusOK, xlsxContentType, data)
}

package handler

import (
	"net/http"

	"github.com/grupoevolution/tiktokconteudos/internal/model"
	"github.com/grupoevolution/tiktokconteudos/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct{ catalog *service.CatalogService }

func NewProductHandler(catalog *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

func (h *ProductHandler) List(c *gin.Context) {
	items, err := h.catalog.List(c.Request.Context(), model.ItemFilter{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Search:   c.Query("search"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if items == nil {
		items = []model.CatalogItem{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "products": items})
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req model.ItemCreateRequest
	if !bindJSON(c, &req) {
		return
	}
	it, err := h.catalog.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "product": it})
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.ItemUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.catalog.Update(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ProductHandler) Validate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.Validate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ProductHandler) Stats(c *gin.Context) {
	st, err := h.catalog.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": st})
}

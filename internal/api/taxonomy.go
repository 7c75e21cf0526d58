package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-carousel/backend/internal/service"
)

type TaxonomyHandler struct {
	taxonomyService service.ITaxonomyService
}

func NewTaxonomyHandler(taxonomyService service.ITaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{taxonomyService: taxonomyService}
}

func (h *TaxonomyHandler) RegisterRoutes(v1 *gin.RouterGroup) {
	v1.GET("/categories", h.Categories)
	v1.GET("/terms/:taxonomy", h.Terms)
}

// Categories lists categories that have published recipes.
func (h *TaxonomyHandler) Categories(c *gin.Context) {
	terms, err := h.taxonomyService.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, terms)
}

// Terms lists one taxonomy. ?hideEmpty=true drops unused terms.
func (h *TaxonomyHandler) Terms(c *gin.Context) {
	terms, err := h.taxonomyService.Terms(c.Request.Context(), c.Param("taxonomy"), c.Query("hideEmpty") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, terms)
}

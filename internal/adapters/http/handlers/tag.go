package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotevault/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotevault/internal/app"
	"github.com/jsamuelsen/quotevault/internal/domain"
)

// TagHandler serves tag suggestions.
type TagHandler struct {
	service *app.QuoteService
}

// NewTagHandler creates a tag handler.
func NewTagHandler(service *app.QuoteService) *TagHandler {
	return &TagHandler{service: service}
}

// SuggestTags handles GET /tags.
// Returns tag names starting with prefix as a plain JSON array, optionally
// limited to tags used by quotes in the given language.
//
// @Summary Suggest tags
// @Tags tags
// @Produce json
// @Param prefix query string false "Name prefix; a leading # is ignored"
// @Param language query string false "en or es"
// @Param limit query int false "1-100, default 20"
// @Success 200 {array} string
// @Router /api/v1/tags [get]
func (h *TagHandler) SuggestTags(c *gin.Context) {
	limit := dto.LenientLimit(c.Query("limit"), domain.DefaultTagLimit, domain.MaxTagLimit)

	names, err := h.service.Tags(c.Request.Context(), c.Query("prefix"), c.Query("language"), limit)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	if names == nil {
		names = []string{}
	}

	c.JSON(http.StatusOK, names)
}

// RegisterTagRoutes registers tag routes on the given router group.
func (h *TagHandler) RegisterTagRoutes(rg *gin.RouterGroup) {
	rg.GET("/tags", h.SuggestTags)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotevault/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotevault/internal/app"
	"github.com/jsamuelsen/quotevault/internal/domain"
	"github.com/jsamuelsen/quotevault/internal/platform/telemetry"
)

// QuoteHandler handles quote-related HTTP endpoints.
type QuoteHandler struct {
	service *app.QuoteService
	metrics *telemetry.DomainMetrics
}

// NewQuoteHandler creates a new quote handler. metrics may be nil.
func NewQuoteHandler(service *app.QuoteService, metrics *telemetry.DomainMetrics) *QuoteHandler {
	return &QuoteHandler{
		service: service,
		metrics: metrics,
	}
}

// ListQuotes handles GET /quotes.
// Returns one page of quotes matching the search text and filters.
//
// @Summary List and search quotes
// @Tags quotes
// @Produce json
// @Param q query string false "Text matched against title, content and author"
// @Param author query string false "Author substring"
// @Param tags query string false "Comma-separated tags, all required"
// @Param language query string false "en or es"
// @Param sort query string false "newest (default) or oldest"
// @Param cursor query string false "nextCursor of the previous page"
// @Param limit query int false "Page size 1-100, default 20"
// @Success 200 {object} dto.PaginatedResponse[dto.QuoteResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/quotes [get]
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	var req dto.ListQuotesRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		_, details := dto.BindFailure(err)
		dto.RespondWithValidationErrors(c, dto.MessageInvalidQuery, details)

		return
	}

	page, err := h.service.List(c.Request.Context(), req.ToInput())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedResponse(dto.NewQuoteResponses(page.Items), page.NextCursor))
}

// SuggestTitles handles GET /quotes/suggest.
// Returns up to ten id/title pairs whose title contains q. A blank q
// yields an empty list.
//
// @Summary Suggest quote titles
// @Tags quotes
// @Produce json
// @Param q query string false "Title substring"
// @Success 200 {object} dto.ItemsResponse[dto.QuoteSummaryResponse]
// @Router /api/v1/quotes/suggest [get]
func (h *QuoteHandler) SuggestTitles(c *gin.Context) {
	summaries, err := h.service.Suggest(c.Request.Context(), c.Query("q"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSummaryItems(summaries))
}

// ShuffleQuotes handles GET /quotes/shuffle.
// Returns up to limit quotes drawn from the most recent ones in random order.
//
// @Summary Shuffle recent quotes
// @Tags quotes
// @Produce json
// @Param limit query int false "1-100, default 50"
// @Success 200 {object} dto.ItemsResponse[dto.QuoteResponse]
// @Router /api/v1/quotes/shuffle [get]
func (h *QuoteHandler) ShuffleQuotes(c *gin.Context) {
	limit := dto.LenientLimit(c.Query("limit"), domain.DefaultShuffleLimit, domain.MaxShuffleLimit)

	quotes, err := h.service.Shuffle(c.Request.Context(), limit)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ItemsResponse[*dto.QuoteResponse]{Items: dto.NewQuoteResponses(quotes)})
}

// GetQuote handles GET /quotes/:id.
//
// @Summary Get a quote by ID
// @Tags quotes
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} dto.QuoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/quotes/{id} [get]
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	quote, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(quote))
}

// CreateQuote handles POST /quotes.
//
// @Summary Create a quote
// @Tags quotes
// @Accept json
// @Produce json
// @Param body body dto.CreateQuoteRequest true "New quote"
// @Success 200 {object} dto.QuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/quotes [post]
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	var req dto.CreateQuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	quote, err := h.service.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	h.metrics.QuoteWritten(telemetry.OpCreate)

	c.JSON(http.StatusOK, dto.NewQuoteResponse(quote))
}

// UpdateQuote handles PATCH /quotes/:id. Admin only.
//
// @Summary Update a quote
// @Tags quotes
// @Accept json
// @Produce json
// @Param id path string true "Quote ID"
// @Param body body dto.UpdateQuoteRequest true "Fields to change"
// @Success 200 {object} dto.QuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/quotes/{id} [patch]
func (h *QuoteHandler) UpdateQuote(c *gin.Context) {
	var req dto.UpdateQuoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	quote, err := h.service.Update(c.Request.Context(), c.Param("id"), req.ToInput())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	h.metrics.QuoteWritten(telemetry.OpUpdate)

	c.JSON(http.StatusOK, dto.NewQuoteResponse(quote))
}

// DeleteQuote handles DELETE /quotes/:id. Admin only.
//
// @Summary Delete a quote
// @Tags quotes
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} dto.DeleteResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/quotes/{id} [delete]
func (h *QuoteHandler) DeleteQuote(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		dto.HandleError(c, err)
		return
	}

	h.metrics.QuoteWritten(telemetry.OpDelete)

	c.JSON(http.StatusOK, dto.DeleteResponse{Success: true})
}

// RegisterQuoteRoutes registers quote routes on the given router group.
// requireAdmin guards the update and delete routes.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup, requireAdmin gin.HandlerFunc) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.ListQuotes)
	quotes.POST("", h.CreateQuote)
	quotes.GET("/suggest", h.SuggestTitles)
	quotes.GET("/shuffle", h.ShuffleQuotes)
	quotes.GET("/:id", h.GetQuote)
	quotes.PATCH("/:id", requireAdmin, h.UpdateQuote)
	quotes.DELETE("/:id", requireAdmin, h.DeleteQuote)
}

// respondBindError writes 400 for a body that failed to bind or validate.
func respondBindError(c *gin.Context, err error) {
	msg, details := dto.BindFailure(err)
	if details == nil {
		dto.RespondWithCode(c, dto.ErrorCodeBadRequest, msg)
		return
	}

	dto.RespondWithValidationErrors(c, msg, details)
}

package analytics

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/healthecon360/analytics-api/internal/handler"
	"github.com/healthecon360/analytics-api/internal/model"
	analyticsService "github.com/healthecon360/analytics-api/internal/service/analytics"
)

type Handler struct {
	service analyticsService.AnalyticsServicer
}

func NewHandler(service analyticsService.AnalyticsServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	reports := r.Group("/reports")
	{
		reports.GET("/summary", h.Summary)
		reports.GET("/price-disparities", h.PriceDisparities)
		reports.GET("/price-trends/:drugId", h.PriceTrends)
		reports.GET("/price-distribution/:drugId", h.PriceDistribution)
		reports.GET("/cost-effectiveness", h.CostEffectiveness)
		reports.GET("/waste", h.Waste)
		reports.GET("/allocation-breakdown", h.Breakdown)
	}
}

func (h *Handler) Summary(c *gin.Context) {
	report, err := h.service.Summary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(report))
}

func (h *Handler) PriceDisparities(c *gin.Context) {
	minCount, _ := strconv.Atoi(c.Query("min_prices"))
	disparities, err := h.service.PriceDisparities(c.Request.Context(), minCount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(disparities))
}

func (h *Handler) PriceTrends(c *gin.Context) {
	drugID, err := uuid.Parse(c.Param("drugId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid drug ID"))
		return
	}
	window, _ := strconv.Atoi(c.Query("window"))

	report, err := h.service.PriceTrends(c.Request.Context(), drugID, window)
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(report))
}

func (h *Handler) PriceDistribution(c *gin.Context) {
	drugID, err := uuid.Parse(c.Param("drugId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid drug ID"))
		return
	}
	bins, _ := strconv.Atoi(c.Query("bins"))

	report, err := h.service.PriceDistribution(c.Request.Context(), drugID, bins)
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(report))
}

func (h *Handler) CostEffectiveness(c *gin.Context) {
	filters, ok := measurementFiltersFromQuery(c)
	if !ok {
		return
	}
	ratios, err := h.service.CostEffectiveness(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(ratios))
}

func (h *Handler) Waste(c *gin.Context) {
	filters, ok := allocationFiltersFromQuery(c)
	if !ok {
		return
	}
	items, err := h.service.Waste(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(items))
}

func (h *Handler) Breakdown(c *gin.Context) {
	filters, ok := allocationFiltersFromQuery(c)
	if !ok {
		return
	}
	breakdown, err := h.service.Breakdown(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(breakdown))
}

func measurementFiltersFromQuery(c *gin.Context) (*model.MeasurementFilters, bool) {
	filters := &model.MeasurementFilters{}
	for query, target := range map[string]**uuid.UUID{
		"outcome_id":      &filters.OutcomeID,
		"treatment_id":    &filters.TreatmentID,
		"organization_id": &filters.OrganizationID,
	} {
		raw := c.Query(query)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid "+query))
			return nil, false
		}
		*target = &id
	}
	return filters, true
}

func allocationFiltersFromQuery(c *gin.Context) (*model.AllocationFilters, bool) {
	filters := &model.AllocationFilters{FiscalYear: c.Query("fiscal_year")}
	if raw := c.Query("organization_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid organization ID"))
			return nil, false
		}
		filters.OrganizationID = &id
	}
	return filters, true
}

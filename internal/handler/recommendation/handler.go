package recommendation

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/healthecon360/analytics-api/internal/handler"
	recService "github.com/healthecon360/analytics-api/internal/service/recommendation"
)

type Handler struct {
	service recService.RecommendationServicer
	engine  *recService.Engine
}

func NewHandler(service recService.RecommendationServicer, engine *recService.Engine) *Handler {
	return &Handler{service: service, engine: engine}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	recs := r.Group("/recommendations")
	{
		recs.GET("", h.List)
		recs.GET("/top", h.TopByImpact)
		recs.GET("/:id", h.Get)
		recs.PUT("/:id", h.Update)
		recs.DELETE("/:id", h.Delete)
		recs.POST("/generate", h.Generate)
	}

	r.GET("/recommendation-types", h.ListTypes)

	insights := r.Group("/insights")
	{
		insights.GET("", h.ListInsights)
		insights.GET("/:id", h.GetInsight)
		insights.DELETE("/:id", h.DeleteInsight)
	}
}

type recommendationRequest struct {
	Title                    string  `json:"title" binding:"required"`
	Description              string  `json:"description"`
	EstimatedImpact          float64 `json:"estimated_impact"`
	ImpactUnit               string  `json:"impact_unit"`
	ConfidenceLevel          string  `json:"confidence_level"`
	ImplementationDifficulty string  `json:"implementation_difficulty"`
	ImplementationTime       string  `json:"implementation_time"`
}

func (h *Handler) List(c *gin.Context) {
	var orgID *uuid.UUID
	if raw := c.Query("organization_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid organization ID"))
			return
		}
		orgID = &id
	}

	recs, err := h.service.List(c.Request.Context(), orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(recs))
}

func (h *Handler) TopByImpact(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	recs, err := h.service.TopByImpact(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(recs))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid recommendation ID"))
		return
	}
	rec, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(rec))
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid recommendation ID"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

// Update lets an analyst adjust a recommendation's wording and impact
// estimates; generated linkage (type, organization) is preserved.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid recommendation ID"))
		return
	}
	var req recommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	rec, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}

	rec.Title = req.Title
	rec.Description = req.Description
	rec.EstimatedImpact = req.EstimatedImpact
	rec.ImpactUnit = req.ImpactUnit
	rec.ConfidenceLevel = req.ConfidenceLevel
	rec.ImplementationDifficulty = req.ImplementationDifficulty
	rec.ImplementationTime = req.ImplementationTime

	if err := h.service.Update(c.Request.Context(), rec); err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(rec))
}

// Generate triggers an on-demand analysis run. The scheduled worker does
// the same on an interval.
func (h *Handler) Generate(c *gin.Context) {
	if err := h.engine.Run(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"generated": true}))
}

func (h *Handler) ListTypes(c *gin.Context) {
	types, err := h.service.ListTypes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(types))
}

func (h *Handler) ListInsights(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	insights, err := h.service.ListInsights(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(insights))
}

func (h *Handler) GetInsight(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid insight ID"))
		return
	}
	insight, err := h.service.GetInsight(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(insight))
}

func (h *Handler) DeleteInsight(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid insight ID"))
		return
	}
	if err := h.service.DeleteInsight(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

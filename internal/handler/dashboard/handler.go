package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/healthecon360/analytics-api/internal/handler"
	"github.com/healthecon360/analytics-api/internal/middleware"
	"github.com/healthecon360/analytics-api/internal/model"
	dashboardService "github.com/healthecon360/analytics-api/internal/service/dashboard"
)

type Handler struct {
	service dashboardService.DashboardServicer
}

func NewHandler(service dashboardService.DashboardServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	dashboards := r.Group("/dashboards")
	{
		dashboards.POST("", h.CreateDashboard)
		dashboards.GET("", h.ListDashboards)
		dashboards.GET("/:id", h.GetDashboard)
		dashboards.PUT("/:id", h.UpdateDashboard)
		dashboards.DELETE("/:id", h.DeleteDashboard)
	}
}

type dashboardRequest struct {
	Title       string        `json:"title" binding:"required"`
	Description string        `json:"description"`
	Layout      model.JSONMap `json:"layout"`
	IsPublic    bool          `json:"is_public"`
}

func (h *Handler) CreateDashboard(c *gin.Context) {
	var req dashboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	dashboard := &model.Dashboard{
		Title:       req.Title,
		Description: req.Description,
		Layout:      req.Layout,
		IsPublic:    req.IsPublic,
		UserID:      userID,
	}
	if err := h.service.Create(c.Request.Context(), dashboard); err != nil {
		c.JSON(handler.StatusForError(err, http.StatusInternalServerError), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(dashboard))
}

func (h *Handler) ListDashboards(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}
	dashboards, err := h.service.ListForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(dashboards))
}

func (h *Handler) GetDashboard(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid dashboard ID"))
		return
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}
	dashboard, err := h.service.Get(c.Request.Context(), id, userID)
	if err != nil {
		c.JSON(handler.StatusForError(err, http.StatusNotFound), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(dashboard))
}

func (h *Handler) UpdateDashboard(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid dashboard ID"))
		return
	}
	var req dashboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	dashboard := &model.Dashboard{
		Base:        model.Base{ID: id},
		Title:       req.Title,
		Description: req.Description,
		Layout:      req.Layout,
		IsPublic:    req.IsPublic,
	}
	if err := h.service.Update(c.Request.Context(), dashboard, userID); err != nil {
		c.JSON(handler.StatusForError(err, http.StatusNotFound), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(dashboard))
}

func (h *Handler) DeleteDashboard(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid dashboard ID"))
		return
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), id, userID); err != nil {
		c.JSON(handler.StatusForError(err, http.StatusNotFound), handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"deleted": true}))
}

package outcome

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/healthecon360/analytics-api/internal/handler"
	"github.com/healthecon360/analytics-api/internal/model"
	outcomeService "github.com/healthecon360/analytics-api/internal/service/outcome"
)

const dateLayout = "2006-01-02"

type Handler struct {
	service outcomeService.OutcomeServicer
}

func NewHandler(service outcomeService.OutcomeServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	categories := r.Group("/outcome-categories")
	{
		categories.POST("", h.CreateOutcomeCategory)
		categories.GET("", h.ListOutcomeCategories)
		categories.DELETE("/:id", h.DeleteOutcomeCategory)
	}

	outcomes := r.Group("/outcomes")
	{
		outcomes.POST("", h.CreateOutcome)
		outcomes.GET("", h.ListOutcomes)
		outcomes.GET("/:id", h.GetOutcome)
		outcomes.PUT("/:id", h.UpdateOutcome)
		outcomes.DELETE("/:id", h.DeleteOutcome)
	}

	treatments := r.Group("/treatments")
	{
		treatments.POST("", h.CreateTreatment)
		treatments.GET("", h.ListTreatments)
		treatments.GET("/:id", h.GetTreatment)
		treatments.PUT("/:id", h.UpdateTreatment)
		treatments.DELETE("/:id", h.DeleteTreatment)
	}

	measurements := r.Group("/measurements")
	{
		measurements.POST("", h.CreateMeasurement)
		measurements.GET("", h.ListMeasurements)
		measurements.GET("/:id", h.GetMeasurement)
		measurements.PUT("/:id", h.UpdateMeasurement)
		measurements.DELETE("/:id", h.DeleteMeasurement)
	}
}

type outcomeCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *Handler) CreateOutcomeCategory(c *gin.Context) {
	var req outcomeCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	category := &model.OutcomeCategory{Name: req.Name, Description: req.Description}
	if err := h.service.CreateOutcomeCategory(c.Request.Context(), category); err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(category))
}

func (h *Handler) ListOutcomeCategories(c *gin.Context) {
	categories, err := h.service.ListOutcomeCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(categories))
}

func (h *Handler) DeleteOutcomeCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid category ID"))
		return
	}
	if err := h.service.DeleteOutcomeCategory(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

type outcomeRequest struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	CategoryID      string `json:"category_id"`
	MeasurementUnit string `json:"measurement_unit"`
	HigherIsBetter  *bool  `json:"higher_is_better"`
}

func (h *Handler) outcomeFromRequest(c *gin.Context) (*model.Outcome, bool) {
	var req outcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return nil, false
	}

	outcome := &model.Outcome{
		Name:            req.Name,
		Description:     req.Description,
		MeasurementUnit: req.MeasurementUnit,
		HigherIsBetter:  true,
	}
	if req.HigherIsBetter != nil {
		outcome.HigherIsBetter = *req.HigherIsBetter
	}
	if req.CategoryID != "" {
		categoryID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid category ID"))
			return nil, false
		}
		outcome.CategoryID = &categoryID
	}
	return outcome, true
}

func (h *Handler) CreateOutcome(c *gin.Context) {
	outcome, ok := h.outcomeFromRequest(c)
	if !ok {
		return
	}
	if err := h.service.CreateOutcome(c.Request.Context(), outcome); err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(outcome))
}

func (h *Handler) GetOutcome(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid outcome ID"))
		return
	}
	outcome, err := h.service.GetOutcome(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(outcome))
}

func (h *Handler) UpdateOutcome(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid outcome ID"))
		return
	}
	outcome, ok := h.outcomeFromRequest(c)
	if !ok {
		return
	}
	outcome.ID = id
	if err := h.service.UpdateOutcome(c.Request.Context(), outcome); err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(outcome))
}

func (h *Handler) DeleteOutcome(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid outcome ID"))
		return
	}
	if err := h.service.DeleteOutcome(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListOutcomes(c *gin.Context) {
	outcomes, err := h.service.ListOutcomes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(outcomes))
}

type treatmentRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	DrugID      string  `json:"drug_id"`
	AverageCost float64 `json:"average_cost" binding:"gte=0"`
}

func (h *Handler) treatmentFromRequest(c *gin.Context) (*model.Treatment, bool) {
	var req treatmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return nil, false
	}

	treatment := &model.Treatment{
		Name:        req.Name,
		Description: req.Description,
		AverageCost: req.AverageCost,
	}
	if req.DrugID != "" {
		drugID, err := uuid.Parse(req.DrugID)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid drug ID"))
			return nil, false
		}
		treatment.DrugID = &drugID
	}
	return treatment, true
}

func (h *Handler) CreateTreatment(c *gin.Context) {
	treatment, ok := h.treatmentFromRequest(c)
	if !ok {
		return
	}
	if err := h.service.CreateTreatment(c.Request.Context(), treatment); err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(treatment))
}

func (h *Handler) GetTreatment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid treatment ID"))
		return
	}
	treatment, err := h.service.GetTreatment(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(treatment))
}

func (h *Handler) UpdateTreatment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid treatment ID"))
		return
	}
	treatment, ok := h.treatmentFromRequest(c)
	if !ok {
		return
	}
	treatment.ID = id
	if err := h.service.UpdateTreatment(c.Request.Context(), treatment); err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(treatment))
}

func (h *Handler) DeleteTreatment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid treatment ID"))
		return
	}
	if err := h.service.DeleteTreatment(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListTreatments(c *gin.Context) {
	treatments, err := h.service.ListTreatments(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(treatments))
}

type measurementRequest struct {
	OutcomeID          string  `json:"outcome_id" binding:"required"`
	TreatmentID        string  `json:"treatment_id"`
	OrganizationID     string  `json:"organization_id"`
	Value              float64 `json:"value"`
	ConfidenceInterval string  `json:"confidence_interval"`
	SampleSize         *int    `json:"sample_size"`
	MeasurementDate    string  `json:"measurement_date"`
	Source             string  `json:"source"`
}

func (h *Handler) measurementFromRequest(c *gin.Context) (*model.OutcomeMeasurement, bool) {
	var req measurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return nil, false
	}

	outcomeID, err := uuid.Parse(req.OutcomeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid outcome ID"))
		return nil, false
	}

	measurement := &model.OutcomeMeasurement{
		OutcomeID:          outcomeID,
		Value:              req.Value,
		ConfidenceInterval: req.ConfidenceInterval,
		SampleSize:         req.SampleSize,
		Source:             req.Source,
	}

	if req.TreatmentID != "" {
		treatmentID, err := uuid.Parse(req.TreatmentID)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid treatment ID"))
			return nil, false
		}
		measurement.TreatmentID = &treatmentID
	}
	if req.OrganizationID != "" {
		orgID, err := uuid.Parse(req.OrganizationID)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid organization ID"))
			return nil, false
		}
		measurement.OrganizationID = &orgID
	}
	if req.MeasurementDate != "" {
		date, err := time.Parse(dateLayout, req.MeasurementDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid measurement date, expected YYYY-MM-DD"))
			return nil, false
		}
		measurement.MeasurementDate = &date
	}
	return measurement, true
}

func (h *Handler) CreateMeasurement(c *gin.Context) {
	measurement, ok := h.measurementFromRequest(c)
	if !ok {
		return
	}
	if err := h.service.CreateMeasurement(c.Request.Context(), measurement); err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(measurement))
}

func (h *Handler) GetMeasurement(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid measurement ID"))
		return
	}
	measurement, err := h.service.GetMeasurement(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(measurement))
}

func (h *Handler) UpdateMeasurement(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid measurement ID"))
		return
	}
	measurement, ok := h.measurementFromRequest(c)
	if !ok {
		return
	}
	measurement.ID = id
	if err := h.service.UpdateMeasurement(c.Request.Context(), measurement); err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(measurement))
}

func (h *Handler) DeleteMeasurement(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid measurement ID"))
		return
	}
	if err := h.service.DeleteMeasurement(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListMeasurements(c *gin.Context) {
	filters, ok := measurementFiltersFromQuery(c)
	if !ok {
		return
	}
	measurements, err := h.service.ListMeasurements(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(measurements))
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

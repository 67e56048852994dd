package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/healthecon360/analytics-api/internal/handler"
	"github.com/healthecon360/analytics-api/internal/model"
	datasetService "github.com/healthecon360/analytics-api/internal/service/dataset"
	"github.com/healthecon360/analytics-api/pkg/metrics"
)

const dateLayout = "2006-01-02"

type Handler struct {
	service datasetService.DatasetServicer
	metrics *metrics.Metrics
}

func NewHandler(service datasetService.DatasetServicer, m *metrics.Metrics) *Handler {
	return &Handler{service: service, metrics: m}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	export := r.Group("/export")
	{
		export.GET("/pricing", h.ExportPricing)
		export.GET("/outcomes", h.ExportOutcomes)
		export.GET("/allocations", h.ExportAllocations)
	}
	imports := r.Group("/import")
	{
		imports.POST("/pricing", h.ImportPricing)
		imports.POST("/outcomes", h.ImportOutcomes)
	}
}

func (h *Handler) ExportPricing(c *gin.Context) {
	filters := &model.PriceFilters{}
	for query, target := range map[string]**uuid.UUID{
		"drug_id":   &filters.DrugID,
		"region_id": &filters.RegionID,
	} {
		raw := c.Query(query)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid "+query))
			return
		}
		*target = &id
	}
	for query, target := range map[string]**time.Time{
		"start_date": &filters.StartDate,
		"end_date":   &filters.EndDate,
	} {
		raw := c.Query(query)
		if raw == "" {
			continue
		}
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid "+query))
			return
		}
		*target = &t
	}

	h.writeCSV(c, "pricing", func() error {
		return h.service.ExportPricing(c.Request.Context(), c.Writer, filters)
	})
}

func (h *Handler) ExportOutcomes(c *gin.Context) {
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
			return
		}
		*target = &id
	}

	h.writeCSV(c, "outcomes", func() error {
		return h.service.ExportOutcomes(c.Request.Context(), c.Writer, filters)
	})
}

func (h *Handler) ExportAllocations(c *gin.Context) {
	filters := &model.AllocationFilters{FiscalYear: c.Query("fiscal_year")}
	if raw := c.Query("organization_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid organization_id"))
			return
		}
		filters.OrganizationID = &id
	}

	h.writeCSV(c, "allocations", func() error {
		return h.service.ExportAllocations(c.Request.Context(), c.Writer, filters)
	})
}

func (h *Handler) writeCSV(c *gin.Context, dataset string, export func() error) {
	filename := fmt.Sprintf("%s-%s.csv", dataset, time.Now().Format(dateLayout))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	if err := export(); err != nil {
		// headers are already out, abort the stream
		_ = c.Error(err)
		c.Abort()
		return
	}
	if h.metrics != nil {
		h.metrics.ExportsServed.WithLabelValues(dataset).Inc()
	}
}

func (h *Handler) ImportPricing(c *gin.Context) {
	h.importCSV(c, h.service.ImportPricing)
}

func (h *Handler) ImportOutcomes(c *gin.Context) {
	h.importCSV(c, h.service.ImportOutcomes)
}

func (h *Handler) importCSV(c *gin.Context, ingest func(context.Context, io.Reader) (*model.ImportResult, error)) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("file is required"))
		return
	}
	defer file.Close()

	result, err := ingest(c.Request.Context(), file)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

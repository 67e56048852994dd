package pricing

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/healthecon360/analytics-api/internal/handler"
	"github.com/healthecon360/analytics-api/internal/model"
	pricingService "github.com/healthecon360/analytics-api/internal/service/pricing"
)

const dateLayout = "2006-01-02"

type Handler struct {
	service pricingService.PricingServicer
}

func NewHandler(service pricingService.PricingServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	categories := r.Group("/drug-categories")
	{
		categories.POST("", h.CreateCategory)
		categories.GET("", h.ListCategories)
		categories.DELETE("/:id", h.DeleteCategory)
	}

	drugs := r.Group("/drugs")
	{
		drugs.POST("", h.CreateDrug)
		drugs.GET("", h.ListDrugs)
		drugs.GET("/:id", h.GetDrug)
		drugs.PUT("/:id", h.UpdateDrug)
		drugs.DELETE("/:id", h.DeleteDrug)
	}

	regions := r.Group("/regions")
	{
		regions.POST("", h.CreateRegion)
		regions.GET("", h.ListRegions)
		regions.GET("/:id", h.GetRegion)
		regions.PUT("/:id", h.UpdateRegion)
		regions.DELETE("/:id", h.DeleteRegion)
	}

	prices := r.Group("/prices")
	{
		prices.POST("", h.CreatePrice)
		prices.GET("", h.ListPrices)
		prices.GET("/:id", h.GetPrice)
		prices.PUT("/:id", h.UpdatePrice)
		prices.DELETE("/:id", h.DeletePrice)
	}

	r.GET("/price-analyses", h.ListAnalyses)
	r.GET("/price-analyses/:id", h.GetAnalysis)
}

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	category := &model.DrugCategory{Name: req.Name, Description: req.Description}
	if err := h.service.CreateCategory(c.Request.Context(), category); err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(category))
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(categories))
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid category ID"))
		return
	}
	if err := h.service.DeleteCategory(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

type drugRequest struct {
	Name         string `json:"name" binding:"required"`
	GenericName  string `json:"generic_name"`
	Description  string `json:"description"`
	Manufacturer string `json:"manufacturer"`
	CategoryID   string `json:"category_id"`
}

func (h *Handler) drugFromRequest(c *gin.Context) (*model.Drug, bool) {
	var req drugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return nil, false
	}

	drug := &model.Drug{
		Name:         req.Name,
		GenericName:  req.GenericName,
		Description:  req.Description,
		Manufacturer: req.Manufacturer,
	}
	if req.CategoryID != "" {
		categoryID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid category ID"))
			return nil, false
		}
		drug.CategoryID = &categoryID
	}
	return drug, true
}

func (h *Handler) CreateDrug(c *gin.Context) {
	drug, ok := h.drugFromRequest(c)
	if !ok {
		return
	}
	if err := h.service.CreateDrug(c.Request.Context(), drug); err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(drug))
}

func (h *Handler) GetDrug(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid drug ID"))
		return
	}
	drug, err := h.service.GetDrug(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(drug))
}

func (h *Handler) UpdateDrug(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid drug ID"))
		return
	}
	drug, ok := h.drugFromRequest(c)
	if !ok {
		return
	}
	drug.ID = id
	if err := h.service.UpdateDrug(c.Request.Context(), drug); err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(drug))
}

func (h *Handler) DeleteDrug(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid drug ID"))
		return
	}
	if err := h.service.DeleteDrug(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListDrugs(c *gin.Context) {
	drugs, err := h.service.ListDrugs(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(drugs))
}

type regionRequest struct {
	Name    string `json:"name" binding:"required"`
	Country string `json:"country"`
	Code    string `json:"code"`
}

func (h *Handler) CreateRegion(c *gin.Context) {
	var req regionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	region := &model.Region{Name: req.Name, Country: req.Country, Code: req.Code}
	if err := h.service.CreateRegion(c.Request.Context(), region); err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(region))
}

func (h *Handler) GetRegion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid region ID"))
		return
	}
	region, err := h.service.GetRegion(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(region))
}

func (h *Handler) UpdateRegion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid region ID"))
		return
	}
	var req regionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	region := &model.Region{Name: req.Name, Country: req.Country, Code: req.Code}
	region.ID = id
	if err := h.service.UpdateRegion(c.Request.Context(), region); err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(region))
}

func (h *Handler) DeleteRegion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid region ID"))
		return
	}
	if err := h.service.DeleteRegion(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListRegions(c *gin.Context) {
	regions, err := h.service.ListRegions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(regions))
}

type priceRequest struct {
	DrugID    string  `json:"drug_id" binding:"required"`
	RegionID  string  `json:"region_id" binding:"required"`
	Price     float64 `json:"price" binding:"required,gte=0"`
	Currency  string  `json:"currency"`
	PriceDate string  `json:"price_date"`
	PriceType string  `json:"price_type"`
	Source    string  `json:"source"`
}

func (h *Handler) priceFromRequest(c *gin.Context) (*model.DrugPrice, bool) {
	var req priceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return nil, false
	}

	drugID, err := uuid.Parse(req.DrugID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid drug ID"))
		return nil, false
	}
	regionID, err := uuid.Parse(req.RegionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid region ID"))
		return nil, false
	}

	priceDate := time.Now()
	if req.PriceDate != "" {
		priceDate, err = time.Parse(dateLayout, req.PriceDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid price date, expected YYYY-MM-DD"))
			return nil, false
		}
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	return &model.DrugPrice{
		DrugID:    drugID,
		RegionID:  regionID,
		Price:     req.Price,
		Currency:  currency,
		PriceDate: priceDate,
		PriceType: req.PriceType,
		Source:    req.Source,
	}, true
}

func (h *Handler) CreatePrice(c *gin.Context) {
	price, ok := h.priceFromRequest(c)
	if !ok {
		return
	}
	if err := h.service.CreatePrice(c.Request.Context(), price); err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(price))
}

func (h *Handler) GetPrice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid price ID"))
		return
	}
	price, err := h.service.GetPrice(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(price))
}

func (h *Handler) UpdatePrice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid price ID"))
		return
	}
	price, ok := h.priceFromRequest(c)
	if !ok {
		return
	}
	price.ID = id
	if err := h.service.UpdatePrice(c.Request.Context(), price); err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(price))
}

func (h *Handler) DeletePrice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid price ID"))
		return
	}
	if err := h.service.DeletePrice(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListPrices(c *gin.Context) {
	filters, ok := priceFiltersFromQuery(c)
	if !ok {
		return
	}
	prices, err := h.service.ListPrices(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(prices))
}

func (h *Handler) GetAnalysis(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid analysis ID"))
		return
	}
	analysis, err := h.service.GetAnalysis(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(analysis))
}

func (h *Handler) ListAnalyses(c *gin.Context) {
	analyses, err := h.service.ListAnalyses(c.Request.Context(), intQuery(c, "limit"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(analyses))
}

func priceFiltersFromQuery(c *gin.Context) (*model.PriceFilters, bool) {
	filters := &model.PriceFilters{}

	if raw := c.Query("drug_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid drug ID"))
			return nil, false
		}
		filters.DrugID = &id
	}
	if raw := c.Query("region_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid region ID"))
			return nil, false
		}
		filters.RegionID = &id
	}
	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid start date"))
			return nil, false
		}
		filters.StartDate = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid end date"))
			return nil, false
		}
		filters.EndDate = &t
	}

	var page model.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid pagination"))
		return nil, false
	}
	if page.PageSize > 0 {
		filters.Limit = page.PageSize
		if page.Page > 1 {
			filters.Offset = (page.Page - 1) * page.PageSize
		}
	}
	return filters, true
}

func intQuery(c *gin.Context, name string) int {
	raw := c.Query(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

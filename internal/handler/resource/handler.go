package resource

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/healthecon360/analytics-api/internal/handler"
	"github.com/healthecon360/analytics-api/internal/model"
	resourceService "github.com/healthecon360/analytics-api/internal/service/resource"
)

const dateLayout = "2006-01-02"

type Handler struct {
	service resourceService.ResourceServicer
}

func NewHandler(service resourceService.ResourceServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	orgs := r.Group("/organizations")
	{
		orgs.POST("", h.CreateOrganization)
		orgs.GET("", h.ListOrganizations)
		orgs.GET("/:id", h.GetOrganization)
		orgs.PUT("/:id", h.UpdateOrganization)
		orgs.DELETE("/:id", h.DeleteOrganization)
		orgs.GET("/:id/departments", h.ListDepartments)
	}

	departments := r.Group("/departments")
	{
		departments.POST("", h.CreateDepartment)
		departments.GET("/:id", h.GetDepartment)
		departments.PUT("/:id", h.UpdateDepartment)
		departments.DELETE("/:id", h.DeleteDepartment)
	}

	categories := r.Group("/resource-categories")
	{
		categories.POST("", h.CreateResourceCategory)
		categories.GET("", h.ListResourceCategories)
		categories.DELETE("/:id", h.DeleteResourceCategory)
	}

	resources := r.Group("/resources")
	{
		resources.POST("", h.CreateResource)
		resources.GET("", h.ListResources)
		resources.GET("/:id", h.GetResource)
		resources.PUT("/:id", h.UpdateResource)
		resources.DELETE("/:id", h.DeleteResource)
	}

	allocations := r.Group("/allocations")
	{
		allocations.POST("", h.CreateAllocation)
		allocations.GET("", h.ListAllocations)
		allocations.GET("/:id", h.GetAllocation)
		allocations.PUT("/:id", h.UpdateAllocation)
		allocations.DELETE("/:id", h.DeleteAllocation)
	}
}

type organizationRequest struct {
	Name        string `json:"name" binding:"required"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	Country     string `json:"country"`
	PostalCode  string `json:"postal_code"`
	RegionID    string `json:"region_id"`
}

func (h *Handler) organizationFromRequest(c *gin.Context) (*model.Organization, bool) {
	var req organizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return nil, false
	}

	org := &model.Organization{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		Country:     req.Country,
		PostalCode:  req.PostalCode,
	}
	if req.RegionID != "" {
		regionID, err := uuid.Parse(req.RegionID)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid region ID"))
			return nil, false
		}
		org.RegionID = &regionID
	}
	return org, true
}

func (h *Handler) CreateOrganization(c *gin.Context) {
	org, ok := h.organizationFromRequest(c)
	if !ok {
		return
	}
	if err := h.service.CreateOrganization(c.Request.Context(), org); err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(org))
}

func (h *Handler) GetOrganization(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid organization ID"))
		return
	}
	org, err := h.service.GetOrganization(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(org))
}

func (h *Handler) UpdateOrganization(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid organization ID"))
		return
	}
	org, ok := h.organizationFromRequest(c)
	if !ok {
		return
	}
	org.ID = id
	if err := h.service.UpdateOrganization(c.Request.Context(), org); err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(org))
}

func (h *Handler) DeleteOrganization(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid organization ID"))
		return
	}
	if err := h.service.DeleteOrganization(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListOrganizations(c *gin.Context) {
	orgs, err := h.service.ListOrganizations(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(orgs))
}

type departmentRequest struct {
	Name           string  `json:"name" binding:"required"`
	Description    string  `json:"description"`
	OrganizationID string  `json:"organization_id" binding:"required"`
	Budget         float64 `json:"budget" binding:"gte=0"`
	StaffCount     int     `json:"staff_count" binding:"gte=0"`
}

func (h *Handler) departmentFromRequest(c *gin.Context) (*model.Department, bool) {
	var req departmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return nil, false
	}

	orgID, err := uuid.Parse(req.OrganizationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid organization ID"))
		return nil, false
	}

	return &model.Department{
		Name:           req.Name,
		Description:    req.Description,
		OrganizationID: orgID,
		Budget:         req.Budget,
		StaffCount:     req.StaffCount,
	}, true
}

func (h *Handler) CreateDepartment(c *gin.Context) {
	department, ok := h.departmentFromRequest(c)
	if !ok {
		return
	}
	if err := h.service.CreateDepartment(c.Request.Context(), department); err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(department))
}

func (h *Handler) GetDepartment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid department ID"))
		return
	}
	department, err := h.service.GetDepartment(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(department))
}

func (h *Handler) UpdateDepartment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid department ID"))
		return
	}
	department, ok := h.departmentFromRequest(c)
	if !ok {
		return
	}
	department.ID = id
	if err := h.service.UpdateDepartment(c.Request.Context(), department); err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(department))
}

func (h *Handler) DeleteDepartment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid department ID"))
		return
	}
	if err := h.service.DeleteDepartment(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListDepartments(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid organization ID"))
		return
	}
	departments, err := h.service.ListDepartments(c.Request.Context(), orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(departments))
}

type resourceCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *Handler) CreateResourceCategory(c *gin.Context) {
	var req resourceCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	category := &model.ResourceCategory{Name: req.Name, Description: req.Description}
	if err := h.service.CreateResourceCategory(c.Request.Context(), category); err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(category))
}

func (h *Handler) ListResourceCategories(c *gin.Context) {
	categories, err := h.service.ListResourceCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(categories))
}

func (h *Handler) DeleteResourceCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid category ID"))
		return
	}
	if err := h.service.DeleteResourceCategory(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

type resourceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	CategoryID  string  `json:"category_id"`
	UnitCost    float64 `json:"unit_cost" binding:"gte=0"`
	UnitType    string  `json:"unit_type"`
}

func (h *Handler) resourceFromRequest(c *gin.Context) (*model.Resource, bool) {
	var req resourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return nil, false
	}

	resource := &model.Resource{
		Name:        req.Name,
		Description: req.Description,
		UnitCost:    req.UnitCost,
		UnitType:    req.UnitType,
	}
	if req.CategoryID != "" {
		categoryID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid category ID"))
			return nil, false
		}
		resource.CategoryID = &categoryID
	}
	return resource, true
}

func (h *Handler) CreateResource(c *gin.Context) {
	resource, ok := h.resourceFromRequest(c)
	if !ok {
		return
	}
	if err := h.service.CreateResource(c.Request.Context(), resource); err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(resource))
}

func (h *Handler) GetResource(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid resource ID"))
		return
	}
	resource, err := h.service.GetResource(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(resource))
}

func (h *Handler) UpdateResource(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid resource ID"))
		return
	}
	resource, ok := h.resourceFromRequest(c)
	if !ok {
		return
	}
	resource.ID = id
	if err := h.service.UpdateResource(c.Request.Context(), resource); err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(resource))
}

func (h *Handler) DeleteResource(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid resource ID"))
		return
	}
	if err := h.service.DeleteResource(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListResources(c *gin.Context) {
	resources, err := h.service.ListResources(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(resources))
}

type allocationRequest struct {
	OrganizationID string  `json:"organization_id"`
	DepartmentID   string  `json:"department_id"`
	ResourceID     string  `json:"resource_id" binding:"required"`
	Quantity       float64 `json:"quantity" binding:"required,gt=0"`
	TotalCost      float64 `json:"total_cost" binding:"gte=0"`
	AllocationDate string  `json:"allocation_date"`
	FiscalYear     string  `json:"fiscal_year" binding:"omitempty,fiscalyear"`
}

func (h *Handler) allocationFromRequest(c *gin.Context) (*model.ResourceAllocation, bool) {
	var req allocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return nil, false
	}

	resourceID, err := uuid.Parse(req.ResourceID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid resource ID"))
		return nil, false
	}

	allocation := &model.ResourceAllocation{
		ResourceID: resourceID,
		Quantity:   req.Quantity,
		TotalCost:  req.TotalCost,
		FiscalYear: req.FiscalYear,
	}

	if req.OrganizationID != "" {
		orgID, err := uuid.Parse(req.OrganizationID)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid organization ID"))
			return nil, false
		}
		allocation.OrganizationID = &orgID
	}
	if req.DepartmentID != "" {
		deptID, err := uuid.Parse(req.DepartmentID)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid department ID"))
			return nil, false
		}
		allocation.DepartmentID = &deptID
	}

	allocation.AllocationDate = time.Now()
	if req.AllocationDate != "" {
		allocation.AllocationDate, err = time.Parse(dateLayout, req.AllocationDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid allocation date, expected YYYY-MM-DD"))
			return nil, false
		}
	}
	return allocation, true
}

func (h *Handler) CreateAllocation(c *gin.Context) {
	allocation, ok := h.allocationFromRequest(c)
	if !ok {
		return
	}
	if err := h.service.CreateAllocation(c.Request.Context(), allocation); err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(allocation))
}

func (h *Handler) GetAllocation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid allocation ID"))
		return
	}
	allocation, err := h.service.GetAllocation(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(allocation))
}

func (h *Handler) UpdateAllocation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid allocation ID"))
		return
	}
	allocation, ok := h.allocationFromRequest(c)
	if !ok {
		return
	}
	allocation.ID = id
	if err := h.service.UpdateAllocation(c.Request.Context(), allocation); err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(allocation))
}

func (h *Handler) DeleteAllocation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid allocation ID"))
		return
	}
	if err := h.service.DeleteAllocation(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListAllocations(c *gin.Context) {
	filters, ok := allocationFiltersFromQuery(c)
	if !ok {
		return
	}
	allocations, err := h.service.ListAllocations(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(allocations))
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

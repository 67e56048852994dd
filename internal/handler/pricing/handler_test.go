package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthecon360/analytics-api/internal/model"
)

type fakePricingService struct {
	drugs       map[uuid.UUID]*model.Drug
	prices      []*model.DrugPrice
	lastFilters *model.PriceFilters
}

func newFakePricingService() *fakePricingService {
	return &fakePricingService{drugs: make(map[uuid.UUID]*model.Drug)}
}

func (f *fakePricingService) CreateCategory(ctx context.Context, c *model.DrugCategory) error {
	c.ID = uuid.New()
	return nil
}

func (f *fakePricingService) ListCategories(context.Context) ([]*model.DrugCategory, error) {
	return nil, nil
}

func (f *fakePricingService) DeleteCategory(context.Context, uuid.UUID) error { return nil }

func (f *fakePricingService) CreateDrug(_ context.Context, d *model.Drug) error {
	d.ID = uuid.New()
	f.drugs[d.ID] = d
	return nil
}

func (f *fakePricingService) GetDrug(_ context.Context, id uuid.UUID) (*model.Drug, error) {
	if d, ok := f.drugs[id]; ok {
		return d, nil
	}
	return nil, assert.AnError
}

func (f *fakePricingService) UpdateDrug(context.Context, *model.Drug) error  { return nil }
func (f *fakePricingService) DeleteDrug(context.Context, uuid.UUID) error    { return nil }
func (f *fakePricingService) ListDrugs(context.Context) ([]*model.Drug, error) {
	out := make([]*model.Drug, 0, len(f.drugs))
	for _, d := range f.drugs {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakePricingService) CreateRegion(_ context.Context, r *model.Region) error {
	r.ID = uuid.New()
	return nil
}

func (f *fakePricingService) GetRegion(context.Context, uuid.UUID) (*model.Region, error) {
	return nil, assert.AnError
}

func (f *fakePricingService) UpdateRegion(context.Context, *model.Region) error { return nil }
func (f *fakePricingService) DeleteRegion(context.Context, uuid.UUID) error     { return nil }
func (f *fakePricingService) ListRegions(context.Context) ([]*model.Region, error) {
	return nil, nil
}

func (f *fakePricingService) CreatePrice(_ context.Context, p *model.DrugPrice) error {
	p.ID = uuid.New()
	f.prices = append(f.prices, p)
	return nil
}

func (f *fakePricingService) GetPrice(context.Context, uuid.UUID) (*model.DrugPrice, error) {
	return nil, assert.AnError
}

func (f *fakePricingService) UpdatePrice(context.Context, *model.DrugPrice) error { return nil }
func (f *fakePricingService) DeletePrice(context.Context, uuid.UUID) error        { return nil }
func (f *fakePricingService) ListPrices(_ context.Context, filters *model.PriceFilters) ([]*model.DrugPrice, error) {
	f.lastFilters = filters
	return f.prices, nil
}

func (f *fakePricingService) GetAnalysis(context.Context, uuid.UUID) (*model.PriceAnalysis, error) {
	return nil, nil
}

func (f *fakePricingService) ListAnalyses(context.Context, int) ([]*model.PriceAnalysis, error) {
	return nil, nil
}

func setupRouter(svc *fakePricingService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func postJSON(r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateDrug(t *testing.T) {
	svc := newFakePricingService()
	r := setupRouter(svc)

	w := postJSON(r, "/api/v1/drugs", gin.H{"name": "Atorvastatin", "manufacturer": "Generic Co"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, svc.drugs, 1)
	assert.Contains(t, w.Body.String(), `"status":"success"`)
}

func TestCreateDrugRequiresName(t *testing.T) {
	r := setupRouter(newFakePricingService())

	w := postJSON(r, "/api/v1/drugs", gin.H{"manufacturer": "Generic Co"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDrugUnknownIDIs404(t *testing.T) {
	r := setupRouter(newFakePricingService())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/drugs/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetDrugMalformedIDIs400(t *testing.T) {
	r := setupRouter(newFakePricingService())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/drugs/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePriceDefaultsCurrencyAndDate(t *testing.T) {
	svc := newFakePricingService()
	r := setupRouter(svc)

	w := postJSON(r, "/api/v1/prices", gin.H{
		"drug_id":   uuid.NewString(),
		"region_id": uuid.NewString(),
		"price":     12.5,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, svc.prices, 1)
	assert.Equal(t, "USD", svc.prices[0].Currency)
	assert.False(t, svc.prices[0].PriceDate.IsZero())
}

func TestCreatePriceRejectsBadDate(t *testing.T) {
	r := setupRouter(newFakePricingService())

	w := postJSON(r, "/api/v1/prices", gin.H{
		"drug_id":    uuid.NewString(),
		"region_id":  uuid.NewString(),
		"price":      12.5,
		"price_date": "03/01/2026",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPricesRejectsBadFilter(t *testing.T) {
	r := setupRouter(newFakePricingService())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/prices?drug_id=nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPricesPagination(t *testing.T) {
	svc := newFakePricingService()
	r := setupRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/prices?page=3&page_size=25", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, svc.lastFilters)
	assert.Equal(t, 25, svc.lastFilters.Limit)
	assert.Equal(t, 50, svc.lastFilters.Offset)

	// without paging parameters the full set is requested
	req = httptest.NewRequest(http.MethodGet, "/api/v1/prices", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, svc.lastFilters.Limit)
	assert.Zero(t, svc.lastFilters.Offset)
}

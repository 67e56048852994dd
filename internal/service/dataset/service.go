package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/healthecon360/analytics-api/internal/model"
	"github.com/healthecon360/analytics-api/internal/repository"
	"github.com/healthecon360/analytics-api/pkg/logger"
	"github.com/healthecon360/analytics-api/pkg/messaging"
)

const priceDateLayout = "2006-01-02"

type DatasetServicer interface {
	ExportPricing(ctx context.Context, w io.Writer, filters *model.PriceFilters) error
	ExportOutcomes(ctx context.Context, w io.Writer, filters *model.MeasurementFilters) error
	ExportAllocations(ctx context.Context, w io.Writer, filters *model.AllocationFilters) error
	ImportPricing(ctx context.Context, r io.Reader) (*model.ImportResult, error)
	ImportOutcomes(ctx context.Context, r io.Reader) (*model.ImportResult, error)
}

type Service struct {
	pricingRepo    repository.PricingRepository
	outcomeRepo    repository.OutcomeRepository
	resourceRepo   repository.ResourceRepository
	broker         messaging.Broker
	refreshChannel string
	logger         *logger.Logger
}

func NewService(
	pricingRepo repository.PricingRepository,
	outcomeRepo repository.OutcomeRepository,
	resourceRepo repository.ResourceRepository,
	logger *logger.Logger,
) *Service {
	return &Service{
		pricingRepo:  pricingRepo,
		outcomeRepo:  outcomeRepo,
		resourceRepo: resourceRepo,
		logger:       logger,
	}
}

// WithRefresh makes successful imports ask the analysis worker for an
// immediate run instead of waiting for the next scheduled pass.
func (s *Service) WithRefresh(broker messaging.Broker, channel string) *Service {
	s.broker = broker
	s.refreshChannel = channel
	return s
}

func (s *Service) requestRefresh(ctx context.Context, result *model.ImportResult) {
	if s.broker == nil || s.refreshChannel == "" || result.Imported == 0 {
		return
	}
	msg := messaging.Message{Type: "import.completed", Payload: result}
	if err := s.broker.Publish(ctx, s.refreshChannel, msg); err != nil {
		s.logger.Warn("failed to request analysis refresh", "error", err.Error())
	}
}

func (s *Service) ExportPricing(ctx context.Context, w io.Writer, filters *model.PriceFilters) error {
	prices, err := s.pricingRepo.ListPrices(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list prices: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"drug", "region", "price", "currency", "price_date", "price_type", "source"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, p := range prices {
		record := []string{
			p.DrugName,
			p.RegionName,
			strconv.FormatFloat(p.Price, 'f', 2, 64),
			p.Currency,
			p.PriceDate.Format(priceDateLayout),
			p.PriceType,
			p.Source,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *Service) ExportOutcomes(ctx context.Context, w io.Writer, filters *model.MeasurementFilters) error {
	measurements, err := s.outcomeRepo.ListMeasurements(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list measurements: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"outcome", "treatment", "organization", "value", "sample_size", "measurement_date", "source"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, m := range measurements {
		treatment := ""
		if m.TreatmentName != nil {
			treatment = *m.TreatmentName
		}
		organization := ""
		if m.OrganizationName != nil {
			organization = *m.OrganizationName
		}
		sampleSize := ""
		if m.SampleSize != nil {
			sampleSize = strconv.Itoa(*m.SampleSize)
		}
		date := ""
		if m.MeasurementDate != nil {
			date = m.MeasurementDate.Format(priceDateLayout)
		}
		record := []string{
			m.OutcomeName,
			treatment,
			organization,
			strconv.FormatFloat(m.Value, 'f', -1, 64),
			sampleSize,
			date,
			m.Source,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *Service) ExportAllocations(ctx context.Context, w io.Writer, filters *model.AllocationFilters) error {
	allocations, err := s.resourceRepo.ListAllocations(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list allocations: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"organization", "department", "resource", "quantity", "total_cost", "allocation_date", "fiscal_year"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, a := range allocations {
		organization := ""
		if a.OrganizationName != nil {
			organization = *a.OrganizationName
		}
		department := ""
		if a.DepartmentName != nil {
			department = *a.DepartmentName
		}
		record := []string{
			organization,
			department,
			a.ResourceName,
			strconv.FormatFloat(a.Quantity, 'f', -1, 64),
			strconv.FormatFloat(a.TotalCost, 'f', 2, 64),
			a.AllocationDate.Format(priceDateLayout),
			a.FiscalYear,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportPricing ingests a pricing CSV with columns
// drug,region,price,currency,price_date,price_type,source. Unknown drugs
// and regions are created by name. Bad rows are skipped and counted.
func (s *Service) ImportPricing(ctx context.Context, r io.Reader) (*model.ImportResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"drug", "region", "price"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	field := func(record []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	result := &model.ImportResult{}
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Failed++
			continue
		}

		price, err := strconv.ParseFloat(field(record, "price"), 64)
		if err != nil || price < 0 {
			s.logger.Warn("skipping row with bad price", "line", line)
			result.Failed++
			continue
		}

		drug, err := s.drugByName(ctx, field(record, "drug"))
		if err != nil {
			result.Failed++
			continue
		}
		region, err := s.regionByName(ctx, field(record, "region"))
		if err != nil {
			result.Failed++
			continue
		}

		priceDate := time.Now()
		if raw := field(record, "price_date"); raw != "" {
			parsed, err := time.Parse(priceDateLayout, raw)
			if err != nil {
				result.Failed++
				continue
			}
			priceDate = parsed
		}

		currency := field(record, "currency")
		if currency == "" {
			currency = "USD"
		}

		dp := &model.DrugPrice{
			DrugID:    drug.ID,
			RegionID:  region.ID,
			Price:     price,
			Currency:  currency,
			PriceDate: priceDate,
			PriceType: field(record, "price_type"),
			Source:    field(record, "source"),
		}
		if err := s.pricingRepo.CreatePrice(ctx, dp); err != nil {
			s.logger.Error(err, "failed to import price row", "line", line)
			result.Failed++
			continue
		}
		result.Imported++
	}

	s.requestRefresh(ctx, result)
	return result, nil
}

// ImportOutcomes ingests a measurement CSV with columns
// outcome,treatment,organization,value,sample_size,measurement_date,source.
// Unknown outcomes and treatments are created by name; an organization
// that does not exist fails the row rather than inventing a provider.
func (s *Service) ImportOutcomes(ctx context.Context, r io.Reader) (*model.ImportResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"outcome", "value"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	field := func(record []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	result := &model.ImportResult{}
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Failed++
			continue
		}

		value, err := strconv.ParseFloat(field(record, "value"), 64)
		if err != nil {
			s.logger.Warn("skipping row with bad value", "line", line)
			result.Failed++
			continue
		}

		outcome, err := s.outcomeByName(ctx, field(record, "outcome"))
		if err != nil {
			result.Failed++
			continue
		}

		m := &model.OutcomeMeasurement{
			OutcomeID: outcome.ID,
			Value:     value,
			Source:    field(record, "source"),
		}

		if name := field(record, "treatment"); name != "" {
			treatment, err := s.treatmentByName(ctx, name)
			if err != nil {
				result.Failed++
				continue
			}
			m.TreatmentID = &treatment.ID
		}
		if name := field(record, "organization"); name != "" {
			org, err := s.resourceRepo.GetOrganizationByName(ctx, name)
			if err != nil {
				result.Failed++
				continue
			}
			m.OrganizationID = &org.ID
		}
		if raw := field(record, "sample_size"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				result.Failed++
				continue
			}
			m.SampleSize = &n
		}
		if raw := field(record, "measurement_date"); raw != "" {
			parsed, err := time.Parse(priceDateLayout, raw)
			if err != nil {
				result.Failed++
				continue
			}
			m.MeasurementDate = &parsed
		}

		if err := s.outcomeRepo.CreateMeasurement(ctx, m); err != nil {
			s.logger.Error(err, "failed to import measurement row", "line", line)
			result.Failed++
			continue
		}
		result.Imported++
	}

	s.requestRefresh(ctx, result)
	return result, nil
}

func (s *Service) drugByName(ctx context.Context, name string) (*model.Drug, error) {
	if name == "" {
		return nil, fmt.Errorf("drug name is empty")
	}
	drug, err := s.pricingRepo.GetDrugByName(ctx, name)
	if err == nil {
		return drug, nil
	}
	drug = &model.Drug{Name: name}
	if err := s.pricingRepo.CreateDrug(ctx, drug); err != nil {
		return nil, fmt.Errorf("failed to create drug %q: %w", name, err)
	}
	return drug, nil
}

func (s *Service) outcomeByName(ctx context.Context, name string) (*model.Outcome, error) {
	if name == "" {
		return nil, fmt.Errorf("outcome name is empty")
	}
	outcome, err := s.outcomeRepo.GetOutcomeByName(ctx, name)
	if err == nil {
		return outcome, nil
	}
	outcome = &model.Outcome{Name: name, HigherIsBetter: true}
	if err := s.outcomeRepo.CreateOutcome(ctx, outcome); err != nil {
		return nil, fmt.Errorf("failed to create outcome %q: %w", name, err)
	}
	return outcome, nil
}

func (s *Service) treatmentByName(ctx context.Context, name string) (*model.Treatment, error) {
	treatment, err := s.outcomeRepo.GetTreatmentByName(ctx, name)
	if err == nil {
		return treatment, nil
	}
	treatment = &model.Treatment{Name: name}
	if err := s.outcomeRepo.CreateTreatment(ctx, treatment); err != nil {
		return nil, fmt.Errorf("failed to create treatment %q: %w", name, err)
	}
	return treatment, nil
}

func (s *Service) regionByName(ctx context.Context, name string) (*model.Region, error) {
	if name == "" {
		return nil, fmt.Errorf("region name is empty")
	}
	region, err := s.pricingRepo.GetRegionByName(ctx, name)
	if err == nil {
		return region, nil
	}
	region = &model.Region{Name: name}
	if err := s.pricingRepo.CreateRegion(ctx, region); err != nil {
		return nil, fmt.Errorf("failed to create region %q: %w", name, err)
	}
	return region, nil
}

// backend/src/services/financial_service.go
package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/username/dartviewer/backend/src/logger"
	"github.com/username/dartviewer/backend/src/models"
	"github.com/username/dartviewer/backend/src/observability"
	"github.com/username/dartviewer/backend/src/processors"
	"github.com/username/dartviewer/backend/src/security/validation"
)

const ckFinancialReport = "report_%s_%d_%s"

type financialServiceImpl struct {
	dartClient  DartClient
	normalizer  processors.StatementNormalizer
	synthesizer processors.AccountSynthesizer
	ratios      processors.RatioCalculator
	reportCache *cache.Cache
	cacheTTL    time.Duration
}

func NewFinancialService(
	dartClient DartClient,
	normalizer processors.StatementNormalizer,
	synthesizer processors.AccountSynthesizer,
	ratios processors.RatioCalculator,
	reportCache *cache.Cache,
	cacheTTL time.Duration,
) FinancialService {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheExpiration
	}
	return &financialServiceImpl{
		dartClient:  dartClient,
		normalizer:  normalizer,
		synthesizer: synthesizer,
		ratios:      ratios,
		reportCache: reportCache,
		cacheTTL:    cacheTTL,
	}
}

func (s *financialServiceImpl) GetAnnualReport(ctx context.Context, corpCode string, year int) (*models.FinancialReport, error) {
	return s.getReport(ctx, "FinancialService.GetAnnualReport", corpCode, year, processors.ReportCodeAnnual)
}

func (s *financialServiceImpl) GetQuarterlyReport(ctx context.Context, corpCode string, year, quarter int) (*models.FinancialReport, error) {
	const op = "FinancialService.GetQuarterlyReport"
	reportCode, err := processors.ReportCodeForQuarter(quarter)
	if err != nil {
		return nil, newError(KindValidation, op, err, "invalid quarter")
	}
	return s.getReport(ctx, op, corpCode, year, reportCode)
}

// getReport runs fetch, normalize, synthesize and ratio calculation. Reports
// are cached as built; callers must treat them as read-only.
func (s *financialServiceImpl) getReport(ctx context.Context, op, corpCode string, year int, reportCode string) (*models.FinancialReport, error) {
	if err := validation.ValidateCorpCode(corpCode); err != nil {
		return nil, newError(KindValidation, op, err, "invalid corp code")
	}

	cacheKey := fmt.Sprintf(ckFinancialReport, corpCode, year, reportCode)
	if cached, found := s.reportCache.Get(cacheKey); found {
		observability.ObserveCache("report", true)
		return cached.(*models.FinancialReport), nil
	}
	observability.ObserveCache("report", false)

	items, err := s.dartClient.GetSingleCorpAccount(ctx, corpCode, strconv.Itoa(year), reportCode)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to fetch financial statements",
			"corpCode", corpCode, "year", year, "reportCode", reportCode, "error", err)
		if KindOf(err) == KindInternal {
			return nil, newError(KindUpstream, op, err, "failed to fetch financial statements")
		}
		return nil, err
	}

	report := s.normalizer.Normalize(items)
	s.synthesizer.Synthesize(report)
	if !report.IsEmpty() {
		ratios := s.ratios.Calculate(report)
		report.Ratios = &ratios
	}

	logger.FromContext(ctx).Info("Financial report built",
		"corpCode", corpCode, "year", year, "reportCode", reportCode,
		"lineItems", len(items), "statements", len(report.Statements),
		"statementType", report.CompanyInfo.StatementType)

	s.reportCache.Set(cacheKey, report, s.cacheTTL)
	return report, nil
}

// backend/src/services/company_service.go
package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/username/dartviewer/backend/src/logger"
	"github.com/username/dartviewer/backend/src/model"
	"github.com/username/dartviewer/backend/src/models"
	"github.com/username/dartviewer/backend/src/observability"
	"github.com/username/dartviewer/backend/src/security/validation"
)

const (
	ckCompanySearch   = "search_%s"
	ckCompanyByStock  = "stock_%s"
	ckCompanyByCorp   = "corp_%s"
	ckCompanyOverview = "overview_%s"

	defaultDisclosurePageCount = 10
	maxDisclosurePageCount     = 100
)

type companyServiceImpl struct {
	db          *sql.DB
	dartClient  DartClient
	lookupCache *cache.Cache
	cacheTTL    time.Duration
}

func NewCompanyService(db *sql.DB, dartClient DartClient, lookupCache *cache.Cache, cacheTTL time.Duration) CompanyService {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheExpiration
	}
	return &companyServiceImpl{
		db:          db,
		dartClient:  dartClient,
		lookupCache: lookupCache,
		cacheTTL:    cacheTTL,
	}
}

// Search matches company names against the lookup table. The raw query is
// screened for markup and wildcard-only input before it reaches SQL.
func (s *companyServiceImpl) Search(ctx context.Context, query string) ([]models.Company, error) {
	const op = "CompanyService.Search"

	trimmed, err := validation.ValidateSearchQuery(query)
	if err != nil {
		return nil, newError(KindValidation, op, err, "invalid search query")
	}
	if err := validation.CheckXSSPatterns(ctx, trimmed, "query"); err != nil {
		return nil, newError(KindValidation, op, err, "invalid search query")
	}
	term := validation.CleanSearchTerm(trimmed)
	if err := validation.ValidateStringLength(term, validation.MinSearchQueryLength, validation.MaxSearchQueryLength, "query"); err != nil {
		return nil, newError(KindValidation, op, err, "invalid search query")
	}
	if err := validation.CheckWildcardOnly(term, "query"); err != nil {
		return nil, newError(KindValidation, op, err, "invalid search query")
	}

	cacheKey := fmt.Sprintf(ckCompanySearch, strings.ToLower(term))
	if cached, found := s.lookupCache.Get(cacheKey); found {
		observability.ObserveCache("lookup", true)
		return cached.([]models.Company), nil
	}
	observability.ObserveCache("lookup", false)

	companies, err := model.SearchCompaniesByName(ctx, s.db, term, model.DefaultSearchLimit)
	if err != nil {
		logger.FromContext(ctx).Error("Company search failed", "query", term, "error", err)
		return nil, newError(KindInternal, op, err, "company search failed")
	}
	logger.FromContext(ctx).Debug("Company search", "query", term, "results", len(companies))

	s.lookupCache.Set(cacheKey, companies, s.cacheTTL)
	return companies, nil
}

func (s *companyServiceImpl) GetByStockCode(ctx context.Context, stockCode string) (*models.Company, error) {
	const op = "CompanyService.GetByStockCode"
	code := strings.ToUpper(strings.TrimSpace(stockCode))
	if err := validation.ValidateStockCode(code); err != nil {
		return nil, newError(KindValidation, op, err, "invalid stock code")
	}
	return s.getCompany(ctx, op, fmt.Sprintf(ckCompanyByStock, code), func() (*models.Company, error) {
		return model.GetCompanyByStockCode(ctx, s.db, code)
	})
}

func (s *companyServiceImpl) GetByCorpCode(ctx context.Context, corpCode string) (*models.Company, error) {
	const op = "CompanyService.GetByCorpCode"
	code := strings.TrimSpace(corpCode)
	if err := validation.ValidateCorpCode(code); err != nil {
		return nil, newError(KindValidation, op, err, "invalid corp code")
	}
	return s.getCompany(ctx, op, fmt.Sprintf(ckCompanyByCorp, code), func() (*models.Company, error) {
		return model.GetCompanyByCorpCode(ctx, s.db, code)
	})
}

// getCompany caches hits only, so a later import can resolve a code that
// was missing before.
func (s *companyServiceImpl) getCompany(ctx context.Context, op, cacheKey string, load func() (*models.Company, error)) (*models.Company, error) {
	if cached, found := s.lookupCache.Get(cacheKey); found {
		observability.ObserveCache("lookup", true)
		return cached.(*models.Company), nil
	}
	observability.ObserveCache("lookup", false)

	company, err := load()
	if err != nil {
		logger.FromContext(ctx).Error("Company lookup failed", "op", op, "error", err)
		return nil, newError(KindInternal, op, err, "company lookup failed")
	}
	if company == nil {
		return nil, newError(KindNotFound, op, nil, "company not found")
	}
	s.lookupCache.Set(cacheKey, company, s.cacheTTL)
	return company, nil
}

func (s *companyServiceImpl) GetOverview(ctx context.Context, corpCode string) (*models.CompanyOverview, error) {
	const op = "CompanyService.GetOverview"
	code := strings.TrimSpace(corpCode)
	if err := validation.ValidateCorpCode(code); err != nil {
		return nil, newError(KindValidation, op, err, "invalid corp code")
	}

	cacheKey := fmt.Sprintf(ckCompanyOverview, code)
	if cached, found := s.lookupCache.Get(cacheKey); found {
		observability.ObserveCache("overview", true)
		return cached.(*models.CompanyOverview), nil
	}
	observability.ObserveCache("overview", false)

	overview, err := s.dartClient.GetCompanyOverview(ctx, code)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to fetch company overview", "corpCode", code, "error", err)
		if KindOf(err) == KindInternal {
			return nil, newError(KindUpstream, op, err, "failed to fetch company overview")
		}
		return nil, err
	}
	s.lookupCache.Set(cacheKey, overview, s.cacheTTL)
	return overview, nil
}

// ListDisclosures is not cached; new filings appear during the day.
func (s *companyServiceImpl) ListDisclosures(ctx context.Context, query models.DisclosureQuery) (*models.DisclosurePage, error) {
	const op = "CompanyService.ListDisclosures"

	query.CorpCode = strings.TrimSpace(query.CorpCode)
	if err := validation.ValidateCorpCode(query.CorpCode); err != nil {
		return nil, newError(KindValidation, op, err, "invalid corp code")
	}
	if err := validation.ValidateCompactDate(query.BeginDate, "from"); err != nil {
		return nil, newError(KindValidation, op, err, "invalid date range")
	}
	if err := validation.ValidateCompactDate(query.EndDate, "to"); err != nil {
		return nil, newError(KindValidation, op, err, "invalid date range")
	}
	if query.BeginDate != "" && query.EndDate != "" && query.BeginDate > query.EndDate {
		return nil, newError(KindValidation, op, validation.ErrValidationFailed, "from must not be after to")
	}
	if err := validation.ValidateDisclosureType(query.Type); err != nil {
		return nil, newError(KindValidation, op, err, "invalid disclosure type")
	}
	if query.PageNo <= 0 {
		query.PageNo = 1
	}
	if query.PageCount <= 0 {
		query.PageCount = defaultDisclosurePageCount
	}
	if query.PageCount > maxDisclosurePageCount {
		query.PageCount = maxDisclosurePageCount
	}

	page, err := s.dartClient.GetDisclosureList(ctx, query)
	if err != nil {
		logger.FromContext(ctx).Error("Failed to fetch disclosures", "corpCode", query.CorpCode, "error", err)
		if KindOf(err) == KindInternal {
			return nil, newError(KindUpstream, op, err, "failed to fetch disclosures")
		}
		return nil, err
	}
	return page, nil
}

func (s *companyServiceImpl) Status(ctx context.Context) (*LookupStatus, error) {
	const op = "CompanyService.Status"

	count, err := model.CountCompanies(ctx, s.db)
	if err != nil {
		return nil, newError(KindInternal, op, err, "failed to count companies")
	}
	observability.CompaniesLoaded.Set(float64(count))

	status := &LookupStatus{Companies: count}
	run, err := model.GetLatestImportRun(ctx, s.db)
	if err != nil {
		return nil, newError(KindInternal, op, err, "failed to read import history")
	}
	if run != nil {
		importedAt := run.ImportedAt
		status.LastImportAt = &importedAt
		status.LastSource = run.Source
	}
	return status, nil
}

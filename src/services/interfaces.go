// backend/src/services/interfaces.go
package services

import (
	"context"
	"io"
	"time"

	"github.com/username/dartviewer/backend/src/models"
)

const (
	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

// DartClient talks to the OpenDART REST API.
type DartClient interface {
	GetSingleCorpAccount(ctx context.Context, corpCode, businessYear, reportCode string) ([]models.LineItem, error)
	GetCompanyOverview(ctx context.Context, corpCode string) (*models.CompanyOverview, error)
	GetDisclosureList(ctx context.Context, query models.DisclosureQuery) (*models.DisclosurePage, error)
	// DownloadCorpCodes streams the corpCode.xml zip archive into w.
	DownloadCorpCodes(ctx context.Context, w io.Writer) (int64, error)
}

// FinancialService builds normalized reports with ratios.
type FinancialService interface {
	GetAnnualReport(ctx context.Context, corpCode string, year int) (*models.FinancialReport, error)
	GetQuarterlyReport(ctx context.Context, corpCode string, year, quarter int) (*models.FinancialReport, error)
}

// LookupStatus summarizes the company lookup table for health checks.
type LookupStatus struct {
	Companies    int        `json:"companies"`
	LastImportAt *time.Time `json:"lastImportAt,omitempty"`
	LastSource   string     `json:"lastSource,omitempty"`
}

// CompanyService resolves companies from the local lookup table and OpenDART.
type CompanyService interface {
	Search(ctx context.Context, query string) ([]models.Company, error)
	GetByStockCode(ctx context.Context, stockCode string) (*models.Company, error)
	GetByCorpCode(ctx context.Context, corpCode string) (*models.Company, error)
	GetOverview(ctx context.Context, corpCode string) (*models.CompanyOverview, error)
	ListDisclosures(ctx context.Context, query models.DisclosureQuery) (*models.DisclosurePage, error)
	Status(ctx context.Context) (*LookupStatus, error)
}

// Explanation is the AI commentary on a report. Text is always displayable,
// including when generation failed.
type Explanation struct {
	Text   string
	HTML   string
	Failed bool
}

// AIService explains a financial report in plain Korean.
type AIService interface {
	ExplainFinancialStatements(ctx context.Context, report *models.FinancialReport, companyName string) Explanation
}

// TextGenerator sends a prompt to a generative model and returns its text.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

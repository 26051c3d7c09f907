package processors

import "github.com/username/dartviewer/backend/src/models"

// StatementNormalizer turns raw fnlttSinglAcnt rows into a FinancialReport.
type StatementNormalizer interface {
	Normalize(items []models.LineItem) *models.FinancialReport
}

// AccountSynthesizer fills balance-sheet accounts that can be derived from totals.
type AccountSynthesizer interface {
	Synthesize(report *models.FinancialReport)
}

// RatioCalculator derives percentage ratios from a normalized report.
type RatioCalculator interface {
	Calculate(report *models.FinancialReport) models.FinancialRatios
}

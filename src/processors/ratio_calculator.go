package processors

import (
	"math"

	"github.com/username/dartviewer/backend/src/models"
)

// Income-statement labels used by the ratio calculator.
const (
	AccountRevenue         = "매출액"
	AccountOperatingIncome = "영업이익"
	AccountNetIncome       = "당기순이익"
)

type ratioCalculatorImpl struct{}

func NewRatioCalculator() RatioCalculator {
	return &ratioCalculatorImpl{}
}

// Calculate looks accounts up by exact label on the current-period amount.
// Income figures come from IS, or from CIS when a filer only reports the
// comprehensive income statement.
func (c *ratioCalculatorImpl) Calculate(report *models.FinancialReport) models.FinancialRatios {
	bs := report.Statement(models.StatementBalanceSheet)
	is := report.Statement(models.StatementIncome)
	if is == nil {
		is = report.Statement(models.StatementComprehensiveIncome)
	}

	totalAssets := currentAmount(bs, AccountTotalAssets)
	totalLiabilities := currentAmount(bs, AccountTotalLiabilities)
	totalEquity := currentAmount(bs, AccountTotalEquity)
	revenue := currentAmount(is, AccountRevenue)
	operatingIncome := currentAmount(is, AccountOperatingIncome)
	netIncome := currentAmount(is, AccountNetIncome)

	return models.FinancialRatios{
		ROE:             percentage(netIncome, totalEquity),
		ROA:             percentage(netIncome, totalAssets),
		OperatingMargin: percentage(operatingIncome, revenue),
		NetMargin:       percentage(netIncome, revenue),
		DebtRatio:       percentage(totalLiabilities, totalAssets),
		DebtToEquity:    percentage(totalLiabilities, totalEquity),
	}
}

func currentAmount(stmt *models.Statement, name string) *float64 {
	acc, ok := stmt.Find(name)
	if !ok {
		return nil
	}
	return acc.CurrentAmount
}

// percentage returns numerator / denominator * 100, or nil when either side
// is missing or the denominator is zero.
func percentage(numerator, denominator *float64) *float64 {
	if numerator == nil || denominator == nil || *denominator == 0 {
		return nil
	}
	v := *numerator / *denominator * 100
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

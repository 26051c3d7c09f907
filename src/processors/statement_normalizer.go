package processors

import (
	"sort"

	"github.com/username/dartviewer/backend/src/models"
)

// Values of CompanyInfo.StatementType / StatementName.
const (
	StatementTypeConsolidated = "consolidated"
	StatementTypeSeparate     = "separate"
	StatementNameConsolidated = "연결재무제표"
	StatementNameSeparate     = "개별재무제표"
)

type statementNormalizerImpl struct{}

func NewStatementNormalizer() StatementNormalizer {
	return &statementNormalizerImpl{}
}

// Normalize keeps consolidated rows when any exist and separate rows otherwise,
// groups them by sj_div and sorts every statement by ord.
func (n *statementNormalizerImpl) Normalize(items []models.LineItem) *models.FinancialReport {
	report := models.NewFinancialReport()
	if len(items) == 0 {
		return report
	}

	var consolidated, separate []models.LineItem
	for _, item := range items {
		switch item.Division {
		case models.DivisionConsolidated:
			consolidated = append(consolidated, item)
		case models.DivisionSeparate:
			separate = append(separate, item)
		}
	}

	selected := separate
	statementType, statementName := StatementTypeSeparate, StatementNameSeparate
	if len(consolidated) > 0 {
		selected = consolidated
		statementType, statementName = StatementTypeConsolidated, StatementNameConsolidated
	}

	first := items[0]
	if len(selected) > 0 {
		first = selected[0]
	}
	report.CompanyInfo = models.CompanyInfo{
		CorporationCode:       first.CorpCode,
		StockCode:             first.StockCode,
		BusinessYear:          first.BusinessYear,
		ReportCode:            first.ReportCode,
		ReportName:            ReportName(first.ReportCode),
		StatementType:         statementType,
		StatementName:         statementName,
		CurrentTermName:       first.CurrentTermName,
		CurrentTermDate:       first.CurrentTermDate,
		PreviousTermName:      first.PreviousTermName,
		PreviousTermDate:      first.PreviousTermDate,
		PriorPreviousTermName: first.PriorPreviousName,
		PriorPreviousTermDate: first.PriorPreviousDate,
	}

	for _, item := range selected {
		stmt, ok := report.Statements[item.StatementType]
		if !ok {
			stmt = &models.Statement{Title: item.StatementName, Accounts: []models.Account{}}
			report.Statements[item.StatementType] = stmt
		}
		stmt.Accounts = append(stmt.Accounts, toAccount(item))
	}

	for _, stmt := range report.Statements {
		accounts := stmt.Accounts
		sort.SliceStable(accounts, func(i, j int) bool {
			return accounts[i].Order < accounts[j].Order
		})
	}

	return report
}

func toAccount(item models.LineItem) models.Account {
	return models.Account{
		Name:                item.AccountName,
		Order:               parseOrder(item.Order),
		CurrentAmount:       ParseAmount(item.CurrentAmount),
		CurrentAddAmount:    ParseAmount(item.CurrentAddAmount),
		PreviousAmount:      ParseAmount(item.PreviousAmount),
		PreviousAddAmount:   ParseAmount(item.PreviousAddAmount),
		PriorPreviousAmount: ParseAmount(item.PriorPreviousAmount),
		Currency:            item.Currency,
	}
}

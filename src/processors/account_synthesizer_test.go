package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/dartviewer/backend/src/models"
)

func balanceSheet(accounts ...models.Account) *models.FinancialReport {
	report := models.NewFinancialReport()
	report.Statements[models.StatementBalanceSheet] = &models.Statement{Title: "재무상태표", Accounts: accounts}
	return report
}

func TestSynthesize_NonCurrentAssets(t *testing.T) {
	report := balanceSheet(
		models.Account{Name: AccountCurrentAssets, Order: 1, CurrentAmount: ptr(300)},
		models.Account{Name: AccountTotalAssets, Order: 5, CurrentAmount: ptr(500)},
	)

	NewAccountSynthesizer().Synthesize(report)

	bs := report.Statements["BS"]
	acc, ok := bs.Find(AccountNonCurrentAssets)
	require.True(t, ok)
	assert.Equal(t, 200.0, *acc.CurrentAmount)
	assert.True(t, acc.Synthesized)
	assert.Equal(t, AccountNonCurrentAssets, bs.Accounts[1].Name, "inserted after the current account")
}

func TestSynthesize_CurrentDefaultsToZero(t *testing.T) {
	report := balanceSheet(
		models.Account{Name: AccountTotalLiabilities, Order: 3, CurrentAmount: ptr(800), PreviousAmount: ptr(700)},
	)

	NewAccountSynthesizer().Synthesize(report)

	acc, ok := report.Statements["BS"].Find(AccountNonCurrentLiabilities)
	require.True(t, ok)
	assert.Equal(t, 800.0, *acc.CurrentAmount)
	assert.Equal(t, 700.0, *acc.PreviousAmount)
	assert.Nil(t, acc.PriorPreviousAmount)
	assert.Equal(t, 3, acc.Order)
}

func TestSynthesize_SkipsWhenTotalMissing(t *testing.T) {
	report := balanceSheet(
		models.Account{Name: AccountCurrentAssets, Order: 1, CurrentAmount: ptr(300)},
	)

	NewAccountSynthesizer().Synthesize(report)

	_, ok := report.Statements["BS"].Find(AccountNonCurrentAssets)
	assert.False(t, ok)
	assert.Len(t, report.Statements["BS"].Accounts, 1)
}

func TestSynthesize_KeepsReportedAccount(t *testing.T) {
	report := balanceSheet(
		models.Account{Name: AccountCurrentAssets, Order: 1, CurrentAmount: ptr(300)},
		models.Account{Name: AccountNonCurrentAssets, Order: 2, CurrentAmount: ptr(999)},
		models.Account{Name: AccountTotalAssets, Order: 3, CurrentAmount: ptr(500)},
	)

	NewAccountSynthesizer().Synthesize(report)

	acc, _ := report.Statements["BS"].Find(AccountNonCurrentAssets)
	assert.Equal(t, 999.0, *acc.CurrentAmount)
	assert.False(t, acc.Synthesized)
	assert.Len(t, report.Statements["BS"].Accounts, 3)
}

func TestSynthesize_NoBalanceSheet(t *testing.T) {
	report := models.NewFinancialReport()
	assert.NotPanics(t, func() { NewAccountSynthesizer().Synthesize(report) })
	assert.Empty(t, report.Statements)
}

func TestSynthesize_KeepsOrderSorted(t *testing.T) {
	report := balanceSheet(
		models.Account{Name: AccountCurrentAssets, Order: 1, CurrentAmount: ptr(300)},
		models.Account{Name: AccountTotalAssets, Order: 2, CurrentAmount: ptr(500)},
		models.Account{Name: AccountCurrentLiabilities, Order: 3, CurrentAmount: ptr(100)},
		models.Account{Name: AccountTotalLiabilities, Order: 4, CurrentAmount: ptr(250)},
		models.Account{Name: AccountTotalEquity, Order: 5, CurrentAmount: ptr(250)},
	)

	NewAccountSynthesizer().Synthesize(report)

	accounts := report.Statements["BS"].Accounts
	require.Len(t, accounts, 7)
	for i := 1; i < len(accounts); i++ {
		assert.LessOrEqual(t, accounts[i-1].Order, accounts[i].Order)
	}
	liab, _ := report.Statements["BS"].Find(AccountNonCurrentLiabilities)
	assert.Equal(t, 150.0, *liab.CurrentAmount)
}

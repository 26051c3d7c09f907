package processors

import (
	"github.com/username/dartviewer/backend/src/models"
)

// Balance-sheet labels used by the synthesizer and the ratio calculator.
const (
	AccountTotalAssets           = "자산총계"
	AccountCurrentAssets         = "유동자산"
	AccountNonCurrentAssets      = "비유동자산"
	AccountTotalLiabilities      = "부채총계"
	AccountCurrentLiabilities    = "유동부채"
	AccountNonCurrentLiabilities = "비유동부채"
	AccountTotalEquity           = "자본총계"
)

// derivation describes one "total minus current" account.
type derivation struct {
	target  string
	total   string
	current string
}

var balanceSheetDerivations = []derivation{
	{target: AccountNonCurrentAssets, total: AccountTotalAssets, current: AccountCurrentAssets},
	{target: AccountNonCurrentLiabilities, total: AccountTotalLiabilities, current: AccountCurrentLiabilities},
}

type accountSynthesizerImpl struct{}

func NewAccountSynthesizer() AccountSynthesizer {
	return &accountSynthesizerImpl{}
}

// Synthesize adds 비유동자산 and 비유동부채 to the balance sheet when the filing
// omits them but reports the matching total. A missing current account counts as 0.
func (s *accountSynthesizerImpl) Synthesize(report *models.FinancialReport) {
	bs := report.Statement(models.StatementBalanceSheet)
	if bs == nil {
		return
	}

	for _, d := range balanceSheetDerivations {
		if _, exists := bs.Find(d.target); exists {
			continue
		}
		total, ok := bs.Find(d.total)
		if !ok || total.CurrentAmount == nil {
			continue
		}

		derived := models.Account{
			Name:        d.target,
			Order:       total.Order,
			Currency:    total.Currency,
			Synthesized: true,
		}

		current, hasCurrent := bs.Find(d.current)
		var cur models.Account
		if hasCurrent {
			cur = *current
			derived.Order = current.Order
		}
		derived.CurrentAmount = subtract(total.CurrentAmount, cur.CurrentAmount)
		derived.CurrentAddAmount = subtract(total.CurrentAddAmount, cur.CurrentAddAmount)
		derived.PreviousAmount = subtract(total.PreviousAmount, cur.PreviousAmount)
		derived.PreviousAddAmount = subtract(total.PreviousAddAmount, cur.PreviousAddAmount)
		derived.PriorPreviousAmount = subtract(total.PriorPreviousAmount, cur.PriorPreviousAmount)

		anchor := d.total
		if hasCurrent {
			anchor = d.current
		}
		bs.Accounts = insertAfter(bs.Accounts, anchor, derived)
	}
}

// subtract returns total - current, treating a nil current as 0. A nil total yields nil.
func subtract(total, current *float64) *float64 {
	if total == nil {
		return nil
	}
	v := *total
	if current != nil {
		v -= *current
	}
	return &v
}

// insertAfter places acc right after the first account named anchor. The new
// account shares the anchor's order so the statement stays sorted.
func insertAfter(accounts []models.Account, anchor string, acc models.Account) []models.Account {
	idx := len(accounts)
	for i := range accounts {
		if accounts[i].Name == anchor {
			idx = i + 1
			break
		}
	}
	accounts = append(accounts, models.Account{})
	copy(accounts[idx+1:], accounts[idx:])
	accounts[idx] = acc
	return accounts
}

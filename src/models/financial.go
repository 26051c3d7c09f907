package models

// Statement division codes as delivered in fs_div.
const (
	DivisionConsolidated = "CFS"
	DivisionSeparate     = "OFS"
)

// Statement type keys as delivered in sj_div.
const (
	StatementBalanceSheet        = "BS"
	StatementIncome              = "IS"
	StatementComprehensiveIncome = "CIS"
	StatementCashFlow            = "CF"
	StatementChangesInEquity     = "SCE"
)

// LineItem is one row of the single-company key-account report (fnlttSinglAcnt).
// Every value arrives as a string; amounts carry grouping commas.
type LineItem struct {
	ReceiptNo           string `json:"rcept_no"`
	CorpCode            string `json:"corp_code"`
	StockCode           string `json:"stock_code"`
	BusinessYear        string `json:"bsns_year"`
	ReportCode          string `json:"reprt_code"`
	AccountName         string `json:"account_nm"`
	Division            string `json:"fs_div"`
	DivisionName        string `json:"fs_nm"`
	StatementType       string `json:"sj_div"`
	StatementName       string `json:"sj_nm"`
	CurrentTermName     string `json:"thstrm_nm"`
	CurrentTermDate     string `json:"thstrm_dt"`
	CurrentAmount       string `json:"thstrm_amount"`
	CurrentAddAmount    string `json:"thstrm_add_amount"`
	PreviousTermName    string `json:"frmtrm_nm"`
	PreviousTermDate    string `json:"frmtrm_dt"`
	PreviousAmount      string `json:"frmtrm_amount"`
	PreviousAddAmount   string `json:"frmtrm_add_amount"`
	PriorPreviousName   string `json:"bfefrmtrm_nm"`
	PriorPreviousDate   string `json:"bfefrmtrm_dt"`
	PriorPreviousAmount string `json:"bfefrmtrm_amount"`
	Order               string `json:"ord"`
	Currency            string `json:"currency"`
}

// Account is a normalized line item. Amounts are nil when the filing omits them.
type Account struct {
	Name                string   `json:"name"`
	Order               int      `json:"order"`
	CurrentAmount       *float64 `json:"currentAmount"`
	CurrentAddAmount    *float64 `json:"currentAddAmount"`
	PreviousAmount      *float64 `json:"previousAmount"`
	PreviousAddAmount   *float64 `json:"previousAddAmount"`
	PriorPreviousAmount *float64 `json:"priorPreviousAmount"`
	Currency            string   `json:"currency"`
	Synthesized         bool     `json:"synthesized,omitempty"`
}

// Statement groups the accounts of one sj_div, sorted by Order.
type Statement struct {
	Title    string    `json:"title"`
	Accounts []Account `json:"accounts"`
}

// Find returns the first account whose name equals name exactly.
func (s *Statement) Find(name string) (*Account, bool) {
	if s == nil {
		return nil, false
	}
	for i := range s.Accounts {
		if s.Accounts[i].Name == name {
			return &s.Accounts[i], true
		}
	}
	return nil, false
}

// CompanyInfo describes the filing a report was built from.
// Every field is optional so an empty report serializes as {}.
type CompanyInfo struct {
	CorporationCode       string `json:"corporationCode,omitempty"`
	StockCode             string `json:"stockCode,omitempty"`
	BusinessYear          string `json:"businessYear,omitempty"`
	ReportCode            string `json:"reportCode,omitempty"`
	ReportName            string `json:"reportName,omitempty"`
	StatementType         string `json:"statementType,omitempty"`
	StatementName         string `json:"statementName,omitempty"`
	CurrentTermName       string `json:"currentTermName,omitempty"`
	CurrentTermDate       string `json:"currentTermDate,omitempty"`
	PreviousTermName      string `json:"previousTermName,omitempty"`
	PreviousTermDate      string `json:"previousTermDate,omitempty"`
	PriorPreviousTermName string `json:"priorPreviousTermName,omitempty"`
	PriorPreviousTermDate string `json:"priorPreviousTermDate,omitempty"`
}

// FinancialRatios are percentages. A nil field means the ratio could not be computed.
type FinancialRatios struct {
	ROE             *float64 `json:"roe"`
	ROA             *float64 `json:"roa"`
	OperatingMargin *float64 `json:"operatingMargin"`
	NetMargin       *float64 `json:"netMargin"`
	DebtRatio       *float64 `json:"debtRatio"`
	DebtToEquity    *float64 `json:"debtToEquity"`
}

// FinancialReport is the normalized view of one company/period/report request.
// It is built per request and never stored.
type FinancialReport struct {
	CompanyInfo CompanyInfo           `json:"companyInfo"`
	Statements  map[string]*Statement `json:"statements"`
	Ratios      *FinancialRatios      `json:"ratios,omitempty"`
}

// NewFinancialReport returns the empty report: {companyInfo: {}, statements: {}}.
func NewFinancialReport() *FinancialReport {
	return &FinancialReport{Statements: make(map[string]*Statement)}
}

// Statement returns the statement stored under key, or nil.
func (r *FinancialReport) Statement(key string) *Statement {
	if r == nil || r.Statements == nil {
		return nil
	}
	return r.Statements[key]
}

// IsEmpty reports whether the report carries no statements at all.
func (r *FinancialReport) IsEmpty() bool {
	return r == nil || len(r.Statements) == 0
}

package models

// Company is one row of the corp-code lookup table.
type Company struct {
	CorpCode    string `json:"corp_code"`
	CorpName    string `json:"corp_name"`
	CorpEngName string `json:"corp_eng_name"`
	StockCode   string `json:"stock_code"`
	ModifyDate  string `json:"modify_date"`
}

// IsListed reports whether the company carries a stock code.
func (c Company) IsListed() bool {
	return c.StockCode != ""
}

// CompanyOverview is the company.json payload.
type CompanyOverview struct {
	CorpCode      string `json:"corp_code"`
	CorpName      string `json:"corp_name"`
	CorpNameEng   string `json:"corp_name_eng"`
	StockName     string `json:"stock_name"`
	StockCode     string `json:"stock_code"`
	CEOName       string `json:"ceo_nm"`
	CorpClass     string `json:"corp_cls"`
	JurirNo       string `json:"jurir_no"`
	BizrNo        string `json:"bizr_no"`
	Address       string `json:"adres"`
	HomepageURL   string `json:"hm_url"`
	IRURL         string `json:"ir_url"`
	PhoneNo       string `json:"phn_no"`
	FaxNo         string `json:"fax_no"`
	IndustryCode  string `json:"induty_code"`
	EstablishedAt string `json:"est_dt"`
	AccountMonth  string `json:"acc_mt"`
}

// DisclosureQuery holds the list.json filters the dashboard exposes.
type DisclosureQuery struct {
	CorpCode  string
	BeginDate string // YYYYMMDD
	EndDate   string // YYYYMMDD
	Type      string // pblntf_ty, e.g. A for periodic reports
	PageNo    int
	PageCount int
}

// Disclosure is one filing in a list.json page.
type Disclosure struct {
	CorpCode    string `json:"corp_code"`
	CorpName    string `json:"corp_name"`
	StockCode   string `json:"stock_code"`
	CorpClass   string `json:"corp_cls"`
	ReportName  string `json:"report_nm"`
	ReceiptNo   string `json:"rcept_no"`
	FilerName   string `json:"flr_nm"`
	ReceiptDate string `json:"rcept_dt"`
	Remark      string `json:"rm"`
}

// DisclosurePage is a page of disclosures.
type DisclosurePage struct {
	PageNo     int          `json:"page_no"`
	PageCount  int          `json:"page_count"`
	TotalCount int          `json:"total_count"`
	TotalPage  int          `json:"total_page"`
	List       []Disclosure `json:"list"`
}

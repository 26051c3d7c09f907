package processors

import (
	"fmt"

	"github.com/username/dartviewer/backend/src/security/validation"
)

// OpenDART reprt_code values.
const (
	ReportCodeAnnual     = "11011"
	ReportCodeSemiannual = "11012"
	ReportCodeQ1         = "11013"
	ReportCodeQ3         = "11014"
)

const UnknownReportName = "알 수 없는 보고서"

var reportNames = map[string]string{
	ReportCodeAnnual:     "사업보고서",
	ReportCodeSemiannual: "반기보고서",
	ReportCodeQ1:         "1분기보고서",
	ReportCodeQ3:         "3분기보고서",
}

// The fourth quarter is covered by the annual report.
var quarterReportCodes = map[int]string{
	1: ReportCodeQ1,
	2: ReportCodeSemiannual,
	3: ReportCodeQ3,
	4: ReportCodeAnnual,
}

// ReportName returns the Korean label of a report code.
func ReportName(code string) string {
	if name, ok := reportNames[code]; ok {
		return name
	}
	return UnknownReportName
}

// ReportCodeForQuarter maps quarter 1-4 to the report that covers it.
func ReportCodeForQuarter(quarter int) (string, error) {
	code, ok := quarterReportCodes[quarter]
	if !ok {
		return "", fmt.Errorf("%w: quarter must be between 1 and 4, got %d", validation.ErrValidationFailed, quarter)
	}
	return code, nil
}

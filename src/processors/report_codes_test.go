package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/dartviewer/backend/src/security/validation"
)

func TestReportName(t *testing.T) {
	assert.Equal(t, "사업보고서", ReportName("11011"))
	assert.Equal(t, "반기보고서", ReportName("11012"))
	assert.Equal(t, "1분기보고서", ReportName("11013"))
	assert.Equal(t, "3분기보고서", ReportName("11014"))
	assert.Equal(t, UnknownReportName, ReportName("99999"))
	assert.Equal(t, UnknownReportName, ReportName(""))
}

func TestReportCodeForQuarter(t *testing.T) {
	expected := map[int]string{1: "11013", 2: "11012", 3: "11014", 4: "11011"}
	for quarter, want := range expected {
		code, err := ReportCodeForQuarter(quarter)
		require.NoError(t, err)
		assert.Equal(t, want, code, "quarter %d", quarter)
	}

	for _, quarter := range []int{0, 5, -1} {
		_, err := ReportCodeForQuarter(quarter)
		require.Error(t, err)
		assert.ErrorIs(t, err, validation.ErrValidationFailed)
	}
}

package corpcode

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<result>
    <list>
        <corp_code>00126380</corp_code>
        <corp_name>삼성전자</corp_name>
        <corp_eng_name>SAMSUNG ELECTRONICS CO,.LTD</corp_eng_name>
        <stock_code>005930</stock_code>
        <modify_date>20230110</modify_date>
    </list>
    <list>
        <corp_code>00434003</corp_code>
        <corp_name>다코</corp_name>
        <corp_eng_name>Daco corporation</corp_eng_name>
        <stock_code> </stock_code>
        <modify_date>20170630</modify_date>
    </list>
    <list>
        <corp_code></corp_code>
        <corp_name>broken</corp_name>
    </list>
</result>`

func zipOf(t *testing.T, name, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	require.NoError(t, err)
	_, err = w.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestParseXML(t *testing.T) {
	companies, err := NewParser().ParseXML(strings.NewReader(sampleXML))
	require.NoError(t, err)
	require.Len(t, companies, 2)

	assert.Equal(t, "00126380", companies[0].CorpCode)
	assert.Equal(t, "삼성전자", companies[0].CorpName)
	assert.Equal(t, "005930", companies[0].StockCode)
	assert.True(t, companies[0].IsListed())

	assert.Equal(t, "", companies[1].StockCode, "blank stock code is trimmed")
	assert.False(t, companies[1].IsListed())
}

func TestParseZip(t *testing.T) {
	data := zipOf(t, "corpcode.xml", sampleXML)

	companies, err := NewParser().ParseZip(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Len(t, companies, 2)
}

func TestParseZip_MissingEntry(t *testing.T) {
	data := zipOf(t, "other.xml", sampleXML)

	_, err := NewParser().ParseZip(bytes.NewReader(data), int64(len(data)))
	assert.ErrorIs(t, err, ErrXMLNotFound)
}

func TestParseZip_NotAZip(t *testing.T) {
	data := []byte("not a zip")
	_, err := NewParser().ParseZip(bytes.NewReader(data), int64(len(data)))
	assert.Error(t, err)
}

func TestParseJSON(t *testing.T) {
	input := `[
		{"corp_code":"00126380","corp_name":"삼성전자","corp_eng_name":"SAMSUNG","stock_code":"005930","modify_date":"20230110"},
		{"corp_code":"00434003","corp_name":" 다코 ","stock_code":""},
		{"corp_code":"","corp_name":"nameless"}
	]`

	companies, err := NewParser().ParseJSON(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, companies, 2)
	assert.Equal(t, "다코", companies[1].CorpName)
}

func TestParseJSON_Invalid(t *testing.T) {
	_, err := NewParser().ParseJSON(strings.NewReader(`{"not":"an array"}`))
	assert.Error(t, err)
}

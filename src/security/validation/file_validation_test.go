package validation

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectCorpCodeFormat(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"zip archive", "PK\x03\x04\x14\x00\x00\x00rest", CorpCodeFormatZip},
		{"xml declaration", `<?xml version="1.0" encoding="UTF-8"?><result></result>`, CorpCodeFormatXML},
		{"xml without declaration", "\n  <result><list></list></result>", CorpCodeFormatXML},
		{"json array", `[{"corp_code":"00126380"}]`, CorpCodeFormatJSON},
		{"json with BOM", "\xef\xbb\xbf  [ ]", CorpCodeFormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := bytes.NewReader([]byte(tt.content))
			got, err := DetectCorpCodeFormat(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			rest, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(rest), "reader is rewound")
		})
	}
}

func TestDetectCorpCodeFormat_Rejects(t *testing.T) {
	for name, content := range map[string][]byte{
		"empty":  {},
		"binary": {0x00, 0x01, 0x02, 0xff},
		"text":   []byte("corp_code,corp_name\n00126380,삼성전자\n"),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DetectCorpCodeFormat(bytes.NewReader(content))
			assert.ErrorIs(t, err, ErrValidationFailed)
		})
	}

	_, err := DetectCorpCodeFormat(nil)
	assert.Error(t, err)
}

func TestIsBinaryContent_SplitRune(t *testing.T) {
	text := []byte("삼성전자")
	assert.False(t, isBinaryContent(text[:len(text)-1]), "a rune cut by the sniff window is still text")
	assert.True(t, isBinaryContent([]byte{0xff, 0xfe, 0xfd, 0xfc, 0xfb}))
}

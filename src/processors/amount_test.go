package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *float64
	}{
		{name: "grouped thousands", input: "1,234", want: ptr(1234)},
		{name: "large grouped", input: "455,905,980,000,000", want: ptr(455905980000000)},
		{name: "negative", input: "-1,500", want: ptr(-1500)},
		{name: "decimal", input: "12.75", want: ptr(12.75)},
		{name: "surrounding whitespace", input: "  3,000 ", want: ptr(3000)},
		{name: "empty", input: "", want: nil},
		{name: "blank", input: "   ", want: nil},
		{name: "dash placeholder", input: "-", want: nil},
		{name: "text", input: "N/A", want: nil},
		{name: "nan literal", input: "NaN", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAmount(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestParseOrder(t *testing.T) {
	assert.Equal(t, 3, parseOrder("3"))
	assert.Equal(t, 12, parseOrder(" 12 "))
	assert.Equal(t, 0, parseOrder(""))
	assert.Equal(t, 0, parseOrder("abc"))
}

func ptr(v float64) *float64 { return &v }

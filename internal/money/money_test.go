package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndFormat(t *testing.T) {
	d, err := Parse("100.5")
	require.NoError(t, err)
	assert.Equal(t, "100.5000000", Format(d))
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse("not-a-number")
	assert.Error(t, err)
}

func TestIsPositive(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   bool
	}{
		{name: "positive", amount: "10", want: true},
		{name: "zero", amount: "0", want: false},
		{name: "negative", amount: "-5", want: false},
		{name: "malformed", amount: "abc", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPositive(tt.amount))
		})
	}
}

func TestFormatUsesFixedScale(t *testing.T) {
	d := decimal.NewFromFloat(1.0 / 3.0)
	out := Format(d)
	assert.Len(t, out[len(out)-OutputScale:], OutputScale)
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAssetKey(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		issuer string
		want   AssetKey
	}{
		{name: "normalizes code case", code: "usdc", issuer: "GABC", want: AssetKey{Code: "USDC", Issuer: "GABC"}},
		{name: "trims whitespace", code: " USDC ", issuer: " GABC ", want: AssetKey{Code: "USDC", Issuer: "GABC"}},
		{name: "empty issuer becomes native", code: "XLM", issuer: "", want: AssetKey{Code: "XLM", Issuer: NativeIssuer}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewAssetKey(tt.code, tt.issuer)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAssetKeyStringRoundTrip(t *testing.T) {
	k := NewAssetKey("USDC", "GABCDEF")
	parsed, err := ParseAssetKey(k.String())
	require.NoError(t, err)
	assert.True(t, k.Equal(parsed))
}

func TestParseAssetKeyInvalid(t *testing.T) {
	_, err := ParseAssetKey("no-colon-here")
	assert.Error(t, err)

	_, err = ParseAssetKey(":GABC")
	assert.Error(t, err)
}

func TestAssetKeyIsNative(t *testing.T) {
	native := NewAssetKey("XLM", "")
	assert.True(t, native.IsNative())

	credit := NewAssetKey("USDC", "GABCDEF")
	assert.False(t, credit.IsNative())
}

package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want int64
	}{
		{"currency prefix", "Rp 10.000", 10000},
		{"thousands dot", "5.600", 5600},
		{"millions", "1.250.000", 1250000},
		{"plain digits", "7500", 7500},
		{"prefix with dot", "Rp. 12.500", 12500},
		{"no space prefix", "Rp12.500", 12500},
		{"idr prefix", "IDR 3.000", 3000},
		{"trailing dash", "Rp 10.000,-", 10000},
		// a comma that is the last separator is the decimal marker and
		// fractions round half-up
		{"half rounds up", "10.000,50", 10001},
		{"below half rounds down", "10.000,49", 10000},
		{"above half rounds up", "2.000,75", 2001},
		{"english decimal", "10,000.50", 10001},
		{"comma thousands", "1,000,000", 1000000},
		{"single comma thousands", "Rp 5,000", 5000},
		{"single comma thousands no prefix", "10,000", 10000},
		{"comma decimal two digits", "10,50", 11},
		{"largest int64", "9223372036854775807", 9223372036854775807},
		{"negative", "-5.000", -5000},
		{"surrounding noise", " Rp 6.100 (promo) ", 6100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePrice(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePriceInvalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "Rp", "Rp -", "gratis", "...", "N/A"} {
		_, err := ParsePrice(in)
		assert.ErrorIs(t, err, ErrInvalidPrice, in)
	}
}

func TestParsePriceOutOfRange(t *testing.T) {
	t.Parallel()

	for _, in := range []string{
		"18446744073709556616",
		"Rp 18.446.744.073.709.556.616",
		"9223372036854775808",
	} {
		got, err := ParsePrice(in)
		assert.ErrorIs(t, err, ErrPriceOutOfRange, in)
		assert.Zero(t, got, in)
	}
}

func TestLooksLikePrice(t *testing.T) {
	t.Parallel()

	assert.True(t, looksLikePrice("5.800"))
	assert.True(t, looksLikePrice("Rp 10.000"))
	assert.True(t, looksLikePrice("Rp10.000,-"))
	assert.False(t, looksLikePrice("Telkomsel 5.000"))
	assert.False(t, looksLikePrice("Open"))
	assert.False(t, looksLikePrice("S5"))
	assert.False(t, looksLikePrice(""))
	assert.False(t, looksLikePrice("-"))
}

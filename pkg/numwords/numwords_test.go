package numwords

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/docgen-api/pkg/apperror"
)

func TestFromInt(t *testing.T) {
	tests := []struct {
		n        uint64
		expected string
	}{
		{0, "Zero"},
		{7, "Seven"},
		{19, "Nineteen"},
		{20, "Twenty"},
		{21, "Twenty One"},
		{100, "One Hundred"},
		{115, "One Hundred Fifteen"},
		{999, "Nine Hundred Ninety Nine"},
		{1000, "One Thousand"},
		{1005, "One Thousand Five"},
		{12345, "Twelve Thousand Three Hundred Forty Five"},
		{1000000, "One Million"},
		{2500300, "Two Million Five Hundred Thousand Three Hundred"},
		{1000000001, "One Billion One"},
		{2000000000000, "Two Thousand Billion"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FromInt(tt.n))
		})
	}
}

func TestConvert(t *testing.T) {
	t.Run("truncates the fraction", func(t *testing.T) {
		words, err := Convert(decimal.RequireFromString("99.9"))
		require.NoError(t, err)
		assert.Equal(t, "Ninety Nine", words)
	})

	t.Run("fraction below one is zero", func(t *testing.T) {
		words, err := Convert(decimal.RequireFromString("0.99"))
		require.NoError(t, err)
		assert.Equal(t, "Zero", words)
	})

	t.Run("vat inclusive total", func(t *testing.T) {
		words, err := Convert(decimal.NewFromInt(1150))
		require.NoError(t, err)
		assert.Equal(t, "One Thousand One Hundred Fifty", words)
	})

	t.Run("rejects negatives", func(t *testing.T) {
		_, err := Convert(decimal.NewFromInt(-1))
		require.Error(t, err)
		assert.True(t, apperror.HasReason(err, apperror.ReasonInvalidInput))
	})
}

func TestNoStraySeparators(t *testing.T) {
	for _, n := range []uint64{1, 10, 100, 1000, 10000, 100000, 1000000, 1000000000} {
		words := FromInt(n)
		assert.NotContains(t, words, "  ")
		assert.Equal(t, strings.TrimSpace(words), words)
	}
}

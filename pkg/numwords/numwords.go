// Package numwords spells whole monetary amounts as English words.
package numwords

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sangkips/docgen-api/pkg/apperror"
)

var belowTwenty = [...]string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = [...]string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

type scale struct {
	size uint64
	name string
}

// largest first
var scales = []scale{
	{1_000_000_000, "Billion"},
	{1_000_000, "Million"},
	{1_000, "Thousand"},
}

// Convert spells the integer part of amount. Fractions are truncated, not rounded.
func Convert(amount decimal.Decimal) (string, error) {
	if amount.IsNegative() {
		return "", apperror.NewInvalidInputError("amount", "must not be negative")
	}
	whole := amount.Truncate(0)
	if !whole.BigInt().IsUint64() {
		return "", apperror.NewInvalidInputError("amount", "is too large to spell")
	}
	return FromInt(whole.BigInt().Uint64()), nil
}

// FromInt spells n, returning "Zero" for 0.
func FromInt(n uint64) string {
	if n == 0 {
		return "Zero"
	}
	var b strings.Builder
	spell(&b, n)
	return b.String()
}

func spell(b *strings.Builder, n uint64) {
	switch {
	case n < 20:
		write(b, belowTwenty[n])
	case n < 100:
		write(b, tens[n/10])
		if n%10 != 0 {
			write(b, belowTwenty[n%10])
		}
	case n < 1000:
		write(b, belowTwenty[n/100])
		write(b, "Hundred")
		if n%100 != 0 {
			spell(b, n%100)
		}
	default:
		for _, s := range scales {
			if n >= s.size {
				spell(b, n/s.size)
				write(b, s.name)
				if n%s.size != 0 {
					spell(b, n%s.size)
				}
				return
			}
		}
	}
}

func write(b *strings.Builder, word string) {
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	b.WriteString(word)
}

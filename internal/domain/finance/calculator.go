// Package finance derives the totals printed on priced documents.
package finance

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sangkips/docgen-api/internal/domain/entity"
	"github.com/sangkips/docgen-api/pkg/apperror"
)

// VATRate is the value added tax applied to every priced document
var VATRate = decimal.RequireFromString("0.15")

// LineTotal is quantity times unit price
func LineTotal(quantity int, price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// VAT returns the tax on total, rounded up to the next whole unit
func VAT(total decimal.Decimal) decimal.Decimal {
	return total.Mul(VATRate).Ceil()
}

// Calculate validates items and sums item and sub-item line totals.
// An empty list yields an all-zero summary.
func Calculate(items []entity.LineItem) (entity.FinancialSummary, error) {
	if err := Validate(items); err != nil {
		return entity.FinancialSummary{}, err
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(LineTotal(item.Quantity, item.Price))
		for _, sub := range item.SubItems {
			total = total.Add(LineTotal(sub.Quantity, sub.Price))
		}
	}

	vat := VAT(total)
	return entity.FinancialSummary{
		TotalPrice:  total,
		VATAmount:   vat,
		FinalAmount: total.Add(vat),
	}, nil
}

// Validate rejects empty names, quantities below one and negative prices
func Validate(items []entity.LineItem) error {
	for i, item := range items {
		field := fmt.Sprintf("items[%d]", i)
		if err := validateLine(field, item.Name, item.Quantity, item.Price); err != nil {
			return err
		}
		for j, sub := range item.SubItems {
			subField := fmt.Sprintf("%s.subItems[%d]", field, j)
			if err := validateLine(subField, sub.Name, sub.Quantity, sub.Price); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateLine(field, name string, quantity int, price decimal.Decimal) error {
	if name == "" {
		return apperror.NewInvalidInputError(field+".name", "is required")
	}
	if quantity < 1 {
		return apperror.NewInvalidInputError(field+".quantity", "must be at least 1")
	}
	if price.IsNegative() {
		return apperror.NewInvalidInputError(field+".price", "must not be negative")
	}
	return nil
}

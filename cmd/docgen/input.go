package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sangkips/docgen-api/internal/domain/document"
	"github.com/sangkips/docgen-api/internal/domain/enum"
	"github.com/sangkips/docgen-api/internal/presentation/http/dto/request"
	"github.com/sangkips/docgen-api/pkg/apperror"
)

// documentFile is the on-disk JSON shape of one document. Items hold line
// items for priced variants and delivery items for delivery notes.
type documentFile struct {
	Number      string          `json:"number"`
	CompanyName string          `json:"companyName"`
	Date        string          `json:"date"`
	Items       json.RawMessage `json:"items"`
	Terms       []string        `json:"terms"`
	PreparedBy  string          `json:"preparedBy"`
	ReceivedBy  string          `json:"receivedBy"`
	Signature   string          `json:"signature"`
}

// loadInput reads a document file and maps it onto assembler input
func loadInput(path string, variant enum.DocumentVariant) (document.Input, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return document.Input{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return parseInput(raw, variant)
}

func parseInput(raw []byte, variant enum.DocumentVariant) (document.Input, error) {
	var file documentFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return document.Input{}, fmt.Errorf("invalid document JSON: %w", err)
	}

	number := strings.TrimSpace(file.Number)
	if number == "" {
		return document.Input{}, apperror.NewInvalidInputError("number", "is required")
	}
	company := strings.TrimSpace(file.CompanyName)
	if company == "" {
		return document.Input{}, apperror.NewInvalidInputError("companyName", "is required")
	}
	date, ok := request.ParseDate(file.Date)
	if !ok {
		return document.Input{}, apperror.NewInvalidInputError("date", "must be a date such as 2024-03-05")
	}

	in := document.Input{
		Variant: variant,
		Header: document.Header{
			CompanyName:    company,
			DocumentNumber: number,
			Date:           date,
			Terms:          file.Terms,
			PreparedBy:     file.PreparedBy,
			ReceivedBy:     file.ReceivedBy,
			SignatureRef:   file.Signature,
		},
	}

	if len(file.Items) == 0 {
		return in, nil
	}
	if variant.HasFinancials() {
		if err := json.Unmarshal(file.Items, &in.Items); err != nil {
			return document.Input{}, fmt.Errorf("invalid line items: %w", err)
		}
	} else {
		if err := json.Unmarshal(file.Items, &in.DeliveryItems); err != nil {
			return document.Input{}, fmt.Errorf("invalid delivery items: %w", err)
		}
	}
	return in, nil
}

// fileKind is the filename prefix used for a variant
func fileKind(variant enum.DocumentVariant) string {
	if variant == enum.DocumentVariantDeliveryNote {
		return "delivery"
	}
	return variant.String()
}

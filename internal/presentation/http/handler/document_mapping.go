package handler

import (
	"strings"

	"github.com/sangkips/docgen-api/internal/application/service"
	"github.com/sangkips/docgen-api/internal/domain/entity"
	"github.com/sangkips/docgen-api/internal/presentation/http/dto/request"
	"github.com/sangkips/docgen-api/pkg/apperror"
)

func toLineItems(items []request.LineItemRequest) []entity.LineItem {
	out := make([]entity.LineItem, len(items))
	for i, item := range items {
		subs := make([]entity.SubItem, len(item.SubItems))
		for j, sub := range item.SubItems {
			subs[j] = entity.SubItem{
				Name:     strings.TrimSpace(sub.Name),
				Quantity: sub.Quantity,
				Price:    sub.Price,
			}
		}
		out[i] = entity.LineItem{
			Name:     strings.TrimSpace(item.Name),
			Quantity: item.Quantity,
			Price:    item.Price,
			Image:    item.Image,
			SubItems: subs,
		}
	}
	return out
}

func toPricedInput(number, company, date string, items []request.LineItemRequest, terms []string) (*service.PricedDocumentInput, error) {
	parsed, ok := request.ParseDate(date)
	if !ok {
		return nil, apperror.NewInvalidInputError("date", "must be a date such as 2024-03-05")
	}
	return &service.PricedDocumentInput{
		Number:      number,
		CompanyName: company,
		Date:        parsed,
		Items:       toLineItems(items),
		Terms:       terms,
	}, nil
}

func quotationInput(req *request.QuotationRequest) (*service.PricedDocumentInput, error) {
	return toPricedInput(req.QuotationNumber, req.CompanyName, req.Date, req.Items, req.Terms)
}

func invoiceInput(req *request.InvoiceRequest) (*service.PricedDocumentInput, error) {
	return toPricedInput(req.InvoiceNumber, req.CompanyName, req.Date, req.Items, req.Terms)
}

func deliveryInput(req *request.DeliveryRequest) (*service.DeliveryInput, error) {
	parsed, ok := request.ParseDate(req.Date)
	if !ok {
		return nil, apperror.NewInvalidInputError("date", "must be a date such as 2024-03-05")
	}
	items := make([]entity.DeliveryItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = entity.DeliveryItem{
			Description: strings.TrimSpace(item.Description),
			Quantity:    item.Quantity,
		}
	}
	return &service.DeliveryInput{
		Number:      req.DeliveryNumber,
		CompanyName: req.CompanyName,
		Date:        parsed,
		Items:       items,
	}, nil
}

// Package htmlview renders assembled document models into standalone HTML
// pages for the rendering engine.
package htmlview

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sangkips/docgen-api/internal/domain/document"
	"github.com/sangkips/docgen-api/internal/domain/enum"
	"github.com/sangkips/docgen-api/internal/domain/finance"
)

//go:embed templates/*.html
var templateFS embed.FS

// AssetResolver turns an image reference into a loadable URL
type AssetResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// Branding holds the letterhead assets and currency marker printed on every document
type Branding struct {
	Name            string
	LogoRef         string
	SealRef         string
	FooterRef       string
	CurrencyIconRef string
	CurrencyLabel   string
}

type brandView struct {
	Name          string
	Logo          template.URL
	Seal          template.URL
	Footer        template.URL
	CurrencyIcon  template.URL
	CurrencyLabel string
}

type rowView struct {
	Kind      string
	Index     string
	Label     string
	Quantity  int
	UnitPrice string
	LineTotal string
	Image     template.URL
	Rowspan   int
}

type totalsView struct {
	TotalPrice   string
	VATAmount    string
	FinalAmount  string
	TotalInWords string
	FinalInWords string
	VATPercent   string
}

type pageView struct {
	RootClass   string
	Title       string
	NumberLabel string
	Number      string
	CompanyName string
	Date        string
	PreparedBy  string
	ReceivedBy  string
	Terms       []string
	Rows        []rowView
	Totals      *totalsView
	Signature   template.URL
	Brand       brandView
}

// Renderer produces HTML for document models
type Renderer struct {
	templates map[enum.DocumentVariant]*template.Template
	assets    AssetResolver
	brand     Branding
	rootClass string
}

// NewRenderer parses the embedded templates. rootSelector must be a class
// selector; its class is put on the page container.
func NewRenderer(assets AssetResolver, brand Branding, rootSelector string) (*Renderer, error) {
	rootClass := strings.TrimPrefix(rootSelector, ".")
	if rootClass == "" || strings.ContainsAny(rootClass, " .#[>") {
		return nil, fmt.Errorf("root selector %q must be a single class selector", rootSelector)
	}

	priced, err := template.ParseFS(templateFS, "templates/base.html", "templates/priced.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse priced templates: %w", err)
	}
	delivery, err := template.ParseFS(templateFS, "templates/base.html", "templates/delivery.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse delivery templates: %w", err)
	}

	return &Renderer{
		templates: map[enum.DocumentVariant]*template.Template{
			enum.DocumentVariantQuotation:    priced,
			enum.DocumentVariantInvoice:      priced,
			enum.DocumentVariantDeliveryNote: delivery,
		},
		assets:    assets,
		brand:     brand,
		rootClass: rootClass,
	}, nil
}

// Render resolves every image reference and executes the variant template
func (r *Renderer) Render(ctx context.Context, model *document.Model) (string, error) {
	tmpl, ok := r.templates[model.Variant]
	if !ok {
		return "", fmt.Errorf("no template for variant %s", model.Variant)
	}

	view, err := r.view(ctx, model)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", view); err != nil {
		return "", fmt.Errorf("failed to execute %s template: %w", model.Variant, err)
	}
	return buf.String(), nil
}

func (r *Renderer) view(ctx context.Context, model *document.Model) (*pageView, error) {
	brand, err := r.brandView(ctx)
	if err != nil {
		return nil, err
	}
	signature, err := r.resolve(ctx, model.Header.SignatureRef)
	if err != nil {
		return nil, err
	}

	rows := make([]rowView, len(model.Plan.Rows))
	for i, row := range model.Plan.Rows {
		image, err := r.resolve(ctx, row.Image)
		if err != nil {
			return nil, fmt.Errorf("item %s image: %w", row.Index, err)
		}
		rows[i] = rowView{
			Kind:      row.Kind.String(),
			Index:     row.Index,
			Label:     row.Label(),
			Quantity:  row.Quantity,
			UnitPrice: FormatMoney(row.UnitPrice),
			LineTotal: FormatMoney(row.LineTotal),
			Image:     image,
			Rowspan:   row.Rowspan,
		}
	}

	view := &pageView{
		RootClass:   r.rootClass,
		Title:       model.Title,
		NumberLabel: model.NumberLabel,
		Number:      model.Header.DocumentNumber,
		CompanyName: model.Header.CompanyName,
		Date:        model.DateText,
		PreparedBy:  model.Header.PreparedBy,
		ReceivedBy:  model.Header.ReceivedBy,
		Terms:       model.Header.Terms,
		Rows:        rows,
		Signature:   signature,
		Brand:       brand,
	}
	if t := model.Totals; t != nil {
		view.Totals = &totalsView{
			TotalPrice:   FormatMoney(t.TotalPrice),
			VATAmount:    FormatMoney(t.VATAmount),
			FinalAmount:  FormatMoney(t.FinalAmount),
			TotalInWords: t.TotalInWords,
			FinalInWords: t.FinalInWords,
			VATPercent:   finance.VATRate.Shift(2).String(),
		}
	}
	return view, nil
}

func (r *Renderer) brandView(ctx context.Context) (brandView, error) {
	view := brandView{Name: r.brand.Name, CurrencyLabel: r.brand.CurrencyLabel}
	refs := []struct {
		ref string
		dst *template.URL
	}{
		{r.brand.LogoRef, &view.Logo},
		{r.brand.SealRef, &view.Seal},
		{r.brand.FooterRef, &view.Footer},
		{r.brand.CurrencyIconRef, &view.CurrencyIcon},
	}
	for _, item := range refs {
		url, err := r.resolve(ctx, item.ref)
		if err != nil {
			return brandView{}, fmt.Errorf("branding asset %s: %w", item.ref, err)
		}
		*item.dst = url
	}
	return view, nil
}

// resolved URLs come from the asset store or from authenticated users, so
// they are trusted as image sources
func (r *Renderer) resolve(ctx context.Context, ref string) (template.URL, error) {
	if ref == "" || r.assets == nil {
		return template.URL(ref), nil
	}
	url, err := r.assets.Resolve(ctx, ref)
	if err != nil {
		return "", err
	}
	return template.URL(url), nil
}

// FormatMoney prints an amount with two decimals and thousands separators
func FormatMoney(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return sign + b.String() + "." + frac
}
